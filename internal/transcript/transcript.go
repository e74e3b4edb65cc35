package transcript

import (
	"io/fs"
	"strings"

	"github.com/dgallion1/tablets/internal/tablet"
)

const (
	// DocMarker prefixes inner doc-comment lines in tablet sources.
	DocMarker = "//!"

	// DefaultFence is the code fence special example blocks are rewritten to.
	DefaultFence = "```rust"
)

// DefaultFenceAliases lists the fence annotations for examples that are not
// meant to run as-is.
var DefaultFenceAliases = []string{"```should_panic", "```no_run"}

// Config controls line normalization.
type Config struct {
	Fence        string   // Replacement code fence.
	FenceAliases []string // Fence annotations replaced by Fence, in order. Nil means the defaults, empty means none.
}

// DefaultConfig returns the stock normalization rules.
func DefaultConfig() Config {
	return Config{
		Fence:        DefaultFence,
		FenceAliases: append([]string(nil), DefaultFenceAliases...),
	}
}

// Transcriptor reads tablets and shards as markdown.
type Transcriptor struct {
	fsys fs.FS
	cfg  Config
}

// New returns a Transcriptor reading from fsys.
func New(fsys fs.FS, cfg Config) *Transcriptor {
	if cfg.Fence == "" {
		cfg.Fence = DefaultFence
	}
	if cfg.FenceAliases == nil {
		cfg.FenceAliases = append([]string(nil), DefaultFenceAliases...)
	}
	return &Transcriptor{fsys: fsys, cfg: cfg}
}

// FormatLine normalizes one source line: the doc marker is removed, special
// fences are rewritten and surrounding whitespace is trimmed.
func (tr *Transcriptor) FormatLine(line string) string {
	line = strings.ReplaceAll(line, DocMarker, "")
	for _, alias := range tr.cfg.FenceAliases {
		if alias == "" {
			continue
		}
		line = strings.ReplaceAll(line, alias, tr.cfg.Fence)
	}
	return strings.TrimSpace(line)
}

// Read returns the lines addressed by t as one markdown string. Nothing is
// returned unless every line could be read.
func (tr *Transcriptor) Read(t tablet.Tablet) (string, error) {
	var contents strings.Builder
	err := tablet.Scan(tr.fsys, t, func(_ int, line string) error {
		contents.WriteString(tr.FormatLine(line))
		contents.WriteByte('\n')
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(contents.String()), nil
}
