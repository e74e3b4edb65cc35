package segment

import (
	"io/fs"
	"iter"
	"strings"

	"github.com/dgallion1/tablets/internal/tablet"
)

// DefaultSeparator marks the boundary between two shards of a tablet.
const DefaultSeparator = "-----"

// Config controls segmentation behavior.
type Config struct {
	Separator string // Lines containing this token split shards.
}

// DefaultConfig returns the default separator settings.
func DefaultConfig() Config {
	return Config{Separator: DefaultSeparator}
}

// Segmenter splits tablets into shards on separator lines. Results are never
// cached: every call reads the file again.
type Segmenter struct {
	fsys fs.FS
	cfg  Config
}

// New returns a Segmenter reading tablets from fsys.
func New(fsys fs.FS, cfg Config) *Segmenter {
	if cfg.Separator == "" {
		cfg.Separator = DefaultSeparator
	}
	return &Segmenter{fsys: fsys, cfg: cfg}
}

// Separator returns the token this Segmenter splits on.
func (s *Segmenter) Separator() string {
	return s.cfg.Separator
}

// IsSeparator checks if a line marks a shard boundary.
func (s *Segmenter) IsSeparator(line string) bool {
	return strings.Contains(line, s.cfg.Separator)
}

// Segment returns the shards of t in source order. Separator lines belong to
// no shard, and ranges left empty by leading, trailing or repeated separators
// are dropped, so together with the separator lines the shards cover t exactly.
func (s *Segmenter) Segment(t tablet.Tablet) ([]tablet.Shard, error) {
	var shards []tablet.Shard
	ptr := t.Start()

	push := func(start, end int) error {
		if end < start {
			return nil
		}
		sh, err := t.Within(start, end)
		if err != nil {
			return err
		}
		shards = append(shards, sh)
		return nil
	}

	err := tablet.Scan(s.fsys, t, func(i int, line string) error {
		if !s.IsSeparator(line) {
			return nil
		}
		if err := push(ptr, i-1); err != nil {
			return err
		}
		ptr = i + 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := push(ptr, t.End()); err != nil {
		return nil, err
	}
	return shards, nil
}

// Shards yields the shards of t lazily. The file is read when iteration
// starts, and again for every new iteration. On failure a single zero Shard
// is yielded with the error.
func (s *Segmenter) Shards(t tablet.Tablet) iter.Seq2[tablet.Shard, error] {
	return func(yield func(tablet.Shard, error) bool) {
		shards, err := s.Segment(t)
		if err != nil {
			yield(tablet.Shard{}, err)
			return
		}
		for _, sh := range shards {
			if !yield(sh, nil) {
				return
			}
		}
	}
}
