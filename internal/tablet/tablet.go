package tablet

import (
	"fmt"
	"path"
	"strings"
)

// Tablet addresses a whole document, or part of one, by path and an
// inclusive, zero-based line range. It owns no content; the file behind
// Path is read on demand.
type Tablet struct {
	path  string
	start int
	end   int
}

// Shard is a single note inside a Tablet. It has the same shape as a Tablet,
// only with a narrower range.
type Shard = Tablet

// New builds a Tablet over lines start..end of the file at p.
func New(p string, start, end int) (Tablet, error) {
	if start < 0 || end < start {
		return Tablet{}, fmt.Errorf("%w: %s:%d-%d", ErrInvalidRange, p, start, end)
	}
	return Tablet{path: p, start: start, end: end}, nil
}

// Path returns the slash-separated location of the file inside its filesystem.
func (t Tablet) Path() string { return t.path }

// Start is the first line to read.
func (t Tablet) Start() int { return t.start }

// End is the last line to read.
func (t Tablet) End() int { return t.end }

// Length returns the number of addressed lines.
func (t Tablet) Length() int {
	if t.end < t.start {
		return 0
	}
	return t.end - t.start + 1
}

// Empty reports whether the range addresses no lines.
func (t Tablet) Empty() bool { return t.end < t.start }

// Name returns the file name without its extension, e.g. "example" for
// "a/b/example.md".
func (t Tablet) Name() (string, error) {
	p := strings.TrimRight(t.path, "/")
	if p == "" {
		return "", fmt.Errorf("%w: %q", ErrBrokenName, t.path)
	}
	base := path.Base(p)
	if base == "." || base == ".." || base == "/" {
		return "", fmt.Errorf("%w: %q", ErrBrokenName, t.path)
	}
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "" {
		// Dotfiles like ".notes" keep their whole name.
		return base, nil
	}
	return stem, nil
}

// Address identifies the tablet as "name-start", the form shards are looked
// up by.
func (t Tablet) Address() (string, error) {
	name, err := t.Name()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d", name, t.start), nil
}

func (t Tablet) String() string {
	return fmt.Sprintf("%s:%d-%d", t.path, t.start, t.end)
}

// Within returns the sub-range start..end of t's document. The range must be
// non-empty and inside t.
func (t Tablet) Within(start, end int) (Shard, error) {
	if start < t.start || end > t.end || end < start {
		return Shard{}, fmt.Errorf("%w: %d-%d outside %s", ErrInvalidRange, start, end, t)
	}
	return Tablet{path: t.path, start: start, end: end}, nil
}
