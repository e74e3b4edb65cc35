package registry

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dgallion1/tablets/internal/segment"
	"github.com/dgallion1/tablets/internal/tablet"
)

// ErrNotFound is returned when no tablet or shard matches a lookup.
var ErrNotFound = errors.New("tablet not found")

// Policy decides what happens when a single tablet cannot be read.
type Policy string

const (
	PolicyAbort Policy = "abort" // Return the first error.
	PolicySkip  Policy = "skip"  // Log the error and leave the tablet out.
)

// ParsePolicy maps a configuration value onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown error policy: %s", s)
	}
}

// Registry is the collection of every known tablet and, through its
// segmenter, every shard.
type Registry struct {
	fsys   fs.FS
	paths  []string
	seg    *segment.Segmenter
	log    *slog.Logger
	policy Policy
}

// Option configures a Registry.
type Option func(*Registry)

// WithSegmenter sets the segmenter used to split tablets into shards.
func WithSegmenter(s *segment.Segmenter) Option {
	return func(r *Registry) { r.seg = s }
}

// WithLogger sets the logger skipped tablets are reported to.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// WithPolicy sets the per-tablet error policy.
func WithPolicy(p Policy) Option {
	return func(r *Registry) { r.policy = p }
}

// New creates a registry over the tablets at paths, in that order.
func New(fsys fs.FS, paths []string, opts ...Option) *Registry {
	r := &Registry{
		fsys:   fsys,
		paths:  append([]string(nil), paths...),
		policy: PolicyAbort,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.seg == nil {
		r.seg = segment.New(fsys, segment.DefaultConfig())
	}
	if r.log == nil {
		r.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Paths returns the configured tablet paths.
func (r *Registry) Paths() []string {
	return append([]string(nil), r.paths...)
}

// Catalog returns a whole-document Tablet for every configured path.
func (r *Registry) Catalog() ([]tablet.Tablet, error) {
	tablets := make([]tablet.Tablet, 0, len(r.paths))
	for _, p := range r.paths {
		t, err := tablet.Whole(r.fsys, p)
		if err != nil {
			if r.skip(p, err) {
				continue
			}
			return nil, fmt.Errorf("catalog: %w", err)
		}
		tablets = append(tablets, t)
	}
	return tablets, nil
}

// Heap returns every shard of every tablet, tablet by tablet in catalog order.
func (r *Registry) Heap() ([]tablet.Shard, error) {
	tablets, err := r.Catalog()
	if err != nil {
		return nil, err
	}

	var shards []tablet.Shard
	for _, t := range tablets {
		s, err := r.seg.Segment(t)
		if err != nil {
			if r.skip(t.Path(), err) {
				continue
			}
			return nil, fmt.Errorf("heap: %w", err)
		}
		shards = append(shards, s...)
	}
	return shards, nil
}

// Shards returns the shards of a single tablet.
func (r *Registry) Shards(t tablet.Tablet) ([]tablet.Shard, error) {
	return r.seg.Segment(t)
}

// Lookup returns the first tablet named name.
func (r *Registry) Lookup(name string) (tablet.Tablet, error) {
	tablets, err := r.Catalog()
	if err != nil {
		return tablet.Tablet{}, err
	}
	for _, t := range tablets {
		n, err := t.Name()
		if err != nil {
			continue
		}
		if n == name {
			return t, nil
		}
	}
	return tablet.Tablet{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Resolve finds a tablet by name, or a shard by "name-line" where line is the
// shard's first line written in canonical decimal. A tablet whose full name
// matches wins over a shard address.
func (r *Registry) Resolve(address string) (tablet.Tablet, error) {
	t, err := r.Lookup(address)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return t, err
	}

	i := strings.LastIndex(address, "-")
	if i <= 0 {
		return tablet.Tablet{}, err
	}
	digits := address[i+1:]
	line, convErr := strconv.Atoi(digits)
	if convErr != nil || strconv.Itoa(line) != digits {
		return tablet.Tablet{}, err
	}

	parent, err := r.Lookup(address[:i])
	if err != nil {
		return tablet.Tablet{}, err
	}
	shards, err := r.seg.Segment(parent)
	if err != nil {
		return tablet.Tablet{}, err
	}
	for _, sh := range shards {
		if sh.Start() == line {
			return sh, nil
		}
	}
	return tablet.Tablet{}, fmt.Errorf("%w: %s", ErrNotFound, address)
}

func (r *Registry) skip(path string, err error) bool {
	if r.policy != PolicySkip {
		return false
	}
	r.log.Warn("skipping unreadable tablet", "path", path, "error", err)
	return true
}
