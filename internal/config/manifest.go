package config

import (
	"fmt"
	"io/fs"
	"path"
	"slices"

	"github.com/BurntSushi/toml"
)

// Manifest lists the tablets to serve, in catalog order. Optional fields
// override the matching Config values.
//
//	paths = ["registry/ownership.rs", "registry/strings.rs"]
//	separator = "-----"
type Manifest struct {
	Paths        []string `toml:"paths"`
	Separator    string   `toml:"separator"`
	Fence        string   `toml:"fence"`
	FenceAliases []string `toml:"fence_aliases"`
}

// LoadManifest decodes the TOML manifest at p.
func LoadManifest(p string) (Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(p, &m)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", p, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Manifest{}, fmt.Errorf("%s: unknown key %q", p, undecoded[0].String())
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", p, err)
	}
	return m, nil
}

// Validate checks that every path is usable inside an fs.FS.
func (m Manifest) Validate() error {
	if len(m.Paths) == 0 {
		return fmt.Errorf("paths must list at least one tablet")
	}
	seen := make(map[string]bool, len(m.Paths))
	for _, p := range m.Paths {
		clean := path.Clean(p)
		if p == "" || clean == "." || !fs.ValidPath(clean) {
			return fmt.Errorf("invalid tablet path %q", p)
		}
		if seen[clean] {
			return fmt.Errorf("duplicate tablet path %q", p)
		}
		seen[clean] = true
	}
	return nil
}

// CleanPaths returns the manifest paths in the slash-separated form fs.FS expects.
func (m Manifest) CleanPaths() []string {
	out := make([]string, len(m.Paths))
	for i, p := range m.Paths {
		out[i] = path.Clean(p)
	}
	return out
}

// Apply returns cfg with the manifest's overrides applied.
func (m Manifest) Apply(cfg Config) Config {
	if m.Separator != "" {
		cfg.Separator = m.Separator
	}
	if m.Fence != "" {
		cfg.Fence = m.Fence
	}
	if m.FenceAliases != nil {
		cfg.FenceAliases = slices.Clone(m.FenceAliases)
	}
	return cfg
}
