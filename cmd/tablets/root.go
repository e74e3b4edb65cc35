package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dgallion1/tablets/internal/config"
	"github.com/dgallion1/tablets/internal/registry"
	"github.com/dgallion1/tablets/internal/segment"
	"github.com/dgallion1/tablets/internal/transcript"
)

// app carries everything a subcommand needs once flags are resolved.
type app struct {
	cfg   config.Config
	log   *slog.Logger
	reg   *registry.Registry
	tr    *transcript.Transcriptor
	color bool
}

func newRootCmd(cfg config.Config, log *slog.Logger) *cobra.Command {
	a := &app{cfg: cfg, log: log}

	root := &cobra.Command{
		Use:           "tablets",
		Short:         "Read-only access to tablets and their shards",
		Long:          `tablets lists, splits and renders the notes named in a tablets.toml manifest`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("root", cfg.Root, "directory tablet paths are relative to")
	flags.String("manifest", cfg.Manifest, "TOML manifest listing tablet paths")
	flags.String("separator", cfg.Separator, "token marking a shard boundary")
	flags.String("on-error", cfg.OnError, "unreadable tablet policy (abort|skip)")
	flags.String("color", "auto", "colorize output (auto|on|off)")

	root.AddCommand(
		newCatalogCmd(a),
		newHeapCmd(a),
		newReadCmd(a),
		newDumpCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup applies flag overrides, loads the manifest and wires the registry.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	cfg := a.cfg
	for name, dst := range map[string]*string{
		"root":      &cfg.Root,
		"manifest":  &cfg.Manifest,
		"separator": &cfg.Separator,
		"on-error":  &cfg.OnError,
	} {
		if flags.Changed(name) {
			v, err := flags.GetString(name)
			if err != nil {
				return fmt.Errorf("failed to get %s flag: %w", name, err)
			}
			*dst = v
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	manifestPath := cfg.Manifest
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(cfg.Root, manifestPath)
	}
	m, err := config.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	// An explicit --separator beats the manifest.
	sep := cfg.Separator
	cfg = m.Apply(cfg)
	if flags.Changed("separator") {
		cfg.Separator = sep
	}

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	a.color = useColor(colorFlag, os.Stdout)

	fsys := os.DirFS(cfg.Root)
	a.cfg = cfg
	a.tr = transcript.New(fsys, cfg.TranscriptConfig())
	a.reg = registry.New(fsys, m.CleanPaths(),
		registry.WithSegmenter(segment.New(fsys, cfg.SegmentConfig())),
		registry.WithLogger(a.log),
		registry.WithPolicy(cfg.Policy()),
	)

	a.log.Debug("registry ready",
		"root", cfg.Root,
		"manifest", manifestPath,
		"tablets", len(m.Paths),
		"separator", cfg.Separator,
	)
	return nil
}

func useColor(flag string, f *os.File) bool {
	switch flag {
	case "on":
		return true
	case "off":
		return false
	default:
		return term.IsTerminal(int(f.Fd()))
	}
}

// paint returns c, disabled unless the app writes in color.
func (a *app) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if a.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tablets version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tablets %s\n", version)
		},
	}
}
