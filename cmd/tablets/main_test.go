package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/dgallion1/tablets/internal/config"
	"github.com/dgallion1/tablets/internal/registry"
)

// writeTree lays out a tablet root with a manifest and returns its path.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func sampleTree(t *testing.T) string {
	return writeTree(t, map[string]string{
		"tablets.toml": `paths = ["notes/foo.rs", "notes/strings.rs"]`,
		"notes/foo.rs": "// intro\n-----\nbody line\n",
		"notes/strings.rs": strings.Join([]string{
			"//! # Strings",
			"//! Strings are evil!",
			"//! -----",
			"//! ```no_run",
			"//! let s = \"x\";",
			"//! ```",
		}, "\n") + "\n",
	})
}

func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	cfg := config.Config{
		Root:      root,
		Manifest:  "tablets.toml",
		Separator: "-----",
		OnError:   "abort",
		LogLevel:  "info",
		LogFormat: "text",
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cmd := newRootCmd(cfg, log)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogCmd_JSON(t *testing.T) {
	out, err := run(t, sampleTree(t), "catalog", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entries []entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "foo" || entries[0].Start != 0 || entries[0].End != 2 {
		t.Errorf("expected foo 0-2, got %+v", entries[0])
	}
	if entries[1].Path != "notes/strings.rs" || entries[1].Length != 6 {
		t.Errorf("expected notes/strings.rs with 6 lines, got %+v", entries[1])
	}
}

func TestCatalogCmd_Pretty(t *testing.T) {
	out, err := run(t, sampleTree(t), "catalog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "notes/foo.rs") {
		t.Errorf("expected table output, got %q", out)
	}
}

func TestCatalogCmd_ColorKeepsColumns(t *testing.T) {
	out, err := run(t, sampleTree(t), "--color", "on", "catalog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected colored header, got %q", out)
	}

	lines := strings.Split(out, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected header and rows, got %q", out)
	}
	header := regexp.MustCompile(`\x1b\[[0-9;]*m`).ReplaceAllString(lines[0], "")
	if strings.Contains(lines[1], "\x1b[") {
		t.Errorf("expected plain rows, got %q", lines[1])
	}
	if h, r := strings.Index(header, "PATH"), strings.Index(lines[1], "notes/foo.rs"); h != r {
		t.Errorf("expected PATH column at %d, got %d\n%s", r, h, out)
	}
}

func TestHeapCmd_Headings(t *testing.T) {
	out, err := run(t, sampleTree(t), "heap", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entries []entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	want := []struct {
		address string
		heading string
	}{
		{"foo-0", "// intro"},
		{"foo-2", "body line"},
		{"strings-0", "Strings"},
		{"strings-3", "```rust"},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d shards, got %d: %+v", len(want), len(entries), entries)
	}
	for i, w := range want {
		if entries[i].Address != w.address || entries[i].Heading != w.heading {
			t.Errorf("shard %d: expected %s %q, got %s %q", i, w.address, w.heading, entries[i].Address, entries[i].Heading)
		}
	}
}

func TestReadCmd(t *testing.T) {
	root := sampleTree(t)

	out, err := run(t, root, "read", "strings-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "```rust\nlet s = \"x\";\n```\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}

	out, err = run(t, root, "read", "strings", "--format", "html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<h1>Strings</h1>") {
		t.Errorf("expected html heading, got %q", out)
	}
}

func TestReadCmd_Errors(t *testing.T) {
	root := sampleTree(t)

	if _, err := run(t, root, "read", "missing"); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := run(t, root, "read", "foo", "--format", "pdf"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestDumpCmd(t *testing.T) {
	root := sampleTree(t)

	out, err := run(t, root, "dump")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "################# TABLET FOO #################") {
		t.Errorf("expected tablet banner, got %q", out)
	}
	if !strings.Contains(out, "[[// intro\n-----\nbody line]]") {
		t.Errorf("expected whole tablet contents, got %q", out)
	}

	out, err = run(t, root, "dump", "--shards")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "################# shard strings-3 #################") {
		t.Errorf("expected shard banner, got %q", out)
	}
}

func TestSkipPolicyFlag(t *testing.T) {
	root := writeTree(t, map[string]string{
		"tablets.toml": `paths = ["gone.rs", "here.rs"]`,
		"here.rs":      "//! here\n",
	})

	if _, err := run(t, root, "catalog"); err == nil {
		t.Fatal("expected abort policy to fail on missing tablet")
	}

	out, err := run(t, root, "--on-error", "skip", "catalog", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var entries []entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "here" {
		t.Errorf("expected only here.rs, got %+v", entries)
	}
}

func TestSeparatorFlagOverridesManifest(t *testing.T) {
	root := writeTree(t, map[string]string{
		"tablets.toml": "paths = [\"a.md\"]\nseparator = \"=====\"\n",
		"a.md":         "one\n=====\ntwo\n***\nthree\n",
	})

	out, err := run(t, root, "heap", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var entries []entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected manifest separator to give 2 shards, got %d", len(entries))
	}

	out, err = run(t, root, "--separator", "***", "heap", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries = nil
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(entries) != 2 || entries[1].Start != 4 {
		t.Errorf("expected flag separator to split at line 3, got %+v", entries)
	}
}

func TestMissingManifest(t *testing.T) {
	if _, err := run(t, t.TempDir(), "catalog"); err == nil {
		t.Error("expected error for missing manifest")
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "tablets dev\n" {
		t.Errorf("expected %q, got %q", "tablets dev\n", out)
	}
}

func TestSummary(t *testing.T) {
	long := strings.Repeat("x", 80)
	tests := []struct {
		md   string
		want string
	}{
		{"# Title\nbody", "Title"},
		{"first\nsecond", "first"},
		{long, strings.Repeat("x", 57) + "..."},
		{"", ""},
	}
	for _, tt := range tests {
		if got := summary(tt.md); got != tt.want {
			t.Errorf("summary(%q): expected %q, got %q", tt.md, tt.want, got)
		}
	}
}
