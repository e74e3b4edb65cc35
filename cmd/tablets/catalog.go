package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dgallion1/tablets/internal/tablet"
	"github.com/dgallion1/tablets/internal/transcript"
)

// entry is the JSON form of a tablet or shard listing row.
type entry struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Path    string `json:"path"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Length  int    `json:"length"`
	Heading string `json:"heading,omitempty"`
}

func newEntry(t tablet.Tablet) (entry, error) {
	name, err := t.Name()
	if err != nil {
		return entry{}, err
	}
	addr, err := t.Address()
	if err != nil {
		return entry{}, err
	}
	return entry{
		Name:    name,
		Address: addr,
		Path:    t.Path(),
		Start:   t.Start(),
		End:     t.End(),
		Length:  t.Length(),
	}, nil
}

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List every tablet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}

			tablets, err := a.reg.Catalog()
			if err != nil {
				return err
			}
			entries := make([]entry, 0, len(tablets))
			for _, t := range tablets {
				e, err := newEntry(t)
				if err != nil {
					return err
				}
				entries = append(entries, e)
			}
			a.log.Debug("catalog listed", "tablets", len(entries))
			return a.writeEntries(cmd.OutOrStdout(), format, entries, false)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func newHeapCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heap",
		Short: "List every shard of every tablet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}

			shards, err := a.reg.Heap()
			if err != nil {
				return err
			}
			entries := make([]entry, 0, len(shards))
			for _, sh := range shards {
				e, err := newEntry(sh)
				if err != nil {
					return err
				}
				md, err := a.tr.Read(sh)
				if err != nil {
					return err
				}
				e.Heading = summary(md)
				entries = append(entries, e)
			}
			a.log.Debug("heap listed", "shards", len(entries))
			return a.writeEntries(cmd.OutOrStdout(), format, entries, true)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

// summary titles a shard by its first heading, else its first line.
func summary(md string) string {
	if h := transcript.Heading(md); h != "" {
		return h
	}
	first, _, _ := strings.Cut(md, "\n")
	const limit = 60
	if r := []rune(first); len(r) > limit {
		return string(r[:limit-3]) + "..."
	}
	return first
}

func (a *app) writeEntries(w io.Writer, format string, entries []entry, shards bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "pretty":
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	var table bytes.Buffer
	tw := tabwriter.NewWriter(&table, 0, 0, 2, ' ', 0)
	if shards {
		fmt.Fprintln(tw, "ADDRESS\tLINES\tHEADING")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%d-%d\t%s\n", e.Address, e.Start, e.End, e.Heading)
		}
	} else {
		fmt.Fprintln(tw, "NAME\tPATH\tLINES\tLENGTH")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%d-%d\t%d\n", e.Name, e.Path, e.Start, e.End, e.Length)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	// Color the header after layout so escapes do not count toward widths.
	header, rows, _ := strings.Cut(table.String(), "\n")
	bold := a.paint(colorHeader...)
	if _, err := fmt.Fprintln(w, bold.Sprint(header)); err != nil {
		return err
	}
	_, err := io.WriteString(w, rows)
	return err
}
