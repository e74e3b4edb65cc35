package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dgallion1/tablets/internal/tablet"
	"github.com/dgallion1/tablets/internal/transcript"
)

var colorHeader = []color.Attribute{color.FgCyan, color.Bold}

func newReadCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <name | name-line>",
		Short: "Render a tablet or one of its shards",
		Long:  `Read renders a whole tablet by name, or a shard by the tablet name and the shard's first line, e.g. "strings-14"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			format, err := transcript.ParseFormat(name)
			if err != nil {
				return err
			}

			t, err := a.reg.Resolve(args[0])
			if err != nil {
				return err
			}
			out, err := a.tr.Render(t, format)
			if err != nil {
				return err
			}
			a.log.Debug("rendered", "tablet", t.String(), "format", string(format))

			w := cmd.OutOrStdout()
			fmt.Fprint(w, out)
			if !strings.HasSuffix(out, "\n") {
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "markdown", "output format (markdown|html|text)")
	return cmd
}

func newDumpCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every tablet, or every shard, under a banner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shards, err := cmd.Flags().GetBool("shards")
			if err != nil {
				return fmt.Errorf("failed to get shards flag: %w", err)
			}

			var items []tablet.Tablet
			if shards {
				items, err = a.reg.Heap()
			} else {
				items, err = a.reg.Catalog()
			}
			if err != nil {
				return err
			}

			banner := a.paint(colorHeader...)
			w := cmd.OutOrStdout()
			for _, t := range items {
				title, err := dumpTitle(t, shards)
				if err != nil {
					return err
				}
				contents, err := a.tr.Read(t)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "\n%s\n[[%s]]\n", banner.Sprintf("################# %s #################", title), contents)
			}
			a.log.Debug("dumped", "items", len(items), "shards", shards)
			return nil
		},
	}
	cmd.Flags().Bool("shards", false, "dump shards instead of whole tablets")
	return cmd
}

func dumpTitle(t tablet.Tablet, shard bool) (string, error) {
	if shard {
		addr, err := t.Address()
		if err != nil {
			return "", err
		}
		return "shard " + addr, nil
	}
	name, err := t.Name()
	if err != nil {
		return "", err
	}
	return "TABLET " + strings.ToUpper(name), nil
}
