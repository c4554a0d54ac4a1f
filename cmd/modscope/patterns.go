package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oisee/modscope/pkg/config"
	"github.com/oisee/modscope/pkg/format"
	"github.com/oisee/modscope/pkg/report"
	"github.com/oisee/modscope/pkg/tracker"
)

func newPatternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns [flags] <file>",
		Short: "Dump the pattern grids of a module",
		Long:  `Dump the patterns referenced by the order table in ascending order, or every pattern with --all.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runPatterns,
	}
	cmd.Flags().String("format", config.FormatText, "output format (text|json|msgpack)")
	cmd.Flags().Bool("all", false, "include patterns the order table does not reference")
	cmd.Flags().Int("pattern", -1, "dump only this pattern index")
	return cmd
}

func runPatterns(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()

	path := args[0]
	mod, err := decodeForDisplay(cmd, path)
	if err != nil {
		return err
	}

	sel := mod.Selection(s.cfg.View.ShowAll)
	if cmd.Flags().Changed("pattern") {
		index, err := cmd.Flags().GetInt("pattern")
		if err != nil {
			return fmt.Errorf("failed to get pattern flag: %w", err)
		}
		if sel, err = singlePattern(mod, index); err != nil {
			return err
		}
	}

	dump := report.NewPatternDump(path, mod, sel)
	return report.WritePatterns(cmd.OutOrStdout(), s.cfg.Output.Format, dump, s.reportOptions())
}

// decodeForDisplay decodes path for the pattern views, reporting failures
// and warnings on stderr the way info does.
func decodeForDisplay(cmd *cobra.Command, path string) (*tracker.Module, error) {
	mod, err := format.DecodeFile(path)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %s: %s\n", path, err)
		return nil, errFailed
	}
	if mod.Info.Warning != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", path, mod.Info.Warning)
	}
	return mod, nil
}

// singlePattern selects one pattern by index, keeping its used flag
func singlePattern(mod *tracker.Module, index int) (tracker.Selection, error) {
	all := mod.Selection(true)
	for _, e := range all.Entries {
		if e.Pattern == index && mod.Pattern(index) != nil {
			return tracker.Selection{Entries: []tracker.SelectionEntry{e}, Invalid: all.Invalid}, nil
		}
	}
	return tracker.Selection{}, fmt.Errorf("pattern %d out of range (module has %d patterns)", index, len(mod.Patterns))
}
