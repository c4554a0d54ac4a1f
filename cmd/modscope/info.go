package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oisee/modscope/pkg/config"
	"github.com/oisee/modscope/pkg/format"
	"github.com/oisee/modscope/pkg/report"
	"github.com/oisee/modscope/pkg/tracker"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [flags] <file>...",
		Short: "Print song metadata of one or more modules",
		Long:  `Parse each module and print its format, title, counts, order table and tempo. Exits with status 1 when any file fails to parse.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runInfo,
	}
	cmd.Flags().String("format", config.FormatText, "output format (text|json|msgpack)")
	cmd.Flags().Int("jobs", 0, "max files parsed in parallel (0=auto)")
	return cmd
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()

	results := parseFiles(cmd, args, s.cfg.Jobs())
	s.logger.Debug("parsed modules", zap.Int("files", len(results)))

	failed := reportProblems(cmd.ErrOrStderr(), results)

	out := results
	if s.cfg.Output.Format == config.FormatText {
		out = make([]report.FileResult, 0, len(results))
		for _, r := range results {
			if r.Info.OK {
				out = append(out, r)
			}
		}
	}
	if err := report.WriteInfo(cmd.OutOrStdout(), s.cfg.Output.Format, out, s.reportOptions()); err != nil {
		return err
	}

	if failed {
		return errFailed
	}
	return nil
}

// parseFiles parses every path concurrently, keeping argument order
func parseFiles(cmd *cobra.Command, paths []string, jobs int) []report.FileResult {
	results := make([]report.FileResult, len(paths))

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// index i is owned by this goroutine
			results[i] = report.FileResult{Path: path, Info: format.ParseFile(path)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for i := range results {
			if results[i].Path == "" {
				results[i] = report.FileResult{Path: paths[i], Info: tracker.Failed(err.Error())}
			}
		}
	}
	return results
}

// reportProblems writes one stderr line per failure and warning. It
// reports whether any file failed.
func reportProblems(w io.Writer, results []report.FileResult) bool {
	failed := false
	for _, r := range results {
		if !r.Info.OK {
			failed = true
			fmt.Fprintf(w, "error: %s: %s\n", r.Path, r.Info.Error)
			continue
		}
		if r.Info.Warning != "" {
			fmt.Fprintf(w, "warning: %s: %s\n", r.Path, r.Info.Warning)
		}
	}
	return failed
}
