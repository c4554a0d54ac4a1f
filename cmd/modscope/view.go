package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/oisee/modscope/pkg/tui"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [flags] <file>",
		Short: "Browse the patterns of a module in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runView,
	}
	cmd.Flags().Bool("all", false, "start with every pattern listed")
	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()

	mod, err := decodeForDisplay(cmd, args[0])
	if err != nil {
		return err
	}

	model := tui.NewModel(mod, args[0], tui.Options{
		ShowAll:  s.cfg.View.ShowAll,
		PageStep: s.cfg.View.PageStep,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
