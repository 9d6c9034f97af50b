package main

import (
	"fmt"

	"taskboard/internal/board"
	"taskboard/internal/reconcile"
	"taskboard/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			store := board.NewStore()
			rec := reconcile.New(store, a.client(), sess,
				reconcile.WithTimeout(a.timeout),
				reconcile.WithLogger(a.logger),
			)

			p := tea.NewProgram(tui.New(cmd.Context(), store, rec), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run board: %w", err)
			}
			return nil
		},
	}
}
