package main

import (
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/drag"
	"taskboard/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the board column by column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := a.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			for _, status := range model.Statuses {
				tasks := store.Column(status)
				fmt.Fprintf(a.out, "%s (%d)\n", strings.ToUpper(status.String()), len(tasks))
				for _, t := range tasks {
					fmt.Fprintf(a.out, "  %s  %s\n", t.ID, t.Title)
				}
			}
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task in the pending column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rec, err := a.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			task, err := rec.CreateItem(cmd.Context(), args[0], description)
			if err != nil {
				return errors.New(rec.Message())
			}
			fmt.Fprintln(a.out, task.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			_, rec, err := a.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			if err := rec.DeleteItem(cmd.Context(), id); err != nil {
				return errors.New(rec.Message())
			}
			return nil
		},
	}
}

// move runs a whole drag gesture: pick up, cross into the target column, drop.
func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <status>",
		Short: "Move a task to another column",
		Long:  "Move a task to another column. Status is one of: pending, completed, done.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			to, err := model.ParseStatus(args[1])
			if err != nil {
				return err
			}

			store, rec, err := a.loadBoard(cmd.Context())
			if err != nil {
				return err
			}

			ctrl := drag.NewController(store)
			if err := ctrl.Start(id); err != nil {
				return fmt.Errorf("task %s: %w", id, err)
			}
			ctrl.Over(drag.ColumnTarget(to))
			intent, ok := ctrl.End(drag.ColumnTarget(to))
			if !ok {
				fmt.Fprintf(a.out, "task already in %s\n", to)
				return nil
			}

			if err := rec.Commit(cmd.Context(), intent); err != nil {
				return errors.New(rec.Message())
			}
			fmt.Fprintf(a.out, "moved %s: %s -> %s\n", id, intent.From, intent.To)
			return nil
		},
	}
}
