package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"atelier/internal/api"
)

func newChildrenCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "children",
		Short: "Manage children",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all children",
		RunE: func(cmd *cobra.Command, args []string) error {
			children, err := ctx.client().Children(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Date of birth", "Notes"},
				childRows(children),
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one child",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid child id %q", args[0])
			}
			child, err := ctx.client().Child(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:            %d\n", child.ID)
			fmt.Fprintf(out, "Name:          %s\n", child.Name)
			fmt.Fprintf(out, "Date of birth: %s\n", child.DateOfBirth)
			if child.Notes != "" {
				fmt.Fprintf(out, "Notes:         %s\n", child.Notes)
			}
			return nil
		},
	}

	var name, birth, notes string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a child",
		RunE: func(cmd *cobra.Command, args []string) error {
			child, err := ctx.client().CreateChild(cmd.Context(), api.ChildPayload{
				Name:        name,
				DateOfBirth: birth,
				Notes:       notes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Child %d (%s) registered\n", child.ID, child.Name)
			return nil
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "Child name")
	addCmd.Flags().StringVar(&birth, "birth", "", "Date of birth (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("birth")

	observationsCmd := &cobra.Command{
		Use:   "observations <id>",
		Short: "List observations for a child",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid child id %q", args[0])
			}
			observations, err := ctx.client().ChildObservations(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Child", "Date", "Type", "Content"},
				observationRows(observations),
				[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, addCmd, observationsCmd)
	return cmd
}
