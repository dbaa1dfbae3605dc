package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"atelier/internal/api"
	"atelier/internal/store"
)

func newWorkshopsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workshops",
		Short: "Manage workshop definitions",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all workshops",
		RunE: func(cmd *cobra.Command, args []string) error {
			workshops, err := ctx.client().Workshops(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "Status", "Learning goals", "Materials"},
				workshopRows(workshops),
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one workshop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid workshop id %q", args[0])
			}
			workshop, err := ctx.client().Workshop(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %d\n", workshop.ID)
			fmt.Fprintf(out, "Title:       %s\n", workshop.Title)
			fmt.Fprintf(out, "Status:      %s\n", workshop.Status)
			fmt.Fprintf(out, "Description: %s\n", workshop.Description)
			if len(workshop.LearningGoals) > 0 {
				fmt.Fprintf(out, "Goals:       %s\n", strings.Join(workshop.LearningGoals, "; "))
			}
			if len(workshop.Materials) > 0 {
				fmt.Fprintf(out, "Materials:   %s\n", strings.Join(workshop.Materials, "; "))
			}
			if workshop.ImageURL != "" {
				fmt.Fprintf(out, "Image:       %s\n", workshop.ImageURL)
			}
			return nil
		},
	}

	var title, description, image string
	var goals, materials []string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a workshop",
		RunE: func(cmd *cobra.Command, args []string) error {
			workshop, err := ctx.client().CreateWorkshop(cmd.Context(), api.WorkshopPayload{
				Title:         title,
				Description:   description,
				LearningGoals: goals,
				Materials:     materials,
				ImageURL:      image,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Workshop %d (%s) created\n", workshop.ID, workshop.Title)
			return nil
		},
	}
	addCmd.Flags().StringVar(&title, "title", "", "Workshop title")
	addCmd.Flags().StringVar(&description, "description", "", "Workshop description")
	addCmd.Flags().StringArrayVar(&goals, "goal", nil, "Learning goal (repeatable)")
	addCmd.Flags().StringArrayVar(&materials, "material", nil, "Required material (repeatable)")
	addCmd.Flags().StringVar(&image, "image", "", "Image URL")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("description")

	completeCmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a workshop completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid workshop id %q", args[0])
			}
			status := store.WorkshopCompleted
			workshop, err := ctx.client().PatchWorkshop(cmd.Context(), id, store.WorkshopPatch{Status: &status})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Workshop %d marked %s\n", workshop.ID, workshop.Status)
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, addCmd, completeCmd)
	return cmd
}
