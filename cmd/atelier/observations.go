package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"atelier/internal/api"
	"atelier/internal/store"
)

func newObservationsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "observations",
		Short: "Manage child observations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all observations",
		RunE: func(cmd *cobra.Command, args []string) error {
			observations, err := ctx.client().Observations(cmd.Context())
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

	var childID, momentID int64
	var date, obsType, content string
	var goals []string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record an observation",
		Long: "Record an observation about a child. Valid types: " +
			joinObservationTypes(),
		RunE: func(cmd *cobra.Command, args []string) error {
			observation, err := ctx.client().CreateObservation(cmd.Context(), api.ObservationPayload{
				ChildID:        childID,
				Date:           date,
				Type:           obsType,
				Content:        content,
				LearningGoals:  goals,
				TaggedMomentID: momentID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Observation %d recorded for child %d\n",
				observation.ID, observation.ChildID)
			return nil
		},
	}
	addCmd.Flags().Int64Var(&childID, "child", 0, "Child id")
	addCmd.Flags().StringVar(&date, "date", "", "Observation date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&obsType, "type", "", "Observation type")
	addCmd.Flags().StringVar(&content, "content", "", "Observation text")
	addCmd.Flags().StringArrayVar(&goals, "goal", nil, "Linked learning goal (repeatable)")
	addCmd.Flags().Int64Var(&momentID, "moment", 0, "Linked tagged moment id")
	_ = addCmd.MarkFlagRequired("child")
	_ = addCmd.MarkFlagRequired("date")
	_ = addCmd.MarkFlagRequired("type")
	_ = addCmd.MarkFlagRequired("content")

	cmd.AddCommand(listCmd, addCmd)
	return cmd
}

func joinObservationTypes() string {
	types := store.ObservationTypes()
	out := ""
	for i, t := range types {
		if i > 0 {
			out += ", "
		}
		out += string(t)
	}
	return out
}
