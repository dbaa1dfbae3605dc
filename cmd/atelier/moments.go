package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"atelier/internal/api"
	"atelier/internal/store"
)

func newMomentsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moments",
		Short: "Manage tagged moments",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all tagged moments",
		RunE: func(cmd *cobra.Command, args []string) error {
			moments, err := ctx.client().Moments(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Recording", "At", "Note", "Children"},
				momentRows(moments),
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	var recordingID, timestamp int64
	var note string
	var children []int64
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Tag a moment in a recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			moment, err := ctx.client().CreateMoment(cmd.Context(), api.MomentPayload{
				RecordingID: recordingID,
				Timestamp:   &timestamp,
				Note:        note,
				Children:    children,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moment %d tagged at %s in recording %d\n",
				moment.ID, formatElapsed(moment.Timestamp), moment.RecordingID)
			return nil
		},
	}
	addCmd.Flags().Int64Var(&recordingID, "recording", 0, "Recording id")
	addCmd.Flags().Int64Var(&timestamp, "at", 0, "Elapsed seconds into the recording")
	addCmd.Flags().StringVar(&note, "note", "", "Short note")
	addCmd.Flags().Int64SliceVar(&children, "child", nil, "Involved child id (repeatable)")
	_ = addCmd.MarkFlagRequired("recording")

	var annotateNote, transcription string
	var annotateChildren []int64
	annotateCmd := &cobra.Command{
		Use:   "annotate <id>",
		Short: "Update the annotation of a tagged moment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid moment id %q", args[0])
			}
			patch := store.MomentPatch{}
			if cmd.Flags().Changed("note") {
				patch.Note = &annotateNote
			}
			if cmd.Flags().Changed("transcription") {
				patch.Transcription = &transcription
			}
			if cmd.Flags().Changed("child") {
				patch.Children = &annotateChildren
			}
			moment, err := ctx.client().PatchMoment(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moment %d updated\n", moment.ID)
			return nil
		},
	}
	annotateCmd.Flags().StringVar(&annotateNote, "note", "", "Short note")
	annotateCmd.Flags().StringVar(&transcription, "transcription", "", "Transcribed speech")
	annotateCmd.Flags().Int64SliceVar(&annotateChildren, "child", nil, "Involved child id (repeatable)")

	cmd.AddCommand(listCmd, addCmd, annotateCmd)
	return cmd
}
