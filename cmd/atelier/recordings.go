package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRecordingsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recordings",
		Short: "Inspect recordings",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			recordings, err := ctx.client().Recordings(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Session", "Type", "Status", "Start", "Media"},
				recordingRows(recordings),
				[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid recording id %q", args[0])
			}
			recording, err := ctx.client().Recording(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %d\n", recording.ID)
			fmt.Fprintf(out, "Session:  %d\n", recording.SessionID)
			fmt.Fprintf(out, "Type:     %s\n", recording.MediaType)
			fmt.Fprintf(out, "Status:   %s\n", recording.Status)
			fmt.Fprintf(out, "Start:    %s\n", recording.StartTime)
			if recording.EndTime != "" {
				fmt.Fprintf(out, "End:      %s\n", recording.EndTime)
			}
			if recording.MediaURL != "" {
				fmt.Fprintf(out, "Media:    %s\n", recording.MediaURL)
			}
			if recording.Transcription != "" {
				fmt.Fprintf(out, "Text:     %s\n", recording.Transcription)
			}
			return nil
		},
	}

	momentsCmd := &cobra.Command{
		Use:   "moments <id>",
		Short: "List tagged moments of a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid recording id %q", args[0])
			}
			moments, err := ctx.client().RecordingMoments(cmd.Context(), id)
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

	cmd.AddCommand(listCmd, showCmd, momentsCmd)
	return cmd
}
