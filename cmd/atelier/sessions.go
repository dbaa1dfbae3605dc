package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"atelier/internal/api"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage workshop sessions",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := ctx.client().Sessions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Workshop", "Date", "Attendees", "Notes"},
				sessionRows(sessions),
				[]columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}
			session, err := ctx.client().Session(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:        %d\n", session.ID)
			fmt.Fprintf(out, "Workshop:  %d\n", session.WorkshopID)
			fmt.Fprintf(out, "Date:      %s\n", session.Date)
			if len(session.Attendees) > 0 {
				fmt.Fprintf(out, "Attendees: %s\n", joinInts(session.Attendees))
			}
			if session.Notes != "" {
				fmt.Fprintf(out, "Notes:     %s\n", session.Notes)
			}
			if session.AudioURL != "" {
				fmt.Fprintf(out, "Audio:     %s\n", session.AudioURL)
			}
			return nil
		},
	}

	var workshopID int64
	var date, notes string
	var attendees []int64
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Plan a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.client().CreateSession(cmd.Context(), api.SessionPayload{
				WorkshopID: workshopID,
				Date:       date,
				Notes:      notes,
				Attendees:  attendees,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %d planned for workshop %d on %s\n",
				session.ID, session.WorkshopID, session.Date)
			return nil
		},
	}
	addCmd.Flags().Int64Var(&workshopID, "workshop", 0, "Workshop id")
	addCmd.Flags().StringVar(&date, "date", "", "Session date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&notes, "notes", "", "Session notes")
	addCmd.Flags().Int64SliceVar(&attendees, "attendee", nil, "Attending child id (repeatable)")
	_ = addCmd.MarkFlagRequired("workshop")
	_ = addCmd.MarkFlagRequired("date")

	recordingsCmd := &cobra.Command{
		Use:   "recordings <id>",
		Short: "List recordings of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}
			recordings, err := ctx.client().SessionRecordings(cmd.Context(), id)
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

	cmd.AddCommand(listCmd, showCmd, addCmd, recordingsCmd)
	return cmd
}
