package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"atelier/internal/capture"
	"atelier/internal/dutch"
	"atelier/internal/logging"
	"atelier/internal/services"
	"atelier/internal/store"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var sessionID int64
	var mode string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Capture audio or video for a session",
		Long: `Start an interactive capture session. While recording, commands are read
from standard input:

  t <note>  tag the current moment
  e         show elapsed time
  s         stop recording and upload
  r         retry a failed upload
  q         quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			mediaType, ok := store.ParseMediaType(mode)
			if !ok {
				return fmt.Errorf("invalid mode %q, expected audio or video", mode)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			c := ctx.client()
			if _, err := c.Session(cmd.Context(), sessionID); err != nil {
				return err
			}

			recorder := capture.NewRecorder(cfg, capture.NewDeviceSource(), capture.Uploader(c), logger)
			defer recorder.Close()

			monitor := capture.NewDeviceMonitor(logger, func(ev capture.DeviceEvent) {
				if !ev.Present {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n", dutch.Message(dutch.KindDeviceMissing))
				}
			})
			if err := monitor.Start(cmd.Context()); err != nil {
				logger.Warn("device monitor unavailable", logging.Error(err))
			}
			defer monitor.Stop()

			if err := recorder.SetMode(cmd.Context(), mediaType); err != nil {
				return err
			}
			if err := recorder.Preview(cmd.Context()); err != nil {
				return describeCaptureError(err)
			}
			if err := recorder.Start(cmd.Context(), sessionID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recording session %d (%s), type 't <note>' to tag, 's' to stop\n",
				sessionID, mediaType)

			return runCaptureLoop(cmd.Context(), cmd, recorder)
		},
	}
	cmd.Flags().Int64Var(&sessionID, "session", 0, "Session id to record for")
	cmd.Flags().StringVar(&mode, "mode", "video", "Capture mode (audio or video)")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func runCaptureLoop(ctx context.Context, cmd *cobra.Command, recorder *capture.Recorder) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "q":
			return nil
		case line == "s":
			if err := recorder.Stop(); err != nil {
				fmt.Fprintf(out, "Stop failed: %v\n", err)
				continue
			}
			if err := recorder.WaitUpload(ctx); err != nil {
				fmt.Fprintf(out, "%s\n", dutch.Message(dutch.KindUploadFailed))
				fmt.Fprintln(out, "Type 'r' to retry or 'q' to quit")
				continue
			}
			fmt.Fprintf(out, "%s\n", dutch.Message(dutch.KindRecordingSaved))
			return nil
		case line == "r":
			if err := recorder.Retry(ctx); err != nil {
				fmt.Fprintf(out, "%s\n", dutch.Message(dutch.KindUploadFailed))
				continue
			}
			fmt.Fprintf(out, "%s\n", dutch.Message(dutch.KindRecordingSaved))
			return nil
		case line == "t" || strings.HasPrefix(line, "t "):
			note := strings.TrimSpace(strings.TrimPrefix(line, "t"))
			tag, err := recorder.Tag(note)
			if err != nil {
				fmt.Fprintf(out, "Tag failed: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Tagged at %s\n", formatElapsed(tag.Timestamp))
		case line == "e":
			fmt.Fprintf(out, "%s (%s)\n", formatElapsed(int64(recorder.Elapsed()/time.Second)), recorder.State())
		case line == "":
		default:
			fmt.Fprintf(out, "Unknown command %q\n", line)
		}
	}
	return scanner.Err()
}

func describeCaptureError(err error) error {
	if errors.Is(err, services.ErrDeviceAccess) {
		return errors.New(dutch.Message(capture.OpenKind(err)))
	}
	return err
}
