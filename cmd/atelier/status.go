package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"atelier/internal/config"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ctx.client().Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("daemon unreachable at %s: %w", ctx.baseURL(), err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Running:    %t\n", status.Running)
			fmt.Fprintf(out, "PID:        %d\n", status.PID)
			fmt.Fprintf(out, "Address:    %s\n", status.Address)
			fmt.Fprintf(out, "Store:      %s\n", status.StoreBackend)
			fmt.Fprintf(out, "Data dir:   %s\n", status.DataDir)
			fmt.Fprintf(out, "Upload dir: %s\n", status.UploadDir)
			fmt.Fprintf(out, "Lock file:  %s\n", status.LockFilePath)
			return nil
		},
	}
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or initialize configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Data dir:       %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "Upload dir:     %s\n", cfg.Paths.UploadDir)
			fmt.Fprintf(out, "Log dir:        %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "API bind:       %s\n", cfg.Paths.APIBind)
			fmt.Fprintf(out, "Store backend:  %s\n", cfg.Store.Backend)
			fmt.Fprintf(out, "Max upload:     %d MiB\n", cfg.Upload.MaxUploadMiB)
			fmt.Fprintf(out, "Chunk interval: %s\n", cfg.ChunkInterval())
			fmt.Fprintf(out, "Log format:     %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "Log level:      %s\n", cfg.Logging.Level)
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = *ctx.configFlag
			}
			if path == "" {
				var err error
				path, err = config.DefaultConfigPath()
				if err != nil {
					return err
				}
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sample configuration written to %s\n", path)
			return nil
		},
	}

	cmd.AddCommand(showCmd, initCmd)
	return cmd
}
