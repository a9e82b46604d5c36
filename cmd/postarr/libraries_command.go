package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/amaumene/postarr/internal/config"
	"github.com/amaumene/postarr/internal/services/plex"
	"github.com/amaumene/postarr/internal/utils"
)

func newLibrariesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "libraries",
		Short: "List the available Plex library sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger := utils.NewLogger(cfg.LogLevel)
			client := plex.NewClient(cfg, logger)

			libraries, err := client.ListLibraries(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list libraries: %w", err)
			}

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"ID", "Title", "Type"})
			for _, lib := range libraries {
				tw.AppendRow(table.Row{lib.ID, lib.Title, lib.Kind})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}
}
