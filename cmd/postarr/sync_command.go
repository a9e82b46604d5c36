package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/amaumene/postarr/internal/config"
	"github.com/amaumene/postarr/internal/controllers"
	"github.com/amaumene/postarr/internal/models"
	"github.com/amaumene/postarr/internal/paths"
	"github.com/amaumene/postarr/internal/services/plex"
	"github.com/amaumene/postarr/internal/utils"
)

func newSyncCommand() *cobra.Command {
	var (
		libraryID    int
		modeFlag     string
		poster       bool
		fanart       bool
		workers      int
		renameAlbums bool
		forceRename  bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync artwork for one library",
		Long: `Sync walks every item of a Plex library, resolves its folder on disk and
downloads the selected artwork into it (poster.jpg, fanart.jpg, and for
music albums cover.jpg). Conflicts with existing files are handled by
--mode: skip leaves them alone, overwrite replaces them, add writes
numbered siblings like poster-1.jpg.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := models.ParseWriteMode(modeFlag)
			if !ok {
				return fmt.Errorf("invalid mode %q (must be skip, overwrite or add)", modeFlag)
			}
			if !poster && !fanart {
				return fmt.Errorf("enable at least one of --poster and --fanart")
			}
			if forceRename {
				renameAlbums = true
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger := utils.NewLogger(cfg.LogLevel)
			client := plex.NewClient(cfg, logger)

			ctrl := controllers.NewSyncController(
				client,
				afero.NewOsFs(),
				paths.Mapping{
					ContainerPrefix: cfg.ContainerMediaPrefix,
					HostPrefix:      cfg.HostMediaPrefix,
				},
				controllers.Options{
					LibraryID:    libraryID,
					Mode:         mode,
					Poster:       poster,
					Fanart:       fanart,
					Workers:      workers,
					RenameAlbums: renameAlbums,
					ForceRename:  forceRename,
				},
				logger,
			)

			summary, err := ctrl.Sync(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ctrl.RenderSummary(summary))
			return nil
		},
	}

	cmd.Flags().IntVar(&libraryID, "library", 1, "Plex library section ID to pull artwork from")
	cmd.Flags().StringVar(&modeFlag, "mode", "skip", "File handling mode: skip, overwrite or add")
	cmd.Flags().BoolVar(&poster, "poster", false, "Enable poster downloading")
	cmd.Flags().BoolVar(&fanart, "fanart", false, "Enable fanart downloading")
	cmd.Flags().IntVar(&workers, "workers", 1, "Number of items processed in parallel")
	cmd.Flags().BoolVar(&renameAlbums, "rename-albums", false, "Rename album folders to match Plex titles (prompts before renaming)")
	cmd.Flags().BoolVar(&forceRename, "force-rename", false, "Rename album folders without prompting (implies --rename-albums)")

	return cmd
}
