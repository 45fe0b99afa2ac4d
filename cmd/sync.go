package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-guru/cmd/config"
	"github.com/mattsolo1/grove-guru/pkg/state"
	"github.com/mattsolo1/grove-guru/pkg/sync"
	"github.com/mattsolo1/grove-guru/pkg/sync/guru"
)

var syncUlog = grovelogging.NewUnifiedLogger("grove-guru.cmd.sync")

// NewSyncCmd creates the `sync` subcommand.
func NewSyncCmd() *cobra.Command {
	var opts sync.Options

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload the source tree as a Guru synced collection",
		Long: `Builds the card tree from the configured rules, assigns Guru container types,
packs the collection into a zip archive and uploads it to Guru. The upload is
skipped when the archive is unchanged since the last successful upload.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := config.LoadSyncConfig()
			if err != nil {
				return err
			}
			log, err := config.NewLogger()
			if err != nil {
				return err
			}

			var uploader sync.Uploader
			var store sync.StateStore
			if !opts.DryRun {
				uploader = guru.NewProvider(cfg.APIURL, cfg.UserEmail, cfg.UserToken)

				s, err := state.NewStore(cfg.DataDir)
				if err != nil {
					return fmt.Errorf("open upload state: %w", err)
				}
				defer s.Close()
				store = s
			}

			syncer := sync.NewSyncer(cfg, os.DirFS(cfg.SourceDir), uploader, store, log)
			report, err := syncer.Run(ctx, opts)
			if err != nil {
				return err
			}

			summary := fmt.Sprintf("%d cards, %d boards, %d board groups, %d resources",
				report.Cards, report.Boards, report.BoardGroups, report.Resources)
			switch {
			case opts.DryRun:
				syncUlog.Info("Dry run complete").
					Field("digest", report.Digest).
					Field("size", report.Size).
					Pretty(fmt.Sprintf("Dry run: packed %s (%d bytes, sha256 %s)", summary, report.Size, report.Digest[:12])).
					PrettyOnly().
					Log(ctx)
			case report.Unchanged:
				syncUlog.Info("Collection unchanged").
					Field("collection_id", cfg.CollectionID).
					Field("digest", report.Digest).
					Pretty(fmt.Sprintf("Collection %s is up to date (%s)", cfg.CollectionID, summary)).
					PrettyOnly().
					Log(ctx)
			default:
				syncUlog.Success("Collection uploaded").
					Field("collection_id", cfg.CollectionID).
					Field("uploader", report.Uploader).
					Field("job_id", report.JobID).
					Field("digest", report.Digest).
					Pretty(fmt.Sprintf("* Uploaded %s to collection %s in %s", summary, cfg.CollectionID, report.Duration.Round(time.Millisecond))).
					PrettyOnly().
					Emit()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Build the archive without uploading it")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Upload even if the collection is unchanged")
	cmd.Flags().StringVar(&opts.ArchivePath, "out", "", "Also write the archive to this path")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if opts.ArchivePath != "" {
			abs, err := filepath.Abs(opts.ArchivePath)
			if err != nil {
				return err
			}
			opts.ArchivePath = abs
		}
		return nil
	}
	config.AddGlobalFlags(cmd)

	return cmd
}
