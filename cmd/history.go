package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-guru/cmd/config"
	"github.com/mattsolo1/grove-guru/pkg/state"
)

var historyUlog = grovelogging.NewUnifiedLogger("grove-guru.cmd.history")

// NewHistoryCmd creates the `history` subcommand.
func NewHistoryCmd() *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded uploads of the configured collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := config.LoadSyncConfig()
			if err != nil {
				return err
			}
			if cfg.CollectionID == "" {
				return fmt.Errorf("no collection_id configured")
			}

			store, err := state.NewStore(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("open upload state: %w", err)
			}
			defer store.Close()

			uploads, err := store.History(cfg.CollectionID, limit)
			if err != nil {
				return fmt.Errorf("read upload history: %w", err)
			}

			if jsonOutput {
				if uploads == nil {
					uploads = []*state.Upload{}
				}
				data, err := json.MarshalIndent(uploads, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal history to JSON: %w", err)
				}
				historyUlog.Info("Upload history").
					Field("collection_id", cfg.CollectionID).
					Field("count", len(uploads)).
					Pretty(string(data)).
					PrettyOnly().
					Log(ctx)
				return nil
			}

			if len(uploads) == 0 {
				historyUlog.Info("No uploads recorded").
					Field("collection_id", cfg.CollectionID).
					Pretty(fmt.Sprintf("No uploads recorded for collection %s", cfg.CollectionID)).
					PrettyOnly().
					Log(ctx)
				return nil
			}

			var b strings.Builder
			for _, u := range uploads {
				fmt.Fprintf(&b, "%s  %s  %d cards, %d boards, %d board groups, %d resources\n",
					u.UploadedAt.Local().Format(time.DateTime), shortDigest(u.Digest),
					u.Cards, u.Boards, u.BoardGroups, u.Resources)
			}
			historyUlog.Info("Upload history").
				Field("collection_id", cfg.CollectionID).
				Field("count", len(uploads)).
				Pretty(strings.TrimRight(b.String(), "\n")).
				PrettyOnly().
				Log(ctx)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of uploads to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history in JSON format")
	config.AddGlobalFlags(cmd)

	return cmd
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
