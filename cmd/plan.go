package cmd

import (
	"context"
	"fmt"
	"os"

	ltree "github.com/charmbracelet/lipgloss/tree"
	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-guru/cmd/config"
	"github.com/mattsolo1/grove-guru/pkg/sync"
	"github.com/mattsolo1/grove-guru/pkg/tree"
)

var planUlog = grovelogging.NewUnifiedLogger("grove-guru.cmd.plan")

// NewPlanCmd creates the `plan` subcommand.
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the collection that sync would upload",
		Long:  "Builds and types the card tree from the configured rules and prints it without packing or uploading anything.",
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

			plan, err := sync.NewSyncer(cfg, os.DirFS(cfg.SourceDir), nil, nil, log).Plan(ctx)
			if err != nil {
				return err
			}

			coll := plan.Collection
			planUlog.Info("Collection plan").
				Field("cards", len(coll.Cards)).
				Field("boards", len(coll.Boards)).
				Field("board_groups", len(coll.BoardGroups)).
				Pretty(fmt.Sprintf("%s\n\n%d cards, %d boards, %d board groups",
					renderPlan(plan.Root, cfg.SourceDir), len(coll.Cards), len(coll.Boards), len(coll.BoardGroups))).
				PrettyOnly().
				Log(ctx)
			return nil
		},
	}

	config.AddGlobalFlags(cmd)

	return cmd
}

// renderPlan draws a typed tree with one line per node.
func renderPlan(root *tree.Node, label string) string {
	out := ltree.Root(label)
	addPlanChildren(out, root)
	return out.String()
}

func addPlanChildren(out *ltree.Tree, n *tree.Node) {
	for _, child := range n.Children() {
		if child.Node.IsCard() {
			out.Child(fmt.Sprintf("%s  %s", child.Name, child.Node.Info().Title))
			continue
		}
		sub := ltree.Root(fmt.Sprintf("%s [%s] %s", child.Name, child.Node.ContainerType(), child.Node.Info().Title))
		addPlanChildren(sub, child.Node)
		out.Child(sub)
	}
}
