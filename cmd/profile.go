package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/gig-matcher/internal/marketplace"
)

var profileCmd = &cobra.Command{
	Use:   "profile <worker-id>",
	Short: "Show the full profile of a worker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showProfile(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

type profileView struct {
	*marketplace.Worker
	BadgeDetails []marketplace.BadgeDescriptor `json:"badgeDetails,omitempty"`
}

func showProfile(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, config, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	worker, err := findProfile(ctx, config, log, id)
	if err != nil {
		return err
	}

	view := profileView{Worker: worker}
	for _, b := range worker.ValidBadges() {
		if d, ok := marketplace.BadgeInfo(b); ok {
			view.BadgeDetails = append(view.BadgeDetails, d)
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func findProfile(ctx context.Context, config *Config, log *zap.Logger, id string) (*marketplace.Worker, error) {
	if config.RosterFile == "" {
		client, cleanup, err := newBackend(ctx, config, log)
		if err != nil {
			return nil, err
		}
		defer cleanup()

		if client != nil {
			worker, err := client.GetProfile(ctx, id)
			if errors.Is(err, marketplace.ErrNotFound) {
				return nil, fmt.Errorf("there is no worker with id %s", id)
			}
			return worker, err
		}
	}

	roster, err := loadRoster(ctx, config, log)
	if err != nil {
		return nil, err
	}

	worker := roster.FindByID(id)
	if worker == nil {
		return nil, fmt.Errorf("there is no worker with id %s", id)
	}
	return worker, nil
}
