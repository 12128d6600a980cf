/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"

	"github.com/gamestore-web/apiserver/internal/mq"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect domain events on the message queue",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail <channel>",
	Short: "Log every event published on a channel",
	Long: `Subscribes to a channel such as user.registered, copy.purchased or
media.uploaded and logs each message until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := loadRuntime()

		events, err := mq.Open(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer events.Close()

		channel := args[0]
		logger.Info("tailing events", "channel", channel, "backend", cfg.MQBackend)
		err = events.Subscribe(cmd.Context(), channel, func(ctx context.Context, msg mq.Message) error {
			logger.Info("event", "channel", channel, "id", msg.ID, "attributes", msg.Attributes, "data", string(msg.Data))
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
