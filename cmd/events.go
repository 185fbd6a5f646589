/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/constante/apiserver/config"
	"github.com/constante/apiserver/internal/mq"
	"github.com/constante/apiserver/types"
	"github.com/spf13/cobra"
)

// eventsCmd tails the domain events channel.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Consume and log habit domain events",
	Long: `Subscribes to the configured events channel and logs every habit and
record event. Requires MQ_BACKEND to be rabbitmq or pubsub.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logger := newLogger(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		queue, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return fmt.Errorf("open message queue: %w", err)
		}
		if queue == nil {
			return errors.New("MQ_BACKEND is not configured")
		}
		defer queue.Close()

		logger.Info("consuming events", "backend", cfg.MQ.Backend, "channel", cfg.MQ.EventsChannel)
		err = queue.Subscribe(ctx, cfg.MQ.EventsChannel, func(ctx context.Context, msg mq.Message) error {
			var event types.Event
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				// Ack and drop malformed payloads.
				logger.WarnContext(ctx, "dropping malformed event", "message_id", msg.ID, "error", err)
				return nil
			}
			logger.InfoContext(ctx, "event",
				"message_id", msg.ID,
				"type", event.Type,
				"user_id", event.UserID,
				"habit_id", event.HabitID,
				"record_id", event.RecordID,
				"occurred_at", event.OccurredAt,
			)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
