package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	importJob        *ImportJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	ImportJob        *ImportJob
	Logger           zerolog.Logger
}

// ImportMessage represents a flight import job message published by the
// booking parser when it finishes a confirmation email.
type ImportMessage struct {
	JobType string      `json:"job_type"`
	TripID  string      `json:"trip_id"`
	Flights []FlightLeg `json:"flights"`
	Apply   bool        `json:"apply,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		importJob:        cfg.ImportJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	// Parse message.
	var importMsg ImportMessage
	if err := json.Unmarshal(msg.Data, &importMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	switch importMsg.JobType {
	case "flight_import":
		if err := h.handleFlightImport(ctx, importMsg); err != nil {
			logger.Error().Err(err).Str("trip_id", importMsg.TripID).Msg("job failed")
			msg.Nack()
			return
		}
	default:
		logger.Warn().Str("job_type", importMsg.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("job_type", importMsg.JobType).
		Dur("duration", duration).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleFlightImport(ctx context.Context, msg ImportMessage) error {
	if msg.TripID == "" {
		return fmt.Errorf("missing trip_id")
	}
	if len(msg.Flights) == 0 {
		return fmt.Errorf("no flights in message")
	}

	result, err := h.importJob.Run(ctx, msg.TripID, msg.Flights, msg.Apply)
	if err != nil {
		return err
	}

	h.logger.Info().
		Str("trip_id", result.TripID).
		Int("clusters", result.Clusters).
		Int("failed", result.Failed).
		Bool("extended", result.Extended).
		Dur("duration", result.Duration).
		Msg("flight import completed")

	// Clusters with bad dates are reported in the plan, not retried.
	if result.Failed == result.Clusters && result.Clusters > 0 {
		return fmt.Errorf("all %d clusters failed", result.Clusters)
	}

	return nil
}
