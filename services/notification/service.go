package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"telecare/models"
)

// NotificationService delivers assignment events to a provider's live
// session. Delivery is best-effort, at-most-once: a provider without a live
// session is a logged miss, not an error, and nothing retries.
type NotificationService interface {
	NotifyProvider(ctx context.Context, providerID string, booking models.Booking)
}

// DefaultNotificationService publishes assignment payloads on the provider's
// session channel. The transport owns connection tracking; this service only
// consults the registry and hands off.
type DefaultNotificationService struct {
	Registry SessionRegistry
	Client   *redis.Client
	Logger   *zap.Logger
}

func NewDefaultNotificationService(registry SessionRegistry, client *redis.Client, logger *zap.Logger) *DefaultNotificationService {
	return &DefaultNotificationService{Registry: registry, Client: client, Logger: logger}
}

type assignmentPayload struct {
	Type    string         `json:"type"`
	Booking models.Booking `json:"booking"`
}

func (s *DefaultNotificationService) NotifyProvider(ctx context.Context, providerID string, booking models.Booking) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	sessionID, err := s.Registry.Lookup(ctx, providerID)
	if err != nil {
		s.Logger.Warn("provider session lookup failed",
			zap.String("providerId", providerID), zap.Error(err))
		return
	}
	if sessionID == "" {
		s.Logger.Info("provider offline, assignment notification skipped",
			zap.String("providerId", providerID), zap.String("bookingId", booking.ID))
		return
	}

	payload, err := json.Marshal(assignmentPayload{Type: "booking-assigned", Booking: booking})
	if err != nil {
		s.Logger.Error("failed to marshal assignment payload", zap.Error(err))
		return
	}

	channel := fmt.Sprintf("provider-notify:%s", sessionID)
	if err := s.Client.Publish(ctx, channel, payload).Err(); err != nil {
		s.Logger.Warn("assignment notification delivery failed",
			zap.String("providerId", providerID), zap.Error(err))
	}
}
