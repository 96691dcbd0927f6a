package handlers

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	notificationsmodels "io.gospelera.push/internal/models/notifications"
	"io.gospelera.push/internal/push"
)

// TokenRegistry is the registry surface the HTTP handlers need.
type TokenRegistry interface {
	Upsert(ctx context.Context, token notificationsmodels.DeviceToken) (string, error)
	Remove(ctx context.Context, userID, token string) error
	SetDailyVersePref(ctx context.Context, userID, tokenID string, enabled bool) error
}

// Notifier fans a payload out to a set of users' devices.
type Notifier interface {
	NotifyUsers(ctx context.Context, userIDs []string, payload notificationsmodels.Payload)
}

// DailyBroadcaster runs the daily verse broadcast on demand.
type DailyBroadcaster interface {
	SendDailyBroadcast(ctx context.Context) push.BroadcastResult
}

type NotificationsHandler struct {
	registry    TokenRegistry
	notifier    Notifier
	broadcaster DailyBroadcaster
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

func NewNotificationsHandler(registry TokenRegistry, notifier Notifier, broadcaster DailyBroadcaster, redisClient *redis.Client, logger *zap.SugaredLogger) *NotificationsHandler {
	return &NotificationsHandler{
		registry:    registry,
		notifier:    notifier,
		broadcaster: broadcaster,
		redisClient: redisClient,
		logger:      logger,
	}
}
