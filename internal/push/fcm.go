package push

import (
	"context"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	notificationsmodels "io.gospelera.push/internal/models/notifications"
)

// FCMChannel delivers notifications to native devices (iOS and Android)
// via Firebase Cloud Messaging. A nil messaging client means the
// service-account descriptor was absent or malformed at startup; the
// channel then reports disabled instead of crashing.
type FCMChannel struct {
	client *messaging.Client
	logger *zap.SugaredLogger
}

func NewFCMChannel(client *messaging.Client, logger *zap.SugaredLogger) *FCMChannel {
	return &FCMChannel{
		client: client,
		logger: logger,
	}
}

func (ch *FCMChannel) Enabled() bool {
	return ch.client != nil
}

// Send delivers one notification to one FCM registration token.
func (ch *FCMChannel) Send(ctx context.Context, registration string, payload notificationsmodels.Payload) error {
	if ch.client == nil {
		return ErrChannelDisabled
	}

	message := &messaging.Message{
		Token: registration,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: map[string]string{
			"url": payload.URL,
			"tag": payload.Tag,
		},
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				ChannelID: payload.Tag,
				Priority:  messaging.PriorityHigh,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: payload.Title,
						Body:  payload.Body,
					},
					Sound: "default",
					Badge: intPtr(1),
				},
			},
		},
	}

	response, err := ch.client.Send(ctx, message)
	if err != nil {
		return err
	}

	ch.logger.Debugw("FCM message sent", "response", response)
	return nil
}

func intPtr(i int) *int {
	return &i
}
