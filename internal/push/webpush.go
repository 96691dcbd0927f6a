package push

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"io.gospelera.push/internal/config"
	notificationsmodels "io.gospelera.push/internal/models/notifications"
)

// WebPushChannel delivers notifications to browser subscriptions over the
// Web Push protocol, signed with the process-wide VAPID keypair. Missing
// keys leave the channel inert rather than erroring on every call.
type WebPushChannel struct {
	cfg    config.WebPushConfig
	logger *zap.SugaredLogger
}

func NewWebPushChannel(cfg config.WebPushConfig, logger *zap.SugaredLogger) *WebPushChannel {
	ch := &WebPushChannel{
		cfg:    cfg,
		logger: logger,
	}
	if !ch.Enabled() {
		logger.Warnw("VAPID keys not configured, browser push channel disabled")
	}
	return ch
}

func (ch *WebPushChannel) Enabled() bool {
	return ch.cfg.VAPIDPublicKey != "" && ch.cfg.VAPIDPrivateKey != ""
}

// Send delivers one notification to one browser subscription. Non-2xx
// provider responses come back as a StatusError so the dispatcher can
// classify 404/410 as permanent.
func (ch *WebPushChannel) Send(ctx context.Context, sub *webpush.Subscription, payload notificationsmodels.Payload) error {
	if !ch.Enabled() {
		return ErrChannelDisabled
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal web push payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, sub, &webpush.Options{
		Subscriber:      ch.cfg.Subscriber,
		VAPIDPublicKey:  ch.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: ch.cfg.VAPIDPrivateKey,
		TTL:             86400,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	ch.logger.Debugw("web push sent", "endpoint", sub.Endpoint, "status", resp.StatusCode)
	return nil
}
