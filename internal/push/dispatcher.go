package push

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	notificationsmodels "io.gospelera.push/internal/models/notifications"
)

// TokenStore is the registry view the dispatcher needs. Delete must be
// idempotent: removing an id that is already gone is a no-op.
type TokenStore interface {
	ListForUser(ctx context.Context, userID string) ([]notificationsmodels.DeviceToken, error)
	ListDailyOptIn(ctx context.Context) ([]notificationsmodels.DeviceToken, error)
	Delete(ctx context.Context, id string) error
}

// NativeChannel delivers to one FCM registration token. An unconfigured
// channel returns ErrChannelDisabled from Send.
type NativeChannel interface {
	Send(ctx context.Context, registration string, payload notificationsmodels.Payload) error
}

// BrowserChannel delivers to one browser push subscription.
type BrowserChannel interface {
	Send(ctx context.Context, sub *webpush.Subscription, payload notificationsmodels.Payload) error
}

// BroadcastResult tallies a broadcast for observability.
type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Dispatcher fans one notification out to every device a user has
// registered. Delivery is best effort: per-token failures are handled
// internally (permanently dead tokens are pruned, transient failures
// logged) and nothing escapes to the caller.
type Dispatcher struct {
	store       TokenStore
	native      NativeChannel
	browser     BrowserChannel
	sendTimeout time.Duration
	logger      *zap.SugaredLogger
}

func NewDispatcher(store TokenStore, native NativeChannel, browser BrowserChannel, sendTimeout time.Duration, logger *zap.SugaredLogger) *Dispatcher {
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &Dispatcher{
		store:       store,
		native:      native,
		browser:     browser,
		sendTimeout: sendTimeout,
		logger:      logger,
	}
}

// NotifyUser delivers payload to every device the user has registered.
// A user with no tokens is a normal state, not an error.
func (d *Dispatcher) NotifyUser(ctx context.Context, userID string, payload notificationsmodels.Payload) {
	tokens, err := d.store.ListForUser(ctx, userID)
	if err != nil {
		d.logger.Errorw("failed to load device tokens", "user_id", userID, "error", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	d.DeliverAll(ctx, tokens, payload)
}

// NotifyUsers fans NotifyUser out across a set of users concurrently.
func (d *Dispatcher) NotifyUsers(ctx context.Context, userIDs []string, payload notificationsmodels.Payload) {
	var wg sync.WaitGroup
	for _, userID := range userIDs {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			d.NotifyUser(ctx, uid, payload)
		}(userID)
	}
	wg.Wait()
}

// DeliverAll attempts delivery to each token concurrently and returns the
// tally. One token's failure never blocks or cancels the others.
func (d *Dispatcher) DeliverAll(ctx context.Context, tokens []notificationsmodels.DeviceToken, payload notificationsmodels.Payload) (sent, failed int) {
	payload = payload.WithDefaults()

	var wg sync.WaitGroup
	var sentCount, failedCount atomic.Int64

	for _, token := range tokens {
		wg.Add(1)
		go func(tok notificationsmodels.DeviceToken) {
			defer wg.Done()
			if err := d.deliver(ctx, tok, payload); err != nil {
				failedCount.Add(1)
				d.handleDeliveryError(ctx, tok, err)
				return
			}
			sentCount.Add(1)
		}(token)
	}
	wg.Wait()

	return int(sentCount.Load()), int(failedCount.Load())
}

// deliver routes one token to its channel under the per-attempt timeout.
func (d *Dispatcher) deliver(ctx context.Context, token notificationsmodels.DeviceToken, payload notificationsmodels.Payload) error {
	resolved, err := token.Resolve()
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if resolved.Native {
		return d.native.Send(sendCtx, resolved.Registration, payload)
	}
	return d.browser.Send(sendCtx, resolved.Subscription, payload)
}

func (d *Dispatcher) handleDeliveryError(ctx context.Context, token notificationsmodels.DeviceToken, err error) {
	if errors.Is(err, ErrChannelDisabled) {
		d.logger.Debugw("delivery skipped, channel not configured",
			"token_id", token.ID, "platform", token.Platform)
		return
	}

	if IsPermanent(err) {
		d.logger.Infow("removing permanently invalid device token",
			"token_id", token.ID, "user_id", token.UserID, "platform", token.Platform, "error", err)
		if delErr := d.store.Delete(ctx, token.ID); delErr != nil {
			d.logger.Errorw("failed to delete invalid device token", "token_id", token.ID, "error", delErr)
		}
		return
	}

	// Transient failure: keep the token, the next notification retries it.
	d.logger.Warnw("delivery failed, token retained",
		"token_id", token.ID, "user_id", token.UserID, "platform", token.Platform, "error", err)
}
