package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	notificationsmodels "io.gospelera.push/internal/models/notifications"
	"io.gospelera.push/internal/push"
	"io.gospelera.push/internal/tokens"
)

type fakeRegistry struct {
	upserted []notificationsmodels.DeviceToken
	removed  []string
	prefErr  error
}

func (r *fakeRegistry) Upsert(_ context.Context, token notificationsmodels.DeviceToken) (string, error) {
	r.upserted = append(r.upserted, token)
	return "id-1", nil
}

func (r *fakeRegistry) Remove(_ context.Context, _, token string) error {
	r.removed = append(r.removed, token)
	return nil
}

func (r *fakeRegistry) SetDailyVersePref(context.Context, string, string, bool) error {
	return r.prefErr
}

type fakeNotifier struct {
	userIDs []string
	payload notificationsmodels.Payload
}

func (n *fakeNotifier) NotifyUsers(_ context.Context, userIDs []string, payload notificationsmodels.Payload) {
	n.userIDs = userIDs
	n.payload = payload
}

type fakeBroadcaster struct {
	result push.BroadcastResult
}

func (b *fakeBroadcaster) SendDailyBroadcast(context.Context) push.BroadcastResult {
	return b.result
}

func setupRouter(t *testing.T, registry TokenRegistry, notifier Notifier, broadcaster DailyBroadcaster) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ns := NewNotificationsHandler(registry, notifier, broadcaster, nil, zap.NewNop().Sugar())

	router := gin.New()
	authed := router.Group("/", func(c *gin.Context) {
		c.Set("uid", "user-1")
		c.Next()
	})
	authed.POST("/register-token", ns.RegisterPushToken)
	authed.POST("/remove-token", ns.RemovePushToken)
	authed.POST("/update-preferences", ns.UpdateNotificationPrefs)
	router.POST("/notify", ns.HandleNotifyEvent)
	router.POST("/broadcast-daily", ns.TriggerDailyBroadcast)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterPushTokenNative(t *testing.T) {
	registry := &fakeRegistry{}
	router := setupRouter(t, registry, &fakeNotifier{}, &fakeBroadcaster{})

	w := postJSON(t, router, "/register-token", map[string]any{
		"token":      "fcm-reg-1",
		"platform":   "android",
		"dailyVerse": true,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(registry.upserted) != 1 {
		t.Fatalf("expected one upsert, got %d", len(registry.upserted))
	}
	saved := registry.upserted[0]
	if saved.UserID != "user-1" || saved.Platform != "android" || !saved.DailyVerse {
		t.Errorf("unexpected token saved: %+v", saved)
	}
}

func TestRegisterPushTokenRejectsBadWebSubscription(t *testing.T) {
	registry := &fakeRegistry{}
	router := setupRouter(t, registry, &fakeNotifier{}, &fakeBroadcaster{})

	w := postJSON(t, router, "/register-token", map[string]any{
		"token":    "not a subscription",
		"platform": "web",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(registry.upserted) != 0 {
		t.Fatal("malformed subscription must not be stored")
	}
}

func TestRegisterPushTokenRejectsUnknownPlatform(t *testing.T) {
	router := setupRouter(t, &fakeRegistry{}, &fakeNotifier{}, &fakeBroadcaster{})

	w := postJSON(t, router, "/register-token", map[string]any{
		"token":    "reg",
		"platform": "windows",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRemovePushToken(t *testing.T) {
	registry := &fakeRegistry{}
	router := setupRouter(t, registry, &fakeNotifier{}, &fakeBroadcaster{})

	w := postJSON(t, router, "/remove-token", map[string]any{"token": "fcm-reg-1"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(registry.removed) != 1 || registry.removed[0] != "fcm-reg-1" {
		t.Errorf("unexpected removals: %v", registry.removed)
	}
}

func TestUpdatePreferencesUnknownToken(t *testing.T) {
	registry := &fakeRegistry{prefErr: tokens.ErrTokenNotFound}
	router := setupRouter(t, registry, &fakeNotifier{}, &fakeBroadcaster{})

	w := postJSON(t, router, "/update-preferences", map[string]any{
		"tokenId":    "nope",
		"dailyVerse": false,
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestHandleNotifyEvent(t *testing.T) {
	notifier := &fakeNotifier{}
	router := setupRouter(t, &fakeRegistry{}, notifier, &fakeBroadcaster{})

	w := postJSON(t, router, "/notify", map[string]any{
		"userIds": []string{"alice", "bob"},
		"type":    "prayer_commitment",
		"title":   "New prayer commitment",
		"body":    "Someone committed to pray for your request",
		"url":     "/prayers/42",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(notifier.userIDs) != 2 {
		t.Fatalf("expected fan-out to 2 users, got %v", notifier.userIDs)
	}
	if notifier.payload.Tag != "prayer_commitment" {
		t.Errorf("tag should default to the event type, got %q", notifier.payload.Tag)
	}
	if notifier.payload.URL != "/prayers/42" {
		t.Errorf("url not carried through: %q", notifier.payload.URL)
	}
}

func TestTriggerDailyBroadcastReturnsTally(t *testing.T) {
	broadcaster := &fakeBroadcaster{result: push.BroadcastResult{Sent: 7, Failed: 2}}
	router := setupRouter(t, &fakeRegistry{}, &fakeNotifier{}, broadcaster)

	w := postJSON(t, router, "/broadcast-daily", map[string]any{})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var result push.BroadcastResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Sent != 7 || result.Failed != 2 {
		t.Errorf("unexpected tally: %+v", result)
	}
}
