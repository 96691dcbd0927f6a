package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SherClockHolmes/webpush-go"
)

const (
	PlatformWeb     = "web"
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// DeviceToken is one device or browser registration. A user may hold any
// number of them. Token carries the raw delivery address: an FCM
// registration string for native platforms, a serialized push subscription
// (endpoint + keys) for web.
type DeviceToken struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Platform   string    `json:"platform" db:"platform"`
	Token      string    `json:"token" db:"token"`
	DailyVerse bool      `json:"daily_verse" db:"daily_verse"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ResolvedToken is the delivery form of a DeviceToken: exactly one of
// Registration (native) or Subscription (web) is set.
type ResolvedToken struct {
	Native       bool
	Registration string
	Subscription *webpush.Subscription
}

// Resolve classifies the token once at load time. Platforms ios/android
// pass the registration string through; everything else is treated as a
// web subscription and must parse as one.
func (t DeviceToken) Resolve() (ResolvedToken, error) {
	switch t.Platform {
	case PlatformIOS, PlatformAndroid:
		return ResolvedToken{Native: true, Registration: t.Token}, nil
	}

	var sub webpush.Subscription
	if err := json.Unmarshal([]byte(t.Token), &sub); err != nil {
		return ResolvedToken{}, fmt.Errorf("parse web subscription: %w", err)
	}
	if sub.Endpoint == "" {
		return ResolvedToken{}, errors.New("web subscription has no endpoint")
	}
	return ResolvedToken{Subscription: &sub}, nil
}
