package models

import (
	"testing"
)

func TestResolveNativePlatforms(t *testing.T) {
	for _, platform := range []string{PlatformIOS, PlatformAndroid} {
		token := DeviceToken{Platform: platform, Token: "fcm-registration-abc"}

		resolved, err := token.Resolve()
		if err != nil {
			t.Fatalf("resolve %s: %v", platform, err)
		}
		if !resolved.Native {
			t.Fatalf("expected %s token to resolve as native", platform)
		}
		if resolved.Registration != "fcm-registration-abc" {
			t.Fatalf("registration not passed through: %q", resolved.Registration)
		}
		if resolved.Subscription != nil {
			t.Fatalf("native token should not carry a subscription")
		}
	}
}

func TestResolveWebSubscription(t *testing.T) {
	token := DeviceToken{
		Platform: PlatformWeb,
		Token:    `{"endpoint":"https://push.example.com/sub/1","keys":{"p256dh":"key","auth":"secret"}}`,
	}

	resolved, err := token.Resolve()
	if err != nil {
		t.Fatalf("resolve web: %v", err)
	}
	if resolved.Native {
		t.Fatal("web token resolved as native")
	}
	if resolved.Subscription == nil || resolved.Subscription.Endpoint != "https://push.example.com/sub/1" {
		t.Fatalf("unexpected subscription: %+v", resolved.Subscription)
	}
	if resolved.Subscription.Keys.Auth != "secret" {
		t.Fatalf("subscription keys not parsed: %+v", resolved.Subscription.Keys)
	}
}

func TestResolveUnsetPlatformTreatedAsWeb(t *testing.T) {
	token := DeviceToken{Token: `{"endpoint":"https://push.example.com/sub/2"}`}

	resolved, err := token.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Native {
		t.Fatal("unset platform should route to the browser channel")
	}
}

func TestResolveMalformedWebToken(t *testing.T) {
	cases := map[string]string{
		"not JSON":    "ExponentPushToken[xyz]",
		"no endpoint": `{"keys":{"p256dh":"key","auth":"secret"}}`,
	}
	for name, raw := range cases {
		token := DeviceToken{Platform: PlatformWeb, Token: raw}
		if _, err := token.Resolve(); err == nil {
			t.Errorf("%s: expected resolve error", name)
		}
	}
}
