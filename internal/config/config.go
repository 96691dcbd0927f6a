package config

import (
	"os"
	"time"
)

// Config holds everything the service reads from the environment. It is
// built once in main and handed to the components that need it, so nothing
// below main touches os.Getenv directly.
type Config struct {
	Port           string
	InternalSecret string

	// DailyBroadcastCron is a UTC cron expression for the daily verse job.
	DailyBroadcastCron string

	// SendTimeout bounds every outbound delivery attempt.
	SendTimeout time.Duration

	Firebase FirebaseConfig
	WebPush  WebPushConfig
}

// FirebaseConfig carries the service-account descriptor for the native
// (FCM) channel. CredentialsJSON takes precedence over CredentialsFile.
type FirebaseConfig struct {
	CredentialsJSON string
	CredentialsFile string
	ProjectID       string
}

// WebPushConfig carries the VAPID signing material for the browser channel.
// Empty keys leave the channel disabled.
type WebPushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
}

// Load reads the environment into a Config, applying defaults.
func Load() Config {
	return Config{
		Port:               getEnvOrDefault("PORT", "9092"),
		InternalSecret:     os.Getenv("INTERNAL_API_SECRET"),
		DailyBroadcastCron: getEnvOrDefault("DAILY_BROADCAST_CRON", "0 9 * * *"),
		SendTimeout:        getDurationOrDefault("PUSH_SEND_TIMEOUT", 10*time.Second),
		Firebase: FirebaseConfig{
			CredentialsJSON: os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"),
			CredentialsFile: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
			ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		},
		WebPush: WebPushConfig{
			VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
			VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
			Subscriber:      getEnvOrDefault("VAPID_SUBSCRIBER", "mailto:support@gospelera.app"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
