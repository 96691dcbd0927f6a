package firebase

import (
	"context"
	"encoding/json"
	"errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// InitFirebase initializes the Firebase app and FCM messaging client from
// the environment-provided service-account descriptor. An absent or
// malformed descriptor disables the native channel (nil messaging client)
// instead of failing startup; the browser channel is unaffected.
func InitFirebase(ctx context.Context, credentialsJSON, credentialsFile, projectID string, logger *zap.SugaredLogger) (*firebase.App, *messaging.Client) {
	var opts []option.ClientOption

	switch {
	case credentialsJSON != "":
		if !json.Valid([]byte(credentialsJSON)) {
			logger.Errorw("firebase service account descriptor is malformed JSON, native push channel disabled")
			return nil, nil
		}
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	default:
		logger.Warnw("no firebase service account configured, native push channel disabled")
		return nil, nil
	}

	config := &firebase.Config{
		ProjectID: projectID,
	}

	app, err := firebase.NewApp(ctx, config, opts...)
	if err != nil {
		logger.Errorw("failed to initialize firebase app, native push channel disabled", "error", err)
		return nil, nil
	}

	fcmClient, err := app.Messaging(ctx)
	if err != nil {
		logger.Errorw("failed to get FCM client, native push channel disabled", "error", err)
		return app, nil
	}

	return app, fcmClient
}

// GetAuthClient returns a Firebase Auth client from the app
func GetAuthClient(app *firebase.App) (*auth.Client, error) {
	if app == nil {
		return nil, errors.New("firebase app not initialized")
	}
	ctx := context.Background()
	return app.Auth(ctx)
}
