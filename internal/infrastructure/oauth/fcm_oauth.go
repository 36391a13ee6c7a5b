package oauth

import (
	"context"
	"fmt"
	"os"

	"telecare-notifier/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// FCMOAuth builds a token source for the Firebase Cloud Messaging API from a
// service-account credentials file.
type FCMOAuth struct {
	credentialsFile string
	logger          logger.Logger
}

// NewFCMOAuth creates a new FCM OAuth handler
func NewFCMOAuth(credentialsFile string, logger logger.Logger) *FCMOAuth {
	return &FCMOAuth{
		credentialsFile: credentialsFile,
		logger:          logger,
	}
}

// GetTokenSource returns a token source that can be used with the FCM API
func (o *FCMOAuth) GetTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(o.credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read FCM credentials: %w", err)
	}

	config, err := google.JWTConfigFromJSON(data, "https://www.googleapis.com/auth/firebase.messaging")
	if err != nil {
		return nil, fmt.Errorf("failed to parse FCM credentials: %w", err)
	}

	o.logger.Info("FCM token source ready", "clientEmail", config.Email)

	return config.TokenSource(ctx), nil
}
