package repository

import (
	"context"
	"fmt"
	"strings"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/internal/domain/repository"
	"telecare-notifier/pkg/logger"

	"golang.org/x/oauth2"
	fcm "google.golang.org/api/fcm/v1"
	"google.golang.org/api/option"
)

// FCMPushSender delivers push messages through the Firebase Cloud Messaging
// HTTP v1 API. The v1 API takes one message per call, so a chunk here bounds
// how many sends one event may fan out to, not the wire batch size.
type FCMPushSender struct {
	logger    logger.Logger
	service   *fcm.Service
	parent    string
	chunkSize int
}

// NewFCMPushSender creates a new FCM push sender
func NewFCMPushSender(ctx context.Context, tokenSource oauth2.TokenSource, projectID string, chunkSize int, logger logger.Logger) (repository.PushSender, error) {
	service, err := fcm.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create FCM service: %w", err)
	}

	if chunkSize <= 0 {
		chunkSize = 100
	}

	return &FCMPushSender{
		logger:    logger,
		service:   service,
		parent:    "projects/" + projectID,
		chunkSize: chunkSize,
	}, nil
}

// ValidToken reports whether the address looks like an FCM registration token
func (s *FCMPushSender) ValidToken(token string) bool {
	return token != "" && !strings.ContainsAny(token, " \t\n")
}

// Send delivers messages chunk by chunk; one recipient failing never stops
// the others.
func (s *FCMPushSender) Send(ctx context.Context, messages []*entity.PushMessage) []entity.PushResult {
	results := make([]entity.PushResult, 0, len(messages))

	for start := 0; start < len(messages); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(messages) {
			end = len(messages)
		}

		for _, msg := range messages[start:end] {
			_, err := s.service.Projects.Messages.Send(s.parent, &fcm.SendMessageRequest{
				Message: &fcm.Message{
					Token: msg.Token,
					Notification: &fcm.Notification{
						Title: msg.Title,
						Body:  msg.Body,
					},
					Data: msg.Data,
				},
			}).Context(ctx).Do()

			if err != nil {
				s.logger.Error("FCM send failed", "error", err)
				results = append(results, entity.PushResult{Token: msg.Token, Err: err})
				continue
			}
			results = append(results, entity.PushResult{Token: msg.Token, OK: true})
		}
	}

	return results
}
