package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/internal/domain/repository"
	"telecare-notifier/pkg/logger"
)

// ExpoPushSender delivers push messages through the Expo push API. Requests
// for one event are batched into a single call per chunk.
type ExpoPushSender struct {
	logger    logger.Logger
	url       string
	chunkSize int
	client    *http.Client
}

// NewExpoPushSender creates a new Expo push sender
func NewExpoPushSender(url string, chunkSize int, logger logger.Logger) repository.PushSender {
	if chunkSize <= 0 {
		chunkSize = 100
	}
	return &ExpoPushSender{
		logger:    logger,
		url:       url,
		chunkSize: chunkSize,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type expoMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound"`
}

type expoTicket struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ValidToken reports whether the address is an Expo push token
func (s *ExpoPushSender) ValidToken(token string) bool {
	return strings.HasPrefix(token, "ExponentPushToken[") && strings.HasSuffix(token, "]")
}

// Send delivers messages in chunks, one outbound call per chunk. A failed
// chunk marks only its own messages failed; remaining chunks still go out.
func (s *ExpoPushSender) Send(ctx context.Context, messages []*entity.PushMessage) []entity.PushResult {
	results := make([]entity.PushResult, 0, len(messages))

	for start := 0; start < len(messages); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(messages) {
			end = len(messages)
		}
		results = append(results, s.sendChunk(ctx, messages[start:end])...)
	}

	return results
}

func (s *ExpoPushSender) sendChunk(ctx context.Context, chunk []*entity.PushMessage) []entity.PushResult {
	body := make([]expoMessage, 0, len(chunk))
	for _, msg := range chunk {
		body = append(body, expoMessage{
			To:    msg.Token,
			Title: msg.Title,
			Body:  msg.Body,
			Data:  msg.Data,
			Sound: "default",
		})
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return s.chunkFailed(chunk, fmt.Errorf("failed to marshal push batch: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return s.chunkFailed(chunk, fmt.Errorf("failed to create push request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return s.chunkFailed(chunk, fmt.Errorf("failed to send push request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return s.chunkFailed(chunk, fmt.Errorf("push service returned status %d: %v", resp.StatusCode, errorBody))
	}

	var response struct {
		Data []expoTicket `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return s.chunkFailed(chunk, fmt.Errorf("failed to decode push response: %w", err))
	}

	results := make([]entity.PushResult, 0, len(chunk))
	for i, msg := range chunk {
		if i < len(response.Data) && response.Data[i].Status == "ok" {
			results = append(results, entity.PushResult{Token: msg.Token, OK: true})
			continue
		}
		reason := "no ticket returned"
		if i < len(response.Data) {
			reason = response.Data[i].Message
		}
		results = append(results, entity.PushResult{
			Token: msg.Token,
			Err:   fmt.Errorf("push rejected: %s", reason),
		})
	}

	s.logger.Info("Push chunk delivered",
		"size", len(chunk),
		"tickets", len(response.Data))

	return results
}

func (s *ExpoPushSender) chunkFailed(chunk []*entity.PushMessage, err error) []entity.PushResult {
	s.logger.Error("Push chunk failed", "size", len(chunk), "error", err)
	results := make([]entity.PushResult, 0, len(chunk))
	for _, msg := range chunk {
		results = append(results, entity.PushResult{Token: msg.Token, Err: err})
	}
	return results
}
