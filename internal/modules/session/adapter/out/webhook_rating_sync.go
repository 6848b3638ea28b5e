package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	sessionout "readlog/internal/modules/session/port/out"
)

const ratingSyncTimeout = 10 * time.Second

type ratingPayload struct {
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	SessionID string `json:"session_id"`
	Rating    int    `json:"rating"`
	Review    string `json:"review,omitempty"`
}

// WebhookRatingSync posts ratings to an external catalog in the
// background. Failures are logged and never reach the caller.
type WebhookRatingSync struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
	wg         sync.WaitGroup
}

func NewWebhookRatingSync(httpClient *http.Client, endpoint string, logger *slog.Logger) *WebhookRatingSync {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: ratingSyncTimeout}
	}
	return &WebhookRatingSync{httpClient: httpClient, endpoint: endpoint, logger: logger}
}

func (w *WebhookRatingSync) SyncRating(ctx context.Context, update sessionout.RatingUpdate) {
	ctx = context.WithoutCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, ratingSyncTimeout)
		defer cancel()
		if err := w.post(ctx, update); err != nil {
			w.logger.Warn("rating sync failed",
				slog.String("book", update.BookID),
				slog.String("session", update.SessionID),
				slog.String("error", err.Error()),
			)
			return
		}
		w.logger.Debug("rating synced", slog.String("book", update.BookID), slog.Int("rating", update.Rating))
	}()
}

// Close waits for in-flight posts.
func (w *WebhookRatingSync) Close() {
	w.wg.Wait()
}

func (w *WebhookRatingSync) post(ctx context.Context, update sessionout.RatingUpdate) error {
	body, err := json.Marshal(ratingPayload(update))
	if err != nil {
		return fmt.Errorf("encode rating: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "readlog/1.0")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}
	return nil
}

type NopRatingSync struct{}

func (NopRatingSync) SyncRating(context.Context, sessionout.RatingUpdate) {}
