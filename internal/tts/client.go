// Package tts drives the local text-to-speech service that synthesizes
// per-line audio for characters with a prepared voice.
package tts

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/scriptroom/scriptroom-server/internal/config"
	domainerrors "github.com/scriptroom/scriptroom-server/internal/errors"
	"github.com/scriptroom/scriptroom-server/internal/ratelimit"
)

// Client is a rate-limited client for the local TTS HTTP service. Requests
// are limited per voice: the service loads one voice model at a time and
// thrashes when hit with interleaved voices at full speed.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// NewClient creates a TTS client from configuration.
func NewClient(cfg config.TTSConfig, logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		limiter: ratelimit.New(cfg.RequestsPerSecond, cfg.Burst),
		logger:  logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

type synthesizeRequest struct {
	Voice  string `json:"voice"`
	Text   string `json:"text"`
	Format string `json:"format"`
}

// Synthesize renders one line of text in the given voice and returns the
// encoded audio.
func (c *Client) Synthesize(ctx context.Context, voice, text string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, voice); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(synthesizeRequest{Voice: voice, Text: text, Format: "wav"})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/synthesize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/wav")

	c.logger.Debug("tts request", "voice", voice, "chars", len(text))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domainerrors.Unavailable("TTS service unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if len(body) == 0 {
			return nil, fmt.Errorf("TTS service returned an empty clip for voice %q", voice)
		}
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, domainerrors.NotFoundf("voice %q is not prepared on the TTS service", voice)
	case resp.StatusCode >= 500:
		return nil, domainerrors.Unavailable("TTS service error").WithDetails(string(body))
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
