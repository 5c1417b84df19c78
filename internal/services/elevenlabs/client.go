// Package elevenlabs is a minimal text-to-speech client for the ElevenLabs API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"pilotcast/internal/services"
)

const (
	providerName       = "elevenlabs"
	defaultBaseURL     = "https://api.elevenlabs.io"
	defaultHTTPTimeout = 60 * time.Second
	// maxErrorBody caps how much of a failed response is kept for diagnostics.
	maxErrorBody = 4096
)

// VoiceSettings are sent with every request.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceSettings is the house voice profile.
var DefaultVoiceSettings = VoiceSettings{
	Stability:       0.5,
	SimilarityBoost: 0.75,
	Style:           0.0,
	UseSpeakerBoost: true,
}

// Client wraps the ElevenLabs text-to-speech endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	settings   VoiceSettings
}

// Option customizes the client.
type Option func(*Client)

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithRequestsPerMinute paces requests with a token bucket. Values <= 0
// disable pacing.
func WithRequestsPerMinute(rpm int) Option {
	return func(c *Client) {
		if rpm <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
	}
}

// WithVoiceSettings overrides DefaultVoiceSettings.
func WithVoiceSettings(settings VoiceSettings) Option {
	return func(c *Client) {
		c.settings = settings
	}
}

// NewClient constructs an ElevenLabs API client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		settings:   DefaultVoiceSettings,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Synthesize renders text in voiceID using modelID and returns MP3 bytes.
// Non-success responses carry a *services.HTTPError; an empty payload is an
// integrity failure.
func (c *Client) Synthesize(ctx context.Context, voiceID, modelID, text string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, providerName, "synthesize", "api key required", nil)
	}
	voiceID = strings.TrimSpace(voiceID)
	if voiceID == "" {
		return nil, services.Wrap(services.ErrConfiguration, providerName, "synthesize", "voice id required", nil)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("elevenlabs synthesize: wait for rate limiter: %w", err)
		}
	}

	endpoint, err := url.JoinPath(c.baseURL, "v1", "text-to-speech", voiceID)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs synthesize: build url: %w", err)
	}
	encoded, err := json.Marshal(ttsRequest{Text: text, ModelID: modelID, VoiceSettings: c.settings})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs synthesize: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs synthesize: request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, providerName, "synthesize", "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, providerName, "synthesize", "read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices || resp.StatusCode < http.StatusOK {
		snippet := body
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &services.HTTPError{Provider: providerName, Status: resp.StatusCode, Body: string(snippet)}
	}
	if len(body) == 0 {
		return nil, services.Wrap(services.ErrIntegrity, providerName, "synthesize", "empty audio payload", nil)
	}
	return body, nil
}
