package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const deepgramAPIURL = "https://api.deepgram.com/v1"

var (
	// ErrMissingSTTKey is returned when the Deepgram key is not configured.
	ErrMissingSTTKey = errors.New("speech: DEEPGRAM_API_KEY not configured")
	// ErrNoTranscript is returned when the provider produced no transcript.
	ErrNoTranscript = errors.New("speech: no transcript received from provider")
)

type sttRequest struct {
	URL string `json:"url"`
}

type sttResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// STTClient transcribes remote audio via Deepgram.
type STTClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewSTTClient creates an STT gateway using the production Deepgram endpoint.
func NewSTTClient(apiKey string) *STTClient {
	return &STTClient{
		apiURL:     deepgramAPIURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

// Transcribe fetches a transcript for the audio at audioURL.
func (c *STTClient) Transcribe(ctx context.Context, audioURL string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingSTTKey
	}

	body, err := json.Marshal(sttRequest{URL: audioURL})
	if err != nil {
		return "", fmt.Errorf("speech: failed to marshal STT request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/listen?model=nova-2&language=en", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("speech: failed to build STT request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech: STT request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("speech: failed to read STT response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("speech: Deepgram API error: %d - %s", resp.StatusCode, string(respBody))
	}

	var parsed sttResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("speech: invalid STT response: %w", err)
	}

	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", ErrNoTranscript
	}
	transcript := parsed.Results.Channels[0].Alternatives[0].Transcript
	if transcript == "" {
		return "", ErrNoTranscript
	}

	return transcript, nil
}
