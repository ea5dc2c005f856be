// Package speech holds the text-to-speech and speech-to-text provider
// gateways. Neither gateway retries; callers treat failure as terminal for
// that turn.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"debatefightclub-backend/internal/storage"
)

const elevenLabsAPIURL = "https://api.elevenlabs.io/v1"

// ErrMissingTTSKey is returned when the ElevenLabs key is not configured.
var ErrMissingTTSKey = errors.New("speech: ELEVENLABS_API_KEY not configured")

// voiceIDs maps speaker selectors to fixed ElevenLabs voice identifiers.
var voiceIDs = map[string]string{
	"pro":  "EXAVITQu4vr4xnSDxMaL", // Rachel (female)
	"con":  "TxGEqnHWrfWFTfGW9XjX", // Callum (male)
	"user": "21m00Tcm4TlvDq8ikWAM", // George (male)
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// TTSClient synthesizes speech via ElevenLabs and uploads the audio to
// object storage, returning a durable public URL.
type TTSClient struct {
	apiURL     string
	apiKey     string
	uploader   storage.Uploader
	httpClient *http.Client
}

// NewTTSClient creates a TTS gateway using the production ElevenLabs endpoint.
func NewTTSClient(apiKey string, uploader storage.Uploader) *TTSClient {
	return &TTSClient{
		apiURL:     elevenLabsAPIURL,
		apiKey:     apiKey,
		uploader:   uploader,
		httpClient: http.DefaultClient,
	}
}

// Synthesize converts text to speech with the voice mapped to speaker
// (one of "pro", "con", "user") and returns the uploaded audio's URL.
func (c *TTSClient) Synthesize(ctx context.Context, text, speaker string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingTTSKey
	}

	voiceID, ok := voiceIDs[speaker]
	if !ok {
		return "", fmt.Errorf("speech: unknown speaker voice %q", speaker)
	}

	body, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: "eleven_turbo_v2_5",
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech: failed to marshal TTS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/text-to-speech/"+voiceID, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("speech: failed to build TTS request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech: TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("speech: ElevenLabs API error: %d - %s", resp.StatusCode, string(errBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("speech: failed to read audio body: %w", err)
	}

	key := fmt.Sprintf("debate-audio/%s-%d-%08x.mp3", speaker, time.Now().UnixMilli(), rand.Uint32())
	url, err := c.uploader.Put(ctx, key, audio, "audio/mpeg")
	if err != nil {
		return "", fmt.Errorf("speech: failed to upload audio: %w", err)
	}

	return url, nil
}
