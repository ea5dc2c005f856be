package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"debatefightclub-backend/internal/auth"
	api_models "debatefightclub-backend/internal/models"
	"debatefightclub-backend/internal/speech"
	"debatefightclub-backend/internal/validate"
	"debatefightclub-backend/pkg/httputil"
)

// Transcriber defines the interface expected from the STT gateway.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, error)
}

type SpeechHandlers struct {
	stt Transcriber
}

func NewSpeechHandlers(stt Transcriber) *SpeechHandlers {
	return &SpeechHandlers{stt: stt}
}

// HandleTranscribe handles POST /v1/speech/transcribe.
func (h *SpeechHandlers) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req api_models.TranscribeRequest
	if err := validate.Request(r.Body, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.Body.Close()

	transcript, err := h.stt.Transcribe(r.Context(), req.AudioURL)
	if err != nil {
		log.Printf("Transcribe handler failed for user %s: %v", userID, err)
		switch {
		case errors.Is(err, speech.ErrNoTranscript):
			httputil.RespondError(w, http.StatusUnprocessableEntity, "No transcript could be produced for this audio")
		case errors.Is(err, speech.ErrMissingSTTKey):
			httputil.RespondError(w, http.StatusBadGateway, "Transcription is not configured")
		default:
			httputil.RespondError(w, http.StatusBadGateway, "Transcription failed")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, api_models.TranscribeResponse{Transcript: transcript})
}
