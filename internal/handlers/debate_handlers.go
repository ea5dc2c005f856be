package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"debatefightclub-backend/internal/auth"
	"debatefightclub-backend/internal/llm"
	api_models "debatefightclub-backend/internal/models"
	"debatefightclub-backend/internal/services"
	"debatefightclub-backend/internal/store"
	"debatefightclub-backend/internal/validate"
	"debatefightclub-backend/pkg/httputil"
)

// DebateService defines the interface expected from the debate service.
type DebateService interface {
	CreateDebate(ctx context.Context, userID uuid.UUID, topic string) (*api_models.Debate, error)
	GetDebate(ctx context.Context, userID, debateID uuid.UUID) (*api_models.Debate, error)
	ListDebates(ctx context.Context, userID uuid.UUID) ([]api_models.Debate, error)
	ListMessages(ctx context.Context, userID, debateID uuid.UUID) ([]api_models.DebateMessage, error)
	UpdateStatus(ctx context.Context, userID, debateID uuid.UUID, status api_models.DebateStatus) error
	GenerateTurn(ctx context.Context, userID, debateID uuid.UUID, topic string, speaker api_models.Speaker) (*api_models.TurnResponse, error)
	HandleInterruption(ctx context.Context, userID, debateID uuid.UUID, topic, userMessage string) (*api_models.InterruptionResponse, error)
}

type DebateHandlers struct {
	debateService DebateService
}

func NewDebateHandlers(debateSvc DebateService) *DebateHandlers {
	return &DebateHandlers{debateService: debateSvc}
}

// HandleCreateDebate handles POST /v1/debates.
func (h *DebateHandlers) HandleCreateDebate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req api_models.CreateDebateRequest
	if err := validate.Request(r.Body, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.Body.Close()

	debate, err := h.debateService.CreateDebate(r.Context(), userID, req.Topic)
	if err != nil {
		log.Printf("CreateDebate handler failed for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to create debate")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, debate)
}

// HandleListDebates handles GET /v1/debates.
func (h *DebateHandlers) HandleListDebates(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	debates, err := h.debateService.ListDebates(r.Context(), userID)
	if err != nil {
		log.Printf("ListDebates handler failed for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list debates")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, api_models.ListDebatesResponse{Debates: debates})
}

// HandleGetDebate handles GET /v1/debates/{debateID}.
func (h *DebateHandlers) HandleGetDebate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	debateID, ok := parseIDParam(w, r, "debateID")
	if !ok {
		return
	}

	debate, err := h.debateService.GetDebate(r.Context(), userID, debateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Debate not found")
			return
		}
		log.Printf("GetDebate handler failed for debate %s: %v", debateID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to get debate")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, debate)
}

// HandleUpdateDebateStatus handles PATCH /v1/debates/{debateID}/status.
func (h *DebateHandlers) HandleUpdateDebateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	debateID, ok := parseIDParam(w, r, "debateID")
	if !ok {
		return
	}

	var req api_models.UpdateDebateStatusRequest
	if err := validate.Request(r.Body, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.debateService.UpdateStatus(r.Context(), userID, debateID, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Debate not found")
			return
		}
		log.Printf("UpdateDebateStatus handler failed for debate %s: %v", debateID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to update debate status")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

// HandleListDebateMessages handles GET /v1/debates/{debateID}/messages.
func (h *DebateHandlers) HandleListDebateMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	debateID, ok := parseIDParam(w, r, "debateID")
	if !ok {
		return
	}

	messages, err := h.debateService.ListMessages(r.Context(), userID, debateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Debate not found")
			return
		}
		log.Printf("ListDebateMessages handler failed for debate %s: %v", debateID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list debate messages")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, api_models.ListDebateMessagesResponse{Messages: messages})
}

// HandleGenerateTurn handles POST /v1/debates/{debateID}/turn.
func (h *DebateHandlers) HandleGenerateTurn(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	debateID, ok := parseIDParam(w, r, "debateID")
	if !ok {
		return
	}

	// Body is optional: an empty body means "next speaker, stored topic".
	var req api_models.GenerateTurnRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := validate.Request(r.Body, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	defer r.Body.Close()

	turn, err := h.debateService.GenerateTurn(r.Context(), userID, debateID, req.Topic, req.Speaker)
	if err != nil {
		log.Printf("GenerateTurn handler failed for debate %s: %v", debateID, err)
		switch {
		case errors.Is(err, store.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "Debate not found")
		case errors.Is(err, services.ErrDebateNotActive):
			httputil.RespondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrGenerationInFlight):
			httputil.RespondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrTurnTooSoon):
			httputil.RespondError(w, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, llm.ErrMissingAPIKey), errors.Is(err, llm.ErrInvalidResponse):
			httputil.RespondError(w, http.StatusBadGateway, "Argument generation failed")
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to generate turn")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, turn)
}

// HandleInterruption handles POST /v1/debates/{debateID}/interrupt.
func (h *DebateHandlers) HandleInterruption(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	debateID, ok := parseIDParam(w, r, "debateID")
	if !ok {
		return
	}

	var req api_models.InterruptionRequest
	if err := validate.Request(r.Body, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.Body.Close()

	resp, err := h.debateService.HandleInterruption(r.Context(), userID, debateID, req.Topic, req.Message)
	if err != nil {
		log.Printf("Interruption handler failed for debate %s: %v", debateID, err)
		switch {
		case errors.Is(err, store.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "Debate not found")
		case errors.Is(err, llm.ErrMissingAPIKey), errors.Is(err, llm.ErrInvalidResponse):
			httputil.RespondError(w, http.StatusBadGateway, "Argument generation failed")
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to handle interruption")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// parseIDParam extracts and parses a UUID route parameter, writing a 400 on
// failure.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid "+name+" format (UUID expected)")
		return uuid.Nil, false
	}
	return id, true
}
