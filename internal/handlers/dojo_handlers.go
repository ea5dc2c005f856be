package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"debatefightclub-backend/internal/auth"
	"debatefightclub-backend/internal/llm"
	api_models "debatefightclub-backend/internal/models"
	"debatefightclub-backend/internal/services"
	"debatefightclub-backend/internal/store"
	"debatefightclub-backend/internal/validate"
	"debatefightclub-backend/pkg/httputil"
)

// DojoService defines the interface expected from the dojo service.
type DojoService interface {
	Scenarios() []api_models.ScenarioResponse
	CreateSession(ctx context.Context, userID uuid.UUID, scenario string) (*api_models.DojoSession, error)
	CompleteSession(ctx context.Context, userID, sessionID uuid.UUID) error
	ListSessions(ctx context.Context, userID uuid.UUID) ([]api_models.DojoSession, error)
	ListMessages(ctx context.Context, userID, sessionID uuid.UUID) ([]api_models.DojoMessage, error)
	Respond(ctx context.Context, userID uuid.UUID, req api_models.DojoRespondRequest) (*api_models.DojoRespondResponse, error)
}

type DojoHandlers struct {
	dojoService DojoService
}

func NewDojoHandlers(dojoSvc DojoService) *DojoHandlers {
	return &DojoHandlers{dojoService: dojoSvc}
}

// HandleListScenarios handles GET /v1/dojo/scenarios. The catalog is fixed
// and public, no auth required.
func (h *DojoHandlers) HandleListScenarios(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.dojoService.Scenarios())
}

// HandleCreateSession handles POST /v1/dojo/sessions.
func (h *DojoHandlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req api_models.CreateDojoSessionRequest
	if err := validate.Request(r.Body, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.Body.Close()

	session, err := h.dojoService.CreateSession(r.Context(), userID, req.Scenario)
	if err != nil {
		if errors.Is(err, services.ErrUnknownScenario) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("CreateSession handler failed for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, session)
}

// HandleCompleteSession handles POST /v1/dojo/sessions/{sessionID}/complete.
func (h *DojoHandlers) HandleCompleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	sessionID, ok := parseIDParam(w, r, "sessionID")
	if !ok {
		return
	}

	if err := h.dojoService.CompleteSession(r.Context(), userID, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Session not found")
			return
		}
		log.Printf("CompleteSession handler failed for session %s: %v", sessionID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to complete session")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": string(api_models.SessionStatusCompleted)})
}

// HandleListSessions handles GET /v1/dojo/sessions.
func (h *DojoHandlers) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	sessions, err := h.dojoService.ListSessions(r.Context(), userID)
	if err != nil {
		log.Printf("ListSessions handler failed for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, api_models.ListDojoSessionsResponse{Sessions: sessions})
}

// HandleListSessionMessages handles GET /v1/dojo/sessions/{sessionID}/messages.
func (h *DojoHandlers) HandleListSessionMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	sessionID, ok := parseIDParam(w, r, "sessionID")
	if !ok {
		return
	}

	messages, err := h.dojoService.ListMessages(r.Context(), userID, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Session not found")
			return
		}
		log.Printf("ListSessionMessages handler failed for session %s: %v", sessionID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, api_models.ListDojoMessagesResponse{Messages: messages})
}

// HandleRespond handles POST /v1/dojo/respond.
func (h *DojoHandlers) HandleRespond(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req api_models.DojoRespondRequest
	if err := validate.Request(r.Body, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.Body.Close()

	resp, err := h.dojoService.Respond(r.Context(), userID, req)
	if err != nil {
		log.Printf("Dojo respond handler failed for user %s: %v", userID, err)
		switch {
		case errors.Is(err, services.ErrUnknownScenario):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrSessionCompleted):
			httputil.RespondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, store.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "Session not found")
		case errors.Is(err, llm.ErrMissingAPIKey), errors.Is(err, llm.ErrInvalidResponse):
			httputil.RespondError(w, http.StatusBadGateway, "Response generation failed")
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to generate response")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
