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

// SandboxService defines the interface expected from the sandbox service.
type SandboxService interface {
	CreateConversation(ctx context.Context, userID uuid.UUID, personality, title string) (*api_models.SandboxConversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]api_models.SandboxConversation, error)
	ListMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]api_models.SandboxMessage, error)
	Respond(ctx context.Context, userID uuid.UUID, req api_models.SandboxRespondRequest) (*api_models.SandboxRespondResponse, error)
}

type SandboxHandlers struct {
	sandboxService SandboxService
}

func NewSandboxHandlers(sandboxSvc SandboxService) *SandboxHandlers {
	return &SandboxHandlers{sandboxService: sandboxSvc}
}

// HandleCreateConversation handles POST /v1/sandbox/conversations.
func (h *SandboxHandlers) HandleCreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req api_models.CreateSandboxConversationRequest
	if err := validate.Request(r.Body, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.Body.Close()

	conv, err := h.sandboxService.CreateConversation(r.Context(), userID, req.Personality, req.Title)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPersonality) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("CreateConversation handler failed for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to create conversation")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, conv)
}

// HandleListConversations handles GET /v1/sandbox/conversations.
func (h *SandboxHandlers) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	convs, err := h.sandboxService.ListConversations(r.Context(), userID)
	if err != nil {
		log.Printf("ListConversations handler failed for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, api_models.ListSandboxConversationsResponse{Conversations: convs})
}

// HandleListConversationMessages handles GET /v1/sandbox/conversations/{conversationID}/messages.
func (h *SandboxHandlers) HandleListConversationMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	conversationID, ok := parseIDParam(w, r, "conversationID")
	if !ok {
		return
	}

	messages, err := h.sandboxService.ListMessages(r.Context(), userID, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		log.Printf("ListConversationMessages handler failed for conversation %s: %v", conversationID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, api_models.ListSandboxMessagesResponse{Messages: messages})
}

// HandleRespond handles POST /v1/sandbox/respond.
func (h *SandboxHandlers) HandleRespond(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req api_models.SandboxRespondRequest
	if err := validate.Request(r.Body, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.Body.Close()

	resp, err := h.sandboxService.Respond(r.Context(), userID, req)
	if err != nil {
		log.Printf("Sandbox respond handler failed for user %s: %v", userID, err)
		switch {
		case errors.Is(err, services.ErrUnknownPersonality):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
		case errors.Is(err, llm.ErrMissingAPIKey), errors.Is(err, llm.ErrInvalidResponse):
			httputil.RespondError(w, http.StatusBadGateway, "Response generation failed")
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to generate response")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
