package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debatefightclub-backend/internal/models"
	"debatefightclub-backend/internal/store"
)

type fakeSandboxStore struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*models.SandboxConversation
	messages      map[uuid.UUID][]models.SandboxMessage
}

func newFakeSandboxStore() *fakeSandboxStore {
	return &fakeSandboxStore{
		conversations: make(map[uuid.UUID]*models.SandboxConversation),
		messages:      make(map[uuid.UUID][]models.SandboxMessage),
	}
}

func (f *fakeSandboxStore) CreateSandboxConversation(ctx context.Context, userID uuid.UUID, personality, title string) (*models.SandboxConversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &models.SandboxConversation{ID: uuid.New(), UserID: userID, Personality: personality, Title: title}
	f.conversations[c.ID] = c
	return c, nil
}

func (f *fakeSandboxStore) GetSandboxConversationByID(ctx context.Context, id, userID uuid.UUID) (*models.SandboxConversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conversations[id]
	if !ok || c.UserID != userID {
		return nil, store.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (f *fakeSandboxStore) ListSandboxConversationsByUser(ctx context.Context, userID uuid.UUID) ([]models.SandboxConversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.SandboxConversation
	for _, c := range f.conversations {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeSandboxStore) AddSandboxMessage(ctx context.Context, arg store.AddSandboxMessageParams) (*models.SandboxMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := models.SandboxMessage{
		ID:             uuid.New(),
		ConversationID: arg.ConversationID,
		Speaker:        arg.Speaker,
		Message:        arg.Message,
		AudioURL:       arg.AudioURL,
	}
	f.messages[arg.ConversationID] = append(f.messages[arg.ConversationID], m)
	return &m, nil
}

func (f *fakeSandboxStore) ListSandboxMessages(ctx context.Context, conversationID uuid.UUID) ([]models.SandboxMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.SandboxMessage(nil), f.messages[conversationID]...), nil
}

// --- Tests ---

func TestCreateConversationUnknownPersonality(t *testing.T) {
	svc := NewSandboxService(newFakeSandboxStore(), &fakeCompleter{}, &fakeSynthesizer{})
	_, err := svc.CreateConversation(context.Background(), uuid.New(), "grumpy_cat", "")
	assert.ErrorIs(t, err, ErrUnknownPersonality)
}

func TestSandboxRespondStateless(t *testing.T) {
	llmFake := &fakeCompleter{reply: "That sounds really hard. I'm here for you."}
	svc := NewSandboxService(newFakeSandboxStore(), llmFake, &fakeSynthesizer{})

	resp, err := svc.Respond(context.Background(), uuid.New(), models.SandboxRespondRequest{
		Message:     "I had a rough week.",
		Personality: "supportive_friend",
		History: []models.HistoryMessage{
			{Role: "user", Content: "Hey."},
			{Role: "assistant", Content: "Hey! How are you?"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "That sounds really hard. I'm here for you.", resp.Response)
	assert.NotEmpty(t, resp.AudioURL)

	require.Len(t, llmFake.prompts, 1)
	prompt := llmFake.prompts[0]
	require.Len(t, prompt, 4)
	assert.Equal(t, "system", prompt[0].Role)
	assert.Contains(t, prompt[0].Content, "supportive friend")
	assert.Equal(t, "Hey.", prompt[1].Content)
	assert.Equal(t, "assistant", prompt[2].Role)
	assert.Equal(t, "I had a rough week.", prompt[3].Content)
}

func TestSandboxRespondUnknownPersonality(t *testing.T) {
	svc := NewSandboxService(newFakeSandboxStore(), &fakeCompleter{}, &fakeSynthesizer{})
	_, err := svc.Respond(context.Background(), uuid.New(), models.SandboxRespondRequest{
		Message:     "hello",
		Personality: "sarcastic_robot",
	})
	assert.ErrorIs(t, err, ErrUnknownPersonality)
}

func TestSandboxRespondPersistedConversation(t *testing.T) {
	st := newFakeSandboxStore()
	llmFake := &fakeCompleter{reply: "Keep going, you're doing great."}
	svc := NewSandboxService(st, llmFake, &fakeSynthesizer{})
	userID := uuid.New()

	conv, err := svc.CreateConversation(context.Background(), userID, "motivational_coach", "pep talks")
	require.NoError(t, err)

	resp, err := svc.Respond(context.Background(), userID, models.SandboxRespondRequest{
		Message: "I want to run a marathon.",
		// The stored personality wins over whatever the request claims.
		Personality:    "calm_therapist",
		ConversationID: &conv.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Keep going, you're doing great.", resp.Response)

	require.Len(t, llmFake.prompts, 1)
	assert.Contains(t, llmFake.prompts[0][0].Content, "motivational coach")

	messages, err := svc.ListMessages(context.Background(), userID, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, models.ChatSpeakerUser, messages[0].Speaker)
	assert.Equal(t, "I want to run a marathon.", messages[0].Message)
	assert.Equal(t, models.ChatSpeakerAI, messages[1].Speaker)
	assert.NotEmpty(t, messages[1].AudioURL)
}

func TestSandboxRespondTTSFailureNonFatal(t *testing.T) {
	st := newFakeSandboxStore()
	svc := NewSandboxService(st, &fakeCompleter{reply: "Interesting point."}, &fakeSynthesizer{err: errors.New("voice down")})
	userID := uuid.New()

	conv, err := svc.CreateConversation(context.Background(), userID, "devils_advocate", "")
	require.NoError(t, err)

	resp, err := svc.Respond(context.Background(), userID, models.SandboxRespondRequest{
		Message:        "Everyone should learn to code.",
		Personality:    "devils_advocate",
		ConversationID: &conv.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.AudioURL)

	messages, err := svc.ListMessages(context.Background(), userID, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Empty(t, messages[1].AudioURL)
}

func TestSandboxStatelessRespondPersistsNothing(t *testing.T) {
	st := newFakeSandboxStore()
	svc := NewSandboxService(st, &fakeCompleter{reply: "Let me explain."}, &fakeSynthesizer{})

	_, err := svc.Respond(context.Background(), uuid.New(), models.SandboxRespondRequest{
		Message:     "What is entropy?",
		Personality: "patient_teacher",
	})
	require.NoError(t, err)
	assert.Empty(t, st.messages)
}

func TestSandboxOwnerIsolation(t *testing.T) {
	st := newFakeSandboxStore()
	svc := NewSandboxService(st, &fakeCompleter{}, &fakeSynthesizer{})
	owner := uuid.New()
	stranger := uuid.New()

	conv, err := svc.CreateConversation(context.Background(), owner, "wise_mentor", "")
	require.NoError(t, err)

	_, err = svc.ListMessages(context.Background(), stranger, conv.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Respond(context.Background(), stranger, models.SandboxRespondRequest{
		Message:        "hello",
		Personality:    "wise_mentor",
		ConversationID: &conv.ID,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
