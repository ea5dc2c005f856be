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

type fakeDojoStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*models.DojoSession
	messages map[uuid.UUID][]models.DojoMessage
}

func newFakeDojoStore() *fakeDojoStore {
	return &fakeDojoStore{
		sessions: make(map[uuid.UUID]*models.DojoSession),
		messages: make(map[uuid.UUID][]models.DojoMessage),
	}
}

func (f *fakeDojoStore) CreateDojoSession(ctx context.Context, userID uuid.UUID, scenario, description string) (*models.DojoSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &models.DojoSession{
		ID:          uuid.New(),
		UserID:      userID,
		Scenario:    scenario,
		Description: description,
		Status:      models.SessionStatusInProgress,
	}
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeDojoStore) GetDojoSessionByID(ctx context.Context, id, userID uuid.UUID) (*models.DojoSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return nil, store.ErrNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeDojoStore) ListDojoSessionsByUser(ctx context.Context, userID uuid.UUID) ([]models.DojoSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DojoSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeDojoStore) UpdateDojoSessionScore(ctx context.Context, id, userID uuid.UUID, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return store.ErrNotFound
	}
	s.Score = score
	return nil
}

func (f *fakeDojoStore) UpdateDojoSessionStatus(ctx context.Context, id, userID uuid.UUID, status models.SessionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return store.ErrNotFound
	}
	s.Status = status
	return nil
}

func (f *fakeDojoStore) AddDojoMessage(ctx context.Context, arg store.AddDojoMessageParams) (*models.DojoMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := models.DojoMessage{
		ID:        uuid.New(),
		SessionID: arg.SessionID,
		Speaker:   arg.Speaker,
		Message:   arg.Message,
		AudioURL:  arg.AudioURL,
		Score:     arg.Score,
		Feedback:  arg.Feedback,
	}
	f.messages[arg.SessionID] = append(f.messages[arg.SessionID], m)
	return &m, nil
}

func (f *fakeDojoStore) ListDojoMessages(ctx context.Context, sessionID uuid.UUID) ([]models.DojoMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.DojoMessage(nil), f.messages[sessionID]...), nil
}

func (f *fakeDojoStore) CountDojoResponses(ctx context.Context, sessionID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.messages[sessionID] {
		if m.Speaker == models.ChatSpeakerAI {
			n++
		}
	}
	return n, nil
}

// --- Tests ---

func TestParseScoredReply(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantResponse string
		wantScore    int
		wantFeedback string
	}{
		{
			name:         "well formed reply",
			input:        "That's a fair point about budget.\nSCORE: 87\nGreat job staying calm.",
			wantResponse: "That's a fair point about budget.",
			wantScore:    87,
			wantFeedback: "Great job staying calm.",
		},
		{
			name:         "no marker falls back to defaults",
			input:        "I hear you, let's talk numbers.",
			wantResponse: "I hear you, let's talk numbers.",
			wantScore:    50,
			wantFeedback: "Good effort!",
		},
		{
			name:         "score above range clamps to 100",
			input:        "Impressive.\nSCORE: 150\nFlawless delivery.",
			wantResponse: "Impressive.",
			wantScore:    100,
			wantFeedback: "Flawless delivery.",
		},
		{
			name:         "score below range clamps to 1",
			input:        "Hmm.\nSCORE: -5\nThat came across hostile.",
			wantResponse: "Hmm.",
			wantScore:    1,
			wantFeedback: "That came across hostile.",
		},
		{
			name:         "missing feedback falls back to default",
			input:        "Understood.\nSCORE: 60",
			wantResponse: "Understood.",
			wantScore:    60,
			wantFeedback: "Good effort!",
		},
		{
			name:         "multiline feedback kept whole",
			input:        "Noted.\nSCORE: 72\nGood structure.\nWork on your opening.",
			wantResponse: "Noted.",
			wantScore:    72,
			wantFeedback: "Good structure.\nWork on your opening.",
		},
		{
			name:         "whitespace trimmed",
			input:        "  Sure.  \nSCORE:  42 \n  Be more direct.  ",
			wantResponse: "Sure.",
			wantScore:    42,
			wantFeedback: "Be more direct.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, score, feedback := ParseScoredReply(tt.input)
			assert.Equal(t, tt.wantResponse, response)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantFeedback, feedback)
		})
	}
}

func TestRollScore(t *testing.T) {
	tests := []struct {
		name    string
		prevAvg int
		score   int
		n       int
		want    int
	}{
		{"first score replaces", 0, 80, 1, 80},
		{"second score averages", 80, 60, 2, 70},
		{"later scores move less", 70, 100, 3, 80},
		{"zero count treated as first", 0, 55, 0, 55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RollScore(tt.prevAvg, tt.score, tt.n))
		})
	}
}

func TestDojoRespondUnknownScenario(t *testing.T) {
	svc := NewDojoService(newFakeDojoStore(), &fakeCompleter{}, &fakeSynthesizer{})
	_, err := svc.Respond(context.Background(), uuid.New(), models.DojoRespondRequest{
		Message:  "hello",
		Scenario: "underwater_basket_weaving",
	})
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestDojoRespondStateless(t *testing.T) {
	llmFake := &fakeCompleter{reply: "Let's discuss.\nSCORE: 65\nSolid opener."}
	svc := NewDojoService(newFakeDojoStore(), llmFake, &fakeSynthesizer{})

	resp, err := svc.Respond(context.Background(), uuid.New(), models.DojoRespondRequest{
		Message:  "I'd like to talk about my compensation.",
		Scenario: "salary_negotiation",
		History: []models.HistoryMessage{
			{Role: "user", Content: "Hi, do you have a minute?"},
			{Role: "assistant", Content: "Sure, come in."},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Let's discuss.", resp.Response)
	assert.Equal(t, 65, resp.Score)
	assert.Equal(t, "Solid opener.", resp.Feedback)
	assert.NotEmpty(t, resp.AudioURL)

	// Client-supplied history is resent in order.
	require.Len(t, llmFake.prompts, 1)
	prompt := llmFake.prompts[0]
	require.Len(t, prompt, 4)
	assert.Equal(t, "Hi, do you have a minute?", prompt[1].Content)
	assert.Equal(t, "Sure, come in.", prompt[2].Content)
	assert.Equal(t, "I'd like to talk about my compensation.", prompt[3].Content)
}

func TestDojoRespondPersistsAndRollsScore(t *testing.T) {
	st := newFakeDojoStore()
	llmFake := &fakeCompleter{reply: "Go on.\nSCORE: 80\nClear ask."}
	svc := NewDojoService(st, llmFake, &fakeSynthesizer{})
	userID := uuid.New()

	session, err := svc.CreateSession(context.Background(), userID, "job_interview")
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), userID, models.DojoRespondRequest{
		Message:   "I led a team of five.",
		Scenario:  "job_interview",
		SessionID: &session.ID,
	})
	require.NoError(t, err)

	reloaded, err := st.GetDojoSessionByID(context.Background(), session.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 80, reloaded.Score)

	llmFake.reply = "Tell me more.\nSCORE: 60\nToo vague."
	_, err = svc.Respond(context.Background(), userID, models.DojoRespondRequest{
		Message:   "We shipped stuff.",
		Scenario:  "job_interview",
		SessionID: &session.ID,
	})
	require.NoError(t, err)

	reloaded, err = st.GetDojoSessionByID(context.Background(), session.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 70, reloaded.Score, "running average of 80 and 60")

	messages, err := svc.ListMessages(context.Background(), userID, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, models.ChatSpeakerUser, messages[0].Speaker)
	assert.Equal(t, models.ChatSpeakerAI, messages[1].Speaker)
	assert.Equal(t, 80, messages[1].Score)
	assert.Equal(t, "Clear ask.", messages[1].Feedback)
}

func TestDojoRespondTTSFailureNonFatal(t *testing.T) {
	st := newFakeDojoStore()
	svc := NewDojoService(st, &fakeCompleter{reply: "Okay.\nSCORE: 55\nFine."}, &fakeSynthesizer{err: errors.New("voice down")})
	userID := uuid.New()

	session, err := svc.CreateSession(context.Background(), userID, "client_complaint")
	require.NoError(t, err)

	resp, err := svc.Respond(context.Background(), userID, models.DojoRespondRequest{
		Message:   "I understand your frustration.",
		Scenario:  "client_complaint",
		SessionID: &session.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.AudioURL)
	assert.Equal(t, 55, resp.Score)

	messages, err := svc.ListMessages(context.Background(), userID, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Empty(t, messages[1].AudioURL)
}

func TestDojoSessionUsesStoredHistory(t *testing.T) {
	st := newFakeDojoStore()
	llmFake := &fakeCompleter{reply: "Continue.\nSCORE: 70\nGood."}
	svc := NewDojoService(st, llmFake, &fakeSynthesizer{})
	userID := uuid.New()

	session, err := svc.CreateSession(context.Background(), userID, "conflict_resolution")
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), userID, models.DojoRespondRequest{
		Message:   "I felt talked over in the meeting.",
		Scenario:  "conflict_resolution",
		SessionID: &session.ID,
	})
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), userID, models.DojoRespondRequest{
		Message:   "Can we agree on a signal?",
		Scenario:  "conflict_resolution",
		SessionID: &session.ID,
		// Client history is ignored when the session carries its own.
		History: []models.HistoryMessage{{Role: "user", Content: "bogus"}},
	})
	require.NoError(t, err)

	require.Len(t, llmFake.prompts, 2)
	second := llmFake.prompts[1]
	require.Len(t, second, 4, "system + 2 stored turns + new message")
	assert.Equal(t, "I felt talked over in the meeting.", second[1].Content)
	assert.Equal(t, "Continue.", second[2].Content)
}

func TestDojoScenarioCatalog(t *testing.T) {
	svc := NewDojoService(newFakeDojoStore(), &fakeCompleter{}, &fakeSynthesizer{})
	scenarios := svc.Scenarios()
	require.Len(t, scenarios, 6)

	ids := make([]string, len(scenarios))
	for i, s := range scenarios {
		ids[i] = s.ID
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Description)
		assert.NotEmpty(t, s.SystemPrompt)
	}
	assert.Contains(t, ids, "salary_negotiation")
	assert.Contains(t, ids, "job_interview")
}

func TestCompletedSessionRejectsResponses(t *testing.T) {
	st := newFakeDojoStore()
	llmFake := &fakeCompleter{reply: "Sure.\nSCORE: 90\nStrong close."}
	svc := NewDojoService(st, llmFake, &fakeSynthesizer{})
	userID := uuid.New()

	session, err := svc.CreateSession(context.Background(), userID, "salary_negotiation")
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), userID, models.DojoRespondRequest{
		Message:   "I'd like to revisit my compensation.",
		Scenario:  "salary_negotiation",
		SessionID: &session.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.CompleteSession(context.Background(), userID, session.ID))

	_, err = svc.Respond(context.Background(), userID, models.DojoRespondRequest{
		Message:   "One more thing.",
		Scenario:  "salary_negotiation",
		SessionID: &session.ID,
	})
	assert.ErrorIs(t, err, ErrSessionCompleted)

	// Nothing new persisted and the rolling score stayed put.
	messages, err := st.ListDojoMessages(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 2)

	reloaded, err := st.GetDojoSessionByID(context.Background(), session.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 90, reloaded.Score)
}

func TestCompleteDojoSession(t *testing.T) {
	st := newFakeDojoStore()
	svc := NewDojoService(st, &fakeCompleter{}, &fakeSynthesizer{})
	userID := uuid.New()

	session, err := svc.CreateSession(context.Background(), userID, "difficult_feedback")
	require.NoError(t, err)

	require.NoError(t, svc.CompleteSession(context.Background(), userID, session.ID))

	reloaded, err := st.GetDojoSessionByID(context.Background(), session.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCompleted, reloaded.Status)

	err = svc.CompleteSession(context.Background(), uuid.New(), session.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateDojoSessionUnknownScenario(t *testing.T) {
	svc := NewDojoService(newFakeDojoStore(), &fakeCompleter{}, &fakeSynthesizer{})
	_, err := svc.CreateSession(context.Background(), uuid.New(), "thumb_war")
	assert.ErrorIs(t, err, ErrUnknownScenario)
}
