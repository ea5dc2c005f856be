package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debatefightclub-backend/internal/models"
)

func TestRequestAccepts(t *testing.T) {
	var req models.CreateDebateRequest
	err := Request(strings.NewReader(`{"topic":"pineapple on pizza"}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "pineapple on pizza", req.Topic)
}

func TestRequestRejectsMalformedJSON(t *testing.T) {
	var req models.CreateDebateRequest
	err := Request(strings.NewReader(`{"topic":`), &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request payload")
}

func TestRequestRejectsMissingFields(t *testing.T) {
	var req models.SignupRequest
	err := Request(strings.NewReader(`{"email":"not-an-email"}`), &req)
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)

	fields := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		fields[i] = f.Field
	}
	assert.Contains(t, fields, "email", "invalid email rejected")
	assert.Contains(t, fields, "password", "missing password rejected")
}

func TestStructReportsEveryFailure(t *testing.T) {
	req := models.UpdateDebateStatusRequest{Status: "archived"}
	err := Struct(req)
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "status", verr.Fields[0].Field)
	assert.Equal(t, "oneof", verr.Fields[0].Rule)
}

func TestStructAcceptsOptionalSpeaker(t *testing.T) {
	assert.NoError(t, Struct(models.GenerateTurnRequest{}))
	assert.NoError(t, Struct(models.GenerateTurnRequest{Speaker: "con"}))
	assert.Error(t, Struct(models.GenerateTurnRequest{Speaker: "moderator"}))
}

func TestStructValidatesNestedHistory(t *testing.T) {
	req := models.SandboxRespondRequest{
		Message:     "hello",
		Personality: "wise_mentor",
		History: []models.HistoryMessage{
			{Role: "narrator", Content: "once upon a time"},
		},
	}
	err := Struct(req)
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "role", verr.Fields[0].Field)
}
