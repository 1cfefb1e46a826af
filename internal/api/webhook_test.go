package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	reply string
	err   error

	gotID      string
	gotMessage string
}

func (f *fakeAgent) HandleTurn(_ context.Context, externalID, message string) (string, error) {
	f.gotID = externalID
	f.gotMessage = message
	return f.reply, f.err
}

func postWebhook(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhookReply(t *testing.T) {
	agent := &fakeAgent{reply: "¡Hola! Soy SolarBot."}
	h := NewRouter(agent, time.Minute)

	rec := postWebhook(t, h, `{"phone":"555","message":"Hola"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp WebhookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "¡Hola! Soy SolarBot.", resp.Response)
	assert.Equal(t, "555", agent.gotID)
	assert.Equal(t, "Hola", agent.gotMessage)
}

func TestWebhookHidesInternalErrors(t *testing.T) {
	agent := &fakeAgent{err: errors.New("redis operation failed: connection refused")}
	h := NewRouter(agent, time.Minute)

	rec := postWebhook(t, h, `{"phone":"555","message":"Hola"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp WebhookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, unavailableReply, resp.Response)
	assert.NotContains(t, rec.Body.String(), "redis")
}

func TestWebhookRejectsBadPayloads(t *testing.T) {
	h := NewRouter(&fakeAgent{}, time.Minute)

	rec := postWebhook(t, h, `{"phone":"","message":"Hola"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postWebhook(t, h, `{"phone":"555"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postWebhook(t, h, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	h := NewRouter(&fakeAgent{}, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
