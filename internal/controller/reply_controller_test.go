package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mailfloww-be/internal/dto"
	"mailfloww-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReplyService struct {
	generateRes *dto.GenerateReplyResponse
	generateErr error
	sendRes     *dto.SendReplyResponse
	sendErr     error
	runRes      *dto.ShowRunResponse
}

func (f *fakeReplyService) GenerateReply(ctx context.Context, req *dto.GenerateReplyRequest) (*dto.GenerateReplyResponse, error) {
	return f.generateRes, f.generateErr
}

func (f *fakeReplyService) SendReply(ctx context.Context, req *dto.SendReplyRequest) (*dto.SendReplyResponse, error) {
	return f.sendRes, f.sendErr
}

func (f *fakeReplyService) ShowRun(ctx context.Context, runId string) (*dto.ShowRunResponse, error) {
	return f.runRes, nil
}

func newReplyApp(svc *fakeReplyService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewReplyController(svc).RegisterRoutes(api)
	return app
}

func postJSON(t *testing.T, app *fiber.App, url string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed
}

func TestGenerateReplyEndpoint(t *testing.T) {
	svc := &fakeReplyService{
		generateRes: &dto.GenerateReplyResponse{
			Success:         true,
			RunId:           "run-1",
			ReplyContent:    "Hello Alice",
			ConfidenceScore: 0.9,
			Iterations:      1,
		},
	}
	app := newReplyApp(svc)

	resp := postJSON(t, app, "/api/reply/v1/generate-reply", dto.GenerateReplyRequest{
		EmailContent: "where is my order?",
		SenderInfo:   "alice@example.com",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Hello Alice", data["reply_content"])
	assert.Equal(t, 0.9, data["confidence_score"])
}

func TestGenerateReplyValidation(t *testing.T) {
	app := newReplyApp(&fakeReplyService{})

	// missing sender_info
	resp := postJSON(t, app, "/api/reply/v1/generate-reply", map[string]string{
		"email_content": "hello",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// sender_info must be an email address
	resp = postJSON(t, app, "/api/reply/v1/generate-reply", map[string]string{
		"email_content": "hello",
		"sender_info":   "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateReplyServiceError(t *testing.T) {
	app := newReplyApp(&fakeReplyService{generateErr: errors.New("workflow exploded")})

	resp := postJSON(t, app, "/api/reply/v1/generate-reply", dto.GenerateReplyRequest{
		EmailContent: "hello",
		SenderInfo:   "alice@example.com",
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
}

func TestShowRunNotFound(t *testing.T) {
	app := newReplyApp(&fakeReplyService{})

	req := httptest.NewRequest(http.MethodGet, "/api/reply/v1/runs/unknown", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSendReplyEndpoint(t *testing.T) {
	app := newReplyApp(&fakeReplyService{
		sendRes: &dto.SendReplyResponse{Status: "sent", To: "alice@example.com"},
	})

	resp := postJSON(t, app, "/api/reply/v1/send-reply", dto.SendReplyRequest{
		To:      "alice@example.com",
		Subject: "Re: Broken screen",
		Body:    "Your repair is booked.",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "sent", data["status"])
}
