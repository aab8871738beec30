package controller

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mailfloww-be/internal/dto"
	"mailfloww-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngestService struct {
	storeErr   error
	docRes     *dto.ProcessDocumentResponse
	docErr     error
	statsRes   *dto.IngestStatsResponse
	lastStored *dto.StoreEmailRequest
}

func (f *fakeIngestService) StoreEmail(ctx context.Context, req *dto.StoreEmailRequest) (*dto.StoreEmailResponse, error) {
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	f.lastStored = req
	return &dto.StoreEmailResponse{Status: "stored", EmailId: req.EmailId, Sender: req.SenderInfo}, nil
}

func (f *fakeIngestService) ProcessDocument(ctx context.Context, filename string, content []byte) (*dto.ProcessDocumentResponse, error) {
	return f.docRes, f.docErr
}

func (f *fakeIngestService) Stats(ctx context.Context) (*dto.IngestStatsResponse, error) {
	return f.statsRes, nil
}

type fakeFetcherService struct {
	res *dto.FetchEmailsResponse
}

func (f *fakeFetcherService) FetchAndQueue(ctx context.Context) (*dto.FetchEmailsResponse, error) {
	return f.res, nil
}

func (f *fakeFetcherService) RunPeriodic(ctx context.Context, interval time.Duration) {}

func newIngestApp(ingest *fakeIngestService, fetcher *fakeFetcherService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewIngestController(ingest, fetcher).RegisterRoutes(api)
	return app
}

func TestStoreEmailEndpoint(t *testing.T) {
	svc := &fakeIngestService{}
	app := newIngestApp(svc, &fakeFetcherService{})

	resp := postJSON(t, app, "/api/ingest/v1/store-email", dto.StoreEmailRequest{
		EmailContent: "My NexusBook screen is cracked",
		SenderInfo:   "alice@example.com",
		EmailId:      "em-1",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.lastStored)
	assert.Equal(t, "em-1", svc.lastStored.EmailId)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "stored", data["status"])
	assert.Equal(t, "alice@example.com", data["sender"])
}

func TestStoreEmailValidation(t *testing.T) {
	app := newIngestApp(&fakeIngestService{}, &fakeFetcherService{})

	resp := postJSON(t, app, "/api/ingest/v1/store-email", map[string]string{
		"email_content": "content without id",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStoreEmailServiceFailure(t *testing.T) {
	app := newIngestApp(&fakeIngestService{storeErr: fmt.Errorf("embedding provider down")}, &fakeFetcherService{})

	resp := postJSON(t, app, "/api/ingest/v1/store-email", dto.StoreEmailRequest{
		EmailContent: "content",
		SenderInfo:   "a@x.com",
		EmailId:      "em-1",
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestProcessDocumentEndpoint(t *testing.T) {
	svc := &fakeIngestService{
		docRes: &dto.ProcessDocumentResponse{Status: "processed", Filename: "policies.txt", TotalDocuments: 3},
	}
	app := newIngestApp(svc, &fakeFetcherService{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "policies.txt")
	require.NoError(t, err)
	part.Write([]byte("Policy one.\n\nPolicy two."))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/v1/process-company-document", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "policies.txt", data["filename"])
	assert.Equal(t, float64(3), data["total_documents"])
}

func TestProcessDocumentMissingFile(t *testing.T) {
	app := newIngestApp(&fakeIngestService{}, &fakeFetcherService{})

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/v1/process-company-document", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatsEndpoint(t *testing.T) {
	app := newIngestApp(&fakeIngestService{
		statsRes: &dto.IngestStatsResponse{EmailCount: 12, DocumentCount: 4},
	}, &fakeFetcherService{})

	req := httptest.NewRequest(http.MethodGet, "/api/ingest/v1/stats", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(12), data["email_count"])
	assert.Equal(t, float64(4), data["document_count"])
}

func TestFetchEmailsEndpoint(t *testing.T) {
	app := newIngestApp(&fakeIngestService{}, &fakeFetcherService{
		res: &dto.FetchEmailsResponse{Success: true, EmailsFetched: 2, EmailsQueued: 2, Message: "Successfully queued 2/2 emails"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/v1/fetch-emails", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["emails_queued"])
}
