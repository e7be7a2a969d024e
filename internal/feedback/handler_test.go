package feedback_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"jobpass-backend/internal/ai"
	"jobpass-backend/internal/bootstrap"
	sharedauth "jobpass-backend/internal/shared/auth"
	"jobpass-backend/internal/shared/config"
)

type scriptedAI struct {
	response string
	err      error
}

func (s scriptedAI) Analyze(ctx context.Context, req ai.Request) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const feedbackPayload = `{
  "overallScore": 80,
  "ATS": {"score": 75, "tips": [{"type": "improve", "tip": "Add keywords"}]},
  "toneAndStyle": {"score": 82, "tips": []},
  "content": {"score": 78, "tips": []},
  "structure": {"score": 85, "tips": []},
  "skills": {"score": 70, "tips": []}
}`

func newTestApp(t *testing.T, client ai.Client) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	app.FeedbackService.AI = client
	return app
}

func authHeader(t *testing.T, userID string) string {
	t.Helper()
	token, err := sharedauth.Sign(userID, userID+"@example.com", "Test User", "")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func uploadPDF(t *testing.T, router *gin.Engine, auth string) string {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("resume", "cv.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte("%PDF-1.4\nfake resume\n%%EOF")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", auth)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return created.ID
}

func TestAnalyzeEndpointPersistsAndServesFeedback(t *testing.T) {
	app := newTestApp(t, scriptedAI{response: "```json\n" + feedbackPayload + "\n```"})
	auth := authHeader(t, "user-1")
	resumeID := uploadPDF(t, app.Router, auth)

	reqBody := bytes.NewBufferString(`{"jobDescription": "Go backend role"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+resumeID+"/analyze", reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var result struct {
		Persisted bool `json:"persisted"`
		Feedback  struct {
			OverallScore int `json:"overallScore"`
			ATS          struct {
				Score int `json:"score"`
			} `json:"ATS"`
		} `json:"feedback"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode analyze response: %v", err)
	}
	if !result.Persisted {
		t.Fatalf("expected persisted=true")
	}
	if result.Feedback.OverallScore != 80 || result.Feedback.ATS.Score != 75 {
		t.Fatalf("unexpected feedback: %+v", result.Feedback)
	}

	// The stored feedback is served afterwards.
	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+resumeID+"/feedback", nil)
	reqGet.Header.Set("Authorization", auth)
	respGet := httptest.NewRecorder()
	app.Router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}
	var stored struct {
		OverallScore int `json:"overallScore"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&stored); err != nil {
		t.Fatalf("decode feedback response: %v", err)
	}
	if stored.OverallScore != 80 {
		t.Fatalf("expected stored overallScore 80, got %d", stored.OverallScore)
	}
}

// promptRecordingAI keeps the prompt of the last Analyze call.
type promptRecordingAI struct {
	response string
	prompt   *string
}

func (p promptRecordingAI) Analyze(ctx context.Context, req ai.Request) (string, error) {
	*p.prompt = req.Prompt
	return p.response, nil
}

func TestAnalyzeBindsChunkedRequestBody(t *testing.T) {
	var prompt string
	app := newTestApp(t, promptRecordingAI{response: feedbackPayload, prompt: &prompt})
	auth := authHeader(t, "user-1")
	resumeID := uploadPDF(t, app.Router, auth)

	// A reader without a known length makes httptest leave ContentLength at -1,
	// like a chunked request.
	body := io.NopCloser(strings.NewReader(`{"jobDescription": "Chunked Go backend role"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+resumeID+"/analyze", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(prompt, "Chunked Go backend role") {
		t.Fatalf("expected job description in prompt, got %q", prompt)
	}
}

func TestAnalyzeEndpointErrorCodes(t *testing.T) {
	cases := []struct {
		name     string
		client   ai.Client
		wantCode string
	}{
		{"malformed", scriptedAI{response: "not json at all"}, "malformed_response"},
		{"invalid shape", scriptedAI{response: `{"overallScore": 80}`}, "invalid_feedback"},
		{"unavailable", scriptedAI{err: ai.ErrUnavailable}, "provider_unavailable"},
		{"rejected", scriptedAI{err: ai.ErrRejected}, "provider_rejected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, tc.client)
			auth := authHeader(t, "user-1")
			resumeID := uploadPDF(t, app.Router, auth)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+resumeID+"/analyze", nil)
			req.Header.Set("Authorization", auth)
			resp := httptest.NewRecorder()
			app.Router.ServeHTTP(resp, req)

			if resp.Code != http.StatusBadGateway {
				t.Fatalf("expected status 502, got %d: %s", resp.Code, resp.Body.String())
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if body.Error.Code != tc.wantCode {
				t.Fatalf("expected code %s, got %s", tc.wantCode, body.Error.Code)
			}
		})
	}
}

func TestAnalyzeEndpointUnknownResume(t *testing.T) {
	app := newTestApp(t, scriptedAI{response: feedbackPayload})
	auth := authHeader(t, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/nope/analyze", nil)
	req.Header.Set("Authorization", auth)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestDeleteResumeRemovesFeedback(t *testing.T) {
	app := newTestApp(t, scriptedAI{response: feedbackPayload})
	auth := authHeader(t, "user-1")
	resumeID := uploadPDF(t, app.Router, auth)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+resumeID+"/analyze", nil)
	req.Header.Set("Authorization", auth)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("analyze: expected status 200, got %d", resp.Code)
	}

	reqDel := httptest.NewRequest(http.MethodDelete, "/api/v1/resumes/"+resumeID, nil)
	reqDel.Header.Set("Authorization", auth)
	respDel := httptest.NewRecorder()
	app.Router.ServeHTTP(respDel, reqDel)
	if respDel.Code != http.StatusOK {
		t.Fatalf("delete: expected status 200, got %d", respDel.Code)
	}

	stored, err := app.FeedbackRepo.GetByResume(context.Background(), resumeID)
	if err == nil {
		t.Fatalf("expected feedback to be removed, got %+v", stored)
	}
}

func TestFeedbackEndpointBeforeAnalysis(t *testing.T) {
	app := newTestApp(t, scriptedAI{response: feedbackPayload})
	auth := authHeader(t, "user-1")
	resumeID := uploadPDF(t, app.Router, auth)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+resumeID+"/feedback", nil)
	req.Header.Set("Authorization", auth)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}
