package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/dgallion1/docsum/internal/backend"
	"github.com/dgallion1/docsum/internal/config"
	"github.com/dgallion1/docsum/internal/document"
	"github.com/dgallion1/docsum/internal/jobs"
	"github.com/dgallion1/docsum/internal/summarize"
)

const testKey = "test-key"

// echoProvider answers every request with the same four-sentence summary.
type echoProvider struct{}

func (echoProvider) Summarize(context.Context, summarize.Request) summarize.Result {
	return summarize.Succeeded("summary of the input. second line here. third line here. fourth.")
}

func (echoProvider) Model() string { return "echo-1" }

type ServerTestSuite struct {
	suite.Suite
	srv   *Server
	queue *jobs.Queue
	llm   *backend.Backend
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	cfg := config.Default()
	cfg.DocsumAPIKey = testKey
	cfg.MaxUploadBytes = 64 * 1024
	cfg.MaxTextBytes = 8 * 1024

	s.llm = backend.Wrap("echo", echoProvider{}, cfg.MaxInputTokens, nil).WithEncoder(nil)
	p := summarize.New(s.llm)
	store := jobs.NewStore(time.Hour)
	worker := jobs.NewWorker(p, store, document.Options{}, cfg.MinInputWords, nil)
	s.queue = jobs.NewQueue(store, worker, 2, 10, nil)
	s.queue.Start(context.Background())

	s.srv = NewServer(s.queue, p, s.llm, nil, cfg)
}

func (s *ServerTestSuite) TearDownTest() {
	s.queue.Stop()
}

func (s *ServerTestSuite) do(req *http.Request, auth bool) *httptest.ResponseRecorder {
	if auth {
		req.Header.Set("Authorization", "Bearer "+testKey)
	}
	rec := httptest.NewRecorder()
	s.srv.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, true)
}

func (s *ServerTestSuite) multipartRequest(path string, field string, files map[string]string, fields map[string]string) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile(field, name)
		s.Require().NoError(err)
		_, err = fw.Write([]byte(content))
		s.Require().NoError(err)
	}
	for k, v := range fields {
		s.Require().NoError(mw.WriteField(k, v))
	}
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func (s *ServerTestSuite) waitForJob(id string) jobs.JobSnapshot {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/api/jobs/"+id, nil), true)
		s.Require().Equal(http.StatusOK, rec.Code)
		snap := decode[jobs.JobSnapshot](s.T(), rec)
		if snap.Status.Done() {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	s.FailNow("job did not finish", id)
	return jobs.JobSnapshot{}
}

func (s *ServerTestSuite) TestHealthIsPublic() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil), false)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
	s.NotEmpty(rec.Header().Get("Content-Type"))
}

func (s *ServerTestSuite) TestAuthRequired() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/stats/llm", nil), false)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/stats/llm", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = s.do(req, false)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "invalid api key")
}

func (s *ServerTestSuite) TestSummarizeText() {
	rec := s.postJSON("/api/summarize", `{"text":"a short note about the weather today.","sentences":2}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	resp := decode[summarizeResponse](s.T(), rec)
	s.Equal([]string{"Summary of the input.", "Second line here."}, resp.Sentences)
	s.Equal(summarize.PathSingle, resp.Report.Path)
	s.Equal(1, resp.Report.Calls)
	s.NotEmpty(resp.Warning)
}

func (s *ServerTestSuite) TestSummarizeTextDefaultCount() {
	rec := s.postJSON("/api/summarize", `{"text":"another note."}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	resp := decode[summarizeResponse](s.T(), rec)
	s.Len(resp.Sentences, 3)
}

func (s *ServerTestSuite) TestSummarizeTextNoWarningForLongInput() {
	text := strings.Repeat("word ", 60)
	rec := s.postJSON("/api/summarize", `{"text":"`+text+`"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	resp := decode[summarizeResponse](s.T(), rec)
	s.Empty(resp.Warning)
}

func (s *ServerTestSuite) TestSummarizeTextRejectsBadInput() {
	tests := []struct {
		name string
		body string
	}{
		{"empty text", `{"text":""}`},
		{"whitespace text", `{"text":"  \n "}`},
		{"invalid json", `{"text":`},
		{"negative sentences", `{"text":"x.","sentences":-1}`},
		{"too many sentences", `{"text":"x.","sentences":1000}`},
	}
	for _, tt := range tests {
		rec := s.postJSON("/api/summarize", tt.body)
		s.Equal(http.StatusBadRequest, rec.Code, tt.name)
		s.Contains(rec.Body.String(), `"error"`, tt.name)
	}
}

func (s *ServerTestSuite) TestSummarizeTextTooLarge() {
	// Under the upload limit but over the text limit.
	big := strings.Repeat("word ", 4*1024)
	rec := s.postJSON("/api/summarize", `{"text":"`+big+`"}`)
	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Contains(rec.Body.String(), "/api/summarize/file")
	s.Zero(s.llm.Stats().Snapshot().Count)
}

func (s *ServerTestSuite) TestSummarizeTextAtLimit() {
	text := strings.Repeat("word ", 1500)
	rec := s.postJSON("/api/summarize", `{"text":"`+text+`"}`)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerTestSuite) TestSummarizeFileAcceptsInputOverTextLimit() {
	big := strings.Repeat("word ", 4*1024)
	req := s.multipartRequest("/api/summarize/file", "file", map[string]string{"long.txt": big}, nil)
	rec := s.do(req, true)
	s.Equal(http.StatusAccepted, rec.Code, rec.Body.String())
}

func (s *ServerTestSuite) TestSummarizeFile() {
	req := s.multipartRequest("/api/summarize/file", "file",
		map[string]string{"../../notes.md": "# Notes\n\nThe team met on Monday.\n\nThey agreed on a plan."},
		map[string]string{"sentences": "1"})
	rec := s.do(req, true)
	s.Require().Equal(http.StatusAccepted, rec.Code, rec.Body.String())

	resp := decode[map[string]any](s.T(), rec)
	s.Equal("notes.md", resp["filename"])
	id, ok := resp["job_id"].(string)
	s.Require().True(ok)
	s.Equal("/api/jobs/"+id, resp["poll_url"])

	snap := s.waitForJob(id)
	s.Equal(jobs.StatusCompleted, snap.Status)
	s.Equal("Notes", snap.Title)
	s.Require().NotNil(snap.Result)
	s.Equal([]string{"Summary of the input."}, snap.Result.Sentences)
}

func (s *ServerTestSuite) TestSummarizeFileRejectsUnsupported() {
	req := s.multipartRequest("/api/summarize/file", "file", map[string]string{"data.csv": "a,b"}, nil)
	rec := s.do(req, true)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "unsupported file type")
}

func (s *ServerTestSuite) TestSummarizeFileRequiresFile() {
	req := s.multipartRequest("/api/summarize/file", "other", map[string]string{"a.txt": "x"}, nil)
	rec := s.do(req, true)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestSummarizeFileBadSentences() {
	req := s.multipartRequest("/api/summarize/file", "file",
		map[string]string{"a.txt": "x."}, map[string]string{"sentences": "three"})
	rec := s.do(req, true)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestSummarizeBatch() {
	req := s.multipartRequest("/api/summarize/batch", "files", map[string]string{
		"a.txt":  "First document text.",
		"b.html": "<p>Second document text.</p>",
		"c.exe":  "binary",
	}, nil)
	rec := s.do(req, true)
	s.Require().Equal(http.StatusAccepted, rec.Code, rec.Body.String())

	resp := decode[struct {
		Jobs []map[string]any `json:"jobs"`
	}](s.T(), rec)
	s.Require().Len(resp.Jobs, 3)

	accepted := 0
	for _, j := range resp.Jobs {
		if id, ok := j["job_id"].(string); ok {
			accepted++
			s.Equal(jobs.StatusCompleted, s.waitForJob(id).Status)
		} else {
			s.Equal("c.exe", j["filename"])
			s.Contains(j["error"], "unsupported")
		}
	}
	s.Equal(2, accepted)
}

func (s *ServerTestSuite) TestSummarizeBatchRequiresFiles() {
	req := s.multipartRequest("/api/summarize/batch", "files", nil, map[string]string{"sentences": "2"})
	rec := s.do(req, true)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestJobNotFound() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/jobs/missing", nil), true)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerTestSuite) TestLLMStats() {
	s.postJSON("/api/summarize", `{"text":"one call."}`)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/stats/llm", nil), true)
	s.Require().Equal(http.StatusOK, rec.Code)

	resp := decode[struct {
		Provider string                `json:"provider"`
		Model    string                `json:"model"`
		Stats    backend.StatsSnapshot `json:"stats"`
	}](s.T(), rec)
	s.Equal("echo", resp.Provider)
	s.Equal("echo-1", resp.Model)
	s.Equal(1, resp.Stats.Count)
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":          "report.pdf",
		"../../etc/notes.txt": "notes.txt",
		"..":                  "_",
		"":                    "unnamed",
		"a..b.md":             "a_b.md",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), "input %q", in)
	}
}
