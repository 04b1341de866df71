package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/voice_bridge/internal/jobs"
	"github.com/Vovarama1992/voice_bridge/internal/ports"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type fakeAssets struct {
	mu      sync.Mutex
	inputs  map[string][]byte
	outputs map[string][]byte
	nextID  string

	storeErr error
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{
		inputs:  make(map[string][]byte),
		outputs: make(map[string][]byte),
		nextID:  "asset-1",
	}
}

func (f *fakeAssets) Store(_ context.Context, r io.Reader, _ string) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	data, _ := io.ReadAll(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs[f.nextID] = data
	return f.nextID, nil
}

func (f *fakeAssets) Retrieve(_ context.Context, id string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.inputs[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeAssets) StoreOutput(_ context.Context, jobID string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[jobID] = data
	return jobID, nil
}

func (f *fakeAssets) RetrieveOutput(_ context.Context, jobID string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.outputs[jobID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeAssets) Sweep(_ context.Context, _ time.Duration) (int, error) { return 0, nil }

type recordingStarter struct {
	mu      sync.Mutex
	started []string
}

func (s *recordingStarter) Start(jobID, _, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, jobID)
}

type testServer struct {
	router  chi.Router
	jobs    *jobs.Store
	assets  *fakeAssets
	starter *recordingStarter
}

func newTestServer() *testServer {
	store := jobs.NewStore()
	assets := newFakeAssets()
	starter := &recordingStarter{}

	zl := logger.NewZapLogger(zap.NewNop().Sugar())
	h := NewAudioHandler(store, assets, starter, zl)

	r := chi.NewRouter()
	RegisterRoutes(r, h)

	return &testServer{router: r, jobs: store, assets: assets, starter: starter}
}

func multipartAudio(t *testing.T, field, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="clip.wav"`)
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	return &buf, mw.FormDataContentType()
}

func TestUploadOK(t *testing.T) {
	ts := newTestServer()

	body, contentType := multipartAudio(t, "audio", "audio/wav", []byte("riff"))
	req := httptest.NewRequest(http.MethodPost, "/audio/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AudioID string `json:"audioId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AudioID == "" {
		t.Fatal("empty audioId")
	}
}

func TestUploadMissingFile(t *testing.T) {
	ts := newTestServer()

	body, contentType := multipartAudio(t, "wrong_field", "audio/wav", []byte("riff"))
	req := httptest.NewRequest(http.MethodPost, "/audio/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_input") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestUploadTooLarge(t *testing.T) {
	ts := newTestServer()

	oversized := make([]byte, maxUploadBytes+1)
	body, contentType := multipartAudio(t, "audio", "audio/wav", oversized)
	req := httptest.NewRequest(http.MethodPost, "/audio/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_input") {
		t.Fatalf("body = %s", rec.Body.String())
	}

	ts.assets.mu.Lock()
	defer ts.assets.mu.Unlock()
	if len(ts.assets.inputs) != 0 {
		t.Fatal("oversized upload must not be stored")
	}
}

func TestUploadWrongMIME(t *testing.T) {
	ts := newTestServer()

	body, contentType := multipartAudio(t, "audio", "image/png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/audio/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestConvertStartsPipeline(t *testing.T) {
	ts := newTestServer()
	ts.assets.inputs["audio-1"] = []byte("riff")

	payload := `{"audioId":"audio-1","targetLanguage":"fr"}`
	req := httptest.NewRequest(http.MethodPost, "/audio/convert", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ConversionID string `json:"conversionId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	job, ok := ts.jobs.Get(resp.ConversionID)
	if !ok {
		t.Fatal("job not created")
	}
	if job.Status != ports.StatusPending {
		t.Fatalf("status = %s, want pending", job.Status)
	}

	ts.starter.mu.Lock()
	defer ts.starter.mu.Unlock()
	if len(ts.starter.started) != 1 || ts.starter.started[0] != resp.ConversionID {
		t.Fatalf("started = %v", ts.starter.started)
	}
}

func TestConvertMissingAudioID(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/audio/convert", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestConvertUnknownAudio(t *testing.T) {
	ts := newTestServer()

	payload := `{"audioId":"ghost"}`
	req := httptest.NewRequest(http.MethodPost, "/audio/convert", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStatusProjection(t *testing.T) {
	ts := newTestServer()
	id := ts.jobs.Create("audio-1", "fr")

	req := httptest.NewRequest(http.MethodGet, "/audio/status/"+id, nil)
	rec := httptest.NewRecorder()

	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "pending" {
		t.Fatalf("status field = %v", resp["status"])
	}
	if _, ok := resp["transcription"]; !ok {
		t.Fatal("projection must carry transcription field")
	}
	if _, ok := resp["translation"]; !ok {
		t.Fatal("projection must carry translation field")
	}
}

func TestStatusUnknownJob(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/audio/status/ghost", nil)
	rec := httptest.NewRecorder()

	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not_found") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestDownload(t *testing.T) {
	ts := newTestServer()
	ts.assets.outputs["job-1"] = []byte("wav-bytes")

	req := httptest.NewRequest(http.MethodGet, "/audio/download/job-1", nil)
	rec := httptest.NewRecorder()

	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Fatalf("content-type = %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("content-disposition = %s", cd)
	}
	if rec.Body.String() != "wav-bytes" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestDownloadMissing(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/audio/download/ghost", nil)
	rec := httptest.NewRecorder()

	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
