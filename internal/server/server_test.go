package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/realjck/scorm-iframe-packager/internal/assets"
	"github.com/realjck/scorm-iframe-packager/internal/db"
	"github.com/realjck/scorm-iframe-packager/internal/history"
	"github.com/realjck/scorm-iframe-packager/internal/packager"
)

const validBody = `{
	"scormVersion": "1.2",
	"title": "Onboarding",
	"packageType": "iframe-with-code",
	"embeddedContent": "https://example.com/course",
	"completionCode": "OPEN-SESAME"
}`

func newTestServer(t *testing.T, cfg Config) (*Server, *history.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	logger := log.New(io.Discard)
	store := history.NewStore(database)
	svc := packager.NewService(packager.NewAssembler(assets.NoSource{}, logger), store, logger)
	return New(cfg, svc, store, logger), store
}

func post(srv *Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t, Config{Port: 0})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t, Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/api/packages", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestGenerateReturnsZipAttachment(t *testing.T) {
	srv, store := newTestServer(t, Config{})

	w := post(srv, "/api/packages", validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename=Onboarding.zip` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	data := w.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading zip: %v", err)
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"index.html", "imsmanifest.xml", "imscp_rootv1p1p2.xsd", "adlcp_rootv1p2.xsd", "ims_xml.xsd", "imsmd_rootv1p2p1.xsd"} {
		if !names[want] {
			t.Errorf("archive missing %s", want)
		}
	}

	records, err := store.List(context.Background(), history.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Onboarding.zip" {
		t.Errorf("history = %+v", records)
	}
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	srv, store := newTestServer(t, Config{})

	w := post(srv, "/api/packages", `{"scormVersion":"3","packageType":"iframe-with-code"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{"scormVersion", "title", "embeddedContent", "completionCode"} {
		if _, ok := resp.Fields[field]; !ok {
			t.Errorf("expected field error for %s, got %v", field, resp.Fields)
		}
	}

	records, _ := store.List(context.Background(), history.Filter{})
	if len(records) != 0 {
		t.Errorf("rejected request should not be recorded, got %d", len(records))
	}
}

func TestGenerateRejectsMalformedJSON(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := post(srv, "/api/packages", `{"title":`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGenerateRejectsOversizedBody(t *testing.T) {
	srv, _ := newTestServer(t, Config{MaxBodyBytes: 64})

	w := post(srv, "/api/packages", validBody)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestManifestEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := post(srv, "/api/packages/manifest", validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "application/xml") {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "ADL SCORM") || !strings.Contains(w.Body.String(), "1.2") {
		t.Errorf("unexpected manifest: %s", w.Body.String())
	}
}

func TestPageEndpointHidesCode(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := post(srv, "/api/packages/page", validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "OPEN-SESAME") {
		t.Error("page must not contain the plaintext completion code")
	}
	if !strings.Contains(body, "https://example.com/course") {
		t.Error("page should embed the content URL")
	}
}

func TestHistoryRoutesMounted(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	post(srv, "/api/packages", validBody)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var records []history.Record
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

func TestHistoryRoutesAbsentWithoutStore(t *testing.T) {
	logger := log.New(io.Discard)
	svc := packager.NewService(packager.NewAssembler(assets.NoSource{}, logger), nil, logger)
	srv := New(Config{}, svc, nil, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
