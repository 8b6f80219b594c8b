package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/realjck/scorm-iframe-packager/internal/db"
	"github.com/realjck/scorm-iframe-packager/internal/packager"
	"github.com/realjck/scorm-iframe-packager/internal/scorm"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func setupRouter(t *testing.T, store *Store) *chi.Mux {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r
}

func TestRecordSuccessfulOutcome(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	out := packager.Outcome{
		Config: scorm.PackageConfig{
			ScormVersion:    scorm.Version2004,
			Title:           "Safety induction",
			EmbeddedContent: "https://example.com",
			CompletionCode:  "SECRET",
		},
		Package: &packager.Package{
			Name:         "Safety induction.zip",
			Data:         make([]byte, 1234),
			Entries:      []string{"imsmanifest.xml", "index.html"},
			Placeholders: []string{"adlcp_v1p3.xsd"},
			SHA256:       "abc",
		},
		Started:  started,
		Duration: 1500 * time.Millisecond,
	}
	if err := store.Record(ctx, out); err != nil {
		t.Fatalf("Record: %v", err)
	}

	records, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.ID == "" {
		t.Error("expected generated ID")
	}
	if got.Title != "Safety induction" || got.Name != "Safety induction.zip" {
		t.Errorf("title/name = %q/%q", got.Title, got.Name)
	}
	if got.Version != "2004" || got.PackageType != "iframe-with-code" {
		t.Errorf("version/type = %q/%q", got.Version, got.PackageType)
	}
	if got.Size != 1234 || got.Entries != 2 || got.SHA256 != "abc" {
		t.Errorf("size/entries/sha = %d/%d/%q", got.Size, got.Entries, got.SHA256)
	}
	if len(got.Placeholders) != 1 || got.Placeholders[0] != "adlcp_v1p3.xsd" {
		t.Errorf("Placeholders = %v", got.Placeholders)
	}
	if got.Status != StatusSucceeded || got.Error != "" {
		t.Errorf("status/error = %q/%q", got.Status, got.Error)
	}
	if got.DurationMS != 1500 {
		t.Errorf("DurationMS = %d, want 1500", got.DurationMS)
	}
	if !got.CreatedAt.Equal(started) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, started)
	}
}

func TestRecordFailedOutcome(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	out := packager.Outcome{
		Config:  scorm.PackageConfig{Title: "Broken"},
		Err:     errors.New("rendering page: boom"),
		Started: time.Now(),
	}
	if err := store.Record(ctx, out); err != nil {
		t.Fatalf("Record: %v", err)
	}

	records, err := store.List(ctx, Filter{Status: StatusFailed})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 failed record, got %d", len(records))
	}
	if records[0].Error != "rendering page: boom" {
		t.Errorf("Error = %q", records[0].Error)
	}
	if records[0].Version != "1.2" {
		t.Errorf("Version = %q, want default 1.2", records[0].Version)
	}
	if len(records[0].Placeholders) != 0 {
		t.Errorf("Placeholders = %v, want empty", records[0].Placeholders)
	}
}

func TestGetByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, Record{ID: "gen-1", Title: "One", Version: "1.2", Status: StatusSucceeded}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := store.GetByID(ctx, "gen-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "One" {
		t.Errorf("Title = %q, want %q", got.Title, "One")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetByID(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListFilterAndOrder(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	seed := []Record{
		{ID: "a", CreatedAt: base, Version: "1.2", Status: StatusSucceeded},
		{ID: "b", CreatedAt: base.Add(time.Hour), Version: "2004", Status: StatusSucceeded},
		{ID: "c", CreatedAt: base.Add(2 * time.Hour), Version: "2004", Status: StatusFailed},
	}
	for _, r := range seed {
		if err := store.Add(ctx, r); err != nil {
			t.Fatalf("Add %s: %v", r.ID, err)
		}
	}

	all, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Errorf("expected newest first, got %v", ids(all))
	}

	v2004, err := store.List(ctx, Filter{Version: "2004"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(v2004) != 2 {
		t.Errorf("expected 2 records for 2004, got %v", ids(v2004))
	}

	since := base.Add(30 * time.Minute)
	recent, err := store.List(ctx, Filter{Since: &since, Status: StatusSucceeded})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "b" {
		t.Errorf("expected [b], got %v", ids(recent))
	}

	page, err := store.List(ctx, Filter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 1 || page[0].ID != "b" {
		t.Errorf("expected [b], got %v", ids(page))
	}
}

func TestDeleteBefore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	now := time.Now()

	store.Add(ctx, Record{ID: "old", CreatedAt: now.Add(-48 * time.Hour), Version: "1.2", Status: StatusSucceeded})
	store.Add(ctx, Record{ID: "new", CreatedAt: now, Version: "1.2", Status: StatusSucceeded})

	n, err := store.DeleteBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d rows, want 1", n)
	}
	if _, err := store.GetByID(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old record still present: %v", err)
	}
}

func TestServiceRecordsThroughStore(t *testing.T) {
	store := setupStore(t)
	svc := packager.NewService(packager.NewAssembler(nil, nil), store, nil)

	var buf discard
	cfg := scorm.PackageConfig{Title: "Wired", EmbeddedContent: "<p>x</p>", CompletionCode: "go"}
	if _, err := svc.Generate(context.Background(), cfg, &packager.WriterTrigger{W: &buf}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	records, err := store.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Wired.zip" || records[0].Status != StatusSucceeded {
		t.Errorf("records = %+v", records)
	}
}

func TestHTTPList(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	store.Add(ctx, Record{ID: "h-1", Version: "1.2", Status: StatusSucceeded})
	store.Add(ctx, Record{ID: "h-2", Version: "2004", Status: StatusFailed, Error: "boom"})

	req := httptest.NewRequest(http.MethodGet, "/api/history?status=failed", nil)
	rec := httptest.NewRecorder()
	setupRouter(t, store).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []Record
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ID != "h-2" || got[0].Error != "boom" {
		t.Errorf("got %+v", got)
	}
}

func TestHTTPGetByID(t *testing.T) {
	store := setupStore(t)
	store.Add(context.Background(), Record{ID: "h-1", Title: "Over HTTP", Version: "1.2", Status: StatusSucceeded})

	req := httptest.NewRequest(http.MethodGet, "/api/history/h-1", nil)
	rec := httptest.NewRecorder()
	setupRouter(t, store).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got Record
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "Over HTTP" {
		t.Errorf("Title = %q", got.Title)
	}
}

func TestHTTPGetByIDNotFound(t *testing.T) {
	store := setupStore(t)

	req := httptest.NewRequest(http.MethodGet, "/api/history/missing", nil)
	rec := httptest.NewRecorder()
	setupRouter(t, store).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func ids(rs []Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

type discard struct{ n int }

func (d *discard) Write(p []byte) (int, error) {
	d.n += len(p)
	return len(p), nil
}
