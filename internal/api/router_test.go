package api

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rollcall/internal/config"
	"rollcall/internal/policy"
	"rollcall/internal/store"
)

func newTestServer(t *testing.T, geofence bool) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Server.ListenAddr = ":0"
	cfg.Server.TemplatesGlob = "../../web/templates/*.html"
	cfg.Storage.Dir = dir
	cfg.Storage.CSVPrefix = "attendance"
	cfg.Logging.Level = "error"
	if geofence {
		lat, lon := 10.0, 20.0
		cfg.Geofence.Enabled = true
		cfg.Geofence.CourseLat = &lat
		cfg.Geofence.CourseLon = &lon
		cfg.Geofence.AllowedRadiusMeters = 100
	}

	st, err := store.New(dir, cfg.Storage.CSVPrefix)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	validator := policy.NewValidator(cfg, st)
	server := NewServer(cfg, st, validator)

	return server, filepath.Join(dir, st.FilenameForToday())
}

func submitForm(t *testing.T, server *Server, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	return w
}

func validFields(fingerprint string) map[string]string {
	return map[string]string{
		"fingerprint": fingerprint,
		"latitude":    "10.0",
		"longitude":   "20.0",
		"name":        "A",
		"roll_no":     "1",
		"comments":    "",
	}
}

func readLog(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return rows
}

func TestDisplayPages(t *testing.T) {
	server, _ := newTestServer(t, false)

	for _, path := range []string{"/", "/thank-you", "/denied", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		server.Router().ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
}

func TestSubmitAcceptedThenDuplicate(t *testing.T) {
	server, logPath := newTestServer(t, false)

	w := submitForm(t, server, validFields("f1"))
	if w.Code != http.StatusFound {
		t.Fatalf("first submit = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/thank-you" {
		t.Fatalf("first submit redirected to %q, want /thank-you", loc)
	}

	rows := readLog(t, logPath)
	if len(rows) != 2 {
		t.Fatalf("log has %d rows after first submit, want header + 1", len(rows))
	}
	if rows[1][store.FingerprintColumn] != "f1" {
		t.Errorf("last column = %q, want f1", rows[1][store.FingerprintColumn])
	}

	// Same fingerprint again the same day.
	w = submitForm(t, server, validFields("f1"))
	if w.Code != http.StatusFound {
		t.Fatalf("duplicate submit = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/denied" {
		t.Errorf("duplicate submit redirected to %q, want /denied", loc)
	}

	rows = readLog(t, logPath)
	if len(rows) != 2 {
		t.Errorf("log has %d rows after duplicate, want still header + 1", len(rows))
	}
}

func TestSubmitDistinctFingerprintsBothRecorded(t *testing.T) {
	server, logPath := newTestServer(t, false)

	fields := validFields("f1")
	if w := submitForm(t, server, fields); w.Code != http.StatusFound {
		t.Fatalf("submit f1 = %d, want 302", w.Code)
	}
	fields = validFields("f2")
	fields["name"] = "B"
	fields["roll_no"] = "2"
	if w := submitForm(t, server, fields); w.Code != http.StatusFound {
		t.Fatalf("submit f2 = %d, want 302", w.Code)
	}

	rows := readLog(t, logPath)
	if len(rows) != 3 {
		t.Fatalf("log has %d rows, want header + 2", len(rows))
	}
	if rows[1][store.FingerprintColumn] != "f1" || rows[2][store.FingerprintColumn] != "f2" {
		t.Errorf("rows out of submission order: %q then %q",
			rows[1][store.FingerprintColumn], rows[2][store.FingerprintColumn])
	}
}

func TestSubmitOutOfRange(t *testing.T) {
	server, logPath := newTestServer(t, true)

	// Roughly 5 km from the course location.
	fields := validFields("f1")
	fields["latitude"] = "10.045"
	w := submitForm(t, server, fields)
	if w.Code != http.StatusForbidden {
		t.Fatalf("out-of-range submit = %d, want 403", w.Code)
	}
	if !strings.Contains(w.Body.String(), "100") {
		t.Errorf("403 body %q does not name the allowed radius", w.Body.String())
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Errorf("log file created for a denied submission: %v", err)
	}
}

func TestSubmitWithinRadiusAccepted(t *testing.T) {
	server, _ := newTestServer(t, true)

	// Roughly 50 m from the course location.
	fields := validFields("f1")
	fields["latitude"] = "10.00045"
	w := submitForm(t, server, fields)
	if w.Code != http.StatusFound {
		t.Fatalf("in-range submit = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/thank-you" {
		t.Errorf("in-range submit redirected to %q, want /thank-you", loc)
	}
}

func TestSubmitMalformedLatitude(t *testing.T) {
	server, logPath := newTestServer(t, false)

	fields := validFields("f1")
	delete(fields, "latitude")
	w := submitForm(t, server, fields)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("malformed submit = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "latitude") {
		t.Errorf("500 body leaks error detail: %q", w.Body.String())
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Errorf("log file touched by a malformed submission: %v", err)
	}
}
