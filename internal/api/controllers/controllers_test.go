package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"travelbuddy/internal/services"
	mem "travelbuddy/pkg/memcache"
	"travelbuddy/pkg/utils"
)

const itineraryText = "Day 1: Arrival\n- Morning:\n  * Check in\n"

type stubBackend struct {
	err     error
	pingErr error
}

func (s *stubBackend) Generate(ctx context.Context, req utils.GenerateRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if strings.Contains(req.Prompt, "Extract the following information") {
		return `{"destination": "Paris", "start_date": "2025-06-01", "end_date": "2025-06-04"}`, nil
	}
	if strings.Contains(req.Prompt, "refine preferences") {
		return "", nil
	}
	return itineraryText, nil
}

func (s *stubBackend) Ping(ctx context.Context) error {
	if s.pingErr != nil {
		return s.pingErr
	}
	return s.err
}

func (s *stubBackend) Provider() string { return "stub" }

func newTestRouter(t *testing.T, backend utils.BackendClientInterface) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	prompts, err := services.NewPromptService("standard")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rnd := services.NewRandom(1)
	travel := services.NewTravelDataService(nil, nil, rnd, services.TravelDataConfig{FetchTimeout: time.Second}, logger)
	itinerary := services.NewItineraryService(prompts, backend, travel, services.NewMapService(rnd), logger)
	extraction := services.NewExtractionService(prompts, backend, logger)
	wizard := services.NewWizardService(mem.NewSessions(time.Minute), extraction, itinerary, logger)
	export := services.NewExportService("http://localhost:8080")

	wc := NewWizardController(wizard, logger)
	ic := NewItineraryController(itinerary, logger)
	ec := NewExportController(wizard, export, logger)
	hc := NewHealthController(backend, logger)

	r := gin.New()
	r.GET("/healthz", hc.HealthHandler)
	r.POST("/itineraries", ic.CreateItineraryHandler)
	s := r.Group("/sessions")
	s.POST("", wc.StartSessionHandler)
	s.GET("/:id", wc.GetSessionHandler)
	s.DELETE("/:id", wc.StartOverHandler)
	s.POST("/:id/trip-details", wc.TripDetailsHandler)
	s.POST("/:id/preferences", wc.PreferencesHandler)
	s.POST("/:id/natural-language", wc.NaturalLanguageHandler)
	s.POST("/:id/refine", wc.RefineHandler)
	s.POST("/:id/back", wc.BackHandler)
	s.POST("/:id/generate", wc.GenerateHandler)
	s.GET("/:id/export/markdown", ec.MarkdownHandler)
	s.GET("/:id/export/pdf", ec.PDFHandler)
	s.GET("/:id/share.png", ec.ShareQRHandler)
	return r
}

type sessionEnvelope struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		SessionID string `json:"session_id"`
		Stage     string `json:"stage"`
		Questions string `json:"questions"`
		Itinerary *struct {
			Itinerary      string `json:"itinerary"`
			ItineraryError *struct {
				Code string `json:"code"`
			} `json:"itinerary_error"`
			Hotels []json.RawMessage `json:"hotels"`
		} `json:"itinerary"`
	} `json:"data"`
}

type bundleEnvelope struct {
	Status string `json:"status"`
	Code   int    `json:"code"`
	Data   struct {
		Itinerary      string `json:"itinerary"`
		ItineraryError *struct {
			Code string `json:"code"`
		} `json:"itinerary_error"`
		Hotels []json.RawMessage `json:"hotels"`
	} `json:"data"`
}

func send(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid response body %q: %v", w.Body.String(), err)
	}
}

// do sends a session request and decodes the JSON envelope; file downloads are left undecoded.
func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, sessionEnvelope) {
	t.Helper()
	w := send(t, r, method, path, body)
	var env sessionEnvelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		decode(t, w, &env)
	}
	return w, env
}

func startSession(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/sessions", "")
	if w.Code != http.StatusOK || env.Data.SessionID == "" {
		t.Fatalf("could not start session: %d %s", w.Code, w.Body.String())
	}
	return env.Data.SessionID
}

func TestFormWizardOverHTTP(t *testing.T) {
	r := newTestRouter(t, &stubBackend{})
	id := startSession(t, r)

	w, env := do(t, r, http.MethodPost, "/sessions/"+id+"/trip-details",
		`{"origin": "Seoul", "destination": "Tokyo", "start_date": "2025-04-01", "end_date": "2025-04-04", "budget": "moderate"}`)
	if w.Code != http.StatusOK || env.Data.Stage != "preferences" {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}

	w, env = do(t, r, http.MethodPost, "/sessions/"+id+"/preferences", `{"activities": ["Food"], "transportation": "Public Transport"}`)
	if w.Code != http.StatusOK || env.Data.Stage != "results" {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
	if env.Data.Itinerary == nil || env.Data.Itinerary.Itinerary != itineraryText || len(env.Data.Itinerary.Hotels) != 3 {
		t.Errorf("unexpected itinerary %s", w.Body.String())
	}

	w, _ = do(t, r, http.MethodGet, "/sessions/"+id+"/export/markdown", "")
	if w.Code != http.StatusOK || w.Body.String() != itineraryText {
		t.Errorf("unexpected markdown export %d %q", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="Tokyo_itinerary.md"` {
		t.Errorf("unexpected disposition %q", got)
	}

	w, _ = do(t, r, http.MethodGet, "/sessions/"+id+"/export/pdf", "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Errorf("unexpected pdf export %d", w.Code)
	}

	w, _ = do(t, r, http.MethodGet, "/sessions/"+id+"/share.png", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Errorf("unexpected share code response %d %q", w.Code, w.Header().Get("Content-Type"))
	}

	w, env = do(t, r, http.MethodPost, "/sessions/"+id+"/back", "")
	if w.Code != http.StatusOK || env.Data.Stage != "preferences" {
		t.Errorf("unexpected back response %d %s", w.Code, w.Body.String())
	}

	w, env = do(t, r, http.MethodDelete, "/sessions/"+id, "")
	if w.Code != http.StatusOK || env.Data.Stage != "trip_details" {
		t.Errorf("unexpected start over response %d %s", w.Code, w.Body.String())
	}
}

func TestNaturalLanguageWizardOverHTTP(t *testing.T) {
	r := newTestRouter(t, &stubBackend{})
	id := startSession(t, r)

	// Complete extraction and no refinement questions settle straight into results.
	w, env := do(t, r, http.MethodPost, "/sessions/"+id+"/natural-language", `{"text": "Paris in June"}`)
	if w.Code != http.StatusOK || env.Data.Stage != "results" {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}

	w, env = do(t, r, http.MethodPost, "/sessions/"+id+"/generate", "")
	if w.Code != http.StatusOK || env.Data.Stage != "results" {
		t.Errorf("unexpected regenerate response %d %s", w.Code, w.Body.String())
	}
}

func TestWizardErrorsOverHTTP(t *testing.T) {
	r := newTestRouter(t, &stubBackend{})
	id := startSession(t, r)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown session", http.MethodGet, "/sessions/nope", "", http.StatusNotFound},
		{"missing destination", http.MethodPost, "/sessions/" + id + "/trip-details", `{"start_date": "2025-04-01", "end_date": "2025-04-04"}`, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/sessions/" + id + "/trip-details", `{"destination": "Tokyo", "start_date": "04/01/2025", "end_date": "2025-04-04"}`, http.StatusBadRequest},
		{"illegal transition", http.MethodPost, "/sessions/" + id + "/refine", "", http.StatusConflict},
		{"export before results", http.MethodGet, "/sessions/" + id + "/export/markdown", "", http.StatusConflict},
		{"empty text", http.MethodPost, "/sessions/" + id + "/natural-language", `{"text": ""}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, tt.method, tt.path, tt.body)
			if w.Code != tt.want || env.Code != tt.want || env.Status != "error" {
				t.Errorf("expected %d, got %d %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateItinerary(t *testing.T) {
	r := newTestRouter(t, &stubBackend{})

	w := send(t, r, http.MethodPost, "/itineraries", `{"destination": "Tokyo", "start_date": "2025-04-01", "end_date": "2025-04-04"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
	var env bundleEnvelope
	decode(t, w, &env)
	if env.Status != "success" || env.Data.Itinerary != itineraryText || env.Data.ItineraryError != nil {
		t.Errorf("unexpected bundle %s", w.Body.String())
	}

	for _, body := range []string{
		`{"origin": "Seoul"}`,
		`{"destination": "Tokyo"}`,
		`{"destination": "Tokyo", "start_date": "April 1", "end_date": "2025-04-04"}`,
	} {
		w = send(t, r, http.MethodPost, "/itineraries", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestCreateItineraryBackendDown(t *testing.T) {
	down := &stubBackend{err: utils.NewGenerationError(utils.ErrBackendUnreachable, "error connecting to Ollama", errors.New("refused"))}
	r := newTestRouter(t, down)

	w := send(t, r, http.MethodPost, "/itineraries", `{"destination": "Paris", "start_date": "2025-06-01", "end_date": "2025-06-04"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected the bundle with an error marker, got %d", w.Code)
	}
	var env bundleEnvelope
	decode(t, w, &env)
	if env.Data.Itinerary != "" || env.Data.ItineraryError == nil || env.Data.ItineraryError.Code != "BACKEND_UNREACHABLE" {
		t.Errorf("expected an error marker, got %s", w.Body.String())
	}
	if len(env.Data.Hotels) != 3 {
		t.Errorf("expected listings alongside the failure, got %s", w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	w := send(t, newTestRouter(t, &stubBackend{}), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"backend_healthy":true`) {
		t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
	}

	down := &stubBackend{err: utils.NewGenerationError(utils.ErrBackendUnreachable, "error connecting to Ollama", nil)}
	w = send(t, newTestRouter(t, down), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"backend_healthy":false`) ||
		!strings.Contains(w.Body.String(), `"backend_status":"down"`) {
		t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
	}

	blind := &stubBackend{pingErr: utils.ErrPingUnsupported}
	w = send(t, newTestRouter(t, blind), http.MethodGet, "/healthz", "")
	body := w.Body.String()
	if w.Code != http.StatusOK || !strings.Contains(body, `"backend_status":"unknown"`) || strings.Contains(body, "backend_healthy") {
		t.Errorf("expected an unknown status without a health flag, got %d %s", w.Code, body)
	}
}
