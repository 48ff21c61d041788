package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wearcheck/compliance-api/internal/application"
	appcompliance "github.com/wearcheck/compliance-api/internal/application/compliance"
	appsettings "github.com/wearcheck/compliance-api/internal/application/settings"
	domai "github.com/wearcheck/compliance-api/internal/domain/ai"
	domain "github.com/wearcheck/compliance-api/internal/domain/compliance"
	"github.com/wearcheck/compliance-api/internal/infra/ai/fallback"
	"github.com/wearcheck/compliance-api/internal/infra/db/memory"
)

type stubReasoner struct {
	reply []byte
	err   error
}

func (r stubReasoner) Infer(context.Context, domai.Request) ([]byte, error) {
	return r.reply, r.err
}

type testEnv struct {
	handler  http.Handler
	repo     *memory.RecordRepository
	settings *appsettings.Service
}

func newTestEnv(t *testing.T, reasoner domai.Reasoner, st appsettings.Settings, opts Options) *testEnv {
	t.Helper()
	repo := memory.NewRecordRepository()
	settingsSvc := appsettings.NewService(st)
	svc := &appcompliance.Service{
		Repo:     repo,
		Fallback: fallback.New(),
		Settings: settingsSvc,
		Clock:    application.SystemClock{},
	}
	if reasoner != nil {
		svc.NewReasoner = func(string) domai.Reasoner { return reasoner }
	}
	return &testEnv{
		handler:  NewRouter(svc, settingsSvc, opts),
		repo:     repo,
		settings: settingsSvc,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	return body.Message
}

func TestCheckCompliance_FallbackPath(t *testing.T) {
	env := newTestEnv(t, nil, appsettings.Settings{}, Options{})
	rec := env.do(t, http.MethodPost, "/api/check-compliance",
		`{"industry": "construction", "description": "hard hat and vest"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var res domain.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("response is not a result: %v", err)
	}
	if res.Issues == nil || res.CompliantItems == nil || res.Recommendations == nil {
		t.Fatalf("response collections must serialize as arrays: %s", rec.Body)
	}
	recs, _ := env.repo.Latest(context.Background(), 1)
	if len(recs) != 1 {
		t.Fatalf("expected the check to be persisted")
	}
}

func TestCheckCompliance_InvalidIndustry(t *testing.T) {
	env := newTestEnv(t, nil, appsettings.Settings{}, Options{})
	rec := env.do(t, http.MethodPost, "/api/check-compliance",
		`{"industry": "banking", "description": "suit"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg == "" {
		t.Fatalf("expected an error message")
	}
}

func TestCheckCompliance_MissingModalities(t *testing.T) {
	env := newTestEnv(t, nil, appsettings.Settings{}, Options{})
	rec := env.do(t, http.MethodPost, "/api/check-compliance", `{"industry": "healthcare"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCheckCompliance_MalformedBody(t *testing.T) {
	env := newTestEnv(t, nil, appsettings.Settings{}, Options{})
	rec := env.do(t, http.MethodPost, "/api/check-compliance", `{"industry": `, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCheckCompliance_ImageTooLarge(t *testing.T) {
	env := newTestEnv(t, nil, appsettings.Settings{}, Options{})
	// shrink the gate through the service the router holds
	big := strings.Repeat("QUFB", 100) // decodes to 300 bytes
	payload := `{"industry": "healthcare", "imageBase64": "` + big + `"}`

	repo := memory.NewRecordRepository()
	settingsSvc := appsettings.NewService(appsettings.Settings{})
	svc := &appcompliance.Service{
		Repo:          repo,
		Fallback:      fallback.New(),
		Settings:      settingsSvc,
		Clock:         application.SystemClock{},
		MaxImageBytes: 64,
	}
	env.handler = NewRouter(svc, settingsSvc, Options{})

	rec := env.do(t, http.MethodPost, "/api/check-compliance", payload, nil)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if msg := decodeMessage(t, rec); !strings.Contains(msg, "too large") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestCheckCompliance_BackendUnavailable(t *testing.T) {
	env := newTestEnv(t, stubReasoner{err: domai.ErrUnavailable},
		appsettings.Settings{APIKey: "sk-test"}, Options{})
	rec := env.do(t, http.MethodPost, "/api/check-compliance",
		`{"industry": "healthcare", "description": "scrubs"}`, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestRules_Endpoint(t *testing.T) {
	env := newTestEnv(t, nil, appsettings.Settings{}, Options{})

	rec := env.do(t, http.MethodGet, "/api/compliance-rules/healthcare", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var rules struct {
		RequiredItems   []string `json:"requiredItems"`
		ProhibitedItems []string `json:"prohibitedItems"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&rules); err != nil {
		t.Fatalf("rules body: %v", err)
	}
	if len(rules.RequiredItems) == 0 || len(rules.ProhibitedItems) == 0 {
		t.Fatalf("expected populated rule set: %s", rec.Body)
	}

	if rec := env.do(t, http.MethodGet, "/api/compliance-rules/banking", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown industry status = %d, want 400", rec.Code)
	}
}

func TestGetRecord(t *testing.T) {
	env := newTestEnv(t, nil, appsettings.Settings{}, Options{})

	if rec := env.do(t, http.MethodGet, "/api/checks/9999", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing record status = %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/checks/abc", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d, want 400", rec.Code)
	}

	env.do(t, http.MethodPost, "/api/check-compliance",
		`{"industry": "construction", "description": "PPE"}`, nil)
	stored, _ := env.repo.Latest(context.Background(), 1)
	if len(stored) != 1 {
		t.Fatalf("seed check not persisted")
	}

	rec := env.do(t, http.MethodGet, "/api/checks/1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var out domain.Record
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("record body: %v", err)
	}
	if out.ID != 1 || out.Industry != domain.IndustryConstruction || out.Result == nil {
		t.Fatalf("unexpected record: %+v", out)
	}
	if out.CreatedAt.IsZero() || out.CreatedAt.After(time.Now().Add(time.Minute)) {
		t.Fatalf("timestamp not set: %v", out.CreatedAt)
	}
}

func TestLatest_AndByIndustry(t *testing.T) {
	env := newTestEnv(t, nil, appsettings.Settings{}, Options{})
	for i := 0; i < 2; i++ {
		env.do(t, http.MethodPost, "/api/check-compliance",
			`{"industry": "construction", "description": "PPE"}`, nil)
		env.do(t, http.MethodPost, "/api/check-compliance",
			`{"industry": "healthcare", "description": "scrubs"}`, nil)
	}

	rec := env.do(t, http.MethodGet, "/api/checks/latest?limit=3", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list []domain.Record
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("list body: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}

	rec = env.do(t, http.MethodGet, "/api/checks/latest?industry=healthcare&page=1&page_size=10", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	list = nil
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("list body: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 healthcare records, got %d", len(list))
	}
	for _, r := range list {
		if r.Industry != domain.IndustryHealthcare {
			t.Fatalf("filter leaked %s record", r.Industry)
		}
	}
}

func TestSettings_GetMasksKey(t *testing.T) {
	env := newTestEnv(t, nil, appsettings.Settings{APIKey: "sk-secret"}, Options{})
	rec := env.do(t, http.MethodGet, "/api/settings", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, "sk-secret") {
		t.Fatalf("credential leaked in settings view: %s", body)
	}
	var view appsettings.View
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&view); err != nil {
		t.Fatalf("view body: %v", err)
	}
	if view.APIKey != "*****" {
		t.Fatalf("expected masked key, got %q", view.APIKey)
	}
}

func TestSettings_UpdateRequiresAdminKey(t *testing.T) {
	opts := Options{AdminKeys: map[string]string{"ops": "admin-key"}}
	env := newTestEnv(t, nil, appsettings.Settings{}, opts)

	rec := env.do(t, http.MethodPost, "/api/settings", `{"useFallback": true}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/settings", `{"useFallback": true}`,
		map[string]string{"Authorization": "Bearer wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key status = %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/settings", `{"useFallback": true, "apiKey": "sk-new"}`,
		map[string]string{"Authorization": "Bearer admin-key"})
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, body = %s", rec.Code, rec.Body)
	}
	cur := env.settings.Current()
	if !cur.UseFallback || cur.APIKey != "sk-new" {
		t.Fatalf("settings not applied: %+v", cur)
	}
}

func TestHealthAndMetricsMounted(t *testing.T) {
	env := newTestEnv(t, nil, appsettings.Settings{}, Options{})
	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		if rec := env.do(t, http.MethodGet, path, "", nil); rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
