package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appcompliance "github.com/wearcheck/compliance-api/internal/application/compliance"
	appsettings "github.com/wearcheck/compliance-api/internal/application/settings"
	domai "github.com/wearcheck/compliance-api/internal/domain/ai"
	domain "github.com/wearcheck/compliance-api/internal/domain/compliance"
	"github.com/wearcheck/compliance-api/internal/domain/rules"
	"github.com/wearcheck/compliance-api/internal/middleware"
)

type Router struct {
	checks   *appcompliance.Service
	settings *appsettings.Service
}

// Options collects the pieces main wires in around the handlers.
type Options struct {
	AdminKeys        map[string]string
	Checkers         map[string]middleware.HealthChecker
	RateCapacity     int
	RateRefillPerSec int
}

func NewRouter(checksSvc *appcompliance.Service, settingsSvc *appsettings.Service, opts Options) http.Handler {
	r := &Router{checks: checksSvc, settings: settingsSvc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if opts.RateCapacity > 0 && opts.RateRefillPerSec > 0 {
		mux.Use(middleware.RateLimitMiddleware(opts.RateCapacity, opts.RateRefillPerSec))
	}

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/check-compliance", r.wrap(r.handleCheckCompliance))
		rt.Get("/compliance-rules/{industry}", r.wrap(r.handleRules))
		rt.Get("/checks/latest", r.wrap(r.handleLatest))
		rt.Get("/checks/{id}", r.wrap(r.handleGetRecord))
		rt.Get("/settings", r.wrap(r.handleGetSettings))

		rt.Group(func(g chi.Router) {
			if len(opts.AdminKeys) > 0 {
				g.Use(middleware.APIKeyAuth(opts.AdminKeys))
			}
			g.Post("/settings", r.wrap(r.handleUpdateSettings))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap translates every failure into one of the documented HTTP outcomes;
// no internal error value crosses this boundary unclassified.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrPayloadTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge,
				"The image file is too large. Please use an image that is less than 20MB or use a more compressed format.")
		case errors.Is(err, rules.ErrUnknownIndustry):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "record not found")
		case errors.Is(err, domai.ErrTimeout),
			errors.Is(err, domai.ErrUnavailable),
			errors.Is(err, domai.ErrMalformedReply),
			errors.Is(err, domai.ErrQuotaExceeded),
			errors.Is(err, domai.ErrUnconfigured),
			errors.Is(err, domain.ErrContractViolation):
			writeError(w, http.StatusServiceUnavailable,
				"The AI service is currently unavailable. Please try again later or use the text description option instead.")
		default:
			writeError(w, http.StatusInternalServerError,
				"Error analyzing outfit compliance. Please try again or provide a text description instead.")
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /api/check-compliance
func (r *Router) handleCheckCompliance(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Industry              string   `json:"industry"`
		ImageBase64           string   `json:"imageBase64"`
		ReferenceImagesBase64 []string `json:"referenceImagesBase64"`
		Description           string   `json:"description"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return errInvalidBody(err)
	}

	middleware.IncrementChecks()
	result, err := r.checks.Check(req.Context(), appcompliance.CheckCommand{
		Industry:              body.Industry,
		ImageBase64:           body.ImageBase64,
		ReferenceImagesBase64: body.ReferenceImagesBase64,
		Description:           middleware.SanitizeString(body.Description),
	})
	if err != nil {
		return err
	}
	return writeJSON(w, result)
}

// GET /api/compliance-rules/{industry}
func (r *Router) handleRules(w http.ResponseWriter, req *http.Request) error {
	industry := chi.URLParam(req, "industry")
	rs, err := r.checks.Rules(industry)
	if err != nil {
		return err
	}
	return writeJSON(w, rs)
}

// GET /api/checks/latest?limit=20&industry=&page=&page_size=
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	if industry := q.Get("industry"); industry != "" {
		page, _ := strconv.Atoi(q.Get("page"))
		size, _ := strconv.Atoi(q.Get("page_size"))
		list, err := r.checks.ByIndustry(req.Context(), industry,
			middleware.ValidatePage(page), middleware.ValidateLimit(size))
		if err != nil {
			return err
		}
		return writeJSON(w, list)
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	list, err := r.checks.Latest(req.Context(), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /api/checks/{id}
func (r *Router) handleGetRecord(w http.ResponseWriter, req *http.Request) error {
	id, err := middleware.ValidateRecordID(chi.URLParam(req, "id"))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	rec, err := r.checks.Get(req.Context(), domain.RecordID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, rec)
}

// GET /api/settings — the credential is never echoed back, only masked
func (r *Router) handleGetSettings(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, r.settings.CurrentView())
}

// POST /api/settings
func (r *Router) handleUpdateSettings(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		APIKey      *string `json:"apiKey"`
		UseFallback *bool   `json:"useFallback"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return errInvalidBody(err)
	}
	r.settings.Update(body.APIKey, body.UseFallback)
	return writeJSON(w, map[string]string{"message": "Settings updated successfully"})
}

func errInvalidBody(err error) error {
	return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidRequest, err)
}
