package compliance

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/wearcheck/compliance-api/internal/application"
	appsettings "github.com/wearcheck/compliance-api/internal/application/settings"
	domai "github.com/wearcheck/compliance-api/internal/domain/ai"
	"github.com/wearcheck/compliance-api/internal/domain/checkerrors"
	domain "github.com/wearcheck/compliance-api/internal/domain/compliance"
	"github.com/wearcheck/compliance-api/internal/domain/rules"
	"github.com/wearcheck/compliance-api/internal/middleware"
)

// DefaultMaxImageBytes bounds the decoded size of a submitted image.
const DefaultMaxImageBytes = 20 << 20

// SettingsSource yields the latest committed backend selection state.
type SettingsSource interface {
	Current() appsettings.Settings
}

// Generator is the local fallback backend. Never fails.
type Generator interface {
	Generate(industry domain.Industry) *domain.Result
}

// ImageArchive stores submitted outfit images for later review.
type ImageArchive interface {
	PutImage(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Service implements the compliance-check use cases. Safe for concurrent
// use: no state is shared across in-flight checks beyond the settings
// source and the record store.
type Service struct {
	Repo     domain.Repository
	ErrorLog checkerrors.Repository // optional
	Archive  ImageArchive           // optional
	Fallback Generator
	Settings SettingsSource
	// NewReasoner builds a reasoning client for the current credential.
	// Re-invoked per check so a credential update takes effect without a
	// restart.
	NewReasoner   func(apiKey string) domai.Reasoner
	Clock         application.Clock
	MaxImageBytes int64
}

// CheckCommand is one inbound compliance request.
type CheckCommand struct {
	Industry              string
	ImageBase64           string
	ReferenceImagesBase64 []string
	Description           string
}

// Check runs one compliance check: validate the request, pick a backend,
// gate the candidate result through the validator, persist, and return.
// Persistence failure does not invalidate an already-computed result.
func (s *Service) Check(ctx context.Context, cmd CheckCommand) (*domain.Result, error) {
	industry := domain.Industry(cmd.Industry)
	if !industry.Valid() {
		return nil, fmt.Errorf("%w: industry must be one of healthcare or construction", domain.ErrInvalidRequest)
	}
	if cmd.ImageBase64 == "" && cmd.Description == "" {
		return nil, fmt.Errorf("%w: either image or description must be provided", domain.ErrInvalidRequest)
	}

	image, err := s.decodeImage(cmd.ImageBase64)
	if err != nil {
		return nil, err
	}
	for i, ref := range cmd.ReferenceImagesBase64 {
		if _, err := s.decodeImage(ref); err != nil {
			return nil, fmt.Errorf("reference image %d: %w", i, err)
		}
	}

	result, err := s.analyze(ctx, industry, cmd)
	if err != nil {
		return nil, err
	}

	// The validator does not enforce "compliant implies no issues"; detect
	// and report so contract drift in the backend stays visible.
	if result.IsCompliant && len(result.Issues) > 0 {
		log.Printf("compliance check inconsistency: industry=%s isCompliant=true issues=%d", industry, len(result.Issues))
	}

	record := &domain.Record{
		Industry:    industry,
		ImageBase64: cmd.ImageBase64,
		Description: cmd.Description,
		Result:      result,
		CreatedAt:   s.Clock.Now(),
	}

	if len(image) > 0 && s.Archive != nil {
		key := uuid.New().String() + ".jpg"
		url, aerr := s.Archive.PutImage(ctx, key, image, "image/jpeg")
		if aerr != nil {
			log.Printf("image archive failed: industry=%s err=%v", industry, aerr)
		} else {
			record.ImageURL = url
		}
	}

	if err := s.Repo.Save(ctx, record); err != nil {
		// durability concern, not a correctness concern for the caller
		log.Printf("record store write failed: industry=%s err=%v", industry, err)
		s.logError(industry, "persist", err, nil)
	}

	return result, nil
}

// analyze selects the backend per the settings read for this call and
// returns a validated result.
func (s *Service) analyze(ctx context.Context, industry domain.Industry, cmd CheckCommand) (*domain.Result, error) {
	st := s.Settings.Current()

	if !st.HasCredential() || st.UseFallback || s.NewReasoner == nil {
		return s.generateFallback(industry)
	}

	raw, err := s.NewReasoner(st.APIKey).Infer(ctx, domai.Request{
		Industry:              industry,
		ImageBase64:           cmd.ImageBase64,
		ReferenceImagesBase64: cmd.ReferenceImagesBase64,
		Description:           cmd.Description,
	})
	if err != nil {
		middleware.IncrementBackendFailed()
		s.logError(industry, "backend", err, nil)
		if errors.Is(err, domai.ErrUnconfigured) || errors.Is(err, domai.ErrQuotaExceeded) {
			log.Printf("reasoning backend masked by fallback: industry=%s err=%v", industry, err)
			return s.generateFallback(industry)
		}
		return nil, err
	}

	result, perr := domain.ParseResult(raw)
	if perr != nil {
		// shape violation from the live backend: substitute, never retry
		s.logError(industry, "validation", perr, raw)
		log.Printf("backend contract violation masked by fallback: industry=%s err=%v", industry, perr)
		return s.generateFallback(industry)
	}
	return result, nil
}

func (s *Service) generateFallback(industry domain.Industry) (*domain.Result, error) {
	middleware.IncrementFallbackUsed()
	result := s.Fallback.Generate(industry)
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// decodeImage verifies base64 encoding and enforces the size limit.
func (s *Service) decodeImage(b64 string) ([]byte, error) {
	if b64 == "" {
		return nil, nil
	}
	max := s.MaxImageBytes
	if max <= 0 {
		max = DefaultMaxImageBytes
	}
	if int64(base64.StdEncoding.DecodedLen(len(b64))) > max {
		return nil, fmt.Errorf("%w: decoded image exceeds %d bytes", domain.ErrPayloadTooLarge, max)
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: image is not valid base64", domain.ErrInvalidRequest)
	}
	return raw, nil
}

// logError writes a backend-failure entry best-effort. It must never make
// a failing check worse, so the write uses a fresh background context.
func (s *Service) logError(industry domain.Industry, stage string, cause error, raw []byte) {
	if s.ErrorLog == nil {
		return
	}
	details := ""
	if len(raw) > 0 {
		if b, err := json.Marshal(map[string]string{"reply": string(raw)}); err == nil {
			details = string(b)
		}
	}
	e := &checkerrors.CheckError{
		Industry:    string(industry),
		Stage:       stage,
		Message:     cause.Error(),
		DetailsJSON: details,
		CreatedAt:   s.Clock.Now(),
	}
	if err := s.ErrorLog.Save(context.Background(), e); err != nil {
		log.Printf("check error log write failed: %v", err)
	}
}

// Rules returns the rule catalog entry for an industry.
func (s *Service) Rules(industry string) (rules.IndustryRules, error) {
	ind := domain.Industry(industry)
	if !ind.Valid() {
		return rules.IndustryRules{}, fmt.Errorf("%w: industry must be one of healthcare or construction", domain.ErrInvalidRequest)
	}
	return rules.RulesFor(ind)
}

// Latest returns the N most recent compliance records.
func (s *Service) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	return s.Repo.Latest(ctx, limit)
}

// Get returns one compliance record by id.
func (s *Service) Get(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	return s.Repo.Get(ctx, id)
}

// ByIndustry returns a page of records for one industry.
func (s *Service) ByIndustry(ctx context.Context, industry string, page, pageSize int) ([]*domain.Record, error) {
	ind := domain.Industry(industry)
	if !ind.Valid() {
		return nil, fmt.Errorf("%w: industry must be one of healthcare or construction", domain.ErrInvalidRequest)
	}
	return s.Repo.ByIndustry(ctx, ind, page, pageSize)
}
