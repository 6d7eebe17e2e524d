package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/glowlab/dermalyze/internal/domain"
	"github.com/glowlab/dermalyze/internal/engine"
	"github.com/glowlab/dermalyze/internal/entitlement"
	"github.com/glowlab/dermalyze/internal/metrics"
	"github.com/glowlab/dermalyze/internal/provider"
	"github.com/glowlab/dermalyze/internal/routine"
	"github.com/glowlab/dermalyze/internal/storage"
	"github.com/glowlab/dermalyze/internal/usage"
)

type AnalysisRepositoryInterface interface {
	Create(ctx context.Context, record *domain.AnalysisRecord) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.AnalysisRecord, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AnalysisRecord, error)
	GetRecentMetrics(ctx context.Context, userID uuid.UUID, limit int) ([]domain.SkinMetrics, error)
	AttachReport(ctx context.Context, userID, id uuid.UUID, report *domain.DetailedReport) error
	SearchSimilar(ctx context.Context, userID, id uuid.UUID, limit int) ([]domain.SimilarState, error)
	PruneToDepth(ctx context.Context, userID uuid.UUID, keep int) (int64, error)
}

type QuotaServiceInterface interface {
	CheckQuota(ctx context.Context, user *domain.User, now time.Time) error
	RecordAnalysis(ctx context.Context, userID uuid.UUID, now time.Time) error
	RecordReport(ctx context.Context, userID uuid.UUID, now time.Time) error
	Status(ctx context.Context, user *domain.User, now time.Time) (*usage.QuotaStatus, error)
}

type EntitlementCheckerInterface interface {
	Check(ctx context.Context, userID uuid.UUID) (*entitlement.Entitlement, error)
}

type RoutineGeneratorInterface interface {
	Generate(ctx context.Context, metrics domain.SkinMetrics, skinType domain.SkinType, premium bool) routine.Outcome
}

// smoothingDepth is how many prior analyses feed temporal smoothing.
const smoothingDepth = 2

// AnalysisService runs the full selfie-to-analysis flow and serves the
// stored history.
type AnalysisService struct {
	repo             AnalysisRepositoryInterface
	quota            QuotaServiceInterface
	entitlements     EntitlementCheckerInterface
	detector         provider.FaceDetector
	extractor        provider.ColorExtractor
	routines         RoutineGeneratorInterface
	images           storage.ImageStore
	freeHistoryDepth int
	logger           *slog.Logger
}

func NewAnalysisService(
	repo AnalysisRepositoryInterface,
	quota QuotaServiceInterface,
	entitlements EntitlementCheckerInterface,
	detector provider.FaceDetector,
	extractor provider.ColorExtractor,
	routines RoutineGeneratorInterface,
	images storage.ImageStore,
	freeHistoryDepth int,
	logger *slog.Logger,
) *AnalysisService {
	return &AnalysisService{
		repo:             repo,
		quota:            quota,
		entitlements:     entitlements,
		detector:         detector,
		extractor:        extractor,
		routines:         routines,
		images:           images,
		freeHistoryDepth: freeHistoryDepth,
		logger:           logger,
	}
}

// Analyze runs one analysis for the authenticated user: quota gate,
// face gate, color extraction, the metrics pipeline, routine text,
// persistence and usage accounting.
func (s *AnalysisService) Analyze(ctx context.Context, user *domain.User, imageBytes []byte) (*domain.AnalysisRecord, error) {
	now := time.Now().UTC()

	if err := s.quota.CheckQuota(ctx, user, now); err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			metrics.RecordAnalysisRejected("quota")
		}
		return nil, err
	}

	faces, err := s.detector.DetectFaces(ctx, imageBytes)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidImage) {
			metrics.RecordAnalysisRejected("invalid_image")
			return nil, err
		}
		return nil, fmt.Errorf("user %s: detect faces: %w", user.ID, err)
	}

	if len(faces) == 0 {
		metrics.RecordAnalysisRejected("no_face")
		return nil, domain.ErrNoFaceDetected
	}

	if len(faces) > 1 {
		metrics.RecordAnalysisRejected("multiple_faces")
		return nil, domain.ErrMultipleFaces
	}

	ent, err := s.entitlements.Check(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	// Extraction failure degrades to the neutral default samples.
	samples, err := s.extractor.ExtractColors(ctx, imageBytes)
	if err != nil {
		s.logger.Warn("color extraction failed, using defaults", "user_id", user.ID, "error", err)
		samples = domain.ColorSamples{}
	}

	// Missing history only weakens smoothing, never fails the analysis.
	previous, err := s.repo.GetRecentMetrics(ctx, user.ID, smoothingDepth)
	if err != nil {
		s.logger.Warn("history lookup failed, smoothing skipped", "user_id", user.ID, "error", err)
		previous = nil
	}

	var yaw *float64
	if faces[0].Pose != nil {
		yaw = &faces[0].Pose.Yaw
	}

	engineStart := time.Now()
	result := engine.Compute(engine.Input{
		Samples:        samples,
		Previous:       previous,
		FaceYawDegrees: yaw,
		Premium:        ent.Premium,
	})
	metrics.RecordEngineDuration(time.Since(engineStart))

	outcome := s.routines.Generate(ctx, result.Metrics, result.SkinType, ent.Premium)
	metrics.RecordRoutineOutcome(string(outcome.Source))

	record := &domain.AnalysisRecord{
		ID:            uuid.New(),
		UserID:        user.ID,
		Metrics:       result.Metrics,
		Confidence:    result.Confidence,
		SkinType:      result.SkinType,
		Environmental: result.Environmental,
		Advice:        result.Advice,
		RoutineText:   outcome.Text,
		RoutineSource: outcome.Source,
	}

	// Archival is best effort; the record survives without a reference.
	if ref, err := s.images.Save(ctx, user.ID.String(), record.ID.String(), imageBytes); err != nil {
		s.logger.Warn("selfie archival failed", "user_id", user.ID, "error", err)
	} else {
		record.ImageRef = ref
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	if !ent.Premium && s.freeHistoryDepth > 0 {
		if _, err := s.repo.PruneToDepth(ctx, user.ID, s.freeHistoryDepth); err != nil {
			s.logger.Warn("history pruning failed", "user_id", user.ID, "error", err)
		}
	}

	if err := s.quota.RecordAnalysis(ctx, user.ID, now); err != nil {
		s.logger.Warn("usage accounting failed", "user_id", user.ID, "error", err)
	}

	metrics.RecordAnalysisCompleted(string(ent.Tier))

	return record, nil
}

// GetAnalysis returns one of the user's records.
func (s *AnalysisService) GetAnalysis(ctx context.Context, userID, id uuid.UUID) (*domain.AnalysisRecord, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// ListAnalyses returns the user's most recent records.
func (s *AnalysisService) ListAnalyses(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AnalysisRecord, error) {
	return s.repo.ListRecent(ctx, userID, limit)
}

// GenerateReport builds the premium detailed report for an existing
// analysis and attaches it. A record takes at most one report.
func (s *AnalysisService) GenerateReport(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.DetailedReport, error) {
	ent, err := s.entitlements.Check(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !ent.Premium {
		return nil, domain.ErrPremiumRequired
	}

	record, err := s.repo.GetByID(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	if record.Report != nil {
		return nil, domain.ErrReportExists
	}

	report := buildReport(record, time.Now().UTC())

	if err := s.repo.AttachReport(ctx, user.ID, id, report); err != nil {
		return nil, err
	}

	if err := s.quota.RecordReport(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("report accounting failed", "user_id", user.ID, "error", err)
	}

	metrics.RecordReportGenerated()

	return report, nil
}

// SearchSimilar finds the user's past analyses closest to the given
// one in metric space. Premium only.
func (s *AnalysisService) SearchSimilar(ctx context.Context, user *domain.User, id uuid.UUID, limit int) ([]domain.SimilarState, error) {
	ent, err := s.entitlements.Check(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !ent.Premium {
		return nil, domain.ErrPremiumRequired
	}

	return s.repo.SearchSimilar(ctx, user.ID, id, limit)
}

// EntitlementStatus combines the resolved tier with today's quota
// consumption for the entitlement endpoint.
type EntitlementStatus struct {
	Entitlement *entitlement.Entitlement `json:"entitlement"`
	Usage       *usage.QuotaStatus       `json:"usage"`
}

func (s *AnalysisService) EntitlementStatus(ctx context.Context, user *domain.User) (*EntitlementStatus, error) {
	ent, err := s.entitlements.Check(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	quotaStatus, err := s.quota.Status(ctx, user, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	return &EntitlementStatus{Entitlement: ent, Usage: quotaStatus}, nil
}

// buildReport derives the detailed report text from the stored metrics.
// The same record always yields the same report body.
func buildReport(record *domain.AnalysisRecord, now time.Time) *domain.DetailedReport {
	m := record.Metrics

	sections := []string{
		fmt.Sprintf("Oiliness %d/100: %s", m.Oiliness, metricBand(m.Oiliness)),
		fmt.Sprintf("Redness %d/100: %s", m.Redness, metricBand(m.Redness)),
		fmt.Sprintf("Texture %d/100: %s", m.Texture, metricBand(m.Texture)),
	}
	if m.Acne != nil {
		sections = append(sections, fmt.Sprintf("Acne %d/100: %s", *m.Acne, metricBand(*m.Acne)))
	}
	if m.Wrinkles != nil {
		sections = append(sections, fmt.Sprintf("Wrinkles %d/100: %s", *m.Wrinkles, metricBand(*m.Wrinkles)))
	}
	sections = append(sections, fmt.Sprintf(
		"Capture conditions: lighting quality %.2f, color temperature %.2f, contrast %.2f.",
		record.Environmental.LightingQuality,
		record.Environmental.ColorTemperature,
		record.Environmental.Contrast,
	))

	return &domain.DetailedReport{
		Summary: fmt.Sprintf(
			"Skin type %s, analysis confidence %d%%. Oiliness %d, redness %d, texture %d.",
			record.SkinType, record.Confidence, m.Oiliness, m.Redness, m.Texture,
		),
		Sections:    sections,
		GeneratedAt: now,
	}
}

func metricBand(score int) string {
	switch {
	case score >= 70:
		return "elevated, worth targeted care"
	case score >= 40:
		return "moderate, maintain your current routine"
	default:
		return "low, no action needed"
	}
}
