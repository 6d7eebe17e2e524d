package handler

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/glowlab/dermalyze/internal/api/middleware"
	"github.com/glowlab/dermalyze/internal/domain"
	"github.com/glowlab/dermalyze/internal/service"
)

const (
	maxImageSize     = 10 * 1024 * 1024 // 10MB
	defaultListLimit = 20
	defaultSimLimit  = 5
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// AnalysisService interface for the service
type AnalysisService interface {
	Analyze(ctx context.Context, user *domain.User, imageBytes []byte) (*domain.AnalysisRecord, error)
	GetAnalysis(ctx context.Context, userID, id uuid.UUID) (*domain.AnalysisRecord, error)
	ListAnalyses(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AnalysisRecord, error)
	GenerateReport(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.DetailedReport, error)
	SearchSimilar(ctx context.Context, user *domain.User, id uuid.UUID, limit int) ([]domain.SimilarState, error)
	EntitlementStatus(ctx context.Context, user *domain.User) (*service.EntitlementStatus, error)
}

// SearchLimiter guards the similarity endpoint against bursts
type SearchLimiter interface {
	CheckSearchLimit(ctx context.Context, userID uuid.UUID, limit int) error
}

// AnalysisHandler handles analysis-related requests
type AnalysisHandler struct {
	service       AnalysisService
	searchLimiter SearchLimiter
	searchLimit   int
	logger        *slog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler instance
func NewAnalysisHandler(service AnalysisService, searchLimiter SearchLimiter, searchLimit int, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:       service,
		searchLimiter: searchLimiter,
		searchLimit:   searchLimit,
		logger:        logger,
	}
}

// ListResponse wraps the history listing
type ListResponse struct {
	Analyses []domain.AnalysisRecord `json:"analyses"`
	Count    int                     `json:"count"`
}

// SimilarResponse wraps the similarity search results
type SimilarResponse struct {
	Results []domain.SimilarState `json:"results"`
	Count   int                   `json:"count"`
}

// Analyze POST /v1/analyses - run a new analysis on an uploaded selfie
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	// 1. Extract user from context (already authenticated by middleware)
	user, err := middleware.GetUser(c)
	if err != nil {
		return err
	}

	// 2. Extract and validate image
	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return err
	}

	// 3. Run the analysis
	record, err := h.service.Analyze(c.Context(), user, imageBytes)
	if err != nil {
		return err
	}

	// 4. Return response
	return c.Status(fiber.StatusCreated).JSON(record)
}

// List GET /v1/analyses - recent history, most recent first
func (h *AnalysisHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	limit := queryLimit(c, defaultListLimit)

	records, err := h.service.ListAnalyses(c.Context(), userID, limit)
	if err != nil {
		return err
	}

	return c.JSON(ListResponse{Analyses: records, Count: len(records)})
}

// Get GET /v1/analyses/:id - single record
func (h *AnalysisHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	id, err := parseAnalysisID(c)
	if err != nil {
		return err
	}

	record, err := h.service.GetAnalysis(c.Context(), userID, id)
	if err != nil {
		return err
	}

	return c.JSON(record)
}

// Report POST /v1/analyses/:id/report - attach the premium detailed report
func (h *AnalysisHandler) Report(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return err
	}

	id, err := parseAnalysisID(c)
	if err != nil {
		return err
	}

	report, err := h.service.GenerateReport(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// Similar GET /v1/analyses/:id/similar - premium similar-state search
func (h *AnalysisHandler) Similar(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return err
	}

	id, err := parseAnalysisID(c)
	if err != nil {
		return err
	}

	if err := h.searchLimiter.CheckSearchLimit(c.Context(), user.ID, h.searchLimit); err != nil {
		return err
	}

	limit := queryLimit(c, defaultSimLimit)

	results, err := h.service.SearchSimilar(c.Context(), user, id, limit)
	if err != nil {
		return err
	}

	return c.JSON(SimilarResponse{Results: results, Count: len(results)})
}

// Entitlement GET /v1/entitlement - current tier and quota consumption
func (h *AnalysisHandler) Entitlement(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return err
	}

	status, err := h.service.EntitlementStatus(c.Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(status)
}

// parseAnalysisID extracts and validates the :id URL parameter
func parseAnalysisID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrValidationFailed.WithError(err)
	}
	return id, nil
}

// queryLimit reads the limit query parameter; range checks happen at
// the repository boundary.
func queryLimit(c *fiber.Ctx, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return limit
}

// extractAndValidateImage extracts and validates the image from the form
func extractAndValidateImage(c *fiber.Ctx) ([]byte, error) {
	// 1. Extract file
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	// 2. Validate size
	if file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage
	}

	if file.Size == 0 {
		return nil, domain.ErrInvalidImage
	}

	// 3. Validate Content-Type
	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage
	}

	// 4. Read image bytes
	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return imageBytes, nil
}
