package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// SkinMetricsData represents the heuristic metric scores
type SkinMetricsData struct {
	Oiliness int  `json:"oiliness" example:"65"`
	Redness  int  `json:"redness" example:"23"`
	Texture  int  `json:"texture" example:"37"`
	Acne     *int `json:"acne,omitempty" example:"30"`
	Wrinkles *int `json:"wrinkles,omitempty" example:"15"`
}

// EnvironmentalData represents capture-condition correction factors
type EnvironmentalData struct {
	LightingQuality  float64 `json:"lighting_quality" example:"1.05"`
	ColorTemperature float64 `json:"color_temperature" example:"0.98"`
	Contrast         float64 `json:"contrast" example:"1.02"`
}

// AnalysisResponse represents a completed analysis
type AnalysisResponse struct {
	ID            string            `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Metrics       SkinMetricsData   `json:"metrics"`
	Confidence    int               `json:"confidence" example:"93"`
	SkinType      string            `json:"skin_type" example:"very-light"`
	Environmental EnvironmentalData `json:"environmental_factors"`
	RoutineText   string            `json:"routine_text,omitempty" example:"Morning: gentle cleanser, light moisturizer, SPF 30+."`
	RoutineSource string            `json:"routine_source,omitempty" example:"generated"`
	CreatedAt     string            `json:"created_at" example:"2025-01-01T00:00:00Z"`
}

// AnalysisListResponse represents the history listing
type AnalysisListResponse struct {
	Analyses []AnalysisResponse `json:"analyses"`
	Count    int                `json:"count" example:"2"`
}

// ReportResponse represents the premium detailed report
type ReportResponse struct {
	Summary     string   `json:"summary" example:"Skin type very-light, analysis confidence 93%."`
	Sections    []string `json:"sections"`
	GeneratedAt string   `json:"generated_at" example:"2025-01-01T00:00:00Z"`
}

// SimilarStateData is one similarity search hit
type SimilarStateData struct {
	Record   AnalysisResponse `json:"record"`
	Distance float64          `json:"distance" example:"4.2"`
}

// SimilarSearchResponse represents similarity search results
type SimilarSearchResponse struct {
	Results []SimilarStateData `json:"results"`
	Count   int                `json:"count" example:"1"`
}

// EntitlementResponse represents tier and quota status
type EntitlementResponse struct {
	Tier      string  `json:"tier" example:"free"`
	Premium   bool    `json:"premium" example:"false"`
	Used      int     `json:"used" example:"1"`
	Quota     int     `json:"quota" example:"3"`
	Remaining int     `json:"remaining" example:"2"`
	Percent   float64 `json:"percentage" example:"33.33"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// HealthResponse represents health check output
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Dermalyze Skin Analysis API",
		Version:     "v1.0.0",
		Description: "Heuristic skin-metrics analysis for selfie uploads: oiliness, redness, texture plus premium acne and wrinkle scores, routine text and similarity search",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/analyses - Run analysis
		endpoint.New(
			endpoint.POST,
			"/analyses",
			endpoint.WithTags("Analyses"),
			endpoint.WithSummary("Analyze a selfie"),
			endpoint.WithDescription("Runs the full analysis pipeline on the uploaded selfie: face gate, color extraction, metric scoring, skin-type normalization and routine text"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AnalysisResponse{}, "201", "Analysis completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing access token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MULTIPLE_FACES", Message: "Multiple faces detected"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "QUOTA_EXCEEDED", Message: "Daily analysis quota exceeded"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/analyses - History
		endpoint.New(
			endpoint.GET,
			"/analyses",
			endpoint.WithTags("Analyses"),
			endpoint.WithSummary("List recent analyses"),
			endpoint.WithDescription("Returns the user's most recent analyses, newest first. Free tier history is capped."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Number of records (1-50, default 20)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AnalysisListResponse{}, "200", "History retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing access token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INVALID_LIMIT", Message: "Limit must be between 1 and 50"}, "422", "Unprocessable Entity"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/analyses/:id - Single record
		endpoint.New(
			endpoint.GET,
			"/analyses/{id}",
			endpoint.WithTags("Analyses"),
			endpoint.WithSummary("Get a single analysis"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Analysis ID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AnalysisResponse{}, "200", "Analysis retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing access token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "ANALYSIS_NOT_FOUND", Message: "Analysis not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/analyses/:id/report - Premium report
		endpoint.New(
			endpoint.POST,
			"/analyses/{id}/report",
			endpoint.WithTags("Analyses"),
			endpoint.WithSummary("Attach the premium detailed report"),
			endpoint.WithDescription("Builds and attaches the detailed report for an existing analysis. Attachment happens at most once per analysis."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Analysis ID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ReportResponse{}, "201", "Report attached"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing access token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "PREMIUM_REQUIRED", Message: "This feature requires a premium subscription"}, "403", "Forbidden"),
				response.New(ErrorResponse{Code: "ANALYSIS_NOT_FOUND", Message: "Analysis not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "REPORT_ALREADY_ATTACHED", Message: "A detailed report is already attached"}, "409", "Conflict"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/analyses/:id/similar - Similar states
		endpoint.New(
			endpoint.GET,
			"/analyses/{id}/similar",
			endpoint.WithTags("Analyses"),
			endpoint.WithSummary("Find similar past skin states"),
			endpoint.WithDescription("Premium nearest-neighbour search over the user's past metric vectors"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Reference analysis ID")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Number of results (1-50, default 5)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SimilarSearchResponse{}, "200", "Search completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing access token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "PREMIUM_REQUIRED", Message: "This feature requires a premium subscription"}, "403", "Forbidden"),
				response.New(ErrorResponse{Code: "ANALYSIS_NOT_FOUND", Message: "Analysis not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "RATE_LIMITED", Message: "Too many requests"}, "429", "Too Many Requests"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/entitlement - Tier info
		endpoint.New(
			endpoint.GET,
			"/entitlement",
			endpoint.WithTags("Entitlement"),
			endpoint.WithSummary("Current tier and quota status"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EntitlementResponse{}, "200", "Entitlement retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing access token"}, "401", "Unauthorized"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /health
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness check"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is up"),
			}),
		),

		// GET /ready
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness check"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is ready"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(HealthResponse{Status: "unavailable"}, "503", "Database unreachable"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
