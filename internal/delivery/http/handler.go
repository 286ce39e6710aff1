package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/nutriview/backend/internal/domain"
	"github.com/nutriview/backend/internal/usecase"
)

const (
	serviceName    = "nutriview-backend"
	serviceVersion = "1.0.0"

	defaultMaxUploadBytes = 10 << 20

	noMatchesMessage = "No foods match these preferences. Try a different diet, cuisine or calorie limit."
)

// NutritionUsecase is the nutrition behaviour the handler depends on
type NutritionUsecase interface {
	Profile(ctx context.Context, foodName string) (*domain.FoodProfile, error)
	Image(ctx context.Context, foodName string) (domain.ImageReference, error)
	Suggest(foodName string) []string
	Table() []domain.NutritionRecord
}

// RecommendationUsecase filters the recommendation catalog
type RecommendationUsecase interface {
	Recommend(ctx context.Context, criteria domain.FilterCriteria, limit int) (*usecase.RecommendationResult, error)
}

// PageUsecase inspects user-supplied pages
type PageUsecase interface {
	Inspect(ctx context.Context, rawURL string) (*domain.PageSummary, error)
}

// HandlerConfig holds optional handler settings
type HandlerConfig struct {
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	nutrition       NutritionUsecase
	recommendations RecommendationUsecase
	pages           PageUsecase
	maxUploadBytes  int64
	logger          *slog.Logger
}

// NewHandler creates a new HTTP handler. Any service may be nil; its
// endpoints then answer 501.
func NewHandler(
	nutrition NutritionUsecase,
	recommendations RecommendationUsecase,
	pages PageUsecase,
	config HandlerConfig,
) *Handler {
	maxUpload := config.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		nutrition:       nutrition,
		recommendations: recommendations,
		pages:           pages,
		maxUploadBytes:  maxUpload,
		logger:          logger,
	}
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// RecommendationsResponse wraps a recommendation result for the client
type RecommendationsResponse struct {
	Results []domain.Recommendation `json:"results"`
	Skipped int                     `json:"skipped"`
	Message string                  `json:"message,omitempty"`
}

// InspectPageRequest is the body of POST /pages/inspect
type InspectPageRequest struct {
	URL string `json:"url" binding:"required"`
}

// UploadInfo describes an accepted image upload
type UploadInfo struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// PredictResponse is a food profile for an uploaded image
type PredictResponse struct {
	Upload  UploadInfo          `json:"upload"`
	Profile *domain.FoodProfile `json:"profile"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// ListFoods returns the full nutrition table
func (h *Handler) ListFoods(c *gin.Context) {
	if h.nutrition == nil {
		notConfigured(c, "nutrition")
		return
	}

	foods := h.nutrition.Table()
	c.JSON(http.StatusOK, gin.H{
		"foods": foods,
		"count": len(foods),
	})
}

// SearchNutrition handles nutrition search requests
func (h *Handler) SearchNutrition(c *gin.Context) {
	if h.nutrition == nil {
		notConfigured(c, "nutrition")
		return
	}

	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "foodName is required"})
		return
	}

	h.respondWithProfile(c, req.FoodName, func(profile *domain.FoodProfile) any {
		return profile
	})
}

// PredictNutrition accepts an uploaded food image plus its food name and
// returns the nutrition profile for that name.
func (h *Handler) PredictNutrition(c *gin.Context) {
	if h.nutrition == nil {
		notConfigured(c, "nutrition")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+(1<<20))

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "image file is required"})
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: fmt.Sprintf("image exceeds %d bytes", h.maxUploadBytes),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "image could not be read"})
		return
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(io.LimitReader(file, h.maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "image could not be read"})
		return
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("upload is %s, not an image", mtype.String()),
		})
		return
	}

	upload := UploadInfo{
		Filename:    fileHeader.Filename,
		ContentType: mtype.String(),
		Size:        fileHeader.Size,
	}

	h.respondWithProfile(c, c.PostForm("food_name"), func(profile *domain.FoodProfile) any {
		return PredictResponse{Upload: upload, Profile: profile}
	})
}

// respondWithProfile looks up foodName and writes the profile, or a 404
// carrying suggestions when the food is unknown.
func (h *Handler) respondWithProfile(c *gin.Context, foodName string, wrap func(*domain.FoodProfile) any) {
	profile, err := h.nutrition.Profile(c.Request.Context(), foodName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFoundInCatalog) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:       "Food not found in table. Check spelling or choose a different item.",
				Suggestions: h.nutrition.Suggest(foodName),
			})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrap(profile))
}

// GetImage resolves an image for any food name
func (h *Handler) GetImage(c *gin.Context) {
	if h.nutrition == nil {
		notConfigured(c, "nutrition")
		return
	}

	ref, err := h.nutrition.Image(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ref)
}

// Recommend filters the recommendation catalog by diet, cuisine and calories
func (h *Handler) Recommend(c *gin.Context) {
	if h.recommendations == nil {
		notConfigured(c, "recommendations")
		return
	}

	var req domain.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "diet and cuisine are required"})
		return
	}

	result, err := h.recommendations.Recommend(c.Request.Context(), req.FilterCriteria, req.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := RecommendationsResponse{Results: result.Results, Skipped: result.Skipped}
	if len(resp.Results) == 0 {
		resp.Message = noMatchesMessage
	}
	c.JSON(http.StatusOK, resp)
}

// InspectPage fetches a page and reports its title
func (h *Handler) InspectPage(c *gin.Context) {
	if h.pages == nil {
		notConfigured(c, "page inspection")
		return
	}

	var req InspectPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "url is required"})
		return
	}

	summary, err := h.pages.Inspect(c.Request.Context(), req.URL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// respondError maps domain errors onto HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request.Context(), "request failed",
			"path", c.FullPath(),
			"request_id", c.GetString(requestIDKey),
			"error", err,
		)
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFoundInCatalog):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func notConfigured(c *gin.Context, what string) {
	c.JSON(http.StatusNotImplemented, ErrorResponse{Error: what + " service not configured"})
}
