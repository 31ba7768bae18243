package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/krushisathi/krushi-sathi/internal/domain/advisory"
	"github.com/krushisathi/krushi-sathi/internal/domain/archive"
	"github.com/krushisathi/krushi-sathi/internal/domain/updates"
	apperrors "github.com/krushisathi/krushi-sathi/pkg/errors"
	"github.com/krushisathi/krushi-sathi/pkg/util"
)

// Features reports which optional capabilities are live in this deployment.
type Features struct {
	AIConfigured bool
	DBConfigured bool
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	advisorySvc advisory.Service
	updatesSvc  updates.Service
	archiveSvc  archive.Service
	features    Features
	pingMessage string
	startedAt   func() float64
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(advisorySvc advisory.Service, updatesSvc updates.Service, archiveSvc archive.Service, features Features, pingMessage string, logger *slog.Logger) *Handler {
	started := util.NowUTC()
	return &Handler{
		advisorySvc: advisorySvc,
		updatesSvc:  updatesSvc,
		archiveSvc:  archiveSvc,
		features:    features,
		pingMessage: pingMessage,
		startedAt:   func() float64 { return util.NowUTC().Sub(started).Seconds() },
		logger:      logger.With("component", "http.handler"),
	}
}

// Advisory generates a farming advisory from a question and/or crop photo.
func (h *Handler) Advisory(c *gin.Context) {
	var req advisory.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	resp, err := h.advisorySvc.Advise(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "advisory_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "image_too_large"):
			status = http.StatusRequestEntityTooLarge
			code = "image_too_large"
		case apperrors.IsCode(err, "ai_config_error"):
			status = http.StatusServiceUnavailable
			code = "AI_CONFIG_ERROR"
		case apperrors.IsCode(err, "ai_service_error"):
			status = http.StatusServiceUnavailable
			code = "AI_SERVICE_ERROR"
		case apperrors.IsCode(err, "ai_parse_error"):
			status = http.StatusServiceUnavailable
			code = "AI_PARSE_ERROR"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

type saveAdvisoryRequest struct {
	UserID   string            `json:"userId"`
	Advisory advisory.Response `json:"advisory"`
}

// SaveAdvisory persists an advisory to the caller's history.
func (h *Handler) SaveAdvisory(c *gin.Context) {
	var req saveAdvisoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	userID := req.UserID
	if subject := identityFrom(c); subject != "" {
		userID = subject
	}

	rec, err := h.archiveSvc.Save(c.Request.Context(), userID, req.Advisory)
	if err != nil {
		abortWithError(c, archiveError(err))
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// ListAdvisories returns the caller's saved advisories, newest first.
func (h *Handler) ListAdvisories(c *gin.Context) {
	userID := c.Query("userId")
	if subject := identityFrom(c); subject != "" {
		userID = subject
	}

	items, err := h.archiveSvc.List(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, archiveError(err))
		return
	}
	if items == nil {
		items = []archive.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func archiveError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := "storage_error"
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, "storage_unconfigured"):
		status = http.StatusServiceUnavailable
		code = "storage_unconfigured"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

// Updates returns current weather plus market and scheme snapshots.
func (h *Handler) Updates(c *gin.Context) {
	var req updates.Request
	if lat, ok, err := parseCoord(c.Query("lat")); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid lat", err))
		return
	} else if ok {
		req.Lat = &lat
	}
	if lon, ok, err := parseCoord(c.Query("lon")); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid lon", err))
		return
	} else if ok {
		req.Lon = &lon
	}

	resp, err := h.updatesSvc.Fetch(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "weather_error", errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func parseCoord(raw string) (float64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// Health reports service status and which capabilities are configured.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   "1.0.0",
		"uptime":    h.startedAt(),
		"timestamp": util.NowUTC(),
		"languages": advisory.Languages(),
		"features": gin.H{
			"aiConfigured":   h.features.AIConfigured,
			"dbConfigured":   h.features.DBConfigured,
			"offlineSupport": true,
			"multiLanguage":  true,
			"imageAnalysis":  h.features.AIConfigured,
			"weatherUpdates": true,
		},
	})
}

// Ping is a trivial liveness probe with a configurable message.
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.pingMessage})
}

// bindError maps a body decode failure to an HTTP error. A body that
// blew past the size cap answers 413 rather than a generic 400.
func bindError(err error) *HTTPError {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return NewHTTPError(http.StatusRequestEntityTooLarge, "request_too_large", "request body too large", err)
	}
	return NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
