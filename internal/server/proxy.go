package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/medspa/internal/services"
	"github.com/desertthunder/medspa/internal/shared"
)

// DefaultPhotoCacheControl is sent when the provider response carries no Cache-Control.
const DefaultPhotoCacheControl = "public, max-age=86400"

// PhotoProxy streams place photos so the provider key never reaches the browser.
type PhotoProxy struct {
	photos   services.PhotoService
	maxWidth int
	metrics  *Metrics
	logger   *log.Logger
}

// NewPhotoProxy creates a [PhotoProxy]. maxWidth is the width used when the request gives none.
func NewPhotoProxy(photos services.PhotoService, maxWidth int, metrics *Metrics, logger *log.Logger) *PhotoProxy {
	return &PhotoProxy{photos: photos, maxWidth: maxWidth, metrics: metrics, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (p *PhotoProxy) Routes() []string {
	return []string{"GET /api/place-photo"}
}

// ServeHTTP handles GET /api/place-photo?photo_reference=&maxwidth=.
func (p *PhotoProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("photo_reference")
	if reference == "" {
		p.metrics.Photo("bad_request")
		writeError(w, http.StatusBadRequest, "photo_reference is required")
		return
	}

	width, _ := strconv.Atoi(r.URL.Query().Get("maxwidth"))
	width = services.ClampWidth(width, p.maxWidth)

	resp, err := p.photos.FetchPhoto(r.Context(), reference, width)
	if err != nil {
		if errors.Is(err, shared.ErrMissingCredentials) {
			p.metrics.Photo("config_error")
			p.logger.Error("image proxy is not configured", "error", err)
			writeError(w, http.StatusInternalServerError, "image proxy is not configured")
			return
		}
		p.metrics.Photo("upstream_error")
		p.logger.Warn("photo fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch photo")
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
		w.Header().Set("X-Content-Type-Options", "nosniff")
	}
	cacheControl := resp.Header.Get("Cache-Control")
	if cacheControl == "" {
		cacheControl = DefaultPhotoCacheControl
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", cacheControl)
	if resp.ContentLength >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(resp.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	p.metrics.Photo("ok")
	if _, err := io.Copy(w, resp.Body); err != nil {
		p.logger.Debug("photo stream interrupted", "error", err)
	}
}
