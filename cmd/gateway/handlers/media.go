package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mediabridge/gateway/cmd/gateway/middleware"
	"github.com/mediabridge/gateway/cmd/gateway/service"
	"github.com/mediabridge/gateway/common/logger"
	"github.com/mediabridge/gateway/common/models"
)

// MediaHandler handles video upload and mp3 download
type MediaHandler struct {
	pipeline *service.GatewayService
	log      *logger.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(pipeline *service.GatewayService, log *logger.Logger) *MediaHandler {
	return &MediaHandler{
		pipeline: pipeline,
		log:      log,
	}
}

// Upload accepts exactly one video file from an admin caller, stores it and
// queues the conversion job.
// POST /upload
func (h *MediaHandler) Upload(c echo.Context) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return c.String(http.StatusUnauthorized, "invalid token")
	}
	if !claims.Admin {
		return c.String(http.StatusUnauthorized, "not authorized")
	}

	fh, err := singleFile(c)
	if err != nil {
		return c.String(http.StatusBadRequest, "exactly 1 file required")
	}

	f, err := fh.Open()
	if err != nil {
		h.log.Error("failed to open uploaded file", "filename", fh.Filename, "error", err)
		return c.String(http.StatusInternalServerError, "internal server error")
	}
	defer f.Close()

	meta := models.BlobMeta{
		Filename:   fh.Filename,
		MediaType:  fh.Header.Get("Content-Type"),
		UploadedBy: claims.Username,
	}

	fid, err := h.pipeline.Upload(c.Request().Context(), claims, f, meta)
	if err != nil {
		h.log.Error("upload pipeline failed", "filename", fh.Filename, "error", err)
		return c.String(http.StatusInternalServerError, "internal server error")
	}

	h.log.Info("upload accepted", "fid", fid, "user", claims.Username)
	return c.String(http.StatusOK, "success!")
}

// Download streams a converted mp3 back to an admin caller.
// GET /download?fid=<id>
func (h *MediaHandler) Download(c echo.Context) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return c.String(http.StatusUnauthorized, "invalid token")
	}
	if !claims.Admin {
		return c.String(http.StatusUnauthorized, "not authorized")
	}

	fid := c.QueryParam("fid")
	if fid == "" {
		return c.String(http.StatusBadRequest, "fid is required")
	}

	blob, err := h.pipeline.Download(c.Request().Context(), fid)
	if err != nil {
		// Not-found and store failures collapse to 500 on purpose; the
		// distinction stays in the logs. See DESIGN.md.
		h.log.Error("download failed", "fid", fid, "error", err)
		return c.String(http.StatusInternalServerError, "internal server error")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.mp3"`, fid))
	return c.Blob(http.StatusOK, "audio/mpeg", blob.Content)
}

// singleFile returns the one file attached to the request, or an error when
// zero or more than one file is present in any field
func singleFile(c echo.Context) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	var found *multipart.FileHeader
	count := 0
	for _, headers := range form.File {
		for _, fh := range headers {
			found = fh
			count++
		}
	}
	if count != 1 {
		return nil, fmt.Errorf("expected 1 file, got %d", count)
	}
	return found, nil
}
