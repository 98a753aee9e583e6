package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fillqr/intake-api/internal/dto"
	"github.com/fillqr/intake-api/internal/service"
	appErrors "github.com/fillqr/intake-api/pkg/errors"
	"github.com/fillqr/intake-api/pkg/response"
)

// ApplicationHandler accepts public membership application submissions.
type ApplicationHandler struct {
	intake       *service.IntakeService
	maxPhotoSize int64
}

// NewApplicationHandler constructs the application handler.
func NewApplicationHandler(intake *service.IntakeService, maxPhotoSize int64) *ApplicationHandler {
	if maxPhotoSize <= 0 {
		maxPhotoSize = 5 << 20
	}
	return &ApplicationHandler{intake: intake, maxPhotoSize: maxPhotoSize}
}

// Submit godoc
// @Summary Submit a membership application
// @Tags Applications
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	tc := tenantFromContext(c)
	if tc == nil {
		response.Error(c, appErrors.ErrTenantNotFound)
		return
	}

	var req dto.SubmitApplicationRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed form payload"))
		return
	}

	photo, err := h.readPhoto(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	accepted, rejected, err := h.intake.Submit(c.Request.Context(), tc, req, photo, c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}
	if rejected != nil {
		response.JSON(c, http.StatusUnprocessableEntity, rejected, nil)
		return
	}
	response.Created(c, accepted)
}

// readPhoto pulls the optional applicant photo out of the multipart form.
// A missing file is fine; an oversized one is a hard error.
func (h *ApplicationHandler) readPhoto(c *gin.Context) (*service.PhotoUpload, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		// Not a multipart request; the form simply carries no photo.
		return nil, nil
	}
	if file.Size > h.maxPhotoSize {
		return nil, appErrors.New("PHOTO_TOO_LARGE", http.StatusRequestEntityTooLarge, "photo exceeds the size limit")
	}

	src, err := file.Open()
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxPhotoSize+1))
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if int64(len(data)) > h.maxPhotoSize {
		return nil, appErrors.New("PHOTO_TOO_LARGE", http.StatusRequestEntityTooLarge, "photo exceeds the size limit")
	}

	return &service.PhotoUpload{Filename: file.Filename, Data: data}, nil
}
