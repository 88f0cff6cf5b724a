package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/services"
)

const maxUploadMemory = 32 << 20

type PhotosHandler struct {
	photos *services.PhotoService
}

func NewPhotosHandler(photos *services.PhotoService) *PhotosHandler {
	return &PhotosHandler{photos: photos}
}

// UploadPhotos godoc
// @Summary     Upload before or after photos for a room
// @Description Files are stored one at a time. A file that fails is listed in errors and the rest still upload.
// @Tags        photos
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       task_id path string true "Task ID (UUID)"
// @Param       room_type formData string true "bedroom, bathroom, kitchen, living_room, laundry or other"
// @Param       photo_type formData string true "before or after"
// @Param       photos formData file true "Photos (multiple files allowed)"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /tasks/{task_id}/photos [post]
func (h *PhotosHandler) UploadPhotos(c *gin.Context) {
	userID, taskID, ok := userAndTask(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}
	form := c.Request.MultipartForm

	var files []*multipart.FileHeader
	fieldNames := []string{"photos", "photo", "files", "file"}
	for _, name := range fieldNames {
		if f := form.File[name]; len(f) > 0 {
			files = f
			break
		}
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no files uploaded",
			Message: fmt.Sprintf("provide files under one of these field names: %v", fieldNames),
		})
		return
	}

	resp, err := h.photos.Upload(c.Request.Context(), userID, taskID,
		models.RoomType(c.PostForm("room_type")),
		models.PhotoType(c.PostForm("photo_type")),
		files,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListPhotos godoc
// @Summary     List a task's photos
// @Tags        photos
// @Produce     json
// @Security    Bearer
// @Param       task_id path string true "Task ID (UUID)"
// @Param       photo_type query string false "before or after"
// @Success     200 {object} models.PhotoListResponse
// @Router      /tasks/{task_id}/photos [get]
func (h *PhotosHandler) ListPhotos(c *gin.Context) {
	userID, taskID, ok := userAndTask(c)
	if !ok {
		return
	}
	photos, err := h.photos.List(c.Request.Context(), userID, taskID, models.PhotoType(c.Query("photo_type")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.PhotoListResponse{Photos: photos})
}
