package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/supabase"
)

const MaxPhotoSize = 10 << 20

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

type PhotoService struct {
	store  PhotoStore
	files  FileStore
	logger *zap.Logger
	now    func() time.Time
}

func NewPhotoService(store PhotoStore, files FileStore, logger *zap.Logger) *PhotoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhotoService{store: store, files: files, logger: logger, now: time.Now}
}

// Upload stores each file in turn and records a room_photos row for it. A
// failed file is reported in Errors and the rest still go through; nothing
// already stored is rolled back.
func (s *PhotoService) Upload(ctx context.Context, userID, taskID uuid.UUID, roomType models.RoomType, photoType models.PhotoType, files []*multipart.FileHeader) (*models.UploadResponse, error) {
	if !roomType.Valid() {
		return nil, invalid("room_type", "unknown room type %q", roomType)
	}
	if !photoType.Valid() {
		return nil, invalid("photo_type", "must be before or after")
	}
	if len(files) == 0 {
		return nil, invalid("photos", "at least one photo is required")
	}
	if s.files == nil {
		return nil, fmt.Errorf("photo storage: %w", ErrNotConfigured)
	}
	if err := s.authorize(ctx, userID, taskID); err != nil {
		return nil, err
	}

	resp := &models.UploadResponse{TaskID: taskID.String(), Photos: make([]models.RoomPhoto, 0, len(files))}
	for _, fh := range files {
		photo, err := s.uploadOne(ctx, userID, taskID, roomType, photoType, fh)
		if err != nil {
			s.logger.Warn("photo upload failed",
				zap.String("task_id", taskID.String()),
				zap.String("filename", fh.Filename),
				zap.Error(err),
			)
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", fh.Filename, err))
			continue
		}
		resp.Photos = append(resp.Photos, *photo)
	}
	return resp, nil
}

func (s *PhotoService) uploadOne(ctx context.Context, userID, taskID uuid.UUID, roomType models.RoomType, photoType models.PhotoType, fh *multipart.FileHeader) (*models.RoomPhoto, error) {
	if fh.Size > MaxPhotoSize {
		return nil, fmt.Errorf("file exceeds %d MB", MaxPhotoSize>>20)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxPhotoSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > MaxPhotoSize {
		return nil, fmt.Errorf("file exceeds %d MB", MaxPhotoSize>>20)
	}

	contentType := photoContentType(fh.Header.Get("Content-Type"), data)
	ext, ok := photoExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
	if e := strings.ToLower(filepath.Ext(fh.Filename)); e == ".jpeg" || e == ".jpg" {
		ext = ".jpg"
	}

	photo := &models.RoomPhoto{
		ID:         uuid.New(),
		TaskID:     taskID,
		RoomType:   roomType,
		PhotoType:  photoType,
		UploadedBy: userID,
		FileSize:   int64(len(data)),
		MimeType:   contentType,
		CreatedAt:  s.now().UTC(),
	}
	photo.StoragePath = supabase.PhotoPath(taskID, photoType, roomType, photo.ID, ext)

	url, err := s.files.Upload(photo.StoragePath, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to storage: %w", err)
	}
	photo.URL = url

	if err := s.store.CreateRoomPhoto(ctx, photo); err != nil {
		return nil, fmt.Errorf("failed to save photo record: %w", err)
	}
	return photo, nil
}

// List returns a task's photos. An empty photoType lists both kinds.
func (s *PhotoService) List(ctx context.Context, userID, taskID uuid.UUID, photoType models.PhotoType) ([]models.RoomPhoto, error) {
	if photoType != "" && !photoType.Valid() {
		return nil, invalid("photo_type", "must be before or after")
	}
	if err := s.authorize(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.store.ListRoomPhotos(ctx, taskID, photoType)
}

func (s *PhotoService) authorize(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !task.IsOwner(userID) && !task.IsAssignedTo(userID) {
		return forbidden("only the owner or assigned cleaner can access task photos")
	}
	return nil
}

func photoContentType(declared string, data []byte) string {
	declared = strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	if declared == "image/jpg" {
		declared = "image/jpeg"
	}
	if _, ok := photoExtensions[declared]; ok {
		return declared
	}
	return http.DetectContentType(data)
}
