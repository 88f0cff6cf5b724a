package supabase

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
	"homeclean-backend/internal/models"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// PhotoPath builds tasks/{task_id}/{photo_type}/{room_type}/{photo_id}{ext}.
func PhotoPath(taskID uuid.UUID, photoType models.PhotoType, roomType models.RoomType, photoID uuid.UUID, ext string) string {
	return fmt.Sprintf("tasks/%s/%s/%s/%s%s", taskID, photoType, roomType, photoID, ext)
}

// Upload stores data at path and returns its public URL.
func (s *StorageClient) Upload(path, contentType string, data []byte) (string, error) {
	upsert := false
	_, err := s.client.UploadFile(s.bucket, path, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return s.GetPublicURL(path), nil
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storagePath)
}

func (s *StorageClient) DeleteFile(storagePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	return err
}

// DeleteTaskPhotos removes every object under tasks/{task_id}/.
func (s *StorageClient) DeleteTaskPhotos(taskID uuid.UUID) error {
	prefix := fmt.Sprintf("tasks/%s/", taskID)

	var paths []string
	for _, photoType := range []models.PhotoType{models.PhotoTypeBefore, models.PhotoTypeAfter} {
		dir := prefix + string(photoType) + "/"
		rooms, err := s.client.ListFiles(s.bucket, dir, storage.FileSearchOptions{Limit: 1000})
		if err != nil {
			return fmt.Errorf("failed to list files: %w", err)
		}
		for _, room := range rooms {
			files, err := s.client.ListFiles(s.bucket, dir+room.Name+"/", storage.FileSearchOptions{Limit: 1000})
			if err != nil {
				return fmt.Errorf("failed to list files: %w", err)
			}
			for _, f := range files {
				paths = append(paths, dir+room.Name+"/"+f.Name)
			}
		}
	}

	if len(paths) == 0 {
		return nil
	}
	if _, err := s.client.RemoveFile(s.bucket, paths); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	return nil
}
