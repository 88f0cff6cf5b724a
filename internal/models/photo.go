package models

import (
	"time"

	"github.com/google/uuid"
)

type RoomType string

const (
	RoomTypeBedroom    RoomType = "bedroom"
	RoomTypeBathroom   RoomType = "bathroom"
	RoomTypeKitchen    RoomType = "kitchen"
	RoomTypeLivingRoom RoomType = "living_room"
	RoomTypeLaundry    RoomType = "laundry"
	RoomTypeOther      RoomType = "other"
)

func (r RoomType) Valid() bool {
	switch r {
	case RoomTypeBedroom, RoomTypeBathroom, RoomTypeKitchen,
		RoomTypeLivingRoom, RoomTypeLaundry, RoomTypeOther:
		return true
	}
	return false
}

type PhotoType string

const (
	PhotoTypeBefore PhotoType = "before"
	PhotoTypeAfter  PhotoType = "after"
)

func (p PhotoType) Valid() bool {
	return p == PhotoTypeBefore || p == PhotoTypeAfter
}

type RoomPhoto struct {
	ID          uuid.UUID `json:"id"`
	TaskID      uuid.UUID `json:"task_id"`
	RoomType    RoomType  `json:"room_type"`
	PhotoType   PhotoType `json:"photo_type"`
	StoragePath string    `json:"storage_path"`
	URL         string    `json:"url"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	FileSize    int64     `json:"file_size"`
	MimeType    string    `json:"mime_type"`
	CreatedAt   time.Time `json:"created_at"`
}
