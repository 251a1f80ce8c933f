package model

import "time"

// Attachment represents an uploaded file (receipt, manual, photo) tied to a
// task and optionally an asset. File bytes live in the database; the struct
// only carries metadata unless explicitly loaded.
type Attachment struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	AssetID      *int64    `json:"asset_id,omitempty"`
	TaskID       *int64    `json:"task_id,omitempty"`
	OriginalName string    `json:"original_name,omitempty"`
	MIME         string    `json:"mime,omitempty"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}
