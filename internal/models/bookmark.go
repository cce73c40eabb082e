package models

import "time"

// Bookmark links a user to a tourism API contentId. A pair can exist at most
// once; toggling off deletes the row.
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_content_bookmark"`
	ContentID string    `json:"content_id" gorm:"index;uniqueIndex:idx_user_content_bookmark"`
	CreatedAt time.Time `json:"created_at"`
}

// SyncBookmarksRequest carries the bookmarks an anonymous session accumulated
// in browser storage, pushed once after sign-in. An empty list is valid: the
// client still gets the merged set back.
type SyncBookmarksRequest struct {
	DeviceID   string   `json:"device_id" validate:"required"`
	ContentIDs []string `json:"content_ids" validate:"dive,required"`
}
