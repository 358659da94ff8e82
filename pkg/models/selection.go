package models

import "time"

// Selection is the playback target a session currently has open.
// It is replaced as a whole on every click, never merged.
type Selection struct {
	Video      Video     `json:"video"`
	Timestamp  Timestamp `json:"timestamp"`
	EmbedURL   string    `json:"embed_url"`
	SelectedAt time.Time `json:"selected_at"`
}

// SelectRequest is the body accepted by the selection endpoints
type SelectRequest struct {
	VideoID   string `json:"video_id" form:"video_id" binding:"required"`
	Timestamp string `json:"timestamp" form:"timestamp" binding:"required"`
}
