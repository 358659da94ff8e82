package storage

import (
	"testing"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		filePath string
		wantType string
	}{
		{"videos.json", "application/json"},
		{"catalogs/2024/videos.csv", "text/csv"},
		{"videos", "application/octet-stream"},
		{"unknown.xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filePath, func(t *testing.T) {
			contentType := getContentType(tt.filePath)
			if contentType != tt.wantType {
				t.Errorf("getContentType(%q) = %q, want %q", tt.filePath, contentType, tt.wantType)
			}
		})
	}
}
