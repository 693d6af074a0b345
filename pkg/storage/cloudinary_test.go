package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712345/dresses/123-aurora.webp", "dresses/123-aurora"},
		{"https://res.cloudinary.com/demo/image/upload/dresses/aurora.jpg", "dresses/aurora"},
		{"https://res.cloudinary.com/demo/image/upload/velvet/aurora.jpg", "velvet/aurora"},
		{"https://example.com/not-cloudinary.png", ""},
		{"https://res.cloudinary.com/demo/image/upload", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, extractPublicID(tt.url))
		})
	}
}
