package brainstorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		in          string
		platform    string
		contentType string
		ok          bool
	}{
		{"make me a reel", "Instagram", "Instagram Reel", true},
		{"MAKE ME A REEL", "Instagram", "Instagram Reel", true},
		{"a tiktok about cats", "TikTok", "TikTok Video", true},
		{"tik tok pls", "TikTok", "TikTok Video", true},
		{"youtube shorts idea", "YouTube", "YouTube Short", true},
		{"something for linkedin", "LinkedIn", "", true},
		{"a weekly newsletter", "Email", "Email Newsletter", true},
		{"write me a tweet", "Twitter", "Tweet Thread", true},
		{"just some content", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		platform, contentType, ok := DetectPlatform(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.platform, platform, tt.in)
		assert.Equal(t, tt.contentType, contentType, tt.in)
	}
}
