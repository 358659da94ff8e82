package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"2:30", 150, false},
		{"0:00", 0, false},
		{"1:05", 65, false},
		{"12:00", 720, false},
		{" 3 : 07 ", 187, false},
		{"90:90", 5490, false},
		{"", 0, true},
		{"2", 0, true},
		{"1:02:03", 0, true},
		{"a:30", 0, true},
		{"2:xx", 0, true},
		{"-1:30", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimestamp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmbedURL(t *testing.T) {
	b := NewBuilder("")

	got, err := b.EmbedURL("https://www.youtube.com/watch?v=abc123", "1:05")
	require.NoError(t, err)

	assert.Equal(t, "https://www.youtube.com/embed/abc123?start=65&autoplay=1", got)
	assert.Contains(t, got, "abc123")
	assert.Contains(t, got, "start=65")
}

func TestEmbedURLKeepsOnlyVideoParam(t *testing.T) {
	b := NewBuilder("https://player.example.com/embed/")

	got, err := b.EmbedURL("https://www.youtube.com/watch?list=PL1&v=xyz&t=10s", "0:30")
	require.NoError(t, err)

	assert.Equal(t, "https://player.example.com/embed/xyz?start=30&autoplay=1", got)
}

func TestEmbedURLErrors(t *testing.T) {
	b := NewBuilder("")

	_, err := b.EmbedURL("https://youtu.be/abc123", "1:05")
	assert.ErrorIs(t, err, ErrMissingVideoID)

	_, err = b.EmbedURL("https://www.youtube.com/watch?v=abc123", "1-05")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)

	_, err = b.EmbedURL("://bad url", "1:05")
	assert.ErrorIs(t, err, ErrMissingVideoID)
}

func TestEmbedReturnsStart(t *testing.T) {
	b := NewBuilder("")

	link, start, err := b.Embed("https://www.youtube.com/watch?v=abc123", " 2 : 30 ")
	require.NoError(t, err)
	assert.Equal(t, 150, start)
	assert.Equal(t, "https://www.youtube.com/embed/abc123?start=150&autoplay=1", link)

	_, start, err = b.Embed("https://www.youtube.com/watch?v=abc123", "2:xx")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
	assert.Zero(t, start)
}
