package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoJSONKeys(t *testing.T) {
	raw := []byte(`{"id":"1","url":"https://www.youtube.com/watch?v=abc123","title":"Intro",
		"timestamps":[{"label":"Start","timestamp":"0:00"},{"label":"Middle","timestamp":"2:30"}]}`)

	var v Video
	require.NoError(t, json.Unmarshal(raw, &v))

	assert.Equal(t, "1", v.ID)
	assert.Equal(t, "Intro", v.Title)
	require.Len(t, v.Timestamps, 2)
	assert.Equal(t, "Middle", v.Timestamps[1].Label)
	assert.Equal(t, "2:30", v.Timestamps[1].Timestamp)
}

func TestFindTimestamp(t *testing.T) {
	v := Video{
		ID: "1",
		Timestamps: []Timestamp{
			{Label: "Start", Timestamp: "0:00"},
			{Label: "Again", Timestamp: "2:30"},
			{Label: "Duplicate", Timestamp: "2:30"},
		},
	}

	ts, ok := v.FindTimestamp("2:30")
	assert.True(t, ok)
	assert.Equal(t, "Again", ts.Label)

	_, ok = v.FindTimestamp("9:99")
	assert.False(t, ok)
}

func TestCloneDoesNotShareTimestamps(t *testing.T) {
	v := Video{ID: "1", Timestamps: []Timestamp{{Label: "Start", Timestamp: "0:00"}}}

	c := v.Clone()
	c.Timestamps[0].Label = "Changed"

	assert.Equal(t, "Start", v.Timestamps[0].Label)
}

func TestSourceFormatConstants(t *testing.T) {
	formats := []string{
		SourceFormatAuto,
		SourceFormatJSON,
		SourceFormatCSV,
	}

	for _, format := range formats {
		if format == "" {
			t.Error("Source format constant is empty")
		}
	}
}
