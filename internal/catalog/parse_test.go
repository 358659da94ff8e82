package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therealutkarshpriyadarshi/vidmarks/pkg/models"
)

func TestParseCSVGroupsRowsByID(t *testing.T) {
	data := []byte("id,url,title,timestamp,label\n" +
		"1,https://www.youtube.com/watch?v=abc123,Intro,0:00,Start\n" +
		"1,https://www.youtube.com/watch?v=abc123,Intro,2:30,Middle\n")

	videos, err := Parse(models.SourceFormatCSV, data)
	require.NoError(t, err)

	require.Len(t, videos, 1)
	assert.Equal(t, "1", videos[0].ID)
	assert.Equal(t, "Intro", videos[0].Title)
	assert.Equal(t, []models.Timestamp{
		{Label: "Start", Timestamp: "0:00"},
		{Label: "Middle", Timestamp: "2:30"},
	}, videos[0].Timestamps)
}

func TestParseCSVKeepsFirstSeenOrder(t *testing.T) {
	data := []byte("id,url,title,timestamp,label\n" +
		"b,https://www.youtube.com/watch?v=bbb,Second,0:10,B1\n" +
		"a,https://www.youtube.com/watch?v=aaa,First,0:20,A1\n" +
		"b,https://www.youtube.com/watch?v=other,Renamed,0:05,B2\n")

	videos, err := Parse(models.SourceFormatCSV, data)
	require.NoError(t, err)

	require.Len(t, videos, 2)
	assert.Equal(t, "b", videos[0].ID)
	assert.Equal(t, "a", videos[1].ID)

	// The first row for an id supplies the metadata
	assert.Equal(t, "Second", videos[0].Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=bbb", videos[0].URL)
	require.Len(t, videos[0].Timestamps, 2)
	assert.Equal(t, "B1", videos[0].Timestamps[0].Label)
	assert.Equal(t, "B2", videos[0].Timestamps[1].Label)
}

func TestParseCSVHeaderByName(t *testing.T) {
	data := []byte("\xEF\xBB\xBF Label , Timestamp,ID,Title,URL\n" +
		"\"Start, again\",1:05,7,\"Quoted \"\"title\"\"\",https://www.youtube.com/watch?v=q\n")

	videos, err := Parse(models.SourceFormatCSV, data)
	require.NoError(t, err)

	require.Len(t, videos, 1)
	assert.Equal(t, "7", videos[0].ID)
	assert.Equal(t, `Quoted "title"`, videos[0].Title)
	assert.Equal(t, models.Timestamp{Label: "Start, again", Timestamp: "1:05"}, videos[0].Timestamps[0])
}

func TestParseCSVShortRowsGetEmptyFields(t *testing.T) {
	data := []byte("id,url,title,timestamp,label\n" +
		"1,https://www.youtube.com/watch?v=abc123\n")

	videos, err := Parse(models.SourceFormatCSV, data)
	require.NoError(t, err)

	require.Len(t, videos, 1)
	assert.Equal(t, "", videos[0].Title)
	assert.Equal(t, []models.Timestamp{{}}, videos[0].Timestamps)
}

func TestParseCSVErrors(t *testing.T) {
	_, err := Parse(models.SourceFormatCSV, []byte(""))
	assert.ErrorIs(t, err, ErrMissingHeader)

	_, err = Parse(models.SourceFormatCSV, []byte("<html><body>quota exceeded</body></html>\n"))
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestParseCSVHeaderOnly(t *testing.T) {
	videos, err := Parse(models.SourceFormatCSV, []byte("id,url,title,timestamp,label\n"))
	require.NoError(t, err)
	assert.NotNil(t, videos)
	assert.Empty(t, videos)
}

func TestParseJSON(t *testing.T) {
	data := []byte(`[
		{"id": 1, "url": "https://www.youtube.com/watch?v=abc123", "title": "Intro",
		 "timestamps": [{"label": "Start", "timestamp": "0:00"}, {"label": "Middle", "timestamp": "2:30"}]},
		{"id": "two", "url": "https://www.youtube.com/watch?v=def", "title": "No stamps"}
	]`)

	videos, err := Parse(models.SourceFormatJSON, data)
	require.NoError(t, err)

	require.Len(t, videos, 2)
	assert.Equal(t, "1", videos[0].ID)
	assert.Equal(t, "Middle", videos[0].Timestamps[1].Label)
	assert.Equal(t, "two", videos[1].ID)
	assert.NotNil(t, videos[1].Timestamps)
	assert.Empty(t, videos[1].Timestamps)
}

func TestParseJSONErrors(t *testing.T) {
	tests := map[string]string{
		"not json":   `nope`,
		"object":     `{"videos": []}`,
		"bool id":    `[{"id": true}]`,
		"truncated":  `[{"id": "1"`,
		"bad stamps": `[{"id": "1", "timestamps": "0:00"}]`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(models.SourceFormatJSON, []byte(input))
			assert.Error(t, err)
		})
	}
}

func TestParseAutoDetects(t *testing.T) {
	videos, err := Parse(models.SourceFormatAuto, []byte("  \n[{\"id\":\"1\"}]"))
	require.NoError(t, err)
	require.Len(t, videos, 1)

	videos, err = Parse("", []byte("id,timestamp,label\n1,0:00,Start\n"))
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Start", videos[0].Timestamps[0].Label)
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse("xml", []byte("<videos/>"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, models.SourceFormatJSON, DetectFormat([]byte("\xEF\xBB\xBF[]")))
	assert.Equal(t, models.SourceFormatJSON, DetectFormat([]byte("\t{}")))
	assert.Equal(t, models.SourceFormatCSV, DetectFormat([]byte("id,url")))
	assert.Equal(t, models.SourceFormatCSV, DetectFormat(nil))
}

func TestBundledCatalogParses(t *testing.T) {
	videos, err := Parse(models.SourceFormatAuto, bundledCatalog)
	require.NoError(t, err)
	require.NotEmpty(t, videos)

	for _, v := range videos {
		assert.NotEmpty(t, v.ID)
		assert.NotEmpty(t, v.Timestamps)
	}
}
