package models

// Video represents a catalog entry with its labeled timestamps
type Video struct {
	ID         string      `json:"id"`
	URL        string      `json:"url"`
	Title      string      `json:"title"`
	Timestamps []Timestamp `json:"timestamps"`
}

// Timestamp is a named point within a video, stored as "MM:SS" text
type Timestamp struct {
	Label     string `json:"label"`
	Timestamp string `json:"timestamp"`
}

// FindTimestamp returns the first timestamp entry whose text matches ts
func (v Video) FindTimestamp(ts string) (Timestamp, bool) {
	for _, t := range v.Timestamps {
		if t.Timestamp == ts {
			return t, true
		}
	}
	return Timestamp{}, false
}

// Clone returns a copy of the video that shares no slices with v
func (v Video) Clone() Video {
	out := v
	if v.Timestamps != nil {
		out.Timestamps = make([]Timestamp, len(v.Timestamps))
		copy(out.Timestamps, v.Timestamps)
	}
	return out
}

// SourceFormat constants
const (
	SourceFormatAuto = "auto"
	SourceFormatJSON = "json"
	SourceFormatCSV  = "csv"
)
