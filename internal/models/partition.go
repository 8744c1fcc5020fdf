package models

import "fmt"

// PageRange is a half-open, 0-based page interval [Start, End).
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r PageRange) Len() int {
	return r.End - r.Start
}

func (r PageRange) Empty() bool {
	return r.End <= r.Start
}

// Selection renders the range in 1-based inclusive "first-last" form.
func (r PageRange) Selection() string {
	return fmt.Sprintf("%d-%d", r.Start+1, r.End)
}

// Partition is one page-range slice of the source document materialized
// as a standalone artifact in the cache directory. Path is empty when the
// range holds no pages.
type Partition struct {
	Index    int       `json:"index"`
	Label    string    `json:"label"`
	Range    PageRange `json:"range"`
	Path     string    `json:"path"`
	MimeType string    `json:"mime_type"`
}
