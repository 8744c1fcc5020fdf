package models

// Status tags the outcome of querying one partition.
type Status int

const (
	StatusSuccess Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Answer is one element of a query stream. For StatusFailed, Text holds the
// message shown to the caller and Err the underlying cause, if any.
type Answer struct {
	Index  int
	Label  string
	Text   string
	Status Status
	Cached bool
	Err    error
}
