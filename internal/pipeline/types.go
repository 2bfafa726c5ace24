// Package pipeline turns open documents into JPEG files: it normalizes a
// working duplicate, resizes it to the size cap, encodes it and decides the
// status of the whole batch.
package pipeline

import (
	"errors"

	"jpegbatch/internal/host"
)

// Status is the outcome of a batch.
type Status int

const (
	// StatusOK means every document in the snapshot was exported.
	StatusOK Status = iota
	// StatusRetry means the batch stopped on a condition the operator can
	// fix by changing settings, such as a destination equal to the source.
	StatusRetry
	// StatusFailed means a document could not be processed and the batch
	// was aborted.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusRetry:
		return "RETRY"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

var (
	ErrSameFile          = errors.New("destination is the source file")
	ErrOverwriteDeclined = errors.New("overwrite declined")
	ErrPanic             = errors.New("export panicked")
)

// Host is the part of the document host the exporter drives.
type Host interface {
	Documents() []*host.Document
	Active() *host.Document
	Activate(doc *host.Document) error
	Duplicate(doc *host.Document, name string) (*host.Document, error)
	Close(doc *host.Document, mode host.SaveMode) error
	Environment() *host.Environment
}

// Result summarises a batch run.
type Result struct {
	Status Status
	// Err is the error that decided a non-OK status.
	Err error
	// Total is the size of the document snapshot.
	Total int
	// Attempted counts documents that reached the processing stage.
	Attempted int
	// Written lists the files produced, in snapshot order.
	Written []string
}

type EventKind int

const (
	EventStarted EventKind = iota
	EventExported
	EventSkipped
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventExported:
		return "exported"
	case EventSkipped:
		return "skipped"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event reports progress on one document.
type Event struct {
	Kind   EventKind
	Index  int
	Total  int
	Name   string
	Path   string
	Width  int
	Height int
	Err    error
}
