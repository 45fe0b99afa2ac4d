package sync

import (
	"context"
	"time"

	"github.com/mattsolo1/grove-guru/pkg/state"
)

// Uploader defines the interface for a remote that accepts collection archives (e.g., Guru).
type Uploader interface {
	// Name returns the uploader's name (e.g., "guru").
	Name() string
	// UploadCollection pushes a zipped collection to the remote.
	UploadCollection(ctx context.Context, collectionID string, archive []byte) (*UploadResult, error)
}

// UploadResult is what the remote reported for an accepted upload.
type UploadResult struct {
	StatusCode int
	JobID      string
}

// StateStore remembers what was last uploaded for each collection.
type StateStore interface {
	LastUpload(collectionID string) (*state.Upload, error)
	RecordUpload(u *state.Upload) error
}

// Options control a single sync run.
type Options struct {
	// DryRun builds the archive but does not upload it.
	DryRun bool
	// Force uploads even if the archive is unchanged since the last upload.
	Force bool
	// ArchivePath, if set, is where a copy of the archive is written.
	ArchivePath string
}

// Report summarizes the results of a sync operation.
type Report struct {
	Uploader    string
	Cards       int
	Boards      int
	BoardGroups int
	Resources   int
	Digest      string
	Size        int
	Uploaded    bool
	Unchanged   bool
	JobID       string
	Duration    time.Duration
}
