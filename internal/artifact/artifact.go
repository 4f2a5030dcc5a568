package artifact

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies an artifact by how it entered the store.
type Kind string

const (
	// KindGeneratedImage is a QR image produced by the encode pipeline.
	KindGeneratedImage Kind = "generated_image"

	// KindUploadedImage is a user upload held for the duration of a decode
	// attempt.
	KindUploadedImage Kind = "uploaded_image"

	// KindDecodedText is an overflow text blob delivered as a document.
	KindDecodedText Kind = "decoded_text"
)

// filePrefix returns the spool filename prefix for the kind.
func (k Kind) filePrefix() string {
	switch k {
	case KindGeneratedImage:
		return "qr"
	case KindUploadedImage:
		return "upload"
	case KindDecodedText:
		return "text"
	default:
		return ""
	}
}

// Info describes a live artifact.
//
// The store owns artifacts exclusively; callers hold the ID as a transient
// handle for the duration of one request and must not retain it past the
// matching Delete.
type Info struct {
	ID        uuid.UUID
	Kind      Kind
	Size      int64
	CreatedAt time.Time
	ExpiresAt time.Time
}
