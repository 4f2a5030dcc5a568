package artifact

import "errors"

// Sentinel errors for store operations, checked with errors.Is().
var (
	// ErrInvalidKind is returned when the artifact kind is not one of the
	// defined constants.
	ErrInvalidKind = errors.New("invalid artifact kind")

	// ErrEmptyPayload is returned when Create is called with no payload.
	ErrEmptyPayload = errors.New("empty payload")

	// ErrPayloadTooLarge is returned when a single payload exceeds the
	// configured per-artifact limit.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrSpoolFull is returned when admitting the payload would push the
	// spool past its configured total size.
	ErrSpoolFull = errors.New("spool full")

	// ErrSpoolLocked is returned when the spool directory is already owned
	// by another process.
	ErrSpoolLocked = errors.New("spool directory locked by another process")

	// ErrClosed is returned for operations on a closed store.
	ErrClosed = errors.New("artifact store closed")
)

// validKind reports whether k is one of the defined kinds.
func validKind(k Kind) bool {
	switch k {
	case KindGeneratedImage, KindUploadedImage, KindDecodedText:
		return true
	}
	return false
}
