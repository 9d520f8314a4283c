package compose

import "errors"

// MaxAttachmentSize is the fixed ceiling for a selected attachment.
const MaxAttachmentSize = 10 << 20 // 10 MiB

// Guidance errors surfaced when a selected file is rejected. The pending
// selection is cleared in both cases.
var (
	ErrAttachmentTooLarge = errors.New("attachment must be smaller than 10 MiB")
	ErrAttachmentType     = errors.New("attachment type is not an accepted document type")
)

// acceptedAttachmentTypes lists the declared content types an attachment may
// carry. Documents and common image formats only; executables and archives
// never make it to the ingest service.
var acceptedAttachmentTypes = map[string]struct{}{
	"text/plain":         {},
	"text/csv":           {},
	"application/csv":    {},
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"image/png":  {},
	"image/jpeg": {},
}

// Attachment is one selected binary file, held until submission.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// validateAttachment applies the selection-time rules: accepted declared
// type and size ceiling.
func validateAttachment(contentType string, size int) error {
	if _, ok := acceptedAttachmentTypes[contentType]; !ok {
		return ErrAttachmentType
	}
	if size > MaxAttachmentSize {
		return ErrAttachmentTooLarge
	}
	return nil
}
