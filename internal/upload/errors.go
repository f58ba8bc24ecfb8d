package upload

import "errors"

// Validation failures. Each is wrapped with detail before being returned, so
// match them with errors.Is.
var (
	// ErrMissingFile is returned when the request carries no file part.
	ErrMissingFile = errors.New("no file provided")
	// ErrUnsupportedMediaType is returned when the file's MIME type is not allowed.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrPayloadTooLarge is returned when the file or the body exceeds the cap.
	ErrPayloadTooLarge = errors.New("file too large")
	// ErrUnexpectedField is returned for a file under another field name, or a second file.
	ErrUnexpectedField = errors.New("unexpected field")
)

// IsValidation reports whether err was caused by the request rather than the backend.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingFile) ||
		errors.Is(err, ErrUnsupportedMediaType) ||
		errors.Is(err, ErrPayloadTooLarge) ||
		errors.Is(err, ErrUnexpectedField)
}
