package transcribe

import "errors"

// Failure classes surfaced by this package. Wrapped errors carry the detail;
// errors.Is against one of these tells the caller which class it hit.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidPath          = errors.New("invalid file path")
	ErrUnsupportedFormat    = errors.New("unsupported audio format")
	ErrModelInitialization  = errors.New("model initialization failed")
	ErrTranscription        = errors.New("transcription failed")
)
