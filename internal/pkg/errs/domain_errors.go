package errs

// Sentinel errors shared by the usecase and infra layers
var (
	ErrBookNotFound           = New("book not found")
	ErrConcurrentModification = New("book was modified concurrently")
	ErrDuplicateBook          = New("book already exists")

	ErrInvalidCursor = New("invalid cursor")

	ErrEventEncodingFailed = New("failed to encode domain event")
)
