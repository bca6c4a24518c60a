package docModel

import "fmt"

// UnsupportedFormatError - the upload's extension is not one we can extract.
// Surfaced to the uploader as-is.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format: %q", e.Extension)
}

// ExtractionError - the parser rejected the file (corrupt, encrypted, or
// mislabelled). Fatal for this document only.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %q: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// EmptyDocumentError - extraction succeeded but yielded too little text to
// be worth indexing.
type EmptyDocumentError struct {
	TextLength int
}

func (e *EmptyDocumentError) Error() string {
	return fmt.Sprintf("document contains no usable text (%d chars extracted) - upload a document with readable content", e.TextLength)
}
