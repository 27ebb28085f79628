package export

import "fmt"

// CaptureError reports that one staged slide could not be rasterized. Any
// capture failure aborts the whole export; no partial artifact is offered.
type CaptureError struct {
	SlideIndex int
	SlideID    string
	Err        error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture slide %d (%s): %v", e.SlideIndex+1, e.SlideID, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// EncodeError reports that archive or PDF serialization failed after all
// slides rasterized. Same all-or-nothing abort policy as capture.
type EncodeError struct {
	Format Format
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s artifact: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
