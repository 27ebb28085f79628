package compose

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON dumps composed trees as indented JSON for inspection or
// visualization tooling.
func WriteDebugJSON(slides []*RenderedSlide, path string) error {
	data, err := json.MarshalIndent(slides, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
