package docmeta

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteFile marshals v with two-space indentation and writes it to path.
func WriteFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("docmeta: marshal: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("docmeta: write %s: %w", path, err)
	}
	return nil
}
