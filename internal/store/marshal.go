package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// canonicalJSON marshals v to JSON TEXT for storage. Map keys sort
// alphabetically and HTML escaping is off, so equal payloads produce equal
// rows and replays can compare them byte for byte.
func canonicalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
