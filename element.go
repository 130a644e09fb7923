package vision

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalElement writes m as a YAML element tree with two-space indentation.
// Vectors are written inline as {x: .., y: ..}.
func MarshalElement(m *Model) ([]byte, error) {
	n, err := nodeFromValue(m)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("vision: marshal element: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("vision: marshal element: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalElement parses a YAML (or JSON) element tree into a Model. The
// top level must be a mapping; empty input yields an empty model.
func UnmarshalElement(data []byte) (*Model, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("vision: parse element: %w", err)
	}
	if root.Kind == 0 {
		return NewModel(), nil
	}
	return modelFromNode(&root)
}
