package vision

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"

	"gopkg.in/yaml.v3"
)

// errMissing is wrapped by Model getters for absent attributes.
var errMissing = errors.New("missing")

// Model is an ordered set of named attributes, the serialization boundary
// for sprites, tiles and tile maps. Values are string, int, float64, bool,
// Vec2, *Model, []any or nil.
type Model struct {
	names  []string
	values map[string]any
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{values: make(map[string]any)}
}

// Set assigns an attribute, appending the name if it is new. It returns m so
// calls can be chained.
func (m *Model) Set(name string, v any) *Model {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = v
	return m
}

// Get returns an attribute value.
func (m *Model) Get(name string) (any, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Has reports whether the attribute exists.
func (m *Model) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Names returns attribute names in insertion order.
func (m *Model) Names() []string { return slices.Clone(m.names) }

// Len returns the number of attributes.
func (m *Model) Len() int { return len(m.names) }

func (m *Model) lookup(name string) (any, error) {
	v, ok := m.values[name]
	if !ok {
		return nil, fmt.Errorf("vision: attribute %q: %w", name, errMissing)
	}
	return v, nil
}

func typeError(name string, v any, want string) error {
	return fmt.Errorf("vision: attribute %q is %T, want %s", name, v, want)
}

// String returns a string attribute.
func (m *Model) String(name string) (string, error) {
	v, err := m.lookup(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(name, v, "string")
	}
	return s, nil
}

// Float returns a numeric attribute.
func (m *Model) Float(name string) (float64, error) {
	v, err := m.lookup(name)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, typeError(name, v, "number")
	}
	return f, nil
}

// Int returns an integral numeric attribute.
func (m *Model) Int(name string) (int, error) {
	f, err := m.Float(name)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("vision: attribute %q is %v, want integer", name, f)
	}
	return int(f), nil
}

// Bool returns a boolean attribute.
func (m *Model) Bool(name string) (bool, error) {
	v, err := m.lookup(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeError(name, v, "bool")
	}
	return b, nil
}

// Vec2 returns a vector attribute. Besides Vec2 values it accepts a nested
// model with numeric x and y attributes and a two-element numeric list.
func (m *Model) Vec2(name string) (Vec2, error) {
	v, err := m.lookup(name)
	if err != nil {
		return Vec2{}, err
	}
	if vec, ok := toVec2(v); ok {
		return vec, nil
	}
	return Vec2{}, typeError(name, v, "vector")
}

// Model returns a nested model attribute.
func (m *Model) Model(name string) (*Model, error) {
	v, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	sub, ok := v.(*Model)
	if !ok {
		return nil, typeError(name, v, "model")
	}
	return sub, nil
}

// List returns a list attribute.
func (m *Model) List(name string) ([]any, error) {
	v, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	l, ok := v.([]any)
	if !ok {
		return nil, typeError(name, v, "list")
	}
	return l, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func toVec2(v any) (Vec2, bool) {
	switch t := v.(type) {
	case Vec2:
		return t, true
	case *Model:
		x, errX := t.Float("x")
		y, errY := t.Float("y")
		if errX != nil || errY != nil {
			return Vec2{}, false
		}
		return Vec2{x, y}, true
	case []any:
		if len(t) != 2 {
			return Vec2{}, false
		}
		x, okX := toFloat(t[0])
		y, okY := toFloat(t[1])
		return Vec2{x, y}, okX && okY
	}
	return Vec2{}, false
}

// --- JSON ---

// MarshalJSON writes the attributes as a JSON object in insertion order.
// Vectors become {"x":..,"y":..} objects.
func (m *Model) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case *Model:
		buf.WriteByte('{')
		for i, name := range t.names {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(name)
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, t.values[name]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case Vec2:
		return writeJSON(buf, NewModel().Set("x", t.X).Set("y", t.Y))
	case []any:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("vision: marshal model: %w", err)
		}
		buf.Write(b)
	}
	return nil
}

// UnmarshalJSON replaces m with the decoded object. Attribute order follows
// the input. JSON is decoded as YAML, so YAML input is accepted too.
func (m *Model) UnmarshalJSON(data []byte) error {
	decoded, err := UnmarshalElement(data)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}

// --- yaml.Node conversion ---

func modelFromNode(n *yaml.Node) (*Model, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return NewModel(), nil
		}
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("vision: line %d: expected a mapping", n.Line)
	}
	m := NewModel()
	for i := 0; i+1 < len(n.Content); i += 2 {
		v, err := valueFromNode(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		m.Set(n.Content[i].Value, v)
	}
	return m, nil
}

func valueFromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		return modelFromNode(n)
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := valueFromNode(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.AliasNode:
		return valueFromNode(n.Alias)
	case yaml.ScalarNode:
		return scalarFromNode(n)
	}
	return nil, fmt.Errorf("vision: line %d: unsupported node", n.Line)
}

func scalarFromNode(n *yaml.Node) (any, error) {
	var err error
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		err = n.Decode(&b)
		return b, err
	case "!!int":
		var i int
		err = n.Decode(&i)
		return i, err
	case "!!float":
		var f float64
		err = n.Decode(&f)
		return f, err
	}
	return n.Value, nil
}

func nodeFromValue(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Model:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range t.names {
			vn, err := nodeFromValue(t.values[name])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: name}, vn)
		}
		return n, nil
	case Vec2:
		n, err := nodeFromValue(NewModel().Set("x", t.X).Set("y", t.Y))
		if err != nil {
			return nil, err
		}
		n.Style = yaml.FlowStyle
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range t {
			en, err := nodeFromValue(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, en)
		}
		return n, nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, fmt.Errorf("vision: encode attribute: %w", err)
	}
	return n, nil
}
