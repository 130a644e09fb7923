package vision

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// SpriteSource resolves sprites by bank and name.
type SpriteSource interface {
	Sprite(bank, name string) (*Sprite, error)
}

// SpriteBank is a named set of sprites.
type SpriteBank struct {
	name    string
	sprites map[string]*Sprite
	order   []string
}

// NewSpriteBank returns an empty bank.
func NewSpriteBank(name string) *SpriteBank {
	return &SpriteBank{name: name, sprites: make(map[string]*Sprite)}
}

// Name returns the bank's name.
func (b *SpriteBank) Name() string { return b.name }

// Register adds or replaces a sprite.
func (b *SpriteBank) Register(name string, s *Sprite) {
	if _, ok := b.sprites[name]; !ok {
		b.order = append(b.order, name)
	}
	b.sprites[name] = s
}

// Sprite returns the named sprite or a *LookupError.
func (b *SpriteBank) Sprite(name string) (*Sprite, error) {
	s, ok := b.sprites[name]
	if !ok {
		debugLogMiss(b.name, name)
		return nil, &LookupError{Bank: b.name, Name: name}
	}
	return s, nil
}

// Names returns sprite names in registration order.
func (b *SpriteBank) Names() []string { return slices.Clone(b.order) }

// Len returns the number of sprites.
func (b *SpriteBank) Len() int { return len(b.order) }

// Banks is a registry of sprite banks. It is an explicit object passed to
// whatever needs sprites; there is no global registry.
type Banks struct {
	banks map[string]*SpriteBank
}

// NewBanks returns an empty registry.
func NewBanks() *Banks {
	return &Banks{banks: make(map[string]*SpriteBank)}
}

// AddBank adds b under its name, replacing any bank of the same name.
func (r *Banks) AddBank(b *SpriteBank) {
	r.banks[b.name] = b
}

// Bank returns the named bank.
func (r *Banks) Bank(name string) (*SpriteBank, bool) {
	b, ok := r.banks[name]
	return b, ok
}

// Register adds a sprite to a bank, creating the bank if needed.
func (r *Banks) Register(bank, name string, s *Sprite) {
	b, ok := r.banks[bank]
	if !ok {
		b = NewSpriteBank(bank)
		r.banks[bank] = b
	}
	b.Register(name, s)
}

// Sprite implements SpriteSource.
func (r *Banks) Sprite(bank, name string) (*Sprite, error) {
	b, ok := r.banks[bank]
	if !ok {
		debugLogMiss(bank, name)
		return nil, &LookupError{Bank: bank}
	}
	return b.Sprite(name)
}

// Names returns the bank names, sorted.
func (r *Banks) Names() []string {
	names := make([]string, 0, len(r.banks))
	for name := range r.banks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ReloadBank parses a manifest and swaps it in as bank name. The previous
// bank stays registered if parsing or loading fails.
func (r *Banks) ReloadBank(name string, data []byte, dir string) error {
	b, err := LoadBankManifest(name, data, dir)
	if err != nil {
		return err
	}
	r.AddBank(b)
	return nil
}

// LoadBankFile loads the manifest at path as a bank named after the file
// (without extension), resolving sprite files against the manifest's
// directory.
func (r *Banks) LoadBankFile(path string) (*SpriteBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ResourceLoadError{Path: path, Err: err}
	}
	b, err := LoadBankManifest(BankNameFromPath(path), data, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	r.AddBank(b)
	return b, nil
}

// BankNameFromPath returns the bank name LoadBankFile uses for path.
func BankNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadBankManifest parses a YAML or JSON manifest of the form
//
//	sprites:
//	  walk: {file: walk.png, length: 8, animationSpeed: 12}
//	  idle: {file: idle.png}
//
// and loads every sprite it lists, resolving files against dir.
func LoadBankManifest(name string, data []byte, dir string) (*SpriteBank, error) {
	m, err := UnmarshalElement(data)
	if err != nil {
		return nil, fmt.Errorf("vision: bank %q: %w", name, err)
	}
	sprites, err := m.Model("sprites")
	if err != nil {
		return nil, &ParseError{Kind: "bank manifest", Fields: []string{"sprites"}, Err: err}
	}

	b := NewSpriteBank(name)
	for _, spriteName := range sprites.names {
		rec, err := sprites.Model(spriteName)
		if err != nil {
			return nil, &ParseError{Kind: "bank manifest", Fields: []string{"sprites." + spriteName}, Err: err}
		}
		s, err := SpriteFromModel(rec, dir)
		if err != nil {
			return nil, fmt.Errorf("vision: bank %q sprite %q: %w", name, spriteName, err)
		}
		b.Register(spriteName, s)
	}
	return b, nil
}
