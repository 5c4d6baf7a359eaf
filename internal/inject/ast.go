package inject

import (
	"strconv"
	"strings"
	"unicode"
)

// RefKind identifies which instance data map a field reference resolves
// against.
type RefKind string

const (
	RefContent RefKind = "content"
	RefStyles  RefKind = "styles"
	RefMedia   RefKind = "mediaUrls"
	RefActions RefKind = "customActions"
	RefTheme   RefKind = "theme"
)

// Node is one element of a compiled template. Templates are compiled once per
// variation and evaluated against each instance's resolved data.
type Node interface {
	node()
}

// LiteralNode is a verbatim run of template text.
type LiteralNode struct {
	Text string
}

// FieldRefNode is a symbolic reference such as {{content.headline}} that is
// replaced with a literal value at render time.
type FieldRefNode struct {
	Kind RefKind
	Name string
}

// ConditionalNode guards a body with a visibility key. A key present and false
// removes the body; an absent key renders the body unconditionally.
type ConditionalNode struct {
	Key  string
	Body []Node
}

func (LiteralNode) node()     {}
func (FieldRefNode) node()    {}
func (ConditionalNode) node() {}

// Template is a compiled component variation ready for repeated evaluation.
type Template struct {
	ComponentType string
	Variation     int
	ExportName    string
	Nodes         []Node
}

// ExportName derives the canonical component export identifier, for example
// ("hero", 2) becomes "HeroVariation2".
func ExportName(componentType string, variation int) string {
	name := strings.TrimSpace(componentType)
	if name == "" {
		name = "Component"
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes) + "Variation" + strconv.Itoa(variation)
}
