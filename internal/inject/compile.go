package inject

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fieldRefPattern    = regexp.MustCompile(`\{\{\s*(content|styles|mediaUrls|customActions|theme)\.([A-Za-z0-9_]+)\s*\}\}`)
	visibilityOpenTag  = regexp.MustCompile(`\{\{#visibility\.([A-Za-z0-9_]+)\}\}`)
	visibilityCloseTag = regexp.MustCompile(`\{\{/visibility\}\}`)

	editorBlockPattern = regexp.MustCompile(`(?s)<!--\s*editor:only\s*-->.*?<!--\s*/editor:only\s*-->`)
	editorAttrPattern  = regexp.MustCompile(`\s+data-editor-[a-z-]+(?:="[^"]*")?`)
	debugTagPattern    = regexp.MustCompile(`\{\{debug[^}]*\}\}`)
)

// Compile parses a variation template into its node tree. Editor-only
// constructs are stripped first so the compiled form only ever describes
// production output; compiling already-compiled output therefore yields the
// same tree.
func Compile(componentType string, variation int, source string) (*Template, error) {
	cleaned := stripEditorMarkers(source)

	nodes, rest, err := parseNodes(cleaned, 0)
	if err != nil {
		return nil, err
	}
	if rest != len(cleaned) {
		return nil, fmt.Errorf("compile %s/%d: unexpected closing tag at offset %d", componentType, variation, rest)
	}

	return &Template{
		ComponentType: componentType,
		Variation:     variation,
		ExportName:    ExportName(componentType, variation),
		Nodes:         nodes,
	}, nil
}

// stripEditorMarkers removes selection wrappers, editor attributes, and debug
// tags. These exist only to support in-place editing and never reach
// production output.
func stripEditorMarkers(source string) string {
	out := editorBlockPattern.ReplaceAllString(source, "")
	out = editorAttrPattern.ReplaceAllString(out, "")
	out = debugTagPattern.ReplaceAllString(out, "")
	return out
}

// parseNodes scans from offset until the source ends or a closing visibility
// tag is found, returning the parsed nodes and the offset where scanning
// stopped. Conditional blocks recurse, so nesting is handled naturally.
func parseNodes(source string, offset int) ([]Node, int, error) {
	var nodes []Node

	for offset < len(source) {
		remainder := source[offset:]

		openLoc := visibilityOpenTag.FindStringIndex(remainder)
		closeLoc := visibilityCloseTag.FindStringIndex(remainder)

		// A close tag before any open tag ends this nesting level.
		if closeLoc != nil && (openLoc == nil || closeLoc[0] < openLoc[0]) {
			nodes = append(nodes, literalNodes(remainder[:closeLoc[0]])...)
			return nodes, offset + closeLoc[0], nil
		}

		if openLoc == nil {
			nodes = append(nodes, literalNodes(remainder)...)
			return nodes, len(source), nil
		}

		nodes = append(nodes, literalNodes(remainder[:openLoc[0]])...)

		match := visibilityOpenTag.FindStringSubmatch(remainder[openLoc[0]:])
		key := match[1]

		body, stopped, err := parseNodes(source, offset+openLoc[1])
		if err != nil {
			return nil, 0, err
		}

		closeMatch := visibilityCloseTag.FindStringIndex(source[stopped:])
		if closeMatch == nil || closeMatch[0] != 0 {
			return nil, 0, fmt.Errorf("unclosed visibility block %q", key)
		}

		nodes = append(nodes, ConditionalNode{Key: key, Body: body})
		offset = stopped + closeMatch[1]
	}

	return nodes, offset, nil
}

// literalNodes splits a run of text into literal and field-reference nodes.
func literalNodes(text string) []Node {
	if text == "" {
		return nil
	}

	var nodes []Node
	last := 0
	for _, loc := range fieldRefPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			nodes = append(nodes, LiteralNode{Text: text[last:loc[0]]})
		}
		nodes = append(nodes, FieldRefNode{
			Kind: RefKind(text[loc[2]:loc[3]]),
			Name: text[loc[4]:loc[5]],
		})
		last = loc[1]
	}
	if last < len(text) {
		nodes = append(nodes, LiteralNode{Text: text[last:]})
	}
	return nodes
}

// hooks returns the distinct content field names the template references,
// used to check a variation's required fields against the template body.
func (t *Template) hooks() map[string]struct{} {
	found := make(map[string]struct{})
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, node := range nodes {
			switch n := node.(type) {
			case FieldRefNode:
				if n.Kind == RefContent {
					found[n.Name] = struct{}{}
				}
			case ConditionalNode:
				walk(n.Body)
			}
		}
	}
	walk(t.Nodes)
	return found
}

// MissingHooks reports required fields that have no substitution hook in the
// template. A non-empty result means the variation cannot faithfully render
// its instances.
func (t *Template) MissingHooks(requiredFields []string) []string {
	present := t.hooks()
	var missing []string
	for _, field := range requiredFields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if _, ok := present[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}
