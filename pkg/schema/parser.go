// Package schema renders a JSON Schema document as an indented plain-text reference.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Renderer walks a decoded schema document.
type Renderer struct {
	doc map[string]any
}

// Parse decodes a JSON Schema document.
func Parse(data []byte) (*Renderer, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}
	return &Renderer{doc: doc}, nil
}

// RenderAsText lists every property with its type, whether it is required,
// and its description. Array items and oneOf alternatives are nested.
func (r *Renderer) RenderAsText() string {
	var b strings.Builder

	if title, ok := r.doc["title"].(string); ok {
		fmt.Fprintf(&b, "Schema: %s\n", title)
	}
	if description, ok := r.doc["description"].(string); ok {
		fmt.Fprintf(&b, "%s\n", description)
	}
	b.WriteString("\n")
	r.renderObject(&b, r.doc, 0)
	return b.String()
}

func (r *Renderer) renderObject(b *strings.Builder, obj map[string]any, level int) {
	properties, ok := obj["properties"].(map[string]any)
	if !ok {
		return
	}
	required := map[string]bool{}
	if list, ok := obj["required"].([]any); ok {
		for _, name := range list {
			if s, ok := name.(string); ok {
				required[s] = true
			}
		}
	}

	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		prop, ok := properties[key].(map[string]any)
		if !ok {
			continue
		}
		label := fmt.Sprintf("`%s`", key)
		if required[key] {
			label += " (required)"
		}
		r.renderNode(b, label, prop, level)
	}
}

func (r *Renderer) renderNode(b *strings.Builder, label string, node map[string]any, level int) {
	if ref, ok := node["$ref"].(string); ok {
		if node = r.resolveRef(ref); node == nil {
			return
		}
	}
	indent := strings.Repeat("  ", level)
	nodeType, _ := node["type"].(string)
	if nodeType == "" {
		if _, ok := node["oneOf"]; ok {
			nodeType = "one of"
		}
	}

	fmt.Fprintf(b, "%s- %s: %s\n", indent, label, nodeType)
	if description, ok := node["description"].(string); ok && description != "" {
		fmt.Fprintf(b, "%s  %s\n", indent, description)
	}
	if def, ok := node["default"]; ok {
		fmt.Fprintf(b, "%s  Default: %v\n", indent, def)
	}

	if alternatives, ok := node["oneOf"].([]any); ok {
		for i, alt := range alternatives {
			if m, ok := alt.(map[string]any); ok {
				r.renderNode(b, fmt.Sprintf("option %d", i+1), m, level+1)
			}
		}
	}
	switch nodeType {
	case "object":
		r.renderObject(b, node, level+1)
		if values, ok := node["additionalProperties"].(map[string]any); ok {
			r.renderNode(b, "values", values, level+1)
		}
	case "array":
		if items, ok := node["items"].(map[string]any); ok {
			r.renderNode(b, "items", items, level+1)
		}
	}
}

// resolveRef follows a local "#/..." reference.
func (r *Renderer) resolveRef(ref string) map[string]any {
	parts := strings.Split(ref, "/")
	if len(parts) < 2 || parts[0] != "#" {
		return nil
	}

	var current any = r.doc
	for _, part := range parts[1:] {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		if current, ok = m[part]; !ok {
			return nil
		}
	}
	resolved, _ := current.(map[string]any)
	return resolved
}
