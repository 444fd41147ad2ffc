package store

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	dperrors "github.com/mrz1836/dayplan/internal/errors"
)

const fmDelimiter = "---"

// Frontmatter keys read and written on task templates.
const (
	keyRoutine          = "routine"
	keyRoutineType      = "routine_type"
	keyRoutineStart     = "routine_start"
	keyRoutineEnd       = "routine_end"
	keyWeekdays         = "weekdays"
	keyScheduledTime    = "scheduled_time"
	keyTargetDate       = "target_date"
	keyProject          = "project"
	keyCreated          = "created"
	keyRoutineRemovedOn = "routine_removed_on"
)

// document is a template file split into its frontmatter mapping and body.
// Keeping the yaml.Node tree lets rewrites preserve unknown keys, key order
// and comments.
type document struct {
	meta *yaml.Node
	body []byte
}

// parseDocument splits content into frontmatter and body. A file without a
// frontmatter block yields an empty mapping and the whole content as body.
func parseDocument(content []byte) (*document, error) {
	doc := &document{meta: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}

	rest, ok := cutDelimiterLine(content)
	if !ok {
		doc.body = content
		return doc, nil
	}

	end := -1
	offset := 0
	for _, line := range bytes.SplitAfter(rest, []byte("\n")) {
		if strings.TrimSpace(string(line)) == fmDelimiter {
			end = offset
			doc.body = rest[offset+len(line):]
			break
		}
		offset += len(line)
	}
	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated frontmatter", dperrors.ErrTemplateParse)
	}

	raw := rest[:end]
	if len(bytes.TrimSpace(raw)) == 0 {
		return doc, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", dperrors.ErrTemplateParse, err)
	}
	if len(root.Content) == 0 {
		return doc, nil
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: frontmatter is not a mapping", dperrors.ErrTemplateParse)
	}
	doc.meta = root.Content[0]
	return doc, nil
}

// cutDelimiterLine reports whether content starts with a "---" line and
// returns what follows it.
func cutDelimiterLine(content []byte) ([]byte, bool) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	first, rest, found := bytes.Cut(content, []byte("\n"))
	if !found || strings.TrimSpace(string(first)) != fmDelimiter {
		return nil, false
	}
	return rest, true
}

// get returns the node stored under key.
func (d *document) get(key string) *yaml.Node {
	for i := 0; i+1 < len(d.meta.Content); i += 2 {
		if d.meta.Content[i].Value == key {
			return d.meta.Content[i+1]
		}
	}
	return nil
}

// str returns the scalar value under key, or "".
func (d *document) str(key string) string {
	n := d.get(key)
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return strings.TrimSpace(n.Value)
}

// list returns the scalar items of a sequence, or a single scalar as a
// one-element list.
func (d *document) list(key string) []string {
	n := d.get(key)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind == yaml.ScalarNode {
				out = append(out, strings.TrimSpace(item.Value))
			}
		}
		return out
	case yaml.ScalarNode:
		if v := strings.TrimSpace(n.Value); v != "" && n.Tag != "!!null" {
			return strings.Split(v, ",")
		}
	}
	return nil
}

// set stores value under key, replacing an existing entry in place.
func (d *document) set(key string, value *yaml.Node) {
	for i := 0; i+1 < len(d.meta.Content); i += 2 {
		if d.meta.Content[i].Value == key {
			d.meta.Content[i+1] = value
			return
		}
	}
	d.meta.Content = append(d.meta.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// setString stores a string scalar, or removes the key when value is empty.
func (d *document) setString(key, value string) {
	if value == "" {
		d.remove(key)
		return
	}
	d.set(key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value})
}

// setBool stores a boolean scalar.
func (d *document) setBool(key string, value bool) {
	v := "false"
	if value {
		v = "true"
	}
	d.set(key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v})
}

// setInts stores a flow-style integer sequence, or removes the key when empty.
func (d *document) setInts(key string, values []int) {
	if len(values) == 0 {
		d.remove(key)
		return
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, v := range values {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(v)})
	}
	d.set(key, seq)
}

// remove deletes key from the mapping.
func (d *document) remove(key string) {
	for i := 0; i+1 < len(d.meta.Content); i += 2 {
		if d.meta.Content[i].Value == key {
			d.meta.Content = append(d.meta.Content[:i], d.meta.Content[i+2:]...)
			return
		}
	}
}

// encode renders the document back into file content.
func (d *document) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fmDelimiter + "\n")
	if len(d.meta.Content) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d.meta); err != nil {
			return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
		}
	}
	buf.WriteString(fmDelimiter + "\n")
	buf.Write(d.body)
	return buf.Bytes(), nil
}
