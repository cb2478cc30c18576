// Package hierarchy reads and writes type-hierarchy tables: nested lists of
// [ "Name", "link.html", children|null ] entries, optionally assigned to a
// JavaScript variable the way documentation generators emit them.
package hierarchy

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

var ErrMalformed = errors.Base("malformed hierarchy")

type Node struct {
	Name string
	Link string
	// Children is nil for a null entry and empty for [].
	Children []*Node
}

// Parse reads a hierarchy table. A leading "var name =" and a trailing ";"
// are accepted and ignored.
func Parse(data []byte) ([]*Node, error) {
	body := strings.TrimSpace(string(data))
	if strings.HasPrefix(body, "var ") {
		eq := strings.IndexByte(body, '=')
		if eq < 0 {
			return nil, errors.Errorf("%w: missing '=' after var", ErrMalformed)
		}
		body = body[eq+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), ";")

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, errors.Errorf("%w: %s", ErrMalformed, err.Error())
	}
	return parseList(raw, "")
}

func parseList(raw []json.RawMessage, path string) ([]*Node, error) {
	nodes := make([]*Node, 0, len(raw))
	for i, entry := range raw {
		n, err := parseEntry(entry)
		if err != nil {
			return nil, errors.Errorf("entry %s%d: %w", path, i, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func parseEntry(raw json.RawMessage) (*Node, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Errorf("%w: entry is not a list", ErrMalformed)
	}
	if len(fields) != 3 {
		return nil, errors.Errorf("%w: entry has %d fields, want 3", ErrMalformed, len(fields))
	}

	n := &Node{}
	if err := json.Unmarshal(fields[0], &n.Name); err != nil {
		return nil, errors.Errorf("%w: name is not a string", ErrMalformed)
	}
	if err := json.Unmarshal(fields[1], &n.Link); err != nil {
		return nil, errors.Errorf("%w: link is not a string", ErrMalformed)
	}

	var children []json.RawMessage
	if err := json.Unmarshal(fields[2], &children); err != nil {
		return nil, errors.Errorf("%w: children of %q are not a list or null", ErrMalformed, n.Name)
	}
	if children != nil {
		kids, err := parseList(children, n.Name+".")
		if err != nil {
			return nil, err
		}
		n.Children = kids
	}
	return n, nil
}

// Walk visits nodes depth first. Returning false from fn skips the node's
// children.
func Walk(nodes []*Node, fn func(n *Node, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []*Node, depth int, fn func(*Node, int) bool) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(n.Children, depth+1, fn)
		}
	}
}

// Find returns the first node called name.
func Find(nodes []*Node, name string) *Node {
	var found *Node
	Walk(nodes, func(n *Node, _ int) bool {
		if found == nil && n.Name == name {
			found = n
		}
		return found == nil
	})
	return found
}

// Parent returns the node whose children include name. ok is false when no
// node is called name; a top-level node has a nil parent.
func Parent(nodes []*Node, name string) (parent *Node, ok bool) {
	for _, n := range nodes {
		if n.Name == name {
			return nil, true
		}
	}
	Walk(nodes, func(n *Node, _ int) bool {
		if ok {
			return false
		}
		for _, c := range n.Children {
			if c.Name == name {
				parent, ok = n, true
			}
		}
		return !ok
	})
	return parent, ok
}

// Render writes nodes in the documentation generator's layout, assigned to
// variable name.
func Render(w io.Writer, variable string, nodes []*Node) error {
	var buf bytes.Buffer
	buf.WriteString("var " + variable + " =\n[\n")
	renderList(&buf, nodes, 4)
	buf.WriteString("];")
	_, err := w.Write(buf.Bytes())
	return err
}

func renderList(buf *bytes.Buffer, nodes []*Node, indent int) {
	pad := strings.Repeat(" ", indent)
	for i, n := range nodes {
		buf.WriteString(pad + "[ " + quote(n.Name) + ", " + quote(n.Link) + ", ")
		switch {
		case n.Children == nil:
			buf.WriteString("null ]")
		case len(n.Children) == 0:
			buf.WriteString("[] ]")
		default:
			buf.WriteString("[\n")
			renderList(buf, n.Children, indent+2)
			buf.WriteString(pad + "] ]")
		}
		if i < len(nodes)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
