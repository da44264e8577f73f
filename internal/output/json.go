package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/funvibe/sift/internal/record"
)

// JSONWriter reinflates colon-joined field names into nested objects and
// writes one object per record. Values that scan as numbers or booleans are
// written bare; everything else is quoted.
type JSONWriter struct {
	w *bufio.Writer
}

func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: bufio.NewWriter(w)}
}

// jnode is an insertion-ordered tree rebuilt from the flat record.
type jnode struct {
	leaf     string
	isLeaf   bool
	keys     []string
	children map[string]*jnode
}

func newJnode() *jnode {
	return &jnode{children: make(map[string]*jnode)}
}

func (n *jnode) put(path []string, v string) {
	if len(path) == 0 {
		n.isLeaf = true
		n.leaf = v
		return
	}
	child, ok := n.children[path[0]]
	if !ok {
		child = newJnode()
		n.children[path[0]] = child
		n.keys = append(n.keys, path[0])
	}
	child.put(path[1:], v)
}

func (w *JSONWriter) Write(rec *record.Record) error {
	root := newJnode()
	rec.ForEach(func(k, v string) {
		root.put(strings.Split(k, ":"), v)
	})
	var sb strings.Builder
	renderObject(&sb, root, 0)
	sb.WriteString("\n")
	_, err := w.w.WriteString(sb.String())
	return err
}

func renderObject(sb *strings.Builder, n *jnode, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString("{\n")
	for i, k := range n.keys {
		child := n.children[k]
		sb.WriteString(indent + "  " + strconv.Quote(k) + ": ")
		if child.isLeaf {
			sb.WriteString(renderScalar(child.leaf))
		} else {
			renderObject(sb, child, depth+1)
		}
		if i < len(n.keys)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(indent + "}")
}

func renderScalar(s string) string {
	if s == "true" || s == "false" {
		return s
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return s
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil && s != "" {
		return s
	}
	return strconv.Quote(s)
}

func (w *JSONWriter) Close() error { return w.w.Flush() }
