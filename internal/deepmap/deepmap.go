package deepmap

import (
	"github.com/funvibe/sift/internal/record"
	"github.com/funvibe/sift/internal/value"
)

// Package deepmap implements the multi-level map behind out-of-stream
// accumulators and map-typed locals: a tree whose internal nodes are
// insertion-ordered maps from typed scalar keys to children, and whose
// leaves are terminal values. A node is terminal or non-terminal, never both.

// GetStatus classifies a path lookup.
type GetStatus int

const (
	Found      GetStatus = iota // path ends exactly on a terminal
	NotFound                    // some key along the path is absent
	TooDeep                     // an intermediate key indexed past a terminal
	TooShallow                  // the lookup stopped at a non-terminal
)

func (s GetStatus) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not-found"
	case TooDeep:
		return "too-deep"
	case TooShallow:
		return "too-shallow"
	default:
		return "???"
	}
}

type Node struct {
	terminal bool
	leaf     value.Val
	keys     []value.Val
	children map[value.Val]*Node
}

// New returns an empty non-terminal node, usable as a map root.
func New() *Node {
	return &Node{children: make(map[value.Val]*Node)}
}

// Terminal returns a leaf node holding v.
func Terminal(v value.Val) *Node {
	return &Node{terminal: true, leaf: v}
}

func (n *Node) IsTerminal() bool { return n.terminal }
func (n *Node) Leaf() value.Val  { return n.leaf }

// Len is the number of children at this level (zero for terminals).
func (n *Node) Len() int { return len(n.keys) }

// ForEach visits this level's children in insertion order.
func (n *Node) ForEach(fn func(key value.Val, child *Node)) {
	for _, k := range n.keys {
		fn(k, n.children[k])
	}
}

// Put stores a terminal value at path, creating missing intermediate
// non-terminal nodes. A terminal encountered mid-path is silently replaced
// by a non-terminal (destroying the old leaf), and vice versa at the end.
func (n *Node) Put(path []value.Val, v value.Val) {
	n.PutSubtree(path, Terminal(v))
}

// PutSubtree stores an entire subtree at path. The node takes ownership of
// sub; callers that keep a reference must pass sub.Copy() instead.
func (n *Node) PutSubtree(path []value.Val, sub *Node) {
	if len(path) == 0 {
		n.replaceWith(sub)
		return
	}
	cur := n
	for _, key := range path[:len(path)-1] {
		cur = cur.descendCreating(key)
	}
	cur.makeNonTerminal()
	last := path[len(path)-1]
	if _, ok := cur.children[last]; !ok {
		cur.keys = append(cur.keys, last)
	}
	cur.children[last] = sub
}

func (n *Node) replaceWith(sub *Node) {
	n.terminal = sub.terminal
	n.leaf = sub.leaf
	n.keys = sub.keys
	n.children = sub.children
	if n.children == nil {
		n.children = make(map[value.Val]*Node)
	}
}

func (n *Node) makeNonTerminal() {
	if n.terminal || n.children == nil {
		n.terminal = false
		n.leaf = value.Val{}
		n.keys = nil
		n.children = make(map[value.Val]*Node)
	}
}

func (n *Node) descendCreating(key value.Val) *Node {
	n.makeNonTerminal()
	child, ok := n.children[key]
	if !ok {
		child = New()
		n.children[key] = child
		n.keys = append(n.keys, key)
	} else if child.terminal {
		// Replace the leaf with a level so the path can continue.
		child = New()
		n.children[key] = child
	}
	return child
}

// Get walks path and reports what it found. A terminal at the exact end is
// Found; a non-terminal at the end is returned with TooShallow (callers
// wanting a subtree use the node; GetTerminal yields no leaf for it);
// a terminal hit before the path is exhausted is TooDeep.
func (n *Node) Get(path []value.Val) (*Node, GetStatus) {
	cur := n
	for _, key := range path {
		if cur.terminal {
			return nil, TooDeep
		}
		child, ok := cur.children[key]
		if !ok {
			return nil, NotFound
		}
		cur = child
	}
	if cur.terminal {
		return cur, Found
	}
	return cur, TooShallow
}

// GetTerminal is the scalar-context view of Get: the leaf value if the path
// lands exactly on one.
func (n *Node) GetTerminal(path []value.Val) (value.Val, GetStatus) {
	node, status := n.Get(path)
	if status != Found {
		return value.Null(), status
	}
	return node.leaf, Found
}

// Remove deletes the subtree or leaf at path. Removing along a path that
// does not resolve is a no-op.
func (n *Node) Remove(path []value.Val) {
	if len(path) == 0 {
		n.ClearLevel()
		return
	}
	cur := n
	for _, key := range path[:len(path)-1] {
		if cur.terminal {
			return
		}
		child, ok := cur.children[key]
		if !ok {
			return
		}
		cur = child
	}
	if cur.terminal {
		return
	}
	last := path[len(path)-1]
	if _, ok := cur.children[last]; !ok {
		return
	}
	delete(cur.children, last)
	for i, k := range cur.keys {
		if k == last {
			cur.keys = append(cur.keys[:i], cur.keys[i+1:]...)
			break
		}
	}
}

// ClearLevel recursively destroys the children, leaving n an empty
// non-terminal.
func (n *Node) ClearLevel() {
	n.terminal = false
	n.leaf = value.Val{}
	n.keys = nil
	n.children = make(map[value.Val]*Node)
}

// Copy is a deep clone with independent ownership: mutations on either side
// are invisible to the other.
func (n *Node) Copy() *Node {
	if n.terminal {
		return Terminal(n.leaf)
	}
	out := New()
	out.keys = append([]value.Val(nil), n.keys...)
	for k, child := range n.children {
		out.children[k] = child.Copy()
	}
	return out
}

// ToRecords flattens the subtree into ordered output records. Each supplied
// key name consumes one level of the subtree and becomes a named field;
// whatever depth remains past the names is flattened into colon-joined
// composite field names rooted at name. Iteration follows insertion order at
// every level.
func (n *Node) ToRecords(name string, keyNames []string, ofmt string) []*record.Record {
	var out []*record.Record
	n.toRecordsAux(name, keyNames, ofmt, record.New(), &out)
	return out
}

func (n *Node) toRecordsAux(name string, keyNames []string, ofmt string, acc *record.Record, out *[]*record.Record) {
	if len(keyNames) == 0 {
		rec := acc.Copy()
		n.flattenInto(name, ofmt, rec)
		if rec.Len() > 0 {
			*out = append(*out, rec)
		}
		return
	}
	if n.terminal {
		rec := acc.Copy()
		rec.Put(name, n.leaf.Format(ofmt))
		*out = append(*out, rec)
		return
	}
	for _, k := range n.keys {
		next := acc.Copy()
		next.Put(keyNames[0], k.Format(ofmt))
		n.children[k].toRecordsAux(name, keyNames[1:], ofmt, next, out)
	}
}

func (n *Node) flattenInto(prefix string, ofmt string, rec *record.Record) {
	if n.terminal {
		rec.Put(prefix, n.leaf.Format(ofmt))
		return
	}
	for _, k := range n.keys {
		n.children[k].flattenInto(prefix+":"+k.Format(ofmt), ofmt, rec)
	}
}

// FromRecord builds a one-level subtree from a record, preferring typed
// overlay entries and wrapping plain strings as typed scalars.
func FromRecord(rec *record.Record, ov *record.Overlay) *Node {
	out := New()
	rec.ForEach(func(k, s string) {
		var v value.Val
		if ov != nil {
			if tv, ok := ov.Get(k); ok {
				v = tv
			} else {
				v = value.Scan(s)
			}
		} else {
			v = value.Scan(s)
		}
		out.PutSubtree([]value.Val{value.FromString(k)}, Terminal(v))
	})
	return out
}
