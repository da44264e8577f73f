package evaluator

import (
	"github.com/funvibe/sift/internal/deepmap"
	"github.com/funvibe/sift/internal/value"
)

// A frame is a fixed-size vector of local slots; slot indices were assigned
// by the parser. Each slot holds an extended value: a scalar, or a map root
// for indexed locals. A per-slot type mask restricts which tags the slot
// accepts once declared.
type slot struct {
	defined bool
	mask    value.TypeMask
	scalar  value.Val
	node    *deepmap.Node // non-nil when the slot holds a map
}

type frame struct {
	slots []slot
}

type frameStack struct {
	frames []*frame
}

func newFrameStack() *frameStack {
	return &frameStack{}
}

// Push enters a lexical block; every slot starts undefined.
func (fs *frameStack) Push(size int) {
	fs.frames = append(fs.frames, &frame{slots: make([]slot, size)})
}

// Pop exits a block, releasing everything the frame's slots own.
func (fs *frameStack) Pop() {
	fs.frames = fs.frames[:len(fs.frames)-1]
}

func (fs *frameStack) top() *frame {
	return fs.frames[len(fs.frames)-1]
}

// Define binds a slot with its declared type mask. The initial value goes
// through the same mask check as any later assignment.
func (fs *frameStack) Define(idx int, mask value.TypeMask) {
	s := &fs.top().slots[idx]
	s.defined = true
	s.mask = mask
	s.scalar = value.Null()
	s.node = nil
}

func (fs *frameStack) maskFor(idx int) value.TypeMask {
	s := &fs.top().slots[idx]
	if !s.defined {
		return value.MaskAny
	}
	return s.mask
}

// AssignScalar overwrites a slot with a scalar. Reports false, leaving the
// slot untouched, when the slot's mask disallows the tag.
func (fs *frameStack) AssignScalar(idx int, v value.Val) bool {
	s := &fs.top().slots[idx]
	if !fs.maskFor(idx).Allows(v.Type()) {
		return false
	}
	if !s.defined {
		s.defined = true
		s.mask = value.MaskAny
	}
	s.scalar = v
	s.node = nil
	return true
}

// AssignNode overwrites a slot with a map root.
func (fs *frameStack) AssignNode(idx int, n *deepmap.Node) bool {
	s := &fs.top().slots[idx]
	if !fs.maskFor(idx).AllowsMap() {
		return false
	}
	if !s.defined {
		s.defined = true
		s.mask = value.MaskAny
	}
	s.node = n
	s.scalar = value.Null()
	return true
}

// NodeFor returns the slot's map root, converting the slot to an empty map
// when an indexed assignment first touches it.
func (fs *frameStack) NodeFor(idx int) *deepmap.Node {
	s := &fs.top().slots[idx]
	if s.node == nil {
		if !fs.maskFor(idx).AllowsMap() {
			return nil
		}
		s.defined = true
		if s.mask == 0 {
			s.mask = value.MaskAny
		}
		s.node = deepmap.New()
		s.scalar = value.Null()
	}
	return s.node
}

func (fs *frameStack) ReadScalar(idx int) value.Val {
	s := &fs.top().slots[idx]
	if !s.defined || s.node != nil {
		return value.Null()
	}
	return s.scalar
}

// ReadNode returns the slot's map root, or nil when the slot holds a scalar
// or nothing.
func (fs *frameStack) ReadNode(idx int) *deepmap.Node {
	s := &fs.top().slots[idx]
	if !s.defined {
		return nil
	}
	return s.node
}

func (fs *frameStack) Unset(idx int) {
	s := &fs.top().slots[idx]
	s.scalar = value.Null()
	s.node = nil
}
