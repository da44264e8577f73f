package record

import "github.com/funvibe/sift/internal/value"

// Placeholder is what a record field holds while its real value lives in the
// overlay. The actual string is materialized at write-out.
const Placeholder = ""

// Overlay is the per-record typed side map layered over a Record so that
// arithmetic sees typed values while the record itself stays textual. Reads
// of a field consult the overlay first and fall back to scanning the record
// string; writes go to the overlay with a placeholder put into the record so
// the field count stays observable.
type Overlay struct {
	vals    map[string]value.Val
	written map[string]bool
}

func NewOverlay() *Overlay {
	return &Overlay{
		vals:    make(map[string]value.Val),
		written: make(map[string]bool),
	}
}

// Put stores an assigned value. Assigned entries are the ones materialized
// into the record at emission time.
func (o *Overlay) Put(key string, v value.Val) {
	o.vals[key] = v
	o.written[key] = true
}

// cache stores a scanned-on-demand read without marking the field assigned,
// so untouched input text passes through emission verbatim.
func (o *Overlay) cache(key string, v value.Val) {
	o.vals[key] = v
}

func (o *Overlay) Get(key string) (value.Val, bool) {
	v, ok := o.vals[key]
	return v, ok
}

func (o *Overlay) Delete(key string) {
	delete(o.vals, key)
	delete(o.written, key)
}

func (o *Overlay) Clear() {
	o.vals = make(map[string]value.Val)
	o.written = make(map[string]bool)
}

// ReadField is the evaluator's view of field key: the typed overlay entry if
// present, otherwise the record string scanned on demand. The scan result is
// cached back into the overlay so repeated reads convert once.
func ReadField(rec *Record, ov *Overlay, key string) (value.Val, bool) {
	if v, ok := ov.Get(key); ok {
		return v, true
	}
	s, ok := rec.Get(key)
	if !ok {
		return value.Null(), false
	}
	v := value.Scan(s)
	ov.cache(key, v)
	return v, true
}

// WriteField assigns a typed value to field key: overlay gets the value and
// the record gets a placeholder so NF stays correct.
func WriteField(rec *Record, ov *Overlay, key string, v value.Val) {
	ov.Put(key, v)
	rec.Put(key, Placeholder)
}

// Materialize replaces every placeholder in rec by formatting the matching
// assigned overlay entry with ofmt. Fields that were only read (and cached)
// keep their original text. Called once per record just before emission.
func Materialize(rec *Record, ov *Overlay, ofmt string) {
	for _, k := range rec.Keys() {
		if ov.written[k] {
			rec.Put(k, ov.vals[k].Format(ofmt))
		}
	}
}
