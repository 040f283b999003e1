// Package ast defines the dynamic YAML element tree: a tagged variant of
// null, scalar, sequence and mapping, produced by dynamic decode and
// consumed by dynamic encode.
package ast

// Kind tags the variant an Element holds.
type Kind int

const (
	NullKind Kind = iota
	ScalarKind
	SequenceKind
	MappingKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "Null"
	case ScalarKind:
		return "Scalar"
	case SequenceKind:
		return "Sequence"
	case MappingKind:
		return "Mapping"
	}
	return "Unknown"
}

// ScalarStyle records how a scalar was quoted in its source text. It is
// retained only to decide coercion rules later (a plain "null" means Null;
// a quoted "null" means the three-letter string) and plays no role in
// equality between two decoded trees.
type ScalarStyle int

const (
	PlainStyle ScalarStyle = iota
	SingleQuotedStyle
	DoubleQuotedStyle
)

// Element is one node of the dynamic YAML tree. The zero Element is Null.
type Element struct {
	kind     Kind
	scalar   string
	style    ScalarStyle
	seq      []*Element
	mapPairs []Pair
}

// Pair is one key/value entry of a Mapping element, in stream order.
type Pair struct {
	Key   *Element
	Value *Element
}

// Null returns the Null element.
func Null() *Element {
	return &Element{kind: NullKind}
}

// Scalar returns a Scalar element with the given decoded text and style.
func Scalar(value string, style ScalarStyle) *Element {
	return &Element{kind: ScalarKind, scalar: value, style: style}
}

// Sequence returns a Sequence element wrapping items in order.
func Sequence(items ...*Element) *Element {
	return &Element{kind: SequenceKind, seq: items}
}

// Mapping returns a Mapping element wrapping pairs in insertion order.
func Mapping(pairs ...Pair) *Element {
	return &Element{kind: MappingKind, mapPairs: pairs}
}

func (e *Element) Kind() Kind { return e.kind }

// IsNull reports whether e is the Null variant.
func (e *Element) IsNull() bool { return e == nil || e.kind == NullKind }

// ScalarValue returns the decoded scalar text and whether e is a Scalar.
func (e *Element) ScalarValue() (string, bool) {
	if e == nil || e.kind != ScalarKind {
		return "", false
	}
	return e.scalar, true
}

// Style returns the quoting style of a Scalar element; PlainStyle for any
// other kind.
func (e *Element) Style() ScalarStyle {
	if e == nil {
		return PlainStyle
	}
	return e.style
}

// Items returns the ordered items of a Sequence element, nil otherwise.
func (e *Element) Items() []*Element {
	if e == nil || e.kind != SequenceKind {
		return nil
	}
	return e.seq
}

// Pairs returns the ordered key/value pairs of a Mapping element, nil otherwise.
func (e *Element) Pairs() []Pair {
	if e == nil || e.kind != MappingKind {
		return nil
	}
	return e.mapPairs
}

// Get looks up a Mapping element's value by a plain string key, following
// stream order and returning the first match. ok is false if e is not a
// Mapping or the key is absent.
func (e *Element) Get(key string) (value *Element, ok bool) {
	for _, p := range e.Pairs() {
		if s, isScalar := p.Key.ScalarValue(); isScalar && s == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Equal reports structural equality modulo scalar style: two scalars with
// the same decoded text but different quoting styles compare equal, since
// style is retained only to decide coercion at decode time.
func Equal(a, b *Element) bool {
	aNull, bNull := a.IsNull(), b.IsNull()
	if aNull || bNull {
		return aNull == bNull
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case ScalarKind:
		return a.scalar == b.scalar
	case SequenceKind:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}
		return true
	case MappingKind:
		if len(a.mapPairs) != len(b.mapPairs) {
			return false
		}
		for i := range a.mapPairs {
			if !Equal(a.mapPairs[i].Key, b.mapPairs[i].Key) {
				return false
			}
			if !Equal(a.mapPairs[i].Value, b.mapPairs[i].Value) {
				return false
			}
		}
		return true
	}
	return true
}
