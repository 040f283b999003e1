// Package schema defines the descriptor and value sink/source interfaces
// the codec core consumes, plus a reflection-based default implementation
// over Go structs, maps and slices.
package schema

// Kind tags the shape a schema-typed value takes.
type Kind int

const (
	ClassKind Kind = iota
	MapKind
	ListKind
	PrimitiveKind
	EnumKind
)

func (k Kind) String() string {
	switch k {
	case ClassKind:
		return "Class"
	case MapKind:
		return "Map"
	case ListKind:
		return "List"
	case PrimitiveKind:
		return "Primitive"
	case EnumKind:
		return "Enum"
	}
	return "Unknown"
}

// Primitive identifies which primitive a PrimitiveKind descriptor holds.
type Primitive int

const (
	BoolPrimitive Primitive = iota
	IntPrimitive
	FloatPrimitive
	StringPrimitive
)

// AnnotationKind tags the variant an Annotation holds. Comment is the only
// kind the encoder recognizes.
type AnnotationKind int

const (
	CommentAnnotation AnnotationKind = iota
)

// Annotation is one piece of descriptor metadata attached to an element.
type Annotation struct {
	Kind  AnnotationKind
	Lines []string
}

// UnboundedElementCount is returned by ElementCount for Map and List
// descriptors, whose element count is determined by the stream or the
// runtime value rather than the descriptor.
const UnboundedElementCount = -1

// Descriptor enumerates field names, kinds, and element metadata for a
// schema-typed value. It is supplied by the caller; the codec only
// consumes it. For Class, ElementDescriptor/ElementName/ElementAnnotations
// are indexed by field position. For Map and List, index 0 addresses the
// single value/element descriptor shared by every entry.
type Descriptor interface {
	Kind() Kind
	ElementCount() int
	ElementName(index int) string
	ElementDescriptor(index int) Descriptor
	ElementAnnotations(index int) []Annotation

	// Primitive is valid when Kind() == PrimitiveKind.
	Primitive() Primitive
	// EnumValues is valid when Kind() == EnumKind: the recognized textual
	// spellings, in declaration order.
	EnumValues() []string
}

// Sink receives values produced by schema-directed decode. The decoder
// calls exactly one Put*/Begin* method per value position and recurses
// via Field/NextElement for composites.
type Sink interface {
	PutNull() error
	PutBool(v bool) error
	PutInt(v int64) error
	PutFloat(v float64) error
	PutString(v string) error

	BeginClass(d Descriptor) error
	BeginMap(d Descriptor) error
	BeginList(d Descriptor) error
	EndComposite() error

	// Field selects the child sink for the class/map field named name. ok
	// is false when no such descriptor element exists.
	Field(name string) (child Sink, ok bool, err error)
	// NextElement selects the child sink for the next list item.
	NextElement() (child Sink, err error)
}

// Source supplies values to schema-directed encode: the inverse of Sink.
// The encoder asks the caller to enumerate elements and values rather
// than pushing them.
type Source interface {
	Descriptor() Descriptor
	IsNull() bool
	Bool() (bool, error)
	Int() (int64, error)
	Float() (float64, error)
	String() (string, error)

	// ElementCount/ElementName/ElementSource walk a Class or Map in
	// descriptor/stream order.
	ElementCount() int
	ElementName(index int) string
	ElementSource(index int) (Source, error)

	// Len/IndexSource walk a List.
	Len() int
	IndexSource(i int) (Source, error)
}
