package schema

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/corvantis/goyaml/yamlerr"
)

// StructTagName is the struct tag key read for field name, omitempty, and
// comment options.
const StructTagName = "yaml"

// structField is the per-field metadata extracted from a "yaml" struct tag.
type structField struct {
	GoName     string
	RenderName string
	OmitEmpty  bool
	Comment    []string
}

func parseStructField(f reflect.StructField) *structField {
	tag := f.Tag.Get(StructTagName)
	sf := &structField{
		GoName:     f.Name,
		RenderName: strings.ToLower(f.Name),
	}
	if tag == "" {
		return sf
	}
	var comment string
	if idx := strings.Index(tag, "comment="); idx >= 0 {
		comment = tag[idx+len("comment="):]
		tag = tag[:idx]
		tag = strings.TrimSuffix(tag, ",")
	}
	options := strings.Split(tag, ",")
	if len(options) > 0 && options[0] != "" {
		sf.RenderName = options[0]
	}
	for _, opt := range options[1:] {
		if opt == "omitempty" {
			sf.OmitEmpty = true
		}
	}
	if comment != "" {
		sf.Comment = strings.Split(comment, "\\n")
	}
	return sf
}

func isIgnoredField(f reflect.StructField) bool {
	if f.PkgPath != "" && !f.Anonymous {
		return true
	}
	return f.Tag.Get(StructTagName) == "-"
}

// enumType is implemented by Go types whose schema kind should be EnumKind
// rather than a plain string PrimitiveKind.
type enumType interface {
	EnumValues() []string
}

// Of builds a Descriptor for a Go type by reflection: structs become
// Class, map[string]V becomes Map, slices/arrays become List, and the
// remaining reflect.Kinds become Primitive. A type implementing enumType
// becomes Enum.
func Of(t reflect.Type) Descriptor {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if reflect.PtrTo(t).Implements(reflect.TypeOf((*enumType)(nil)).Elem()) {
		return &reflectDescriptor{typ: t, kind: EnumKind}
	}
	switch t.Kind() {
	case reflect.Struct:
		return &reflectDescriptor{typ: t, kind: ClassKind}
	case reflect.Map:
		return &reflectDescriptor{typ: t, kind: MapKind}
	case reflect.Slice, reflect.Array:
		return &reflectDescriptor{typ: t, kind: ListKind}
	case reflect.Bool:
		return &reflectDescriptor{typ: t, kind: PrimitiveKind, prim: BoolPrimitive}
	case reflect.String:
		return &reflectDescriptor{typ: t, kind: PrimitiveKind, prim: StringPrimitive}
	case reflect.Float32, reflect.Float64:
		return &reflectDescriptor{typ: t, kind: PrimitiveKind, prim: FloatPrimitive}
	default:
		return &reflectDescriptor{typ: t, kind: PrimitiveKind, prim: IntPrimitive}
	}
}

type reflectDescriptor struct {
	typ    reflect.Type
	kind   Kind
	prim   Primitive
	fields []reflect.StructField // Class only, lazily populated
}

func (d *reflectDescriptor) visibleFields() []reflect.StructField {
	if d.fields != nil {
		return d.fields
	}
	var out []reflect.StructField
	for i := 0; i < d.typ.NumField(); i++ {
		f := d.typ.Field(i)
		if isIgnoredField(f) {
			continue
		}
		out = append(out, f)
	}
	d.fields = out
	return out
}

func (d *reflectDescriptor) Kind() Kind { return d.kind }

func (d *reflectDescriptor) ElementCount() int {
	switch d.kind {
	case ClassKind:
		return len(d.visibleFields())
	default:
		return UnboundedElementCount
	}
}

func (d *reflectDescriptor) ElementName(index int) string {
	switch d.kind {
	case ClassKind:
		return parseStructField(d.visibleFields()[index]).RenderName
	default:
		return ""
	}
}

func (d *reflectDescriptor) ElementDescriptor(index int) Descriptor {
	switch d.kind {
	case ClassKind:
		return Of(d.visibleFields()[index].Type)
	case MapKind:
		return Of(d.typ.Elem())
	case ListKind:
		return Of(d.typ.Elem())
	default:
		return nil
	}
}

func (d *reflectDescriptor) ElementAnnotations(index int) []Annotation {
	if d.kind != ClassKind {
		return nil
	}
	sf := parseStructField(d.visibleFields()[index])
	if len(sf.Comment) == 0 {
		return nil
	}
	return []Annotation{{Kind: CommentAnnotation, Lines: sf.Comment}}
}

func (d *reflectDescriptor) Primitive() Primitive { return d.prim }

func (d *reflectDescriptor) EnumValues() []string {
	if d.kind != EnumKind {
		return nil
	}
	zero := reflect.New(d.typ).Elem().Interface()
	if ev, ok := zero.(enumType); ok {
		return ev.EnumValues()
	}
	return nil
}

// --- reflect-backed Sink (decode direction) ---------------------------

// ReflectSink is a Sink that writes decoded values into a Go value via
// reflection. Use NewReflectSink(reflect.ValueOf(ptr).Elem()) to decode
// into *ptr.
type ReflectSink struct {
	v         reflect.Value
	validator StructValidator
}

// NewReflectSink returns a Sink writing into the addressable value v.
func NewReflectSink(v reflect.Value, validator StructValidator) *ReflectSink {
	return &ReflectSink{v: v, validator: validator}
}

func (s *ReflectSink) settable() reflect.Value {
	v := s.v
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	return v
}

func (s *ReflectSink) PutNull() error {
	v := s.settable()
	v.Set(reflect.Zero(v.Type()))
	return nil
}

func (s *ReflectSink) PutBool(v bool) error {
	target := s.settable()
	if target.Kind() != reflect.Bool {
		return yamlerr.NewCoercionFailure(strconv.FormatBool(v), "bool")
	}
	target.SetBool(v)
	return nil
}

func (s *ReflectSink) PutInt(v int64) error {
	target := s.settable()
	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		target.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		target.SetUint(uint64(v))
	case reflect.Float32, reflect.Float64:
		target.SetFloat(float64(v))
	default:
		return yamlerr.NewCoercionFailure(strconv.FormatInt(v, 10), target.Kind().String())
	}
	return nil
}

func (s *ReflectSink) PutFloat(v float64) error {
	target := s.settable()
	if target.Kind() != reflect.Float32 && target.Kind() != reflect.Float64 {
		return yamlerr.NewCoercionFailure(strconv.FormatFloat(v, 'g', -1, 64), target.Kind().String())
	}
	target.SetFloat(v)
	return nil
}

func (s *ReflectSink) PutString(v string) error {
	target := s.settable()
	if target.Kind() == reflect.String {
		target.SetString(v)
		return nil
	}
	if ev, ok := target.Addr().Interface().(interface{ SetEnum(string) error }); ok {
		return ev.SetEnum(v)
	}
	return yamlerr.NewCoercionFailure(v, target.Kind().String())
}

func (s *ReflectSink) BeginClass(d Descriptor) error {
	target := s.settable()
	if target.Kind() != reflect.Struct {
		return yamlerr.NewSchemaMismatch("Class", target.Kind().String(), "")
	}
	return nil
}

func (s *ReflectSink) BeginMap(d Descriptor) error {
	target := s.settable()
	if target.Kind() != reflect.Map {
		return yamlerr.NewSchemaMismatch("Map", target.Kind().String(), "")
	}
	if target.IsNil() {
		target.Set(reflect.MakeMap(target.Type()))
	}
	return nil
}

func (s *ReflectSink) BeginList(d Descriptor) error {
	target := s.settable()
	if target.Kind() != reflect.Slice && target.Kind() != reflect.Array {
		return yamlerr.NewSchemaMismatch("List", target.Kind().String(), "")
	}
	return nil
}

func (s *ReflectSink) EndComposite() error {
	target := s.settable()
	if target.Kind() == reflect.Struct && s.validator != nil {
		return s.validator.Struct(target.Interface())
	}
	return nil
}

func (s *ReflectSink) Field(name string) (Sink, bool, error) {
	target := s.settable()
	switch target.Kind() {
	case reflect.Struct:
		for i := 0; i < target.NumField(); i++ {
			f := target.Type().Field(i)
			if isIgnoredField(f) {
				continue
			}
			if parseStructField(f).RenderName == name {
				return NewReflectSink(target.Field(i), s.validator), true, nil
			}
		}
		return nil, false, nil
	case reflect.Map:
		elemType := target.Type().Elem()
		elem := reflect.New(elemType).Elem()
		mapSink := &mapEntrySink{ReflectSink: ReflectSink{v: elem, validator: s.validator}, parent: target, key: name}
		return mapSink, true, nil
	default:
		return nil, false, yamlerr.NewSchemaMismatch("Class or Map", target.Kind().String(), name)
	}
}

// mapEntrySink wraps a freshly allocated map-value and writes it into the
// parent map once decoding of that entry's value completes.
type mapEntrySink struct {
	ReflectSink
	parent reflect.Value
	key    string
}

func (m *mapEntrySink) commit() {
	m.parent.SetMapIndex(reflect.ValueOf(m.key).Convert(m.parent.Type().Key()), m.v)
}

func (m *mapEntrySink) PutNull() error       { err := m.ReflectSink.PutNull(); m.commit(); return err }
func (m *mapEntrySink) PutBool(v bool) error { err := m.ReflectSink.PutBool(v); m.commit(); return err }
func (m *mapEntrySink) PutInt(v int64) error { err := m.ReflectSink.PutInt(v); m.commit(); return err }
func (m *mapEntrySink) PutFloat(v float64) error {
	err := m.ReflectSink.PutFloat(v)
	m.commit()
	return err
}
func (m *mapEntrySink) PutString(v string) error {
	err := m.ReflectSink.PutString(v)
	m.commit()
	return err
}
func (m *mapEntrySink) EndComposite() error {
	err := m.ReflectSink.EndComposite()
	m.commit()
	return err
}

func (s *ReflectSink) NextElement() (Sink, error) {
	target := s.settable()
	if target.Kind() != reflect.Slice {
		return nil, yamlerr.NewSchemaMismatch("List", target.Kind().String(), "")
	}
	target.Set(reflect.Append(target, reflect.Zero(target.Type().Elem())))
	return NewReflectSink(target.Index(target.Len()-1), s.validator), nil
}

// --- reflect-backed Source (encode direction) --------------------------

// ReflectSource is a Source that reads values from a Go value via
// reflection, paired with the Descriptor built by Of.
type ReflectSource struct {
	v    reflect.Value
	desc Descriptor
}

// NewReflectSource returns a Source over v, describing it with Of(v.Type()).
func NewReflectSource(v reflect.Value) *ReflectSource {
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	return &ReflectSource{v: v, desc: Of(v.Type())}
}

func (s *ReflectSource) Descriptor() Descriptor { return s.desc }

func (s *ReflectSource) IsNull() bool {
	switch s.v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return s.v.IsZero() && (s.v.Kind() == reflect.Ptr || s.v.IsNil())
	}
	return false
}

func (s *ReflectSource) Bool() (bool, error)  { return s.v.Bool(), nil }
func (s *ReflectSource) Int() (int64, error) {
	switch s.v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(s.v.Uint()), nil
	default:
		return s.v.Int(), nil
	}
}
func (s *ReflectSource) Float() (float64, error) { return s.v.Float(), nil }
func (s *ReflectSource) String() (string, error) {
	if ev, ok := s.v.Interface().(enumType); ok {
		if str, ok := s.v.Interface().(interface{ String() string }); ok {
			_ = ev
			return str.String(), nil
		}
	}
	return s.v.String(), nil
}

func (s *ReflectSource) ElementCount() int {
	switch s.v.Kind() {
	case reflect.Struct:
		return s.desc.ElementCount()
	case reflect.Map:
		return s.v.Len()
	default:
		return 0
	}
}

func (s *ReflectSource) ElementName(index int) string {
	switch s.v.Kind() {
	case reflect.Struct:
		return s.desc.ElementName(index)
	case reflect.Map:
		keys := sortedMapKeys(s.v)
		return keys[index]
	default:
		return ""
	}
}

func (s *ReflectSource) ElementSource(index int) (Source, error) {
	switch s.v.Kind() {
	case reflect.Struct:
		fields := structVisibleFields(s.v.Type())
		return NewReflectSource(s.v.Field(fields[index])), nil
	case reflect.Map:
		keys := sortedMapKeys(s.v)
		return NewReflectSource(s.v.MapIndex(reflect.ValueOf(keys[index]))), nil
	default:
		return nil, yamlerr.NewSchemaMismatch("Class or Map", s.v.Kind().String(), "")
	}
}

func (s *ReflectSource) Len() int {
	if s.v.Kind() != reflect.Slice && s.v.Kind() != reflect.Array {
		return 0
	}
	return s.v.Len()
}

func (s *ReflectSource) IndexSource(i int) (Source, error) {
	if s.v.Kind() != reflect.Slice && s.v.Kind() != reflect.Array {
		return nil, yamlerr.NewSchemaMismatch("List", s.v.Kind().String(), "")
	}
	return NewReflectSource(s.v.Index(i)), nil
}

func structVisibleFields(t reflect.Type) []int {
	var out []int
	for i := 0; i < t.NumField(); i++ {
		if isIgnoredField(t.Field(i)) {
			continue
		}
		out = append(out, i)
	}
	return out
}

// sortedMapKeys returns a Map's string keys in a stable, deterministic
// order so repeated encodes of the same map are byte-identical; a Go
// map's iteration order is otherwise randomized per run.
func sortedMapKeys(v reflect.Value) []string {
	keys := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, k.String())
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
