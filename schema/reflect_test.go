package schema_test

import (
	"reflect"
	"testing"

	"github.com/corvantis/goyaml/schema"
)

type widget struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count,omitempty"`
	Note  string `yaml:"note,omitempty,comment=first line\\nsecond line"`
}

func TestOfStructBecomesClassKind(t *testing.T) {
	desc := schema.Of(reflect.TypeOf(widget{}))
	if desc.Kind() != schema.ClassKind {
		t.Fatalf("Kind() = %v; want ClassKind", desc.Kind())
	}
	if n := desc.ElementCount(); n != 3 {
		t.Fatalf("ElementCount() = %d; want 3", n)
	}
	if got := desc.ElementName(0); got != "name" {
		t.Fatalf("ElementName(0) = %q; want name", got)
	}
}

func TestOfMapBecomesMapKind(t *testing.T) {
	desc := schema.Of(reflect.TypeOf(map[string]int{}))
	if desc.Kind() != schema.MapKind {
		t.Fatalf("Kind() = %v; want MapKind", desc.Kind())
	}
	if n := desc.ElementCount(); n != schema.UnboundedElementCount {
		t.Fatalf("ElementCount() = %d; want UnboundedElementCount", n)
	}
	if elem := desc.ElementDescriptor(0); elem.Primitive() != schema.IntPrimitive {
		t.Fatalf("ElementDescriptor(0).Primitive() = %v; want IntPrimitive", elem.Primitive())
	}
}

func TestOfSliceBecomesListKind(t *testing.T) {
	desc := schema.Of(reflect.TypeOf([]string{}))
	if desc.Kind() != schema.ListKind {
		t.Fatalf("Kind() = %v; want ListKind", desc.Kind())
	}
	if elem := desc.ElementDescriptor(0); elem.Primitive() != schema.StringPrimitive {
		t.Fatalf("ElementDescriptor(0).Primitive() = %v; want StringPrimitive", elem.Primitive())
	}
}

func TestOfDereferencesPointers(t *testing.T) {
	desc := schema.Of(reflect.TypeOf(&widget{}))
	if desc.Kind() != schema.ClassKind {
		t.Fatalf("Kind() = %v; want ClassKind", desc.Kind())
	}
}

func TestElementAnnotationsCarriesParsedComment(t *testing.T) {
	desc := schema.Of(reflect.TypeOf(widget{}))
	ann := desc.ElementAnnotations(2)
	if len(ann) != 1 || ann[0].Kind != schema.CommentAnnotation {
		t.Fatalf("ElementAnnotations(2) = %+v; want one CommentAnnotation", ann)
	}
	want := []string{"first line", "second line"}
	if len(ann[0].Lines) != 2 || ann[0].Lines[0] != want[0] || ann[0].Lines[1] != want[1] {
		t.Fatalf("Lines = %v; want %v", ann[0].Lines, want)
	}
}

func TestReflectSinkPutsScalarsIntoStructFields(t *testing.T) {
	var w widget
	sink := schema.NewReflectSink(reflect.ValueOf(&w).Elem(), nil)
	nameSink, ok, err := sink.Field("name")
	if err != nil || !ok {
		t.Fatalf("Field(name) = %v, %v, %v", nameSink, ok, err)
	}
	if err := nameSink.PutString("lantern"); err != nil {
		t.Fatalf("PutString error: %v", err)
	}
	countSink, ok, err := sink.Field("count")
	if err != nil || !ok {
		t.Fatalf("Field(count) = %v, %v, %v", countSink, ok, err)
	}
	if err := countSink.PutInt(3); err != nil {
		t.Fatalf("PutInt error: %v", err)
	}
	if w.Name != "lantern" || w.Count != 3 {
		t.Fatalf("got %+v; want Name=lantern Count=3", w)
	}
}

func TestReflectSinkUnknownFieldNotOK(t *testing.T) {
	var w widget
	sink := schema.NewReflectSink(reflect.ValueOf(&w).Elem(), nil)
	_, ok, err := sink.Field("nonexistent")
	if err != nil {
		t.Fatalf("Field(nonexistent) error: %v", err)
	}
	if ok {
		t.Fatalf("Field(nonexistent) ok = true; want false")
	}
}

func TestReflectSinkMapFieldCommitsOnPut(t *testing.T) {
	m := map[string]int{}
	sink := schema.NewReflectSink(reflect.ValueOf(&m).Elem(), nil)
	if err := sink.BeginMap(schema.Of(reflect.TypeOf(m))); err != nil {
		t.Fatalf("BeginMap error: %v", err)
	}
	entrySink, ok, err := sink.Field("a")
	if err != nil || !ok {
		t.Fatalf("Field(a) = %v, %v, %v", entrySink, ok, err)
	}
	if err := entrySink.PutInt(5); err != nil {
		t.Fatalf("PutInt error: %v", err)
	}
	if m["a"] != 5 {
		t.Fatalf("m[a] = %d; want 5", m["a"])
	}
}

func TestReflectSinkNextElementAppendsToSlice(t *testing.T) {
	var nums []int
	sink := schema.NewReflectSink(reflect.ValueOf(&nums).Elem(), nil)
	if err := sink.BeginList(schema.Of(reflect.TypeOf(nums))); err != nil {
		t.Fatalf("BeginList error: %v", err)
	}
	elemSink, err := sink.NextElement()
	if err != nil {
		t.Fatalf("NextElement error: %v", err)
	}
	if err := elemSink.PutInt(7); err != nil {
		t.Fatalf("PutInt error: %v", err)
	}
	if len(nums) != 1 || nums[0] != 7 {
		t.Fatalf("nums = %v; want [7]", nums)
	}
}

func TestReflectSourceElementNamesFollowTags(t *testing.T) {
	w := widget{Name: "lantern", Count: 3}
	src := schema.NewReflectSource(reflect.ValueOf(w))
	if n := src.ElementCount(); n != 3 {
		t.Fatalf("ElementCount() = %d; want 3", n)
	}
	if got := src.ElementName(0); got != "name" {
		t.Fatalf("ElementName(0) = %q; want name", got)
	}
}

func TestReflectSourceMapKeysSortedDeterministically(t *testing.T) {
	m := map[string]int{"z": 1, "a": 2, "m": 3}
	src := schema.NewReflectSource(reflect.ValueOf(m))
	want := []string{"a", "m", "z"}
	for i, k := range want {
		if got := src.ElementName(i); got != k {
			t.Fatalf("ElementName(%d) = %q; want %q", i, got, k)
		}
	}
}

func TestReflectSourceIsNullForNilPointerMapSlice(t *testing.T) {
	var p *string
	if !schema.NewReflectSource(reflect.ValueOf(p)).IsNull() {
		t.Fatalf("nil *string Source.IsNull() = false; want true")
	}
	var m map[string]int
	if !schema.NewReflectSource(reflect.ValueOf(m)).IsNull() {
		t.Fatalf("nil map Source.IsNull() = false; want true")
	}
	var s []int
	if !schema.NewReflectSource(reflect.ValueOf(s)).IsNull() {
		t.Fatalf("nil slice Source.IsNull() = false; want true")
	}
	if schema.NewReflectSource(reflect.ValueOf([]int{})).IsNull() {
		t.Fatalf("empty non-nil slice Source.IsNull() = true; want false")
	}
}

func TestReflectSourceIndexSourceWalksSlice(t *testing.T) {
	nums := []int{10, 20, 30}
	src := schema.NewReflectSource(reflect.ValueOf(nums))
	if n := src.Len(); n != 3 {
		t.Fatalf("Len() = %d; want 3", n)
	}
	idxSrc, err := src.IndexSource(1)
	if err != nil {
		t.Fatalf("IndexSource(1) error: %v", err)
	}
	v, err := idxSrc.Int()
	if err != nil || v != 20 {
		t.Fatalf("IndexSource(1).Int() = %d, %v; want 20, nil", v, err)
	}
}
