package decoder_test

import (
	"reflect"
	"testing"

	"github.com/corvantis/goyaml/ast"
	"github.com/corvantis/goyaml/decoder"
	"github.com/corvantis/goyaml/schema"
)

func mustDecodeDynamic(t *testing.T, src string) *ast.Element {
	t.Helper()
	elem, err := decoder.New(src).DecodeDynamic()
	if err != nil {
		t.Fatalf("DecodeDynamic(%q) error: %v", src, err)
	}
	return elem
}

func scalarOf(t *testing.T, e *ast.Element) string {
	t.Helper()
	v, ok := e.ScalarValue()
	if !ok {
		t.Fatalf("element is not a scalar: kind=%v", e.Kind())
	}
	return v
}

// Decoding a simple block mapping.
func TestDecodeDynamicSimpleBlockMapping(t *testing.T) {
	elem := mustDecodeDynamic(t, "part_no: A4786\nprice: 1.47\nquantity: 4\n")
	if elem.Kind() != ast.MappingKind {
		t.Fatalf("Kind() = %v; want MappingKind", elem.Kind())
	}
	pairs := elem.Pairs()
	if len(pairs) != 3 {
		t.Fatalf("len(Pairs()) = %d; want 3", len(pairs))
	}
	wantKeys := []string{"part_no", "price", "quantity"}
	wantVals := []string{"A4786", "1.47", "4"}
	for i, p := range pairs {
		if got := scalarOf(t, p.Key); got != wantKeys[i] {
			t.Fatalf("pairs[%d].Key = %q; want %q", i, got, wantKeys[i])
		}
		if got := scalarOf(t, p.Value); got != wantVals[i] {
			t.Fatalf("pairs[%d].Value = %q; want %q", i, got, wantVals[i])
		}
	}
}

// Quoted spellings of "null" decode to the string, unquoted to Null.
func TestDecodeDynamicNullDisambiguation(t *testing.T) {
	src := "part_no: A4786\ndescrip2: 'null'\ndescrip: \"null\"\nquantity: null\n"
	elem := mustDecodeDynamic(t, src)
	cases := []struct {
		key      string
		wantNull bool
		wantText string
	}{
		{"part_no", false, "A4786"},
		{"descrip2", false, "null"},
		{"descrip", false, "null"},
		{"quantity", true, ""},
	}
	for _, c := range cases {
		v, ok := elem.Get(c.key)
		if !ok {
			t.Fatalf("Get(%q) not found", c.key)
		}
		if c.wantNull {
			if !v.IsNull() {
				t.Fatalf("Get(%q) = %v; want Null", c.key, v.Kind())
			}
			continue
		}
		if v.IsNull() {
			t.Fatalf("Get(%q) decoded to Null; want string %q", c.key, c.wantText)
		}
		if got := scalarOf(t, v); got != c.wantText {
			t.Fatalf("Get(%q) = %q; want %q", c.key, got, c.wantText)
		}
	}
	descrip, _ := elem.Get("descrip")
	quantity, _ := elem.Get("quantity")
	if ast.Equal(descrip, quantity) {
		t.Fatalf("the string \"null\" must not equal Null")
	}
}

// A block sequence of mappings, with the dash at the parent key's column.
func TestDecodeDynamicNestedBlockSequence(t *testing.T) {
	src := "t:\n- part_no: A4786\n  descrip: Water Bucket (Filled)\n  price: 1.47\n  quantity: 4\n"
	elem := mustDecodeDynamic(t, src)
	tVal, ok := elem.Get("t")
	if !ok {
		t.Fatalf("Get(t) not found")
	}
	if tVal.Kind() != ast.SequenceKind {
		t.Fatalf("Get(t).Kind() = %v; want SequenceKind", tVal.Kind())
	}
	items := tVal.Items()
	if len(items) != 1 {
		t.Fatalf("len(Items()) = %d; want 1", len(items))
	}
	entry := items[0]
	if entry.Kind() != ast.MappingKind {
		t.Fatalf("items[0].Kind() = %v; want MappingKind", entry.Kind())
	}
	want := map[string]string{
		"part_no":  "A4786",
		"descrip":  "Water Bucket (Filled)",
		"price":    "1.47",
		"quantity": "4",
	}
	for k, wantVal := range want {
		v, ok := entry.Get(k)
		if !ok {
			t.Fatalf("entry.Get(%q) not found", k)
		}
		if got := scalarOf(t, v); got != wantVal {
			t.Fatalf("entry.Get(%q) = %q; want %q", k, got, wantVal)
		}
	}
}

func TestDecodeDynamicFlowCollections(t *testing.T) {
	elem := mustDecodeDynamic(t, "{ a: 1, b: [2, 3] }\n")
	if elem.Kind() != ast.MappingKind {
		t.Fatalf("Kind() = %v; want MappingKind", elem.Kind())
	}
	b, ok := elem.Get("b")
	if !ok || b.Kind() != ast.SequenceKind {
		t.Fatalf("Get(b) = %v, %v; want SequenceKind", b, ok)
	}
	if len(b.Items()) != 2 {
		t.Fatalf("len(Items()) = %d; want 2", len(b.Items()))
	}
}

func TestDecodeDynamicEmptyCollections(t *testing.T) {
	elem := mustDecodeDynamic(t, "[]\n")
	if elem.Kind() != ast.SequenceKind || len(elem.Items()) != 0 {
		t.Fatalf("DecodeDynamic([]) = %v; want empty Sequence", elem.Kind())
	}
	elem2 := mustDecodeDynamic(t, "{}\n")
	if elem2.Kind() != ast.MappingKind || len(elem2.Pairs()) != 0 {
		t.Fatalf("DecodeDynamic({}) = %v; want empty Mapping", elem2.Kind())
	}
}

// A class with nested classes, decoded schema-directed.
type botConfig struct {
	Account  int64  `yaml:"account"`
	Password string `yaml:"password"`
}

type ownerConfig struct {
	Account int64 `yaml:"account"`
}

type rootConfig struct {
	Bot   botConfig   `yaml:"bot"`
	Owner ownerConfig `yaml:"owner"`
}

func TestDecodeSchemaNestedClasses(t *testing.T) {
	src := "bot:\n  account: 12345678910\n  password: \"=w==w==w=\"\nowner:\n  account: 12345678910\n"
	var got rootConfig
	sink := schema.NewReflectSink(reflect.ValueOf(&got).Elem(), nil)
	desc := schema.Of(reflect.TypeOf(got))
	if err := decoder.New(src).DecodeSchema(desc, sink); err != nil {
		t.Fatalf("DecodeSchema error: %v", err)
	}
	want := rootConfig{
		Bot:   botConfig{Account: 12345678910, Password: "=w==w==w="},
		Owner: ownerConfig{Account: 12345678910},
	}
	if got != want {
		t.Fatalf("got %+v; want %+v", got, want)
	}
}
