package scanner_test

import (
	"testing"

	"github.com/corvantis/goyaml/internal/scanner"
	"github.com/corvantis/goyaml/token"
)

func collectTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	sc := scanner.New(src)
	var types []token.Type
	for {
		tk, err := sc.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		types = append(types, tk.Type)
		if tk.Type == token.EOFType {
			return types
		}
	}
}

func TestScanBlockMappingLine(t *testing.T) {
	types := collectTypes(t, "part_no: A4786\n")
	want := []token.Type{
		token.StringType, token.ColonType, token.StringType, token.LineSeparatorType, token.EOFType,
	}
	if len(types) != len(want) {
		t.Fatalf("got %v; want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("types[%d] = %v; want %v (full: %v)", i, types[i], want[i], types)
		}
	}
}

func TestScanNullLiteral(t *testing.T) {
	sc := scanner.New("null\n")
	tk, err := sc.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if tk.Type != token.StringNullType {
		t.Fatalf("Type = %v; want StringNullType", tk.Type)
	}
}

func TestScanQuotedNullIsString(t *testing.T) {
	sc := scanner.New(`"null"` + "\n")
	tk, err := sc.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if tk.Type != token.StringDoubleType {
		t.Fatalf("Type = %v; want StringDoubleType", tk.Type)
	}
	if tk.Value != "null" {
		t.Fatalf("Value = %q; want null", tk.Value)
	}
}

func TestScanDoubleQuotedEscapes(t *testing.T) {
	sc := scanner.New(`"a\nb\tc\"d"` + "\n")
	tk, err := sc.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if want := "a\nb\tc\"d"; tk.Value != want {
		t.Fatalf("Value = %q; want %q", tk.Value, want)
	}
}

func TestScanSingleQuotedDoublingEscapesQuote(t *testing.T) {
	sc := scanner.New(`'it''s'` + "\n")
	tk, err := sc.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if want := "it's"; tk.Value != want {
		t.Fatalf("Value = %q; want %q", tk.Value, want)
	}
}

func TestScanMultilineListFlag(t *testing.T) {
	types := collectTypes(t, "- a\n- b\n")
	want := []token.Type{
		token.MultilineListFlagType, token.StringType, token.LineSeparatorType,
		token.MultilineListFlagType, token.StringType, token.LineSeparatorType,
		token.EOFType,
	}
	if len(types) != len(want) {
		t.Fatalf("got %v; want %v", types, want)
	}
}

func TestScanFlowCollections(t *testing.T) {
	types := collectTypes(t, "[a, b]\n")
	want := []token.Type{
		token.FlowSequenceBeginType, token.StringType, token.CommaType, token.StringType,
		token.FlowSequenceEndType, token.LineSeparatorType, token.EOFType,
	}
	if len(types) != len(want) {
		t.Fatalf("got %v; want %v", types, want)
	}
}

func TestScanCommentDiscarded(t *testing.T) {
	sc := scanner.New("a: 1 # trailing comment\n")
	var vals []string
	for {
		tk, err := sc.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		if tk.Type == token.EOFType {
			break
		}
		if tk.IsScalar() {
			vals = append(vals, tk.Value)
		}
	}
	if len(vals) != 2 || vals[0] != "a" || vals[1] != "1" {
		t.Fatalf("scalars = %v; want [a 1]", vals)
	}
}

func TestScanTabInIndentFails(t *testing.T) {
	sc := scanner.New("a:\n\tb: 1\n")
	for i := 0; i < 10; i++ {
		_, err := sc.Next()
		if err != nil {
			return
		}
	}
	t.Fatalf("expected a MalformedScalar error for tab-indented line")
}

func TestReuseReturnsSameToken(t *testing.T) {
	sc := scanner.New("a: b\n")
	first, err := sc.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	sc.Reuse()
	second, err := sc.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if first.Type != second.Type || first.Value != second.Value {
		t.Fatalf("Reuse() did not replay the same token: %v vs %v", first, second)
	}
}
