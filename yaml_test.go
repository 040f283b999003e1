package yaml_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	yaml "github.com/corvantis/goyaml"
	"github.com/corvantis/goyaml/schema"
)

type product struct {
	PartNo string `yaml:"part_no"`
	Price  float64
	Tags   []string
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	in := product{PartNo: "A4786", Price: 1.47, Tags: []string{"bucket", "water"}}
	out, err := yaml.Marshal(&in)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var got product
	if err := yaml.Unmarshal(out, &got); err != nil {
		t.Fatalf("Unmarshal(%q) error: %v", out, err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("round trip through %q mismatch (-want +got):\n%s", out, diff)
	}
}

func TestUnmarshalRejectsNonPointer(t *testing.T) {
	var p product
	err := yaml.Unmarshal([]byte("part_no: A4786\n"), p)
	if err == nil {
		t.Fatalf("Unmarshal with non-pointer target: error = nil; want error")
	}
}

func TestUnmarshalRejectsNilPointer(t *testing.T) {
	var p *product
	err := yaml.Unmarshal([]byte("part_no: A4786\n"), p)
	if err == nil {
		t.Fatalf("Unmarshal with nil pointer: error = nil; want error")
	}
}

func TestDecoderReadsFromReader(t *testing.T) {
	r := strings.NewReader("part_no: A4786\nprice: 1.47\n")
	dec, err := yaml.NewDecoder(r)
	if err != nil {
		t.Fatalf("NewDecoder error: %v", err)
	}
	var p product
	if err := dec.Decode(&p); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if p.PartNo != "A4786" || p.Price != 1.47 {
		t.Fatalf("got %+v", p)
	}
}

func TestEncoderWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf, yaml.WithEncodeDefaultValues(false))
	if err := enc.Encode(&product{PartNo: "A4786"}); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if got, want := buf.String(), "part_no: A4786\n"; got != want {
		t.Fatalf("got %q; want %q", got, want)
	}
}

func TestValidateOptionRunsOnDecode(t *testing.T) {
	type form struct {
		Email string `yaml:"email" validate:"required,email"`
	}
	err := yaml.Unmarshal([]byte("email: not-an-email\n"), &form{}, yaml.Validate(schema.NewValidator()))
	if err == nil {
		t.Fatalf("Unmarshal with invalid email: error = nil; want validation failure")
	}
}

func TestFormatErrorUncoloredIncludesPosition(t *testing.T) {
	_, err := yaml.DecodeDynamic([]byte("a:\n\tb: 1\n"))
	if err == nil {
		t.Fatalf("DecodeDynamic with tab indent: error = nil; want MalformedScalar")
	}
	msg := yaml.FormatError(err, false, false)
	if !strings.Contains(msg, "error:") {
		t.Fatalf("FormatError = %q; want it to contain 'error:'", msg)
	}
	if !strings.Contains(msg, "\tb: 1\n^") {
		t.Fatalf("FormatError = %q; want the offending source line followed by a caret", msg)
	}
}
