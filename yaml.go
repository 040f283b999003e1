// Package yaml is the external facade: Marshal/Unmarshal drive
// schema-directed decode/encode over Go values via reflection; NewDecoder/
// NewEncoder expose the same two surfaces over an io.Reader/io.Writer;
// DecodeDynamic/EncodeDynamic expose the dynamic ast.Element surface for
// callers that do not have a static Go type to decode into.
package yaml

import (
	"fmt"
	"io"
	"reflect"

	"github.com/corvantis/goyaml/ast"
	"github.com/corvantis/goyaml/decoder"
	"github.com/corvantis/goyaml/encoder"
	"github.com/corvantis/goyaml/internal/diagnostic"
	"github.com/corvantis/goyaml/schema"
	"github.com/corvantis/goyaml/yamlerr"
)

// DecodeOption configures Unmarshal and Decoder.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	validator schema.StructValidator
}

// Validate installs a StructValidator run against every decoded Class
// value, in place of the facade's default of no validation.
func Validate(v schema.StructValidator) DecodeOption {
	return func(c *decodeConfig) { c.validator = v }
}

// EncodeOption configures Marshal and Encoder; it is an alias of the
// encoder package's own Option so callers need only import this package.
type EncodeOption = encoder.Option

// Re-exported encoder.Option constructors, so callers configuring Marshal
// do not need to import the encoder package directly.
var (
	WithClassSerialization  = encoder.WithClassSerialization
	WithMapSerialization    = encoder.WithMapSerialization
	WithListSerialization   = encoder.WithListSerialization
	WithStringSerialization = encoder.WithStringSerialization
	WithNullSerialization   = encoder.WithNullSerialization
	WithEncodeDefaultValues = encoder.WithEncodeDefaultValues
	WithIndentWidth         = encoder.WithIndentWidth
	TrueFalse               = encoder.TrueFalse
	YesNo                   = encoder.YesNo
	OnOff                   = encoder.OnOff
)

// Marshal renders v (a pointer to, or value of, a struct/map/slice/
// primitive) as YAML text, schema-directed via reflection.
func Marshal(v interface{}, opts ...EncodeOption) ([]byte, error) {
	src := schema.NewReflectSource(reflect.ValueOf(v))
	out, err := encoder.New(encoder.NewConfig(opts...)).EncodeSchema(src.Descriptor(), src)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// Unmarshal decodes YAML text into v, which must be a non-nil pointer.
func Unmarshal(data []byte, v interface{}, opts ...DecodeOption) error {
	cfg := decodeConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return yamlerr.NewInvariantViolation("yaml.Unmarshal requires a non-nil pointer")
	}
	target := rv.Elem()
	sink := schema.NewReflectSink(target, cfg.validator)
	return decoder.New(string(data)).DecodeSchema(schema.Of(target.Type()), sink)
}

// DecodeDynamic parses data into a dynamic ast.Element tree, with no
// schema required.
func DecodeDynamic(data []byte) (*ast.Element, error) {
	return decoder.New(string(data)).DecodeDynamic()
}

// EncodeDynamic renders a dynamic ast.Element tree as YAML text.
func EncodeDynamic(elem *ast.Element, opts ...EncodeOption) ([]byte, error) {
	out, err := encoder.New(encoder.NewConfig(opts...)).EncodeDynamic(elem)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// Decoder holds one complete YAML document read from an io.Reader and
// decodes it, schema-directed via reflection, into the type passed to
// Decode. Each Decode call decodes that same document again.
type Decoder struct {
	data []byte
	cfg  decodeConfig
}

// NewDecoder reads all of r eagerly: the codec's single-pass scanner
// operates over an in-memory source, not an incremental io.Reader.
func NewDecoder(r io.Reader, opts ...DecodeOption) (*Decoder, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	d := &Decoder{data: data}
	for _, o := range opts {
		o(&d.cfg)
	}
	return d, nil
}

// Decode decodes the Decoder's source into v, a non-nil pointer.
func (d *Decoder) Decode(v interface{}) error {
	return Unmarshal(d.data, v, func(c *decodeConfig) { *c = d.cfg })
}

// Encoder writes the YAML rendering of each value passed to Encode to an
// io.Writer; successive calls append their output with no document
// separator between them.
type Encoder struct {
	w   io.Writer
	cfg encoder.Config
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, opts ...EncodeOption) *Encoder {
	return &Encoder{w: w, cfg: encoder.NewConfig(opts...)}
}

// Encode renders v and writes it to the Encoder's writer.
func (e *Encoder) Encode(v interface{}) error {
	src := schema.NewReflectSource(reflect.ValueOf(v))
	out, err := encoder.New(e.cfg).EncodeSchema(src.Descriptor(), src)
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.w, out)
	return err
}

// FormatError renders err as a positional diagnostic: colored selects
// ANSI output, withLineNumber prefixes the source line with its line
// number.
func FormatError(err error, colored, withLineNumber bool) string {
	if err == nil {
		return ""
	}
	if !colored {
		msg := fmt.Sprintf("error: %v", err)
		if pos := yamlerr.PositionOf(err); pos != nil {
			col := pos.Column - 1
			if col < 0 {
				col = 0
			}
			msg += fmt.Sprintf("\n%s\n%*s^", pos.Text, col, "")
		}
		return msg
	}
	return diagnostic.FormatError(err, withLineNumber)
}
