// Package decoder consumes a token stream to produce either a dynamic
// ast.Element tree or, given a schema.Descriptor, drives a caller-supplied
// schema.Sink.
package decoder

import (
	"strconv"

	"github.com/corvantis/goyaml/ast"
	"github.com/corvantis/goyaml/internal/scanner"
	"github.com/corvantis/goyaml/schema"
	"github.com/corvantis/goyaml/token"
	"github.com/corvantis/goyaml/yamlerr"
)

// Decoder reads a complete YAML text buffer through a scanner.Scanner and
// turns it into either a dynamic tree or a schema-directed value graph. A
// Decoder is owned exclusively by one decode call.
type Decoder struct {
	sc      *scanner.Scanner
	pending []*token.Token // decoder-owned lookahead stack, LIFO
}

// New returns a Decoder over the complete input src.
func New(src string) *Decoder {
	return &Decoder{sc: scanner.New(src)}
}

func (d *Decoder) next() (*token.Token, error) {
	if n := len(d.pending); n > 0 {
		tk := d.pending[n-1]
		d.pending = d.pending[:n-1]
		return tk, nil
	}
	return d.sc.Next()
}

func (d *Decoder) pushback(tk *token.Token) {
	d.pending = append(d.pending, tk)
}

func (d *Decoder) nextSkippingBlank() (*token.Token, error) {
	for {
		tk, err := d.next()
		if err != nil {
			return nil, err
		}
		if tk.Type != token.LineSeparatorType {
			return tk, nil
		}
	}
}

func columnOf(tk *token.Token) int {
	return tk.Position.Column - 1
}

// ---------------------------------------------------------------------
// Dynamic decode
// ---------------------------------------------------------------------

// DecodeDynamic decodes the whole input into a dynamic ast.Element tree,
// with no schema guiding the decode.
func (d *Decoder) DecodeDynamic() (*ast.Element, error) {
	elem, err := d.decodeValue()
	if err != nil {
		return nil, err
	}
	if _, err := d.drainTrailing(); err != nil {
		return nil, err
	}
	return elem, nil
}

// drainTrailing consumes trailing blank lines and confirms the stream ends
// cleanly, returning the EOF token.
func (d *Decoder) drainTrailing() (*token.Token, error) {
	for {
		tk, err := d.next()
		if err != nil {
			return nil, err
		}
		switch tk.Type {
		case token.LineSeparatorType:
			continue
		case token.EOFType:
			return tk, nil
		default:
			return nil, yamlerr.NewUnexpectedToken("end of input", tk.Type.String(), tk.Position)
		}
	}
}

func scalarElement(tk *token.Token) *ast.Element {
	switch tk.Type {
	case token.StringNullType:
		return ast.Null()
	case token.StringSingleType:
		return ast.Scalar(tk.Value, ast.SingleQuotedStyle)
	case token.StringDoubleType:
		return ast.Scalar(tk.Value, ast.DoubleQuotedStyle)
	default:
		return ast.Scalar(tk.Value, ast.PlainStyle)
	}
}

func (d *Decoder) decodeValue() (*ast.Element, error) {
	tk, err := d.next()
	if err != nil {
		return nil, err
	}
	switch tk.Type {
	case token.LineSeparatorType:
		return d.decodeValue()
	case token.EOFType:
		return ast.Null(), nil
	case token.FlowSequenceBeginType:
		return d.decodeFlowSequence()
	case token.FlowMapBeginType:
		return d.decodeFlowMapping()
	case token.MultilineListFlagType:
		d.pushback(tk)
		return d.decodeBlockSequence()
	case token.StringType, token.StringSingleType, token.StringDoubleType, token.StringNullType:
		tk2, err := d.next()
		if err != nil {
			return nil, err
		}
		if tk2.Type == token.ColonType {
			d.pushback(tk2)
			d.pushback(tk)
			return d.decodeBlockMapping()
		}
		d.pushback(tk2)
		return scalarElement(tk), nil
	default:
		return nil, yamlerr.NewUnexpectedToken("a value", tk.Type.String(), tk.Position)
	}
}

// decodeBlockMapping parses a block mapping starting at the key token
// left on the pending stack by the caller. It ends at the first key whose
// column differs from the first key's column, on EOF, or on any non-scalar
// token; the token that ended it is pushed back for the caller.
func (d *Decoder) decodeBlockMapping() (*ast.Element, error) {
	var pairs []ast.Pair
	keyIndent := -1
	for {
		tk, err := d.next()
		if err != nil {
			return nil, err
		}
		if tk.Type == token.LineSeparatorType {
			continue
		}
		if tk.Type == token.EOFType {
			d.pushback(tk)
			break
		}
		if !tk.IsScalar() {
			d.pushback(tk)
			break
		}
		col := columnOf(tk)
		if keyIndent == -1 {
			keyIndent = col
		} else if col != keyIndent {
			d.pushback(tk)
			break
		}
		colon, err := d.next()
		if err != nil {
			return nil, err
		}
		if colon.Type != token.ColonType {
			return nil, yamlerr.NewUnexpectedToken(":", colon.Type.String(), colon.Position)
		}
		keyElem := scalarElement(tk)
		valueElem, err := d.decodeMappingEntryValue(keyIndent)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ast.Pair{Key: keyElem, Value: valueElem})
	}
	return ast.Mapping(pairs...), nil
}

// decodeMappingEntryValue decodes the value of one block mapping entry,
// whose key sits at column keyIndent.
func (d *Decoder) decodeMappingEntryValue(keyIndent int) (*ast.Element, error) {
	tk, err := d.next()
	if err != nil {
		return nil, err
	}
	if tk.Type == token.LineSeparatorType {
		d.pushback(tk)
		return d.decodeIndentedValue(keyIndent)
	}
	d.pushback(tk)
	return d.decodeValue()
}

// decodeIndentedValue is reached when a mapping entry's colon is followed
// immediately by a newline: the value, if any, lives on subsequent lines.
// An entry with nothing following coerces to Null, and a block sequence
// value is allowed to share the key's own column.
func (d *Decoder) decodeIndentedValue(keyIndent int) (*ast.Element, error) {
	tk, err := d.nextSkippingBlank()
	if err != nil {
		return nil, err
	}
	if tk.Type == token.EOFType {
		d.pushback(tk)
		return ast.Null(), nil
	}
	col := columnOf(tk)
	if col < keyIndent {
		d.pushback(tk)
		return ast.Null(), nil
	}
	if tk.Type == token.MultilineListFlagType {
		// Accepted at the key's own column or indented further.
		d.pushback(tk)
		return d.decodeBlockSequence()
	}
	if tk.IsScalar() && col > keyIndent {
		tk2, err := d.next()
		if err != nil {
			return nil, err
		}
		if tk2.Type == token.ColonType {
			d.pushback(tk2)
			d.pushback(tk)
			return d.decodeBlockMapping()
		}
		d.pushback(tk2)
		return scalarElement(tk), nil
	}
	if tk.Type == token.FlowSequenceBeginType || tk.Type == token.FlowMapBeginType {
		d.pushback(tk)
		return d.decodeValue()
	}
	// A token at the key's own column that isn't a sequence marker ends
	// this (empty) entry; let the mapping loop reinterpret it as the next key.
	d.pushback(tk)
	return ast.Null(), nil
}

// decodeBlockSequence parses a block sequence whose first "-" marker is
// the next token (possibly already pushed back by the caller).
func (d *Decoder) decodeBlockSequence() (*ast.Element, error) {
	var items []*ast.Element
	seqIndent := -1
	for {
		var dash *token.Token
		var err error
		if seqIndent == -1 {
			dash, err = d.next()
		} else {
			dash, err = d.nextSkippingBlank()
		}
		if err != nil {
			return nil, err
		}
		if dash.Type == token.EOFType {
			d.pushback(dash)
			break
		}
		col := columnOf(dash)
		if seqIndent == -1 {
			seqIndent = col
		} else if dash.Type != token.MultilineListFlagType || col != seqIndent {
			d.pushback(dash)
			break
		}
		item, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return ast.Sequence(items...), nil
}

func (d *Decoder) decodeFlowSequence() (*ast.Element, error) {
	var items []*ast.Element
	tk, err := d.nextSkippingBlank()
	if err != nil {
		return nil, err
	}
	if tk.Type == token.FlowSequenceEndType {
		return ast.Sequence(), nil
	}
	for {
		d.pushback(tk)
		val, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		items = append(items, val)
		tk, err = d.nextSkippingBlank()
		if err != nil {
			return nil, err
		}
		switch tk.Type {
		case token.FlowSequenceEndType:
			return ast.Sequence(items...), nil
		case token.CommaType:
			tk, err = d.nextSkippingBlank()
			if err != nil {
				return nil, err
			}
			if tk.Type == token.FlowSequenceEndType {
				return ast.Sequence(items...), nil
			}
		default:
			return nil, yamlerr.NewUnexpectedToken(", or ]", tk.Type.String(), tk.Position)
		}
	}
}

func (d *Decoder) decodeFlowMapping() (*ast.Element, error) {
	var pairs []ast.Pair
	tk, err := d.nextSkippingBlank()
	if err != nil {
		return nil, err
	}
	if tk.Type == token.FlowMapEndType {
		return ast.Mapping(), nil
	}
	for {
		if !tk.IsScalar() {
			return nil, yamlerr.NewUnexpectedToken("a key", tk.Type.String(), tk.Position)
		}
		keyElem := scalarElement(tk)
		colon, err := d.nextSkippingBlank()
		if err != nil {
			return nil, err
		}
		if colon.Type != token.ColonType {
			return nil, yamlerr.NewUnexpectedToken(":", colon.Type.String(), colon.Position)
		}
		valElem, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ast.Pair{Key: keyElem, Value: valElem})
		tk, err = d.nextSkippingBlank()
		if err != nil {
			return nil, err
		}
		switch tk.Type {
		case token.FlowMapEndType:
			return ast.Mapping(pairs...), nil
		case token.CommaType:
			tk, err = d.nextSkippingBlank()
			if err != nil {
				return nil, err
			}
			if tk.Type == token.FlowMapEndType {
				return ast.Mapping(pairs...), nil
			}
		default:
			return nil, yamlerr.NewUnexpectedToken(", or }", tk.Type.String(), tk.Position)
		}
	}
}

// ---------------------------------------------------------------------
// Schema-directed decode
// ---------------------------------------------------------------------

// DecodeSchema decodes the whole input against desc, driving sink. It
// mirrors DecodeDynamic's grammar exactly, substituting descriptor-checked
// sink calls for dynamic tree construction.
func (d *Decoder) DecodeSchema(desc schema.Descriptor, sink schema.Sink) error {
	if err := d.decodeSchemaValue(desc, sink, "$"); err != nil {
		return err
	}
	_, err := d.drainTrailing()
	return err
}

func (d *Decoder) decodeSchemaValue(desc schema.Descriptor, sink schema.Sink, path string) error {
	switch desc.Kind() {
	case schema.ClassKind:
		return d.decodeSchemaComposite(desc, sink, path, true)
	case schema.MapKind:
		return d.decodeSchemaComposite(desc, sink, path, false)
	case schema.ListKind:
		return d.decodeSchemaList(desc, sink, path)
	default:
		return d.decodeSchemaScalar(desc, sink, path)
	}
}

func (d *Decoder) decodeSchemaScalar(desc schema.Descriptor, sink schema.Sink, path string) error {
	tk, err := d.next()
	if err != nil {
		return err
	}
	switch tk.Type {
	case token.LineSeparatorType:
		return d.decodeSchemaScalar(desc, sink, path)
	case token.FlowSequenceBeginType, token.FlowMapBeginType, token.MultilineListFlagType:
		return yamlerr.NewSchemaMismatch("Primitive", "composite", path)
	case token.StringNullType:
		return sink.PutNull()
	}
	if !tk.IsScalar() {
		return yamlerr.NewUnexpectedToken("a scalar", tk.Type.String(), tk.Position)
	}
	return putCoerced(sink, desc, tk.Value, path)
}

func putCoerced(sink schema.Sink, desc schema.Descriptor, text string, path string) error {
	if desc.Kind() == schema.EnumKind {
		return sink.PutString(text)
	}
	switch desc.Primitive() {
	case schema.BoolPrimitive:
		switch text {
		case "true", "yes", "on", "True", "YES", "ON":
			return sink.PutBool(true)
		case "false", "no", "off", "False", "NO", "OFF":
			return sink.PutBool(false)
		}
		return yamlerr.NewCoercionFailure(text, "bool")
	case schema.IntPrimitive:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return yamlerr.NewCoercionFailure(text, "int")
		}
		return sink.PutInt(v)
	case schema.FloatPrimitive:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return yamlerr.NewCoercionFailure(text, "float")
		}
		return sink.PutFloat(v)
	default:
		return sink.PutString(text)
	}
}

func (d *Decoder) decodeSchemaComposite(desc schema.Descriptor, sink schema.Sink, path string, isClass bool) error {
	tk, err := d.next()
	if err != nil {
		return err
	}
	switch tk.Type {
	case token.FlowMapBeginType:
		return d.decodeSchemaFlowComposite(desc, sink, path, isClass)
	case token.StringType, token.StringSingleType, token.StringDoubleType, token.StringNullType:
		tk2, err := d.next()
		if err != nil {
			return err
		}
		if tk2.Type != token.ColonType {
			return yamlerr.NewUnexpectedToken(":", tk2.Type.String(), tk2.Position)
		}
		d.pushback(tk2)
		d.pushback(tk)
		return d.decodeSchemaBlockComposite(desc, sink, path, isClass)
	default:
		kind := "Map"
		if isClass {
			kind = "Class"
		}
		return yamlerr.NewSchemaMismatch(kind, tk.Type.String(), path)
	}
}

func (d *Decoder) beginComposite(desc schema.Descriptor, sink schema.Sink, isClass bool) error {
	if isClass {
		return sink.BeginClass(desc)
	}
	return sink.BeginMap(desc)
}

func (d *Decoder) decodeSchemaBlockComposite(desc schema.Descriptor, sink schema.Sink, path string, isClass bool) error {
	if err := d.beginComposite(desc, sink, isClass); err != nil {
		return err
	}
	keyIndent := -1
	for {
		tk, err := d.next()
		if err != nil {
			return err
		}
		if tk.Type == token.LineSeparatorType {
			continue
		}
		if tk.Type == token.EOFType {
			d.pushback(tk)
			break
		}
		if !tk.IsScalar() {
			d.pushback(tk)
			break
		}
		col := columnOf(tk)
		if keyIndent == -1 {
			keyIndent = col
		} else if col != keyIndent {
			d.pushback(tk)
			break
		}
		colon, err := d.next()
		if err != nil {
			return err
		}
		if colon.Type != token.ColonType {
			return yamlerr.NewUnexpectedToken(":", colon.Type.String(), colon.Position)
		}
		key := tk.Value
		elemDesc, childSink, err := d.resolveField(desc, sink, isClass, key, path)
		if err != nil {
			return err
		}
		if err := d.decodeSchemaMappingEntryValue(elemDesc, childSink, keyIndent, path+"."+key); err != nil {
			return err
		}
	}
	return sink.EndComposite()
}

func (d *Decoder) resolveField(desc schema.Descriptor, sink schema.Sink, isClass bool, key, path string) (schema.Descriptor, schema.Sink, error) {
	if isClass {
		count := desc.ElementCount()
		idx := -1
		for i := 0; i < count; i++ {
			if desc.ElementName(i) == key {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, nil, yamlerr.NewUnknownKey(key, path)
		}
		childSink, ok, err := sink.Field(key)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, yamlerr.NewInvariantViolation("descriptor accepted key " + key + " but sink rejected it")
		}
		return desc.ElementDescriptor(idx), childSink, nil
	}
	childSink, ok, err := sink.Field(key)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, yamlerr.NewInvariantViolation("map sink rejected key " + key)
	}
	return desc.ElementDescriptor(0), childSink, nil
}

func (d *Decoder) decodeSchemaMappingEntryValue(desc schema.Descriptor, sink schema.Sink, keyIndent int, path string) error {
	tk, err := d.next()
	if err != nil {
		return err
	}
	if tk.Type != token.LineSeparatorType {
		d.pushback(tk)
		return d.decodeSchemaValue(desc, sink, path)
	}
	d.pushback(tk)
	nxt, err := d.nextSkippingBlank()
	if err != nil {
		return err
	}
	if nxt.Type == token.EOFType {
		d.pushback(nxt)
		return sink.PutNull()
	}
	col := columnOf(nxt)
	if col < keyIndent {
		d.pushback(nxt)
		return sink.PutNull()
	}
	if nxt.Type == token.MultilineListFlagType {
		d.pushback(nxt)
		return d.decodeSchemaList(desc, sink, path)
	}
	d.pushback(nxt)
	return d.decodeSchemaValue(desc, sink, path)
}

func (d *Decoder) decodeSchemaFlowComposite(desc schema.Descriptor, sink schema.Sink, path string, isClass bool) error {
	if err := d.beginComposite(desc, sink, isClass); err != nil {
		return err
	}
	tk, err := d.nextSkippingBlank()
	if err != nil {
		return err
	}
	if tk.Type == token.FlowMapEndType {
		return sink.EndComposite()
	}
	for {
		if !tk.IsScalar() {
			return yamlerr.NewUnexpectedToken("a key", tk.Type.String(), tk.Position)
		}
		colon, err := d.nextSkippingBlank()
		if err != nil {
			return err
		}
		if colon.Type != token.ColonType {
			return yamlerr.NewUnexpectedToken(":", colon.Type.String(), colon.Position)
		}
		key := tk.Value
		elemDesc, childSink, err := d.resolveField(desc, sink, isClass, key, path)
		if err != nil {
			return err
		}
		if err := d.decodeSchemaValue(elemDesc, childSink, path+"."+key); err != nil {
			return err
		}
		tk, err = d.nextSkippingBlank()
		if err != nil {
			return err
		}
		switch tk.Type {
		case token.FlowMapEndType:
			return sink.EndComposite()
		case token.CommaType:
			tk, err = d.nextSkippingBlank()
			if err != nil {
				return err
			}
			if tk.Type == token.FlowMapEndType {
				return sink.EndComposite()
			}
		default:
			return yamlerr.NewUnexpectedToken(", or }", tk.Type.String(), tk.Position)
		}
	}
}

func (d *Decoder) decodeSchemaList(desc schema.Descriptor, sink schema.Sink, path string) error {
	itemDesc := desc.ElementDescriptor(0)
	tk, err := d.next()
	if err != nil {
		return err
	}
	switch tk.Type {
	case token.FlowSequenceBeginType:
		if err := sink.BeginList(desc); err != nil {
			return err
		}
		return d.decodeSchemaFlowList(itemDesc, sink, path)
	case token.MultilineListFlagType:
		d.pushback(tk)
		if err := sink.BeginList(desc); err != nil {
			return err
		}
		return d.decodeSchemaBlockList(itemDesc, sink, path)
	default:
		return yamlerr.NewSchemaMismatch("List", tk.Type.String(), path)
	}
}

func (d *Decoder) decodeSchemaBlockList(itemDesc schema.Descriptor, sink schema.Sink, path string) error {
	seqIndent := -1
	idx := 0
	for {
		var dash *token.Token
		var err error
		if seqIndent == -1 {
			dash, err = d.next()
		} else {
			dash, err = d.nextSkippingBlank()
		}
		if err != nil {
			return err
		}
		if dash.Type == token.EOFType {
			d.pushback(dash)
			break
		}
		col := columnOf(dash)
		if seqIndent == -1 {
			seqIndent = col
		} else if dash.Type != token.MultilineListFlagType || col != seqIndent {
			d.pushback(dash)
			break
		}
		childSink, err := sink.NextElement()
		if err != nil {
			return err
		}
		if err := d.decodeSchemaValue(itemDesc, childSink, path+"["+strconv.Itoa(idx)+"]"); err != nil {
			return err
		}
		idx++
	}
	return sink.EndComposite()
}

func (d *Decoder) decodeSchemaFlowList(itemDesc schema.Descriptor, sink schema.Sink, path string) error {
	idx := 0
	tk, err := d.nextSkippingBlank()
	if err != nil {
		return err
	}
	if tk.Type == token.FlowSequenceEndType {
		return sink.EndComposite()
	}
	for {
		d.pushback(tk)
		childSink, err := sink.NextElement()
		if err != nil {
			return err
		}
		if err := d.decodeSchemaValue(itemDesc, childSink, path+"["+strconv.Itoa(idx)+"]"); err != nil {
			return err
		}
		idx++
		tk, err = d.nextSkippingBlank()
		if err != nil {
			return err
		}
		switch tk.Type {
		case token.FlowSequenceEndType:
			return sink.EndComposite()
		case token.CommaType:
			tk, err = d.nextSkippingBlank()
			if err != nil {
				return err
			}
			if tk.Type == token.FlowSequenceEndType {
				return sink.EndComposite()
			}
		default:
			return yamlerr.NewUnexpectedToken(", or ]", tk.Type.String(), tk.Position)
		}
	}
}
