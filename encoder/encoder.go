// Package encoder walks either a dynamic ast.Element tree or a
// schema.Descriptor/schema.Source pair and drives a writer.Writer,
// choosing block vs. flow presentation at each level per Config.
package encoder

import (
	"strconv"

	"github.com/corvantis/goyaml/ast"
	"github.com/corvantis/goyaml/internal/writer"
	"github.com/corvantis/goyaml/schema"
	"github.com/corvantis/goyaml/yamlerr"
)

// Encoder drives one or more encode calls sharing the same Config. Config
// is immutable and may be shared across goroutines; each Encode* call
// constructs and owns its own Writer exclusively.
type Encoder struct {
	cfg Config
}

// New returns an Encoder using cfg for every subsequent encode call.
func New(cfg Config) *Encoder {
	return &Encoder{cfg: cfg}
}

type base struct {
	cfg    Config
	w      *writer.Writer
	frames *frameStack
}

// pushFor opens a frame for a composite reached at pos: the root value
// renders at level 0, everything else renders one level deeper than its
// container.
func (b *base) pushFor(kind frameKind, pos valuePosition) *frame {
	if pos == posRoot {
		return b.frames.pushRoot(kind)
	}
	return b.frames.push(kind)
}

func (b *base) resolveMapKind(p Presentation) frameKind {
	if b.frames.inFlow() || p == Flow {
		return frameFlowMapOrClass
	}
	return frameBlockMapOrClass
}

func (b *base) resolveListKind(nonEmpty, primitiveKinded bool) frameKind {
	if !nonEmpty {
		return frameEmptySequence
	}
	if b.frames.inFlow() {
		return frameFlowSequence
	}
	switch b.cfg.ListSerialization {
	case ListFlow:
		return frameFlowSequence
	case ListBlock:
		return frameBlockSequence
	default:
		if primitiveKinded {
			return frameFlowSequence
		}
		return frameBlockSequence
	}
}

// writeScalarText applies the configured scalar quoting style, falling
// back to double-quoting when a plain scalar would need quoting.
func (b *base) writeScalarText(text string) {
	switch b.cfg.StringSerialization {
	case StringDoubleQuoted:
		b.writeDoubleQuoted(text)
	case StringSingleQuoted:
		b.w.Write('\'')
		b.w.WriteString(escapeSingleQuoted(text))
		b.w.Write('\'')
	default:
		if needsQuoting(text) {
			b.writeDoubleQuoted(text)
		} else {
			b.w.WriteString(text)
		}
	}
}

func (b *base) writeDoubleQuoted(text string) {
	b.w.Write('"')
	buf := escapeDoubleQuoted(text, b.w.EscapeBuf())
	b.w.WriteString(string(buf))
	b.w.SetEscapeBuf(buf)
	b.w.Write('"')
}

// writeMappingValueSpace writes the single space separating "key:" from an
// inline value (scalar, flow collection, or empty collection). A block
// composite value is separated by a newline instead, so it skips this.
func (b *base) writeMappingValueSpace(pos valuePosition) {
	if pos == posMappingEntry {
		b.w.Write(' ')
	}
}

func (b *base) writeComments(annotations []schema.Annotation) {
	for _, a := range annotations {
		if a.Kind != schema.CommentAnnotation {
			continue
		}
		for _, line := range a.Lines {
			b.w.WriteIndentedSmart("# " + line)
			b.w.Writeln()
		}
	}
}

// ---------------------------------------------------------------------
// Dynamic encode
// ---------------------------------------------------------------------

// EncodeDynamic renders a dynamic ast.Element tree. The root gets a
// trailing newline when it is composite, none when it is a bare scalar
// or Null.
func (e *Encoder) EncodeDynamic(root *ast.Element) (string, error) {
	w := writer.NewWithIndent(e.cfg.IndentWidth)
	c := &dynCoder{base{cfg: e.cfg, w: w, frames: newFrameStack(w)}}
	if err := c.writeValue(root, posRoot); err != nil {
		return "", err
	}
	if root != nil && (root.Kind() == ast.SequenceKind || root.Kind() == ast.MappingKind) {
		w.Writeln()
	}
	return w.String(), nil
}

type dynCoder struct {
	base
}

func (c *dynCoder) writeValue(elem *ast.Element, pos valuePosition) error {
	switch elem.Kind() {
	case ast.NullKind:
		c.writeMappingValueSpace(pos)
		c.w.WriteString(c.cfg.NullLiteral)
		return nil
	case ast.ScalarKind:
		c.writeMappingValueSpace(pos)
		text, _ := elem.ScalarValue()
		c.writeScalarText(text)
		return nil
	case ast.SequenceKind:
		return c.writeSequence(elem.Items(), pos)
	case ast.MappingKind:
		return c.writeMapping(elem.Pairs(), pos)
	}
	return yamlerr.NewInvariantViolation("unknown ast.Kind")
}

func (c *dynCoder) writeSequence(items []*ast.Element, pos valuePosition) error {
	primitiveKinded := len(items) > 0 && (items[0].Kind() == ast.ScalarKind || items[0].Kind() == ast.NullKind)
	switch c.resolveListKind(len(items) > 0, primitiveKinded) {
	case frameEmptySequence:
		c.writeMappingValueSpace(pos)
		c.w.WriteString("[]")
		return nil
	case frameFlowSequence:
		c.writeMappingValueSpace(pos)
		c.pushFor(frameFlowSequence, pos)
		c.w.WriteString("[ ")
		for i, item := range items {
			if i > 0 {
				c.w.WriteString(", ")
			}
			if err := c.writeValue(item, posRoot); err != nil {
				return err
			}
		}
		c.w.WriteString(" ]")
		c.frames.pop()
		return nil
	default:
		if pos == posMappingEntry {
			c.w.Writeln()
		}
		c.frames.pushBlockSequenceValue(pos == posMappingEntry, pos == posRoot)
		for i, item := range items {
			if i > 0 {
				c.w.Writeln()
			}
			c.w.WriteIndentedSmart(dashPrefix(c.cfg.IndentWidth))
			if err := c.writeValue(item, posListItem); err != nil {
				return err
			}
		}
		c.frames.pop()
		return nil
	}
}

func (c *dynCoder) writeMapping(pairs []ast.Pair, pos valuePosition) error {
	if len(pairs) == 0 {
		c.writeMappingValueSpace(pos)
		c.w.WriteString("{}")
		return nil
	}
	switch c.resolveMapKind(c.cfg.MapSerialization) {
	case frameFlowMapOrClass:
		c.writeMappingValueSpace(pos)
		c.pushFor(frameFlowMapOrClass, pos)
		c.w.WriteString("{ ")
		for i, p := range pairs {
			if i > 0 {
				c.w.WriteString(", ")
			}
			keyText, _ := p.Key.ScalarValue()
			c.w.WriteString(keyText + ": ")
			if err := c.writeValue(p.Value, posRoot); err != nil {
				return err
			}
		}
		c.w.WriteString(" }")
		c.frames.pop()
		return nil
	default:
		if pos == posMappingEntry {
			c.w.Writeln()
		}
		c.pushFor(frameBlockMapOrClass, pos)
		for i, p := range pairs {
			if i > 0 {
				c.w.Writeln()
			}
			keyText, _ := p.Key.ScalarValue()
			c.w.WriteIndentedSmart(keyText + ":")
			if err := c.writeValue(p.Value, posMappingEntry); err != nil {
				return err
			}
		}
		c.frames.pop()
		return nil
	}
}

// ---------------------------------------------------------------------
// Schema-directed encode
// ---------------------------------------------------------------------

// EncodeSchema renders src as described by desc: the schema-directed
// inverse of decoder.DecodeSchema.
func (e *Encoder) EncodeSchema(desc schema.Descriptor, src schema.Source) (string, error) {
	w := writer.NewWithIndent(e.cfg.IndentWidth)
	c := &schemaCoder{base{cfg: e.cfg, w: w, frames: newFrameStack(w)}}
	if err := c.writeValue(desc, src, posRoot); err != nil {
		return "", err
	}
	if desc.Kind() == schema.ClassKind || desc.Kind() == schema.MapKind || desc.Kind() == schema.ListKind {
		w.Writeln()
	}
	return w.String(), nil
}

type schemaCoder struct {
	base
}

func (c *schemaCoder) writeValue(desc schema.Descriptor, src schema.Source, pos valuePosition) error {
	if src == nil || src.IsNull() {
		c.writeMappingValueSpace(pos)
		c.w.WriteString(c.cfg.NullLiteral)
		return nil
	}
	switch desc.Kind() {
	case schema.ClassKind:
		return c.writeComposite(desc, src, pos, true)
	case schema.MapKind:
		return c.writeComposite(desc, src, pos, false)
	case schema.ListKind:
		return c.writeList(desc, src, pos)
	case schema.EnumKind:
		text, err := src.String()
		if err != nil {
			return err
		}
		c.writeMappingValueSpace(pos)
		c.writeScalarText(text)
		return nil
	default:
		c.writeMappingValueSpace(pos)
		return c.writePrimitive(desc, src)
	}
}

func (c *schemaCoder) writePrimitive(desc schema.Descriptor, src schema.Source) error {
	switch desc.Primitive() {
	case schema.BoolPrimitive:
		v, err := src.Bool()
		if err != nil {
			return err
		}
		if v {
			c.w.WriteString(c.cfg.BooleanTrue)
		} else {
			c.w.WriteString(c.cfg.BooleanFalse)
		}
	case schema.IntPrimitive:
		v, err := src.Int()
		if err != nil {
			return err
		}
		c.w.WriteString(strconv.FormatInt(v, 10))
	case schema.FloatPrimitive:
		v, err := src.Float()
		if err != nil {
			return err
		}
		c.w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		v, err := src.String()
		if err != nil {
			return err
		}
		c.writeScalarText(v)
	}
	return nil
}

// isDefaultField reports whether a Class field's current value equals the
// zero value for its kind; these are the fields encodeDefaultValues=false
// suppresses (see DESIGN.md).
func isDefaultField(fieldDesc schema.Descriptor, fieldSrc schema.Source) bool {
	if fieldSrc == nil || fieldSrc.IsNull() {
		return true
	}
	switch fieldDesc.Kind() {
	case schema.PrimitiveKind:
		switch fieldDesc.Primitive() {
		case schema.BoolPrimitive:
			v, _ := fieldSrc.Bool()
			return !v
		case schema.IntPrimitive:
			v, _ := fieldSrc.Int()
			return v == 0
		case schema.FloatPrimitive:
			v, _ := fieldSrc.Float()
			return v == 0
		default:
			v, _ := fieldSrc.String()
			return v == ""
		}
	case schema.ListKind:
		return fieldSrc.Len() == 0
	case schema.MapKind:
		return fieldSrc.ElementCount() == 0
	}
	return false
}

func (c *schemaCoder) writeComposite(desc schema.Descriptor, src schema.Source, pos valuePosition, isClass bool) error {
	count := src.ElementCount()
	type entry struct {
		name string
		desc schema.Descriptor
		src  schema.Source
		ann  []schema.Annotation
	}
	entries := make([]entry, 0, count)
	for i := 0; i < count; i++ {
		name := src.ElementName(i)
		childSrc, err := src.ElementSource(i)
		if err != nil {
			return err
		}
		var childDesc schema.Descriptor
		var ann []schema.Annotation
		if isClass {
			idx := -1
			for j := 0; j < desc.ElementCount(); j++ {
				if desc.ElementName(j) == name {
					idx = j
					break
				}
			}
			if idx == -1 {
				return yamlerr.NewInvariantViolation("source field " + name + " has no descriptor element")
			}
			childDesc = desc.ElementDescriptor(idx)
			ann = desc.ElementAnnotations(idx)
			if !c.cfg.EncodeDefaultValues && isDefaultField(childDesc, childSrc) {
				continue
			}
		} else {
			childDesc = desc.ElementDescriptor(0)
		}
		entries = append(entries, entry{name: name, desc: childDesc, src: childSrc, ann: ann})
	}

	presentationCfg := c.cfg.MapSerialization
	if isClass {
		presentationCfg = c.cfg.ClassSerialization
	}
	if len(entries) == 0 {
		c.writeMappingValueSpace(pos)
		c.w.WriteString("{}")
		return nil
	}
	switch c.resolveMapKind(presentationCfg) {
	case frameFlowMapOrClass:
		c.writeMappingValueSpace(pos)
		c.pushFor(frameFlowMapOrClass, pos)
		c.w.WriteString("{ ")
		for i, e := range entries {
			if i > 0 {
				c.w.WriteString(", ")
			}
			c.w.WriteString(e.name + ": ")
			if err := c.writeValue(e.desc, e.src, posRoot); err != nil {
				return err
			}
		}
		c.w.WriteString(" }")
		c.frames.pop()
		return nil
	default:
		if pos == posMappingEntry {
			c.w.Writeln()
		}
		c.pushFor(frameBlockMapOrClass, pos)
		for i, e := range entries {
			if i > 0 {
				c.w.Writeln()
			}
			c.writeComments(e.ann)
			c.w.WriteIndentedSmart(e.name + ":")
			if err := c.writeValue(e.desc, e.src, posMappingEntry); err != nil {
				return err
			}
		}
		c.frames.pop()
		return nil
	}
}

func (c *schemaCoder) writeList(desc schema.Descriptor, src schema.Source, pos valuePosition) error {
	n := src.Len()
	itemDesc := desc.ElementDescriptor(0)
	primitiveKinded := itemDesc != nil && (itemDesc.Kind() == schema.PrimitiveKind || itemDesc.Kind() == schema.EnumKind)
	switch c.resolveListKind(n > 0, primitiveKinded) {
	case frameEmptySequence:
		c.writeMappingValueSpace(pos)
		c.w.WriteString("[]")
		return nil
	case frameFlowSequence:
		c.writeMappingValueSpace(pos)
		c.pushFor(frameFlowSequence, pos)
		c.w.WriteString("[ ")
		for i := 0; i < n; i++ {
			if i > 0 {
				c.w.WriteString(", ")
			}
			itemSrc, err := src.IndexSource(i)
			if err != nil {
				return err
			}
			if err := c.writeValue(itemDesc, itemSrc, posRoot); err != nil {
				return err
			}
		}
		c.w.WriteString(" ]")
		c.frames.pop()
		return nil
	default:
		if pos == posMappingEntry {
			c.w.Writeln()
		}
		c.frames.pushBlockSequenceValue(pos == posMappingEntry, pos == posRoot)
		for i := 0; i < n; i++ {
			if i > 0 {
				c.w.Writeln()
			}
			c.w.WriteIndentedSmart(dashPrefix(c.cfg.IndentWidth))
			itemSrc, err := src.IndexSource(i)
			if err != nil {
				return err
			}
			if err := c.writeValue(itemDesc, itemSrc, posListItem); err != nil {
				return err
			}
		}
		c.frames.pop()
		return nil
	}
}
