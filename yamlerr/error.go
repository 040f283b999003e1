// Package yamlerr defines the error taxonomy shared by the scanner,
// decoder and encoder. Every error the core returns is one of the
// concrete kinds below; none of them overlaps with ordinary control flow.
package yamlerr

import (
	"fmt"

	"github.com/corvantis/goyaml/token"
	"golang.org/x/xerrors"
)

// UnexpectedToken is returned by the decoder when a structural token does
// not match what the grammar expects at that point.
type UnexpectedToken struct {
	Expected string
	Got      string
	Position *token.Position
	frame    xerrors.Frame
}

func NewUnexpectedToken(expected, got string, pos *token.Position) error {
	return &UnexpectedToken{Expected: expected, Got: got, Position: pos, frame: xerrors.Caller(1)}
}

func (e *UnexpectedToken) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Position, e.Expected, e.Got)
}

func (e *UnexpectedToken) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	if p.Detail() {
		e.frame.Format(p)
	}
	return nil
}

// MalformedScalar is returned by the scanner for a bad escape sequence, an
// unterminated quoted scalar, or a tab found in leading indentation.
type MalformedScalar struct {
	Reason   string
	Position *token.Position
	frame    xerrors.Frame
}

func NewMalformedScalar(reason string, pos *token.Position) error {
	return &MalformedScalar{Reason: reason, Position: pos, frame: xerrors.Caller(1)}
}

func (e *MalformedScalar) Error() string {
	return fmt.Sprintf("%s: malformed scalar: %s", e.Position, e.Reason)
}

func (e *MalformedScalar) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	if p.Detail() {
		e.frame.Format(p)
	}
	return nil
}

// SchemaMismatch is returned by schema-directed decode when the stream's
// structure is incompatible with the descriptor at path.
type SchemaMismatch struct {
	ExpectedKind string
	EncounteredKind string
	Path         string
	frame        xerrors.Frame
}

func NewSchemaMismatch(expectedKind, encounteredKind, path string) error {
	return &SchemaMismatch{ExpectedKind: expectedKind, EncounteredKind: encounteredKind, Path: path, frame: xerrors.Caller(1)}
}

func (e *SchemaMismatch) Error() string {
	return fmt.Sprintf("%s: expected %s, encountered %s", e.Path, e.ExpectedKind, e.EncounteredKind)
}

func (e *SchemaMismatch) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	if p.Detail() {
		e.frame.Format(p)
	}
	return nil
}

// UnknownKey is returned by strict schema-directed decode when a mapping
// key has no corresponding descriptor element.
type UnknownKey struct {
	Key           string
	ContainerPath string
	frame         xerrors.Frame
}

func NewUnknownKey(key, containerPath string) error {
	return &UnknownKey{Key: key, ContainerPath: containerPath, frame: xerrors.Caller(1)}
}

func (e *UnknownKey) Error() string {
	return fmt.Sprintf("%s: unknown key %q", e.ContainerPath, e.Key)
}

func (e *UnknownKey) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	if p.Detail() {
		e.frame.Format(p)
	}
	return nil
}

// CoercionFailure is returned when a decoded scalar's text cannot be
// coerced to the primitive type the descriptor or sink requested.
type CoercionFailure struct {
	Text            string
	TargetPrimitive string
	frame           xerrors.Frame
}

func NewCoercionFailure(text, targetPrimitive string) error {
	return &CoercionFailure{Text: text, TargetPrimitive: targetPrimitive, frame: xerrors.Caller(1)}
}

func (e *CoercionFailure) Error() string {
	return fmt.Sprintf("cannot coerce %q to %s", e.Text, e.TargetPrimitive)
}

func (e *CoercionFailure) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	if p.Detail() {
		e.frame.Format(p)
	}
	return nil
}

// UnsupportedFeature names something the codec deliberately does not
// implement. The scanner, decoder and encoder do not construct it: block
// scalar indicators ("|", ">") are scanned as plain text, and anchors and
// directives are not recognized as such.
type UnsupportedFeature struct {
	Name  string
	frame xerrors.Frame
}

func NewUnsupportedFeature(name string) error {
	return &UnsupportedFeature{Name: name, frame: xerrors.Caller(1)}
}

func (e *UnsupportedFeature) Error() string {
	return fmt.Sprintf("unsupported feature: %s", e.Name)
}

func (e *UnsupportedFeature) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	if p.Detail() {
		e.frame.Format(p)
	}
	return nil
}

// InvariantViolation reports a broken contract rather than bad input: an
// encoder or decoder state that consistent descriptors, sources and sinks
// never produce, or a facade call with an unusable argument (Unmarshal
// given a nil or non-pointer target).
type InvariantViolation struct {
	Detail string
	frame  xerrors.Frame
}

func NewInvariantViolation(detail string) error {
	return &InvariantViolation{Detail: detail, frame: xerrors.Caller(1)}
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Detail)
}

func (e *InvariantViolation) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	if p.Detail() {
		e.frame.Format(p)
	}
	return nil
}

// Wrapf wraps err with additional context, preserving the xerrors chain
// for %w unwrapping and frame-aware formatting.
func Wrapf(err error, msg string, args ...interface{}) error {
	return xerrors.Errorf(msg+": %w", append(args, err)...)
}

// IsUnexpectedToken reports whether err is (or wraps) an *UnexpectedToken.
func IsUnexpectedToken(err error) bool {
	var target *UnexpectedToken
	return xerrors.As(err, &target)
}

// IsMalformedScalar reports whether err is (or wraps) a *MalformedScalar.
func IsMalformedScalar(err error) bool {
	var target *MalformedScalar
	return xerrors.As(err, &target)
}

// IsSchemaMismatch reports whether err is (or wraps) a *SchemaMismatch.
func IsSchemaMismatch(err error) bool {
	var target *SchemaMismatch
	return xerrors.As(err, &target)
}

// IsUnknownKey reports whether err is (or wraps) an *UnknownKey.
func IsUnknownKey(err error) bool {
	var target *UnknownKey
	return xerrors.As(err, &target)
}

// IsCoercionFailure reports whether err is (or wraps) a *CoercionFailure.
func IsCoercionFailure(err error) bool {
	var target *CoercionFailure
	return xerrors.As(err, &target)
}

// IsUnsupportedFeature reports whether err is (or wraps) an *UnsupportedFeature.
func IsUnsupportedFeature(err error) bool {
	var target *UnsupportedFeature
	return xerrors.As(err, &target)
}

// PositionOf extracts the *token.Position carried by err, if any.
func PositionOf(err error) *token.Position {
	var ut *UnexpectedToken
	if xerrors.As(err, &ut) {
		return ut.Position
	}
	var ms *MalformedScalar
	if xerrors.As(err, &ms) {
		return ms.Position
	}
	return nil
}
