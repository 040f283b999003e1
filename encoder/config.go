package encoder

// Presentation selects block or flow layout for a Class or Map.
type Presentation int

const (
	Block Presentation = iota
	Flow
)

// ListPresentation selects block, flow, or automatic layout for a List.
type ListPresentation int

const (
	ListBlock ListPresentation = iota
	ListFlow
	ListAuto
)

// StringMode selects how string scalars are quoted.
type StringMode int

const (
	StringNone StringMode = iota
	StringDoubleQuoted
	StringSingleQuoted
)

// Config is the immutable record governing one encode. Construct it with
// NewConfig and the Option functions; it is read-only once built and safe
// to share across concurrent encodes.
type Config struct {
	ClassSerialization  Presentation
	MapSerialization    Presentation
	ListSerialization   ListPresentation
	StringSerialization StringMode
	BooleanTrue         string
	BooleanFalse        string
	NullLiteral         string
	EncodeDefaultValues bool
	IndentWidth         int
}

// Option mutates a Config under construction.
type Option func(*Config)

// NewConfig builds a Config, applying opts over the documented defaults:
// block classes and maps, automatic lists, unquoted strings, "true"/
// "false" booleans, "null" nulls, default-valued fields included, and a
// two-space indent.
func NewConfig(opts ...Option) Config {
	cfg := Config{
		ClassSerialization:  Block,
		MapSerialization:    Block,
		ListSerialization:   ListAuto,
		StringSerialization: StringNone,
		BooleanTrue:         "true",
		BooleanFalse:        "false",
		NullLiteral:         "null",
		EncodeDefaultValues: true,
		IndentWidth:         2,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func WithClassSerialization(p Presentation) Option {
	return func(c *Config) { c.ClassSerialization = p }
}

func WithMapSerialization(p Presentation) Option {
	return func(c *Config) { c.MapSerialization = p }
}

func WithListSerialization(l ListPresentation) Option {
	return func(c *Config) { c.ListSerialization = l }
}

func WithStringSerialization(s StringMode) Option {
	return func(c *Config) { c.StringSerialization = s }
}

// WithBooleanSerialization sets the literals used for true/false. The
// YesNo/OnOff/TrueFalse helpers below supply three common presets by name.
func WithBooleanSerialization(trueStr, falseStr string) Option {
	return func(c *Config) { c.BooleanTrue, c.BooleanFalse = trueStr, falseStr }
}

func WithNullSerialization(literal string) Option {
	return func(c *Config) { c.NullLiteral = literal }
}

func WithEncodeDefaultValues(v bool) Option {
	return func(c *Config) { c.EncodeDefaultValues = v }
}

func WithIndentWidth(n int) Option {
	return func(c *Config) { c.IndentWidth = n }
}

// TrueFalse, YesNo and OnOff are the three named boolean presets.
var (
	TrueFalse = WithBooleanSerialization("true", "false")
	YesNo     = WithBooleanSerialization("yes", "no")
	OnOff     = WithBooleanSerialization("on", "off")
)
