// Package scanner implements a single-pass, forward-only lexer over a
// complete character buffer, with one token of explicit lookahead.
package scanner

import (
	"strconv"
	"strings"

	"github.com/corvantis/goyaml/token"
	"github.com/corvantis/goyaml/yamlerr"
)

// Scanner is a TokenStream. It owns its source buffer exclusively for the
// duration of one decode and must not be shared across goroutines.
type Scanner struct {
	src  []rune
	idx  int
	size int

	line   int
	col    int // 1-based column of idx within the current line
	offset int

	atLineHead bool

	cur   *token.Token
	reuse bool
}

// New returns a Scanner positioned at the start of src.
func New(src string) *Scanner {
	runes := []rune(src)
	return &Scanner{
		src:        runes,
		size:       len(runes),
		line:       1,
		col:        1,
		atLineHead: true,
	}
}

// Reuse causes the next call to Next to return the current token again
// without advancing the stream.
func (s *Scanner) Reuse() {
	s.reuse = true
}

func (s *Scanner) pos() *token.Position {
	return &token.Position{Line: s.line, Column: s.col, Offset: s.offset, Text: s.lineText()}
}

func (s *Scanner) lineText() string {
	start := s.idx
	for start > 0 && s.src[start-1] != '\n' {
		start--
	}
	end := s.idx
	for end < s.size && s.src[end] != '\n' {
		end++
	}
	return string(s.src[start:end])
}

func (s *Scanner) peek() (rune, bool) {
	if s.idx >= s.size {
		return 0, false
	}
	return s.src[s.idx], true
}

func (s *Scanner) peekAt(off int) (rune, bool) {
	i := s.idx + off
	if i < 0 || i >= s.size {
		return 0, false
	}
	return s.src[i], true
}

func (s *Scanner) advance() rune {
	ch := s.src[s.idx]
	s.idx++
	s.offset++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

// Next returns the next token in the stream, or an EOFType token at end of
// input. A malformed escape, unterminated quote, or tab found in leading
// indentation fails with a positional error. Brackets are returned as
// tokens without checking that they pair up; an unmatched closing bracket
// is rejected by the decoder as an unexpected token.
func (s *Scanner) Next() (*token.Token, error) {
	if s.reuse {
		s.reuse = false
		return s.cur, nil
	}
	tok, err := s.scan()
	if err != nil {
		return nil, err
	}
	s.cur = tok
	return tok, nil
}

func (s *Scanner) scan() (*token.Token, error) {
	for {
		ch, ok := s.peek()
		if !ok {
			return &token.Token{Type: token.EOFType, Position: s.pos()}, nil
		}

		switch {
		case ch == '\n':
			pos := s.pos()
			s.advance()
			if err := s.measureIndent(); err != nil {
				return nil, err
			}
			return &token.Token{Type: token.LineSeparatorType, Value: "\n", Position: pos}, nil

		case ch == ' ' || ch == '\t':
			s.advance()
			continue

		case ch == '#' && s.commentStarts():
			s.skipComment()
			continue

		case ch == '-' && s.atLineHead && s.followedByBlankOrEOF(1):
			pos := s.pos()
			s.advance()
			if next, ok := s.peek(); ok && (next == ' ' || next == '\t') {
				s.advance()
			}
			s.atLineHead = false
			return &token.Token{Type: token.MultilineListFlagType, Value: "-", Position: pos}, nil

		case ch == ':' && s.followedByBlankOrEOF(1):
			pos := s.pos()
			s.advance()
			s.atLineHead = false
			return &token.Token{Type: token.ColonType, Value: ":", Position: pos}, nil

		case ch == ',':
			pos := s.pos()
			s.advance()
			s.atLineHead = false
			return &token.Token{Type: token.CommaType, Value: ",", Position: pos}, nil

		case ch == '{':
			pos := s.pos()
			s.advance()
			s.atLineHead = false
			return &token.Token{Type: token.FlowMapBeginType, Value: "{", Position: pos}, nil

		case ch == '}':
			pos := s.pos()
			s.advance()
			s.atLineHead = false
			return &token.Token{Type: token.FlowMapEndType, Value: "}", Position: pos}, nil

		case ch == '[':
			pos := s.pos()
			s.advance()
			s.atLineHead = false
			return &token.Token{Type: token.FlowSequenceBeginType, Value: "[", Position: pos}, nil

		case ch == ']':
			pos := s.pos()
			s.advance()
			s.atLineHead = false
			return &token.Token{Type: token.FlowSequenceEndType, Value: "]", Position: pos}, nil

		case ch == '\'':
			return s.scanSingleQuoted()

		case ch == '"':
			return s.scanDoubleQuoted()

		default:
			return s.scanPlain()
		}
	}
}

// measureIndent consumes the leading whitespace of a freshly entered line.
// A tab among the leading spaces is rejected: tabs are tolerated inside
// scalars but not as indentation, since tab width is undefined and the
// decoder's indent comparisons require a single unambiguous unit.
func (s *Scanner) measureIndent() error {
	for {
		ch, ok := s.peek()
		if !ok || ch == '\n' {
			break
		}
		if ch == '\t' {
			return yamlerr.NewMalformedScalar("tab character in indentation", s.pos())
		}
		if ch != ' ' {
			break
		}
		s.advance()
	}
	s.atLineHead = true
	return nil
}

// commentStarts reports whether the '#' at the cursor begins a comment:
// it must be the first character of a token (line head) or be preceded by
// whitespace.
func (s *Scanner) commentStarts() bool {
	if s.atLineHead {
		return true
	}
	if s.idx == 0 {
		return true
	}
	prev := s.src[s.idx-1]
	return prev == ' ' || prev == '\t'
}

func (s *Scanner) skipComment() {
	for {
		ch, ok := s.peek()
		if !ok || ch == '\n' {
			return
		}
		s.advance()
	}
}

// followedByBlankOrEOF reports whether the character `off` runes ahead of
// the cursor is whitespace, a newline, or past end of input.
func (s *Scanner) followedByBlankOrEOF(off int) bool {
	ch, ok := s.peekAt(off)
	if !ok {
		return true
	}
	return ch == ' ' || ch == '\t' || ch == '\n'
}

func (s *Scanner) scanSingleQuoted() (*token.Token, error) {
	pos := s.pos()
	s.advance() // opening '
	var b strings.Builder
	pendingBreaks := 0
	for {
		ch, ok := s.peek()
		if !ok {
			return nil, yamlerr.NewMalformedScalar("unterminated single-quoted scalar", pos)
		}
		if ch == '\'' {
			s.advance()
			if next, ok := s.peek(); ok && next == '\'' {
				s.advance()
				flushFold(&b, &pendingBreaks)
				b.WriteRune('\'')
				continue
			}
			break
		}
		if ch == '\n' {
			s.advance()
			if err := s.measureIndent(); err != nil {
				return nil, err
			}
			pendingBreaks++
			continue
		}
		flushFold(&b, &pendingBreaks)
		b.WriteRune(s.advance())
	}
	s.atLineHead = false
	return &token.Token{Type: token.StringSingleType, Value: b.String(), Position: pos}, nil
}

// flushFold applies YAML line folding to pending newlines collected while
// scanning a quoted scalar: a single break folds to one space, N breaks
// fold to N-1 literal newlines.
func flushFold(b *strings.Builder, pendingBreaks *int) {
	switch *pendingBreaks {
	case 0:
	case 1:
		b.WriteByte(' ')
	default:
		for i := 0; i < *pendingBreaks-1; i++ {
			b.WriteByte('\n')
		}
	}
	*pendingBreaks = 0
}

func (s *Scanner) scanDoubleQuoted() (*token.Token, error) {
	pos := s.pos()
	s.advance() // opening "
	var b strings.Builder
	pendingBreaks := 0
	for {
		ch, ok := s.peek()
		if !ok {
			return nil, yamlerr.NewMalformedScalar("unterminated double-quoted scalar", pos)
		}
		if ch == '"' {
			s.advance()
			break
		}
		if ch == '\n' {
			s.advance()
			if err := s.measureIndent(); err != nil {
				return nil, err
			}
			pendingBreaks++
			continue
		}
		if ch == '\\' {
			flushFold(&b, &pendingBreaks)
			if err := s.scanEscape(&b); err != nil {
				return nil, err
			}
			continue
		}
		flushFold(&b, &pendingBreaks)
		b.WriteRune(s.advance())
	}
	s.atLineHead = false
	return &token.Token{Type: token.StringDoubleType, Value: b.String(), Position: pos}, nil
}

func (s *Scanner) scanEscape(b *strings.Builder) error {
	escPos := s.pos()
	s.advance() // backslash
	ch, ok := s.peek()
	if !ok {
		return yamlerr.NewMalformedScalar("unterminated escape sequence", escPos)
	}
	switch ch {
	case '\\':
		b.WriteRune(s.advance())
	case '"':
		b.WriteRune(s.advance())
	case '/':
		s.advance()
		b.WriteByte('/')
	case 'n':
		s.advance()
		b.WriteByte('\n')
	case 't':
		s.advance()
		b.WriteByte('\t')
	case 'r':
		s.advance()
		b.WriteByte('\r')
	case '0':
		s.advance()
		b.WriteByte(0)
	case 'b':
		s.advance()
		b.WriteByte('\b')
	case 'f':
		s.advance()
		b.WriteByte('\f')
	case '\n':
		s.advance()
		if err := s.measureIndent(); err != nil {
			return err
		}
		for {
			next, ok := s.peek()
			if !ok || (next != ' ' && next != '\t') {
				break
			}
			s.advance()
		}
	case 'x':
		s.advance()
		r, err := s.readHex(2, escPos)
		if err != nil {
			return err
		}
		b.WriteRune(r)
	case 'u':
		s.advance()
		r, err := s.readHex(4, escPos)
		if err != nil {
			return err
		}
		b.WriteRune(r)
	default:
		return yamlerr.NewMalformedScalar("unknown escape \\"+string(ch), escPos)
	}
	return nil
}

func (s *Scanner) readHex(n int, escPos *token.Position) (rune, error) {
	start := s.idx
	for i := 0; i < n; i++ {
		ch, ok := s.peek()
		if !ok || !isHexDigit(ch) {
			return 0, yamlerr.NewMalformedScalar("invalid hex escape", escPos)
		}
		s.advance()
	}
	v, err := strconv.ParseInt(string(s.src[start:s.idx]), 16, 32)
	if err != nil {
		return 0, yamlerr.NewMalformedScalar("invalid hex escape", escPos)
	}
	return rune(v), nil
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// scanPlain reads a plain scalar up to the next YAML structural character:
// ':' followed by whitespace, ',', ']', '}', '#' preceded by whitespace, or
// a newline. Trailing whitespace is trimmed. A result matching one of the
// recognized null spellings is returned as a StringNullType token.
func (s *Scanner) scanPlain() (*token.Token, error) {
	pos := s.pos()
	var b strings.Builder
	for {
		ch, ok := s.peek()
		if !ok {
			break
		}
		if ch == '\n' {
			break
		}
		if ch == ':' && s.followedByBlankOrEOF(1) {
			break
		}
		if ch == ',' || ch == ']' || ch == '}' {
			break
		}
		if ch == '#' {
			if prev, ok := s.peekAt(-1); ok && (prev == ' ' || prev == '\t') {
				break
			}
		}
		b.WriteRune(s.advance())
	}
	s.atLineHead = false
	text := strings.TrimRight(b.String(), " \t")
	if token.IsNullLiteral(text) {
		return &token.Token{Type: token.StringNullType, Value: "", Position: pos}, nil
	}
	return &token.Token{Type: token.StringType, Value: text, Position: pos}, nil
}
