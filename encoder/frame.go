package encoder

import (
	"strings"

	"github.com/corvantis/goyaml/internal/writer"
)

// frameKind tags the five presentation roles a composite can be emitted in.
type frameKind int

const (
	frameBlockMapOrClass frameKind = iota
	frameBlockSequence
	frameFlowMapOrClass
	frameFlowSequence
	frameEmptySequence
)

// frame is one composite's open/close bookkeeping on the encoder's stack.
type frame struct {
	kind    frameKind
	leveled bool // whether this frame's push incremented the level
}

// valuePosition tells a composite value how it was reached, which decides
// whether it needs a leading newline before its first line of output.
type valuePosition int

const (
	posRoot valuePosition = iota
	posMappingEntry
	posListItem
)

type frameStack struct {
	w      *writer.Writer
	frames []*frame
}

func newFrameStack(w *writer.Writer) *frameStack {
	return &frameStack{w: w}
}

// inFlow reports whether the innermost open frame is a flow frame: a
// composite opened inside a Flow frame is forced Flow too.
func (s *frameStack) inFlow() bool {
	if len(s.frames) == 0 {
		return false
	}
	top := s.frames[len(s.frames)-1].kind
	return top == frameFlowMapOrClass || top == frameFlowSequence
}

// push opens a frame, always incrementing the writer's indent level. Use
// this whenever the composite is reached as a mapping entry or a list
// item: its own keys/items render one level deeper than their container.
// Elements inside a flow collection are encoded with posRoot instead, so
// composites nested in flow are opened unleveled (flow output stays on one
// line, where the level has no effect).
func (s *frameStack) push(kind frameKind) *frame {
	f := &frame{kind: kind, leveled: true}
	s.frames = append(s.frames, f)
	s.w.LevelIncrease()
	return f
}

// pushUnleveled opens a frame without touching the writer's indent level:
// its own keys/items render at the current level rather than one deeper.
func (s *frameStack) pushUnleveled(kind frameKind) *frame {
	f := &frame{kind: kind}
	s.frames = append(s.frames, f)
	return f
}

// pushRoot opens a frame for the top-level encoded value, which has no
// container to be indented relative to: its own keys/items render at
// level 0, so the level is left untouched.
func (s *frameStack) pushRoot(kind frameKind) *frame {
	return s.pushUnleveled(kind)
}

// pushBlockSequenceValue opens a BlockSequence frame. When asMappingValue
// is true (the sequence is the value of a BlockMapOrClass entry), the
// frame is opened unleveled so the sequence's "- " items land at the
// parent key's own column instead of one level deeper. root is true when
// this BlockSequence is itself the top-level encoded value, which gets
// the same unleveled treatment for the same reason (no container to
// indent relative to).
func (s *frameStack) pushBlockSequenceValue(asMappingValue, root bool) *frame {
	if asMappingValue || root {
		return s.pushUnleveled(frameBlockSequence)
	}
	return s.push(frameBlockSequence)
}

// pop closes the innermost frame, decrementing the level if its push did so.
func (s *frameStack) pop() {
	n := len(s.frames)
	f := s.frames[n-1]
	s.frames = s.frames[:n-1]
	if f.leveled {
		s.w.LevelDecrease()
	}
}

// dashPrefix is the BlockSequence item marker, padded to the configured
// indent width so a multi-line item's later keys line up under its first
// key rather than under the dash.
func dashPrefix(width int) string {
	if width <= 1 {
		return "- "
	}
	return "-" + strings.Repeat(" ", width-1)
}
