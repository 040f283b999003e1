package writer_test

import (
	"testing"

	"github.com/corvantis/goyaml/internal/writer"
)

func TestSmartIndentIsIdempotentPerLine(t *testing.T) {
	w := writer.New()
	w.LevelIncrease()
	w.WriteIndentSmart()
	w.WriteString("key:")
	w.WriteIndentSmart() // should be a no-op: indent already written this line
	w.WriteString(" value")
	w.Writeln()
	w.WriteIndentSmart()
	w.WriteString("next:")

	want := "  key: value\n  next:"
	if got := w.String(); got != want {
		t.Fatalf("String() = %q; want %q", got, want)
	}
}

func TestLevelDecreaseFloorsAtZero(t *testing.T) {
	w := writer.New()
	w.LevelDecrease()
	if w.Level() != 0 {
		t.Fatalf("Level() = %d; want 0", w.Level())
	}
	w.LevelIncrease()
	w.LevelIncrease()
	w.LevelDecrease()
	if w.Level() != 1 {
		t.Fatalf("Level() = %d; want 1", w.Level())
	}
}

func TestWriteIndentedSmart(t *testing.T) {
	w := writer.NewWithIndent(4)
	w.LevelIncrease()
	w.WriteIndentedSmart("- item")
	if got, want := w.String(), "    - item"; got != want {
		t.Fatalf("String() = %q; want %q", got, want)
	}
}

func TestWritelnString(t *testing.T) {
	w := writer.New()
	w.WritelnString("a")
	w.WriteIndentSmart()
	w.WriteString("b")
	if got, want := w.String(), "a\nb"; got != want {
		t.Fatalf("String() = %q; want %q", got, want)
	}
}
