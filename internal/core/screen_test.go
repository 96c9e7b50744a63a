package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(22, 22)

	if s.Width() != 22 {
		t.Errorf("Width() = %d, expected 22", s.Width())
	}
	if s.Height() != 22 {
		t.Errorf("Height() = %d, expected 22", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Errorf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColor(5, 5, 'O', ColorBrightGreen)
	cell := s.GetCell(5, 5)
	if cell.Rune != 'O' || cell.Color != ColorBrightGreen {
		t.Errorf("GetCell(5, 5) = %+v, expected {O BrightGreen}", cell)
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			s.SetColor(x, y, 'X', ColorRed)
		}
	}

	s.Clear()

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Errorf("After Clear(), cell (%d, %d) = %+v", x, y, c)
			}
		}
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(11, 1)
	s.DrawTextCentered(0, "abc", ColorYellow)

	if got := s.String(); got != "    abc    " {
		t.Errorf("String() = %q, expected %q", got, "    abc    ")
	}
	if c := s.GetCell(5, 0); c.Rune != 'b' || c.Color != ColorYellow {
		t.Errorf("GetCell(5, 0) = %+v, expected yellow b", c)
	}
}

func TestScreenDrawTextClips(t *testing.T) {
	s := NewScreen(4, 1)
	s.DrawText(2, 0, "xyz", ColorRed)

	if got := s.String(); got != "  xy" {
		t.Errorf("String() = %q, expected clipped text", got)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(4, 3)
	s.DrawBox(NewRect(0, 0, 4, 3), ColorGray)

	expected := strings.Join([]string{
		"┌──┐",
		"│  │",
		"└──┘",
	}, "\n")
	if got := s.String(); got != expected {
		t.Errorf("DrawBox output:\n%s\nexpected:\n%s", got, expected)
	}
	if s.GetCell(0, 0).Color != ColorGray {
		t.Error("Box corners should carry the box color")
	}
}
