package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(m TreeModel, keys ...string) TreeModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(TreeModel)
	}
	return m
}

func TestTreeModelInitialLines(t *testing.T) {
	m := NewTreeModel("sample", sampleForest(), []string{"X"})
	// P is expanded, A is not: P, A, X.
	if len(m.Lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(m.Lines))
	}
}

func TestTreeModelToggle(t *testing.T) {
	m := NewTreeModel("sample", sampleForest(), nil)

	m = press(m, "j", "enter")
	if m.current().ID != "A" || !m.current().Expanded {
		t.Fatalf("cursor on %s expanded=%v, want A expanded", m.current().ID, m.current().Expanded)
	}
	if len(m.Lines) != 4 {
		t.Errorf("got %d lines after expanding A, want 4", len(m.Lines))
	}

	m = press(m, "enter")
	if len(m.Lines) != 3 {
		t.Errorf("got %d lines after collapsing A, want 3", len(m.Lines))
	}
}

func TestTreeModelNavigation(t *testing.T) {
	m := NewTreeModel("sample", sampleForest(), nil)

	m = press(m, "k")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d after moving above the top, want 0", m.Cursor)
	}
	m = press(m, "G")
	if m.Cursor != len(m.Lines)-1 {
		t.Errorf("cursor = %d after G, want %d", m.Cursor, len(m.Lines)-1)
	}
	m = press(m, "left")
	if m.Cursor != 0 {
		t.Errorf("left on a leaf should jump to its parent, cursor = %d", m.Cursor)
	}
	m = press(m, "left")
	if len(m.Lines) != 1 {
		t.Errorf("left on expanded root should collapse it, got %d lines", len(m.Lines))
	}
	m = press(m, "right")
	if len(m.Lines) != 3 {
		t.Errorf("right should expand the root again, got %d lines", len(m.Lines))
	}
}

func TestTreeModelQuit(t *testing.T) {
	m := NewTreeModel("sample", sampleForest(), nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestTreeModelView(t *testing.T) {
	m := NewTreeModel("sample", sampleForest(), []string{"X"})
	v := m.View()
	for _, s := range []string{"sample", "▾ parent [P]", "▸ alpha [A]", "• X *", "[1/3]"} {
		if !strings.Contains(v, s) {
			t.Errorf("view missing %q:\n%s", s, v)
		}
	}
}
