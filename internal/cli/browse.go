package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taxotree/pkg/taxonomy"
	"github.com/matzehuels/taxotree/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command, an interactive collapsible
// view of the display tree.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <source>",
		Short: "Browse the display tree interactively",
		Long: `Browse the display tree of a source in the terminal.

Nodes start expanded or collapsed following the expanded hints: roots
and every node with exactly one child start open.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context, arg string) error {
	res, err := c.run(ctx, arg)
	if err != nil {
		return err
	}
	if len(res.Forest) == 0 {
		printInfo("%s has no entities", res.Source)
		return nil
	}
	m := NewTreeModel(res.Source, res.Forest, res.MultiInheritance)
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// TreeModel - Collapsible display tree
// =============================================================================

// TreeModel is the bubbletea model for browsing a display forest. Toggling
// a node flips its Expanded flag in place.
type TreeModel struct {
	Title  string
	Forest []*taxonomy.TreeNode
	Multi  taxonomy.Set
	Lines  []tree.Line
	Cursor int
	Height int
	Offset int
}

// NewTreeModel creates a tree model showing the rows visible under the
// forest's current expanded flags.
func NewTreeModel(title string, forest []*taxonomy.TreeNode, multi []string) TreeModel {
	return TreeModel{
		Title:  title,
		Forest: forest,
		Multi:  taxonomy.NewSet(multi...),
		Lines:  tree.Flatten(forest),
		Height: 20,
	}
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m = m.moveTo(m.Cursor - 1)
		case "down", "j":
			m = m.moveTo(m.Cursor + 1)
		case "g", "home":
			m = m.moveTo(0)
		case "G", "end":
			m = m.moveTo(len(m.Lines) - 1)
		case "enter", " ":
			if n := m.current(); n != nil && len(n.Children) > 0 {
				m = m.setExpanded(n, !n.Expanded)
			}
		case "right", "l":
			if n := m.current(); n != nil && len(n.Children) > 0 {
				m = m.setExpanded(n, true)
			}
		case "left", "h":
			m = m.collapse()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-5, 5)
		m = m.moveTo(m.Cursor)
	}
	return m, nil
}

func (m TreeModel) current() *taxonomy.TreeNode {
	if m.Cursor < 0 || m.Cursor >= len(m.Lines) {
		return nil
	}
	return m.Lines[m.Cursor].Node
}

// moveTo places the cursor at i, clamped, and scrolls it into view.
func (m TreeModel) moveTo(i int) TreeModel {
	m.Cursor = max(min(i, len(m.Lines)-1), 0)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m TreeModel) setExpanded(n *taxonomy.TreeNode, expanded bool) TreeModel {
	n.Expanded = expanded
	m.Lines = tree.Flatten(m.Forest)
	return m.moveTo(m.Cursor)
}

// collapse closes the current node, or jumps to its parent when it is
// already closed or a leaf.
func (m TreeModel) collapse() TreeModel {
	n := m.current()
	if n == nil {
		return m
	}
	if n.Expanded && len(n.Children) > 0 {
		return m.setExpanded(n, false)
	}
	depth := m.Lines[m.Cursor].Depth
	for i := m.Cursor - 1; i >= 0; i-- {
		if m.Lines[i].Depth < depth {
			return m.moveTo(i)
		}
	}
	return m
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle  ←/→ collapse/expand  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Lines))
	for i := m.Offset; i < end; i++ {
		b.WriteString(m.row(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Lines))))
	return b.String()
}

func (m TreeModel) row(i int) string {
	l := m.Lines[i]
	marker := "•"
	if len(l.Node.Children) > 0 {
		marker = "▸"
		if l.Node.Expanded {
			marker = "▾"
		}
	}

	text := l.Node.Text
	if m.Multi.Contains(l.Node.ID) {
		text += " *"
	}
	line := strings.Repeat("  ", l.Depth) + marker + " " + text

	switch {
	case i == m.Cursor:
		return listSelectedStyle.Render("> " + line)
	case m.Multi.Contains(l.Node.ID):
		return "  " + StyleWarning.Render(line)
	case len(l.Node.Children) == 0:
		return "  " + listDimStyle.Render(line)
	}
	return "  " + listNormalStyle.Render(line)
}
