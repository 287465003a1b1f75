package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgrove/pkg/tree"
	"github.com/matzehuels/mindgrove/pkg/tree/transform"
	"github.com/matzehuels/mindgrove/pkg/treemodel"
)

// viewCommand creates the view command for interactive browsing.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <artifact.json>",
		Short: "Browse an artifact interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := treemodel.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load artifact %s: %w", args[0], err)
			}
			t, _, err := transform.Normalize(model.Records())
			if err != nil {
				return fmt.Errorf("artifact %s: %w", args[0], err)
			}
			if t.Len() == 0 {
				printInfo("Artifact is empty")
				return nil
			}

			p := tea.NewProgram(newTreeViewModel(t), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// TreeViewModel - Interactive tree browser
// =============================================================================

var (
	viewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	viewDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	viewLeftStyle     = lipgloss.NewStyle().Foreground(colorYellow)
	viewRightStyle    = lipgloss.NewStyle().Foreground(colorGreen)
)

// treeRow is one visible line in the browser.
type treeRow struct {
	key      int
	hasKids  bool
	expanded bool
}

// TreeViewModel is the bubbletea model for browsing a mind-map tree.
type TreeViewModel struct {
	Tree      *tree.Tree
	Cursor    int
	Height    int
	Offset    int
	collapsed map[int]bool
	rows      []treeRow
}

func newTreeViewModel(t *tree.Tree) TreeViewModel {
	m := TreeViewModel{
		Tree:      t,
		Height:    20,
		collapsed: make(map[int]bool),
	}
	m.rebuild()
	return m
}

// rebuild recomputes the visible rows from the expansion state.
func (m *TreeViewModel) rebuild() {
	m.rows = m.rows[:0]
	root, ok := m.Tree.Root()
	if !ok {
		return
	}

	var walk func(key int)
	walk = func(key int) {
		kids := m.Tree.Children(key)
		m.rows = append(m.rows, treeRow{
			key:      key,
			hasKids:  len(kids) > 0,
			expanded: !m.collapsed[key],
		})
		if m.collapsed[key] {
			return
		}
		for _, child := range kids {
			walk(child)
		}
	}
	walk(root.Key)

	if m.Cursor >= len(m.rows) {
		m.Cursor = len(m.rows) - 1
	}
}

func (m TreeViewModel) Init() tea.Cmd {
	return nil
}

func (m TreeViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			row := m.rows[m.Cursor]
			if row.hasKids {
				m.collapsed[row.key] = !m.collapsed[row.key]
				m.rebuild()
			}
		case "left", "h":
			row := m.rows[m.Cursor]
			if row.hasKids && !m.collapsed[row.key] {
				m.collapsed[row.key] = true
				m.rebuild()
			}
		case "right", "l":
			row := m.rows[m.Cursor]
			if row.hasKids && m.collapsed[row.key] {
				m.collapsed[row.key] = false
				m.rebuild()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TreeViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Mind Map"))
	b.WriteString("\n")
	b.WriteString(viewDimStyle.Render("↑/↓ navigate  ⏎ fold/unfold  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		row := m.rows[i]
		n, ok := m.Tree.Node(row.key)
		if !ok {
			continue
		}

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		marker := "·"
		if row.hasKids {
			marker = "▾"
			if !row.expanded {
				marker = "▸"
			}
		}

		indent := strings.Repeat("  ", n.Depth)
		line := fmt.Sprintf("%s%s%s %s", cursor, indent, marker, n.Text)

		switch {
		case i == m.Cursor:
			b.WriteString(viewSelectedStyle.Render(line))
		case n.Dir == tree.DirLeft:
			b.WriteString(viewLeftStyle.Render(line))
		case n.Dir == tree.DirRight:
			b.WriteString(viewRightStyle.Render(line))
		default:
			b.WriteString(viewNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(viewDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d nodes", m.Cursor+1, len(m.rows), m.Tree.Len())))

	return b.String()
}
