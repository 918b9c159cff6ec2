package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/setgrid/pkg/layout"
	"github.com/matzehuels/setgrid/pkg/text"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// Views of the inspector.
const (
	viewEntities = iota
	viewStatements
)

// =============================================================================
// InspectModel - Interactive layout browser
// =============================================================================

// InspectModel is the bubbletea model for browsing a computed layout. The
// tab key switches between the entity and statement lists.
type InspectModel struct {
	Result *layout.Result
	Tab    int
	Cursor int
	Offset int
	Height int

	// mentions maps entity ids to the statements whose spans name them.
	mentions map[int][]int
}

// NewInspectModel creates a browser for res.
func NewInspectModel(res *layout.Result) InspectModel {
	return InspectModel{
		Result:   res,
		Height:   15,
		mentions: mentionIndex(res),
	}
}

// mentionIndex finds, for every entity, the statements with a highlighted
// span naming it. A span names an entity when its text matches the name or
// it carries the entity's color.
func mentionIndex(res *layout.Result) map[int][]int {
	out := make(map[int][]int)
	for _, s := range res.Statements {
		runes := []rune(s.Text)
		for _, e := range res.Entities {
			for _, sp := range s.Spans {
				if sp.Start < 0 || sp.End > len(runes) || sp.Start >= sp.End {
					continue
				}
				word := string(runes[sp.Start:sp.End])
				if strings.EqualFold(word, e.Name) || (sp.Color == e.Color && sp.Color != text.White) {
					out[e.ID] = append(out[e.ID], s.ID)
					break
				}
			}
		}
	}
	return out
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) length() int {
	if m.Tab == viewStatements {
		return len(m.Result.Statements)
	}
	return len(m.Result.Entities)
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.Tab = 1 - m.Tab
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.length()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	title := "Entities"
	if m.Tab == viewStatements {
		title = "Statements"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %dx%d px · %s", m.Result.Width, m.Result.Height, m.Result.Mode)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab switch  q quit"))
	b.WriteString("\n\n")

	if m.length() == 0 {
		b.WriteString(listDimStyle.Render("  (none)"))
		b.WriteString("\n")
		return b.String()
	}

	if m.Tab == viewStatements {
		b.WriteString(m.statementTable())
	} else {
		b.WriteString(m.entityTable())
	}
	b.WriteString("\n\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, m.length())))

	return b.String()
}

func (m InspectModel) window() (int, int) {
	return m.Offset, min(m.Offset+m.Height, m.length())
}

func (m InspectModel) entityTable() string {
	start, end := m.window()
	rows := [][]string{}
	for i := start; i < end; i++ {
		e := m.Result.Entities[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		flags := ""
		if e.Repeated {
			flags += "R"
		}
		if e.Singleton {
			flags += "S"
		}
		rows = append(rows, []string{cursor, swatch(e.Color), strconv.Itoa(e.ID), e.Name,
			strconv.Itoa(e.Cells), strconv.Itoa(len(e.Headers)), flags})
	}
	return m.table(rows, "", "", "ID", "Name", "Cells", "Headers", "Flags")
}

func (m InspectModel) statementTable() string {
	start, end := m.window()
	rows := [][]string{}
	for i := start; i < end; i++ {
		s := m.Result.Statements[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		first := ""
		if len(s.Lines) > 0 {
			first = s.Lines[0]
		}
		rows = append(rows, []string{cursor, strconv.Itoa(s.ID), first,
			strconv.Itoa(len(s.Lines)), strconv.Itoa(len(s.Spans))})
	}
	return m.table(rows, "", "ID", "Text", "Lines", "Names")
}

func (m InspectModel) table(rows [][]string, headers ...string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return listNormalStyle
		}).
		Render()
}

// detail describes the item under the cursor.
func (m InspectModel) detail() string {
	var b strings.Builder
	if m.Tab == viewStatements {
		s := m.Result.Statements[m.Cursor]
		for _, line := range s.Lines {
			b.WriteString("  " + listNormalStyle.Render(line) + "\n")
		}
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  at (%d,%d) %dx%d", s.Rect.Min.X, s.Rect.Min.Y, s.Rect.Dx(), s.Rect.Dy())))
		return b.String()
	}

	e := m.Result.Entities[m.Cursor]
	names := make([]string, 0, len(e.Headers))
	for _, h := range e.Headers {
		names = append(names, lipgloss.NewStyle().Foreground(lipgloss.Color(h.Color)).Render(h.Display))
	}
	if len(names) > 0 {
		b.WriteString("  " + strings.Join(names, listDimStyle.Render(" · ")) + "\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d ring points · color %s", len(e.Ring), e.Color)))
	if ids := m.mentions[e.ID]; len(ids) > 0 {
		strs := make([]string, len(ids))
		for i, id := range ids {
			strs[i] = strconv.Itoa(id)
		}
		b.WriteString("\n" + listDimStyle.Render("  mentioned in statements "+strings.Join(strs, ", ")))
	}
	return b.String()
}

func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}
