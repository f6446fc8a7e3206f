package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/pipeline"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	detailNameStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// browseCommand creates the interactive member explorer.
func (c *CLI) browseCommand() *cobra.Command {
	var relayout bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Explore members, generations and relatives interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), relayout)
		},
	}
	cmd.Flags().BoolVar(&relayout, "relayout", false, "show a fresh layout instead of stored positions")
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, relayout bool) error {
	s, err := c.open(ctx, false)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	res, err := c.result(ctx, s, relayout)
	if err != nil {
		return err
	}
	if res.Index.Len() == 0 {
		printInfo("The store has no members")
		return nil
	}

	_, err = tea.NewProgram(NewBrowseModel(res), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// BrowseModel - Interactive member explorer
// =============================================================================

// BrowseModel is the bubbletea model for the member explorer. Members are
// listed by generation, then left to right.
type BrowseModel struct {
	Result  *pipeline.Result
	Members []family.Member
	Cursor  int
	Height  int
	Offset  int

	moved map[family.ID]bool
}

// NewBrowseModel creates a browse model over res.
func NewBrowseModel(res *pipeline.Result) BrowseModel {
	members := res.Members()
	slices.SortFunc(members, func(a, b family.Member) int {
		return cmp.Or(
			cmp.Compare(res.Generations[a.ID], res.Generations[b.ID]),
			cmp.Compare(a.X, b.X),
			cmp.Compare(a.ID, b.ID),
		)
	})
	moved := make(map[family.ID]bool, len(res.Changes))
	for _, ch := range res.Changes {
		moved[ch.ID] = true
	}
	return BrowseModel{Result: res, Members: members, Height: 15, moved: moved}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Members))
		case "end", "G":
			m.move(len(m.Members))
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-14)
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped, keeping it in the window.
func (m *BrowseModel) move(delta int) {
	m.Cursor = max(0, min(len(m.Members)-1, m.Cursor+delta))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Family members"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Members))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		mem := m.Members[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		moved := ""
		if m.moved[mem.ID] {
			moved = "•"
		}
		rows = append(rows, []string{
			cursor,
			mem.DisplayName(),
			fmt.Sprint(m.Result.Generations[mem.ID]),
			fmt.Sprintf("%.0f, %.0f", mem.X, mem.Y),
			moved,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Gen", "Position", "Moved").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Members))))
	b.WriteString("\n\n")
	if len(m.Members) > 0 {
		b.WriteString(m.details(m.Members[m.Cursor]))
	}
	return b.String()
}

// details renders the relatives of mem.
func (m BrowseModel) details(mem family.Member) string {
	ix := m.Result.Index
	var b strings.Builder

	b.WriteString(detailNameStyle.Render(mem.DisplayName()))
	if life := mem.Lifespan(); life != "" {
		b.WriteString(" " + listDimStyle.Render(life))
	}
	b.WriteString("\n")

	line := func(key string, ids []family.ID) {
		b.WriteString(detailKeyStyle.Render(key) + " " + StyleValue.Render(m.names(ids)) + "\n")
	}
	line("Parents", ix.Parents(mem.ID))
	line("Spouses", ix.Spouses(mem.ID))
	line("Children", ix.Children(mem.ID))
	if cluster := ix.SpouseCluster(mem.ID); len(cluster) > 2 {
		line("Cluster", cluster)
	}
	return b.String()
}

func (m BrowseModel) names(ids []family.ID) string {
	if len(ids) == 0 {
		return "—"
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		mem, _ := m.Result.Index.Member(id)
		names[i] = mem.DisplayName()
	}
	return strings.Join(names, ", ")
}
