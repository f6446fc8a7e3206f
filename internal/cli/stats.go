package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/family"
)

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show generation and cluster statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd.Context())
		},
	}
}

func (c *CLI) runStats(ctx context.Context) error {
	s, err := c.open(ctx, true)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	res, err := s.runner.Stored(ctx)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	st := res.Stats
	fmt.Println(StyleTitle.Render("Family tree"))
	printKeyValue("Members", strconv.Itoa(st.Members))
	printKeyValue("Relationships", strconv.Itoa(st.Relationships))
	printKeyValue("Roots", strconv.Itoa(st.Roots))
	printKeyValue("Orphans", strconv.Itoa(st.Orphans))
	printKeyValue("Spouse clusters", strconv.Itoa(st.Clusters))
	printKeyValue("Largest cluster", strconv.Itoa(st.LargestCluster))
	if st.Dropped > 0 {
		printWarning("%d relationships reference unknown members and were ignored", st.Dropped)
	}
	printNewline()
	fmt.Println(generationTable(st))
	return nil
}

// generationTable renders one row per generation.
func generationTable(st family.Stats) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, len(st.PerGeneration))
	for gen, n := range st.PerGeneration {
		rows[gen] = []string{strconv.Itoa(gen), strconv.Itoa(n)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Generation", "Members").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return lipgloss.NewStyle().Foreground(colorCyan).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
