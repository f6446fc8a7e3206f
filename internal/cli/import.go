package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/family"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Validate a snapshot file and load it into the store",
		Long: `Validate a snapshot file and load it into the store.

The file must hold {"members": [...], "relationships": [...]}. Every
relationship must reference known members, use a subtype and status valid
for its type, and be unique per (from, to, type). Nothing is written if
validation fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runImport(ctx context.Context, path string) error {
	snap, err := family.ReadSnapshotFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := family.Validate(snap); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}

	s, err := c.open(ctx, true)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := s.store.Import(ctx, snap); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	printSuccess("Imported %d members and %d relationships", len(snap.Members), len(snap.Relationships))
	printDetail("Store: %s", c.cfg.Store.DSN)
	printNewline()
	printNextStep("Lay out", appName+" layout --write --store "+c.cfg.Store.DSN)
	return nil
}
