package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/tabular/internal/cli/ui"
	"github.com/conduit-lang/tabular/internal/schema"
)

func (a *app) newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [name]",
		Short: "List schemas or show one schema's resolved fields",
		Long: `List the registered schemas, or show the resolved fields of one schema
in column order: inherited fields first, then the schema's own fields.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			noColor := a.cfg.Output.NoColor

			if len(args) == 1 {
				s, err := a.lookup(args[0])
				if err != nil {
					return err
				}
				ui.RenderSchema(out, s, noColor)
				return nil
			}

			names := a.registry.List()
			if len(names) == 0 {
				fmt.Fprint(out, ui.FormatMessage(ui.MessageOptions{
					Level:   ui.LevelInfo,
					Problem: "No schemas registered",
					Hints:   []string{"Declare schemas under 'schemas:' in tabular.yml"},
					NoColor: noColor,
				}))
				return nil
			}

			schemas := make([]*schema.Schema, 0, len(names))
			for _, name := range names {
				s, _ := a.registry.Get(name)
				schemas = append(schemas, s)
			}
			ui.RenderSchemaList(out, schemas, noColor)
			return nil
		},
	}
}
