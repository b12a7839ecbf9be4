package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nike1016/selfoss/internal/domain/spout"
)

func (c *cli) newSpoutsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spouts",
		Short: "Inspect the registered spouts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered spouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := c.registry()
			if err != nil {
				return err
			}
			spouts := reg.List()
			if c.jsonOutput() {
				return c.printJSON(spouts)
			}
			rows := make([][]string, 0, len(spouts))
			for _, d := range spouts {
				rows = append(rows, []string{d.Name, d.Title, paramIDs(d)})
			}
			return c.printTable([]string{"NAME", "TITLE", "PARAMS"}, rows)
		},
	}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the parameter schema of a spout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.registry()
			if err != nil {
				return err
			}
			d, ok := reg.Resolve(args[0])
			if !ok {
				return fmt.Errorf("spout %q not registered", args[0])
			}
			if c.jsonOutput() {
				return c.printJSON(d)
			}
			_, _ = fmt.Fprintf(c.out, "%s (%s)\n%s\n\n", d.Title, d.Name, d.Description)
			rows := make([][]string, 0, len(d.Params))
			for _, p := range d.Params {
				rows = append(rows, []string{
					p.ID, p.Title, p.Type,
					fmt.Sprint(p.Required),
					p.Default,
					strings.Join(ruleNames(p.Validation), ","),
				})
			}
			return c.printTable([]string{"PARAM", "TITLE", "TYPE", "REQUIRED", "DEFAULT", "VALIDATION"}, rows)
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func paramIDs(d *spout.Descriptor) string {
	ids := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		ids = append(ids, p.ID)
	}
	return strings.Join(ids, ",")
}

func ruleNames(rules spout.Rules) []string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.String())
	}
	return names
}
