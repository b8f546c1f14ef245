package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/banditmoscow1337/genpack/cmd/generator/catalog"
	"github.com/banditmoscow1337/genpack/cmd/generator/schema"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range catalog.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newInspectCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show a schema's entries, wire slot counts and discriminators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("schema") {
				name = a.cfg.Schema
			}
			s, _, err := catalog.Build(name)
			if err != nil {
				return err
			}
			return printSchema(cmd.OutOrStdout(), s)
		},
	}

	cmd.Flags().StringVarP(&name, "schema", "s", "", "catalogue schema to inspect (overrides config)")
	return cmd
}

// printSchema writes one row per entry. Records show both slot counts so
// schemas where the two counting modes disagree stand out.
func printSchema(w io.Writer, s *schema.Schema) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "schema %s\n\n", s.Name())
	fmt.Fprintln(tw, "CATEGORY\tNAME\tFIELDS\tSLOTS\tFIELD_NAME_SLOTS\tKIND")

	for _, e := range s.Entries() {
		switch e.Category() {
		case schema.CategoryRecord:
			kind := "-"
			if v, ok := s.Discriminator(e.Tag()); ok {
				kind = fmt.Sprintf("%s=%d", e.Tag(), v)
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
				e.Category(), e.Name(), len(e.Fields()), e.TotalFields()+1, e.FieldNameTotalFields()+1, kind)
		case schema.CategoryGroup:
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t-\n",
				e.Category(), e.Name(), len(e.Fields()), e.TotalFields(), e.FieldNameTotalFields())
		default:
			fmt.Fprintf(tw, "%s\t%s\t%d\t-\t-\t%s_type\n",
				e.Category(), e.Name(), len(e.Fields()), e.Name())
		}
	}
	return tw.Flush()
}
