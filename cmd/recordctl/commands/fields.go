package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nrfta/records-paging/resource"
)

func newFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <resource>",
		Args:  cobra.ExactArgs(1),
		Short: "Show the sort keys, filters and search columns of a resource",
		// Static metadata, no config or database needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := lookupResource(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SORT KEY\tCOLUMN\tKEYSET\tDEFAULT")
			fallback := def.Sorts.Default()
			for _, key := range def.Sorts.Keys() {
				f, _ := def.Sorts.Lookup(key)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Key, f.Column, yes(f.Keyset), yes(f.Key == fallback.Key))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nfilters: %s\n", strings.Join(def.FilterNames(), ", "))
			fmt.Fprintf(cmd.OutOrStdout(), "search:  %s\n", strings.Join(def.Search, ", "))
			return nil
		},
	}
}

func newResourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "resources",
		Args:              cobra.NoArgs,
		Short:             "List the resources that can be paged",
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range resource.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func yes(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
