package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) storesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stores",
		Short: "List stores (merchants see their own)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stores, err := a.client.ListStores(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNOMBRE\tESTADO")
			for _, s := range stores {
				fmt.Fprintf(w, "%d\t%s\t%s\n", s.ID, s.Name, s.Status)
			}
			return w.Flush()
		},
	}
}

func (a *app) productsCmd() *cobra.Command {
	var category int64
	cmd := &cobra.Command{
		Use:   "products <store>",
		Short: "List a store's products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storeID, err := parseID("store", args[0])
			if err != nil {
				return err
			}
			var cat *int64
			if category > 0 {
				cat = &category
			}
			products, err := a.client.ListProducts(cmd.Context(), storeID, cat)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNOMBRE\tPRECIO\tCATEGORIA\tACTIVO")
			for _, p := range products {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%t\n", p.ID, p.Name, p.Price.StringFixed(2), p.CategoryID, p.Active)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Int64Var(&category, "category", 0, "filter by category id")
	return cmd
}
