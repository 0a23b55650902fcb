package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"neighborhub/internal/apiclient"
)

func parseID(name, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s debe ser un número entero positivo: %q", name, s)
	}
	return v, nil
}

func (a *app) printCart(m *apiclient.CartManager) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCTO\tCANT\tPRECIO\tSUBTOTAL")
	for _, it := range m.Items() {
		name := strconv.FormatInt(it.ProductID, 10)
		if it.Product != nil {
			name = it.Product.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", it.ID, name, it.Quantity, it.UnitPrice.StringFixed(2), it.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(w, "\t\t%d\t\t%s\n", m.ItemCount(), m.Total().StringFixed(2))
	return w.Flush()
}

// CartManagerの失敗はErr()の文をそのまま返す
func cartErr(m *apiclient.CartManager) error {
	return errors.New(m.Err())
}

func (a *app) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := apiclient.NewCartManager(a.client)
			if !m.Load(cmd.Context()) {
				return cartErr(m)
			}
			return a.printCart(m)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <product> [qty]",
		Short: "Add a product (default qty 1)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			qty := int64(1)
			if len(args) == 2 {
				if qty, err = parseID("qty", args[1]); err != nil {
					return err
				}
			}
			m := apiclient.NewCartManager(a.client)
			if !m.AddItem(cmd.Context(), productID, qty) {
				return cartErr(m)
			}
			return a.printCart(m)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <item> <qty>",
		Short: "Set the quantity of a cart item (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID("item", args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("qty debe ser un número entero: %q", args[1])
			}
			m := apiclient.NewCartManager(a.client)
			if !m.UpdateQuantity(cmd.Context(), itemID, qty) {
				return cartErr(m)
			}
			return a.printCart(m)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <item>",
		Short: "Remove a cart item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID("item", args[0])
			if err != nil {
				return err
			}
			m := apiclient.NewCartManager(a.client)
			if !m.RemoveItem(cmd.Context(), itemID) {
				return cartErr(m)
			}
			return a.printCart(m)
		},
	})
	return cmd
}

func (a *app) checkoutCmd() *cobra.Command {
	var (
		addressID int64
		notes     string
	)
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Turn the cart into an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := apiclient.NewCartManager(a.client)
			if !m.Load(cmd.Context()) {
				return cartErr(m)
			}
			var n *string
			if notes != "" {
				n = &notes
			}
			order, ok := m.Checkout(cmd.Context(), addressID, n)
			if !ok {
				return cartErr(m)
			}
			fmt.Fprintf(a.out, "Pedido #%d creado (%s) total %s\n", order.ID, order.Status, order.Total.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().Int64Var(&addressID, "address", 0, "delivery address id")
	cmd.Flags().StringVar(&notes, "notes", "", "notes for the store")
	return cmd
}
