package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"neighborhub/internal/apiclient"
)

func printOrders(out io.Writer, orders []apiclient.Order) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFECHA\tTIENDA\tCLIENTE\tESTADO\tTOTAL")
	for _, o := range orders {
		store := fmt.Sprint(o.StoreID)
		if o.Store != nil {
			store = o.Store.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.PlacedAt.Local().Format("2006-01-02 15:04"), store, o.Customer, o.Status, o.Total.StringFixed(2))
	}
	return w.Flush()
}

func (a *app) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := a.client.ListOrders(cmd.Context())
			if err != nil {
				return err
			}
			return printOrders(a.out, orders)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "items <id>",
		Short: "Show the line items of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("order", args[0])
			if err != nil {
				return err
			}
			items, err := a.client.GetOrderItems(cmd.Context(), id)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PRODUCTO\tCANT\tPRECIO\tSUBTOTAL")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", it.Name, it.Quantity, it.UnitPrice.StringFixed(2), it.Subtotal.StringFixed(2))
			}
			return w.Flush()
		},
	})
	return cmd
}

func (a *app) merchantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merchant",
		Short: "Merchant order management",
	}

	var status string
	list := &cobra.Command{
		Use:   "orders",
		Short: "List orders of your stores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				orders []apiclient.Order
				err    error
			)
			if status != "" {
				orders, err = a.client.ListOrdersByStatus(cmd.Context(), status)
			} else {
				orders, err = a.client.ListOrders(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printOrders(a.out, orders)
		},
	}
	list.Flags().StringVar(&status, "status", "", "pendiente|confirmado|entregado|cancelado")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change an order's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("order", args[0])
			if err != nil {
				return err
			}
			o, err := a.client.UpdateOrderStatus(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Pedido #%d: %s\n", o.ID, o.Status)
			return nil
		},
	})
	return cmd
}

func (a *app) dashboardCmd() *cobra.Command {
	var storeID int64
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Merchant dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.client.GetDashboard(cmd.Context(), storeID)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Tienda #%d\n", d.StoreID)
			fmt.Fprintf(a.out, "Pedidos pendientes: %d\n", d.PendingCount)
			fmt.Fprintf(a.out, "Productos con poco stock: %d\n", d.LowStockCount)
			fmt.Fprintf(a.out, "Ventas de la semana: %s (%+.1f%%)\n", d.WeeklyRevenue.StringFixed(2), d.PercentChange)

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, day := range d.DailySeries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", day.Label, day.Date, day.Revenue.StringFixed(2))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(a.out, "Actividad reciente:")
			for _, act := range d.RecentActivity {
				fmt.Fprintf(a.out, "  %s  %s\n", act.RelativeTime, act.Description)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&storeID, "store", 0, "store id (default: first store)")
	return cmd
}
