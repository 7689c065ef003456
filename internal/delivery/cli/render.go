package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"tiffin/internal/domain/entity"

	"github.com/spf13/cobra"
)

func newTable(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
}

func renderOrders(cmd *cobra.Command, orders []entity.Order) error {
	if len(orders) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No orders")

		return nil
	}

	w := newTable(cmd)
	fmt.Fprintln(w, "ID\tSTATUS\tRESTAURANT\tTOTAL\tPLACED")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.Status, restaurantLabel(o), o.TotalAmount.StringFixed(2), timestamp(o.CreatedAt))
	}

	return w.Flush()
}

func renderOrder(cmd *cobra.Command, o entity.Order) error {
	if err := renderOrders(cmd, []entity.Order{o}); err != nil {
		return err
	}
	if len(o.Items) == 0 {
		return nil
	}

	w := newTable(cmd)
	fmt.Fprintln(w, "ITEM\tQTY\tPRICE")
	for _, item := range o.Items {
		name := item.Name
		if name == "" {
			name = item.MenuItemID.String()
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, item.Quantity, item.Price.StringFixed(2))
	}
	if o.DeliveryAddress != "" {
		fmt.Fprintf(w, "Deliver to\t%s\t\n", o.DeliveryAddress)
	}

	return w.Flush()
}

func renderRestaurants(cmd *cobra.Command, restaurants []entity.Restaurant) error {
	if len(restaurants) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No restaurants")

		return nil
	}

	w := newTable(cmd)
	fmt.Fprintln(w, "ID\tNAME\tADDRESS")
	for _, r := range restaurants {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Name, r.Address)
	}

	return w.Flush()
}

func renderMenu(cmd *cobra.Command, items []entity.MenuItem) error {
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No menu items")

		return nil
	}

	w := newTable(cmd)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tAVAILABLE")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", item.ID, item.Name, item.Price.StringFixed(2), item.Available())
	}

	return w.Flush()
}

func renderPayment(cmd *cobra.Command, p *entity.Payment) error {
	w := newTable(cmd)
	fmt.Fprintln(w, "PAYMENT\tORDER\tSTATUS\tAMOUNT\tMETHOD")
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.OrderID, p.Status, p.Amount.StringFixed(2), p.Method)

	return w.Flush()
}

func restaurantLabel(o entity.Order) string {
	if o.RestaurantName != "" {
		return o.RestaurantName
	}

	return o.RestaurantID.String()
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Local().Format("2006-01-02 15:04")
}

func describeEvent(event entity.Event) string {
	switch e := event.(type) {
	case entity.OrderUpdated:
		return fmt.Sprintf("order %s is now %s", e.Order.ID, e.Order.Status)
	case entity.NotificationReceived:
		return "notification: " + e.Notification.ToastText()
	default:
		return string(event.Kind())
	}
}
