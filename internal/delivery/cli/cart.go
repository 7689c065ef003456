package cli

import (
	"fmt"

	"tiffin/internal/domain/entity"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/errors"

	"github.com/spf13/cobra"
)

func (c *CLI) newCartCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cart", Short: "Show and edit the cart", Args: cobra.NoArgs, RunE: c.run(c.showCart)}

	remove := &cobra.Command{Use: "remove <item-id>", Short: "Take one unit of an item out", Args: cobra.ExactArgs(1), RunE: c.run(c.removeItem)}
	remove.Flags().Bool("all", false, "drop the whole line")

	cmd.AddCommand(
		&cobra.Command{Use: "select <restaurant-id>", Short: "Order from a restaurant", Args: cobra.ExactArgs(1), RunE: c.authenticated(c.selectVendor)},
		&cobra.Command{Use: "add <item-id>", Short: "Add one unit of a menu item", Args: cobra.ExactArgs(1), RunE: c.authenticated(c.addItem)},
		remove,
		&cobra.Command{Use: "clear", Short: "Drop the restaurant and every line", Args: cobra.NoArgs, RunE: c.run(c.clearCart)},
		&cobra.Command{Use: "checkout", Short: "Place the order", Args: cobra.NoArgs, RunE: c.authenticated(c.checkout)},
	)

	return cmd
}

func (c *CLI) showCart(cmd *cobra.Command, _ []string) error {
	cart := c.cart.Cart()
	if cart.Vendor == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No restaurant selected")

		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Restaurant: %s\n", cart.Vendor.Name)
	if cart.IsEmpty() {
		fmt.Fprintln(cmd.OutOrStdout(), "Cart is empty")

		return nil
	}

	w := newTable(cmd)
	fmt.Fprintln(w, "ID\tITEM\tQTY\tSUBTOTAL")
	for _, line := range cart.Lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", line.Item.ID, line.Item.Name, line.Quantity, line.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(w, "\tTotal\t%d\t%s\n", cart.ItemCount(), cart.Total().StringFixed(2))

	return w.Flush()
}

func (c *CLI) selectVendor(cmd *cobra.Command, args []string) error {
	restaurant, err := c.catalog.GetRestaurant(cmd.Context(), entity.ID(args[0]))
	if err != nil {
		return err
	}
	if err := c.cart.SelectVendor(cmd.Context(), *restaurant); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ordering from %s\n", restaurant.Name)

	return nil
}

// addItem looks the item up on the selected restaurant's menu so the cart
// stores a current snapshot of it.
func (c *CLI) addItem(cmd *cobra.Command, args []string) error {
	cart := c.cart.Cart()
	if cart.Vendor == nil {
		c.toasts.Show(domainerrors.ErrNoVendorSelected.Message(), entity.ToastError)

		return errors.WithStack(domainerrors.ErrNoVendorSelected)
	}

	menu, err := c.catalog.ListMenu(cmd.Context(), cart.Vendor.ID)
	if err != nil {
		return err
	}

	id := entity.ID(args[0])
	for _, item := range menu {
		if item.ID != id {
			continue
		}
		if item.RestaurantID.IsZero() {
			item.RestaurantID = cart.Vendor.ID
		}

		qty, err := c.cart.AddItem(cmd.Context(), item)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s x%d\n", item.Name, qty)

		return nil
	}

	return errors.WithStack(domainerrors.ErrNotFound.WithDetails("menu item " + id.String()))
}

func (c *CLI) removeItem(cmd *cobra.Command, args []string) error {
	id := entity.ID(args[0])

	if all, _ := cmd.Flags().GetBool("all"); all {
		if err := c.cart.DeleteItem(cmd.Context(), id); err != nil {
			return err
		}
	} else if err := c.cart.RemoveItem(cmd.Context(), id); err != nil {
		return err
	}

	return c.showCart(cmd, nil)
}

func (c *CLI) clearCart(cmd *cobra.Command, _ []string) error {
	if err := c.cart.ClearVendor(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")

	return nil
}

func (c *CLI) checkout(cmd *cobra.Command, _ []string) error {
	order, err := c.cart.PlaceOrder(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed, total %s\n", order.ID, order.TotalAmount.StringFixed(2))

	return nil
}
