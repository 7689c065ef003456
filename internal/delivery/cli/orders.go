package cli

import (
	"tiffin/internal/domain/entity"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/errors"
	"tiffin/internal/usecase"

	"github.com/spf13/cobra"
)

func (c *CLI) newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "List the orders of the signed-in role", Args: cobra.NoArgs, RunE: c.authenticated(c.listOrders)}
	cmd.Flags().String("restaurant", "", "vendor restaurant id, defaults to the first one")

	cmd.AddCommand(
		&cobra.Command{Use: "show <order-id>", Short: "Show one order", Args: cobra.ExactArgs(1), RunE: c.authenticated(c.showOrder)},
		&cobra.Command{Use: "payment <order-id>", Short: "Show the payment of an order", Args: cobra.ExactArgs(1), RunE: c.authenticated(c.showPayment)},
		&cobra.Command{Use: "available", Short: "List orders waiting for a rider", Args: cobra.NoArgs, RunE: c.authenticated(c.listAvailable)},
		&cobra.Command{Use: "status <order-id> <status>", Short: "Change an order status as its vendor", Args: cobra.ExactArgs(2), RunE: c.authenticated(c.updateStatus)},
		&cobra.Command{Use: "rider-status <order-id> <status>", Short: "Change a delivery status as its rider", Args: cobra.ExactArgs(2), RunE: c.authenticated(c.updateRiderStatus)},
		&cobra.Command{Use: "accept <order-id>", Short: "Take an available order", Args: cobra.ExactArgs(1), RunE: c.authenticated(c.acceptOrder)},
	)

	return cmd
}

func (c *CLI) listOrders(cmd *cobra.Command, _ []string) error {
	restaurant, _ := cmd.Flags().GetString("restaurant")
	if err := c.orders.Refresh(cmd.Context(), usecase.DashboardRole(c.session), entity.ID(restaurant)); err != nil {
		return err
	}

	return renderOrders(cmd, c.orders.Orders())
}

func (c *CLI) showOrder(cmd *cobra.Command, args []string) error {
	order, err := c.orders.LoadOrder(cmd.Context(), entity.ID(args[0]))
	if err != nil {
		return err
	}

	return renderOrder(cmd, order)
}

func (c *CLI) showPayment(cmd *cobra.Command, args []string) error {
	payment, err := c.orders.OrderPayment(cmd.Context(), entity.ID(args[0]))
	if err != nil {
		return err
	}

	return renderPayment(cmd, payment)
}

func (c *CLI) listAvailable(cmd *cobra.Command, _ []string) error {
	if !c.session.HasRole(entity.RoleRider) {
		return errors.WithStack(domainerrors.ErrForbidden)
	}
	if err := c.orders.FetchAvailableOrders(cmd.Context()); err != nil {
		c.toasts.Show("Failed to load available orders", entity.ToastError)

		return err
	}

	return renderOrders(cmd, c.orders.AvailableOrders())
}

func (c *CLI) updateStatus(cmd *cobra.Command, args []string) error {
	if !c.session.HasRole(entity.RoleVendor) && !c.session.HasRole(entity.RoleAdmin) {
		return errors.WithStack(domainerrors.ErrForbidden)
	}
	status, err := parseStatus(args[1])
	if err != nil {
		return err
	}

	order, err := c.orders.UpdateOrderStatus(cmd.Context(), entity.ID(args[0]), status)
	if err != nil {
		return err
	}

	return renderOrders(cmd, []entity.Order{*order})
}

func (c *CLI) updateRiderStatus(cmd *cobra.Command, args []string) error {
	if !c.session.HasRole(entity.RoleRider) {
		return errors.WithStack(domainerrors.ErrForbidden)
	}
	status, err := parseStatus(args[1])
	if err != nil {
		return err
	}

	order, err := c.orders.UpdateRiderStatus(cmd.Context(), entity.ID(args[0]), status)
	if err != nil {
		return err
	}

	return renderOrders(cmd, []entity.Order{*order})
}

func (c *CLI) acceptOrder(cmd *cobra.Command, args []string) error {
	if !c.session.HasRole(entity.RoleRider) {
		return errors.WithStack(domainerrors.ErrForbidden)
	}

	order, err := c.orders.AcceptOrder(cmd.Context(), entity.ID(args[0]))
	if err != nil {
		return err
	}

	return renderOrders(cmd, []entity.Order{*order})
}

func parseStatus(raw string) (entity.OrderStatus, error) {
	status := entity.OrderStatus(raw)
	if !status.IsValid() {
		return "", errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("unknown status " + raw))
	}

	return status, nil
}
