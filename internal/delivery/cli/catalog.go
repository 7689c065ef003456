package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"tiffin/internal/domain/entity"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func (c *CLI) newCatalogCmds() []*cobra.Command {
	restaurants := &cobra.Command{Use: "restaurants", Short: "List restaurants", Args: cobra.NoArgs, RunE: c.authenticated(c.listRestaurants)}
	restaurants.Flags().Bool("mine", false, "only restaurants owned by the signed-in vendor")

	create := &cobra.Command{Use: "create", Short: "Register a restaurant as its vendor", Args: cobra.NoArgs, RunE: c.authenticated(c.createRestaurant)}
	update := &cobra.Command{Use: "update <restaurant-id>", Short: "Edit one of your restaurants", Args: cobra.ExactArgs(1), RunE: c.authenticated(c.updateRestaurant)}
	for _, cmd := range []*cobra.Command{create, update} {
		cmd.Flags().String("name", "", "restaurant name")
		cmd.Flags().String("description", "", "short description")
		cmd.Flags().String("address", "", "street address")
		cmd.Flags().String("phone", "", "contact phone")
		imageFlags(cmd.Flags())
	}
	restaurants.AddCommand(create, update)

	menu := &cobra.Command{Use: "menu <restaurant-id>", Short: "Show a restaurant menu", Args: cobra.ExactArgs(1), RunE: c.authenticated(c.showMenu)}
	add := &cobra.Command{Use: "add <restaurant-id>", Short: "Add a dish to your restaurant", Args: cobra.ExactArgs(1), RunE: c.authenticated(c.addMenuItem)}
	edit := &cobra.Command{Use: "update <restaurant-id> <item-id>", Short: "Edit a dish", Args: cobra.ExactArgs(2), RunE: c.authenticated(c.updateMenuItem)}
	for _, cmd := range []*cobra.Command{add, edit} {
		cmd.Flags().String("name", "", "dish name")
		cmd.Flags().String("description", "", "short description")
		cmd.Flags().String("price", "", "unit price")
		cmd.Flags().Bool("unavailable", false, "hide the dish from customers")
		imageFlags(cmd.Flags())
	}
	menu.AddCommand(add, edit,
		&cobra.Command{Use: "delete <item-id>", Short: "Remove a dish", Args: cobra.ExactArgs(1), RunE: c.authenticated(c.deleteMenuItem)},
	)

	return []*cobra.Command{restaurants, menu}
}

func imageFlags(flags *pflag.FlagSet) {
	flags.String("image-url", "", "picture url")
	flags.String("image", "", "picture file to upload, overrides --image-url")
}

func (c *CLI) listRestaurants(cmd *cobra.Command, _ []string) error {
	list := c.catalog.ListRestaurants
	if mine, _ := cmd.Flags().GetBool("mine"); mine {
		list = c.catalog.ListMyRestaurants
	}

	restaurants, err := list(cmd.Context())
	if err != nil {
		return err
	}

	return renderRestaurants(cmd, restaurants)
}

func (c *CLI) createRestaurant(cmd *cobra.Command, _ []string) error {
	in, err := c.restaurantInput(cmd)
	if err != nil {
		return err
	}

	restaurant, err := c.catalog.CreateRestaurant(cmd.Context(), in)
	if err != nil {
		return err
	}

	return renderRestaurants(cmd, []entity.Restaurant{*restaurant})
}

func (c *CLI) updateRestaurant(cmd *cobra.Command, args []string) error {
	in, err := c.restaurantInput(cmd)
	if err != nil {
		return err
	}

	restaurant, err := c.catalog.UpdateRestaurant(cmd.Context(), entity.ID(args[0]), in)
	if err != nil {
		return err
	}

	return renderRestaurants(cmd, []entity.Restaurant{*restaurant})
}

func (c *CLI) restaurantInput(cmd *cobra.Command) (entity.RestaurantInput, error) {
	if !c.session.HasRole(entity.RoleVendor) {
		return entity.RestaurantInput{}, errors.WithStack(domainerrors.ErrForbidden)
	}

	flags := cmd.Flags()
	name, _ := flags.GetString("name")
	description, _ := flags.GetString("description")
	address, _ := flags.GetString("address")
	phone, _ := flags.GetString("phone")
	imageURL, _ := flags.GetString("image-url")

	image, err := readImage(flags)
	if err != nil {
		return entity.RestaurantInput{}, err
	}

	return entity.RestaurantInput{
		Name:        name,
		Description: description,
		Address:     address,
		Phone:       phone,
		ImageURL:    imageURL,
		Image:       image,
	}, nil
}

func (c *CLI) showMenu(cmd *cobra.Command, args []string) error {
	items, err := c.catalog.ListMenu(cmd.Context(), entity.ID(args[0]))
	if err != nil {
		return err
	}

	return renderMenu(cmd, items)
}

func (c *CLI) addMenuItem(cmd *cobra.Command, args []string) error {
	in, err := c.menuItemInput(cmd)
	if err != nil {
		return err
	}

	item, err := c.catalog.AddMenuItem(cmd.Context(), entity.ID(args[0]), in)
	if err != nil {
		return err
	}

	return renderMenu(cmd, []entity.MenuItem{*item})
}

func (c *CLI) updateMenuItem(cmd *cobra.Command, args []string) error {
	in, err := c.menuItemInput(cmd)
	if err != nil {
		return err
	}

	item, err := c.catalog.UpdateMenuItem(cmd.Context(), entity.ID(args[0]), entity.ID(args[1]), in)
	if err != nil {
		return err
	}

	return renderMenu(cmd, []entity.MenuItem{*item})
}

func (c *CLI) deleteMenuItem(cmd *cobra.Command, args []string) error {
	if !c.session.HasRole(entity.RoleVendor) {
		return errors.WithStack(domainerrors.ErrForbidden)
	}
	if err := c.catalog.DeleteMenuItem(cmd.Context(), entity.ID(args[0])); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])

	return nil
}

func (c *CLI) menuItemInput(cmd *cobra.Command) (entity.MenuItemInput, error) {
	if !c.session.HasRole(entity.RoleVendor) {
		return entity.MenuItemInput{}, errors.WithStack(domainerrors.ErrForbidden)
	}

	flags := cmd.Flags()
	name, _ := flags.GetString("name")
	description, _ := flags.GetString("description")
	rawPrice, _ := flags.GetString("price")
	unavailable, _ := flags.GetBool("unavailable")
	imageURL, _ := flags.GetString("image-url")

	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return entity.MenuItemInput{}, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("invalid price " + rawPrice))
	}

	image, err := readImage(flags)
	if err != nil {
		return entity.MenuItemInput{}, err
	}

	return entity.MenuItemInput{
		Name:        name,
		Description: description,
		Price:       price,
		IsAvailable: !unavailable,
		ImageURL:    imageURL,
		Image:       image,
	}, nil
}

// readImage loads the --image file, if one was named.
func readImage(flags *pflag.FlagSet) (*entity.ImageUpload, error) {
	path, _ := flags.GetString("image")
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read image %s", path)
	}

	return &entity.ImageUpload{Filename: filepath.Base(path), Data: data}, nil
}
