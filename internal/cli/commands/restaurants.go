package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/deliverydesk/deliverydesk/internal/cli/app"
	"github.com/deliverydesk/deliverydesk/internal/cli/client"
)

// restaurantAPI is the part of the API client the restaurant pages use
type restaurantAPI interface {
	ListRestaurants(ctx context.Context, opts client.ListOptions) (*client.RestaurantPage, error)
	GetRestaurant(ctx context.Context, id string) (*client.Restaurant, error)
	CreateRestaurant(ctx context.Context, input client.RestaurantInput) (*client.Restaurant, error)
	UpdateRestaurant(ctx context.Context, id string, input client.RestaurantInput) (*client.Restaurant, error)
	DeleteRestaurant(ctx context.Context, id string) error
}

// NewRestaurantsCmd creates the restaurants command group
func NewRestaurantsCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "restaurants",
		Aliases: []string{"vendors"},
		Short:   "Manage restaurants",
	}

	cmd.AddCommand(newRestaurantsListCmd(a))
	cmd.AddCommand(newRestaurantsGetCmd(a))
	cmd.AddCommand(newRestaurantsCreateCmd(a))
	cmd.AddCommand(newRestaurantsUpdateCmd(a))
	cmd.AddCommand(newRestaurantsDeleteCmd(a))

	return cmd
}

func newRestaurantsListCmd(a *app.App) *cobra.Command {
	var opts client.ListOptions

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List restaurants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestaurantsList(cmd.Context(), a.Client, opts, a.Out)
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&opts.Size, "size", 20, "Page size")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Filter by name")

	return a.Guard.Protect(cmd)
}

func runRestaurantsList(ctx context.Context, api restaurantAPI, opts client.ListOptions, out io.Writer) error {
	page, err := api.ListRestaurants(ctx, opts)
	if err != nil {
		return err
	}

	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No restaurants found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCITY\tCUISINE\tACTIVE")
	fmt.Fprintln(w, "──\t────\t────\t───────\t──────")

	for _, r := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Name,
			r.City,
			r.Cuisine,
			yesNo(r.IsActive),
		)
	}

	w.Flush()

	fmt.Fprintf(out, "\nPage %d · %d of %d restaurants\n", page.Page, len(page.Items), page.Total)
	return nil
}

func newRestaurantsGetCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurant, err := a.Client.GetRestaurant(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printRestaurant(a.Out, restaurant)
			return nil
		},
	}

	return a.Guard.Protect(cmd)
}

// restaurantFlags binds the editable restaurant fields to flags
type restaurantFlags struct {
	name, email, phone, address, city, cuisine string
	active                                     bool
}

func (f *restaurantFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Restaurant name")
	cmd.Flags().StringVar(&f.email, "email", "", "Contact email")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Contact phone number")
	cmd.Flags().StringVar(&f.address, "address", "", "Street address")
	cmd.Flags().StringVar(&f.city, "city", "", "City")
	cmd.Flags().StringVar(&f.cuisine, "cuisine", "", "Cuisine")
	cmd.Flags().BoolVar(&f.active, "active", true, "Whether the restaurant accepts orders")
}

// input returns only the fields whose flags were set
func (f *restaurantFlags) input(cmd *cobra.Command) client.RestaurantInput {
	var input client.RestaurantInput
	changed := cmd.Flags().Changed

	if changed("name") {
		input.Name = &f.name
	}
	if changed("email") {
		input.Email = &f.email
	}
	if changed("phone") {
		input.PhoneNumber = &f.phone
	}
	if changed("address") {
		input.Address = &f.address
	}
	if changed("city") {
		input.City = &f.city
	}
	if changed("cuisine") {
		input.Cuisine = &f.cuisine
	}
	if changed("active") {
		input.IsActive = &f.active
	}
	return input
}

func newRestaurantsCreateCmd(a *app.App) *cobra.Command {
	var flags restaurantFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a restaurant",
		RunE: func(cmd *cobra.Command, args []string) error {
			input := flags.input(cmd)
			if input.Name == nil || *input.Name == "" {
				return fmt.Errorf("--name is required")
			}
			input.IsActive = &flags.active

			restaurant, err := a.Client.CreateRestaurant(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "✓ Created restaurant %s (%s)\n", restaurant.Name, restaurant.ID)
			return nil
		},
	}

	flags.register(cmd)

	return a.Guard.Protect(cmd)
}

func newRestaurantsUpdateCmd(a *app.App) *cobra.Command {
	var flags restaurantFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestaurantsUpdate(cmd.Context(), a.Client, args[0], flags.input(cmd), a.Out)
		},
	}

	flags.register(cmd)

	return a.Guard.Protect(cmd)
}

func runRestaurantsUpdate(ctx context.Context, api restaurantAPI, id string, input client.RestaurantInput, out io.Writer) error {
	if input == (client.RestaurantInput{}) {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}

	restaurant, err := api.UpdateRestaurant(ctx, id, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Updated restaurant %s (%s)\n", restaurant.Name, restaurant.ID)
	return nil
}

func newRestaurantsDeleteCmd(a *app.App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if !yes {
				if !a.Interactive() {
					return fmt.Errorf("refusing to delete without confirmation (use --yes)")
				}
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Delete restaurant %s", id),
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					fmt.Fprintln(a.Out, "Aborted.")
					return nil
				}
			}
			return runRestaurantsDelete(cmd.Context(), a.Client, id, a.Out)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return a.Guard.Protect(cmd)
}

func runRestaurantsDelete(ctx context.Context, api restaurantAPI, id string, out io.Writer) error {
	if err := api.DeleteRestaurant(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Deleted restaurant %s\n", id)
	return nil
}

func printRestaurant(w io.Writer, r *client.Restaurant) {
	fmt.Fprintf(w, "ID:       %s\n", r.ID)
	fmt.Fprintf(w, "Name:     %s\n", r.Name)
	fmt.Fprintf(w, "Email:    %s\n", r.Email)
	fmt.Fprintf(w, "Phone:    %s\n", r.PhoneNumber)
	fmt.Fprintf(w, "Address:  %s, %s\n", r.Address, r.City)
	fmt.Fprintf(w, "Cuisine:  %s\n", r.Cuisine)
	fmt.Fprintf(w, "Active:   %s\n", yesNo(r.IsActive))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
