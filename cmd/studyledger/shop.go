package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"studyledger/internal/bootstrap"
	shopdto "studyledger/internal/modules/shop/dto"
)

func newShopCmd(dataDir *string) *cobra.Command {
	shop := &cobra.Command{Use: "shop", Short: "Spend coins on themes, sounds and mascots"}

	shop.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				items, err := app.ShopCLI.List(ctx, userID)
				if err != nil {
					return err
				}
				printItems(cmd.OutOrStdout(), items)
				return nil
			})
		},
	})

	shop.AddCommand(&cobra.Command{
		Use:   "buy <type> <name>",
		Short: "Buy an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				out, err := app.ShopCLI.Buy(ctx, userID, args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "bought %s %s for %d coins, balance %d\n", out.Item.Type, out.Item.Name, out.Item.Price, out.Balance)
				return nil
			})
		},
	})

	shop.AddCommand(&cobra.Command{
		Use:   "equip <type> <name>",
		Short: "Equip an owned item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				out, err := app.ShopCLI.Equip(ctx, userID, args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "equipped: theme=%s sound=%s mascot=%s\n", out.Theme, out.Sound, out.Mascot)
				return nil
			})
		},
	})

	shop.AddCommand(&cobra.Command{
		Use:   "inventory",
		Short: "Show owned items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(*dataDir, func(ctx context.Context, app *bootstrap.App, userID string) error {
				items, err := app.ShopCLI.Inventory(ctx, userID)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing owned yet")
					return nil
				}
				printItems(cmd.OutOrStdout(), items)
				return nil
			})
		},
	})
	return shop
}

func printItems(w io.Writer, items []shopdto.ItemOutput) {
	for _, item := range items {
		state := ""
		switch {
		case item.Equipped:
			state = "equipped"
		case item.Owned:
			state = "owned"
		}
		_, _ = fmt.Fprintf(w, "%-7s %-12s %5d  %s\n", item.Type, item.Name, item.Price, state)
	}
}
