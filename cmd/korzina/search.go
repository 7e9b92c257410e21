package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kuinque/korzina/internal/app"
	"github.com/kuinque/korzina/internal/usecase"
)

func searchCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "search [items...]",
		Short: "Find the best shop for a shopping list",
		Long: `Each argument is one item; arguments containing commas are split.

  korzina search "молоко, хлеб" яблоки`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items := usecase.ParseShoppingList(strings.Join(args, ","))

			svc := usecase.NewShopSearchService(s.store, app.SearchConfig(s.cfg), s.log)
			solution, ok, err := svc.FindCheapestShop(cmd.Context(), items)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !ok {
				if s.jsonOut {
					return s.printJSON(out, nil)
				}
				fmt.Fprintln(out, "No suitable shops found for your products")
				return nil
			}

			if s.jsonOut {
				return s.printJSON(out, solution)
			}

			fmt.Fprintf(out, "Shop:    %s\n", solution.SellerName)
			fmt.Fprintf(out, "Total:   %.2f\n", solution.TotalPrice)
			fmt.Fprintf(out, "Found:   %d/%d (%.0f%%)\n\n",
				solution.MatchedCount, len(items), solution.MatchPercentage*100)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ITEM\tOFFER\tPRICE\tMATCH\tSIMILARITY")
			for _, m := range solution.Matches {
				offer := "-"
				if m.Found() {
					offer = m.Offer.Title
				}
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%.2f\n", m.Target, offer, m.Price, m.Kind, m.Similarity)
			}
			return tw.Flush()
		},
	}
}
