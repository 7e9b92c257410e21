package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kuinque/korzina/internal/domain"
	"github.com/kuinque/korzina/internal/usecase"
)

func offersCommand(s *session) *cobra.Command {
	var query domain.OfferQuery

	cmd := &cobra.Command{
		Use:   "offers",
		Short: "Browse offers with filters and pagination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := usecase.NewCatalogService(s.store, s.log).ListOffers(cmd.Context(), query)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if s.jsonOut {
				return s.printJSON(out, page)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSHOP\tTITLE\tPRICE\tCATEGORY")
			for _, o := range page.Offers {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", o.ID, o.SellerName, o.Title, o.Price, o.CategoryName)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nShowing %d of %d (offset %d)\n", page.Count, page.Total, page.Offset)
			return nil
		},
	}

	cmd.Flags().IntVar(&query.Limit, "limit", usecase.DefaultOfferLimit, "page size (1-100)")
	cmd.Flags().IntVar(&query.Offset, "offset", 0, "number of offers to skip")
	cmd.Flags().StringVar(&query.Seller, "shop", "", "only offers of this shop")
	cmd.Flags().StringVar(&query.Category, "category", "", "only offers in this category")
	cmd.Flags().StringVarP(&query.Query, "query", "q", "", "title substring")

	return cmd
}
