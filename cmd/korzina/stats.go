package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kuinque/korzina/internal/usecase"
)

func statsCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show seller and offer counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := usecase.NewCatalogService(s.store, s.log).Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if s.jsonOut {
				return s.printJSON(out, stats)
			}

			fmt.Fprintf(out, "Shops:  %d\n", stats.SellersCount)
			fmt.Fprintf(out, "Offers: %d\n", stats.OffersCount)
			if len(stats.Sellers) > 0 {
				fmt.Fprintf(out, "First shops: %s\n", strings.Join(stats.Sellers, ", "))
			}
			return nil
		},
	}
}
