package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kuinque/korzina/config"
	"github.com/kuinque/korzina/internal/app"
	"github.com/kuinque/korzina/internal/domain"
	"github.com/kuinque/korzina/pkg/logger"
)

// storeOpener builds the offer store for a command run
type storeOpener func(ctx context.Context, cfg *config.Config, log *zap.Logger) (domain.OfferStore, func() error, error)

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (domain.OfferStore, func() error, error) {
	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

// session carries what every subcommand needs once the root has run
type session struct {
	cfg     *config.Config
	log     *zap.Logger
	store   domain.OfferStore
	close   func() error
	jsonOut bool
}

func (s *session) printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootCommand(open storeOpener) *cobra.Command {
	var (
		cfgFile  string
		logLevel string
		s        = &session{}
	)

	rootCmd := &cobra.Command{
		Use:           "korzina",
		Short:         "Find the cheapest shop for a shopping list",
		Long:          "Matches a free-text shopping list against every seller's offers and reports the seller covering the most items at the lowest total price.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(cfgFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}

			log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}

			store, closeFn, err := open(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("opening offer store: %w", err)
			}

			s.cfg, s.log, s.store, s.close = cfg, log, store, closeFn
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			_ = s.log.Sync()
			if s.close != nil {
				return s.close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: ./config.yaml, ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&s.jsonOut, "json", false, "print JSON instead of a table")

	rootCmd.AddCommand(
		searchCommand(s),
		statsCommand(s),
		offersCommand(s),
	)

	return rootCmd
}
