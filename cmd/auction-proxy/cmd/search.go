package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/auction-proxy/internal/alt"
	apiclient "github.com/donaldgifford/auction-proxy/internal/api/client"
	"github.com/donaldgifford/auction-proxy/internal/api/handlers"
	"github.com/donaldgifford/auction-proxy/internal/config"
	"github.com/donaldgifford/auction-proxy/pkg/logger"
)

type searchOptions struct {
	query   string
	limit   int
	offset  int
	cfgPath string
	server  string
	output  string
}

func searchCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search active Alt auctions",
		Long: "Runs an auction search and prints the listings. The search runs\n" +
			"in-process using the config file unless --server points at a running proxy.",
		Example: `  auction-proxy search "charizard psa 10"
  auction-proxy search pikachu --limit 10 --offset 20 --output json
  auction-proxy search "base set" --server http://localhost:8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), searchOptions{
				query:   args[0],
				limit:   limit,
				offset:  offset,
				cfgPath: viper.GetString("config"),
				server:  viper.GetString("server"),
				output:  viper.GetString("output"),
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", handlers.DefaultLimit, "maximum number of listings")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of listings to skip")

	return cmd
}

func runSearch(ctx context.Context, w io.Writer, opts searchOptions) error {
	if opts.limit < 0 || opts.offset < 0 {
		return fmt.Errorf("limit and offset must not be negative")
	}
	if opts.output != "table" && opts.output != "json" {
		return fmt.Errorf("output must be one of: table, json (got %q)", opts.output)
	}

	searcher, err := newSearcher(opts)
	if err != nil {
		return err
	}

	result, err := searcher.Search(ctx, alt.SearchRequest{
		Query:  opts.query,
		Limit:  opts.limit,
		Offset: opts.offset,
	})
	if err != nil {
		return fmt.Errorf("searching auctions: %w", err)
	}

	if opts.output == "json" {
		return outputJSON(w, result)
	}
	return printSearchTable(w, result)
}

// newSearcher returns an API client when a server is given, otherwise an
// in-process upstream client. A missing config file falls back to defaults.
func newSearcher(opts searchOptions) (alt.Searcher, error) {
	if opts.server != "" {
		return apiclient.New(opts.server), nil
	}

	cfg, err := config.Load(opts.cfgPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.Default()
	case err != nil:
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	return newAltClient(cfg, log), nil
}
