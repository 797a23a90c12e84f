// cmd/tools/catalog-indexer/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fiscal-forum/internal/catalog"
	"fiscal-forum/internal/common/config"
	"fiscal-forum/internal/common/database"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/forms"
)

var (
	configPath string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "catalog-indexer",
	Short:         "Maintain the credit card search index and inspect catalog data",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Recreate the Elasticsearch index from the built-in card catalog",
	Args:  cobra.NoArgs,
	RunE:  runReindex,
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a card search the way the API does",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSearch,
}

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "Print the published wizard definitions as JSON",
	Args:  cobra.NoArgs,
	RunE:  runForms,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: configs/config.yaml with environment overlay)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "overall timeout")
	rootCmd.AddCommand(reindexCmd, searchCmd, formsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func connectES(ctx context.Context, cfg *config.Config) (*database.ElasticsearchClient, error) {
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return nil, err
	}
	if err := es.Ping(ctx); err != nil {
		return nil, err
	}
	return es, nil
}

func runReindex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewService("catalog-indexer", cfg.Logging.Level, "console")

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	es, err := connectES(ctx, cfg)
	if err != nil {
		return err
	}

	store := catalog.NewStore(nil, cfg.Catalog, log)
	n, err := catalog.NewIndexer(es.Client, cfg.Catalog.Index, store, log).Reindex(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d cards into %s\n", n, cfg.Catalog.Index)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewService("catalog-indexer", cfg.Logging.Level, "console")

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	store := catalog.NewStore(nil, cfg.Catalog, log)
	searcher := catalog.NewSearcher(nil, cfg.Catalog.Index, cfg.Catalog.SearchLimit, store, log)
	if es, err := connectES(ctx, cfg); err == nil {
		searcher = catalog.NewSearcher(es.Client, cfg.Catalog.Index, cfg.Catalog.SearchLimit, store, log)
	} else {
		log.Warn("searching the in-memory catalog", map[string]interface{}{"reason": err.Error()})
	}

	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	results, err := searcher.Search(ctx, query)
	if err != nil {
		return err
	}
	return printJSON(cmd, results)
}

func runForms(cmd *cobra.Command, args []string) error {
	registry, err := forms.NewRegistry()
	if err != nil {
		return err
	}
	list := registry.List()
	defs := make([]interface{}, 0, len(list))
	for _, f := range list {
		defs = append(defs, f.FormDefinition)
	}
	return printJSON(cmd, defs)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
