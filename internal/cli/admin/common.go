package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/config"
	"github.com/cacildafilmes/cacilda/internal/database"
	"github.com/cacildafilmes/cacilda/internal/logging"
	"github.com/cacildafilmes/cacilda/internal/repository"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// runtime bundles what the catalog commands need from the environment.
type runtime struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	tables repository.Tables
	logger *zap.Logger
}

func (r *runtime) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
	_ = r.logger.Sync()
}

func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(logging.Config{Debug: cfg.Debug, File: cfg.LogFile})

	if !cfg.HasDatabase() {
		return nil, fmt.Errorf("CACILDA_DATABASE_URL is not set")
	}

	pool, err := database.NewPool(ctx, database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:    cfg,
		pool:   pool,
		tables: repository.TablesFor(cfg.Environment),
		logger: logger,
	}, nil
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", outputText, "Output format (text or json)")
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case outputText, outputJSON:
		return format, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected text or json)", format)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// missingFlags lists the named flags that were not set on the command line.
func missingFlags(fs *pflag.FlagSet, names ...string) []string {
	var missing []string
	for _, name := range names {
		f := fs.Lookup(name)
		if f == nil || !f.Changed || strings.TrimSpace(f.Value.String()) == "" {
			missing = append(missing, "--"+name)
		}
	}
	sort.Strings(missing)
	return missing
}
