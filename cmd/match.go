package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"relation-matcher/core/config"
	"relation-matcher/core/database"
	"relation-matcher/core/engine"
	"relation-matcher/core/logger"
	"relation-matcher/core/matcher"
	"relation-matcher/core/source"
	"relation-matcher/core/storage"
	"relation-matcher/feature/records"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	sourceFile    = "file"
	sourceDB      = "db"
	sourceStorage = "storage"
)

// shutdownTimeout bounds how long the engine waits for busy pool workers.
const shutdownTimeout = 5 * time.Second

// matchFlags holds the flags of the match command.
type matchFlags struct {
	elements         string
	elementKey       string
	identifier       string
	data             string
	dataKey          string
	as               string
	cardinality      string
	source           string
	table            string
	prefix           string
	ext              string
	where            []string
	includeUnmatched bool
	cacheNamespace   string
	format           string
}

var matchOpts matchFlags

// matchCmd joins an element record file with related data.
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Join records with related data fetched in batches",
	Long: `Join every record of --elements with the related data whose --data-key
equals the record's --element-key. Related data comes from a record file, a
database table or one storage object per identifier.

Examples:
  # One article per comment, both from files
  match --elements comments.yaml --element-key article_id --data articles.yaml --data-key id --as article

  # Replies of every comment from the database
  match --elements comments.yaml --element-key id --source db --table replies --data-key comment_id --cardinality one-to-many

  # One profile object per user from the bucket
  match --elements users.json --element-key id --source storage --prefix profiles/ --data-key user_id --format yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return runMatch(ctx, cfg, matchOpts, cmd.OutOrStdout())
	},
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&matchOpts.elements, "elements", "", "Element record file (YAML or JSON)")
	f.StringVar(&matchOpts.elementKey, "element-key", "", "Element field compared with the data key")
	f.StringVar(&matchOpts.identifier, "identifier", "", "Element field sent to the source (defaults to --element-key)")
	f.StringVar(&matchOpts.data, "data", "", "Related record file for the file source")
	f.StringVar(&matchOpts.dataKey, "data-key", "", "Related data field compared with the element key")
	f.StringVar(&matchOpts.as, "as", records.DefaultField, "Output field receiving the related data")
	f.StringVar(&matchOpts.cardinality, "cardinality", "one-to-one", "one-to-one, one-to-many or many-to-many")
	f.StringVar(&matchOpts.source, "source", sourceFile, "Related data source: file, db or storage")
	f.StringVar(&matchOpts.table, "table", "", "Table queried by the db source")
	f.StringVar(&matchOpts.prefix, "prefix", "", "Object name prefix for the storage source")
	f.StringVar(&matchOpts.ext, "ext", ".yaml", "Object name extension for the storage source")
	f.StringArrayVar(&matchOpts.where, "where", nil, "Keep related data with field=value (repeatable)")
	f.BoolVar(&matchOpts.includeUnmatched, "include-unmatched", false, "Keep records without related data")
	f.StringVar(&matchOpts.cacheNamespace, "cache-namespace", "", "Cache resolved data under this namespace")
	f.StringVar(&matchOpts.format, "format", records.FormatJSON, "Output format: json or yaml")

	_ = matchCmd.MarkFlagRequired("elements")
	_ = matchCmd.MarkFlagRequired("element-key")
	_ = matchCmd.MarkFlagRequired("data-key")

	RootCmd.AddCommand(matchCmd)
}

func runMatch(ctx context.Context, cfg *config.Config, f matchFlags, out io.Writer) error {
	cardinality, err := matcher.ParseCardinality(f.cardinality)
	if err != nil {
		return err
	}
	where, err := parseWhere(f.where)
	if err != nil {
		return err
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	elements, err := records.Load(f.elements)
	if err != nil {
		return err
	}

	src, err := openSource(ctx, cfg, f, l)
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg.Engine(), l)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := eng.Shutdown(sctx); err != nil {
			l.Warn("Engine shutdown failed", zap.Error(err))
		}
	}()

	rows, err := records.NewService(eng, l).Match(ctx, elements, src, records.Options{
		ElementKey:       f.elementKey,
		Identifier:       f.identifier,
		DataKey:          f.dataKey,
		As:               f.as,
		Cardinality:      cardinality,
		Where:            where,
		IncludeUnmatched: f.includeUnmatched,
		CacheNamespace:   f.cacheNamespace,
	})
	if err != nil {
		return fmt.Errorf("failed to match records: %w", err)
	}

	return records.Write(out, rows, f.format)
}

func openSource(ctx context.Context, cfg *config.Config, f matchFlags, l *zap.Logger) (records.Source, error) {
	switch f.source {
	case sourceFile:
		if f.data == "" {
			return records.Source{}, fmt.Errorf("--data is required for the file source")
		}
		rows, err := records.LoadRows(f.data)
		if err != nil {
			return records.Source{}, err
		}
		l.Debug("Loaded related records", zap.String("path", f.data), zap.Int("rows", len(rows)))
		return records.FileSource(rows, f.dataKey), nil

	case sourceDB:
		if f.table == "" {
			return records.Source{}, fmt.Errorf("--table is required for the db source")
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return records.Source{}, err
		}
		ok, err := database.HasColumn(db, f.table, f.dataKey)
		if err != nil {
			return records.Source{}, err
		}
		if !ok {
			return records.Source{}, fmt.Errorf("table %s has no column %s", f.table, f.dataKey)
		}
		return records.TableSource(source.NewTable[string, records.Row](db, f.dataKey).WithTable(f.table)), nil

	case sourceStorage:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return records.Source{}, err
		}
		objects := source.NewObjects[string, records.Row](client, cfg.Storage.Bucket, f.prefix, f.ext)
		if err := objects.Check(ctx); err != nil {
			return records.Source{}, err
		}
		return records.ObjectSource(objects), nil

	default:
		return records.Source{}, fmt.Errorf("unknown source: %s", f.source)
	}
}

func parseWhere(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	where := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --where %q, expected field=value", p)
		}
		where[k] = v
	}
	return where, nil
}
