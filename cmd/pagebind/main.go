package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/benjaminschreck/go-pagebind/pkg/pagebind"
	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/invoice"
	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/markup"
	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/refdata"
	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/refdata/pgstore"
	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/refdata/redisstore"
	"golang.org/x/sync/errgroup"
)

const version = "0.1.0"

const usage = `Usage: pagebind <command> [arguments]

Commands:
  render <template.json> <data.json> [out.html]    Render one record (stdout when out is omitted)
  batch <template.json> <out-dir> <data.json>...   Render many records in parallel
  version                                          Show version information

Environment:
  PAGEBIND_CURRENCIES    currency table JSON file
  PAGEBIND_TAXES         tax-type table JSON file
  PAGEBIND_DATABASE_URL  load both tables from PostgreSQL instead
  PAGEBIND_REDIS_URL     share loaded tables through Redis
  PAGEBIND_INVOICE=1     derive invoice display fields before binding
  PAGEBIND_ROW_HEIGHT, PAGEBIND_HEADER_ALLOWANCE, PAGEBIND_LOG_LEVEL, ...
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "pagebind version %s\n", version)
		return 0
	case "render":
		if len(args) < 3 || len(args) > 4 {
			fmt.Fprint(stderr, usage)
			return 2
		}
		err = renderCommand(ctx, args[1:], stdout)
	case "batch":
		if len(args) < 4 {
			fmt.Fprint(stderr, usage)
			return 2
		}
		err = batchCommand(ctx, args[1], args[2], args[3:], stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n%s", args[0], usage)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "pagebind: %v\n", err)
		return 1
	}
	return 0
}

type renderer struct {
	engine  *pagebind.Engine
	doc     *pagebind.Document
	invoice bool
}

func newRenderer(ctx context.Context, templatePath string) (*renderer, error) {
	config := pagebind.ConfigFromEnvironment()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	pagebind.SetGlobalConfig(config)

	tables, err := loadTables(ctx)
	if err != nil {
		return nil, err
	}

	engine := pagebind.NewWithOptions(
		pagebind.WithConfig(config),
		pagebind.WithReferenceTables(tables),
	)

	f, err := os.Open(templatePath)
	if err != nil {
		return nil, pagebind.NewDocumentError("open", templatePath, err)
	}
	defer f.Close()

	doc, err := engine.PrepareTemplate(templatePath, f)
	if err != nil {
		return nil, err
	}

	return &renderer{
		engine:  engine,
		doc:     doc,
		invoice: parseFlag(os.Getenv("PAGEBIND_INVOICE")),
	}, nil
}

func (r *renderer) render(dataPath string, w io.Writer) error {
	data, err := readData(dataPath)
	if err != nil {
		return err
	}
	if r.invoice {
		data = invoice.Enrich(data, r.engine.References(), invoice.Options{CurrencyKey: r.engine.Config().CurrencyKey})
	}

	out, err := r.engine.Render(r.doc, data)
	if err != nil {
		return fmt.Errorf("%s: %w", dataPath, err)
	}
	return markup.Write(w, out, markup.Options{})
}

func renderCommand(ctx context.Context, args []string, stdout io.Writer) error {
	r, err := newRenderer(ctx, args[0])
	if err != nil {
		return err
	}

	if len(args) == 2 {
		return r.render(args[1], stdout)
	}
	return writeFile(args[2], func(w io.Writer) error {
		return r.render(args[1], w)
	})
}

func batchCommand(ctx context.Context, templatePath, outDir string, dataPaths []string, stdout io.Writer) error {
	r, err := newRenderer(ctx, templatePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return pagebind.NewDocumentError("create", outDir, err)
	}

	var (
		mu     sync.Mutex
		errs   = pagebind.NewMultiError()
		logger = pagebind.GetLogger()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, dataPath := range dataPaths {
		dataPath := dataPath // per-iteration copy; go directive is 1.21
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(dataPath), filepath.Ext(dataPath))+".html")
			err := writeFile(outPath, func(w io.Writer) error {
				return r.render(dataPath, w)
			})
			if err != nil {
				logger.WithField("data", dataPath).Error("render failed: %v", err)
				mu.Lock()
				errs.Add(err)
				mu.Unlock()
				return nil
			}
			logger.WithField("out", outPath).Info("rendered")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "rendered %d of %d records\n", len(dataPaths)-errs.Len(), len(dataPaths))
	return errs.Err()
}

// loadTables reads the reference tables, going through the Redis cache
// when PAGEBIND_REDIS_URL is set. A cache miss loads from the source and
// fills the cache.
func loadTables(ctx context.Context) (refdata.Tables, error) {
	url := os.Getenv("PAGEBIND_REDIS_URL")
	if url == "" {
		return loadSourceTables(ctx)
	}

	client, err := redisstore.Open(ctx, url)
	if err != nil {
		return refdata.Tables{}, fmt.Errorf("reference tables: %w", err)
	}
	defer client.Close()

	store := redisstore.New(client)
	cached, found, err := store.Load(ctx)
	if err != nil {
		return refdata.Tables{}, fmt.Errorf("reference tables: %w", err)
	}
	if found {
		pagebind.GetLogger().Debug("reference tables loaded from redis")
		return *cached, nil
	}

	tables, err := loadSourceTables(ctx)
	if err != nil {
		return refdata.Tables{}, err
	}
	if err := store.Save(ctx, tables); err != nil {
		pagebind.GetLogger().Warn("caching reference tables: %v", err)
	}
	return tables, nil
}

func loadSourceTables(ctx context.Context) (refdata.Tables, error) {
	if dsn := os.Getenv("PAGEBIND_DATABASE_URL"); dsn != "" {
		pool, err := pgstore.Open(ctx, dsn)
		if err != nil {
			return refdata.Tables{}, fmt.Errorf("reference tables: %w", err)
		}
		defer pool.Close()

		tables, err := pgstore.New(pool).Load(ctx)
		if err != nil {
			return refdata.Tables{}, fmt.Errorf("reference tables: %w", err)
		}
		return *tables, nil
	}

	var tables refdata.Tables
	if path := os.Getenv("PAGEBIND_CURRENCIES"); path != "" {
		err := readFile(path, func(r io.Reader) (err error) {
			tables.Currencies, err = refdata.ReadCurrencies(r)
			return err
		})
		if err != nil {
			return refdata.Tables{}, err
		}
	}
	if path := os.Getenv("PAGEBIND_TAXES"); path != "" {
		err := readFile(path, func(r io.Reader) (err error) {
			tables.TaxTypes, err = refdata.ReadTaxTypes(r)
			return err
		})
		if err != nil {
			return refdata.Tables{}, err
		}
	}
	return tables, nil
}

func readData(path string) (pagebind.TemplateData, error) {
	var data pagebind.TemplateData
	err := readFile(path, func(r io.Reader) error {
		dec := json.NewDecoder(r)
		dec.UseNumber()
		return dec.Decode(&data)
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = pagebind.TemplateData{}
	}
	return data, nil
}

func readFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return pagebind.NewDocumentError("open", path, err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return pagebind.NewDocumentError("read", path, err)
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return pagebind.NewDocumentError("create", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return pagebind.NewDocumentError("write", path, err)
	}
	return nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
