// Package pgstore loads reference tables from PostgreSQL.
package pgstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/refdata"
)

// Querier is the subset of *pgxpool.Pool and *pgx.Conn the store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store reads the currency and tax-type tables.
type Store struct {
	q Querier

	// CurrencyTable and TaxTypeTable name the source tables.
	CurrencyTable string
	TaxTypeTable  string
	// TaxFlags lists the boolean columns copied into TaxType.Flags.
	TaxFlags []string
}

// New returns a Store with the default table layout.
func New(q Querier) *Store {
	return &Store{
		q:             q,
		CurrencyTable: "currencies",
		TaxTypeTable:  "tax_types",
		TaxFlags:      []string{"is_stoppage", "is_withholding"},
	}
}

// Open connects a pool to dsn and pings it.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pgstore: failed to parse pgx config: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnLifetime = 3 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("pgstore: failed to connect pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgstore: postgres ping failed: %w", err)
	}
	return pool, nil
}

func (s *Store) currencyQuery() string {
	return "SELECT currency_id, code, name FROM " + pgx.Identifier{s.CurrencyTable}.Sanitize()
}

func (s *Store) taxTypeQuery() string {
	cols := []string{"code", "name"}
	for _, f := range s.TaxFlags {
		cols = append(cols, pgx.Identifier{f}.Sanitize())
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + pgx.Identifier{s.TaxTypeTable}.Sanitize()
}

// Currencies loads the currency table.
func (s *Store) Currencies(ctx context.Context) (refdata.Currencies, error) {
	rows, err := s.q.Query(ctx, s.currencyQuery())
	if err != nil {
		return nil, fmt.Errorf("pgstore: querying currencies: %w", err)
	}
	defer rows.Close()

	table := make(refdata.Currencies)
	for rows.Next() {
		var (
			c    refdata.Currency
			id   int32
			name *string
		)
		if err := rows.Scan(&id, &c.Code, &name); err != nil {
			return nil, fmt.Errorf("pgstore: scanning currency: %w", err)
		}
		c.ID = int(id)
		if name != nil {
			c.Name = *name
		}
		table[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: reading currencies: %w", err)
	}
	return table, nil
}

// TaxTypes loads the tax-type table.
func (s *Store) TaxTypes(ctx context.Context) (refdata.TaxTypes, error) {
	rows, err := s.q.Query(ctx, s.taxTypeQuery())
	if err != nil {
		return nil, fmt.Errorf("pgstore: querying tax types: %w", err)
	}
	defer rows.Close()

	table := make(refdata.TaxTypes)
	for rows.Next() {
		var (
			code  string
			name  *string
			flags = make([]*bool, len(s.TaxFlags))
		)
		dest := []any{&code, &name}
		for i := range flags {
			dest = append(dest, &flags[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("pgstore: scanning tax type: %w", err)
		}

		tt := refdata.TaxType{Code: code, Flags: make(map[string]bool, len(flags))}
		if name != nil {
			tt.Name = *name
		}
		for i, f := range s.TaxFlags {
			tt.Flags[f] = flags[i] != nil && *flags[i]
		}
		table[code] = tt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: reading tax types: %w", err)
	}
	return table, nil
}

// Load reads both tables.
func (s *Store) Load(ctx context.Context) (*refdata.Tables, error) {
	currencies, err := s.Currencies(ctx)
	if err != nil {
		return nil, err
	}
	taxTypes, err := s.TaxTypes(ctx)
	if err != nil {
		return nil, err
	}
	return &refdata.Tables{Currencies: currencies, TaxTypes: taxTypes}, nil
}
