package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/refdata"
	"github.com/redis/go-redis/v9"
)

// memClient keeps values in a map and answers like a Redis server would.
type memClient struct {
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMemClient() *memClient {
	return &memClient{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *memClient) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	val, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (m *memClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if m.setErr != nil {
		return redis.NewStatusResult("", m.setErr)
	}
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func sampleTables() refdata.Tables {
	return refdata.Tables{
		Currencies: refdata.Currencies{1: {ID: 1, Code: "TRY", Name: "Türk Lirası"}},
		TaxTypes: refdata.TaxTypes{
			"9015": {Code: "9015", Name: "KDV Tevkifat", Flags: map[string]bool{"is_stoppage": true}},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	client := newMemClient()
	store := New(client)
	store.TTL = time.Hour

	if err := store.Save(ctx, sampleTables()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if client.ttls[DefaultCurrencyKey] != time.Hour {
		t.Errorf("TTL not applied: %v", client.ttls[DefaultCurrencyKey])
	}

	tables, found, err := store.Load(ctx)
	if err != nil || !found {
		t.Fatalf("Load = %v, %v", found, err)
	}
	if tables.Currencies.Code(1) != "TRY" {
		t.Errorf("unexpected currencies: %+v", tables.Currencies)
	}
	if tt, ok := tables.TaxTypes.TaxType("9015"); !ok || !tt.Flag("is_stoppage") {
		t.Errorf("unexpected tax types: %+v", tables.TaxTypes)
	}
}

func TestLoadMissing(t *testing.T) {
	client := newMemClient()
	client.values[DefaultCurrencyKey] = `[]`

	tables, found, err := New(client).Load(context.Background())
	if err != nil {
		t.Fatalf("missing key should not be an error: %v", err)
	}
	if found || tables != nil {
		t.Error("expected not found when the tax-type key is missing")
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		client := newMemClient()
		client.getErr = errors.New("connection refused")
		if _, _, err := New(client).Load(context.Background()); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("corrupt value", func(t *testing.T) {
		client := newMemClient()
		client.values[DefaultCurrencyKey] = `{not json`
		client.values[DefaultTaxTypeKey] = `[]`
		if _, _, err := New(client).Load(context.Background()); err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestSaveError(t *testing.T) {
	client := newMemClient()
	client.setErr = errors.New("read only replica")
	if err := New(client).Save(context.Background(), sampleTables()); err == nil {
		t.Error("expected error")
	}
}
