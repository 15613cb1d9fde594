package repo

import (
	"context"
	"errors"
	"os"
	"testing"

	"pizza-shop/internal/domain"
)

// openPostgres connects to PIZZA_TEST_POSTGRES_DSN and empties the orders
// table so ids restart at 1.
func openPostgres(t *testing.T) *SQLRepo {
	t.Helper()
	dsn := os.Getenv("PIZZA_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PIZZA_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	r, err := NewSQLRepo(ctx, DialectPostgres, dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	if _, err := r.db.ExecContext(ctx, `TRUNCATE orders RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return r
}

func TestPostgres_CreateThenGet(t *testing.T) {
	r := openPostgres(t)
	ctx := context.Background()

	o := sampleOrder()
	o.Address = strPtr("1 Main St")
	o.PaymentMethod = strPtr("")
	o.Paid = true
	if err := r.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID != 1 {
		t.Fatalf("first id = %d, want 1", o.ID)
	}
	got, err := r.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ItemsJSON != o.ItemsJSON {
		t.Fatalf("items blob changed: %s", got.ItemsJSON)
	}
	if !got.CreatedAt.Equal(o.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, o.CreatedAt)
	}
	if got.Address == nil || *got.Address != "1 Main St" || got.Notes != nil {
		t.Fatalf("nullable fields = %v %v", got.Address, got.Notes)
	}
	if got.PaymentMethod == nil || *got.PaymentMethod != "" || !got.Paid {
		t.Fatalf("payment = %v %v", got.PaymentMethod, got.Paid)
	}

	second := sampleOrder()
	if err := r.Create(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.ID <= o.ID {
		t.Fatalf("ids not increasing: %d then %d", o.ID, second.ID)
	}
}

func TestPostgres_GetMissing(t *testing.T) {
	r := openPostgres(t)
	got, err := r.Get(context.Background(), 42)
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
	if got != nil {
		t.Fatalf("partial record returned: %+v", got)
	}
}
