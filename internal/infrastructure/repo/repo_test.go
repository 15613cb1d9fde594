package repo

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"pizza-shop/internal/domain"
)

func strPtr(s string) *string { return &s }

func sampleOrder() *domain.Order {
	return &domain.Order{
		CustomerName: "A",
		Phone:        "555",
		DineType:     "pickup",
		ItemsJSON:    `[{"category":"pizza","name":"Margherita","size":"medium","crust":null,"toppings":null,"extras":null,"quantity":1}]`,
	}
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	sqlStore, err := Open(context.Background(), DialectSQLite, filepath.Join(t.TempDir(), "pizza_shop.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlStore.Close() })
	return map[string]Store{
		"sqlite": sqlStore,
		"memory": NewMemoryOrderRepo(),
	}
}

func TestStore_CreateThenGet(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			o := sampleOrder()
			o.Address = strPtr("1 Main St")
			o.Notes = strPtr("ring twice")
			o.PaymentMethod = strPtr("card")
			o.Paid = true
			if err := s.Create(ctx, o); err != nil {
				t.Fatalf("create: %v", err)
			}
			if o.ID != 1 {
				t.Fatalf("first id = %d, want 1", o.ID)
			}
			if o.Status != domain.OrderReceived {
				t.Fatalf("status = %q", o.Status)
			}
			got, err := s.Get(ctx, o.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.CustomerName != "A" || got.Phone != "555" || got.DineType != "pickup" {
				t.Fatalf("customer fields mismatch: %+v", got)
			}
			if got.Address == nil || *got.Address != "1 Main St" {
				t.Fatalf("address = %v", got.Address)
			}
			if got.Notes == nil || *got.Notes != "ring twice" {
				t.Fatalf("notes = %v", got.Notes)
			}
			if got.PaymentMethod == nil || *got.PaymentMethod != "card" || !got.Paid {
				t.Fatalf("payment mismatch: %v %v", got.PaymentMethod, got.Paid)
			}
			if got.ItemsJSON != o.ItemsJSON {
				t.Fatalf("items blob changed: %s", got.ItemsJSON)
			}
			if !got.CreatedAt.Equal(o.CreatedAt) {
				t.Fatalf("created_at = %v, want %v", got.CreatedAt, o.CreatedAt)
			}
		})
	}
}

func TestStore_NullableFieldsStayAbsent(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			o := sampleOrder()
			if err := s.Create(ctx, o); err != nil {
				t.Fatalf("create: %v", err)
			}
			got, err := s.Get(ctx, o.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Address != nil || got.Notes != nil || got.PaymentMethod != nil {
				t.Fatalf("expected nil optionals, got %+v", got)
			}
			if got.Paid {
				t.Fatalf("paid should default to false")
			}
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Create(ctx, sampleOrder()); err != nil {
				t.Fatalf("create: %v", err)
			}
			got, err := s.Get(ctx, 999)
			if !errors.Is(err, domain.ErrOrderNotFound) {
				t.Fatalf("err = %v, want ErrOrderNotFound", err)
			}
			if got != nil {
				t.Fatalf("partial record returned: %+v", got)
			}
		})
	}
}

func TestStore_IDsStrictlyIncrease(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var prev int64
			for i := 0; i < 5; i++ {
				o := sampleOrder()
				if err := s.Create(ctx, o); err != nil {
					t.Fatalf("create: %v", err)
				}
				if o.ID <= prev {
					t.Fatalf("id %d not greater than %d", o.ID, prev)
				}
				prev = o.ID
			}
		})
	}
}

func TestStore_ConcurrentCreatesAreUnique(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const n = 20
			ids := make(chan int64, n)
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					o := sampleOrder()
					if err := s.Create(ctx, o); err != nil {
						t.Errorf("create: %v", err)
						return
					}
					ids <- o.ID
				}()
			}
			wg.Wait()
			close(ids)
			seen := map[int64]bool{}
			for id := range ids {
				if seen[id] {
					t.Fatalf("duplicate id %d", id)
				}
				seen[id] = true
			}
			if len(seen) != n {
				t.Fatalf("got %d ids, want %d", len(seen), n)
			}
		})
	}
}

func TestMemoryOrderRepo_ReturnsCopies(t *testing.T) {
	r := NewMemoryOrderRepo()
	ctx := context.Background()
	o := sampleOrder()
	if err := r.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}
	o.CustomerName = "mutated"
	got, _ := r.Get(ctx, o.ID)
	got.Phone = "mutated"
	again, _ := r.Get(ctx, o.ID)
	if again.CustomerName != "A" || again.Phone != "555" {
		t.Fatalf("stored record was mutated: %+v", again)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", "x"); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestRebind(t *testing.T) {
	pg := &SQLRepo{dialect: DialectPostgres}
	if got := pg.rebind("SELECT a FROM t WHERE id=? AND b=?"); got != "SELECT a FROM t WHERE id=$1 AND b=$2" {
		t.Fatalf("postgres rebind = %q", got)
	}
	lite := &SQLRepo{dialect: DialectSQLite}
	if got := lite.rebind("id=?"); got != "id=?" {
		t.Fatalf("sqlite rebind = %q", got)
	}
}
