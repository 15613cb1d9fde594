package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"

	"pizza-shop/internal/domain"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TIMESTAMP NOT NULL,
	status TEXT NOT NULL DEFAULT 'received',
	customer_name TEXT NOT NULL,
	phone TEXT NOT NULL,
	dine_type TEXT NOT NULL,
	address TEXT,
	items_json TEXT NOT NULL,
	notes TEXT,
	payment_method TEXT,
	paid BOOLEAN NOT NULL DEFAULT FALSE
);`

const postgresSchema = `CREATE TABLE IF NOT EXISTS orders (
	id BIGSERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	status TEXT NOT NULL DEFAULT 'received',
	customer_name TEXT NOT NULL,
	phone TEXT NOT NULL,
	dine_type TEXT NOT NULL,
	address TEXT,
	items_json TEXT NOT NULL,
	notes TEXT,
	payment_method TEXT,
	paid BOOLEAN NOT NULL DEFAULT FALSE
);`

const orderColumns = `id,created_at,status,customer_name,phone,dine_type,address,items_json,notes,payment_method,paid`

// SQLRepo stores orders in a single table. Every call checks a connection
// out of the pool and returns it before the call ends.
type SQLRepo struct {
	db      *sql.DB
	dialect string
	tracer  trace.Tracer
}

func NewSQLRepo(ctx context.Context, dialect, dsn string) (*SQLRepo, error) {
	var schema string
	switch dialect {
	case DialectSQLite:
		schema = sqliteSchema
	case DialectPostgres:
		schema = postgresSchema
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// one writer at a time; sqlite would otherwise answer SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}
	r := &SQLRepo{db: db, dialect: dialect, tracer: otel.Tracer("pizza-shop/repo")}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return r, nil
}

func (r *SQLRepo) Create(ctx context.Context, o *domain.Order) (err error) {
	ctx, span := r.start(ctx, "repo.Create")
	defer func() { endSpan(span, err) }()

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Close()

	createdAt := time.Now().UTC().Truncate(time.Microsecond)
	status := o.Status
	if status == "" {
		status = domain.OrderReceived
	}
	var id int64
	err = conn.QueryRowContext(ctx, r.rebind(`INSERT INTO orders (created_at,status,customer_name,phone,dine_type,address,items_json,notes,payment_method,paid)
		VALUES (?,?,?,?,?,?,?,?,?,?) RETURNING id`),
		createdAt, string(status), o.CustomerName, o.Phone, o.DineType, nullable(o.Address), o.ItemsJSON, nullable(o.Notes), nullable(o.PaymentMethod), o.Paid).
		Scan(&id)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	o.ID = id
	o.CreatedAt = createdAt
	o.Status = status
	span.SetAttributes(attribute.Int64("order.id", id))
	return nil
}

func (r *SQLRepo) Get(ctx context.Context, id int64) (_ *domain.Order, err error) {
	ctx, span := r.start(ctx, "repo.Get")
	span.SetAttributes(attribute.Int64("order.id", id))
	defer func() {
		if errors.Is(err, domain.ErrOrderNotFound) {
			span.End()
			return
		}
		endSpan(span, err)
	}()

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Close()

	var out domain.Order
	err = conn.QueryRowContext(ctx, r.rebind(`SELECT `+orderColumns+` FROM orders WHERE id=?`), id).
		Scan(&out.ID, &out.CreatedAt, (*string)(&out.Status), &out.CustomerName, &out.Phone, &out.DineType,
			&out.Address, &out.ItemsJSON, &out.Notes, &out.PaymentMethod, &out.Paid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select order %d: %w", id, err)
	}
	out.CreatedAt = out.CreatedAt.UTC()
	return &out, nil
}

func (r *SQLRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLRepo) Close() error {
	return r.db.Close()
}

func (r *SQLRepo) start(ctx context.Context, name string) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", r.dialect), attribute.String("db.sql.table", "orders")))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// rebind turns ? placeholders into $n for postgres.
func (r *SQLRepo) rebind(q string) string {
	if r.dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}
