package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_OrderCreated(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.OrderCreated("pickup", false)
	m.OrderCreated("pickup", false)
	m.OrderCreated("delivery", true)

	if got := testutil.ToFloat64(m.ordersCreated.WithLabelValues("pickup", "false")); got != 2 {
		t.Fatalf("pickup unpaid = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ordersCreated.WithLabelValues("delivery", "true")); got != 1 {
		t.Fatalf("delivery paid = %v, want 1", got)
	}
}

func TestMetrics_ObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveRequest("GET", "/orders/:order_id", 404, 3*time.Millisecond)

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/orders/:order_id", "404")); got != 1 {
		t.Fatalf("requests = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.httpDuration); n != 1 {
		t.Fatalf("histogram series = %d, want 1", n)
	}
}
