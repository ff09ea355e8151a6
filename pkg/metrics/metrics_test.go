package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRequest("/api/cart", "POST", 200, 120*time.Millisecond)
	m.ObserveRequest("/api/cart", "POST", 200, 80*time.Millisecond)
	m.ObserveRequest("/api/checkout", "POST", 400, 5*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/cart"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 cart requests, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/cart"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestCheckoutMetricsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)
	m.IncCheckout("success")
	m.IncCheckout("success")
	m.IncCheckout("empty_cart")
	m.IncOrderPlaced()
	m.AddStockOutRecords(3)
	m.AddStockOutRecords(0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "checkouts_total", "outcome", "success"); err != nil {
		t.Fatalf("fetch checkouts: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 successful checkouts, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkouts_total", "outcome", "empty_cart"); err != nil {
		t.Fatalf("fetch empty_cart: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 empty cart checkout, got %f", got)
	}

	if got := fetchPlainCounter(t, mfs, "orders_placed_total"); got != 1 {
		t.Fatalf("expected 1 order placed, got %f", got)
	}
	if got := fetchPlainCounter(t, mfs, "inventory_stock_out_records_total"); got != 3 {
		t.Fatalf("expected 3 stock-out records, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewHTTPMetrics(nil)
	m.ObserveRequest("/api/cart", "POST", 200, time.Millisecond)

	c := NewCheckoutMetrics(nil)
	c.IncCheckout("success")
	c.IncOrderPlaced()
	c.AddStockOutRecords(1)
}

func fetchPlainCounter(t *testing.T, mfs []*dto.MetricFamily, name string) float64 {
	t.Helper()
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		t.Fatalf("metric %q not found", name)
	}
	metrics := mf.GetMetric()
	if len(metrics) != 1 {
		t.Fatalf("expected single series for %q, got %d", name, len(metrics))
	}
	return metrics[0].GetCounter().GetValue()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
