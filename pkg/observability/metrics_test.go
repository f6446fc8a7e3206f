package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics("kintree")
	ctx := context.Background()

	m.OnFetchComplete(ctx, 3, 2, time.Millisecond, nil)
	m.OnFetchComplete(ctx, 0, 0, time.Millisecond, errors.New("offline"))
	m.OnLayoutComplete(ctx, 3, time.Millisecond, false)
	m.OnLayoutComplete(ctx, 3, time.Millisecond, true)
	m.OnFlushStart(ctx, "b1", 3)
	m.OnPositionWrite(ctx, 1, time.Millisecond, nil)
	m.OnPositionWrite(ctx, 2, time.Millisecond, nil)
	m.OnPositionWrite(ctx, 3, time.Millisecond, errors.New("locked"))
	m.OnCacheMiss(ctx, "layout")
	m.OnCacheSet(ctx, "layout", 128)
	m.OnCacheHit(ctx, "layout")

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"fetch errors", testutil.ToFloat64(m.FetchErrors), 1},
		{"members", testutil.ToFloat64(m.Members), 3},
		{"flush batches", testutil.ToFloat64(m.FlushBatches), 1},
		{"writes ok", testutil.ToFloat64(m.Positions.WithLabelValues("ok")), 2},
		{"writes failed", testutil.ToFloat64(m.Positions.WithLabelValues("failed")), 1},
		{"cache hits", testutil.ToFloat64(m.CacheOps.WithLabelValues("layout", "hit")), 1},
		{"cache misses", testutil.ToFloat64(m.CacheOps.WithLabelValues("layout", "miss")), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if n := testutil.CollectAndCount(m.LayoutDuration); n != 2 {
		t.Errorf("layout duration series = %d, want 2 (cached and fresh)", n)
	}
}

func TestMetricsRegister(t *testing.T) {
	defer Reset()
	m := NewMetrics("kintree")
	m.Register()

	Store().OnPositionWrite(context.Background(), 9, time.Millisecond, nil)
	if got := testutil.ToFloat64(m.Positions.WithLabelValues("ok")); got != 1 {
		t.Errorf("writes through registered hooks = %v, want 1", got)
	}
}

func TestMetricsWriteTextfile(t *testing.T) {
	m := NewMetrics("kintree")
	m.OnFlushStart(context.Background(), "b1", 1)

	path := filepath.Join(t.TempDir(), "kintree.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "kintree_flush_batches_total 1") {
		t.Errorf("textfile missing counter:\n%s", data)
	}
}
