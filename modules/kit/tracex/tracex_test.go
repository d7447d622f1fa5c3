package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestConnID_空值视为不存在(t *testing.T) {
	ctx := WithConnID(context.Background(), "")
	if _, ok := ConnIDFrom(ctx); ok {
		t.Fatalf("期望空 conn_id 返回 ok=false")
	}
}

func TestNewTraceID_长度(t *testing.T) {
	if got := NewTraceID(); len(got) != 32 {
		t.Fatalf("期望 32 位 hex，got=%q", got)
	}
}
