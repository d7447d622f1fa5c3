package actor

import (
	"context"
	"errors"
	"testing"
	"time"

	"PixelBattle/internal/battle/entity"
	"PixelBattle/internal/battle/orders"
	"PixelBattle/internal/shared/serverconfig"
	"PixelBattle/internal/shared/transport"
	"PixelBattle/modules/kit/errx"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	cfg := serverconfig.DefaultGame()
	cfg.TickInterval = 0
	cfg.BroadcastInterval = 0
	cfg.IncomeInterval = 0
	r := NewRuntime(cfg, time.Second, nil, nil, nil)
	t.Cleanup(r.Shutdown)
	return r
}

func TestRuntime_招募_余额不足_重置(t *testing.T) {
	r := newTestRuntime(t)
	ctx := context.Background()

	res, money, err := r.Recruit(ctx, entity.SideB, orders.Parse("20盾"))
	if err != nil || !res.OK || money != 700 {
		t.Fatalf("res=%+v money=%v err=%v", res, money, err)
	}

	res, money, err = r.Recruit(ctx, entity.SideB, orders.Parse("50盾"))
	if err != nil || res.OK || res.Reason != entity.ReasonInsufficientFunds || res.Needed != 750 || res.Available != 700 || money != 700 {
		t.Fatalf("res=%+v money=%v err=%v", res, money, err)
	}

	state, err := r.Reset(ctx)
	if err != nil || len(state.Squads) != 0 || state.Bases.B.Money != 1000 {
		t.Fatalf("state=%+v err=%v", state, err)
	}

	snap, stats, err := r.Snapshot(ctx)
	if err != nil || snap.NextID != 2 || stats.Ticks != 0 {
		t.Fatalf("snap=%+v stats=%+v err=%v", snap, stats, err)
	}
}

func TestRuntime_非法阵营返回业务码(t *testing.T) {
	r := newTestRuntime(t)
	_, _, err := r.Recruit(context.Background(), "X", orders.Parse("剑"))
	if err == nil {
		t.Fatalf("期望错误")
	}
	if CodeFromError(err) != transport.InvalidParam {
		t.Fatalf("code=%d", CodeFromError(err))
	}
}

func TestRuntime_关闭后请求失败(t *testing.T) {
	r := newTestRuntime(t)
	r.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _, err := r.Snapshot(ctx)
	if err == nil {
		t.Fatalf("关闭后请求应失败")
	}
	if CodeFromError(err) != transport.SystemError {
		t.Fatalf("code=%d", CodeFromError(err))
	}
	var e *errx.Error
	if !errors.As(err, &e) {
		t.Fatalf("cause 应是 errx 错误: %v", err)
	}
}

func TestTimeoutFromContext_取较小值(t *testing.T) {
	r := &Runtime{timeout: time.Second}
	if got := r.timeoutFromContext(context.Background()); got != time.Second {
		t.Fatalf("got=%v", got)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if got := r.timeoutFromContext(ctx); got > 100*time.Millisecond {
		t.Fatalf("got=%v", got)
	}
	if CodeFromError(nil) != transport.OK {
		t.Fatalf("nil 错误应为 OK")
	}
}
