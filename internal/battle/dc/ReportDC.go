package dc

import (
	"context"
	"errors"
	"sync"
	"time"

	"PixelBattle/internal/battle/app/port"
	"PixelBattle/internal/battle/report"
	"PixelBattle/internal/shared/utils"
	"PixelBattle/modules/kit/errx"
	"PixelBattle/modules/kit/logx"

	"go.uber.org/zap"
)

const defaultRetryDelay = 200 * time.Millisecond

// ReportDC 异步写战报：actor 里只入队，写库在独立协程，失败按 retryDelay 重试，Close 时尽量写完。
type ReportDC struct {
	repo       port.MatchReportRepository
	ids        *utils.Snowflake
	retryDelay time.Duration
	log        logx.Logger

	mu      sync.Mutex
	pending []report.MatchReport
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewReportDC(repo port.MatchReportRepository, ids *utils.Snowflake, retryDelay time.Duration, l logx.Logger) *ReportDC {
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	if l == nil {
		l = logx.Nop()
	}
	d := &ReportDC{
		repo:       repo,
		ids:        ids,
		retryDelay: retryDelay,
		log:        l,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Submit 入队一份战报，ID 为 0 时分配雪花 id。关闭后提交的直接丢弃。
func (d *ReportDC) Submit(r report.MatchReport) int64 {
	if r.ID == 0 && d.ids != nil {
		r.ID = d.ids.NextID()
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Warn("report dc closed, report dropped", zap.Int64("report_id", r.ID))
		return r.ID
	}
	d.pending = append(d.pending, r)
	d.mu.Unlock()

	d.notify()
	return r.ID
}

func (d *ReportDC) List(ctx context.Context, limit int) ([]report.MatchReport, error) {
	if d.repo == nil {
		return nil, errx.ErrUnavailable.WithCause(errors.New("report repository is nil"))
	}
	out, err := d.repo.List(ctx, limit)
	if err != nil {
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	return out, nil
}

func (d *ReportDC) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *ReportDC) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *ReportDC) notify() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *ReportDC) popPending() (report.MatchReport, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) == 0 {
		return report.MatchReport{}, false
	}
	r := d.pending[0]
	d.pending = d.pending[1:]
	return r, true
}

// requeueFront 写库失败时放回队首，保持提交顺序。
func (d *ReportDC) requeueFront(r report.MatchReport) {
	d.mu.Lock()
	d.pending = append([]report.MatchReport{r}, d.pending...)
	d.mu.Unlock()
}

func (d *ReportDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending(false)
		case <-d.stop:
			d.consumePending(true)
			return
		}
	}
}

// consumePending 排空队列。draining 时每份最多再试一次，避免关闭被坏库卡死。
func (d *ReportDC) consumePending(draining bool) {
	for {
		r, ok := d.popPending()
		if !ok {
			return
		}
		if d.repo == nil {
			continue
		}
		err := d.repo.Save(context.Background(), &r)
		if err == nil {
			continue
		}
		logx.ReportSysErrorWithLoggerContext(context.Background(), d.log,
			logx.NewSysLog("report.save", errx.ErrUnavailable.WithCause(err)),
			zap.Int64("report_id", r.ID))
		if draining {
			if err := d.repo.Save(context.Background(), &r); err != nil {
				d.log.Error("report dropped on close", zap.Int64("report_id", r.ID), zap.Error(err))
			}
			continue
		}
		d.requeueFront(r)
		select {
		case <-time.After(d.retryDelay):
		case <-d.stop:
			// 重试途中收到关闭，剩余战报按排空规则处理
			draining = true
		}
	}
}
