package memory

import (
	"context"
	"sort"
	"sync"

	"PixelBattle/internal/battle/report"
)

const defaultCapacity = 200

// ReportRepository 进程内战报存储，超过容量时淘汰最早的。
type ReportRepository struct {
	mu       sync.RWMutex
	reports  []report.MatchReport
	capacity int
}

func NewReportRepository(capacity int) *ReportRepository {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &ReportRepository{capacity: capacity}
}

func (r *ReportRepository) Save(ctx context.Context, m *report.MatchReport) error {
	_ = ctx
	if m == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.reports {
		if r.reports[i].ID == m.ID {
			r.reports[i] = *m
			return nil
		}
	}
	r.reports = append(r.reports, *m)
	if over := len(r.reports) - r.capacity; over > 0 {
		r.reports = append([]report.MatchReport(nil), r.reports[over:]...)
	}
	return nil
}

func (r *ReportRepository) List(ctx context.Context, limit int) ([]report.MatchReport, error) {
	_ = ctx
	r.mu.RLock()
	out := make([]report.MatchReport, len(r.reports))
	copy(out, r.reports)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EndedAt.After(out[j].EndedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
