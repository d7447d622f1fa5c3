package port

import (
	"context"

	"PixelBattle/internal/battle/report"
)

// MatchReportRepository 战报存储。List 按结束时间倒序返回最多 limit 条。
type MatchReportRepository interface {
	Save(ctx context.Context, r *report.MatchReport) error
	List(ctx context.Context, limit int) ([]report.MatchReport, error)
}
