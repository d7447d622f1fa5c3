package port

import (
	"context"

	"PixelBattle/internal/battle/entity"
	"PixelBattle/internal/battle/orders"
	"PixelBattle/internal/battle/report"
)

// BattleService 是对局的同步入口，实现方负责把调用串行化到唯一写者上。
type BattleService interface {
	Recruit(ctx context.Context, side entity.Side, o orders.Orders) (entity.RecruitResult, float64, error)
	Reset(ctx context.Context) (entity.GameState, error)
	Snapshot(ctx context.Context) (entity.GameState, entity.MatchStats, error)
}

type ReportQuery interface {
	List(ctx context.Context, limit int) ([]report.MatchReport, error)
}
