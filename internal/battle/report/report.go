// Package report 是对局战报：一局结束时的结果和双方统计，只做审计留档，不用于恢复对局。
package report

import (
	"time"

	"PixelBattle/internal/battle/entity"
)

type SideSummary struct {
	BaseHP    float64 `json:"baseHP" bson:"base_hp"`
	Money     float64 `json:"money" bson:"money"`
	Recruited int     `json:"recruited" bson:"recruited"`
	Spent     float64 `json:"spent" bson:"spent"`
	Kills     int     `json:"kills" bson:"kills"`
	Bounty    float64 `json:"bounty" bson:"bounty"`
}

type MatchReport struct {
	ID int64 `json:"id,string" bson:"_id"`
	// Winner 为空表示平局。
	Winner    string      `json:"winner" bson:"winner"`
	Draw      bool        `json:"draw" bson:"draw"`
	StartedAt time.Time   `json:"startedAt" bson:"started_at"`
	EndedAt   time.Time   `json:"endedAt" bson:"ended_at"`
	Ticks     int         `json:"ticks" bson:"ticks"`
	A         SideSummary `json:"A" bson:"a"`
	B         SideSummary `json:"B" bson:"b"`
}

func (r MatchReport) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// Build 从结束时的快照和统计生成战报，ID 由写入方分配。
func Build(state entity.GameState, stats entity.MatchStats, startedAt, endedAt time.Time) MatchReport {
	r := MatchReport{
		Draw:      state.Draw,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Ticks:     stats.Ticks,
		A:         summarize(state.Bases.A, stats.A),
		B:         summarize(state.Bases.B, stats.B),
	}
	if state.Winner != nil {
		r.Winner = string(*state.Winner)
	}
	return r
}

func summarize(b entity.Base, s entity.SideStats) SideSummary {
	return SideSummary{
		BaseHP:    b.HP,
		Money:     b.Money,
		Recruited: s.Recruited,
		Spent:     s.Spent,
		Kills:     s.Kills,
		Bounty:    s.Bounty,
	}
}
