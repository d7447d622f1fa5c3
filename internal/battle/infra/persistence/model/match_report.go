package model

import (
	"time"

	"PixelBattle/internal/battle/report"
)

// MatchReport 战报表
type MatchReport struct {
	ID         int64     `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false;comment:战报id" json:"id"`
	Winner     string    `gorm:"column:winner;type:varchar(4);not null;default:'';comment:胜方，空为平局" json:"winner"`
	Draw       bool      `gorm:"column:draw;not null;default:false" json:"draw"`
	StartedAt  time.Time `gorm:"column:started_at;type:datetime(3);not null" json:"started_at"`
	EndedAt    time.Time `gorm:"column:ended_at;type:datetime(3);not null;index:idx_ended_at" json:"ended_at"`
	Ticks      int       `gorm:"column:ticks;not null" json:"ticks"`
	BaseHPA    float64   `gorm:"column:base_hp_a;not null" json:"base_hp_a"`
	BaseHPB    float64   `gorm:"column:base_hp_b;not null" json:"base_hp_b"`
	MoneyA     float64   `gorm:"column:money_a;not null" json:"money_a"`
	MoneyB     float64   `gorm:"column:money_b;not null" json:"money_b"`
	RecruitedA int       `gorm:"column:recruited_a;not null" json:"recruited_a"`
	RecruitedB int       `gorm:"column:recruited_b;not null" json:"recruited_b"`
	SpentA     float64   `gorm:"column:spent_a;not null" json:"spent_a"`
	SpentB     float64   `gorm:"column:spent_b;not null" json:"spent_b"`
	KillsA     int       `gorm:"column:kills_a;not null" json:"kills_a"`
	KillsB     int       `gorm:"column:kills_b;not null" json:"kills_b"`
	BountyA    float64   `gorm:"column:bounty_a;not null" json:"bounty_a"`
	BountyB    float64   `gorm:"column:bounty_b;not null" json:"bounty_b"`
}

func (m *MatchReport) TableName() string {
	return "match_report"
}

func FromReport(r report.MatchReport) MatchReport {
	return MatchReport{
		ID:         r.ID,
		Winner:     r.Winner,
		Draw:       r.Draw,
		StartedAt:  r.StartedAt,
		EndedAt:    r.EndedAt,
		Ticks:      r.Ticks,
		BaseHPA:    r.A.BaseHP,
		BaseHPB:    r.B.BaseHP,
		MoneyA:     r.A.Money,
		MoneyB:     r.B.Money,
		RecruitedA: r.A.Recruited,
		RecruitedB: r.B.Recruited,
		SpentA:     r.A.Spent,
		SpentB:     r.B.Spent,
		KillsA:     r.A.Kills,
		KillsB:     r.B.Kills,
		BountyA:    r.A.Bounty,
		BountyB:    r.B.Bounty,
	}
}

func (m MatchReport) ToReport() report.MatchReport {
	return report.MatchReport{
		ID:        m.ID,
		Winner:    m.Winner,
		Draw:      m.Draw,
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
		Ticks:     m.Ticks,
		A: report.SideSummary{
			BaseHP: m.BaseHPA, Money: m.MoneyA, Recruited: m.RecruitedA,
			Spent: m.SpentA, Kills: m.KillsA, Bounty: m.BountyA,
		},
		B: report.SideSummary{
			BaseHP: m.BaseHPB, Money: m.MoneyB, Recruited: m.RecruitedB,
			Spent: m.SpentB, Kills: m.KillsB, Bounty: m.BountyB,
		},
	}
}
