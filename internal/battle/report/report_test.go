package report

import (
	"testing"
	"time"

	"PixelBattle/internal/battle/entity"
)

func TestBuild_胜负与统计(t *testing.T) {
	winner := entity.SideB
	state := entity.GameState{
		Bases:    entity.Bases{A: entity.Base{HP: 0, Money: 120}, B: entity.Base{HP: 800, Money: 300}},
		Winner:   &winner,
		GameOver: true,
	}
	stats := entity.MatchStats{Ticks: 42, B: entity.SideStats{Recruited: 10, Kills: 3, Bounty: 15}}
	start := time.Unix(100, 0)

	r := Build(state, stats, start, start.Add(time.Minute))
	if r.Winner != "B" || r.Draw || r.Ticks != 42 || r.Duration() != time.Minute {
		t.Fatalf("report=%+v", r)
	}
	if r.B.Kills != 3 || r.B.BaseHP != 800 || r.A.Money != 120 {
		t.Fatalf("summary A=%+v B=%+v", r.A, r.B)
	}
}

func TestBuild_平局没有胜者(t *testing.T) {
	r := Build(entity.GameState{GameOver: true, Draw: true}, entity.MatchStats{}, time.Now(), time.Now())
	if r.Winner != "" || !r.Draw {
		t.Fatalf("report=%+v", r)
	}
}
