package entity

import "PixelBattle/internal/battle/catalog"

// Squad 同兵种的一批兵，共享总血量。Count 始终由 TotalHP 推导：ceil(TotalHP/HPEach)。
type Squad struct {
	ID      int64            `json:"id"`
	Side    Side             `json:"side"`
	Kind    catalog.UnitKind `json:"type"`
	Count   int              `json:"count"`
	HPEach  float64          `json:"hpEach"`
	TotalHP float64          `json:"totalHP"`
	X       float64          `json:"x"`
	Y       float64          `json:"y"`
	Batch   int              `json:"batch"`
	Via     Via              `json:"via"`
}

type Base struct {
	HP    float64 `json:"hp"`
	Money float64 `json:"money"`
}

type Bases struct {
	A Base `json:"A"`
	B Base `json:"B"`
}

func (b *Bases) Of(side Side) *Base {
	if side == SideB {
		return &b.B
	}
	return &b.A
}

// GameState 是对局的完整快照。Winner 为 nil 表示未分胜负或平局（Draw）。
type GameState struct {
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Bases    Bases    `json:"bases"`
	Squads   []*Squad `json:"squads"`
	NextID   int64    `json:"nextId"`
	BatchA   int      `json:"batchA"`
	BatchB   int      `json:"batchB"`
	Winner   *Side    `json:"winner"`
	GameOver bool     `json:"gameOver"`
	Draw     bool     `json:"draw"`
}

// Clone 深拷贝，快照交给读方后与引擎内部状态完全隔离。
func (g GameState) Clone() GameState {
	out := g
	out.Squads = make([]*Squad, len(g.Squads))
	for i, q := range g.Squads {
		cp := *q
		out.Squads[i] = &cp
	}
	if g.Winner != nil {
		w := *g.Winner
		out.Winner = &w
	}
	return out
}

func (g *GameState) nextBatch(side Side) int {
	if side == SideB {
		g.BatchB++
		return g.BatchB
	}
	g.BatchA++
	return g.BatchA
}

func (g *GameState) findSquad(id int64) *Squad {
	if id == 0 {
		return nil
	}
	for _, q := range g.Squads {
		if q.ID == id {
			return q
		}
	}
	return nil
}
