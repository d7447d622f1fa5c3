package entity

import (
	"math"

	"PixelBattle/internal/battle/catalog"
	"PixelBattle/internal/battle/orders"
	"PixelBattle/internal/shared/serverconfig"
)

// Engine 持有唯一的权威对局状态。所有方法同步执行、不阻塞，
// 只允许单写者（battle actor）调用，本身不加锁。
type Engine struct {
	cfg   serverconfig.GameConfig
	state GameState
	// lastSquad 是各方最近一次新建兵团的 id（0 表示无），只做合并查找用，不持有引用。
	lastSquad map[Side]int64
	stats     MatchStats
}

func NewEngine(cfg serverconfig.GameConfig) *Engine {
	e := &Engine{
		cfg:       cfg,
		lastSquad: make(map[Side]int64, 2),
		state:     GameState{NextID: 1},
	}
	e.Reset()
	return e
}

// Reset 恢复开局状态。NextID 不回退，保证 id 在进程内唯一。
func (e *Engine) Reset() {
	nextID := e.state.NextID
	if nextID <= 0 {
		nextID = 1
	}
	e.state = GameState{
		Width:  e.cfg.Width,
		Height: e.cfg.Height,
		Bases: Bases{
			A: Base{HP: e.cfg.BaseHP, Money: e.cfg.StartMoney},
			B: Base{HP: e.cfg.BaseHP, Money: e.cfg.StartMoney},
		},
		Squads: []*Squad{},
		NextID: nextID,
	}
	clear(e.lastSquad)
	e.stats = MatchStats{}
}

func (e *Engine) laneY() float64 {
	return float64(e.cfg.Height) / 2
}

func (e *Engine) spawnX(side Side) float64 {
	if side == SideA {
		return e.cfg.SpawnOffset
	}
	return float64(e.cfg.Width) - e.cfg.SpawnOffset
}

// enemyBaseX 是 side 方要进攻的敌方基地横坐标。
func (e *Engine) enemyBaseX(side Side) float64 {
	if side == SideA {
		return float64(e.cfg.Width) - e.cfg.BaseStandOff
	}
	return e.cfg.BaseStandOff
}

// Spawn 出兵。kind 未知或 count<=0 返回 nil。
// 若该方最近新建的兵团仍存活且同兵种，则并入该兵团；否则新建并成为新的合并目标。
func (e *Engine) Spawn(side Side, kind catalog.UnitKind, count int, via Via) *Squad {
	def, ok := catalog.Lookup(kind)
	if !ok || count <= 0 || !side.Valid() {
		return nil
	}

	if last := e.state.findSquad(e.lastSquad[side]); last != nil && last.Kind == kind && last.Count > 0 {
		last.Count += count
		last.TotalHP += def.HP * float64(count)
		return last
	}

	q := &Squad{
		ID:      e.state.NextID,
		Side:    side,
		Kind:    kind,
		Count:   count,
		HPEach:  def.HP,
		TotalHP: def.HP * float64(count),
		X:       e.spawnX(side),
		Y:       e.laneY(),
		Batch:   e.state.nextBatch(side),
		Via:     via,
	}
	e.state.NextID++
	e.state.Squads = append(e.state.Squads, q)
	e.lastSquad[side] = q.ID
	return q
}

// TryRecruit 按订单扣钱出兵，余额不足时不改动任何状态。
func (e *Engine) TryRecruit(side Side, o orders.Orders) RecruitResult {
	if !side.Valid() {
		return RecruitResult{OK: false, Reason: ReasonInvalidSide}
	}
	base := e.state.Bases.Of(side)
	if e.state.GameOver {
		return RecruitResult{OK: false, Reason: ReasonGameOver, Available: base.Money}
	}

	for _, line := range o {
		if line.Count <= 0 || line.Count > orders.MaxCount {
			return RecruitResult{OK: false, Reason: ReasonInvalidOrder, Available: base.Money}
		}
	}
	cost := o.Cost()
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return RecruitResult{OK: false, Reason: ReasonInvalidOrder, Available: base.Money}
	}
	if base.Money < cost {
		return RecruitResult{OK: false, Reason: ReasonInsufficientFunds, Needed: cost, Available: base.Money}
	}
	base.Money -= cost

	st := e.stats.Of(side)
	st.Spent += cost
	for _, line := range o {
		if e.Spawn(side, line.Kind, line.Count, ViaOrder) != nil {
			st.Recruited += line.Count
		}
	}
	return RecruitResult{OK: true, Cost: cost}
}

// CollectAutoIncome 定时收入。对局结束后不再发钱；自动出兵保持关闭。
func (e *Engine) CollectAutoIncome() {
	if e.state.GameOver {
		return
	}
	for _, side := range Sides() {
		e.state.Bases.Of(side).Money += e.cfg.IncomePerTick
		e.stats.Of(side).Income += e.cfg.IncomePerTick
	}
}

// Step 推进 dtMs 毫秒：清理 -> 移动 -> 结算 -> 胜负判定，顺序不可调换。
func (e *Engine) Step(dtMs float64) {
	if e.state.GameOver {
		return
	}
	e.stats.Ticks++
	e.prune()
	e.move(dtMs)
	e.resolve(dtMs)
	e.detectWinner()
}

func (e *Engine) prune() {
	live := e.state.Squads[:0]
	for _, q := range e.state.Squads {
		if q.Count > 0 {
			live = append(live, q)
		}
	}
	for i := len(live); i < len(e.state.Squads); i++ {
		e.state.Squads[i] = nil
	}
	e.state.Squads = live
}

// nearestEnemy 线性扫描最近的敌方兵团，距离相同取列表中靠前的。
func (e *Engine) nearestEnemy(q *Squad) (*Squad, float64) {
	var target *Squad
	best := math.Inf(1)
	for _, other := range e.state.Squads {
		if other.Side == q.Side {
			continue
		}
		if d := math.Abs(other.X - q.X); d < best {
			best = d
			target = other
		}
	}
	return target, best
}

func (e *Engine) reach(def catalog.Stats) float64 {
	return def.Rng * e.cfg.RangePxUnit
}

func (e *Engine) move(dtMs float64) {
	for _, q := range e.state.Squads {
		def := catalog.MustLookup(q.Kind)
		target, dist := e.nearestEnemy(q)
		inRange := target != nil && dist <= e.reach(def)
		baseInRange := math.Abs(e.enemyBaseX(q.Side)-q.X) <= e.reach(def)

		if inRange || (baseInRange && target == nil) {
			continue
		}
		if q.Side == SideA {
			q.X = math.Min(q.X+e.cfg.PxPerMs*dtMs, e.enemyBaseX(SideA))
		} else {
			q.X = math.Max(q.X-e.cfg.PxPerMs*dtMs, e.enemyBaseX(SideB))
		}
	}
}

// resolve 重新计算最近敌人后结算伤害。本 tick 被打空的兵团仍留在列表里，下个 tick 才清理。
// 击杀赏金整轮累计，结算完一次性入账。
func (e *Engine) resolve(dtMs float64) {
	award := map[Side]float64{}
	kills := map[Side]int{}
	for _, q := range e.state.Squads {
		def := catalog.MustLookup(q.Kind)
		target, dist := e.nearestEnemy(q)

		if target != nil && dist <= e.reach(def) {
			raw := math.Max(def.Atk-catalog.MustLookup(target.Kind).Def, 1)
			dmg := raw * float64(q.Count) * (dtMs / 1000)
			before := target.TotalHP
			target.TotalHP = math.Max(0, target.TotalHP-dmg)
			beforeCount := ceilCount(before, target.HPEach)
			afterCount := ceilCount(target.TotalHP, target.HPEach)
			if dead := beforeCount - afterCount; dead > 0 {
				award[q.Side] += float64(dead) * e.cfg.KillBounty
				kills[q.Side] += dead
			}
			target.Count = afterCount
			continue
		}

		if math.Abs(e.enemyBaseX(q.Side)-q.X) <= e.reach(def) {
			dmg := math.Max(def.Atk, 0) * float64(q.Count) * (dtMs / 1000)
			enemy := e.state.Bases.Of(q.Side.Opponent())
			enemy.HP = math.Max(0, enemy.HP-dmg)
		}
	}
	for _, side := range Sides() {
		e.state.Bases.Of(side).Money += award[side]
		st := e.stats.Of(side)
		st.Bounty += award[side]
		st.Kills += kills[side]
	}
}

// detectWinner 单方基地归零则对方获胜；同一 tick 双方同时归零判平局。
func (e *Engine) detectWinner() {
	if e.state.GameOver {
		return
	}
	aDown := e.state.Bases.A.HP <= 0
	bDown := e.state.Bases.B.HP <= 0
	switch {
	case aDown && bDown:
		e.state.GameOver = true
		e.state.Draw = true
		e.state.Winner = nil
	case aDown:
		e.setWinner(SideB)
	case bDown:
		e.setWinner(SideA)
	}
}

func (e *Engine) setWinner(side Side) {
	w := side
	e.state.Winner = &w
	e.state.GameOver = true
}

func ceilCount(totalHP, hpEach float64) int {
	if hpEach <= 0 {
		return 0
	}
	return int(math.Ceil(totalHP / hpEach))
}

// Snapshot 返回状态深拷贝，读方可以随意持有。
func (e *Engine) Snapshot() GameState {
	return e.state.Clone()
}

func (e *Engine) Stats() MatchStats {
	return e.stats
}

func (e *Engine) GameOver() bool {
	return e.state.GameOver
}

func (e *Engine) Money(side Side) float64 {
	return e.state.Bases.Of(side).Money
}

func (e *Engine) Config() serverconfig.GameConfig {
	return e.cfg
}
