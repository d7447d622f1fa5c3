package entity

import (
	"math"
	"reflect"
	"testing"

	"PixelBattle/internal/battle/catalog"
	"PixelBattle/internal/battle/orders"
	"PixelBattle/internal/shared/serverconfig"
)

func newTestEngine() *Engine {
	return NewEngine(serverconfig.DefaultGame())
}

func one(kind catalog.UnitKind, n int) orders.Orders {
	return orders.Orders{{Kind: kind, Count: n}}
}

func assertSquadInvariant(t *testing.T, g GameState) {
	t.Helper()
	for _, q := range g.Squads {
		if q.TotalHP < 0 {
			t.Fatalf("squad %d totalHP<0: %v", q.ID, q.TotalHP)
		}
		if want := int(math.Ceil(q.TotalHP / q.HPEach)); q.Count != want {
			t.Fatalf("squad %d count=%d, ceil(totalHP/hpEach)=%d", q.ID, q.Count, want)
		}
	}
}

func TestNewEngine_开局状态(t *testing.T) {
	e := newTestEngine()
	g := e.Snapshot()
	if g.Width != 1200 || g.Height != 420 {
		t.Fatalf("board=%dx%d", g.Width, g.Height)
	}
	for _, side := range Sides() {
		b := g.Bases.Of(side)
		if b.HP != 2000 || b.Money != 1000 {
			t.Fatalf("base %s=%+v", side, *b)
		}
	}
	if len(g.Squads) != 0 || g.NextID != 1 || g.GameOver || g.Winner != nil {
		t.Fatalf("unexpected state: %+v", g)
	}
}

func TestTryRecruit_扣钱并出兵(t *testing.T) {
	e := newTestEngine()
	res := e.TryRecruit(SideA, one(catalog.Swordsman, 10))
	if !res.OK || res.Cost != 100 {
		t.Fatalf("res=%+v", res)
	}
	g := e.Snapshot()
	if g.Bases.A.Money != 900 {
		t.Fatalf("money=%v, want 900", g.Bases.A.Money)
	}
	if len(g.Squads) != 1 {
		t.Fatalf("squads=%d", len(g.Squads))
	}
	q := g.Squads[0]
	if q.Side != SideA || q.Kind != catalog.Swordsman || q.Count != 10 || q.TotalHP != 1000 {
		t.Fatalf("squad=%+v", *q)
	}
	if q.X != 80 || q.Y != 210 || q.Batch != 1 || q.Via != ViaOrder {
		t.Fatalf("squad placement=%+v", *q)
	}

	e.TryRecruit(SideB, one(catalog.Archer, 1))
	if got := e.Snapshot().Squads[1].X; got != 1120 {
		t.Fatalf("B 方出生点 x=%v, want 1120", got)
	}
}

func TestTryRecruit_余额不足不改状态(t *testing.T) {
	e := newTestEngine()
	e.state.Bases.A.Money = 100
	before := e.Snapshot()

	res := e.TryRecruit(SideA, one(catalog.Archer, 10))
	if res.OK || res.Reason != ReasonInsufficientFunds || res.Needed != 150 || res.Available != 100 {
		t.Fatalf("res=%+v", res)
	}
	if !reflect.DeepEqual(before, e.Snapshot()) {
		t.Fatalf("余额不足时状态被修改")
	}
}

func TestTryRecruit_空订单成功且不出兵(t *testing.T) {
	e := newTestEngine()
	res := e.TryRecruit(SideB, nil)
	if !res.OK || res.Cost != 0 {
		t.Fatalf("res=%+v", res)
	}
	if len(e.Snapshot().Squads) != 0 || e.Money(SideB) != 1000 {
		t.Fatalf("空订单不应改变状态")
	}
}

func TestSpawn_连续同兵种合并(t *testing.T) {
	e := newTestEngine()
	e.TryRecruit(SideA, one(catalog.Swordsman, 3))
	e.TryRecruit(SideA, one(catalog.Swordsman, 2))

	g := e.Snapshot()
	if len(g.Squads) != 1 || g.Squads[0].Count != 5 || g.Squads[0].TotalHP != 500 {
		t.Fatalf("合并失败: %+v", g.Squads)
	}
	if g.BatchA != 1 || g.NextID != 2 {
		t.Fatalf("合并不应推进计数器: batchA=%d nextId=%d", g.BatchA, g.NextID)
	}
	assertSquadInvariant(t, g)
}

func TestSpawn_中间插入其他兵种不合并(t *testing.T) {
	e := newTestEngine()
	e.TryRecruit(SideA, one(catalog.Swordsman, 3))
	e.TryRecruit(SideA, one(catalog.Archer, 1))
	e.TryRecruit(SideA, one(catalog.Swordsman, 2))

	g := e.Snapshot()
	if len(g.Squads) != 3 {
		t.Fatalf("squads=%d, want 3", len(g.Squads))
	}
	if g.Squads[0].Count != 3 || g.Squads[2].Count != 2 || g.Squads[2].Batch != 3 {
		t.Fatalf("unexpected squads: %+v %+v", *g.Squads[0], *g.Squads[2])
	}
}

func TestSpawn_双方合并目标互不影响(t *testing.T) {
	e := newTestEngine()
	e.Spawn(SideA, catalog.Shield, 1, ViaOrder)
	e.Spawn(SideB, catalog.Shield, 1, ViaOrder)
	e.Spawn(SideA, catalog.Shield, 1, ViaOrder)

	g := e.Snapshot()
	if len(g.Squads) != 2 || g.Squads[0].Count != 2 || g.Squads[1].Count != 1 {
		t.Fatalf("unexpected squads: %+v", g.Squads)
	}
}

func TestSpawn_非法参数返回nil(t *testing.T) {
	e := newTestEngine()
	if e.Spawn(SideA, "dragon", 1, ViaOrder) != nil {
		t.Fatalf("未知兵种应返回 nil")
	}
	if e.Spawn(SideA, catalog.Archer, 0, ViaOrder) != nil {
		t.Fatalf("count=0 应返回 nil")
	}
	if e.Spawn("C", catalog.Archer, 1, ViaOrder) != nil {
		t.Fatalf("非法阵营应返回 nil")
	}
}

func TestTryRecruit_多兵种按订单顺序出兵(t *testing.T) {
	e := newTestEngine()
	e.TryRecruit(SideA, orders.Parse("2弓3剑1弓"))

	g := e.Snapshot()
	if len(g.Squads) != 2 {
		t.Fatalf("squads=%d", len(g.Squads))
	}
	if g.Squads[0].Kind != catalog.Archer || g.Squads[0].Count != 3 || g.Squads[1].Kind != catalog.Swordsman {
		t.Fatalf("顺序不符: %+v %+v", *g.Squads[0], *g.Squads[1])
	}
	if e.Money(SideA) != 1000-3*15-3*10 {
		t.Fatalf("money=%v", e.Money(SideA))
	}
}

func TestReset_两次结果一致且id继续递增(t *testing.T) {
	e := newTestEngine()
	e.TryRecruit(SideA, one(catalog.Swordsman, 3))
	e.TryRecruit(SideB, one(catalog.Archer, 3))
	e.Step(100)

	e.Reset()
	first := e.Snapshot()
	e.Reset()
	second := e.Snapshot()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("两次 Reset 结果不同:\n%+v\n%+v", first, second)
	}
	if first.NextID != 3 || first.BatchA != 0 || first.BatchB != 0 {
		t.Fatalf("nextId=%d batchA=%d batchB=%d", first.NextID, first.BatchA, first.BatchB)
	}
	if q := e.Spawn(SideA, catalog.Swordsman, 1, ViaOrder); q.ID != 3 || q.Batch != 1 {
		t.Fatalf("reset 后出兵 id=%d batch=%d", q.ID, q.Batch)
	}
	if e.Stats() != (MatchStats{}) {
		t.Fatalf("reset 应清空对局统计")
	}
}

func TestCollectAutoIncome_双方加钱且不自动出兵(t *testing.T) {
	e := newTestEngine()
	e.CollectAutoIncome()
	g := e.Snapshot()
	if g.Bases.A.Money != 1100 || g.Bases.B.Money != 1100 || len(g.Squads) != 0 {
		t.Fatalf("unexpected state: %+v", g)
	}
}

func TestStep_移动速度与边界(t *testing.T) {
	e := newTestEngine()
	e.Spawn(SideA, catalog.Swordsman, 1, ViaOrder)
	e.Step(100)
	if got := e.Snapshot().Squads[0].X; math.Abs(got-86) > 1e-9 {
		t.Fatalf("x=%v, want 86", got)
	}

	e.state.Squads[0].X = 1100
	e.Step(10000)
	if got := e.Snapshot().Squads[0].X; got != 1160 {
		t.Fatalf("不应越过敌方基地前沿, x=%v", got)
	}

	// 已在敌方基地射程内且场上没有敌方兵团时原地攻击基地
	hp := e.Snapshot().Bases.B.HP
	e.Step(100)
	g := e.Snapshot()
	if g.Squads[0].X != 1160 || g.Bases.B.HP >= hp {
		t.Fatalf("x=%v baseHP %v -> %v", g.Squads[0].X, hp, g.Bases.B.HP)
	}
}

func TestStep_对战扣血与击杀赏金(t *testing.T) {
	e := newTestEngine()
	e.TryRecruit(SideA, one(catalog.Swordsman, 10))
	e.TryRecruit(SideB, one(catalog.Berserker, 10))
	bMoney := e.Money(SideB)

	prevA := 1000.0
	engaged := false
	for i := 0; i < 200; i++ {
		e.Step(100)
		g := e.Snapshot()
		assertSquadInvariant(t, g)
		var sword *Squad
		for _, q := range g.Squads {
			if q.Kind == catalog.Swordsman {
				sword = q
			}
		}
		if sword == nil {
			break
		}
		if sword.TotalHP > prevA {
			t.Fatalf("剑士总血量不应回升: %v -> %v", prevA, sword.TotalHP)
		}
		if sword.TotalHP < prevA {
			engaged = true
		}
		prevA = sword.TotalHP
	}
	if !engaged {
		t.Fatalf("双方未交战")
	}
	if e.Money(SideB) <= bMoney {
		t.Fatalf("B 方击杀后应获得赏金: %v -> %v", bMoney, e.Money(SideB))
	}
	st := e.Stats()
	if st.B.Kills == 0 || st.B.Bounty != float64(st.B.Kills)*5 {
		t.Fatalf("stats=%+v", st)
	}
}

func TestStep_最低伤害为1(t *testing.T) {
	e := newTestEngine()
	e.Spawn(SideA, catalog.Shield, 1, ViaOrder)
	e.Spawn(SideB, catalog.Swordsman, 1, ViaOrder)
	e.state.Squads[0].X = 600
	e.state.Squads[1].X = 610

	e.Step(1000)
	sword := e.Snapshot().Squads[1]
	// 盾牌手 atk0 打剑士 def10 仍有 1 点；剑士 atk5 打盾牌手 def20 同样为 1
	if sword.TotalHP != 99 {
		t.Fatalf("sword totalHP=%v, want 99", sword.TotalHP)
	}
	if shield := e.Snapshot().Squads[0]; shield.TotalHP != 199 {
		t.Fatalf("shield totalHP=%v, want 199", shield.TotalHP)
	}
}

func TestStep_相同输入结果确定(t *testing.T) {
	run := func() GameState {
		e := newTestEngine()
		e.TryRecruit(SideA, orders.Parse("5剑3弓2盾"))
		e.TryRecruit(SideB, orders.Parse("4狂2枪3弓"))
		for i := 0; i < 300; i++ {
			e.Step(100)
		}
		return e.Snapshot()
	}
	if a, b := run(), run(); !reflect.DeepEqual(a, b) {
		t.Fatalf("相同输入得到不同结果")
	}
}

func placeAtEnemyBase(e *Engine, side Side, kind catalog.UnitKind) {
	q := e.Spawn(side, kind, 1, ViaOrder)
	q.X = e.enemyBaseX(side)
}

func TestStep_单方基地归零对方获胜(t *testing.T) {
	e := newTestEngine()
	placeAtEnemyBase(e, SideA, catalog.Berserker)
	e.state.Bases.B.HP = 1

	e.Step(100)
	g := e.Snapshot()
	if !g.GameOver || g.Winner == nil || *g.Winner != SideA || g.Draw {
		t.Fatalf("unexpected result: over=%v winner=%v draw=%v", g.GameOver, g.Winner, g.Draw)
	}
	if g.Bases.B.HP != 0 {
		t.Fatalf("基地血量应钳到 0, got=%v", g.Bases.B.HP)
	}
}

func TestStep_双方同时归零判平局且结束状态单调(t *testing.T) {
	e := newTestEngine()
	placeAtEnemyBase(e, SideA, catalog.Berserker)
	placeAtEnemyBase(e, SideB, catalog.Berserker)
	e.state.Bases.A.HP = 1
	e.state.Bases.B.HP = 1

	e.Step(100)
	g := e.Snapshot()
	if !g.GameOver || !g.Draw || g.Winner != nil {
		t.Fatalf("期望平局: over=%v draw=%v winner=%v", g.GameOver, g.Draw, g.Winner)
	}

	e.Step(100)
	e.CollectAutoIncome()
	res := e.TryRecruit(SideA, one(catalog.Swordsman, 1))
	if res.OK || res.Reason != ReasonGameOver {
		t.Fatalf("结束后招募应被拒绝: %+v", res)
	}
	if !reflect.DeepEqual(g, e.Snapshot()) {
		t.Fatalf("结束后状态不应再变化")
	}

	e.Reset()
	if e.GameOver() {
		t.Fatalf("reset 后应清除结束状态")
	}
}

func TestSnapshot_深拷贝(t *testing.T) {
	e := newTestEngine()
	e.Spawn(SideA, catalog.Swordsman, 2, ViaOrder)
	g := e.Snapshot()
	g.Squads[0].Count = 99
	g.Bases.A.Money = 0
	if e.Snapshot().Squads[0].Count != 2 || e.Money(SideA) != 1000 {
		t.Fatalf("修改快照影响了引擎状态")
	}
}

func TestTryRecruit_超大数量按余额不足处理(t *testing.T) {
	e := newTestEngine()
	res := e.TryRecruit(SideA, orders.Parse("9223372036854775807剑 1剑"))
	if res.OK || res.Reason != ReasonInsufficientFunds {
		t.Fatalf("res=%+v", res)
	}
	g := e.Snapshot()
	if g.Bases.A.Money != 1000 || len(g.Squads) != 0 {
		t.Fatalf("state changed: money=%v squads=%d", g.Bases.A.Money, len(g.Squads))
	}
}

func TestTryRecruit_非正数量拒绝且不改状态(t *testing.T) {
	for _, n := range []int{0, -5, orders.MaxCount + 1} {
		e := newTestEngine()
		res := e.TryRecruit(SideB, orders.Orders{{Kind: catalog.Archer, Count: 1}, {Kind: catalog.Swordsman, Count: n}})
		if res.OK || res.Reason != ReasonInvalidOrder {
			t.Fatalf("count=%d res=%+v", n, res)
		}
		g := e.Snapshot()
		if g.Bases.B.Money != 1000 || len(g.Squads) != 0 || e.Stats().B.Spent != 0 {
			t.Fatalf("count=%d state changed: %+v", n, g.Bases.B)
		}
	}
}

func TestTryRecruit_对局结束后拒绝(t *testing.T) {
	e := newTestEngine()
	placeAtEnemyBase(e, SideA, catalog.Berserker)
	e.state.Bases.B.HP = 1
	e.Step(100)
	if !e.GameOver() {
		t.Fatalf("expected game over")
	}
	before := e.Money(SideA)
	res := e.TryRecruit(SideA, one(catalog.Swordsman, 1))
	if res.OK || res.Reason != ReasonGameOver {
		t.Fatalf("res=%+v", res)
	}
	if e.Money(SideA) != before {
		t.Fatalf("money changed after game over")
	}
}
