// Package catalog 是兵种静态表：服务端结算和客户端展示共用同一份数据，
// 通过 hello/state 下发给客户端，客户端不再自己维护一份。
package catalog

import "fmt"

type UnitKind string

const (
	Swordsman UnitKind = "swordsman"
	Archer    UnitKind = "archer"
	Berserker UnitKind = "berserker"
	Spearman  UnitKind = "spearman"
	Shield    UnitKind = "shield"
)

// Stats 单个兵的属性。Rng 以射程单位计，换算像素见 GameConfig.RangePxUnit。
type Stats struct {
	Name  string  `json:"name"`
	Short string  `json:"short"`
	HP    float64 `json:"hp"`
	Atk   float64 `json:"atk"`
	Def   float64 `json:"def"`
	Rng   float64 `json:"rng"`
	Cost  float64 `json:"cost"`
}

var kinds = []UnitKind{Swordsman, Archer, Berserker, Spearman, Shield}

var table = map[UnitKind]Stats{
	Swordsman: {Name: "剑士", Short: "剑", HP: 100, Atk: 5, Def: 10, Rng: 1, Cost: 10},
	Archer:    {Name: "弓箭手", Short: "弓", HP: 20, Atk: 10, Def: 1, Rng: 5, Cost: 15},
	Berserker: {Name: "狂战士", Short: "狂", HP: 150, Atk: 20, Def: 1, Rng: 1, Cost: 15},
	Spearman:  {Name: "长枪兵", Short: "枪", HP: 100, Atk: 5, Def: 5, Rng: 2, Cost: 10},
	Shield:    {Name: "盾牌手", Short: "盾", HP: 200, Atk: 0, Def: 20, Rng: 1, Cost: 15},
}

func Lookup(kind UnitKind) (Stats, bool) {
	s, ok := table[kind]
	return s, ok
}

// MustLookup 只在调用方已校验过 kind 时使用，未知 kind 属于编程错误。
func MustLookup(kind UnitKind) Stats {
	s, ok := table[kind]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown unit kind %q", kind))
	}
	return s
}

// Kinds 返回固定顺序的兵种列表（表格顺序）。
func Kinds() []UnitKind {
	out := make([]UnitKind, len(kinds))
	copy(out, kinds)
	return out
}

// All 返回整表副本，调用方修改不影响静态表。
func All() map[UnitKind]Stats {
	out := make(map[UnitKind]Stats, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

func ParseKind(raw string) (UnitKind, bool) {
	kind := UnitKind(raw)
	_, ok := table[kind]
	return kind, ok
}
