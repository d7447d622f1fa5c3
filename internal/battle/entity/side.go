package entity

type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

func ParseSide(raw string) (Side, bool) {
	s := Side(raw)
	return s, s.Valid()
}

// Sides 固定顺序 A、B，结算和收入都按这个顺序遍历。
func Sides() [2]Side {
	return [2]Side{SideA, SideB}
}

// Via 标记兵团来源：玩家下单或自动生成（保留，当前不会产生）。
type Via string

const (
	ViaOrder Via = "order"
	ViaAuto  Via = "auto"
)
