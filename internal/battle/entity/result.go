package entity

import "encoding/json"

const (
	ReasonInsufficientFunds = "余额不足"
	ReasonGameOver          = "游戏已结束"
	ReasonInvalidSide       = "无效阵营"
	ReasonInvalidOrder      = "无效订单"
)

// RecruitResult 招募结果。余额不足是正常结果，不是错误。
type RecruitResult struct {
	OK        bool
	Cost      float64
	Reason    string
	Needed    float64
	Available float64
}

// MarshalJSON 成功时输出 {ok,cost}，失败时输出 {ok,reason,needed,available}。
func (r RecruitResult) MarshalJSON() ([]byte, error) {
	if r.OK {
		return json.Marshal(struct {
			OK   bool    `json:"ok"`
			Cost float64 `json:"cost"`
		}{true, r.Cost})
	}
	return json.Marshal(struct {
		OK        bool    `json:"ok"`
		Reason    string  `json:"reason"`
		Needed    float64 `json:"needed"`
		Available float64 `json:"available"`
	}{false, r.Reason, r.Needed, r.Available})
}

func (r *RecruitResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		OK        bool    `json:"ok"`
		Cost      float64 `json:"cost"`
		Reason    string  `json:"reason"`
		Needed    float64 `json:"needed"`
		Available float64 `json:"available"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = RecruitResult{OK: raw.OK, Cost: raw.Cost, Reason: raw.Reason, Needed: raw.Needed, Available: raw.Available}
	return nil
}

// SideStats 单方的对局统计。
type SideStats struct {
	Recruited int     `json:"recruited"`
	Spent     float64 `json:"spent"`
	Kills     int     `json:"kills"`
	Bounty    float64 `json:"bounty"`
	Income    float64 `json:"income"`
}

// MatchStats 自上次 Reset 起的对局统计，用于生成战报。
type MatchStats struct {
	Ticks int       `json:"ticks"`
	A     SideStats `json:"A"`
	B     SideStats `json:"B"`
}

func (m *MatchStats) Of(side Side) *SideStats {
	if side == SideB {
		return &m.B
	}
	return &m.A
}
