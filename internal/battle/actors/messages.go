package actors

import (
	"PixelBattle/internal/battle/entity"
	"PixelBattle/internal/battle/orders"
)

// ---- 请求（经 RequestFuture 投递，actor 必须 Respond） ----

type RecruitReq struct {
	Side   entity.Side
	Orders orders.Orders
}

type ResetReq struct{}

type SnapshotReq struct{}

// ---- 应答 ----

type RecruitReply struct {
	Res   entity.RecruitResult
	Money float64
}

type ResetReply struct {
	State entity.GameState
}

type SnapshotReply struct {
	State entity.GameState
	Stats entity.MatchStats
}

// FailReply actor 内部拒绝请求时的应答，Code 为 transport 业务码。
type FailReply struct {
	Code    int
	Message string
}

// ---- 定时驱动，不影响 ReceiveTimeout ----

// simTick 携带名义步长（毫秒），不按实际流逝时间追帧。
type simTick struct {
	dtMs float64
}

func (simTick) NotInfluenceReceiveTimeout() {}

type broadcastTick struct{}

func (broadcastTick) NotInfluenceReceiveTimeout() {}

type incomeTick struct{}

func (incomeTick) NotInfluenceReceiveTimeout() {}
