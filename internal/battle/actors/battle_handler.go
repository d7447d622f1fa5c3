package actors

import (
	"PixelBattle/internal/shared/transport"

	"github.com/asynkron/protoactor-go/actor"
)

type BattleHandler struct{}

var BH = &BattleHandler{}

func (h *BattleHandler) HandleRecruit(ctx actor.Context, p *BattleActor, req *RecruitReq) {
	if req == nil || !req.Side.Valid() {
		ctx.Respond(fail(transport.InvalidParam, "request parameter error"))
		return
	}
	res := p.engine.TryRecruit(req.Side, req.Orders)
	ctx.Respond(&RecruitReply{Res: res, Money: p.engine.Money(req.Side)})
}

func (h *BattleHandler) HandleReset(ctx actor.Context, p *BattleActor, req *ResetReq) {
	p.resetMatch()
	ctx.Respond(&ResetReply{State: p.engine.Snapshot()})
}

func (h *BattleHandler) HandleSnapshot(ctx actor.Context, p *BattleActor, req *SnapshotReq) {
	ctx.Respond(&SnapshotReply{State: p.engine.Snapshot(), Stats: p.engine.Stats()})
}

func fail(code int, msg string) *FailReply {
	return &FailReply{Code: code, Message: msg}
}
