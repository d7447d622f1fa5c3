package ws

import (
	"context"

	"PixelBattle/internal/battle/entity"
	"PixelBattle/internal/battle/interfaces/handler"
	"PixelBattle/internal/battle/orders"
	"PixelBattle/internal/battle/proto"
	"PixelBattle/internal/shared/session"
	"PixelBattle/internal/shared/transport"
	"PixelBattle/internal/shared/transport/ws"

	"go.uber.org/zap"
)

type WsHandler struct {
	battle *handler.Battle
}

func NewWsHandler(b *handler.Battle) *WsHandler {
	return &WsHandler{battle: b}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	r.OnOpen(h.onOpen)
	ws.Handle(r, proto.TypeJoin, h.join)
	ws.Handle(r, proto.TypeChat, h.chat)
	ws.Handle(r, proto.TypeRecruit, h.recruit)
	ws.Handle(r, proto.TypeReset, h.reset)
}

// onOpen 绑定会话（默认 viewer）并立即下发 hello，晚到的客户端不用等下一次广播。
func (h *WsHandler) onOpen(ctx context.Context, conn ws.WSConn) {
	h.battle.Session.Bind(conn)
	state, _, err := h.battle.Service.Snapshot(ctx)
	if err != nil {
		h.battle.Log.Error("hello snapshot failed", zap.Error(err))
		return
	}
	if err := conn.Push(proto.NewHello(state, h.battle.Game.BaseHP)); err != nil {
		h.battle.Log.Warn("push hello failed", zap.Error(err))
	}
}

// join 只有 role=client 且 side 合法时才成为玩家，其余一律按 viewer 处理。
// 同一阵营允许多条连接共享控制。
func (h *WsHandler) join(ctx context.Context, conn ws.WSConn, msg *proto.Join) error {
	role := session.RoleViewer
	side, ok := entity.ParseSide(msg.Side)
	if session.Role(msg.Role) == session.RoleClient && ok {
		role = session.RoleClient
	}

	var sidePtr *entity.Side
	sideRaw := ""
	if role == session.RoleClient {
		sidePtr = &side
		sideRaw = string(side)
	}
	h.battle.Session.Bind(conn)
	h.battle.Session.SetRole(conn, role, sideRaw)

	state, _, err := h.battle.Service.Snapshot(ctx)
	if err != nil {
		return err
	}
	return conn.Push(proto.NewJoined(string(role), sidePtr, state))
}

// player 返回连接对应的玩家阵营；viewer 返回 false。
func (h *WsHandler) player(ctx context.Context, conn ws.WSConn) (entity.Side, bool) {
	sess, ok := h.battle.Session.Get(conn)
	if !ok || !sess.IsPlayer() {
		transport.SetBizCode(ctx, transport.BizCode(transport.Forbidden))
		return "", false
	}
	return entity.Side(sess.Side), true
}

// chat 公开指令日志：识别出订单就尝试招募，无论结果如何都广播给所有人。
func (h *WsHandler) chat(ctx context.Context, conn ws.WSConn, msg *proto.Chat) error {
	side, ok := h.player(ctx, conn)
	if !ok {
		return nil
	}

	parsed := orders.Parse(msg.Text)
	var res *entity.RecruitResult
	if !parsed.Empty() {
		r, _, err := h.battle.Service.Recruit(ctx, side, parsed)
		if err != nil {
			return err
		}
		res = &r
		transport.SetBizCode(ctx, transport.BizCode(handler.RecruitBizCode(r)))
	}

	_, err := h.battle.Session.Broadcast(proto.NewChatBroadcast(side, msg.Text, parsed, res))
	return err
}

// recruit 结构化下单，结果只回给发送方。
func (h *WsHandler) recruit(ctx context.Context, conn ws.WSConn, msg *proto.Recruit) error {
	side, ok := h.player(ctx, conn)
	if !ok {
		return nil
	}

	res, money, err := h.battle.Service.Recruit(ctx, side, orders.FromMap(msg.Orders))
	if err != nil {
		return err
	}
	transport.SetBizCode(ctx, transport.BizCode(handler.RecruitBizCode(res)))
	if !res.OK {
		transport.SetErrorReason(ctx, res.Reason)
	}
	return conn.Push(proto.NewRecruitResult(res, money))
}

// reset 任何连接都可以触发，重置后的状态广播给所有人。
func (h *WsHandler) reset(ctx context.Context, conn ws.WSConn, msg *proto.Reset) error {
	state, err := h.battle.Service.Reset(ctx)
	if err != nil {
		return err
	}
	_, err = h.battle.Session.Broadcast(proto.NewReseted(state))
	return err
}
