package handler

import (
	"context"
	"errors"

	battleactor "PixelBattle/internal/battle/actor"
	"PixelBattle/internal/battle/app/port"
	"PixelBattle/internal/battle/entity"
	"PixelBattle/internal/battle/proto"
	"PixelBattle/internal/shared/serverconfig"
	"PixelBattle/internal/shared/session"
	"PixelBattle/internal/shared/transport"
	"PixelBattle/modules/kit/errx"
	"PixelBattle/modules/kit/logx"

	"go.uber.org/zap"
)

// Battle 是 ws/http 处理器共享的依赖。
type Battle struct {
	Service port.BattleService
	Reports port.ReportQuery
	Session session.Manager
	Game    serverconfig.GameConfig
	// ListLimit 是 /api/reports 默认返回条数。
	ListLimit int
	Log       logx.Logger
}

// HandleError 把错误映射为客户端业务码和提示语，并记到访问日志上下文。
func HandleError(ctx context.Context, err error) (int, string) {
	if err == nil {
		return transport.OK, ""
	}
	var e *errx.Error
	if errors.As(err, &e) {
		transport.SetErrorReason(ctx, e.CodeText())
		if e.IsBiz() {
			return transport.InvalidParam, e.Msg()
		}
	}
	code := battleactor.CodeFromError(err)
	if code != transport.SystemError {
		return code, err.Error()
	}
	return transport.SystemError, "系统繁忙，请稍后重试"
}

// RecruitBizCode 把招募失败原因映射为访问日志用的业务码。
func RecruitBizCode(res entity.RecruitResult) int {
	switch {
	case res.OK:
		return transport.OK
	case res.Reason == entity.ReasonInsufficientFunds:
		return transport.InsufficientFunds
	case res.Reason == entity.ReasonGameOver:
		return transport.GameOver
	default:
		return transport.InvalidParam
	}
}

// StateBroadcaster 把定时快照广播给所有连接，由 battle actor 调用。
type StateBroadcaster struct {
	session session.Manager
	log     logx.Logger
}

func NewStateBroadcaster(s session.Manager, l logx.Logger) *StateBroadcaster {
	if l == nil {
		l = logx.Nop()
	}
	return &StateBroadcaster{session: s, log: l}
}

func (b *StateBroadcaster) BroadcastState(state entity.GameState) {
	if b == nil || b.session == nil {
		return
	}
	if _, err := b.session.Broadcast(proto.NewState(state)); err != nil {
		b.log.Error("broadcast state failed", zap.Error(err))
	}
}
