package actor

import (
	"context"
	"errors"
	"sync"
	"time"

	"PixelBattle/internal/battle/actors"
	"PixelBattle/internal/battle/entity"
	"PixelBattle/internal/battle/orders"
	"PixelBattle/internal/shared/serverconfig"
	"PixelBattle/internal/shared/transport"
	"PixelBattle/modules/kit/errx"
	"PixelBattle/modules/kit/logx"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime 是 battle actor 的同步门面，供 ws/http 处理器调用。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	battle  *protoactor.PID
	timeout time.Duration
	stop    sync.Once
}

func NewRuntime(game serverconfig.GameConfig, askTimeout time.Duration, b actors.Broadcaster, reports actors.ReportSink, l logx.Logger) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	props := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewBattleActor(entity.NewEngine(game), b, reports, l)
	})
	battle := root.Spawn(props)

	return &Runtime{
		system:  system,
		root:    root,
		battle:  battle,
		timeout: askTimeout,
	}
}

func (r *Runtime) Recruit(ctx context.Context, side entity.Side, o orders.Orders) (entity.RecruitResult, float64, error) {
	res, err := r.request(r.battle, &actors.RecruitReq{Side: side, Orders: o}, r.timeoutFromContext(ctx))
	if err != nil {
		return entity.RecruitResult{}, 0, err
	}
	reply, err := expect[*actors.RecruitReply](res)
	if err != nil {
		return entity.RecruitResult{}, 0, err
	}
	return reply.Res, reply.Money, nil
}

func (r *Runtime) Reset(ctx context.Context) (entity.GameState, error) {
	res, err := r.request(r.battle, &actors.ResetReq{}, r.timeoutFromContext(ctx))
	if err != nil {
		return entity.GameState{}, err
	}
	reply, err := expect[*actors.ResetReply](res)
	if err != nil {
		return entity.GameState{}, err
	}
	return reply.State, nil
}

func (r *Runtime) Snapshot(ctx context.Context) (entity.GameState, entity.MatchStats, error) {
	res, err := r.request(r.battle, &actors.SnapshotReq{}, r.timeoutFromContext(ctx))
	if err != nil {
		return entity.GameState{}, entity.MatchStats{}, err
	}
	reply, err := expect[*actors.SnapshotReply](res)
	if err != nil {
		return entity.GameState{}, entity.MatchStats{}, err
	}
	return reply.State, reply.Stats, nil
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	r.stop.Do(func() {
		if r.root != nil && r.battle != nil {
			_ = r.root.StopFuture(r.battle).Wait()
		}
		if r.system != nil {
			r.system.Shutdown()
		}
	})
}

func expect[T any](res any) (T, error) {
	var zero T
	if f, ok := res.(*actors.FailReply); ok && f != nil {
		return zero, &RuntimeError{Code: f.Code, Message: f.Message}
	}
	reply, ok := res.(T)
	if !ok {
		return zero, &RuntimeError{Code: transport.SystemError, Message: "actor 应答类型不匹配", Cause: errx.ErrInternal}
	}
	return reply, nil
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		cause := errx.ErrUnavailable.WithCause(err)
		if errors.Is(err, protoactor.ErrTimeout) {
			cause = errx.ErrTimeout.WithCause(err)
		}
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 请求失败",
			Cause:   cause,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
