package actors

import (
	"time"

	"PixelBattle/internal/battle/entity"
	"PixelBattle/internal/battle/report"
	"PixelBattle/internal/shared/transport"
	"PixelBattle/modules/kit/logx"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Online
	Stopping
	Offline
)

// Broadcaster 把状态快照推给所有连接，由会话层实现。
type Broadcaster interface {
	BroadcastState(state entity.GameState)
}

// ReportSink 接收对局结束时生成的战报，不得阻塞。
type ReportSink interface {
	Submit(r report.MatchReport) int64
}

// BattleActor 是对局状态的唯一写者：定时推进、广播、发收入，以及处理招募/重置请求都在这里串行执行。
type BattleActor struct {
	state       State
	engine      *entity.Engine
	dispatcher  *Dispatcher
	broadcaster Broadcaster
	reports     ReportSink
	log         logx.Logger
	now         func() time.Time
	startedAt   time.Time
	tickStop    chan struct{}
}

func NewBattleActor(engine *entity.Engine, b Broadcaster, reports ReportSink, l logx.Logger) *BattleActor {
	if l == nil {
		l = logx.Nop()
	}
	return &BattleActor{
		state:       None,
		engine:      engine,
		dispatcher:  NewDispatcher(),
		broadcaster: b,
		reports:     reports,
		log:         l,
		now:         time.Now,
	}
}

func (p *BattleActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Online
		p.startedAt = p.now()
		p.startTickLoops(ctx)
		return
	case *actor.Stopping:
		p.stopTickLoops()
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopTickLoops()
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopTickLoops()
		p.state = None
		return
	case simTick:
		if p.state == Online {
			p.step(msg.dtMs)
		}
		return
	case broadcastTick:
		if p.state == Online {
			p.broadcast()
		}
		return
	case incomeTick:
		if p.state == Online {
			p.engine.CollectAutoIncome()
		}
		return
	default:
		if !p.dispatcher.Handles(msg) {
			return
		}
		if p.state != Online {
			ctx.Respond(fail(transport.SystemError, "battle not online"))
			return
		}
		p.dispatcher.Dispatch(ctx, p, msg)
	}
}

func (p *BattleActor) step(dtMs float64) {
	wasOver := p.engine.GameOver()
	p.engine.Step(dtMs)
	if !wasOver && p.engine.GameOver() {
		p.emitReport()
	}
}

func (p *BattleActor) broadcast() {
	if p.broadcaster == nil {
		return
	}
	p.broadcaster.BroadcastState(p.engine.Snapshot())
}

func (p *BattleActor) emitReport() {
	r := report.Build(p.engine.Snapshot(), p.engine.Stats(), p.startedAt, p.now())
	if p.reports != nil {
		r.ID = p.reports.Submit(r)
	}
	p.log.Info("match over",
		zap.Int64("report_id", r.ID),
		zap.String("winner", r.Winner),
		zap.Bool("draw", r.Draw),
		zap.Int("ticks", r.Ticks),
	)
}

func (p *BattleActor) resetMatch() {
	p.engine.Reset()
	p.startedAt = p.now()
	p.log.Info("match reset")
}

func (p *BattleActor) Engine() *entity.Engine {
	return p.engine
}

func (p *BattleActor) startTickLoops(ctx actor.Context) {
	if p.tickStop != nil {
		return
	}
	cfg := p.engine.Config()
	p.tickStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	startDriver(root, self, p.tickStop, cfg.TickInterval, simTick{dtMs: float64(cfg.TickInterval.Milliseconds())})
	startDriver(root, self, p.tickStop, cfg.BroadcastInterval, broadcastTick{})
	startDriver(root, self, p.tickStop, cfg.IncomeInterval, incomeTick{})
}

// startDriver 间隔 <=0 时不启动该驱动。
func startDriver(root *actor.RootContext, self *actor.PID, stop <-chan struct{}, every time.Duration, msg any) {
	if every <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, msg)
			case <-stop:
				return
			}
		}
	}()
}

func (p *BattleActor) stopTickLoops() {
	if p.tickStop == nil {
		return
	}
	close(p.tickStop)
	p.tickStop = nil
}
