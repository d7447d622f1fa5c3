package actors

import (
	"reflect"

	"PixelBattle/internal/shared/transport"

	"github.com/asynkron/protoactor-go/actor"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, BH.HandleRecruit)
	register(d, BH.HandleReset)
	register(d, BH.HandleSnapshot)
}

func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, p *BattleActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType == nil {
		panic("dispatcher req type cannot be nil")
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

// Handles 判断消息是否是已注册的请求类型。
func (d *Dispatcher) Handles(msg any) bool {
	if msg == nil {
		return false
	}
	_, ok := d.handlers[reflect.TypeOf(msg)]
	return ok
}

func (d *Dispatcher) Dispatch(ctx actor.Context, p *BattleActor, req any) {
	if req == nil {
		ctx.Respond(fail(transport.InvalidParam, "nil req"))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(fail(transport.UnknownMessage, "no handler for request body"))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(p),
		reflect.ValueOf(req),
	})
}
