package ws

import (
	"context"
	"encoding/json"
	"errors"

	"PixelBattle/internal/shared/transport"
	"PixelBattle/modules/kit/errx"
	"PixelBattle/modules/kit/logx"
	"PixelBattle/modules/kit/tracex"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, req *WsMsgReq) error

type OpenFunc func(ctx context.Context, conn WSConn)

// Router 按 `type` 字段分发入站帧。未知类型和无法解析的帧直接丢弃，连接保持。
type Router struct {
	handlers map[string]HandlerFunc
	onOpen   []OpenFunc
	log      logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.Nop()
	}
	return &Router{
		handlers: make(map[string]HandlerFunc),
		log:      l,
	}
}

func (r *Router) Handle(typ string, h HandlerFunc) {
	r.handlers[typ] = h
}

// Handle 注册强类型处理器：payload 先绑定到 T，绑定失败按参数错误处理。
func Handle[T any](r *Router, typ string, h func(ctx context.Context, conn WSConn, msg *T) error) {
	r.Handle(typ, func(ctx context.Context, req *WsMsgReq) error {
		msg := new(T)
		if err := Bind(req, msg); err != nil {
			return errx.ErrReqParamERR.WithCause(err)
		}
		return h(ctx, req.Conn, msg)
	})
}

func (r *Router) OnOpen(fn OpenFunc) {
	r.onOpen = append(r.onOpen, fn)
}

// Open 在连接建立后、读写循环启动前调用，按注册顺序执行。
func (r *Router) Open(conn WSConn) {
	ctx := connContext(context.Background(), conn)
	for _, fn := range r.onOpen {
		fn(ctx, conn)
	}
}

func (r *Router) Dispatch(conn WSConn, data []byte) {
	req, ok := decodeFrame(conn, data)
	if !ok {
		r.log.Debug("ws frame dropped", zap.Int("size", len(data)))
		return
	}
	h := r.handlers[req.Type]
	if h == nil {
		r.log.Debug("ws unknown message type ignored", zap.String("type", req.Type))
		return
	}

	ctx := transport.BeginAccess(connContext(context.Background(), conn), "WS "+req.Type)
	defer transport.WriteAccessLog(ctx, r.log)

	err := r.safeCall(ctx, h, req)
	r.settle(ctx, req.Type, err)
}

func (r *Router) safeCall(ctx context.Context, h HandlerFunc, req *WsMsgReq) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errx.ErrInternal.WithData("panic", p)
		}
	}()
	return h(ctx, req)
}

// settle 决定访问日志的业务码：
// handler 显式设置过业务码则保留；否则 nil 记为成功，biz 错误记为参数错误，其余记为系统错误。
func (r *Router) settle(ctx context.Context, typ string, err error) {
	al := transport.FromContext(ctx)
	if al == nil {
		return
	}
	explicit := al.BizCode != transport.BizCode(transport.SystemError)
	if err == nil {
		if !explicit {
			al.BizCode = transport.BizCode(transport.OK)
		}
		return
	}

	var e *errx.Error
	if errors.As(err, &e) && e.IsBiz() {
		if !explicit {
			al.BizCode = transport.BizCode(transport.InvalidParam)
		}
		transport.SetErrorReason(ctx, e.CodeText())
		logx.ReportBizWithLoggerContext(ctx, r.log, logx.NewBizLog("WS "+typ, e.CodeText(), e.Msg()))
		return
	}
	al.BizCode = transport.BizCode(transport.SystemError)
	transport.SetErrorReason(ctx, err.Error())
	logx.ReportSysErrorWithLoggerContext(ctx, r.log, logx.NewSysLog("WS "+typ, err))
}

func decodeFrame(conn WSConn, data []byte) (*WsMsgReq, bool) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil || payload == nil {
		return nil, false
	}
	typ, _ := payload[TypeField].(string)
	if typ == "" {
		return nil, false
	}
	return &WsMsgReq{Type: typ, Payload: payload, Raw: data, Conn: conn}, true
}

func connContext(ctx context.Context, conn WSConn) context.Context {
	if conn == nil {
		return ctx
	}
	if id, ok := conn.GetProperty(ConnKeyID).(string); ok && id != "" {
		ctx = tracex.WithConnID(ctx, id)
	}
	return ctx
}

// Registrar 由各业务模块实现，把自己的消息处理器挂到 Router 上。
type Registrar interface {
	WsRegister(r *Router)
}
