package transport

import (
	"context"
	"time"

	"PixelBattle/modules/kit/logx"
	"PixelBattle/modules/kit/tracex"

	"go.uber.org/zap"
)

// AccessLog 记录一次 WS 消息或 HTTP 请求的处理结果，分发器/中间件结束时统一输出。
type AccessLog struct {
	Action      string
	BizCode     BizCode
	ErrorReason string
	begin       time.Time
}

type accessLogKey struct{}

// BeginAccess 在 parent 上挂一条新的 AccessLog 并分配 trace id。
// 业务码初始为 SystemError，处理器漏设时不会记成成功。
func BeginAccess(parent context.Context, action string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx := tracex.WithSpanID(parent, "battle")
	if id := tracex.NewTraceID(); id != "" {
		ctx = tracex.WithTraceID(ctx, id)
	}
	return context.WithValue(ctx, accessLogKey{}, &AccessLog{
		Action:  action,
		BizCode: BizCode(SystemError),
		begin:   time.Now(),
	})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

func SetErrorReason(ctx context.Context, reason string) {
	if al := FromContext(ctx); al != nil && reason != "" {
		al.ErrorReason = reason
	}
}

// Succeeded 只看业务码。
func (a *AccessLog) Succeeded() bool { return a.BizCode == BizCode(OK) }

func (a *AccessLog) fields() []zap.Field {
	out := []zap.Field{zap.Duration("latency", time.Since(a.begin))}
	if a.Succeeded() {
		return append(out, zap.String("result", "success"))
	}
	out = append(out, zap.String("result", "failure"))
	if a.ErrorReason != "" {
		out = append(out, zap.String("error_reason", a.ErrorReason))
	}
	return out
}

// WriteAccessLog 在中间件/分发器里 defer 调用。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.Action, int(al.BizCode), al.fields()...)
}
