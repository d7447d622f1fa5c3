package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

const (
	OK                = 0
	InvalidParam      = 400
	InsufficientFunds = 402
	Forbidden         = 403
	UnknownMessage    = 404
	GameOver          = 409
	SystemError       = 500
)
