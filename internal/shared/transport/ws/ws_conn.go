package ws

import "encoding/json"

// WsMsgReq 是一条入站消息：Type 是 `type` 判别字段，Payload 是整帧解析后的字段表。
type WsMsgReq struct {
	Type    string
	Payload map[string]any
	Raw     json.RawMessage
	Conn    WSConn
}

// WSConn 是连接侧能力，业务层只依赖这个接口。
type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	Addr() string
	// Push 序列化 v 后入队，发送缓冲满时丢弃该帧并返回 ErrSendBufferFull。
	Push(v any) error
	// PushRaw 非阻塞入队已序列化好的帧，缓冲满或连接已关闭时返回 false。
	PushRaw(data []byte) bool
	Close()
	// Done 用于感知连接生命周期结束（连接关闭时该 channel 会被关闭）
	Done() <-chan struct{}
}

const (
	// ConnKeyID 由 session 在绑定时写入，router 用它给日志带上 conn_id。
	ConnKeyID = "conn_id"
	TypeField = "type"
)
