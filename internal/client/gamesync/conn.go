package gamesync

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Conn 是客户端使用的最小 socket 能力，*websocket.Conn 天然满足。
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Dialer interface {
	DialContext(ctx context.Context, urlStr string) (Conn, error)
}

// WSDialer 基于 gorilla websocket 建连。
type WSDialer struct {
	Dialer *websocket.Dialer
	Header http.Header
}

func NewWSDialer() *WSDialer {
	return &WSDialer{Dialer: &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
	}}
}

func (d *WSDialer) DialContext(ctx context.Context, urlStr string) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, urlStr, d.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Scheduler 抽象延迟回调，测试里替换成手动触发。
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type Timer interface {
	Stop() bool
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Availability 描述宿主环境是否适合重连（前台可见且网络在线）。
// OnResume 注册一次性回调，恢复时异步触发（不能在 OnResume 内部同步调用 fn）；返回的函数用于取消注册。
type Availability interface {
	Available() bool
	OnResume(fn func()) (cancel func())
}

type alwaysAvailable struct{}

func (alwaysAvailable) Available() bool           { return true }
func (alwaysAvailable) OnResume(fn func()) func() { return func() {} }

const defaultPath = "/game"

var gamePath = regexp.MustCompile(`/game($|/)`)

// NormalizeURL 把用户输入的地址规范成 ws(s)://host/game 形式：
// http(s) 改写为 ws(s)，补全缺失的 //，没有协议时默认 ws，路径不含 /game 时替换为 /game。
// 输入为空时返回 ws://127.0.0.1:3001/game。
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "ws://127.0.0.1:3001" + defaultPath, nil
	}
	switch {
	case strings.HasPrefix(s, "http://"):
		s = "ws://" + strings.TrimPrefix(s, "http://")
	case strings.HasPrefix(s, "https://"):
		s = "wss://" + strings.TrimPrefix(s, "https://")
	case strings.HasPrefix(s, "ws:") && !strings.HasPrefix(s, "ws://"):
		s = "ws://" + strings.TrimPrefix(s, "ws:")
	case strings.HasPrefix(s, "wss:") && !strings.HasPrefix(s, "wss://"):
		s = "wss://" + strings.TrimPrefix(s, "wss:")
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "ws://") && !strings.HasPrefix(lower, "wss://") {
		s = "ws://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	if !gamePath.MatchString(u.Path) {
		u.Path = defaultPath
	}
	return u.String(), nil
}
