// Package gamesync 是对战服务的客户端同步适配器：维护一条自动重连的 websocket，
// 断线期间的指令排队，重连后先 join 再按序补发，并把服务端快照交给调用方。
package gamesync

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"PixelBattle/internal/battle/entity"
	"PixelBattle/internal/battle/proto"
	"PixelBattle/modules/kit/logx"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Status int

const (
	Disconnected Status = iota
	Connecting
	Open
)

func (s Status) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	default:
		return "disconnected"
	}
}

const (
	RoleViewer = "viewer"
	RoleClient = "client"
)

var ErrClosed = errors.New("gamesync: client closed")

const writeWait = 5 * time.Second

type Options struct {
	URL string
	// Role 为 viewer 或 client；client 需要同时给出 Side。
	Role string
	Side entity.Side

	Dialer       Dialer
	Scheduler    Scheduler
	Availability Availability
	// Backoff 为空时使用 500ms 起步、×1.8、上限 5s 的指数退避。
	Backoff backoff.BackOff
	Log     logx.Logger

	OnState         func(state entity.GameState)
	OnRecruitResult func(res proto.RecruitResult)
	OnChat          func(msg proto.ChatBroadcast)
	OnStatus        func(s Status)
}

// NewBackoff 返回默认的重连退避策略，永不放弃。
func NewBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.Multiplier = 1.8
	b.MaxInterval = 5 * time.Second
	b.RandomizationFactor = 0.1
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

type Client struct {
	opts Options
	log  logx.Logger
	bo   backoff.BackOff

	// writeMu 串行化 socket 写入，和 mu 分开持有。
	writeMu sync.Mutex

	mu     sync.Mutex
	status Status
	conn   Conn
	// opening 是已拨通、正在发 join 和补发队列的连接。
	opening    Conn
	closed     bool
	started    bool
	dialing    bool
	cancelDial context.CancelFunc
	timer      Timer
	// resumeCancel 非空表示已挂上一次性恢复监听。
	resumeCancel func()
	queue        [][]byte
	snapshot     *entity.GameState
	pending      []Status
}

func NewClient(opts Options) *Client {
	if opts.Role != RoleClient {
		opts.Role = RoleViewer
		opts.Side = ""
	}
	if opts.Dialer == nil {
		opts.Dialer = NewWSDialer()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = realScheduler{}
	}
	if opts.Availability == nil {
		opts.Availability = alwaysAvailable{}
	}
	bo := opts.Backoff
	if bo == nil {
		bo = NewBackoff()
	}
	l := opts.Log
	if l == nil {
		l = logx.Nop()
	}
	return &Client{opts: opts, log: l, bo: bo}
}

// Start 发起首次连接，重复调用无效。
func (c *Client) Start() {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.connectLocked()
	c.unlockAndNotify()
}

// Close 取消重连定时器、进行中的拨号和当前连接，之后客户端不可再用。
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancelDial != nil {
		c.cancelDial()
		c.cancelDial = nil
	}
	if c.resumeCancel != nil {
		c.resumeCancel()
		c.resumeCancel = nil
	}
	if c.opening != nil {
		_ = c.opening.Close()
		c.opening = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.queue = nil
	c.setStatusLocked(Disconnected)
	c.unlockAndNotify()
}

func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Snapshot 返回最近一次收到的完整状态。
func (c *Client) Snapshot() (entity.GameState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return entity.GameState{}, false
	}
	return c.snapshot.Clone(), true
}

// Pending 返回尚未发出的排队帧数。
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

func (c *Client) SendChat(text string) error {
	return c.send(proto.ClientFrame(proto.TypeChat, proto.Chat{Text: text}))
}

func (c *Client) Recruit(orders map[string]int) error {
	return c.send(proto.ClientFrame(proto.TypeRecruit, proto.Recruit{Orders: orders}))
}

func (c *Client) Reset() error {
	return c.send(proto.ClientFrame(proto.TypeReset, proto.Reset{}))
}

func (c *Client) joinFrame() map[string]any {
	return proto.ClientFrame(proto.TypeJoin, proto.Join{Role: c.opts.Role, Side: string(c.opts.Side)})
}

// send 连接可用时直接写出，否则入队等下次连上后补发。
// 写 socket 时不持有 c.mu，Close 关闭连接即可打断卡住的写入。
func (c *Client) send(frame map[string]any) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.status != Open || c.conn == nil {
		c.queue = append(c.queue, data)
		c.mu.Unlock()
		return nil
	}
	conn := c.conn
	c.mu.Unlock()

	c.writeMu.Lock()
	err = c.write(conn, data)
	c.writeMu.Unlock()
	if err != nil {
		c.log.Warn("gamesync write failed, frame requeued", zap.Error(err))
		c.mu.Lock()
		if !c.closed {
			c.queue = append([][]byte{data}, c.queue...)
		}
		c.mu.Unlock()
		_ = conn.Close()
	}
	return nil
}

// write 每次写之前设置写超时，对端不读时最多卡 writeWait。
func (c *Client) write(conn Conn, data []byte) error {
	if dl, ok := conn.(interface{ SetWriteDeadline(t time.Time) error }); ok {
		_ = dl.SetWriteDeadline(time.Now().Add(writeWait))
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// connectLocked 保证同一时刻最多一个在途拨号，且已有连接时不再拨号。
func (c *Client) connectLocked() {
	if c.closed || c.dialing || c.opening != nil || c.conn != nil {
		return
	}
	c.dialing = true
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelDial = cancel
	c.setStatusLocked(Connecting)
	go c.dial(ctx)
}

func (c *Client) dial(ctx context.Context) {
	conn, err := c.opts.Dialer.DialContext(ctx, c.opts.URL)

	c.mu.Lock()
	c.dialing = false
	if c.cancelDial != nil {
		c.cancelDial()
		c.cancelDial = nil
	}
	if c.closed {
		if conn != nil {
			_ = conn.Close()
		}
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.log.Debug("gamesync dial failed", zap.String("url", c.opts.URL), zap.Error(err))
		c.setStatusLocked(Disconnected)
		c.scheduleReconnectLocked()
		c.unlockAndNotify()
		return
	}
	c.opening = conn
	c.mu.Unlock()

	opened := c.open(conn)

	c.mu.Lock()
	if !opened {
		_ = conn.Close()
		if c.opening == conn {
			c.opening = nil
		}
		if !c.closed {
			c.setStatusLocked(Disconnected)
			c.scheduleReconnectLocked()
		}
		c.unlockAndNotify()
		return
	}
	c.unlockAndNotify()
	go c.readLoop(conn)
}

// open 先发 join，再按 FIFO 补发排队帧，队列清空后才切到 Open。
// 补发期间的新发送继续入队，顺序不会乱；写失败时未发出的帧留在队列里。
func (c *Client) open(conn Conn) bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	join, _ := json.Marshal(c.joinFrame())
	if err := c.write(conn, join); err != nil {
		c.log.Warn("gamesync join failed", zap.Error(err))
		return false
	}
	for {
		c.mu.Lock()
		if c.closed || c.opening != conn {
			c.mu.Unlock()
			return false
		}
		if len(c.queue) == 0 {
			c.opening = nil
			c.conn = conn
			c.bo.Reset()
			c.setStatusLocked(Open)
			c.mu.Unlock()
			return true
		}
		frame := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()

		if err := c.write(conn, frame); err != nil {
			c.log.Warn("gamesync flush failed", zap.Error(err))
			c.mu.Lock()
			if !c.closed {
				c.queue = append([][]byte{frame}, c.queue...)
			}
			c.mu.Unlock()
			return false
		}
	}
}

func (c *Client) readLoop(conn Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.onClosed(conn)
			return
		}
		c.handle(data)
	}
}

// onClosed 只处理当前连接的关闭，过期连接的回调直接忽略。
func (c *Client) onClosed(conn Conn) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	_ = conn.Close()
	c.conn = nil
	c.setStatusLocked(Disconnected)
	c.scheduleReconnectLocked()
	c.unlockAndNotify()
}

// scheduleReconnectLocked 最多挂一个定时器；宿主不可用时不挂定时器，改为等待一次性恢复信号。
func (c *Client) scheduleReconnectLocked() {
	if c.closed || c.timer != nil || c.dialing || c.opening != nil || c.conn != nil {
		return
	}
	if !c.opts.Availability.Available() {
		if c.resumeCancel == nil {
			c.resumeCancel = c.opts.Availability.OnResume(c.resume)
		}
		return
	}

	delay := c.bo.NextBackOff()
	if delay == backoff.Stop {
		c.log.Warn("gamesync backoff exhausted")
		return
	}
	c.timer = c.opts.Scheduler.AfterFunc(delay, c.fire)
}

func (c *Client) fire() {
	c.mu.Lock()
	c.timer = nil
	c.connectLocked()
	c.unlockAndNotify()
}

func (c *Client) resume() {
	c.mu.Lock()
	c.resumeCancel = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.connectLocked()
	c.unlockAndNotify()
}

func (c *Client) handle(data []byte) {
	msg, err := proto.DecodeServer(data)
	if err != nil {
		if !errors.Is(err, proto.ErrUnknownType) {
			c.log.Debug("gamesync frame dropped", zap.Error(err))
		}
		return
	}

	switch m := msg.(type) {
	case *proto.Hello:
		c.replace(m.State)
	case *proto.State:
		c.replace(m.State)
	case *proto.Reseted:
		c.replace(m.State)
	case *proto.Joined:
		c.replace(m.State)
	case *proto.RecruitResult:
		if c.opts.OnRecruitResult != nil {
			c.opts.OnRecruitResult(*m)
		}
	case *proto.ChatBroadcast:
		if c.opts.OnChat != nil {
			c.opts.OnChat(*m)
		}
	}
}

// replace 用服务端快照整体替换本地状态，不做增量合并。
func (c *Client) replace(state entity.GameState) {
	c.mu.Lock()
	s := state
	c.snapshot = &s
	c.mu.Unlock()
	if c.opts.OnState != nil {
		c.opts.OnState(state)
	}
}

func (c *Client) setStatusLocked(s Status) {
	if c.status == s {
		return
	}
	c.status = s
	c.pending = append(c.pending, s)
}

// unlockAndNotify 释放锁后再回调 OnStatus，回调里可以安全地再调用 Client。
func (c *Client) unlockAndNotify() {
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	if c.opts.OnStatus == nil {
		return
	}
	for _, s := range pending {
		c.opts.OnStatus(s)
	}
}
