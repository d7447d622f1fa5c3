package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"PixelBattle/modules/kit/logx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	ErrSendBufferFull = errors.New("ws send buffer full")
	ErrConnClosed     = errors.New("ws conn closed")
)

const (
	defaultSendBuffer = 256
	writeWait         = 5 * time.Second
	maxMessageSize    = 64 * 1024
)

// WsServer 是单条 websocket 连接：一个读协程、一个写协程，写出走有界缓冲。
type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan []byte
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, l logx.Logger, sendBuffer int) *WsServer {
	if l == nil {
		l = logx.Nop()
	}
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return &WsServer{
		conn:     wsConn,
		outChan:  make(chan []byte, sendBuffer),
		property: make(map[string]any),
		done:     make(chan struct{}),
		log:      l,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

func (s *WsServer) Push(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case <-s.done:
		return ErrConnClosed
	default:
	}
	if !s.PushRaw(data) {
		return ErrSendBufferFull
	}
	return nil
}

func (s *WsServer) PushRaw(data []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.outChan <- data:
		return true
	default:
		s.log.Warn("ws_server send buffer full, frame dropped", zap.String("addr", s.Addr()))
		return false
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	s.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.log.Warn("ws_server read msg", zap.Error(err))
			}
			return
		}
		if s.router != nil {
			s.router.Dispatch(s, data)
		}
	}
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg := <-s.outChan:
			if err := s.write(msg); err != nil {
				s.log.Warn("ws_server write error", zap.Error(err))
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) write(data []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}
