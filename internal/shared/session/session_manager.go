package session

import (
	"encoding/json"
	"sync"

	"PixelBattle/internal/shared/transport/ws"

	"github.com/google/uuid"
)

type Role string

const (
	RoleViewer Role = "viewer"
	RoleClient Role = "client"
)

// Session 是一条连接的会话态。Side 只对 RoleClient 有意义，viewer 为空。
type Session struct {
	ID   string
	Role Role
	Side string
}

func (s Session) IsPlayer() bool {
	return s.Role == RoleClient && s.Side != ""
}

type Manager interface {
	Bind(conn ws.WSConn) Session
	SetRole(conn ws.WSConn, role Role, side string) (Session, bool)
	Get(conn ws.WSConn) (Session, bool)
	UnbindConn(conn ws.WSConn)
	Broadcast(v any) (int, error)
	Count() int
}

type SessMgr struct {
	sync.RWMutex
	sessions map[ws.WSConn]*Session
}

func NewSessMgr() *SessMgr {
	return &SessMgr{
		sessions: make(map[ws.WSConn]*Session),
	}
}

// Bind 为新连接分配会话（默认 viewer）。同一连接重复 Bind 返回已有会话。
func (s *SessMgr) Bind(conn ws.WSConn) Session {
	if conn == nil {
		return Session{}
	}
	s.Lock()
	if sess, ok := s.sessions[conn]; ok {
		s.Unlock()
		return *sess
	}
	sess := &Session{ID: uuid.NewString(), Role: RoleViewer}
	s.sessions[conn] = sess
	s.Unlock()

	conn.SetProperty(ws.ConnKeyID, sess.ID)
	// 每条连接只启动一次 watcher：连接关闭后自动解绑
	go s.watchConnDone(conn)
	return *sess
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) SetRole(conn ws.WSConn, role Role, side string) (Session, bool) {
	s.Lock()
	defer s.Unlock()
	sess, ok := s.sessions[conn]
	if !ok {
		return Session{}, false
	}
	sess.Role = role
	sess.Side = side
	if role != RoleClient {
		sess.Side = ""
	}
	return *sess, true
}

func (s *SessMgr) Get(conn ws.WSConn) (Session, bool) {
	s.RLock()
	defer s.RUnlock()
	sess, ok := s.sessions[conn]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	delete(s.sessions, conn)
}

func (s *SessMgr) Count() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.sessions)
}

// Broadcast 只序列化一次，然后非阻塞推给所有已绑定连接；
// 写不进去的连接直接跳过，返回实际投递成功的连接数。
func (s *SessMgr) Broadcast(v any) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}

	s.RLock()
	conns := make([]ws.WSConn, 0, len(s.sessions))
	for conn := range s.sessions {
		conns = append(conns, conn)
	}
	s.RUnlock()

	delivered := 0
	for _, conn := range conns {
		if conn.PushRaw(data) {
			delivered++
		}
	}
	return delivered, nil
}
