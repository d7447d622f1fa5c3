package ws

import (
	"net/http"
	"slices"

	"PixelBattle/modules/kit/logx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type ServerOptions struct {
	AllowOrigins []string
	SendBuffer   int
}

// Server 负责 HTTP -> websocket 升级，升级成功后交给 Router。
type Server struct {
	router   *Router
	log      logx.Logger
	opts     ServerOptions
	upgrader websocket.Upgrader
}

func NewServer(r *Router, l logx.Logger, opts ServerOptions) *Server {
	if l == nil {
		l = logx.Nop()
	}
	s := &Server{router: r, log: l, opts: opts}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// checkOrigin 未配置白名单时放开所有来源。
func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.opts.AllowOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(s.opts.AllowOrigins, origin)
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Warn("websocket upgrade error", zap.Error(err))
		return
	}

	wsServer := NewWsServer(wsConn, s.log, s.opts.SendBuffer)
	wsServer.Router(s.router)
	s.router.Open(wsServer)
	wsServer.Run()
	s.log.Debug("websocket connected", zap.String("addr", wsServer.Addr()))
}
