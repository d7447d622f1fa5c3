package http

import (
	"context"
	nethttp "net/http"
	"time"

	"PixelBattle/internal/shared/transport/http/middleware"
	"PixelBattle/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// Registrar 由各业务模块实现，把自己的 HTTP 路由挂到 group 上。
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}

type Options struct {
	AllowOrigins []string
	// WSPath 是唯一允许 websocket 升级的路径，其余路径的升级请求直接拒绝。
	WSPath string
}

type Server struct {
	engine *gin.Engine
	group  *gin.RouterGroup
	srv    *nethttp.Server
}

func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger, opts Options) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	if logger == nil {
		logger = logx.Nop()
	}
	engine.Use(middleware.Cors(opts.AllowOrigins))
	if opts.WSPath != "" {
		engine.Use(middleware.UpgradeGuard(opts.WSPath))
	}
	engine.Use(middleware.AccessLog(logger, opts.WSPath))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		engine: engine,
		group:  engine.Group(""),
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start 启动 HTTP 服务（阻塞）。关闭时返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Group() *gin.RouterGroup {
	return s.group
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
