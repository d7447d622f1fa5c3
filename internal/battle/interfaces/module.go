package interfaces

import (
	"PixelBattle/internal/battle/interfaces/handler"
	"PixelBattle/internal/battle/interfaces/handler/http"
	ws2 "PixelBattle/internal/battle/interfaces/handler/ws"
	transporthttp "PixelBattle/internal/shared/transport/http"
	"PixelBattle/internal/shared/transport/ws"
	"PixelBattle/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Module struct {
	wsHandler   *ws2.WsHandler
	httpHandler *http.HttpHandler
}

func New(b *handler.Battle) *Module {
	if b.Log == nil {
		b.Log = logx.Nop()
	}
	return &Module{
		wsHandler:   ws2.NewWsHandler(b),
		httpHandler: http.NewHttpHandler(b),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
