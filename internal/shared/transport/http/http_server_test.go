package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestServer() *Server {
	gin.SetMode(gin.TestMode)
	s := NewHttpServer(":0", gin.New(), nil, Options{WSPath: "/game"})
	s.Engine().GET("/game", func(c *gin.Context) { c.Status(nethttp.StatusSwitchingProtocols) })
	return s
}

func upgradeReq(path string) *nethttp.Request {
	req := httptest.NewRequest(nethttp.MethodGet, path, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	return req
}

func TestNewHttpServer_Healthz(t *testing.T) {
	s := newTestServer()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/healthz", nil))
	if w.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, nethttp.StatusOK)
	}
}

func TestUpgradeGuard_非游戏路径的升级请求被拒绝(t *testing.T) {
	s := newTestServer()

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, upgradeReq("/healthz"))
	if w.Code != nethttp.StatusBadRequest {
		t.Fatalf("期望 400, got=%d", w.Code)
	}

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, upgradeReq("/game"))
	if w.Code != nethttp.StatusSwitchingProtocols {
		t.Fatalf("期望 /game 放行, got=%d", w.Code)
	}
}

func TestCors_预检请求(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(nethttp.MethodOptions, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != nethttp.StatusNoContent {
		t.Fatalf("期望 204, got=%d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow-origin=%q", got)
	}
}
