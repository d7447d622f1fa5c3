package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	battleactor "PixelBattle/internal/battle/actor"
	"PixelBattle/internal/battle/dc"
	"PixelBattle/internal/battle/interfaces"
	"PixelBattle/internal/battle/interfaces/handler"
	"PixelBattle/internal/shared/logs"
	"PixelBattle/internal/shared/serverconfig"
	"PixelBattle/internal/shared/session"
	transporthttp "PixelBattle/internal/shared/transport/http"
	"PixelBattle/internal/shared/transport/ws"
	"PixelBattle/internal/shared/utils"
	"PixelBattle/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "", "配置文件路径，默认向上查找 configs/conf.yml")
	pflag.Parse()

	conf, loader, err := serverconfig.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	if err := logs.Init("battle", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.String("path", loader.Path()), zap.Any("conf", conf))

	// 只有日志级别支持热更新，其余参数改动需重启
	reloaded := serverconfig.Default()
	loader.OnChange(func() {
		logs.SetLevel(reloaded.Log.Level)
		logs.Info("config reloaded", zap.String("log_level", reloaded.Log.Level))
	})
	loader.Watch(&reloaded, func(err error) {
		logs.Warn("config reload failed", zap.Error(err))
	})

	baseLogger := logx.NewZapLogger(logs.Logger())

	repo, closeRepo, err := openReportRepo(conf)
	if err != nil {
		logs.Fatal("open report repository failed", zap.String("driver", conf.Report.Driver), zap.Error(err))
	}
	defer closeRepo()

	ids, err := utils.NewSnowflake(conf.Report.NodeID)
	if err != nil {
		logs.Fatal("snowflake init failed", zap.Int64("node_id", conf.Report.NodeID), zap.Error(err))
	}
	reportDC := dc.NewReportDC(repo, ids, conf.Report.RetryDelay, baseLogger)

	sessMgr := session.NewSessMgr()
	broadcaster := handler.NewStateBroadcaster(sessMgr, baseLogger)
	runtime := battleactor.NewRuntime(conf.Game, conf.Actor.AskTimeout, broadcaster, reportDC, baseLogger)

	battleModule := interfaces.New(&handler.Battle{
		Service:   runtime,
		Reports:   reportDC,
		Session:   sessMgr,
		Game:      conf.Game,
		ListLimit: conf.Report.ListLimit,
		Log:       baseLogger,
	})

	wsRouter := ws.NewRouter(baseLogger)
	wsModules := []ws.Registrar{
		battleModule,
	}
	for _, m := range wsModules {
		m.WsRegister(wsRouter)
	}

	host := conf.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, conf.Server.Port)

	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger, transporthttp.Options{
		AllowOrigins: conf.Server.AllowOrigins,
		WSPath:       conf.Server.WSPath,
	})
	httpModules := []transporthttp.Registrar{
		battleModule,
	}
	for _, m := range httpModules {
		m.HttpRegister(httpServer.Group())
	}

	wsServer := ws.NewServer(wsRouter, baseLogger, ws.ServerOptions{
		AllowOrigins: conf.Server.AllowOrigins,
		SendBuffer:   conf.Server.SendBuffer,
	})
	httpServer.Engine().GET(conf.Server.WSPath, gin.WrapH(wsServer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("battle server start", zap.String("addr", addr), zap.String("ws", conf.Server.WSPath))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("battle server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	runtime.Shutdown()
	if err := reportDC.Close(shutdownCtx); err != nil {
		logs.Warn("report dc close timeout", zap.Int("pending", reportDC.Pending()), zap.Error(err))
	}
}
