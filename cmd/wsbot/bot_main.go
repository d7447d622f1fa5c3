package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"PixelBattle/internal/battle/entity"
	"PixelBattle/internal/battle/proto"
	"PixelBattle/internal/client/gamesync"
	"PixelBattle/internal/shared/logs"
	"PixelBattle/internal/shared/serverconfig"
	"PixelBattle/modules/kit/logx"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	rawURL := pflag.StringP("url", "u", "", "服务地址，例如 ws://127.0.0.1:3001/game")
	side := pflag.StringP("side", "s", "", "以玩家身份加入的阵营 A/B，留空为观战")
	level := pflag.String("log-level", "info", "日志级别")
	pflag.Parse()

	if err := logs.Init("wsbot", serverconfig.LogConfig{Level: *level}); err != nil {
		panic(err)
	}
	defer logs.Sync()

	url, err := gamesync.NormalizeURL(*rawURL)
	if err != nil {
		logs.Fatal("invalid url", zap.String("url", *rawURL), zap.Error(err))
	}

	opts := gamesync.Options{
		URL:  url,
		Role: gamesync.RoleViewer,
		Log:  logx.NewZapLogger(logs.Logger()),
		OnStatus: func(s gamesync.Status) {
			logs.Info("status", zap.Stringer("status", s))
		},
		OnState: func(state entity.GameState) {
			logs.Debug("state",
				zap.Float64("hpA", state.Bases.A.HP), zap.Float64("hpB", state.Bases.B.HP),
				zap.Float64("moneyA", state.Bases.A.Money), zap.Float64("moneyB", state.Bases.B.Money),
				zap.Int("squads", len(state.Squads)), zap.Bool("gameOver", state.GameOver))
		},
		OnChat: func(m proto.ChatBroadcast) {
			fmt.Printf("[%s] %s %s\n", m.From, m.Text, describe(m.Result.Res))
		},
		OnRecruitResult: func(m proto.RecruitResult) {
			fmt.Printf("recruit %s money=%.0f\n", describe(&m.Res), m.Money)
		},
	}
	if s, ok := entity.ParseSide(*side); ok {
		opts.Role = gamesync.RoleClient
		opts.Side = s
	}

	client := gamesync.NewClient(opts)
	client.Start()
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if err := run(client, line); err != nil {
				logs.Warn("command failed", zap.String("line", line), zap.Error(err))
			}
		}
	}
}

// run 解析一行输入：/reset 重置，/recruit <kind> <n> 结构化下单，其余按聊天发送。
func run(c *gamesync.Client, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "/reset":
		return c.Reset()
	case "/recruit":
		if len(fields) != 3 {
			return fmt.Errorf("usage: /recruit <kind> <count>")
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return err
		}
		return c.Recruit(map[string]int{fields[1]: n})
	default:
		return c.SendChat(line)
	}
}

func describe(res *entity.RecruitResult) string {
	switch {
	case res == nil:
		return ""
	case res.OK:
		return fmt.Sprintf("ok cost=%.0f", res.Cost)
	default:
		return fmt.Sprintf("%s need=%.0f has=%.0f", res.Reason, res.Needed, res.Available)
	}
}
