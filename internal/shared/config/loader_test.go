package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sample struct {
	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
	Game struct {
		Tick time.Duration `mapstructure:"tick"`
	} `mapstructure:"game"`
	Origins []string `mapstructure:"origins"`
}

func writeConf(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "conf.yml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write conf: %v", err)
	}
	return p
}

func TestLoad_解析时长与切片(t *testing.T) {
	p := writeConf(t, "server:\n  port: 3001\ngame:\n  tick: 100ms\norigins: a,b\n")

	var out sample
	l, err := Load(p, &out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if l.Path() != p {
		t.Fatalf("path=%q", l.Path())
	}
	if out.Server.Port != 3001 {
		t.Fatalf("port=%d", out.Server.Port)
	}
	if out.Game.Tick != 100*time.Millisecond {
		t.Fatalf("tick=%v", out.Game.Tick)
	}
	if len(out.Origins) != 2 || out.Origins[1] != "b" {
		t.Fatalf("origins=%v", out.Origins)
	}
}

func TestLoad_环境变量覆盖(t *testing.T) {
	p := writeConf(t, "server:\n  port: 3001\n")
	t.Setenv("PB_SERVER_PORT", "4002")

	var out sample
	if _, err := Load(p, &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Server.Port != 4002 {
		t.Fatalf("期望环境变量覆盖端口, got=%d", out.Server.Port)
	}
}

func TestLoad_文件不存在返回错误(t *testing.T) {
	var out sample
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml"), &out); err == nil {
		t.Fatalf("期望返回错误")
	}
}
