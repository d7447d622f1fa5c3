package logs

import (
	"testing"

	"PixelBattle/internal/shared/serverconfig"

	"go.uber.org/zap/zapcore"
)

func TestInit_只输出控制台(t *testing.T) {
	if err := Init("TestInit", serverconfig.LogConfig{Level: "debug"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if Level() != zapcore.DebugLevel {
		t.Fatalf("level=%v", Level())
	}
	Info("hello")
}

func TestSetLevel_非法值保持原级别(t *testing.T) {
	SetLevel("warn")
	if Level() != zapcore.WarnLevel {
		t.Fatalf("期望 warn, got=%v", Level())
	}
	SetLevel("not-a-level")
	if Level() != zapcore.WarnLevel {
		t.Fatalf("期望非法值被忽略, got=%v", Level())
	}
}
