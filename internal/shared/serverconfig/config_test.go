package serverconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_只覆盖配置文件中出现的字段(t *testing.T) {
	p := filepath.Join(t.TempDir(), "conf.yml")
	body := "game:\n  tick_interval: 50ms\n  base_hp: 500\nreport:\n  driver: mongodb\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	conf, _, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if conf.Game.TickInterval != 50*time.Millisecond || conf.Game.BaseHP != 500 {
		t.Fatalf("game 覆盖失败: %+v", conf.Game)
	}
	if conf.Game.BroadcastInterval != 200*time.Millisecond || conf.Game.KillBounty != 5 {
		t.Fatalf("期望未配置字段保留默认值: %+v", conf.Game)
	}
	if conf.Report.Driver != "mongodb" || conf.Report.NodeID != 1 || conf.Server.WSPath != "/game" {
		t.Fatalf("report/server 不符: %+v %+v", conf.Report, conf.Server)
	}
}
