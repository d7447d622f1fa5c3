package main

import (
	"testing"

	"PixelBattle/internal/shared/serverconfig"
)

func TestOpenReportRepo_默认内存存储(t *testing.T) {
	conf := serverconfig.Default()
	repo, closeFn, err := openReportRepo(&conf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer closeFn()
	if repo == nil {
		t.Fatalf("期望返回内存存储")
	}
}

func TestOpenReportRepo_未知驱动报错(t *testing.T) {
	conf := serverconfig.Default()
	conf.Report.Driver = "redis"
	if _, _, err := openReportRepo(&conf); err == nil {
		t.Fatalf("期望未知驱动返回错误")
	}
}
