package main

import (
	"context"
	"fmt"
	"time"

	"PixelBattle/internal/battle/app/port"
	"PixelBattle/internal/battle/infra/persistence/memory"
	"PixelBattle/internal/battle/infra/persistence/mongodb"
	"PixelBattle/internal/battle/infra/persistence/mysql"
	"PixelBattle/internal/shared/infrastructure/db"
	"PixelBattle/internal/shared/infrastructure/mongo"
	"PixelBattle/internal/shared/logs"
	"PixelBattle/internal/shared/serverconfig"
)

const memoryReportCapacity = 500

// openReportRepo 按 report.driver 选择战报存储，返回的 close 负责释放连接。
func openReportRepo(conf *serverconfig.Config) (port.MatchReportRepository, func(), error) {
	switch conf.Report.Driver {
	case "", "memory":
		return memory.NewReportRepository(memoryReportCapacity), func() {}, nil

	case "mongodb":
		client, err := mongo.Open(conf.MongoDB, logs.Logger())
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		repo := mongodb.NewReportRepository(client.Database(conf.MongoDB.Database))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil

	case "mysql":
		gdb, err := db.Open(conf.MySQL)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		repo := mysql.NewReportRepository(gdb)
		if err := repo.AutoMigrate(); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown report driver %q", conf.Report.Driver)
	}
}
