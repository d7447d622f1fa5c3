package serverconfig

import (
	"time"

	"PixelBattle/internal/shared/config"
)

// Default 返回内置默认配置，配置文件只需覆盖差异项。
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       3001,
			WSPath:     "/game",
			SendBuffer: 256,
		},
		Game: DefaultGame(),
		Actor: ActorConfig{
			AskTimeout: 3 * time.Second,
		},
		Report: ReportConfig{
			Driver:     "memory",
			RetryDelay: 200 * time.Millisecond,
			ListLimit:  50,
			NodeID:     1,
		},
		MongoDB: MongoDBConfig{Database: "pixel_battle", ConnectTimeoutS: 3},
		MySQL:   MySQLConfig{Port: 3306, Charset: "utf8mb4", MaxIdle: 2, MaxConn: 8},
		Log:     LogConfig{Level: "info", MaxSize: 64, MaxBackups: 3, MaxAge: 7},
	}
}

func DefaultGame() GameConfig {
	return GameConfig{
		Width:             1200,
		Height:            420,
		BaseHP:            2000,
		StartMoney:        1000,
		TickInterval:      100 * time.Millisecond,
		BroadcastInterval: 200 * time.Millisecond,
		IncomeInterval:    60 * time.Second,
		IncomePerTick:     100,
		AutoSpawnCount:    0,
		KillBounty:        5,
		PxPerMs:           0.06,
		RangePxUnit:       28,
		SpawnOffset:       80,
		BaseStandOff:      40,
	}
}

// Load 在默认值之上叠加配置文件，cfgName 为空时向上查找 configs/conf.yml。
func Load(cfgName string) (*Config, *config.Loader, error) {
	conf := Default()
	loader, err := config.Load(cfgName, &conf)
	if err != nil {
		return nil, nil, err
	}
	return &conf, loader, nil
}
