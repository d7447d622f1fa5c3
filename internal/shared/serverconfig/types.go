package serverconfig

import "time"

type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Game    GameConfig    `yaml:"game" mapstructure:"game"`
	Actor   ActorConfig   `yaml:"actor" mapstructure:"actor"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	MongoDB MongoDBConfig `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL   MySQLConfig   `yaml:"mysql" mapstructure:"mysql"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

type ServerConfig struct {
	Host         string   `yaml:"host" mapstructure:"host"`
	Port         int      `yaml:"port" mapstructure:"port"`
	WSPath       string   `yaml:"ws_path" mapstructure:"ws_path"`
	AllowOrigins []string `yaml:"allow_origins" mapstructure:"allow_origins"`
	// SendBuffer 是每条连接的待写队列长度，满了之后广播帧直接丢弃。
	SendBuffer int `yaml:"send_buffer" mapstructure:"send_buffer"`
}

// GameConfig 对应单局对战的全部可调参数，默认值与前端共享的常量一致。
type GameConfig struct {
	Width             int           `yaml:"width" mapstructure:"width"`
	Height            int           `yaml:"height" mapstructure:"height"`
	BaseHP            float64       `yaml:"base_hp" mapstructure:"base_hp"`
	StartMoney        float64       `yaml:"start_money" mapstructure:"start_money"`
	TickInterval      time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
	BroadcastInterval time.Duration `yaml:"broadcast_interval" mapstructure:"broadcast_interval"`
	IncomeInterval    time.Duration `yaml:"income_interval" mapstructure:"income_interval"`
	IncomePerTick     float64       `yaml:"income_per_tick" mapstructure:"income_per_tick"`
	// AutoSpawnCount 保留字段，始终为 0：收入周期不自动出兵。
	AutoSpawnCount int     `yaml:"auto_spawn_count" mapstructure:"auto_spawn_count"`
	KillBounty     float64 `yaml:"kill_bounty" mapstructure:"kill_bounty"`
	PxPerMs        float64 `yaml:"px_per_ms" mapstructure:"px_per_ms"`
	RangePxUnit    float64 `yaml:"range_px_unit" mapstructure:"range_px_unit"`
	SpawnOffset    float64 `yaml:"spawn_offset" mapstructure:"spawn_offset"`
	BaseStandOff   float64 `yaml:"base_stand_off" mapstructure:"base_stand_off"`
}

type ActorConfig struct {
	AskTimeout time.Duration `yaml:"ask_timeout" mapstructure:"ask_timeout"`
}

type ReportConfig struct {
	// Driver: memory / mongodb / mysql
	Driver     string        `yaml:"driver" mapstructure:"driver"`
	RetryDelay time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
	ListLimit  int           `yaml:"list_limit" mapstructure:"list_limit"`
	// NodeID 写入战报主键，多实例共用一个库时各自取不同值（0..1023）
	NodeID     int64         `yaml:"node_id" mapstructure:"node_id"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}
