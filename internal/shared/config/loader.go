package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix 下的环境变量覆盖配置项，例如 PB_SERVER_PORT。
const EnvPrefix = "PB"

// Loader 持有一份 viper 实例，负责首次加载和热更新。
type Loader struct {
	v    *viper.Viper
	path string

	mu        sync.Mutex
	listeners []func()
}

// Load 读取配置文件并反序列化到 out（out 必须是指针）。
func Load(cfgName string, out any) (*Loader, error) {
	path, err := ResolvePath(cfgName)
	if err != nil {
		return nil, err
	}
	if !fileExist(path) {
		return nil, fmt.Errorf("config file not exist, configPath=%v", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	l := &Loader{v: v, path: path}
	if err := l.unmarshal(out); err != nil {
		return nil, err
	}
	return l, nil
}

// MustLoad 加载失败直接 panic，进程入口使用。
func MustLoad(cfgName string, out any) *Loader {
	l, err := Load(cfgName, out)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Loader) Path() string {
	return l.path
}

// OnChange 注册热更新回调，回调在重新反序列化成功之后执行。
func (l *Loader) OnChange(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

// Watch 监听配置文件变更，变更后重新写入 out 并通知回调。
// out 的并发读取由调用方保证（只读取热更新安全的字段，例如日志级别）。
func (l *Loader) Watch(out any, onErr func(error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		if err := l.unmarshal(out); err != nil {
			if onErr != nil {
				onErr(fmt.Errorf("viper unmarshal changed config %s: %w", e.Name, err))
			}
			return
		}
		l.mu.Lock()
		listeners := append([]func(){}, l.listeners...)
		l.mu.Unlock()
		for _, fn := range listeners {
			fn()
		}
	})
	l.v.WatchConfig()
}

func (l *Loader) unmarshal(out any) error {
	return l.v.Unmarshal(out, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
}
