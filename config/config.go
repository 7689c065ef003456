package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultHTTPHost           = "127.0.0.1"
	defaultHTTPPort           = 8090

	defaultReconnectAttempts = 5
	defaultReconnectDelay    = time.Second
	defaultHandshakeTimeout  = 10 * time.Second
	defaultAPITimeout        = 15 * time.Second
	defaultPollInterval      = 5 * time.Second
	defaultCacheLimit        = 100
	defaultToastDuration     = 3 * time.Second
	defaultStoreDriver       = StoreDriverSQLite
	defaultStorePath         = "tiffin.db"
	defaultStoreSlowQuery    = 50 * time.Millisecond
)

const (
	StoreDriverSQLite = "sqlite"
	StoreDriverMemory = "memory"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	// HTTP is the local gateway that view code talks to
	HTTP struct {
		Host               string `json:"host" yaml:"host"`
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// API is the marketplace REST backend
	API *APIConfig `json:"api" yaml:"api"`

	// Realtime is the push channel
	Realtime *RealtimeConfig `json:"realtime" yaml:"realtime"`

	Store *StoreConfig `json:"store" yaml:"store"`

	Notifications *NotificationsConfig `json:"notifications" yaml:"notifications"`

	Toast *ToastConfig `json:"toast" yaml:"toast"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// APIConfig defines how the REST client reaches the marketplace backend
type APIConfig struct {
	// Base URL including the /api prefix, e.g. http://localhost:5000/api
	BaseURL string        `json:"baseUrl" yaml:"baseUrl"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// RealtimeConfig defines the push channel endpoint and its reconnect policy
type RealtimeConfig struct {
	URL               string        `json:"url" yaml:"url"`
	ReconnectAttempts int           `json:"reconnectAttempts" yaml:"reconnectAttempts"`
	ReconnectDelay    time.Duration `json:"reconnectDelay" yaml:"reconnectDelay"`
	HandshakeTimeout  time.Duration `json:"handshakeTimeout" yaml:"handshakeTimeout"`
}

// StoreConfig selects the durable local store backend
type StoreConfig struct {
	// Driver is "sqlite" or "memory"
	Driver string `json:"driver" yaml:"driver"`
	Path   string `json:"path" yaml:"path"`
	// SlowQuery is the statement duration logged as slow. Negative disables it.
	SlowQuery time.Duration `json:"slowQuery" yaml:"slowQuery"`
}

type NotificationsConfig struct {
	PollInterval time.Duration `json:"pollInterval" yaml:"pollInterval"`
	// CacheLimit bounds how many notifications are mirrored to the local store
	CacheLimit int `json:"cacheLimit" yaml:"cacheLimit"`
}

type ToastConfig struct {
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// ENV_VAR_NAME maps onto the existing YAML keys: REALTIME_RECONNECTDELAY -> realtime.reconnectDelay
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults fills every section left empty by the YAML file and the environment.
func (cfg *Config) ApplyDefaults() {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = defaultHTTPHost
	}
	if cfg.HTTP.Port <= 0 {
		cfg.HTTP.Port = defaultHTTPPort
	}

	if cfg.API == nil {
		cfg.API = &APIConfig{}
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = defaultAPITimeout
	}

	if cfg.Realtime == nil {
		cfg.Realtime = &RealtimeConfig{}
	}
	if cfg.Realtime.ReconnectAttempts <= 0 {
		cfg.Realtime.ReconnectAttempts = defaultReconnectAttempts
	}
	if cfg.Realtime.ReconnectDelay <= 0 {
		cfg.Realtime.ReconnectDelay = defaultReconnectDelay
	}
	if cfg.Realtime.HandshakeTimeout <= 0 {
		cfg.Realtime.HandshakeTimeout = defaultHandshakeTimeout
	}

	if cfg.Store == nil {
		cfg.Store = &StoreConfig{}
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = defaultStoreDriver
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath
	}
	if cfg.Store.SlowQuery == 0 {
		cfg.Store.SlowQuery = defaultStoreSlowQuery
	}

	if cfg.Notifications == nil {
		cfg.Notifications = &NotificationsConfig{}
	}
	if cfg.Notifications.PollInterval <= 0 {
		cfg.Notifications.PollInterval = defaultPollInterval
	}
	if cfg.Notifications.CacheLimit <= 0 {
		cfg.Notifications.CacheLimit = defaultCacheLimit
	}

	if cfg.Toast == nil {
		cfg.Toast = &ToastConfig{}
	}
	if cfg.Toast.Duration <= 0 {
		cfg.Toast.Duration = defaultToastDuration
	}
}

// Validate reports settings the client cannot start without.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return errors.New("api.baseUrl is required")
	}

	switch cfg.Store.Driver {
	case StoreDriverSQLite, StoreDriverMemory:
	default:
		return errors.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
