package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dkeye/Lobby/internal/domain"
)

type RoomConfig struct {
	TeamCount    int    `mapstructure:"team_count"`
	Name         string `mapstructure:"name"`
	Mode         string `mapstructure:"mode"`
	Capacity     int    `mapstructure:"capacity"`
	TeamCapacity int    `mapstructure:"team_capacity"`
}

func (r RoomConfig) Defaults() domain.RoomConfig {
	return domain.RoomConfig{
		Name:         r.Name,
		Mode:         r.Mode,
		Capacity:     r.Capacity,
		TeamCapacity: r.TeamCapacity,
	}
}

type JanitorConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	IdleTTL  time.Duration `mapstructure:"idle_ttl"`
}

type ChatConfig struct {
	Limit    int           `mapstructure:"limit"`
	Interval time.Duration `mapstructure:"interval"`
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	SendBuffer int           `mapstructure:"send_buffer"`
	Secret     string        `mapstructure:"secret"`
	AutoCreate bool          `mapstructure:"auto_create"`

	// Backpressure is kick or drop.
	Backpressure string `mapstructure:"backpressure"`

	Room    RoomConfig    `mapstructure:"room"`
	Janitor JanitorConfig `mapstructure:"janitor"`
	Chat    ChatConfig    `mapstructure:"chat"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("secret", "lobby-dev-secret")
	v.SetDefault("auto_create", false)
	v.SetDefault("backpressure", "kick")

	v.SetDefault("room.team_count", 2)
	v.SetDefault("room.name", "lobby")
	v.SetDefault("room.mode", "classic")
	v.SetDefault("room.capacity", 10)
	v.SetDefault("room.team_capacity", 5)

	v.SetDefault("janitor.interval", "1m")
	v.SetDefault("janitor.idle_ttl", "30m")

	v.SetDefault("chat.limit", 5)
	v.SetDefault("chat.interval", "3s")
}

// Load reads defaults, then config/config.<CONFIG_ENV>.yaml (or --config),
// then LOBBY_* environment variables, then command-line flags.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("lobby", pflag.ContinueOnError)
	file := fs.String("config", "", "path to a YAML config file")
	fs.String("mode", "", "gin mode: debug or release")
	fs.Int("port", 0, "HTTP listen port")
	fs.Bool("auto-create", false, "create rooms on first reference")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix("LOBBY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fileName := *file
	if fileName == "" {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		fileName = fmt.Sprintf("config/config.%s.yaml", env)
	}
	v.SetConfigFile(fileName)

	if err := v.ReadInConfig(); err != nil {
		if *file != "" {
			return nil, fmt.Errorf("failed to read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	for key, flag := range map[string]string{"mode": "mode", "port": "port", "auto_create": "auto-create"} {
		if f := fs.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Bool("auto_create", cfg.AutoCreate).Msg("config ready")
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Room.TeamCount < 1 || c.Room.TeamCount > domain.MaxTeams {
		return fmt.Errorf("room.team_count must be between 1 and %d", domain.MaxTeams)
	}
	if err := c.Room.Defaults().Validate(); err != nil {
		return fmt.Errorf("room defaults: %w", err)
	}
	if c.Backpressure != "kick" && c.Backpressure != "drop" {
		return fmt.Errorf("backpressure must be kick or drop, got %q", c.Backpressure)
	}
	if c.SendBuffer < 1 {
		return fmt.Errorf("send_buffer must be positive")
	}
	if c.Janitor.Interval <= 0 || c.Janitor.IdleTTL <= 0 {
		return fmt.Errorf("janitor interval and idle_ttl must be positive")
	}
	if c.Chat.Limit < 1 || c.Chat.Interval <= 0 {
		return fmt.Errorf("chat limit and interval must be positive")
	}
	return nil
}
