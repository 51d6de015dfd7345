// Package config loads service settings from configs/config.yml, an optional
// .env file and IRCTL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "IRCTL"

// Transmitter modes.
const (
	TransmitCarrier = "carrier"
	TransmitDirect  = "direct"
)

// Receiver sources.
const (
	SourceGPIO   = "gpio"
	SourceSerial = "serial"
)

type Config struct {
	Port     string         `mapstructure:"port"`
	LogLevel string         `mapstructure:"log_level"`
	DB       DBConfig       `mapstructure:"db"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Capture  CaptureConfig  `mapstructure:"capture"`
	Transmit TransmitConfig `mapstructure:"transmit"`
	Sanyo    SanyoConfig    `mapstructure:"sanyo"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	Username   string        `mapstructure:"username"`
	Password   string        `mapstructure:"password"`
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type CaptureConfig struct {
	Source      string        `mapstructure:"source"`
	Pin         string        `mapstructure:"pin"`
	SerialPort  string        `mapstructure:"serial_port"`
	SerialBaud  int           `mapstructure:"serial_baud"`
	WaitTimeout time.Duration `mapstructure:"wait_timeout"`
	Debounce    time.Duration `mapstructure:"debounce"`
	MaxPulse    time.Duration `mapstructure:"max_pulse"`
	Buffer      int           `mapstructure:"buffer"`
}

type TransmitConfig struct {
	Mode  string `mapstructure:"mode"`
	Pin   string `mapstructure:"pin"`
	Queue int    `mapstructure:"queue"`
}

type SanyoConfig struct {
	// CodeTable is a TOML or YAML file of recorded codes. Empty selects the
	// built-in table; "procedural" computes codes from the payload template.
	CodeTable    string `mapstructure:"code_table"`
	RestoreState bool   `mapstructure:"restore_state"`
}

// CodebookProcedural selects the computed Sanyo codes.
const CodebookProcedural = "procedural"

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db.path", "irctl.db")
	v.SetDefault("auth.username", "operator")
	v.SetDefault("auth.password", "")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("capture.source", SourceGPIO)
	v.SetDefault("capture.pin", "GPIO4")
	v.SetDefault("capture.serial_port", "/dev/ttyUSB0")
	v.SetDefault("capture.serial_baud", 115200)
	v.SetDefault("capture.wait_timeout", 100*time.Millisecond)
	v.SetDefault("capture.debounce", 100*time.Microsecond)
	v.SetDefault("capture.max_pulse", 10*time.Millisecond)
	v.SetDefault("capture.buffer", 4096)
	v.SetDefault("transmit.mode", TransmitCarrier)
	v.SetDefault("transmit.pin", "GPIO13")
	v.SetDefault("transmit.queue", 16)
	v.SetDefault("sanyo.code_table", "")
	v.SetDefault("sanyo.restore_state", true)
}

// Load reads dotenvPath (ignored when missing), then config.yml from dir,
// then environment overrides such as IRCTL_PORT or IRCTL_AUTH_PASSWORD.
func Load(dir, dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Capture.Source {
	case SourceGPIO, SourceSerial:
	default:
		errs = append(errs, fmt.Errorf("capture.source: unknown source %q", c.Capture.Source))
	}
	switch c.Transmit.Mode {
	case TransmitCarrier, TransmitDirect:
	default:
		errs = append(errs, fmt.Errorf("transmit.mode: unknown mode %q", c.Transmit.Mode))
	}
	if c.Auth.SigningKey == "" {
		errs = append(errs, errors.New("auth.signing_key is required"))
	}
	if c.Auth.Password == "" {
		errs = append(errs, errors.New("auth.password is required"))
	}
	return errors.Join(errs...)
}
