package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	AiApi    AiApiConfig    `mapstructure:"ai"`
	Database DatabaseConfig `mapstructure:"database"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
}

// Telegram bot configuration
type BotConfig struct {
	Token   string        `mapstructure:"token"`
	ChatID  int64         `mapstructure:"chat_id"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// webhook server configuration; when Endpoint is empty the bot falls back
// to long polling
type WebhookConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	ListenPort string `mapstructure:"listen_port"`
	DebugPath  string `mapstructure:"debug_path"`
	CertFile   string `mapstructure:"cert_file"`
	KeyFile    string `mapstructure:"key_file"`
}

// logging configuration
type LoggerConfig struct {
	Directory string            `mapstructure:"directory"`
	Rotation  LogRotationConfig `mapstructure:"rotation"`
	Level     string            `mapstructure:"level"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// reminder scheduling and correlation policy
type ReminderConfig struct {
	DefaultTimezone        string        `mapstructure:"default_timezone"`
	TickInterval           time.Duration `mapstructure:"tick_interval"`
	PairingWindow          time.Duration `mapstructure:"pairing_window"`
	PairingRequireOpposite bool          `mapstructure:"pairing_require_opposite"`
}

// OpenAI API settings for extraction and voice transcription
type AiApiConfig struct {
	ApiKey             string `mapstructure:"api_key"`
	Model              string `mapstructure:"model"`
	TranscribeModel    string `mapstructure:"transcribe_model"`
	TranscribeLanguage string `mapstructure:"transcribe_language"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// Google Sheets storage backend; takes precedence over the database when
// enabled
type SheetsConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	CredentialsFile string `mapstructure:"credentials_file"`
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	Worksheet       string `mapstructure:"worksheet"`
}

var cfg *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	log.Printf("Using config file: %s", v.ConfigFileUsed())

	// Unmarshal configuration
	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		log.Fatal("Configuration not initialized, call Load() first")
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.webhook.listen_port", "8443")
	v.SetDefault("bot.webhook.debug_path", "/debug")
	v.SetDefault("bot.webhook.cert_file", "")
	v.SetDefault("bot.webhook.key_file", "")

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("logger.level", "INFO")

	v.SetDefault("reminder.default_timezone", "Europe/Moscow")
	v.SetDefault("reminder.tick_interval", time.Minute)
	v.SetDefault("reminder.pairing_window", 5*time.Second)
	v.SetDefault("reminder.pairing_require_opposite", true)

	v.SetDefault("ai.model", "gpt-3.5-turbo")
	v.SetDefault("ai.transcribe_model", "whisper-1")
	v.SetDefault("ai.transcribe_language", "ru")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.charset", "utf8mb4")

	v.SetDefault("sheets.enabled", false)
	v.SetDefault("sheets.worksheet", "reminders")
}
