package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Generator GeneratorConfig `mapstructure:"generator"`
	QRPay     QRPayConfig     `mapstructure:"qrpay"`
	Merge     MergeConfig     `mapstructure:"merge"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	UploadDir    string        `mapstructure:"upload_dir"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// DatabaseConfig holds run ledger configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// GeneratorConfig holds notice generation configuration
type GeneratorConfig struct {
	OutputDir      string `mapstructure:"output_dir"`
	TempDir        string `mapstructure:"temp_dir"`
	FontDir        string `mapstructure:"font_dir"`
	CompanyLogo    string `mapstructure:"company_logo"`
	MaucasLogo     string `mapstructure:"maucas_logo"`
	ZwennPayLogo   string `mapstructure:"zwennpay_logo"`
	DefaultVariant string `mapstructure:"default_variant"` // digital or letterhead
}

// QRPayConfig holds payment QR gateway configuration
type QRPayConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	MerchantID int64         `mapstructure:"merchant_id"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// MergeConfig holds print-batch merge configuration
type MergeConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	Prefix    string `mapstructure:"prefix"`
}

// NotifyConfig holds transactional email configuration
type NotifyConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Endpoint    string `mapstructure:"endpoint"`
	SenderName  string `mapstructure:"sender_name"`
	SenderEmail string `mapstructure:"sender_email"`
	ReplyTo     string `mapstructure:"reply_to"`
	Recipient   string `mapstructure:"recipient"` // batch completion reports
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 120*time.Second)
	viper.SetDefault("server.upload_dir", "uploads")
	viper.SetDefault("server.max_upload_mb", 16)

	// Database defaults
	viper.SetDefault("database.path", "data/renewal_runs.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Generator defaults
	viper.SetDefault("generator.output_dir", "generated_notices")
	viper.SetDefault("generator.temp_dir", "tmp")
	viper.SetDefault("generator.font_dir", "assets/fonts")
	viper.SetDefault("generator.company_logo", "assets/images/company_logo.png")
	viper.SetDefault("generator.maucas_logo", "assets/images/maucas.png")
	viper.SetDefault("generator.zwennpay_logo", "assets/images/zwennpay.png")
	viper.SetDefault("generator.default_variant", "digital")

	// QR gateway defaults
	viper.SetDefault("qrpay.endpoint", "https://api.zwennpay.com:9425/api/v1.0/Common/GetMerchantQR")
	viper.SetDefault("qrpay.timeout", 20*time.Second)

	// Merge defaults
	viper.SetDefault("merge.output_dir", "merged")
	viper.SetDefault("merge.prefix", "Motor_Policies")

	// Notify defaults
	viper.SetDefault("notify.endpoint", "https://api.brevo.com/v3/smtp/email")
	viper.SetDefault("notify.sender_name", "Renewals Team")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("qrpay.merchant_id", "ZWENNPAY_MERCHANT_ID")
	viper.BindEnv("notify.api_key", "BREVO_API_KEY")
	viper.BindEnv("notify.sender_email", "BREVO_SENDER_EMAIL")
	viper.BindEnv("notify.reply_to", "BREVO_REPLY_TO")
	viper.BindEnv("notify.recipient", "BATCH_REPORT_EMAIL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Generator.OutputDir == "" {
		return fmt.Errorf("generator.output_dir is required")
	}
	switch c.Generator.DefaultVariant {
	case "digital", "letterhead":
	default:
		return fmt.Errorf("generator.default_variant must be digital or letterhead")
	}
	if c.QRPay.Endpoint == "" {
		return fmt.Errorf("qrpay.endpoint is required")
	}
	if c.Merge.Prefix == "" {
		return fmt.Errorf("merge.prefix is required")
	}
	return nil
}
