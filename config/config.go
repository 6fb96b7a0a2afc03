package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Email     EmailConfig     `mapstructure:"email"`
	Company   CompanyConfig   `mapstructure:"company"`
	PDF       PDFConfig       `mapstructure:"pdf"`
	Expenses  ExpensesConfig  `mapstructure:"expenses"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port       string `mapstructure:"port"`
	Mode       string `mapstructure:"mode"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	Charset      string `mapstructure:"charset"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	Seed         bool   `mapstructure:"seed"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug/info/warn/error
	Format string `mapstructure:"format"` // text/json
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// CompanyConfig 公司信息，打印在报价单 PDF 上
type CompanyConfig struct {
	Name         string `mapstructure:"name"`
	Address      string `mapstructure:"address"`
	Phone        string `mapstructure:"phone"`
	ContactEmail string `mapstructure:"contact_email"`
}

// PDFConfig 报价单 PDF 配置
type PDFConfig struct {
	LogoPath        string `mapstructure:"logo_path"`
	LogoPlaceholder string `mapstructure:"logo_placeholder"`
}

// ExpensesConfig 支出分组查询配置
type ExpensesConfig struct {
	GroupConcurrency int `mapstructure:"group_concurrency"`
}

// RateLimitConfig 发送邮件接口限流
type RateLimitConfig struct {
	SendMax           int           `mapstructure:"send_max"`
	SendWindowSeconds int           `mapstructure:"send_window_seconds"`
	SendWindow        time.Duration `mapstructure:"-"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("leer configuración embebida: %w", err)
	}
	log.Println("configuración embebida cargada")

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("advertencia: no se pudo leer %s: %v", configPath, err)
		} else {
			log.Printf("configuración externa combinada: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/cotizaciones")
		externalViper.AddConfigPath("$HOME/.cotizaciones")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("advertencia: no se pudo combinar la configuración externa: %v", err)
			} else {
				log.Printf("configuración externa combinada: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 环境变量覆盖，如 COTIZACIONES_DATABASE_HOST
	v.SetEnvPrefix("COTIZACIONES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("interpretar configuración: %w", err)
	}

	if cfg.Expenses.GroupConcurrency <= 0 {
		cfg.Expenses.GroupConcurrency = 4
	}
	if cfg.RateLimit.SendMax <= 0 {
		cfg.RateLimit.SendMax = 5
	}
	if cfg.RateLimit.SendWindowSeconds <= 0 {
		cfg.RateLimit.SendWindowSeconds = 60
	}
	cfg.RateLimit.SendWindow = time.Duration(cfg.RateLimit.SendWindowSeconds) * time.Second

	GlobalConfig = &cfg

	return &cfg, nil
}

// MustLoadConfig 加载配置，失败则 panic
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("cargar configuración: %v", err))
	}
	return cfg
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("configuración no inicializada, llame primero a LoadConfig")
	}
	return GlobalConfig
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("configuración actual:")
	log.Printf("  servidor: %s (modo: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  base de datos: %s@%s:%s/%s",
		GlobalConfig.Database.Username,
		GlobalConfig.Database.Host,
		GlobalConfig.Database.Port,
		GlobalConfig.Database.DBName)
	log.Printf("  correo: %v", GlobalConfig.Email.Enabled)
	log.Printf("  empresa: %s", GlobalConfig.Company.Name)
}
