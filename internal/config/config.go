package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Static   StaticConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Mode string
}

// StaticConfig описывает HTTP-сервер раздачи изображений. PublicURL — адрес,
// по которому клиенты достраивают ссылки вида <PublicURL>/images/<file>.
type StaticConfig struct {
	Host      string
	Port      int
	ImagesDir string `mapstructure:"images_dir"`
	PublicURL string `mapstructure:"public_url"`
}

type DatabaseConfig struct {
	Path string
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type LogConfig struct {
	Dir string
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("MGTU_LAB")
	viper.AutomaticEnv()

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 9999)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("static.host", "0.0.0.0")
	viper.SetDefault("static.port", 8080)
	viper.SetDefault("static.images_dir", "static/images")
	viper.SetDefault("static.public_url", "http://localhost:8080")
	viper.SetDefault("database.path", "mgtu_app.db")
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("log.dir", "logs")

	// Server
	viper.BindEnv("server.host", "SERVER_HOST")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Static
	viper.BindEnv("static.host", "STATIC_HOST")
	viper.BindEnv("static.port", "STATIC_PORT")
	viper.BindEnv("static.public_url", "STATIC_PUBLIC_URL")

	// Database
	viper.BindEnv("database.path", "DATABASE_PATH")

	// Storage / MinIO
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	if err := viper.ReadInConfig(); err != nil {
		// Файл конфигурации не обязателен: значения по умолчанию покрывают
		// типовое развертывание в локальной сети.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == cfg.Static.Port {
		return nil, fmt.Errorf("server and static ports must differ, both are %d", cfg.Server.Port)
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Static.ImagesDir); os.IsNotExist(err) {
			os.MkdirAll(cfg.Static.ImagesDir, 0755)
		}
	}

	return &cfg, nil
}

// TCPAddr возвращает адрес протокольного сервера в виде host:port.
func (c *Config) TCPAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) StaticAddr() string {
	return fmt.Sprintf("%s:%d", c.Static.Host, c.Static.Port)
}
