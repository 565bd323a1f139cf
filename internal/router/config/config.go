package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress  string        `mapstructure:"SERVER_ADDRESS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	PostgresConn   string        `mapstructure:"POSTGRES_CONN"`
	PostgresUser   string        `mapstructure:"POSTGRES_USERNAME"`
	PostgresPass   string        `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost   string        `mapstructure:"POSTGRES_HOST"`
	PostgresPort   string        `mapstructure:"POSTGRES_PORT"`
	PostgresDB     string        `mapstructure:"POSTGRES_DATABASE"`
	MigrationURL   string        `mapstructure:"MIGRATION_URL"`

	// Автоматическое завершение зависших сделок; пустое расписание отключает обход.
	ExpirySchedule string        `mapstructure:"EXPIRY_SCHEDULE"`
	ExpiryTimeout  time.Duration `mapstructure:"EXPIRY_TIMEOUT"`
	ProposalTTL    time.Duration `mapstructure:"PROPOSAL_TTL"`
	DeliveryTTL    time.Duration `mapstructure:"DELIVERY_TTL"`
	RatingTTL      time.Duration `mapstructure:"RATING_TTL"`
}

// LoadConfig загружает конфигурацию из файла
func LoadConfig(path string) (cfg Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("REQUEST_TIMEOUT", 5*time.Second)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MIGRATION_URL", "file://db/migrations")
	v.SetDefault("EXPIRY_SCHEDULE", "@every 10m")
	v.SetDefault("EXPIRY_TIMEOUT", time.Minute)
	v.SetDefault("PROPOSAL_TTL", 7*24*time.Hour)
	v.SetDefault("DELIVERY_TTL", 14*24*time.Hour)
	v.SetDefault("RATING_TTL", 14*24*time.Hour)

	err = v.ReadInConfig()
	if err != nil {
		return
	}
	err = v.Unmarshal(&cfg)
	return
}
