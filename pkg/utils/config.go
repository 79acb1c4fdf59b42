package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Booking  BookingConfig
	CheckIn  CheckInConfig
	Sweeper  SweeperConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	// JWTSecret verifies bearer identity tokens issued by the auth provider.
	JWTSecret string
	// QRSecret signs the reservation QR payloads handed out on confirmation.
	QRSecret string
}

type BookingConfig struct {
	// HoldTTL is how long a pending hold keeps its seats before the sweeper
	// reclaims them. Server-side only, never taken from the request.
	HoldTTL time.Duration
	// AvailabilityCacheTTL bounds how stale the cached seat map may be.
	AvailabilityCacheTTL time.Duration
}

type CheckInConfig struct {
	// GracePeriod is how early before the showtime start a QR may be scanned.
	GracePeriod time.Duration
}

type SweeperConfig struct {
	Interval time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("HOLD_TTL_SECONDS", 300)
	viper.SetDefault("AVAILABILITY_CACHE_TTL_SECONDS", 5)
	viper.SetDefault("CHECKIN_GRACE_MINUTES", 30)
	viper.SetDefault("SWEEP_INTERVAL_SECONDS", 5)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
			QRSecret:  viper.GetString("QR_SECRET"),
		},
		Booking: BookingConfig{
			HoldTTL:              time.Duration(viper.GetInt("HOLD_TTL_SECONDS")) * time.Second,
			AvailabilityCacheTTL: time.Duration(viper.GetInt("AVAILABILITY_CACHE_TTL_SECONDS")) * time.Second,
		},
		CheckIn: CheckInConfig{
			GracePeriod: time.Duration(viper.GetInt("CHECKIN_GRACE_MINUTES")) * time.Minute,
		},
		Sweeper: SweeperConfig{
			Interval: time.Duration(viper.GetInt("SWEEP_INTERVAL_SECONDS")) * time.Second,
		},
	}

	return config, nil
}
