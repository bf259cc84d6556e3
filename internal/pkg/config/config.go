package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	CORS       CORSConfig
	Log        LogConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	Schedule   ScheduleConfig
	Hold       HoldConfig
	Reschedule RescheduleConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret          string        `envconfig:"JWT_SECRET" required:"true"`
	AccessDuration  time.Duration `envconfig:"JWT_ACCESS_DURATION" default:"15m"`
	RefreshDuration time.Duration `envconfig:"JWT_REFRESH_DURATION" default:"168h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

// ScheduleConfig drives business-hour candidate slot generation.
// ClosedWeekday is time.Weekday numbering (0=Sunday).
type ScheduleConfig struct {
	OpenHour      int           `envconfig:"SCHEDULE_OPEN_HOUR" default:"9"`
	CloseHour     int           `envconfig:"SCHEDULE_CLOSE_HOUR" default:"18"`
	SlotDuration  time.Duration `envconfig:"SCHEDULE_SLOT_DURATION" default:"1h"`
	ClosedWeekday int           `envconfig:"SCHEDULE_CLOSED_WEEKDAY" default:"0"`
	MinLeadTime   time.Duration `envconfig:"SCHEDULE_MIN_LEAD_TIME" default:"2h"`
	HorizonDays   int           `envconfig:"SCHEDULE_HORIZON_DAYS" default:"14"`
	Timezone      string        `envconfig:"SCHEDULE_TIMEZONE" default:"UTC"`
}

type HoldConfig struct {
	TTL           time.Duration `envconfig:"HOLD_TTL" default:"10m"`
	SweepInterval time.Duration `envconfig:"HOLD_SWEEP_INTERVAL" default:"1m"`
}

type RescheduleConfig struct {
	// Secret keys the integrity hash over preview payloads.
	Secret     string        `envconfig:"RESCHEDULE_SECRET" required:"true"`
	PreviewTTL time.Duration `envconfig:"RESCHEDULE_PREVIEW_TTL" default:"15m"`
	// Stateless switches the confirm path to recompute the proposal from
	// caller-supplied fields instead of loading the stored preview row.
	Stateless bool `envconfig:"RESCHEDULE_STATELESS" default:"false"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		CORS: CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		JWT: JWTConfig{
			Secret:          "test-jwt-secret",
			AccessDuration:  15 * time.Minute,
			RefreshDuration: 168 * time.Hour,
		},
		Schedule: ScheduleConfig{
			OpenHour:      9,
			CloseHour:     18,
			SlotDuration:  time.Hour,
			ClosedWeekday: 0,
			MinLeadTime:   2 * time.Hour,
			HorizonDays:   14,
			Timezone:      "UTC",
		},
		Hold: HoldConfig{
			TTL:           10 * time.Minute,
			SweepInterval: time.Minute,
		},
		Reschedule: RescheduleConfig{
			Secret:     "test-reschedule-secret",
			PreviewTTL: 15 * time.Minute,
		},
	}
}
