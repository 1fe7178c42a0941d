package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// GatewayModeSim включает встроенный симулятор шлюза вместо живого контрагента.
const (
	GatewayModeLive = "live"
	GatewayModeSim  = "sim"
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	GatewayMode  string `env:"GATEWAY_MODE"`
	GatewayURL   string `env:"GATEWAY_URL"`
	TerminalCode string `env:"GATEWAY_TERMINAL_CODE"`

	// Секреты задаются только через окружение и не должны попадать в логи
	// и ответы (см. String).
	GatewaySecret string `env:"GATEWAY_SECRET"`
	JWTUserSecret string `env:"JWT_USER_SECRET"`

	MinOrderAmount int64 `env:"MIN_ORDER_AMOUNT"`
	MaxOrderAmount int64 `env:"MAX_ORDER_AMOUNT"`

	ReturnSuccessURL string `env:"RETURN_SUCCESS_URL"`
	ReturnFailureURL string `env:"RETURN_FAILURE_URL"`
}

func LoadConfig() (*Config, error) {
	// .env подхватываем по возможности, его отсутствие не ошибка.
	_ = godotenv.Load()

	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.GatewaySecret == "" {
		return nil, errors.New("gateway signing secret is not set")
	}
	if conf.JWTUserSecret == "" {
		return nil, errors.New("jwt user secret is not set")
	}
	if conf.DatabaseDSN == "" && conf.GatewayMode != GatewayModeSim {
		return nil, errors.New("database DSN is not set")
	}
	if conf.GatewayURL == "" && conf.GatewayMode != GatewayModeSim {
		return nil, errors.New("gateway URL is not set")
	}
	if conf.MinOrderAmount <= 0 || conf.MaxOrderAmount < conf.MinOrderAmount {
		return nil, fmt.Errorf(
			"invalid order amount bounds [%d, %d]", conf.MinOrderAmount, conf.MaxOrderAmount)
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

// String отдает конфиг пригодный для логирования: секреты замаскированы.
func (c *Config) String() string {
	return fmt.Sprintf(
		"{RunAddress:%s DatabaseDSN:%s MigrationsDir:%s GatewayMode:%s GatewayURL:%s TerminalCode:%s "+
			"GatewaySecret:**** JWTUserSecret:**** MinOrderAmount:%d MaxOrderAmount:%d "+
			"ReturnSuccessURL:%s ReturnFailureURL:%s}",
		c.RunAddress, maskDSN(c.DatabaseDSN), c.MigrationsDir, c.GatewayMode, c.GatewayURL, c.TerminalCode,
		c.MinOrderAmount, c.MaxOrderAmount, c.ReturnSuccessURL, c.ReturnFailureURL,
	)
}

func maskDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	return "****"
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.GatewayMode, "gw-mode", GatewayModeLive, "Gateway mode: live or sim")
	flag.StringVar(&flagConfig.GatewayURL, "gw-url", "", "Payment gateway base URL")
	flag.StringVar(&flagConfig.TerminalCode, "gw-tmn", "", "Merchant terminal code")
	flag.Int64Var(&flagConfig.MinOrderAmount, "amount-min", 1000, "Minimum order amount in minor units")
	flag.Int64Var(&flagConfig.MaxOrderAmount, "amount-max", 100000000, "Maximum order amount in minor units")
	flag.StringVar(&flagConfig.ReturnSuccessURL, "landing-success", "", "Success landing page URL")
	flag.StringVar(&flagConfig.ReturnFailureURL, "landing-failure", "", "Failure landing page URL")

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:       defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:      defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:    defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		GatewayMode:      defaultIfBlank(envConfig.GatewayMode, flagsConfig.GatewayMode),
		GatewayURL:       defaultIfBlank(envConfig.GatewayURL, flagsConfig.GatewayURL),
		TerminalCode:     defaultIfBlank(envConfig.TerminalCode, flagsConfig.TerminalCode),
		GatewaySecret:    envConfig.GatewaySecret,
		JWTUserSecret:    envConfig.JWTUserSecret,
		MinOrderAmount:   defaultIfZero(envConfig.MinOrderAmount, flagsConfig.MinOrderAmount),
		MaxOrderAmount:   defaultIfZero(envConfig.MaxOrderAmount, flagsConfig.MaxOrderAmount),
		ReturnSuccessURL: defaultIfBlank(envConfig.ReturnSuccessURL, flagsConfig.ReturnSuccessURL),
		ReturnFailureURL: defaultIfBlank(envConfig.ReturnFailureURL, flagsConfig.ReturnFailureURL),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func defaultIfZero(value int64, defaultValue int64) int64 {
	if value == 0 {
		return defaultValue
	}
	return value
}
