package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
		CORSOrigins     []string
		BodyLimit       string
	}

	DatabaseConfig struct {
		Engine        string // postgres | memory
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	AIConfig struct {
		APIKey      string
		BaseURL     string
		Model       string
		Temperature float32
		MaxTokens   int
		Timeout     time.Duration
	}

	RedisConfig struct {
		URL string
	}

	ThreadsConfig struct {
		DailyLimit int
	}

	Config struct {
		Env                string // DEV (local; default), TEST, QA, PROD
		Debug              bool
		TestMode           bool
		AppName            string
		Build              string
		WorkDir            string
		SecretKey          string
		JWTExpirationDelta time.Duration
		DefaultFromEmail   mail.Address
		FrontendBaseURL    string
		RollbarToken       string
		SendgridApiKey     string

		Server   ServerConfig
		Database DatabaseConfig
		AI       AIConfig
		Redis    RedisConfig
		Threads  ThreadsConfig
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsMemory reports whether the app runs on the in-memory store.
func (c DatabaseConfig) IsMemory() bool {
	return c.Engine == "memory"
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("app.name", ".coder")
	v.SetDefault("build", "dev")
	v.SetDefault("secret.key", "x8#vq0w!l2n&b5e@a1s7-dotcoder-dev-only-k3y^m9t")
	v.SetDefault("jwt.expiration.delta", 30*24*time.Hour)
	v.SetDefault("default.from.email", ".coder <noreply@localhost>")
	v.SetDefault("frontend.base.url", "http://localhost:5173")
	v.SetDefault("rollbar.token", "")
	v.SetDefault("sendgrid.api.key", "")

	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debug.host", ":5050")
	v.SetDefault("server.shutdown.timeout", 10*time.Second)
	v.SetDefault("server.cors.origins", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("server.body.limit", "10M")

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "dotcoder")
	v.SetDefault("database.user", "dotcoder")
	v.SetDefault("database.password", "dotcoder")
	v.SetDefault("database.admin.user", "postgres")
	v.SetDefault("database.admin.password", "postgres")
	v.SetDefault("database.disable.tls", true)

	v.SetDefault("groq.api.key", "")
	v.SetDefault("ai.base.url", "https://api.groq.com/openai/v1")
	v.SetDefault("ai.model", "llama-3.3-70b-versatile")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max.tokens", 4096)
	v.SetDefault("ai.timeout", 60*time.Second)

	v.SetDefault("redis.url", "")
	v.SetDefault("threads.daily.limit", 10)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fromEmail, err := mail.ParseAddress(v.GetString("default.from.email"))
	if err != nil {
		log.Fatalf("config.mail.ParseAddress(%s): %v", v.GetString("default.from.email"), err)
	}

	return &Config{
		Env:                env,
		Debug:              v.GetBool("debug"),
		TestMode:           env == "TEST",
		AppName:            v.GetString("app.name"),
		Build:              v.GetString("build"),
		WorkDir:            wd,
		SecretKey:          v.GetString("secret.key"),
		JWTExpirationDelta: v.GetDuration("jwt.expiration.delta"),
		DefaultFromEmail:   *fromEmail,
		FrontendBaseURL:    v.GetString("frontend.base.url"),
		RollbarToken:       v.GetString("rollbar.token"),
		SendgridApiKey:     v.GetString("sendgrid.api.key"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debug.host"),
			ShutdownTimeout: v.GetDuration("server.shutdown.timeout"),
			CORSOrigins:     splitList(v.GetString("server.cors.origins")),
			BodyLimit:       v.GetString("server.body.limit"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.admin.user"),
			AdminPassword: v.GetString("database.admin.password"),
			DisableTLS:    v.GetBool("database.disable.tls"),
		},
		AI: AIConfig{
			APIKey:      v.GetString("groq.api.key"),
			BaseURL:     v.GetString("ai.base.url"),
			Model:       v.GetString("ai.model"),
			Temperature: float32(v.GetFloat64("ai.temperature")),
			MaxTokens:   v.GetInt("ai.max.tokens"),
			Timeout:     v.GetDuration("ai.timeout"),
		},
		Redis: RedisConfig{
			URL: v.GetString("redis.url"),
		},
		Threads: ThreadsConfig{
			DailyLimit: v.GetInt("threads.daily.limit"),
		},
	}
}

// NewTestConfig returns the config used by tests: debug off, in-memory store.
func NewTestConfig() *Config {
	conf := NewConfig()
	conf.Env = "TEST"
	conf.TestMode = true
	conf.Debug = false
	conf.Database.Engine = "memory"
	conf.AI.APIKey = ""
	conf.Redis.URL = ""
	if conf.Threads.DailyLimit <= 0 {
		conf.Threads.DailyLimit = 10
	}
	return conf
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}
