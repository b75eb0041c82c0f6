package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del cliente Fenix y del sandbox (Viper: env y archivo opcional).
type Config struct {
	App      AppConfig
	API      APIConfig
	Session  SessionConfig
	Download DownloadConfig
	Sandbox  SandboxConfig
	DB       DBConfig
	JWT      JWTConfig
}

// AppConfig configuración general.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// APIConfig transporte hacia el backend Fenix.
type APIConfig struct {
	BaseURL    string
	Timeout    time.Duration
	LoginRoute string
}

// Backends de sesión soportados.
const (
	SessionFile   = "file"
	SessionRedis  = "redis"
	SessionMemory = "memory"
)

// SessionConfig dónde se persiste el token.
type SessionConfig struct {
	Backend   string // file | redis | memory
	File      string
	Key       string
	RedisAddr string
}

// DownloadConfig destino de exportaciones y recibos.
type DownloadConfig struct {
	Dir string
}

// Stores del sandbox.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// SandboxConfig servidor local que emula el backend.
type SandboxConfig struct {
	Host          string
	Port          int
	Store         string // memory | postgres
	AdminUser     string // se crea al arrancar si no existe
	AdminPassword string
}

// Addr devuelve la dirección de escucha (host:port).
func (c SandboxConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig PostgreSQL del sandbox (solo con SANDBOX_STORE=postgres).
type DBConfig struct {
	DatabaseURL string
}

// JWTConfig tokens emitidos por el sandbox.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "fenix-admin"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL:    getString(v, "FENIX_API_URL", "https://fenix-backend.onrender.com/api"),
			Timeout:    time.Duration(getInt(v, "FENIX_API_TIMEOUT_MS", 10000)) * time.Millisecond,
			LoginRoute: getString(v, "FENIX_LOGIN_ROUTE", "/login"),
		},
		Session: SessionConfig{
			Backend:   strings.ToLower(getString(v, "SESSION_BACKEND", SessionFile)),
			File:      expandHome(getString(v, "SESSION_FILE", "~/.fenix/session.json")),
			Key:       getString(v, "SESSION_KEY", "authToken"),
			RedisAddr: getString(v, "REDIS_ADDR", "localhost:6379"),
		},
		Download: DownloadConfig{
			Dir: expandHome(getString(v, "DOWNLOAD_DIR", ".")),
		},
		Sandbox: SandboxConfig{
			Host:  getString(v, "SANDBOX_HOST", "127.0.0.1"),
			Port:  getInt(v, "SANDBOX_PORT", 8000),
			Store: strings.ToLower(getString(v, "SANDBOX_STORE", StoreMemory)),

			AdminUser:     getString(v, "SANDBOX_ADMIN_USER", "admin"),
			AdminPassword: getString(v, "SANDBOX_ADMIN_PASSWORD", "admin123"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", "fenix-sandbox-secret"),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "fenix-sandbox"),
		},
	}

	switch cfg.Session.Backend {
	case SessionFile, SessionRedis, SessionMemory:
	default:
		return nil, fmt.Errorf("config: SESSION_BACKEND inválido %q", cfg.Session.Backend)
	}
	switch cfg.Sandbox.Store {
	case StoreMemory:
	case StorePostgres:
		if cfg.DB.DatabaseURL == "" {
			return nil, fmt.Errorf("config: SANDBOX_STORE=postgres requiere DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("config: SANDBOX_STORE inválido %q", cfg.Sandbox.Store)
	}
	if cfg.API.Timeout <= 0 {
		return nil, fmt.Errorf("config: FENIX_API_TIMEOUT_MS debe ser positivo")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
