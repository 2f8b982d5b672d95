package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"sena-tracker/internal/sheet"
)

// Хранилища таблицы
const (
	StoreAppScript = "appscript"
	StoreXLSX      = "xlsx"
	StorePostgres  = "postgres"
	StoreMemory    = "memory"
)

// Config основной конфиг
type Config struct {
	Environment string
	HTTPPort    string
	Store       StoreConfig
	Bot         BotConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Sync        SyncConfig
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

type StoreConfig struct {
	Kind             string
	AppScriptURL     string
	AppScriptTimeout time.Duration // 0 = без таймаута
	XLSXPath         string
	EvidenceDir      string
	EvidenceBaseURL  string
}

type BotConfig struct {
	Token string // пустой токен = бот выключен
	Debug bool
}

// AuthConfig - статические учётные данные ролей
type AuthConfig struct {
	InstructorUser      string
	InstructorPassword  string
	CoordinatorUser     string
	CoordinatorPassword string
}

type SyncConfig struct {
	RowMode                    sheet.Mode
	FixturePath                string
	CompetencyTemplateFallback bool
}

func defaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("http_port", "8080")
	v.SetDefault("store", StoreAppScript)
	v.SetDefault("appscript_url", "")
	v.SetDefault("appscript_timeout", time.Duration(0))
	v.SetDefault("xlsx_path", "sena.xlsx")
	v.SetDefault("evidence_dir", "evidencias")
	v.SetDefault("evidence_base_url", "http://localhost:8080/evidencias/")
	v.SetDefault("bot_token", "")
	v.SetDefault("bot_debug", false)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "sena-db")
	v.SetDefault("row_mode", string(sheet.Lenient))
	v.SetDefault("fixture_path", "")
	v.SetDefault("competency_template_fallback", false)
	v.SetDefault("instructor_user", "INSTRUCTOR2026")
	v.SetDefault("instructor_password", "INSTRUCTOR2026")
	v.SetDefault("coordinator_user", "COORDINADOR2026")
	v.SetDefault("coordinator_password", "COORDINADOR2026")
}

// Load загружает конфигурацию из окружения. Файл envFile (.env) читается,
// если он существует.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, errors.Wrapf(err, "load %s", envFile)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat %s", envFile)
		}
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	defaults(v)
	v.AutomaticEnv()

	env := v.GetString("app_env")
	mode, modeErr := sheet.ParseMode(v.GetString("row_mode"))

	cfg := &Config{
		Environment: env,
		HTTPPort:    v.GetString("http_port"),
		Store: StoreConfig{
			Kind:             strings.ToLower(v.GetString("store")),
			AppScriptURL:     v.GetString("appscript_url"),
			AppScriptTimeout: v.GetDuration("appscript_timeout"),
			XLSXPath:         v.GetString("xlsx_path"),
			EvidenceDir:      v.GetString("evidence_dir"),
			EvidenceBaseURL:  v.GetString("evidence_base_url"),
		},
		Bot: BotConfig{
			Token: v.GetString("bot_token"),
			Debug: v.GetBool("bot_debug"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			Username: v.GetString("db_user"),
			Password: v.GetString("db_password"),
			Name:     v.GetString("db_name"),
			SSLMode:  getSSLMode(env),
		},
		Auth: AuthConfig{
			InstructorUser:      v.GetString("instructor_user"),
			InstructorPassword:  v.GetString("instructor_password"),
			CoordinatorUser:     v.GetString("coordinator_user"),
			CoordinatorPassword: v.GetString("coordinator_password"),
		},
		Sync: SyncConfig{
			RowMode:                    mode,
			FixturePath:                v.GetString("fixture_path"),
			CompetencyTemplateFallback: v.GetBool("competency_template_fallback"),
		},
	}

	problems := cfg.validate()
	if modeErr != nil {
		problems = append(problems, "ROW_MODE: "+modeErr.Error())
	}
	if len(problems) > 0 {
		return nil, errors.Errorf("config validation failed: %s", strings.Join(problems, ", "))
	}
	return cfg, nil
}

// validate проверяет обязательные параметры
func (c *Config) validate() []string {
	var problems []string

	switch c.Store.Kind {
	case StoreAppScript:
		if c.Store.AppScriptURL == "" {
			problems = append(problems, "APPSCRIPT_URL is required for the appscript store")
		}
	case StoreXLSX:
		if c.Store.XLSXPath == "" {
			problems = append(problems, "XLSX_PATH is required for the xlsx store")
		}
	case StorePostgres:
		if c.Database.Username == "" {
			problems = append(problems, "DB_USER is required for the postgres store")
		}
		if c.Database.Password == "" && c.IsProduction() {
			problems = append(problems, "DB_PASSWORD is required in production")
		}
	case StoreMemory:
	default:
		problems = append(problems, "unknown STORE "+c.Store.Kind)
	}

	if c.Store.AppScriptTimeout < 0 {
		problems = append(problems, "APPSCRIPT_TIMEOUT must not be negative")
	}
	if c.Auth.InstructorUser == "" || c.Auth.CoordinatorUser == "" {
		problems = append(problems, "role usernames must not be empty")
	}
	return problems
}

// getSSLMode возвращает режим SSL в зависимости от окружения
func getSSLMode(env string) string {
	if env == "production" {
		return "require"
	}
	return "disable"
}
