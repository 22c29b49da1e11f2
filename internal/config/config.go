package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime settings for the MCP server
type Config struct {
	LogLevel string
	Host     string // default 0.0.0.0
	Port     string // default PORT env or 8080

	Discovery struct {
		URL      string        // default http://localhost:8000
		BasePath string        // default /api/gemini
		Timeout  time.Duration // default 60s
	}

	Database struct {
		URL            string // RLS-scoped connection, required
		MaxConns       int32
		ServiceRoleURL string // privileged connection, optional
	}

	Neo4j struct {
		URI      string
		Username string
		Password string
	} // optional, enables the job graph

	Sheets struct {
		CredentialsPath string
		SpreadsheetID   string
	} // optional, enables application export
}

// GraphEnabled reports whether the job graph is configured
func (c Config) GraphEnabled() bool {
	return c.Neo4j.URI != ""
}

// SheetsEnabled reports whether application export is configured
func (c Config) SheetsEnabled() bool {
	return c.Sheets.CredentialsPath != ""
}

// Load reads an optional .env file, then populates config from environment variables
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv populates config from environment variables only
func FromEnv() (Config, error) {
	cfg := Config{
		LogLevel: "info",
		Host:     "0.0.0.0",
		Port:     "8080",
	}
	cfg.Discovery.URL = "http://localhost:8000"
	cfg.Discovery.BasePath = "/api/gemini"
	cfg.Discovery.Timeout = 60 * time.Second
	cfg.Database.MaxConns = 10

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("MCP_HOST"); v != "" {
		cfg.Host = v
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	if v := os.Getenv("DISCOVERY_URL"); v != "" {
		cfg.Discovery.URL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("DISCOVERY_BASE_PATH"); v != "" {
		cfg.Discovery.BasePath = v
	}

	var invalid []string

	if v := os.Getenv("DISCOVERY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			invalid = append(invalid, "DISCOVERY_TIMEOUT")
		} else {
			cfg.Discovery.Timeout = d
		}
	}

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	cfg.Database.ServiceRoleURL = os.Getenv("SERVICE_ROLE_DATABASE_URL")
	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n <= 0 {
			invalid = append(invalid, "DB_MAX_CONNS")
		} else {
			cfg.Database.MaxConns = int32(n)
		}
	}

	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")

	cfg.Sheets.CredentialsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")
	cfg.Sheets.SpreadsheetID = os.Getenv("SHEETS_SPREADSHEET_ID")

	var missingVars []string

	if cfg.Database.URL == "" {
		missingVars = append(missingVars, "DATABASE_URL")
	}

	// the graph needs credentials once a URI is given
	if cfg.GraphEnabled() {
		if cfg.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}
		if cfg.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}
	}

	var problems []string
	if len(missingVars) > 0 {
		problems = append(problems, "missing required environment variables: "+strings.Join(missingVars, ", "))
	}
	if len(invalid) > 0 {
		problems = append(problems, "invalid environment variables: "+strings.Join(invalid, ", "))
	}
	if len(problems) > 0 {
		return cfg, errors.New(strings.Join(problems, "; "))
	}

	return cfg, nil
}
