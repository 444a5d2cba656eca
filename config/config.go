package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system:
// the HTTP server (serve mode), the replay engine (data locations and position
// limits), and the optional Postgres run store.
//
// Example YAML/ENV equivalent:
//
//	SERVER_PORT=8000
//	DATA_DIR=data
//	OUTPUT_DIR=backtests
//	POSITION_LIMITS=PEARLS=20,KELP=50
//	STORAGE_ENABLED=true
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
type Config struct {
	Server  ServerConfig  // HTTP server configuration (serve mode)
	Engine  EngineConfig  // Replay engine configuration
	Storage StorageConfig // Optional run persistence
}

// ServerConfig holds HTTP server settings such as the port to listen on.
//
// The default port is 8000 because the hosted visualizer fetches result
// bundles from http://localhost:8000/backtests/<file>.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8000")
}

// EngineConfig holds the replay engine settings.
//
// Fields:
//   - DataDir: root directory holding round<N>/ subdirectories with the
//     historical price and trade CSV files.
//   - OutputDir: directory where result bundles (.log) are written.
//   - Limits: absolute position limit per product. Seeded from the built-in
//     table and extended/overridden by the POSITION_LIMITS variable
//     (comma-separated PRODUCT=<limit> pairs).
type EngineConfig struct {
	DataDir   string
	OutputDir string
	Limits    map[string]int
}

// StorageConfig wraps the Postgres settings behind an enable switch.
// Replays work fully without a database; persistence is opt-in.
type StorageConfig struct {
	Enabled  bool
	Postgres PostgresConfig
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// defaultLimits is the built-in position limit table for the bundled
// historical products.
var defaultLimits = map[string]int{
	"PEARLS":        20,
	"BANANAS":       20,
	"COCONUTS":      600,
	"PINA_COLADAS":  300,
	"DIVING_GEAR":   50,
	"BERRIES":       250,
	"BAGUETTE":      150,
	"DIP":           300,
	"UKULELE":       70,
	"PICNIC_BASKET": 70,
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All services should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Sets defaults for all required fields.
//   - Reads environment variables automatically with viper.AutomaticEnv().
//   - Merges POSITION_LIMITS overrides into the built-in limit table.
//   - Constructs the PostgreSQL connection string (DSN).
//   - Calls validateConfig() to ensure required fields are present.
//
// Fatal exit:
//   - If required variables are missing or POSITION_LIMITS is malformed,
//     the app terminates with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8000")

	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("OUTPUT_DIR", "backtests")
	viper.SetDefault("POSITION_LIMITS", "")

	viper.SetDefault("STORAGE_ENABLED", false)
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "backtide")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	limits, err := mergeLimits(defaultLimits, viper.GetString("POSITION_LIMITS"))
	if err != nil {
		log.Fatalf("❌ Invalid POSITION_LIMITS: %v\n", err)
	}

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Engine: EngineConfig{
			DataDir:   viper.GetString("DATA_DIR"),
			OutputDir: viper.GetString("OUTPUT_DIR"),
			Limits:    limits,
		},
		Storage: StorageConfig{
			Enabled: viper.GetBool("STORAGE_ENABLED"),
			Postgres: PostgresConfig{
				Host:     viper.GetString("POSTGRES_HOST"),
				Port:     viper.GetInt("POSTGRES_PORT"),
				User:     viper.GetString("POSTGRES_USER"),
				Password: viper.GetString("POSTGRES_PASSWORD"),
				DBName:   viper.GetString("POSTGRES_DB"),
				SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
			},
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Storage.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Storage.Postgres.User,
		AppConfig.Storage.Postgres.Password,
		AppConfig.Storage.Postgres.Host,
		AppConfig.Storage.Postgres.Port,
		AppConfig.Storage.Postgres.DBName,
		AppConfig.Storage.Postgres.SSLMode,
	)

	// Validate critical fields
	validateConfig()
}

// mergeLimits copies the built-in limit table and applies overrides from a
// comma-separated list of PRODUCT=<limit> pairs. Unknown products extend the
// table; known products are overridden. Limits must be positive integers.
func mergeLimits(base map[string]int, overrides string) (map[string]int, error) {
	limits := make(map[string]int, len(base))
	for product, limit := range base {
		limits[product] = limit
	}

	if strings.TrimSpace(overrides) == "" {
		return limits, nil
	}

	for _, pair := range strings.Split(overrides, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		product, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("entry %q is not PRODUCT=<limit>", pair)
		}
		product = strings.TrimSpace(product)
		limit, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("entry %q has a non-integer limit", pair)
		}
		if product == "" || limit <= 0 {
			return nil, fmt.Errorf("entry %q must name a product and a positive limit", pair)
		}
		limits[product] = limit
	}
	return limits, nil
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// This avoids unexpected runtime failures due to incomplete configuration.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Postgres fields are only required when STORAGE_ENABLED is true.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Engine.DataDir == "" {
		missing = append(missing, "DATA_DIR")
	}
	if AppConfig.Engine.OutputDir == "" {
		missing = append(missing, "OUTPUT_DIR")
	}

	if AppConfig.Storage.Enabled {
		if AppConfig.Storage.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if AppConfig.Storage.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if AppConfig.Storage.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if AppConfig.Storage.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if AppConfig.Storage.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	}

	if len(missing) > 0 {
		log.Fatalf("❌ Missing required environment variables: %v\n", missing)
	}
}
