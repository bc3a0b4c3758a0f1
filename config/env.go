package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultMongoHost     = "localhost"
	defaultMongoPort     = "27017"
	defaultMongoDatabase = "test-task"
	defaultAppPort       = "3000"
	defaultAppEnv        = "local"
	defaultLogLevel      = "info"
	defaultLogDir        = "logs"
	defaultRedisAddr     = "localhost:6379"
	defaultAPIURL        = "http://localhost:3000/api"

	// MongoAuthSource is the database credentials are checked against.
	MongoAuthSource = "admin"
	mongoURIPrefix  = "mongodb://"
)

// keys read from the process environment on top of the files.
var knownKeys = []string{
	"MONGODB_HOST", "MONGODB_PORT", "MONGODB_DATABASE",
	"MONGO_INITDB_ROOT_USERNAME", "MONGO_INITDB_ROOT_PASSWORD",
	"PORT", "APP_ENV", "GRPC_PORT", "TRUST_PROXY",
	"LOG_LEVEL", "LOG_CONSOLE", "LOG_FILE", "LOG_DIR", "LOG_MONGO",
	"REDIS_ADDR", "REDIS_PASSWORD", "RATE_LIMIT_STORE",
	"CATALOG_API_URL", "MAX_BODY_BYTES",
}

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json, then .env, then the process environment.
// Later sources win. Safe to call many times; only the first call reads.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFrom("config/app.json", ".env")
	})
	return loadErr
}

// Validate reports every required key that is missing.
func Validate() error {
	_ = Load()

	var missing []string
	for _, key := range []string{"MONGO_INITDB_ROOT_USERNAME", "MONGO_INITDB_ROOT_PASSWORD"} {
		if get(key, "") == "" {
			missing = append(missing, key+": required")
		}
	}
	if _, err := strconv.Atoi(MongoPort()); err != nil {
		missing = append(missing, "MONGODB_PORT: must be numeric")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: mongodb environment validation failed: %s", strings.Join(missing, ", "))
	}
	return nil
}

func defaultValues() map[string]string {
	return map[string]string{
		"MONGODB_HOST":     defaultMongoHost,
		"MONGODB_PORT":     defaultMongoPort,
		"MONGODB_DATABASE": defaultMongoDatabase,
		"PORT":             defaultAppPort,
		"APP_ENV":          defaultAppEnv,
		"LOG_LEVEL":        defaultLogLevel,
		"LOG_DIR":          defaultLogDir,
		"REDIS_ADDR":       defaultRedisAddr,
		"RATE_LIMIT_STORE": "memory",
		"CATALOG_API_URL":  defaultAPIURL,
	}
}

// ── MongoDB ──────────────────────────────────────────────────────────────────

func MongoHost() string     { _ = Load(); return get("MONGODB_HOST", defaultMongoHost) }
func MongoPort() string     { _ = Load(); return get("MONGODB_PORT", defaultMongoPort) }
func MongoDatabase() string { _ = Load(); return get("MONGODB_DATABASE", defaultMongoDatabase) }
func MongoUsername() string { _ = Load(); return get("MONGO_INITDB_ROOT_USERNAME", "") }
func MongoPassword() string { _ = Load(); return get("MONGO_INITDB_ROOT_PASSWORD", "") }

// MongoURI builds the connection string without credentials; those are
// passed separately with MongoAuthSource.
func MongoURI() string {
	return mongoURIPrefix + MongoHost() + ":" + MongoPort() + "/" + MongoDatabase()
}

// ── HTTP / gRPC ──────────────────────────────────────────────────────────────

func AppPort() string { _ = Load(); return get("PORT", defaultAppPort) }
func AppEnv() string  { _ = Load(); return get("APP_ENV", defaultAppEnv) }

// GRPCPort is empty when the gRPC health server is disabled.
func GRPCPort() string { _ = Load(); return get("GRPC_PORT", "") }

// TrustProxy is off unless explicitly enabled. When off, clients are keyed by
// their socket peer address.
func TrustProxy() bool { _ = Load(); return boolValue(get("TRUST_PROXY", "")) }

// ── Logging ──────────────────────────────────────────────────────────────────

func LogLevel() string { _ = Load(); return strings.ToLower(get("LOG_LEVEL", defaultLogLevel)) }
func LogDir() string   { _ = Load(); return get("LOG_DIR", defaultLogDir) }

// LogConsole and LogFile are on unless explicitly set to "false".
func LogConsole() bool { _ = Load(); return get("LOG_CONSOLE", "") != "false" }
func LogFile() bool    { _ = Load(); return get("LOG_FILE", "") != "false" }

// LogMongo is off unless explicitly enabled.
func LogMongo() bool { _ = Load(); return boolValue(get("LOG_MONGO", "")) }

// ── Redis / rate limiting ────────────────────────────────────────────────────

func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }

// RateLimitStore is "memory" or "redis".
func RateLimitStore() string {
	_ = Load()
	switch s := strings.ToLower(get("RATE_LIMIT_STORE", "memory")); s {
	case "redis":
		return s
	default:
		return "memory"
	}
}

// ── Storefront ───────────────────────────────────────────────────────────────

func CatalogAPIURL() string { _ = Load(); return get("CATALOG_API_URL", defaultAPIURL) }

// Get reads any config key by name with a fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

func loadFrom(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	env, err := godotenv.Read(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", envPath, err)
	}
	for k, v := range env {
		if k = strings.ToUpper(strings.TrimSpace(k)); k != "" {
			loaded[k] = strings.TrimSpace(v)
		}
	}

	for _, key := range knownKeys {
		if v, ok := os.LookupEnv(key); ok {
			loaded[key] = strings.TrimSpace(v)
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		switch v := val.(type) {
		case string:
			out[k] = strings.TrimSpace(v)
		case float64:
			out[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(v)
		}
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

func boolValue(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
