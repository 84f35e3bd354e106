package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBUser     string // Ledger schema service user (elevated, never client-facing)
	DBPassword string // Ledger schema service password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Isolated ledger schema name
	JWTSecret  string // JWT secret key shared with the identity oracle
	RedisAddr  string // Redis server address
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number
	IsProd     bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:    os.Getenv("APP_PORT"),           // Application port
		DBUser:     os.Getenv("LEDGER_DB_USER"),     // Service user for the ledger schema
		DBPassword: os.Getenv("LEDGER_DB_PASSWORD"), // Service password for the ledger schema
		DBHost:     os.Getenv("DB_HOST"),            // Database host
		DBPort:     os.Getenv("DB_PORT"),            // Database port
		DBName:     os.Getenv("LEDGER_DB_NAME"),     // Ledger schema name
		JWTSecret:  os.Getenv("JWT_SECRET"),         // JWT secret key
		RedisAddr:  os.Getenv("REDIS_ADDR"),         // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),         // Redis password
		RedisDB:    redisDB,                         // Redis database number
		IsProd:     os.Getenv("IS_PROD") == "true",  // Is production environment
	}
}

// DSN assembles the elevated MySQL connection string for the ledger schema.
// It is built exactly once in main and handed to the store constructor;
// handler logic never reads credentials from the environment.
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}
