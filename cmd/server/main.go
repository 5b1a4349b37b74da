package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/kianyew1/ecgquality/pkg/ecgquality"
)

var (
	port           int
	dbPath         string
	tempDir        string
	samplingRate   int
	allowedOrigins string
)

func init() {
	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.StringVar(&dbPath, "db", getEnvOrDefault("ECG_DB_PATH", "ecgquality.sqlite3"), "Path to SQLite database")
	flag.StringVar(&tempDir, "temp", getEnvOrDefault("ECG_TEMP_DIR", "/tmp"), "Temporary directory for uploads")
	flag.IntVar(&samplingRate, "rate", 500, "Default sampling rate in Hz for text recordings")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	flag.Parse()

	// Parse allowed origins
	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	service, err := ecgquality.NewService(
		ecgquality.WithDBPath(dbPath),
		ecgquality.WithSamplingRate(samplingRate),
	)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	config := &ServerConfig{
		Port:           port,
		DBPath:         dbPath,
		TempDir:        tempDir,
		SamplingRate:   samplingRate,
		AllowedOrigins: origins,
	}

	server := NewServer(service, config)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
