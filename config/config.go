package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultDatasetsRoot  = "datasets"
	defaultDatabasePath  = "yolo.db"
	defaultPort          = 8080
	defaultScanWorkers   = 4
	defaultMaxUploadMB   = 64
	defaultOverlapScope  = "dataset"
	defaultAllowedOrigin = "http://localhost:5173"
)

type Config struct {
	// root holding one directory per dataset (images/, labels/, data.yaml)
	DatasetsRoot string

	// database path
	DatabasePath string

	// http settings
	Port               int
	CORSAllowedOrigins []string
	MaxUploadBytes     int64

	// analyzer settings
	ScanWorkers  int    // goroutines decoding + hashing images during analysis
	OverlapScope string // "dataset" or "image"
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvListOrDefault(envVar string, defaultVal []string) []string {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func LoadConfig() (Config, error) {
	root := getEnvOrDefault("DATASETS_ROOT", filepath.Join(".", defaultDatasetsRoot))
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for datasets root '%s': %w", root, err)
	}

	scope := strings.ToLower(getEnvOrDefault("ANALYZER_OVERLAP_SCOPE", defaultOverlapScope))
	if scope != "dataset" && scope != "image" {
		return Config{}, fmt.Errorf("invalid ANALYZER_OVERLAP_SCOPE '%s': expected 'dataset' or 'image'", scope)
	}

	cfg := Config{
		DatasetsRoot:       absRoot,
		DatabasePath:       getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
		Port:               getEnvIntOrDefault("PORT", defaultPort),
		CORSAllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{defaultAllowedOrigin}),
		MaxUploadBytes:     int64(getEnvIntOrDefault("MAX_UPLOAD_MB", defaultMaxUploadMB)) << 20,
		ScanWorkers:        getEnvIntOrDefault("SCAN_WORKERS", defaultScanWorkers),
		OverlapScope:       scope,
	}

	return cfg, nil
}
