package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort        string
	ShutdownTimeout time.Duration
	Database        DatabaseConfig
	Security        SecurityConfig
	APIOrigin       string
	Desktop         DesktopConfig
	MirrorPath      string
}

type DatabaseConfig struct {
	Driver string
	DSN    string
	Path   string
}

type SecurityConfig struct {
	EncryptionKey  string
	SessionTTL     time.Duration
	CustomTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

type DownloadTarget struct {
	URL      string
	Filename string
}

type DesktopConfig struct {
	Protocol  string
	Downloads map[string]DownloadTarget
}

func Load() Config {
	return Config{
		HTTPPort:        getEnv("HTTP_PORT", "9001"),
		ShutdownTimeout: getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			DSN:    getEnv("DB_DSN", ""),
			Path:   getEnv("DB_PATH", "data/reetreev.db"),
		},
		Security: SecurityConfig{
			EncryptionKey:  getEnv("ENCRYPTION_KEY", "dev-only-encryption-key"),
			SessionTTL:     getDuration("SESSION_TTL", 365*24*time.Hour),
			CustomTokenTTL: getDuration("CUSTOM_TOKEN_TTL", 10*time.Minute),
			ResetTokenTTL:  getDuration("RESET_TOKEN_TTL", time.Hour),
		},
		APIOrigin:  getEnv("API_ORIGIN", "http://localhost:9001"),
		MirrorPath: getEnv("USER_MIRROR_PATH", "data/reetreev_user.json"),
		Desktop: DesktopConfig{
			Protocol: getEnv("DESKTOP_PROTOCOL", "reetreev"),
			Downloads: map[string]DownloadTarget{
				"windows": {
					URL:      getEnv("DOWNLOAD_URL_WINDOWS", "https://github.com/your-org/reetreev-desktop/releases/latest/download/Reetreev-Setup.exe"),
					Filename: "Reetreev-Setup.exe",
				},
				"mac": {
					URL:      getEnv("DOWNLOAD_URL_MAC", "https://github.com/your-org/reetreev-desktop/releases/latest/download/Reetreev.dmg"),
					Filename: "Reetreev.dmg",
				},
				"linux": {
					URL:      getEnv("DOWNLOAD_URL_LINUX", "https://github.com/your-org/reetreev-desktop/releases/latest/download/Reetreev.AppImage"),
					Filename: "Reetreev.AppImage",
				},
			},
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
