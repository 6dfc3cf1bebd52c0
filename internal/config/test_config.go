package config

import "time"

// LoadTestConfig returns a fixed configuration for tests.
func LoadTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8081,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Name:     "backoffice_test",
			User:     "test_user",
			Password: "test_password",
		},
		JWT: JWTConfig{
			Secret: "test-secret",
			TTL:    time.Hour,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Retention: RetentionConfig{
			AuditLogAge: 24 * time.Hour,
		},
	}
}
