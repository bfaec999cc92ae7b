package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	AppPort string

	IdentityPoolID string
	UserPoolID     string
	UserPoolRegion string

	ClientID              string
	AuthorizationEndpoint string
	RedirectURI           string
	LogoutURI             string

	SecretKey string

	RedisAddr     string
	RedisPassword string
}

func Load() Config {

	cfg := Config{

		AppPort: os.Getenv("APP_PORT"),

		IdentityPoolID: os.Getenv("IDENTITY_POOL_ID"),
		UserPoolID:     os.Getenv("USER_POOL_ID"),
		UserPoolRegion: os.Getenv("USER_POOL_REGION"),

		ClientID:              os.Getenv("CLIENT_ID"),
		AuthorizationEndpoint: strings.TrimSuffix(os.Getenv("AUTHORIZATION_ENDPOINT"), "/"),
		RedirectURI:           os.Getenv("REDIRECT_URI"),
		LogoutURI:             os.Getenv("LOGOUT_URI"),

		SecretKey: os.Getenv("SECRET_KEY"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}

	return cfg

}

// Validate reports every required variable that is missing.
// Redis settings are optional; without them sessions stay in memory.
func (c Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"IDENTITY_POOL_ID", c.IdentityPoolID},
		{"USER_POOL_ID", c.UserPoolID},
		{"USER_POOL_REGION", c.UserPoolRegion},
		{"CLIENT_ID", c.ClientID},
		{"AUTHORIZATION_ENDPOINT", c.AuthorizationEndpoint},
		{"REDIRECT_URI", c.RedirectURI},
		{"LOGOUT_URI", c.LogoutURI},
		{"SECRET_KEY", c.SecretKey},
	}

	var missing []string
	for _, v := range required {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("config: missing required environment variables: %s",
			strings.Join(missing, ", "))
	}

	return nil
}
