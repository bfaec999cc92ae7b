package app

import (
	"github.com/moritalous/gradiio-cognito-bedrock/internal/config"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/identity"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/logger"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/redis"
	"github.com/moritalous/gradiio-cognito-bedrock/internal/session"
)

type Infra struct {
	Sessions        session.Store
	CognitoIdentity identity.API
	cleanup         func() error
}

// setupInfra picks the session backend and builds the Cognito Identity
// client. Sessions default to process memory; REDIS_ADDR switches to
// the shared Redis store.
func setupInfra(cfg config.Config) (*Infra, error) {
	var store session.Store
	cleanup := func() error { return nil }

	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		store = session.NewRedisStore(redisClient.Client)
		cleanup = redisClient.Close

		logger.Info("redis session store ready", nil)
	} else {
		store = session.NewMemoryStore()

		logger.Info("in-memory session store ready", nil)
	}

	return &Infra{
		Sessions:        store,
		CognitoIdentity: identity.NewClient(cfg.UserPoolRegion),
		cleanup:         cleanup,
	}, nil
}
