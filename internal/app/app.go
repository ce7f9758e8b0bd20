// Package app arma el contenedor del gateway a partir de la configuración.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	rdb "github.com/redis/go-redis/v9"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/claims"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/config"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/directory"
	authctrl "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/controllers/auth"
	healthctrl "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/controllers/health"
	mw "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/middlewares"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/http/router"
	authsvc "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/services/auth"
	healthsvc "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/services/health"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/jwt"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/metrics"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/observability/logger"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/rate"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/security/password"
)

// Container agrupa las piezas cableadas del gateway.
type Container struct {
	Config    *config.Config
	Directory *directory.Gateway
	Codec     *jwt.Codec
	Validator *jwt.Validator
	Limiter   rate.Limiter // nil con rate.enabled=false
	Redis     *rdb.Client  // nil con cache.kind=memory
	Handler   http.Handler
}

// Options permite inyectar dependencias en tests.
type Options struct {
	// HTTPClient para el directorio (nil = cliente propio con el timeout de config).
	HTTPClient *http.Client
	// Registerer para las métricas (nil = prometheus.DefaultRegisterer).
	Registerer prometheus.Registerer
}

// New valida la configuración y construye todo el grafo de dependencias.
func New(cfg *config.Config, opts Options) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	log := logger.L().With(logger.Component("app"))

	gw, err := directory.NewGateway(directory.Config{
		BaseURL: cfg.Directory.BaseURL,
		Timeout: cfg.DirectoryTimeout(),
	}, opts.HTTPClient)
	if err != nil {
		return nil, fmt.Errorf("app: directory: %w", err)
	}

	codec, err := jwt.NewCodec(cfg.JWT.SecretKey, cfg.JWT.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("app: codec: %w", err)
	}
	builder := claims.NewBuilder(claims.Options{
		Issuer:         cfg.JWT.Issuer,
		AccessTTL:      cfg.AccessTTL(),
		AllowedOrigins: cfg.JWT.AllowedOrigins,
	})
	validator := jwt.NewValidator(codec, gw, nil)

	// bcrypt es el formato preferido; argon2id se acepta para hashes ya existentes.
	hasher := password.NewMultiHasher(
		password.NewBcryptHasher(cfg.Security.BcryptCost),
		password.NewArgon2idHasher(password.DefaultArgon2Params),
	)
	verifier := password.NewDirectoryVerifier(gw, hasher)

	c := &Container{Config: cfg, Directory: gw, Codec: codec, Validator: validator}

	var redisCheck func(ctx context.Context) error
	if cfg.Cache.Kind == "redis" && cfg.Cache.Redis.Addr != "" {
		c.Redis = rdb.NewClient(&rdb.Options{
			Addr: cfg.Cache.Redis.Addr,
			DB:   cfg.Cache.Redis.DB,
		})
		client := c.Redis
		redisCheck = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	if cfg.Rate.Enabled {
		var client rdb.Cmdable
		if c.Redis != nil {
			client = c.Redis
		}
		c.Limiter, err = rate.New(rate.Config{
			Kind:   cfg.Cache.Kind,
			Prefix: cfg.Cache.Redis.Prefix,
			Max:    cfg.Rate.Login.Limit,
			Window: cfg.LoginWindow(),
		}, client)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("app: rate limiter: %w", err)
		}
		log.Info("login rate limit enabled",
			logger.String("kind", cfg.Cache.Kind),
			logger.Int("limit", cfg.Rate.Login.Limit),
			logger.String("window", cfg.LoginWindow().String()))
	}

	trusted, err := mw.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("app: server.trusted_proxies: %w", err)
	}

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler, err = metrics.Register(opts.Registerer)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("app: metrics: %w", err)
		}
	}

	services := authsvc.NewServices(authsvc.Deps{
		Directory: gw,
		Verifier:  verifier,
		Builder:   builder,
		Codec:     codec,
		Validator: validator,
	})
	health := healthsvc.NewHealthService(healthsvc.Deps{
		Version:          cfg.App.Version,
		SigningAlgorithm: codec.Algorithm(),
		DirectoryBaseURL: cfg.Directory.BaseURL,
		RedisCheck:       redisCheck,
	})

	c.Handler = router.New(router.Deps{
		AuthControllers:    authctrl.NewControllers(services),
		HealthController:   healthctrl.NewHealthController(health),
		Validator:          validator,
		LoginLimiter:       c.Limiter,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		TrustedProxies:     trusted,
	})

	log.Info("gateway wired",
		logger.String("alg", codec.Algorithm()),
		logger.String("issuer", builder.Issuer()),
		logger.Upstream(cfg.Directory.BaseURL))
	return c, nil
}

// Server devuelve el http.Server con los timeouts de config.
func (c *Container) Server() *http.Server {
	return &http.Server{
		Addr:         c.Config.Server.Addr,
		Handler:      c.Handler,
		ReadTimeout:  c.Config.ReadTimeout(),
		WriteTimeout: c.Config.WriteTimeout(),
	}
}

// Close libera las conexiones abiertas.
func (c *Container) Close() error {
	if c.Redis != nil {
		return c.Redis.Close()
	}
	return nil
}
