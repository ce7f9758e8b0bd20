// Package health contiene el service para health checks.
package health

import (
	"context"
	"fmt"
	"time"

	dto "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/dto/health"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/observability/logger"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
// El directorio no se sondea: readyz no debe generar tráfico hacia iam-service.
type Deps struct {
	Version          string
	SigningAlgorithm string // "" = codec no inicializado
	DirectoryBaseURL string
	RedisCheck       func(ctx context.Context) error // nil = sin redis
	Now              func() time.Time
}

type healthService struct {
	deps Deps
}

func NewHealthService(deps Deps) HealthService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &healthService{deps: deps}
}

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("health"), logger.Op("Check"))

	resp := dto.HealthResponse{
		Version:    s.deps.Version,
		Components: make(map[string]dto.HealthStatus),
		Timestamp:  s.deps.Now().UTC(),
	}
	critical, degraded := false, false

	// 1) Clave de firma (crítico)
	if s.deps.SigningAlgorithm != "" {
		resp.Components["signing_key"] = dto.HealthStatus{Status: "ok", Message: s.deps.SigningAlgorithm}
	} else {
		resp.Components["signing_key"] = dto.HealthStatus{Status: "error", Message: "codec not initialized"}
		critical = true
	}

	// 2) Directorio: solo configuración
	if s.deps.DirectoryBaseURL != "" {
		resp.Components["directory"] = dto.HealthStatus{Status: "ok", Message: "configured"}
	} else {
		resp.Components["directory"] = dto.HealthStatus{Status: "error", Message: "base url not configured"}
		critical = true
	}

	// 3) Redis (no crítico: el limiter es fail-open)
	if s.deps.RedisCheck != nil {
		if err := s.deps.RedisCheck(ctx); err != nil {
			resp.Components["redis"] = dto.HealthStatus{Status: "error", Message: fmt.Sprintf("unavailable: %v", err)}
			degraded = true
			log.Warn("redis unavailable", logger.Err(err))
		} else {
			resp.Components["redis"] = dto.HealthStatus{Status: "ok"}
		}
	} else {
		resp.Components["redis"] = dto.HealthStatus{Status: "disabled", Message: "memory rate limiter"}
	}

	switch {
	case critical:
		resp.Status = "unavailable"
	case degraded:
		resp.Status = "degraded"
	default:
		resp.Status = "ready"
	}
	return resp
}
