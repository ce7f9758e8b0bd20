package auth

import (
	"context"
	"fmt"
	"strings"

	dto "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/dto/auth"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/metrics"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/observability/logger"
)

type authenticateService struct {
	deps Deps
}

func NewAuthenticateService(deps Deps) AuthenticateService {
	return &authenticateService{deps: deps}
}

// Authenticate: credenciales → directorio → claims → firma. Credenciales incorrectas
// devuelven Accepted=false sin error; los errores son de sistema o del directorio.
func (s *authenticateService) Authenticate(ctx context.Context, in dto.TokenRequest) (*dto.TokenResult, error) {
	username := strings.TrimSpace(in.UserName)
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.authenticate"),
		logger.Op("Authenticate"),
		logger.Username(username),
	)

	if username == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	ok, err := s.deps.Verifier.Verify(ctx, username, in.Password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		log.Debug("credential check failed", logger.Err(err))
		return nil, err
	}
	if !ok {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		log.Info("credentials rejected")
		return &dto.TokenResult{Accepted: false}, nil
	}

	profile, err := s.deps.Directory.Fetch(ctx, username)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	claimSet, err := s.deps.Builder.Build(profile)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		log.Warn("claims build failed", logger.Err(err))
		return nil, err
	}

	token, err := s.deps.Codec.Sign(claimSet)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		log.Error("token signing failed", logger.Err(err))
		return nil, fmt.Errorf("auth: sign token: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues("accepted").Inc()
	metrics.TokensIssued.Inc()
	log.Info("access token issued", logger.ExpiresAt(claimSet.ExpiresAtTime()))

	return &dto.TokenResult{
		Accepted:    true,
		AccessToken: token,
	}, nil
}
