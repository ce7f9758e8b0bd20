package auth

import (
	"context"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/jwt"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/observability/logger"
)

type validateService struct {
	validator TokenValidator
}

func NewValidateService(v TokenValidator) ValidateService {
	return &validateService{validator: v}
}

// Validate exige el prefijo "Bearer " antes de tocar el directorio.
func (s *validateService) Validate(ctx context.Context, bearerHeader string) (*jwt.AuthorizationView, error) {
	token, err := jwt.ExtractBearer(bearerHeader)
	if err != nil {
		logger.From(ctx).Debug("bearer header rejected",
			logger.Layer("service"), logger.Op("Validate"), logger.Reason("prefix"))
		return nil, err
	}
	return s.validator.Validate(ctx, token, "")
}
