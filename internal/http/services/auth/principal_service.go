package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/domain/types"
	dto "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/dto/auth"
)

// ErrNoPrincipal: se llamó a Me sin un principal autenticado.
var ErrNoPrincipal = errors.New("auth: no authenticated principal")

type principalService struct{}

func NewPrincipalService() PrincipalService {
	return principalService{}
}

func (principalService) Me(_ context.Context, p *types.Principal) (*dto.PrincipalResponse, error) {
	if p == nil {
		return nil, ErrNoPrincipal
	}
	profile := p.Profile()
	return &dto.PrincipalResponse{
		Username:              p.Username(),
		Email:                 profile.Email,
		Name:                  strings.TrimSpace(profile.FirstName + " " + profile.LastName),
		EmailVerified:         profile.IsEmailVerified(),
		Enabled:               p.Enabled(),
		AccountNonExpired:     p.AccountNonExpired(),
		AccountNonLocked:      p.AccountNonLocked(),
		CredentialsNonExpired: p.CredentialsNonExpired(),
		Authorities:           p.Authorities(),
	}, nil
}
