// Package auth contiene los controllers de /api/kcs_v1/v1/auth.
package auth

import svc "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/services/auth"

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Token    *TokenController
	Validate *ValidateController
	Me       *MeController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Token:    NewTokenController(s.Authenticate),
		Validate: NewValidateController(s.Validate),
		Me:       NewMeController(s.Principal),
	}
}
