package auth

import (
	"net/http"

	dto "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/dto/auth"
	httperrors "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/errors"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/http/helpers"
	svc "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/services/auth"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/observability/logger"
)

type TokenController struct {
	service svc.AuthenticateService
}

func NewTokenController(s svc.AuthenticateService) *TokenController {
	return &TokenController{service: s}
}

// Issue maneja POST /user/token
func (c *TokenController) Issue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("TokenController.Issue"))

	var req dto.TokenRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	res, err := c.service.Authenticate(ctx, req)
	if err != nil {
		appErr := mapError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log.Error("authenticate failed", logger.Err(err))
		}
		httperrors.WriteError(w, appErr)
		return
	}
	if !res.Accepted {
		httperrors.WriteError(w, httperrors.ErrUnauthorizedUser)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.Envelope{
		Status:  dto.StatusAccepted,
		Message: dto.MessageAuthenticationAccepted,
		Data:    dto.TokenResponse{AccessToken: res.AccessToken},
	})
}
