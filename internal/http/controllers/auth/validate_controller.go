package auth

import (
	"net/http"

	dto "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/dto/auth"
	httperrors "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/errors"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/http/helpers"
	svc "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/services/auth"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/observability/logger"
)

type ValidateController struct {
	service svc.ValidateService
}

func NewValidateController(s svc.ValidateService) *ValidateController {
	return &ValidateController{service: s}
}

// Validate maneja GET /user/token/validate
func (c *ValidateController) Validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := c.service.Validate(ctx, r.Header.Get("Authorization"))
	if err != nil {
		appErr := mapError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.From(ctx).Error("validate failed",
				logger.Layer("controller"), logger.Op("ValidateController.Validate"), logger.Err(err))
		}
		httperrors.WriteError(w, appErr)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.Envelope{
		Status:  dto.StatusAccepted,
		Message: dto.MessageAuthorizationAccepted,
		Data:    view,
	})
}
