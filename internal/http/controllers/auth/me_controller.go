package auth

import (
	"net/http"

	dto "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/dto/auth"
	httperrors "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/errors"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/http/helpers"
	mw "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/middlewares"
	svc "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/services/auth"
)

type MeController struct {
	service svc.PrincipalService
}

func NewMeController(s svc.PrincipalService) *MeController {
	return &MeController{service: s}
}

// Me maneja GET /user/me. Requiere WithPrincipal + RequireUser en la cadena.
func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	out, err := c.service.Me(r.Context(), mw.GetPrincipal(r.Context()))
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.Envelope{
		Status:  dto.StatusAccepted,
		Message: dto.MessagePrincipal,
		Data:    out,
	})
}
