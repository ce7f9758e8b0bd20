// Package types contiene los tipos de dominio compartidos entre capas.
package types

// UserProfile es el usuario tal como lo devuelve el directorio remoto (iam-service).
// El gateway solo mantiene una copia por request; nunca se cachea ni se persiste.
type UserProfile struct {
	ID               int                        `json:"idUser"`
	Email            string                     `json:"email"`
	EmailVerified    *bool                      `json:"isEmailVerified"`
	FirstName        string                     `json:"firstName"`
	LastName         string                     `json:"lastName"`
	Username         string                     `json:"userName"`
	Password         string                     `json:"password"`
	Active           *bool                      `json:"active"`
	FailCount        int16                      `json:"failCount"`
	AuthorizeParties []AuthorizePartyMembership `json:"userHasAuthorizeParties"`
	ScopeRoles       map[string]string          `json:"appScopeWithRole"`
}

// AuthorizePartyMembership indica que el usuario pertenece al party con los roles dados.
type AuthorizePartyMembership struct {
	ID     int                  `json:"authorizePartyId"`
	Party  string               `json:"party"`
	Active *bool                `json:"active"`
	Roles  []AuthorizePartyRole `json:"authorizePartyRoles"`
}

// AuthorizePartyRole es un rol dentro de un authorize party.
type AuthorizePartyRole struct {
	ID     int    `json:"authorizePartyRoleId"`
	Role   string `json:"role"`
	Active *bool  `json:"active"`
}

// IsEmailVerified trata el flag ausente como no verificado.
func (u *UserProfile) IsEmailVerified() bool {
	return u != nil && u.EmailVerified != nil && *u.EmailVerified
}

// IsDisabled es true solo si el directorio marcó la cuenta explícitamente como inactiva.
func (u *UserProfile) IsDisabled() bool {
	return u != nil && u.Active != nil && !*u.Active
}

// PartyRoles aplana las membresías a party → nombres de rol, en el orden del directorio.
// No filtra entradas inactivas: el directorio es quien decide qué membresías expone.
func (u *UserProfile) PartyRoles() map[string][]string {
	out := make(map[string][]string, len(u.AuthorizeParties))
	for _, m := range u.AuthorizeParties {
		roles := make([]string, 0, len(m.Roles))
		for _, r := range m.Roles {
			roles = append(roles, r.Role)
		}
		out[m.Party] = roles
	}
	return out
}
