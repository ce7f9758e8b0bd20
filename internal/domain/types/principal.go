package types

import "sort"

// Authority es un par scope → rol concedido al principal.
type Authority struct {
	Scope string `json:"scope"`
	Role  string `json:"role"`
}

// Principal envuelve un UserProfile para responder consultas de identidad.
// El ciclo de vida real de la cuenta (bloqueos, expiraciones) lo decide el directorio,
// por eso AccountNonExpired/AccountNonLocked/CredentialsNonExpired siempre son true.
type Principal struct {
	profile UserProfile
}

// NewPrincipal crea un principal a partir de una copia del perfil.
func NewPrincipal(profile UserProfile) *Principal {
	return &Principal{profile: profile}
}

func (p *Principal) Username() string     { return p.profile.Username }
func (p *Principal) PasswordHash() string { return p.profile.Password }

// Profile retorna la copia del perfil que respalda al principal.
func (p *Principal) Profile() UserProfile { return p.profile }

// Enabled refleja el flag active del directorio (ausente = habilitado).
func (p *Principal) Enabled() bool { return !p.profile.IsDisabled() }

func (p *Principal) AccountNonExpired() bool     { return true }
func (p *Principal) AccountNonLocked() bool      { return true }
func (p *Principal) CredentialsNonExpired() bool { return true }

// Authorities deriva una authority por entrada de ScopeRoles, ordenadas por scope.
func (p *Principal) Authorities() []Authority {
	out := make([]Authority, 0, len(p.profile.ScopeRoles))
	for scope, role := range p.profile.ScopeRoles {
		out = append(out, Authority{Scope: scope, Role: role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Scope < out[j].Scope })
	return out
}
