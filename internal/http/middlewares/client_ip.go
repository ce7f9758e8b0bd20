package middlewares

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
)

const ctxClientIPKey ctxKey = "client_ip"

// ParseTrustedProxies acepta CIDRs o IPs sueltas (se toman como /32 o /128).
func ParseTrustedProxies(entries []string) ([]*net.IPNet, error) {
	out := make([]*net.IPNet, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.Contains(e, "/") {
			ip := net.ParseIP(e)
			if ip == nil {
				return nil, fmt.Errorf("trusted proxy: invalid ip %q", e)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			out = append(out, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(e)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}

// WithClientIP resuelve la IP del cliente una vez por request. X-Forwarded-For solo
// se lee cuando el peer directo es un proxy confiable; en ese caso gana la entrada
// más a la derecha que no sea otro proxy confiable.
func WithClientIP(trusted []*net.IPNet) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := resolveClientIP(r, trusted)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxClientIPKey, ip)))
		})
	}
}

// GetClientIP devuelve la IP resuelta por WithClientIP, o "".
func GetClientIP(ctx context.Context) string {
	if s, ok := ctx.Value(ctxClientIPKey).(string); ok {
		return s
	}
	return ""
}

// clientIP usa la IP resuelta; sin WithClientIP en la cadena cae al peer directo.
func clientIP(r *http.Request) string {
	if ip := GetClientIP(r.Context()); ip != "" {
		return ip
	}
	return remoteHost(r)
}

func resolveClientIP(r *http.Request, trusted []*net.IPNet) string {
	peer := remoteHost(r)
	if !isTrusted(peer, trusted) {
		return peer
	}
	xf := r.Header.Get("X-Forwarded-For")
	if xf == "" {
		return peer
	}
	hops := strings.Split(xf, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if net.ParseIP(hop) == nil {
			// entrada basura: no se puede seguir la cadena
			return peer
		}
		if !isTrusted(hop, trusted) {
			return hop
		}
	}
	return strings.TrimSpace(hops[0])
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

func isTrusted(ip string, trusted []*net.IPNet) bool {
	if len(trusted) == 0 {
		return false
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, n := range trusted {
		if n.Contains(parsed) {
			return true
		}
	}
	return false
}
