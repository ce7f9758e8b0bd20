// Package directory implementa el gateway hacia el servicio de usuarios (iam-service).
// Es la única fuente de verdad de identidad y autorización: no hay reintentos ni cache.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/domain/types"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/metrics"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/observability/logger"
)

const (
	// LookupPath es el endpoint de lookup por username del iam-service.
	LookupPath = "/api/iam/v1/user/get-by-username/"

	statusOK       = "OK"
	statusNotFound = "NOT_FOUND"

	maxBodyBytes = 1 << 20
)

// Fetcher es el contrato que consumen el validador, el verificador de credenciales y
// el orquestador.
type Fetcher interface {
	Fetch(ctx context.Context, username string) (*types.UserProfile, error)
}

// Config del gateway.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Gateway es el cliente HTTP del directorio. Seguro para uso concurrente.
type Gateway struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// envelope es la respuesta estándar del iam-service.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// NewGateway crea el gateway. hc puede ser nil (se usa un client con cfg.Timeout).
func NewGateway(cfg Config, hc *http.Client) (*Gateway, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("directory: base url required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("directory: invalid base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Gateway{baseURL: base, timeout: timeout, http: hc}, nil
}

// Fetch hace un único round trip GET por username.
func (g *Gateway) Fetch(ctx context.Context, username string) (*types.UserProfile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrEmptyUsername
	}

	log := logger.From(ctx).With(logger.Component("directory"), logger.Op("Fetch"), logger.Username(username))
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	profile, result, err := g.fetch(ctx, username)
	metrics.ObserveDirectory(result, started)
	if err != nil {
		log.Debug("directory lookup failed", logger.Reason(result), logger.Err(err),
			logger.DurationMs(time.Since(started).Milliseconds()))
		return nil, err
	}
	log.Debug("directory lookup ok", logger.DurationMs(time.Since(started).Milliseconds()))
	return profile, nil
}

func (g *Gateway) fetch(ctx context.Context, username string) (*types.UserProfile, string, error) {
	endpoint := g.baseURL + LookupPath + url.PathEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "upstream_error", fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, "upstream_error", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "upstream_error", fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, "not_found", fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "upstream_error", fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, "upstream_error", fmt.Errorf("%w: decode envelope: %v", ErrUpstream, err)
	}
	switch env.Status {
	case statusOK:
	case statusNotFound:
		return nil, "not_found", fmt.Errorf("%w: %s", ErrNotFound, username)
	default:
		return nil, "upstream_error", fmt.Errorf("%w: envelope status %q: %s", ErrUpstream, env.Status, env.Message)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, "upstream_error", fmt.Errorf("%w: envelope without data", ErrUpstream)
	}

	var profile types.UserProfile
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		return nil, "upstream_error", fmt.Errorf("%w: decode user: %v", ErrUpstream, err)
	}
	return &profile, "ok", nil
}

var _ Fetcher = (*Gateway)(nil)
