package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field es un alias para que los callers no importen zap directamente.
type Field = zap.Field

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - AUTH
// =================================================================================

// Username identifica al usuario del directorio (sub del token).
func Username(v string) zap.Field { return zap.String("username", v) }

// Upstream identifica el servicio remoto consultado (ej: "iam-service").
func Upstream(v string) zap.Field { return zap.String("upstream", v) }

// Reason es el motivo de rechazo de un token o credencial.
func Reason(v string) zap.Field { return zap.String("reason", v) }

// ExpiresAt registra la expiración de un token emitido.
func ExpiresAt(v time.Time) zap.Field { return zap.Time("expires_at", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }

func Op(v string) zap.Field { return zap.String("op", v) }

// Layer: controller, service, gateway, middleware.
func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field { return zap.Error(err) }

func Any(key string, v any) zap.Field { return zap.Any(key, v) }

func String(key, v string) zap.Field { return zap.String(key, v) }

func Int(key string, v int) zap.Field { return zap.Int(key, v) }
