package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	ctx := context.Background()

	ready := NewHealthService(Deps{SigningAlgorithm: "HS256", DirectoryBaseURL: "http://iam"}).Check(ctx)
	assert.Equal(t, "ready", ready.Status)
	assert.Equal(t, "disabled", ready.Components["redis"].Status)

	degraded := NewHealthService(Deps{
		SigningAlgorithm: "HS256",
		DirectoryBaseURL: "http://iam",
		RedisCheck:       func(context.Context) error { return errors.New("dial tcp: refused") },
	}).Check(ctx)
	assert.Equal(t, "degraded", degraded.Status)
	assert.Equal(t, "error", degraded.Components["redis"].Status)

	down := NewHealthService(Deps{DirectoryBaseURL: "http://iam"}).Check(ctx)
	assert.Equal(t, "unavailable", down.Status)
	assert.Equal(t, "error", down.Components["signing_key"].Status)
}
