package ratelimit

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PosCloud/app/controllers"
	"github.com/ManuelReschke/PosCloud/internal/pkg/config"
)

func testConfig(max int) *config.Config {
	return &config.Config{RateLimitMax: max, RateLimitWindow: time.Minute}
}

func hit(t *testing.T, app *fiber.App) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	return resp.StatusCode
}

func TestNew_LimitsPerKey(t *testing.T) {
	app := fiber.New()
	app.Use(New(testConfig(2), nil, func(*fiber.Ctx) string { return "client" }))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	assert.Equal(t, fiber.StatusNoContent, hit(t, app))
	assert.Equal(t, fiber.StatusNoContent, hit(t, app))
	assert.Equal(t, fiber.StatusTooManyRequests, hit(t, app))
}

func TestNew_ForwardedHeadersFromUntrustedPeer(t *testing.T) {
	app := fiber.New(fiber.Config{EnableTrustedProxyCheck: true})
	app.Use(New(testConfig(2), nil, controllers.ClientIP))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	statuses := make([]int, 0, 5)
	for i := 1; i <= 5; i++ {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderXForwardedFor, fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.1.0.%d", i))
		resp, err := app.Test(req)
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{
		fiber.StatusNoContent,
		fiber.StatusNoContent,
		fiber.StatusTooManyRequests,
		fiber.StatusTooManyRequests,
		fiber.StatusTooManyRequests,
	}, statuses)
}

func TestNewStorage(t *testing.T) {
	assert.Nil(t, NewStorage(testConfig(1), nil))

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	storage := NewStorage(testConfig(1), client)
	require.NotNil(t, storage)
	require.NoError(t, storage.Set("k", []byte("v"), time.Minute))
	got, err := storage.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	require.NoError(t, storage.Close())

	mr.Close()
	assert.Nil(t, NewStorage(testConfig(1), client))
}
