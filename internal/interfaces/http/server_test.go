package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/eventhub-storefront/internal/config"
	"github.com/your-org/eventhub-storefront/internal/domain/cart"
	"github.com/your-org/eventhub-storefront/internal/domain/catalog"
	"github.com/your-org/eventhub-storefront/internal/domain/checkout"
	"github.com/your-org/eventhub-storefront/internal/domain/event"
	"github.com/your-org/eventhub-storefront/internal/interfaces/http/routes"
	"github.com/your-org/eventhub-storefront/internal/pkg/pdf"
	"github.com/your-org/eventhub-storefront/internal/pkg/session"
)

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "EventHub Storefront", Version: "test", Environment: "test"},
		Server:  config.ServerConfig{Port: "0", MaxBodyBytes: 1 << 20, RequestTimeout: 5 * time.Second},
		Catalog: config.CatalogConfig{Mode: config.CatalogModeStatic},
		Session: config.SessionConfig{
			Secret:     strings.Repeat("s", 48),
			TTL:        time.Hour,
			CookieName: "eventhub_session",
		},
		Cart:     config.CartConfig{Namespace: "eventhub-cart"},
		Checkout: config.CheckoutConfig{ServiceFeePercent: 5, HandoffTTL: time.Minute},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: []string{"http://localhost:3000"},
			CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
			CORSAllowedHeaders: []string{"Content-Type"},
		},
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func resolverOptions() []catalog.ResolverOption {
	return []catalog.ResolverOption{
		catalog.WithClock(func() time.Time { return fixedNow }),
		catalog.WithLocation(time.UTC),
	}
}

func newTestServer(t *testing.T, source catalog.Source) *Server {
	t.Helper()
	return newLimitedTestServer(t, source, nil, quietLogger())
}

func newLimitedTestServer(t *testing.T, source catalog.Source, redisClient *redis.Client, logger *logrus.Logger) *Server {
	t.Helper()
	cfg := testConfig()
	cfg.Security.RateLimitPerMinute = 300

	fixture, err := event.DefaultFixture()
	require.NoError(t, err)

	services := &routes.Services{
		MockResolver: catalog.NewResolver(event.NewMemoryRepository(fixture), resolverOptions()...),
		Catalog:      catalog.NewService(source, logger),
		Cart:         cart.NewService(cart.NewMemoryKV(), cfg, logger),
		Checkout:     checkout.NewService(checkout.NewMemoryHandoff(time.Minute), cfg, logger),
		PDF:          pdf.NewService(cfg),
		Sessions:     session.NewManager(cfg),
		Logger:       logger,
	}
	return NewServer(cfg, services, redisClient, logger)
}

func staticSource(t *testing.T) *catalog.Resolver {
	t.Helper()
	fixture, err := event.DefaultFixture()
	require.NoError(t, err)
	return catalog.NewInMemorySource(fixture, resolverOptions()...)
}

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error { return f(ctx) }

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, staticSource(t))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	s.AddHealthCheck("redis", healthFunc(func(context.Context) error {
		return errors.New("connection refused")
	}))

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis ping failed")

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func marshal(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// Live mode reaches the mock API over HTTP; static mode reads the same
// fixture in process. Both must answer every operation identically.
func TestCatalogModes_Parity(t *testing.T) {
	mock := httptest.NewServer(newTestServer(t, staticSource(t)).Handler())
	defer mock.Close()

	static := staticSource(t)
	live := catalog.NewRemoteSource(mock.URL, mock.Client())
	ctx := context.Background()

	type call func(catalog.Source) (interface{}, error)
	calls := map[string]call{
		"list": func(s catalog.Source) (interface{}, error) { return s.ListEvents(ctx) },
		"get":  func(s catalog.Source) (interface{}, error) { return s.GetEvent(ctx, "3") },
		"get missing": func(s catalog.Source) (interface{}, error) {
			return s.GetEvent(ctx, "999")
		},
		"category": func(s catalog.Source) (interface{}, error) {
			return s.EventsByCategory(ctx, event.CategoryConcert)
		},
		"accented category": func(s catalog.Source) (interface{}, error) {
			return s.EventsByCategory(ctx, event.CategoryExhibition)
		},
		"category with slash": func(s catalog.Source) (interface{}, error) {
			return s.EventsByCategory(ctx, "Arte/Cultura")
		},
		"search":       func(s catalog.Source) (interface{}, error) { return s.Search(ctx, "santiago") },
		"empty search": func(s catalog.Source) (interface{}, error) { return s.Search(ctx, "") },
		"categories":   func(s catalog.Source) (interface{}, error) { return s.Categories(ctx) },
		"stats":        func(s catalog.Source) (interface{}, error) { return s.Stats(ctx) },
		"details":      func(s catalog.Source) (interface{}, error) { return s.EventDetails(ctx, "1") },
		"details missing": func(s catalog.Source) (interface{}, error) {
			return s.EventDetails(ctx, "999")
		},
		"organizer": func(s catalog.Source) (interface{}, error) { return s.SearchByOrganizer(ctx, "tech") },
		"attendees": func(s catalog.Source) (interface{}, error) { return s.Attendees(ctx, "2") },
		"upcoming":  func(s catalog.Source) (interface{}, error) { return s.UpcomingEvents(ctx) },
		"invalid draft": func(s catalog.Source) (interface{}, error) {
			return s.CreateEvent(ctx, event.Draft{Location: "Santiago"})
		},
	}

	for name, fn := range calls {
		t.Run(name, func(t *testing.T) {
			want, err := fn(static)
			require.NoError(t, err)
			got, err := fn(live)
			require.NoError(t, err)
			assert.JSONEq(t, marshal(t, want), marshal(t, got))
		})
	}
}

// The limiter fails open when Redis is unreachable and logs each attempt,
// which shows which routes it guards without a live Redis.
func TestServer_RateLimitScope(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })

	logger := quietLogger()
	hook := logtest.NewLocal(logger)
	s := newLimitedTestServer(t, staticSource(t), client, logger)

	limited := func(path, remoteAddr string) bool {
		hook.Reset()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, path)

		for _, entry := range hook.AllEntries() {
			if entry.Message == "Rate limiter unavailable, allowing request" {
				return true
			}
		}
		return false
	}

	const (
		loopback = "127.0.0.1:40000"
		external = "203.0.113.7:40000"
	)

	// Live-mode catalog calls from the storefront itself
	assert.False(t, limited("/api/events", loopback))
	assert.False(t, limited("/api/events/1", loopback))

	assert.True(t, limited("/api/events", external))
	assert.True(t, limited("/store/events", loopback))
	assert.True(t, limited("/store/events", external))
	assert.True(t, limited("/health", external))
}

func TestServer_EscapedSlashInPathValue(t *testing.T) {
	s := newTestServer(t, staticSource(t))

	for _, path := range []string{
		"/api/events/category/Arte%2FCultura",
		"/store/categories/Arte%2FCultura/events",
	} {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)

		var body struct {
			Count int               `json:"count"`
			Data  []json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Zero(t, body.Count, path)
		assert.Empty(t, body.Data, path)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events/category/Exposici%C3%B3n", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestLiveMode_Storefront(t *testing.T) {
	mock := httptest.NewServer(newTestServer(t, staticSource(t)).Handler())
	defer mock.Close()

	storefront := newTestServer(t, catalog.NewRemoteSource(mock.URL, mock.Client()))

	w := httptest.NewRecorder()
	storefront.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/store/upcoming", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Taller de Fotograf")

	// An unreachable backend is a transport failure
	mock.Close()
	w = httptest.NewRecorder()
	storefront.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/store/events", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
