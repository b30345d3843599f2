// Package integrationtest provides server helpers used in end-to-end API tests.
package integrationtest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"github.com/go-petr/flatbank/cmd/httpserver"
	"github.com/go-petr/flatbank/internal/accountrepo"
	"github.com/go-petr/flatbank/internal/accountservice"
	"github.com/go-petr/flatbank/pkg/cachepkg"
	"github.com/go-petr/flatbank/pkg/configpkg"
	"github.com/go-petr/flatbank/pkg/randompkg"
	"github.com/go-petr/flatbank/pkg/web"
)

// LoginAttemptsPerMinute is the login rate limit of test servers.
const LoginAttemptsPerMinute = 3

// TestServer bundles an API server with its backing store and cache.
type TestServer struct {
	*httpserver.Server
	Service *accountservice.Service
	Repo    *accountrepo.RepoFile
	Redis   *miniredis.Miniredis
}

// SetupServer returns an API server backed by a fresh accounts file and an
// in-memory redis.
func SetupServer(t *testing.T) *TestServer {
	t.Helper()

	mr := miniredis.RunT(t)

	config := configpkg.Config{
		AccountsFile:           filepath.Join(t.TempDir(), "accounts.txt"),
		TokenType:              "paseto",
		TokenSymmetricKey:      randompkg.String(32),
		AccessTokenDuration:    time.Minute,
		RedisURL:               "redis://" + mr.Addr(),
		LoginAttemptsPerMinute: LoginAttemptsPerMinute,
	}

	logger := zerolog.Nop()
	ctx := logger.WithContext(context.Background())

	repo := accountrepo.NewRepoFile(config.AccountsFile)

	service, err := accountservice.New(ctx, repo, randompkg.NewDigitGenerator())
	if err != nil {
		t.Fatalf("accountservice.New returned error: %v", err)
	}

	cache, err := cachepkg.NewRedisClient(ctx, config.RedisURL)
	if err != nil {
		t.Fatalf("cachepkg.NewRedisClient(%q) returned error: %v", config.RedisURL, err)
	}
	t.Cleanup(func() { cache.Close() })

	server, err := httpserver.New(service, cache, logger, config)
	if err != nil {
		t.Fatalf("httpserver.New returned error: %v", err)
	}

	return &TestServer{
		Server:  server,
		Service: service,
		Repo:    repo,
		Redis:   mr,
	}
}

// Do sends a JSON request to the server and decodes the response envelope
// with data decoded into the given value.
func (s *TestServer) Do(t *testing.T, method, path, token string, body, data any) (int, web.Response) {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}
	}

	req, err := http.NewRequest(method, path, &reqBody)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, req)

	res := web.Response{Data: data}
	if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	return recorder.Code, res
}

// ClearRateLimit resets the login attempt counters.
func (s *TestServer) ClearRateLimit(t *testing.T) {
	t.Helper()
	s.Redis.FlushAll()
}
