package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pulse-backend/infrastructure/config"
	"pulse-backend/infrastructure/di"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type sessionPayload struct {
	User struct {
		ID     string `json:"id"`
		Handle string `json:"handle"`
	} `json:"user"`
	Token string `json:"token"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerAddress:  ":0",
		Environment:    "test",
		StorageBackend: config.BackendFile,
		DataDir:        t.TempDir(),
		JWTIssuer:      "pulse-test",
		JWTSecret:      "router-test-secret",
		LogLevel:       "error",
	}
	require.NoError(t, cfg.Validate())

	container, err := di.InitializeContainer(context.Background(), cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(container).Setup())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, apiEnvelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func registerUser(t *testing.T, srv *httptest.Server, name, handle string) sessionPayload {
	t.Helper()

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]string{
		"name":     name,
		"handle":   handle,
		"email":    fmt.Sprintf("%s@example.com", handle),
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session sessionPayload
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.Token)
	return session
}

func TestRouter_HealthAndAuthGate(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Feed requires a session
	resp, err = http.Get(srv.URL + "/api/v1/feed")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_RegisterLoginFlow(t *testing.T) {
	srv := newTestServer(t)

	session := registerUser(t, srv, "Alice", "alice")
	assert.Equal(t, "alice", session.User.Handle)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"identifier": "alice@example.com",
		"password":   "correct-horse",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"identifier": "alice@example.com",
		"password":   "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestRouter_PostFollowFeedNotifications(t *testing.T) {
	srv := newTestServer(t)

	alice := registerUser(t, srv, "Alice", "alice")
	bob := registerUser(t, srv, "Bob", "bob")

	// Bob follows Alice
	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/follows", bob.Token, map[string]string{
		"userId": alice.User.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var toggle struct {
		Following bool `json:"following"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &toggle))
	assert.True(t, toggle.Following)

	// Alice posts
	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/posts", alice.Token, map[string]string{
		"content": "hello from alice",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post struct {
		ID       string `json:"id"`
		AuthorID string `json:"authorId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &post))
	assert.Equal(t, alice.User.ID, post.AuthorID)

	// The post shows up in Bob's feed
	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/feed", bob.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var feed struct {
		Posts []struct {
			ID string `json:"id"`
		} `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, post.ID, feed.Posts[0].ID)

	// Bob likes and comments
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/posts/"+post.ID+"/likes", bob.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/posts/"+post.ID+"/comments", bob.Token, map[string]string{
		"content": "nice post",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Alice sees follow, like, and comment notifications
	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/notifications", alice.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var inbox struct {
		Notifications []struct {
			Type string `json:"type"`
			Read bool   `json:"read"`
		} `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &inbox))
	require.Len(t, inbox.Notifications, 3)
	for _, n := range inbox.Notifications {
		assert.False(t, n.Read)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/notifications/read", alice.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/notifications", alice.Token, nil)
	require.NoError(t, json.Unmarshal(env.Data, &inbox))
	for _, n := range inbox.Notifications {
		assert.True(t, n.Read)
	}
}

func TestRouter_MissingPostIs404(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "Alice", "alice")

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/posts/p999/likes", alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestRouter_ProfileRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "Alice", "alice")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/posts", alice.Token, map[string]string{
		"content": "profile post",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	bob := registerUser(t, srv, "Bob", "bob")
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/follows", bob.Token, map[string]string{
		"userId": alice.User.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/api/v1/profile/"+alice.User.ID, bob.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile struct {
		User struct {
			Name string `json:"name"`
		} `json:"user"`
		Posts []struct {
			Content string `json:"content"`
		} `json:"posts"`
		Followers []struct {
			ID string `json:"id"`
		} `json:"followers"`
		IsFollowing bool `json:"isFollowing"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Alice", profile.User.Name)
	require.Len(t, profile.Posts, 1)
	require.Len(t, profile.Followers, 1)
	assert.Equal(t, bob.User.ID, profile.Followers[0].ID)
	assert.True(t, profile.IsFollowing)

	resp, env = doJSON(t, http.MethodPut, srv.URL+"/api/v1/profile", alice.Token, map[string]string{
		"name": "Alice A.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Alice A.", updated.Name)
}
