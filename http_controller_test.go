package auth_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auth "github.com/storewise/shop-auth"
)

type testServer struct {
	app    *fiber.App
	store  *MockCredentialStore
	tokens *auth.TokenServiceImpl
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := &MockCredentialStore{}
	cfg := testConfig()
	tokens := auth.NewTokenService(cfg, quietLogger{})
	wf := auth.NewWorkflows(store, tokens, cfg).WithLogger(quietLogger{})

	app := fiber.New()
	controller := auth.NewAuthController(wf, auth.WithControllerLogger(quietLogger{}))
	auth.RegisterAuthRoutes(app, controller, auth.Protected(tokens, quietLogger{}))

	return &testServer{app: app, store: store, tokens: tokens}
}

func (s *testServer) post(t *testing.T, path string, body map[string]any, headers map[string]string) (*http.Response, auth.Response) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := s.app.Test(req, -1)
	require.NoError(t, err)

	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var envelope auth.Response
	require.NoError(t, json.Unmarshal(payload, &envelope))

	return res, envelope
}

func TestController_Register(t *testing.T) {
	t.Run("issues a token on success", func(t *testing.T) {
		s := newTestServer(t)

		user := newUser("Alice", "alice@x.com", "password1")
		s.store.On("GetByEmail", mock.Anything, "alice@x.com").
			Return(nil, notFoundErr(map[string]any{"email": "alice@x.com"}))
		s.store.On("Create", mock.Anything, mock.Anything).Return(user, nil)

		res, envelope := s.post(t, "/register", map[string]any{
			"name":     "Alice",
			"email":    "alice@x.com",
			"password": "password1",
		}, nil)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.True(t, envelope.Success)
		require.NotEmpty(t, envelope.Token)

		subject, err := s.tokens.Validate(envelope.Token)
		assert.NoError(t, err)
		assert.Equal(t, user.ID.String(), subject)
	})

	t.Run("duplicate email fails with the envelope, not a status", func(t *testing.T) {
		s := newTestServer(t)

		s.store.On("GetByEmail", mock.Anything, "alice@x.com").
			Return(newUser("Alice", "alice@x.com", "password1"), nil)

		res, envelope := s.post(t, "/register", map[string]any{
			"name":     "Alice",
			"email":    "alice@x.com",
			"password": "password1",
		}, nil)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.False(t, envelope.Success)
		assert.Equal(t, "User already exists", envelope.Message)
		assert.Empty(t, envelope.Token)
	})

	t.Run("weak password", func(t *testing.T) {
		s := newTestServer(t)

		s.store.On("GetByEmail", mock.Anything, "alice@x.com").
			Return(nil, notFoundErr(map[string]any{"email": "alice@x.com"}))

		_, envelope := s.post(t, "/register", map[string]any{
			"name":     "Alice",
			"email":    "alice@x.com",
			"password": "short",
		}, nil)

		assert.False(t, envelope.Success)
		assert.Equal(t, "Please enter a strong password", envelope.Message)
	})
}

func TestController_Login(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		s := newTestServer(t)

		s.store.On("GetByEmail", mock.Anything, "alice@x.com").
			Return(newUser("Alice", "alice@x.com", "password1"), nil)

		res, envelope := s.post(t, "/login", map[string]any{
			"email":    "alice@x.com",
			"password": "wrongpass",
		}, nil)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.False(t, envelope.Success)
		assert.Equal(t, "Invalid Credentials", envelope.Message)
	})

	t.Run("unknown email", func(t *testing.T) {
		s := newTestServer(t)

		s.store.On("GetByEmail", mock.Anything, "ghost@x.com").
			Return(nil, notFoundErr(map[string]any{"email": "ghost@x.com"}))

		res, envelope := s.post(t, "/login", map[string]any{
			"email":    "ghost@x.com",
			"password": "password1",
		}, nil)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.False(t, envelope.Success)
		assert.Equal(t, "User doesn't exists", envelope.Message)
	})

	t.Run("valid credentials", func(t *testing.T) {
		s := newTestServer(t)

		user := newUser("Alice", "alice@x.com", "password1")
		s.store.On("GetByEmail", mock.Anything, "alice@x.com").Return(user, nil)

		_, envelope := s.post(t, "/login", map[string]any{
			"email":    "alice@x.com",
			"password": "password1",
		}, nil)

		assert.True(t, envelope.Success)

		subject, err := s.tokens.Validate(envelope.Token)
		assert.NoError(t, err)
		assert.Equal(t, user.ID.String(), subject)
	})
}

func TestController_AdminLogin(t *testing.T) {
	cfg := testConfig()

	t.Run("exact constants", func(t *testing.T) {
		s := newTestServer(t)

		_, envelope := s.post(t, "/admin", map[string]any{
			"email":    cfg.AdminEmail,
			"password": cfg.AdminPassword,
		}, nil)

		assert.True(t, envelope.Success)

		subject, err := s.tokens.Validate(envelope.Token)
		assert.NoError(t, err)
		assert.Equal(t, cfg.AdminEmail+cfg.AdminPassword, subject)
	})

	t.Run("any deviation fails", func(t *testing.T) {
		s := newTestServer(t)

		_, envelope := s.post(t, "/admin", map[string]any{
			"email":    cfg.AdminEmail,
			"password": "guess",
		}, nil)

		assert.False(t, envelope.Success)
		// the admin surface spells its failure with a lowercase c
		assert.Equal(t, "Invalid credentials", envelope.Message)
	})
}

func TestController_Profile(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		s := newTestServer(t)

		res, envelope := s.post(t, "/myprofile", map[string]any{}, nil)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.False(t, envelope.Success)
		assert.Equal(t, "Not Authorized Login Again", envelope.Message)
	})

	t.Run("valid token, record gone, signals 404", func(t *testing.T) {
		s := newTestServer(t)

		token, err := s.tokens.Issue("11111111-2222-4333-8444-555555555555")
		require.NoError(t, err)

		s.store.On("GetByUserID", mock.Anything, "11111111-2222-4333-8444-555555555555").
			Return(nil, notFoundErr(map[string]any{"id": "missing"}))

		res, envelope := s.post(t, "/myprofile", map[string]any{}, map[string]string{
			fiber.HeaderAuthorization: "Bearer " + token,
		})

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.False(t, envelope.Success)
		assert.Equal(t, "User not found", envelope.Message)
	})

	t.Run("valid token returns the sanitized profile", func(t *testing.T) {
		s := newTestServer(t)

		user := newUser("Alice", "alice@x.com", "password1")
		token, err := s.tokens.Issue(user.ID.String())
		require.NoError(t, err)

		s.store.On("GetByUserID", mock.Anything, user.ID.String()).Return(user, nil)

		res, envelope := s.post(t, "/myprofile", map[string]any{}, map[string]string{
			// legacy clients send the bare token header
			"token": token,
		})

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.True(t, envelope.Success)
		require.NotNil(t, envelope.Profile)
		assert.Equal(t, "Alice", envelope.Profile.Name)
		assert.Equal(t, "alice@x.com", envelope.Profile.Email)
	})
}

func TestController_PasswordRoutes(t *testing.T) {
	t.Run("reset with unknown email", func(t *testing.T) {
		s := newTestServer(t)

		s.store.On("GetByEmail", mock.Anything, "ghost@x.com").
			Return(nil, notFoundErr(map[string]any{"email": "ghost@x.com"}))

		res, envelope := s.post(t, "/resetpassword", map[string]any{
			"email":       "ghost@x.com",
			"newPassword": "newpass22",
		}, nil)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.False(t, envelope.Success)
		assert.Equal(t, "User not found", envelope.Message)
	})

	t.Run("reset acknowledges without issuing a token", func(t *testing.T) {
		s := newTestServer(t)

		user := newUser("Alice", "alice@x.com", "password1")
		s.store.On("GetByEmail", mock.Anything, "alice@x.com").Return(user, nil)
		s.store.On("UpdatePassword", mock.Anything, user.ID, mock.Anything).Return(nil)

		_, envelope := s.post(t, "/resetpassword", map[string]any{
			"email":       "alice@x.com",
			"newPassword": "newpass22",
		}, nil)

		assert.True(t, envelope.Success)
		assert.Equal(t, "Password updated successfully", envelope.Message)
		assert.Empty(t, envelope.Token)
	})

	t.Run("change requires the middleware to have resolved a user", func(t *testing.T) {
		s := newTestServer(t)

		_, envelope := s.post(t, "/changepassword", map[string]any{
			"oldPassword": "password1",
			"newPassword": "newpass22",
		}, nil)

		assert.False(t, envelope.Success)
		assert.Equal(t, "Not Authorized Login Again", envelope.Message)
	})

	t.Run("change rejects a wrong old password", func(t *testing.T) {
		s := newTestServer(t)

		user := newUser("Alice", "alice@x.com", "password1")
		token, err := s.tokens.Issue(user.ID.String())
		require.NoError(t, err)

		s.store.On("GetByUserID", mock.Anything, user.ID.String()).Return(user, nil)

		_, envelope := s.post(t, "/changepassword", map[string]any{
			"oldPassword": "not-it",
			"newPassword": "newpass22",
		}, map[string]string{
			fiber.HeaderAuthorization: "Bearer " + token,
		})

		assert.False(t, envelope.Success)
		assert.Equal(t, "Old password is incorrect", envelope.Message)
	})

	t.Run("change succeeds with the matching old password", func(t *testing.T) {
		s := newTestServer(t)

		user := newUser("Alice", "alice@x.com", "password1")
		token, err := s.tokens.Issue(user.ID.String())
		require.NoError(t, err)

		s.store.On("GetByUserID", mock.Anything, user.ID.String()).Return(user, nil)
		s.store.On("UpdatePassword", mock.Anything, user.ID, mock.Anything).Return(nil)

		_, envelope := s.post(t, "/changepassword", map[string]any{
			"oldPassword": "password1",
			"newPassword": "newpass22",
		}, map[string]string{
			fiber.HeaderAuthorization: "Bearer " + token,
		})

		assert.True(t, envelope.Success)
		assert.Equal(t, "Password updated successfully", envelope.Message)
	})
}
