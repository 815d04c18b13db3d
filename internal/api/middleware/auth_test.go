package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasklist-api/internal/api/shared"
	"github.com/phrazzld/tasklist-api/internal/mocks"
	"github.com/phrazzld/tasklist-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveAuthenticated runs one request through Authenticate and reports the
// user ID the downstream handler saw.
func serveAuthenticated(t *testing.T, svc auth.JWTService, header string) (*httptest.ResponseRecorder, int64) {
	t.Helper()

	var seen int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserID(r)
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	NewAuthMiddleware(svc).Authenticate(next).ServeHTTP(rr, req)
	return rr, seen
}

func TestAuthenticate_Admits(t *testing.T) {
	t.Parallel()

	for _, header := range []string{"Bearer good", "bearer good", "  BEARER good  "} {
		svc := &mocks.MockJWTService{Claims: &auth.Claims{UserID: 42}}
		rr, userID := serveAuthenticated(t, svc, header)

		assert.Equal(t, http.StatusNoContent, rr.Code, header)
		assert.Equal(t, int64(42), userID, header)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		header    string
		verifyErr error
	}{
		"no header":        {},
		"no scheme":        {header: "just-a-token"},
		"basic auth":       {header: "Basic dXNlcjpwYXNz"},
		"blank token":      {header: "Bearer   "},
		"expired":          {header: "Bearer old", verifyErr: auth.ErrExpiredToken},
		"bad signature":    {header: "Bearer forged", verifyErr: auth.ErrInvalidToken},
		"issued in future": {header: "Bearer early", verifyErr: auth.ErrTokenNotYetValid},
		"verifier says so": {header: "Bearer x", verifyErr: auth.ErrMissingToken},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			svc := &mocks.MockJWTService{ValidateErr: tc.verifyErr, Claims: &auth.Claims{UserID: 1}}
			rr, userID := serveAuthenticated(t, svc, tc.header)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Zero(t, userID)
			assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))

			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, credentialsMessage, body.Error)
		})
	}
}

func TestAuthenticate_VerifierFailureIsServerError(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockJWTService{ValidateErr: errors.New("key store offline")}
	rr, userID := serveAuthenticated(t, svc, "Bearer token")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Zero(t, userID)
	assert.Empty(t, rr.Header().Get("WWW-Authenticate"))
}

func TestAuthenticate_TrimsToken(t *testing.T) {
	t.Parallel()

	var got string
	svc := &mocks.MockJWTService{
		VerifyTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			got = token
			return &auth.Claims{UserID: 1}, nil
		},
	}
	rr, _ := serveAuthenticated(t, svc, "Bearer  abc.def.ghi ")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "abc.def.ghi", got)
}

func TestGetUserID_Missing(t *testing.T) {
	t.Parallel()

	_, ok := GetUserID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}
