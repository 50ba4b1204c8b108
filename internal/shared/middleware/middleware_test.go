package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seatlock/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestParseHolder(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{
			name:  "access token",
			token: signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": "u-1", "type": "access", "exp": exp}),
			want:  "u-1",
		},
		{
			name:  "no type claim",
			token: signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": "u-2", "exp": exp}),
			want:  "u-2",
		},
		{
			name:    "refresh token",
			token:   signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": "u-1", "type": "refresh", "exp": exp}),
			wantErr: true,
		},
		{
			name:    "wrong secret",
			token:   signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"user_id": "u-1", "exp": exp}),
			wantErr: true,
		},
		{
			name:    "expired",
			token:   signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": "u-1", "exp": time.Now().Add(-time.Minute).Unix()}),
			wantErr: true,
		},
		{
			name:    "missing user_id",
			token:   signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"exp": exp}),
			wantErr: true,
		},
		{
			name:    "garbage",
			token:   "not.a.token",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHolder(tt.token, testSecret)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHolder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHolder() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	token := signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": "u-7", "exp": time.Now().Add(time.Hour).Unix()})

	engine := gin.New()
	whoami := func(c *gin.Context) { c.String(http.StatusOK, HolderID(c)) }
	engine.GET("/required", JWTAuthWithConfig(cfg), whoami)
	engine.GET("/optional", OptionalAuthWithConfig(cfg), whoami)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"required with token", "/required", "Bearer " + token, http.StatusOK, "u-7"},
		{"required without header", "/required", "", http.StatusUnauthorized, ""},
		{"required with bad scheme", "/required", "Token " + token, http.StatusUnauthorized, ""},
		{"optional with token", "/optional", "Bearer " + token, http.StatusOK, "u-7"},
		{"optional with bad token", "/optional", "Bearer nope", http.StatusOK, ""},
		{"optional without header", "/optional", "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && w.Body.String() != tt.wantBody {
				t.Errorf("holder = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}
