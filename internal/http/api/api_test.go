package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/apperr"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.BookingNotFound, http.StatusNotFound, "BOOKING_NOT_FOUND"},
		{apperr.InvalidTimeBlocks, http.StatusBadRequest, "INVALID_TIME_BLOCKS"},
		{apperr.FieldNotAvailable, http.StatusConflict, "FIELD_NOT_AVAILABLE"},
		{apperr.Unauthorized.With("nope"), http.StatusForbidden, "UNAUTHORIZED"},
		{apperr.System(errors.New("connection refused")), http.StatusInternalServerError, "SYSTEM_ERROR"},
		{errors.New("raw"), http.StatusInternalServerError, "SYSTEM_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			got := FromError(tc.err)
			assert.Equal(t, tc.status, got.Code)
			assert.Equal(t, tc.code, got.Reason)
		})
	}

	// infrastructure details stay out of the response
	assert.Equal(t, "system error", FromError(apperr.System(errors.New("dial tcp 10.0.0.1"))).Message)
	assert.Equal(t, "nope", FromError(apperr.Unauthorized.With("nope")).Message)
}

func TestResolveEndpointWithAuthRequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	called := false
	r.GET("/x", ResolveEndpointWithAuth(func(ctx *gin.Context, user *model.User) (any, *APIError) {
		called = true
		return nil, nil
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestResolveEndpointWritesError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", ResolveEndpoint(func(ctx *gin.Context) (any, *APIError) {
		return nil, FromError(apperr.NotPending)
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"booking is not in pending status","code":"NOT_PENDING"}`, w.Body.String())
}

func TestMountGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ping := ModuleFunc(func(c *Controller) {
		c.PUBLIC_GET("/ping", func(ctx *gin.Context) (any, *APIError) {
			return gin.H{"pong": true}, nil
		})
	})

	r := gin.New()
	err := MountGroup(r, GroupConfig{Prefix: "/api", Auth: true, SecretKey: "secret"}, ping)
	assert.ErrorIs(t, err, ErrAuthConfig)

	require.NoError(t, MountGroup(r, GroupConfig{Prefix: "/api"}, ping))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pong":true}`, w.Body.String())
}
