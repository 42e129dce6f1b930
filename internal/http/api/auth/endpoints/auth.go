package endpoints

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/db"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/http/api"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/http/api/auth/packets"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

// AuthPublicModule mounts public auth endpoints (/auth/signup, /auth/login)
func AuthPublicModule(jwtSecret string, store db.Store) api.Module {
	ctl := newAccountManager(jwtSecret, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/signup", ctl.userSignup)
		c.PUBLIC_POST("/auth/login", ctl.userLogin)
	})
}

// AuthSessionModule mounts private session/profile endpoints (JWT required)
func AuthSessionModule(jwtSecret string, store db.Store) api.Module {
	ctl := newAccountManager(jwtSecret, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/auth/current_profile", ctl.getCurrentProfile)
	})
}

type AccountManager struct {
	jwtSecret string
	store     db.Store
}

func newAccountManager(secret string, store db.Store) *AccountManager {
	return &AccountManager{jwtSecret: secret, store: store}
}

// POST /api/auth/signup
func (a *AccountManager) userSignup(ctx *gin.Context) (any, *api.APIError) {
	var request packets.SignupRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	role := model.RoleConsumer
	if request.Role != "" {
		role = model.Role(request.Role)
	}

	hashed, err := middleware.HashPassword(request.Password)
	if err != nil {
		log.Error().Err(err).Msg("could not hash password")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not hash password"}
	}

	created, err := a.store.CreateUser(ctx.Request.Context(), model.User{
		Email:          strings.ToLower(request.Email),
		HashedPassword: hashed,
		Name:           request.Name,
		Role:           role,
		Status:         model.StatusActive,
	})
	if errors.Is(err, db.ErrDuplicate) {
		log.Warn().Str("email", request.Email).Msg("signup email already registered")
		return nil, &api.APIError{Code: http.StatusConflict, Message: "email already registered"}
	}
	if err != nil {
		log.Error().Err(err).Str("email", request.Email).Msg("could not create user")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create user"}
	}

	token, err := middleware.GenerateJWT(created.ID, a.jwtSecret)
	if err != nil {
		log.Error().Err(err).Int("user_id", created.ID).Msg("could not generate token")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	return packets.TokenResponse{Token: token}, nil
}

// POST /api/auth/login
func (a *AccountManager) userLogin(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	var account *model.User
	found, err := a.store.GetUserByEmail(ctx.Request.Context(), strings.ToLower(request.Email))
	switch {
	case err == nil:
		account = &found
	case !errors.Is(err, db.ErrNotFound):
		log.Error().Err(err).Msg("failed to look up account")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "internal error"}
	}
	if !middleware.VerifyLogin(account, request.Password) {
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "invalid credentials"}
	}

	token, err := middleware.GenerateJWT(found.ID, a.jwtSecret)
	if err != nil {
		log.Error().Err(err).Int("user_id", found.ID).Msg("could not generate token")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	return packets.TokenResponse{Token: token}, nil
}

// GET /api/auth/current_profile
func (a *AccountManager) getCurrentProfile(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return packets.ProfileResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		BrandID:     user.BrandID,
		Permissions: user.Permissions,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   user.UpdatedAt.Format(time.RFC3339),
	}, nil
}
