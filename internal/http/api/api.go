package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/apperr"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

type APIError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Reason  string `json:"code,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// Controller is the gin group a Module mounts its endpoints on. The verb
// helpers require an authenticated user; the PUBLIC_ ones do not.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) GET(path string, h HandlerFuncWithAuth) {
	c.Group.GET(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) POST(path string, h HandlerFuncWithAuth) {
	c.Group.POST(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) PUT(path string, h HandlerFuncWithAuth) {
	c.Group.PUT(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) DELETE(path string, h HandlerFuncWithAuth) {
	c.Group.DELETE(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) PUBLIC_GET(path string, h HandlerFunc) {
	c.Group.GET(path, ResolveEndpoint(h))
}

func (c *Controller) PUBLIC_POST(path string, h HandlerFunc) {
	c.Group.POST(path, ResolveEndpoint(h))
}

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, apiErr := h(ctx, user)
		respond(ctx, result, apiErr)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		respond(ctx, result, apiErr)
	}
}

func respond(ctx *gin.Context, result any, apiErr *APIError) {
	if apiErr != nil {
		ctx.JSON(apiErr.Code, apiErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func BadRequest(message string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: message}
}

// FromError turns an engine error into a response by its kind. Errors that
// are not *apperr.Error are reported as internal errors.
func FromError(err error) *APIError {
	var e *apperr.Error
	if !errors.As(err, &e) {
		log.Error().Err(err).Msg("unclassified error reached the http layer")
		return &APIError{Code: http.StatusInternalServerError, Message: apperr.SystemError.Message, Reason: apperr.SystemError.Code}
	}

	code := http.StatusInternalServerError
	switch e.Kind {
	case apperr.KindNotFound:
		code = http.StatusNotFound
	case apperr.KindValidation:
		code = http.StatusBadRequest
	case apperr.KindConflict:
		code = http.StatusConflict
	case apperr.KindUnauthorized:
		code = http.StatusForbidden
	}

	msg := e.Message
	if e.Kind == apperr.KindSystem {
		msg = apperr.SystemError.Message
	}
	return &APIError{Code: code, Message: msg, Reason: e.Code}
}

// ParamID reads a positive integer path parameter.
func ParamID(ctx *gin.Context, name string) (int, *APIError) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, BadRequest("invalid " + name)
	}
	return id, nil
}
