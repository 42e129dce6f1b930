package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/http/middleware"
)

// Module attaches a feature's endpoints to a Controller.
type Module interface {
	Mount(c *Controller)
}

type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

// GroupConfig describes one route group. Auth groups verify the bearer token
// and load the account through Users before any module handler runs.
type GroupConfig struct {
	Prefix     string
	Auth       bool
	SecretKey  string
	Users      middleware.UserFinder
	Middleware []gin.HandlerFunc // run before auth
}

var ErrAuthConfig = errors.New("api: auth group needs a secret key and a user finder")

// MountGroup mounts modules under cfg.Prefix on parent.
func MountGroup(parent gin.IRouter, cfg GroupConfig, modules ...Module) error {
	if cfg.Auth && (cfg.SecretKey == "" || cfg.Users == nil) {
		return ErrAuthConfig
	}

	handlers := append([]gin.HandlerFunc{}, cfg.Middleware...)
	if cfg.Auth {
		handlers = append(handlers, middleware.JWTMiddleware(cfg.SecretKey, cfg.Users))
	}
	controller := &Controller{Group: parent.Group(cfg.Prefix, handlers...)}
	for _, m := range modules {
		m.Mount(controller)
	}

	log.Debug().Str("prefix", cfg.Prefix).Bool("auth", cfg.Auth).Int("modules", len(modules)).Msg("mounted api group")
	return nil
}
