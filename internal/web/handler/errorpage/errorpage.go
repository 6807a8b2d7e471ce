// Package errorpage renders the error page Hydra redirects to when an OAuth2
// flow fails.
package errorpage

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/config"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/directory"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/hydra"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/web/handler"
)

const (
	// Path is the path to the error page.
	Path = "/error"
)

// Service is the error page handler service.
type Service struct {
	cfg *config.Config
}

// Handler is the error page handler.
var Handler = Service{}

var _ handler.Service = (*Service)(nil)

// Init initializes the error page handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, _ *hydra.Client, _ *directory.Provider) error {
	if router == nil || cfg == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.cfg = cfg

	router.Get(Path, s.Get)

	return nil
}

// Get renders the OAuth2 error handed over by Hydra via query parameters.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render("error", fiber.Map{
		"title":       s.cfg.Title,
		"name":        c.Query("error"),
		"description": c.Query("error_description"),
		"hint":        c.Query("error_hint"),
	})
}
