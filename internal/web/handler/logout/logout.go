// Package logout handles the OAuth2 logout challenge, which is accepted
// unconditionally.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/config"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/directory"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/hydra"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/web/handler"
)

const (
	// Path is the path to the logout endpoint.
	Path = "/logout"

	// PostLogoutPath is the page shown after a completed logout.
	PostLogoutPath = "/post-logout"

	// ChallengeParam is the query parameter carrying the logout challenge.
	ChallengeParam = "logout_challenge"
)

// Service is the logout handler service.
type Service struct {
	cfg   *config.Config
	hydra *hydra.Client
}

// Handler is the logout handler.
var Handler = Service{}

var _ handler.Service = (*Service)(nil)

// Init initializes the logout handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, hy *hydra.Client, _ *directory.Provider) error {
	if router == nil || cfg == nil || hy == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.cfg = cfg
	s.hydra = hy

	router.Get(Path, s.Get)
	router.Get(PostLogoutPath, s.PostLogout)

	return nil
}

// Get accepts the logout request unconditionally and redirects.
func (s *Service) Get(c *fiber.Ctx) error {
	challenge := c.Query(ChallengeParam)
	if challenge == "" {
		return fiber.ErrNotFound
	}

	redirectTo, err := s.hydra.AcceptLogoutRequest(c.UserContext(), challenge)
	if err != nil {
		log.Warn().Err(err).Msg("unable to accept logout request")

		return fiber.ErrInternalServerError
	}

	log.Info().Str("challenge", challenge).Msg("accepted logout request")

	return c.Redirect(redirectTo)
}

// PostLogout renders the page shown once the session has ended.
func (s *Service) PostLogout(c *fiber.Ctx) error {
	return c.Render("post-logout", fiber.Map{
		"title": s.cfg.Title,
	})
}
