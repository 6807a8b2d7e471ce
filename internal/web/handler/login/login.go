// Package login handles the OAuth2 login challenge: it renders the credential
// form, authenticates the submitted login against the directory and accepts
// or re-prompts accordingly.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/claims"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/config"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/directory"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/hydra"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/uniuri"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/web/handler"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// ChallengeParam is the query parameter carrying the login challenge.
	ChallengeParam = "login_challenge"

	// stateCookie carries the form state token between GET and POST.
	stateCookie = "login_state"
)

// Service is the login handler service.
type Service struct {
	cfg   *config.Config
	hydra *hydra.Client
	dir   *directory.Provider
}

// Handler is the login handler.
var Handler = Service{}

var _ handler.Service = (*Service)(nil)

// Init initializes the login handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, hy *hydra.Client, dir *directory.Provider) error {
	if router == nil || cfg == nil || hy == nil || dir == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.cfg = cfg
	s.hydra = hy
	s.dir = dir

	router.Get(Path, s.Get)
	router.Post(Path, s.Post)

	return nil
}

// Get handles the login page. When Hydra reports the session as already
// authenticated, the challenge is re-accepted with the established subject
// without prompting for credentials.
func (s *Service) Get(c *fiber.Ctx) error {
	challenge := c.Query(ChallengeParam)
	if challenge == "" {
		return fiber.ErrNotFound
	}

	request, err := s.hydra.GetLoginRequest(c.UserContext(), challenge)
	if err != nil {
		log.Warn().Err(err).Msg("unable to get login request details")

		return fiber.ErrInternalServerError
	}

	if request.Skip {
		redirectTo, errAccept := s.hydra.AcceptLoginRequest(
			c.UserContext(), challenge, request.Subject, request.Context, false, 0,
		)
		if errAccept != nil {
			log.Warn().Err(errAccept).Msg("unable to accept login request")

			return fiber.ErrInternalServerError
		}

		log.Info().Str("subject", request.Subject).Msg("skipped login for already authenticated session")

		return c.Redirect(redirectTo)
	}

	return s.renderForm(c, "")
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	challenge := c.Query(ChallengeParam)
	if challenge == "" {
		return fiber.ErrNotFound
	}

	userLogin := c.FormValue("login")
	password := c.FormValue("password")
	remember := c.FormValue("remember") != ""

	if state := c.FormValue("state"); state == "" || state != c.Cookies(stateCookie) {
		return s.renderForm(c, "The form has expired, please try again.")
	}

	// Request every mapped attribute plus the operational attributes, so the
	// unique-ID attribute comes back as well.
	searchAttrs := claims.SearchAttributes(s.cfg.OAuth.AttrsMap, "+", s.dir.UniqueIDAttr())

	record, err := s.dir.FindUser(userLogin, searchAttrs)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrUserNotFound):
			log.Info().Str("login", userLogin).Msg("login attempt for unknown user")
		case errors.Is(err, directory.ErrAmbiguousUser):
			log.Warn().Str("login", userLogin).Msg("login matches multiple directory entries")
		default:
			log.Warn().Err(err).Msg("directory lookup failed")
			loginAttempts.WithLabelValues(outcomeError).Inc()

			return fiber.ErrInternalServerError
		}

		// Present unknown users exactly like wrong passwords.
		loginAttempts.WithLabelValues(outcomeInvalid).Inc()

		return s.renderForm(c, handler.GenericLoginError)
	}

	valid, err := s.dir.ValidateCredentials(record.DN, password)
	if err != nil {
		log.Warn().Err(err).Msg("directory credential check failed")
		loginAttempts.WithLabelValues(outcomeError).Inc()

		return fiber.ErrInternalServerError
	}

	if !valid {
		log.Info().Str("login", userLogin).Msg("invalid login or password")
		loginAttempts.WithLabelValues(outcomeInvalid).Inc()

		return s.renderForm(c, handler.GenericLoginError)
	}

	subject := record.Subject(s.dir.UniqueIDAttr(), userLogin)
	loginContext := map[string]any{"attrs": record}

	redirectTo, err := s.hydra.AcceptLoginRequest(
		c.UserContext(), challenge, subject, loginContext, remember, s.cfg.OAuth.LoginRememberFor,
	)
	if err != nil {
		log.Warn().Err(err).Msg("unable to accept login request")
		loginAttempts.WithLabelValues(outcomeError).Inc()

		return fiber.ErrInternalServerError
	}

	log.Info().Str("challenge", challenge).Str("login", userLogin).Msg("accepted login request")
	loginAttempts.WithLabelValues(outcomeAccepted).Inc()

	return c.Redirect(redirectTo)
}

// renderForm renders the credential form with a fresh state token.
func (s *Service) renderForm(c *fiber.Ctx, formError string) error {
	state := uniuri.New()

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	data := fiber.Map{
		"title": s.cfg.Title,
		"state": state,
	}

	if formError != "" {
		data["error"] = formError
	}

	return c.Render("login", data)
}
