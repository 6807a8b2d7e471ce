// Package consent handles the OAuth2 consent challenge: it recovers the
// user's directory attributes, maps them onto scope-gated claims and accepts
// the consent request.
package consent

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/claims"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/config"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/directory"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/hydra"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/web/handler"
)

const (
	// Path is the path to the consent endpoint.
	Path = "/consent"

	// ChallengeParam is the query parameter carrying the consent challenge.
	ChallengeParam = "consent_challenge"
)

// Service is the consent handler service.
type Service struct {
	cfg   *config.Config
	hydra *hydra.Client
	dir   *directory.Provider
}

// Handler is the consent handler.
var Handler = Service{}

var _ handler.Service = (*Service)(nil)

// Init initializes the consent handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, hy *hydra.Client, dir *directory.Provider) error {
	if router == nil || cfg == nil || hy == nil || dir == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.cfg = cfg
	s.hydra = hy
	s.dir = dir

	router.Get(Path, s.Get)

	return nil
}

// Get handles the consent decision. Consent is granted without prompting:
// which claims are released is decided by the mapping tables and the scopes
// the client requested, and the decision is remembered indefinitely.
func (s *Service) Get(c *fiber.Ctx) error {
	challenge := c.Query(ChallengeParam)
	if challenge == "" {
		return fiber.ErrNotFound
	}

	request, err := s.hydra.GetConsentRequest(c.UserContext(), challenge)
	if err != nil {
		log.Warn().Err(err).Msg("unable to get consent request details")

		return fiber.ErrInternalServerError
	}

	record, err := s.recoverUserRecord(request)
	if err != nil {
		log.Warn().Err(err).Str("subject", request.Subject).Msg("unable to recover user attributes")

		return fiber.ErrInternalServerError
	}

	claimSet := claims.Map(record, s.cfg.OAuth.AttrsMap, s.cfg.OAuth.ClaimsMap, request.RequestedScope)

	redirectTo, err := s.hydra.AcceptConsentRequest(
		c.UserContext(),
		challenge,
		request.RequestedAccessTokenAudience,
		request.RequestedScope,
		true,
		0, // remember the consent decision indefinitely
		claimSet,
	)
	if err != nil {
		log.Warn().Err(err).Msg("unable to accept consent request")

		return fiber.ErrInternalServerError
	}

	log.Info().Str("challenge", challenge).Str("subject", request.Subject).Msg("accepted consent request")

	return c.Redirect(redirectTo)
}

// recoverUserRecord restores the user's attributes for this consent decision:
// preferably from the context stored when the login was accepted, otherwise
// by a fresh directory lookup keyed by the established subject.
func (s *Service) recoverUserRecord(request *hydra.ConsentRequest) (*directory.UserRecord, error) {
	if attrs, ok := request.Context["attrs"]; ok {
		record, err := decodeUserRecord(attrs)
		if err == nil {
			return record, nil
		}

		log.Warn().Err(err).Msg("malformed attrs in consent request context, falling back to directory lookup")
	}

	searchAttrs := claims.SearchAttributes(s.cfg.OAuth.AttrsMap, "+", s.dir.UniqueIDAttr())

	return s.dir.FindUserBySubject(request.Subject, searchAttrs)
}

// decodeUserRecord converts the JSON object stored in the consent context
// back into a UserRecord.
func decodeUserRecord(attrs any) (*directory.UserRecord, error) {
	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode context attrs: %w", err)
	}

	var record directory.UserRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode context attrs: %w", err)
	}

	if record.Attributes == nil {
		record.Attributes = map[string]string{}
	}

	if record.Groups == nil {
		record.Groups = []string{}
	}

	return &record, nil
}
