package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/config"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/directory"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/hydra"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, cfg *config.Config, hy *hydra.Client, dir *directory.Provider) error
}
