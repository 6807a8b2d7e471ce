package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/config"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/directory"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/hydra"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	hydraClient, err := hydra.New(cfg.Hydra.AdminURL)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to create hydra admin client")
	}

	dir, err := directory.New(&directory.Config{
		URL:           cfg.Directory.URL,
		UseTLS:        cfg.Directory.UseTLS,
		SkipVerify:    cfg.Directory.SkipVerify,
		BindDN:        cfg.Directory.BindDN,
		BindPassword:  cfg.Directory.BindPassword,
		UserBaseDN:    cfg.Directory.UserBaseDN,
		UserFilter:    cfg.Directory.UserFilter,
		GroupBaseDN:   cfg.Directory.GroupBaseDN,
		GroupFilter:   cfg.Directory.GroupFilter,
		GroupNameAttr: cfg.Directory.GroupNameAttr,
		UniqueIDAttr:  cfg.Directory.UniqueIDAttr,
		SubjectFilter: cfg.Directory.SubjectFilter,
		StrictMatch:   cfg.Directory.StrictMatch,
		Timeout:       cfg.Directory.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("unable to create directory provider")
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, hydraClient, dir),
	}
}
