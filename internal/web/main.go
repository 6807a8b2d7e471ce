package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/config"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/directory"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/hydra"
	fiberlogger "github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/logger/adapter/fiber"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/web/handler/consent"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/web/handler/errorpage"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/web/handler/login"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/web/handler/logout"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		var err error

		if s.cfg.Webserver.TLSCertFile != "" {
			err = s.App.ListenTLS(addr, s.cfg.Webserver.TLSCertFile, s.cfg.Webserver.TLSKeyFile)
		} else {
			err = s.App.Listen(addr)
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the bridge.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so the readiness probe returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, hydraClient *hydra.Client, dir *directory.Provider) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if hydraClient == nil {
		panic("hydra client cannot be nil")
	}

	if dir == nil {
		panic("directory provider cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
			ErrorHandler:   errorHandler(cfg),
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: "/health/live",
	}))

	// init web service
	service := &Service{
		cfg: cfg,
		App: app,
	}

	service.alive.Store(true)

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Get("/health/ready", func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendStatus(fiber.StatusOK)
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// the challenge endpoints live under the configurable base path, so
	// several bridges can share one ingress host
	router := app.Group(cfg.Webserver.BasePath)

	// serve embedded static files
	router.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
			},
		),
	)

	// init handlers (they register their own routes)
	if err := login.Handler.Init(router, cfg, hydraClient, dir); err != nil {
		log.Fatal().Err(err).Msg("unable to init login handler")
	}

	if err := consent.Handler.Init(router, cfg, hydraClient, dir); err != nil {
		log.Fatal().Err(err).Msg("unable to init consent handler")
	}

	if err := logout.Handler.Init(router, cfg, hydraClient, nil); err != nil {
		log.Fatal().Err(err).Msg("unable to init logout handler")
	}

	if err := errorpage.Handler.Init(router, cfg, nil, nil); err != nil {
		log.Fatal().Err(err).Msg("unable to init error page handler")
	}

	return service
}

// errorHandler renders the embedded 404/500 pages instead of fiber's plain
// text defaults.
func errorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		c.Status(code)

		template := "500"
		if code == fiber.StatusNotFound {
			template = "404"
		}

		if renderErr := c.Render(template, fiber.Map{"title": cfg.Title}); renderErr != nil {
			return c.SendString(http.StatusText(code))
		}

		return nil
	}
}
