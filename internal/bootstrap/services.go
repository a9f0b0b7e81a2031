package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/adgate-io/adgate/config"
	"github.com/adgate-io/adgate/internal/adapters/ldap"
	"github.com/adgate-io/adgate/internal/adapters/samlbridge"
	"github.com/adgate-io/adgate/internal/data"
	"github.com/adgate-io/adgate/internal/domain/nettrust"
	"github.com/adgate-io/adgate/internal/ports"
	"github.com/adgate-io/adgate/internal/service"
)

// ServiceContainer holds the constructed service graph.
type ServiceContainer struct {
	Directory  *ldap.Client
	Tokens     *service.TokenService
	Auth       *service.AuthService
	Windows    *service.WindowsAuthService
	Trust      *nettrust.Checker
	SAML       *samlbridge.Bridge
	AuthEvents *data.AuthEventRepo
}

// ServiceDeps carries everything NewServices needs.
type ServiceDeps struct {
	Config *config.AppConfig
	// DB is optional; audit recording is skipped when nil.
	DB     *sql.DB
	Logger *slog.Logger
}

// NewServices wires adapters into services following the configuration.
func NewServices(deps *ServiceDeps) ServiceContainer {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	directory := ldap.NewClient(cfg.Directory, logger)
	tokens := service.NewTokenService(cfg.Token)

	var audit ports.AuditRecorder
	var authEvents *data.AuthEventRepo
	if deps.DB != nil {
		authEvents = data.NewAuthEventRepo(deps.DB, logger)
		audit = authEvents
	}

	auth := service.NewAuthService(service.AuthServiceOptions{
		Directory: directory,
		Tokens:    tokens,
		Audit:     audit,
		Config:    cfg.Token,
		Logger:    logger,
	})

	trust := nettrust.New(cfg.WindowsAuth.TrustedNetworks)
	var windows *service.WindowsAuthService
	if cfg.WindowsAuth.Enabled {
		windows = service.NewWindowsAuthService(service.WindowsAuthOptions{
			Auth:   auth,
			Trust:  trust,
			Config: cfg.WindowsAuth,
			Logger: logger,
		})
	}

	var saml *samlbridge.Bridge
	if cfg.SAML.Enabled {
		saml = samlbridge.NewBridge(cfg.SAML)
		logger.Info("saml bridge enabled", "entry_point", cfg.SAML.EntryPoint)
	}

	return ServiceContainer{
		Directory:  directory,
		Tokens:     tokens,
		Auth:       auth,
		Windows:    windows,
		Trust:      trust,
		SAML:       saml,
		AuthEvents: authEvents,
	}
}
