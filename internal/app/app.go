package app

import (
	"net/http"

	"family-ledger-go/internal/config"
	"family-ledger-go/internal/db"
	expensesdomain "family-ledger-go/internal/domain/expenses"
	familydomain "family-ledger-go/internal/domain/family"
	userdomain "family-ledger-go/internal/domain/user"
	"family-ledger-go/internal/repository/inmemory"
	expensesrepo "family-ledger-go/internal/repository/postgres/expenses"
	familyrepo "family-ledger-go/internal/repository/postgres/family"
	userrepo "family-ledger-go/internal/repository/postgres/user"
	"family-ledger-go/internal/session"
	"family-ledger-go/internal/transport/httpserver"
	"family-ledger-go/internal/transport/httpserver/handler"
	"family-ledger-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: running migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	families := familydomain.NewService(familyrepo.NewPostgres(dbConn))
	expenses := expensesdomain.NewService(expensesrepo.NewPostgres(dbConn))
	users := userdomain.NewService(userrepo.NewPostgres(dbConn))

	prefs := inmemory.NewInMemoryPreferences()
	sessions := session.NewManager(families, prefs, cfg.Session.MembershipLoadTimeout, log)

	log.Info("app: initializing router")
	handlers := handler.New(sessions, expenses, log)
	router := httpserver.NewRouter(cfg, handlers, users, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
