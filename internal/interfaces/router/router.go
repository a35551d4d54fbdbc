package router

import (
	"net/http"

	authsvc "clubhub-backend/internal/application/auth"
	dirsvc "clubhub-backend/internal/application/directory"
	"clubhub-backend/internal/config"
	"clubhub-backend/internal/infrastructure/database"
	"clubhub-backend/internal/infrastructure/stores"
	authhandler "clubhub-backend/internal/interfaces/handlers/auth"
	dirhandler "clubhub-backend/internal/interfaces/handlers/directory"
	healthhandler "clubhub-backend/internal/interfaces/handlers/health"
	transferhandler "clubhub-backend/internal/interfaces/handlers/transfers"
	"clubhub-backend/internal/middleware"
	"clubhub-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp wires middleware, stores and handlers. API routes are only mounted
// when a database URL is configured; health routes are always present.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	sessionCfg := middleware.SessionConfig{
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
		CookieDomain:      cfg.CookieDomain,
		Secret:            cfg.SessionSecret,
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowLocalhost: !cfg.IsProduction(),
	}))
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))

	hh := &healthhandler.Handlers{Rdb: rdb, HealthAdminKey: cfg.HealthAdminKey}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	if cfg.DatabaseURL == "" {
		log.Warn().Msg("no database URL configured; API routes disabled")
		return app, nil, rdb, nil
	}
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	transferStore := &stores.GormTransferStore{DB: db}
	hh.DB = &gormDBPinger{db: db}
	hh.Transfers = transferStore

	ah := &authhandler.Handlers{
		UserFinder: &authsvc.GormUserFinder{DB: db},
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	// Transfers
	engine := stores.NewGormService(db)
	engine.StoreTimeout = cfg.StoreTimeout
	th := &transferhandler.Handlers{Service: engine}
	tg := app.Group("/api/v1/transfers", middleware.RequireAuth())
	tg.Post("/submit-transfer", th.SubmitTransfer)
	tg.Post("/approve-transfer", th.ApproveTransfer)
	tg.Post("/purchase-transfer", th.PurchaseTransfer)
	tg.Post("/cancel-transfer", th.CancelTransfer)
	tg.Post("/reconcile-transfer", th.ReconcileTransfer)
	tg.Get("/market", th.Market)
	tg.Get("/club-transfers", th.ClubTransfers)
	tg.Get("/player-transfers/:player_id", th.PlayerTransfers)
	tg.Get("/all-transfers", th.AllTransfers)
	tg.Get("/get-transfer/:transfer_id", th.GetTransfer)
	tg.Get("/history/:transfer_id", th.History)

	// Clubs, players and accounts
	dh := &dirhandler.Handlers{
		Service: &dirsvc.Service{Clubs: &stores.GormClubStore{DB: db}, Players: &stores.GormPlayerStore{DB: db}},
		DB:      db,
		Rdb:     rdb,
	}
	cg := app.Group("/api/v1/clubs", middleware.RequireAuth())
	cg.Post("/create-club", middleware.AuthorizePermission(constants.ManageClubs), dh.CreateClub)
	cg.Get("/get-all-clubs", middleware.AuthorizePermission(constants.ViewDirectory), dh.ListClubs)
	cg.Get("/get-club/:club_id", middleware.AuthorizePermission(constants.ViewDirectory), dh.GetClub)

	pg := app.Group("/api/v1/players", middleware.RequireAuth())
	pg.Post("/create-player", middleware.AuthorizePermission(constants.ManagePlayers), dh.CreatePlayer)
	pg.Get("/get-all-players", middleware.AuthorizePermission(constants.ViewDirectory), dh.ListPlayers)
	pg.Get("/get-player/:player_id", middleware.AuthorizePermission(constants.ViewDirectory), dh.GetPlayer)

	ug := app.Group("/api/v1/users", middleware.RequireAuth())
	ug.Post("/create-user", middleware.AuthorizePermission(constants.ManageUsers), dh.CreateUser)
	ug.Patch("/update-role", middleware.AuthorizePermission(constants.ManageUsers), dh.UpdateRole)
	ug.Delete("/remove-user/:user_id", middleware.AuthorizePermission(constants.ManageUsers), dh.RemoveUser)

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
