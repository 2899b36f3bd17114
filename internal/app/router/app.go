package router

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/GintGld/showreel/internal/service/auth"
	"github.com/GintGld/showreel/internal/service/catalog"
	"github.com/GintGld/showreel/internal/service/editor"
	jwtSrv "github.com/GintGld/showreel/internal/service/jwt"
	"github.com/GintGld/showreel/internal/service/realtime"
	"github.com/GintGld/showreel/internal/service/showcase"
	"github.com/GintGld/showreel/internal/storage/sqlite"

	adminCtr "github.com/GintGld/showreel/internal/controller/admin"
	authCtr "github.com/GintGld/showreel/internal/controller/auth"
	eventsCtr "github.com/GintGld/showreel/internal/controller/events"
	jwtCtr "github.com/GintGld/showreel/internal/controller/jwt"
	publicCtr "github.com/GintGld/showreel/internal/controller/public"
	showcaseCtr "github.com/GintGld/showreel/internal/controller/showcase"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	log     *slog.Logger
	address string
	app     *fiber.App
}

// New returns configured router.App
func New(
	log *slog.Logger,
	storage *sqlite.Storage,
	hub *realtime.Hub,
	catalog *catalog.Catalog,
	showcase *showcase.Showcase,
	address string,
	timeout time.Duration,
	idleTimeout time.Duration,
	heartbeat time.Duration,
	tokenTTL time.Duration,
	secret []byte,
	adminPass []byte,
) *App {
	// Create sevices
	jwt := jwtSrv.New(secret)

	adminPassHash, err := bcrypt.GenerateFromPassword(adminPass, bcrypt.DefaultCost)
	if err != nil {
		panic("invalid admin password")
	}
	authSrv := auth.New(
		log,
		jwt,
		adminPassHash,
		tokenTTL,
	)

	editorSrv := editor.New(
		log,
		storage,
		storage,
		storage,
		storage,
		hub,
	)

	// Create controller helper
	jwtC := jwtCtr.New(secret, authSrv)

	app := fiber.New(fiber.Config{
		IdleTimeout: idleTimeout,
	})

	// Mount controllers to an app
	app.Mount("/", authCtr.New(timeout, authSrv, jwtC))
	app.Mount("/", publicCtr.New(catalog))
	app.Mount("/", showcaseCtr.New(showcase))
	app.Mount("/events", eventsCtr.New(hub, heartbeat))
	app.Mount("/admin", adminCtr.New(timeout, editorSrv, jwtC))

	return &App{
		log:     log,
		address: address,
		app:     app,
	}
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	a.log.Info("http server is listening", slog.String("address", a.address))

	return a.app.Listen(a.address)
}

// Handler returns the request handler,
// used to drive the router without a listener.
func (a *App) Handler() fasthttp.RequestHandler {
	return a.app.Handler()
}

// Stop waits for open connections at most shutdownTimeout.
func (a *App) Stop() error {
	return a.app.ShutdownWithTimeout(shutdownTimeout)
}
