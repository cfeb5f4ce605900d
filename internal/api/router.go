package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/optatrack/account-service/internal/api/handler"
	"github.com/optatrack/account-service/internal/api/middleware"
	"github.com/optatrack/account-service/internal/core/domain"
	"github.com/optatrack/account-service/internal/core/ports"
	"github.com/optatrack/account-service/internal/core/service"
	"github.com/optatrack/account-service/internal/infrastructure/config"
)

// Dependencies carries everything the router needs wired up front.
type Dependencies struct {
	Config    *config.Config
	Accounts  ports.AccountService
	Sessions  *service.SessionService
	Evaluator *service.PolicyEvaluator
	Mongo     *mongo.Database
	SQL       *sql.DB
	Redis     *redis.Client
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("account"))
	e.Use(middleware.Session(deps.Sessions, deps.Config.Auth.CookieName))

	// --- Dependencies ---
	accountHandler := handler.NewAccountHandler(deps.Accounts, handler.AccountOptions{
		Cookie: handler.CookieOptions{
			Name:   deps.Config.Auth.CookieName,
			Secure: deps.Config.Auth.CookieSecure,
		},
		InvalidCredentialsErrorMessage: deps.Config.Auth.InvalidCredentialsErrorMessage,
		DefaultPostSignInRedirectURL:   deps.Config.Auth.DefaultPostSignInRedirectURL,
		SignOutRedirectURL:             deps.Config.Auth.SignOutRedirectURL,
		AutomaticRedirectAfterSignOut:  deps.Config.Auth.AutomaticRedirectAfterSignOut,
	})

	// --- Account routes ---
	e.GET("/account/login", accountHandler.LoginPage)
	e.POST("/account/login", accountHandler.Login)
	e.GET("/account/logout", accountHandler.Logout)
	e.GET("/account/logged-out", accountHandler.LoggedOut)
	e.POST("/account/register", accountHandler.Register)
	e.POST("/account/email-available", accountHandler.CheckEmailAvailable)

	// --- Protected routes: each carries its declared policy name ---
	e.GET("/account/profile", accountHandler.Profile,
		middleware.Authorize(deps.Evaluator, domain.RoleUser))
	e.POST("/account/profile", accountHandler.UpdateProfile,
		middleware.Authorize(deps.Evaluator, domain.RoleUser))
	e.GET("/account/users/:id", accountHandler.GetUser,
		middleware.Authorize(deps.Evaluator, domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.SQL, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
