package router

import (
	app "github.com/civicresolve/backend/internal/application"
	"github.com/civicresolve/backend/internal/container"
	handlers "github.com/civicresolve/backend/internal/interface/http"
	"github.com/civicresolve/backend/internal/router/modules"
)

type moduleDeps struct {
	Users        *app.UserService
	Issues       *app.IssueService
	Registration *app.RegistrationService

	UserHandler         *handlers.UserHandler
	IssueHandler        *handlers.IssueHandler
	RegistrationHandler *handlers.RegistrationHandler
}

func buildDeps() moduleDeps {
	cfg := container.GetConfig()

	issues := app.NewIssueService(
		container.GetIssueRepo(),
		container.GetUserRepo(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetLogger(),
		container.GetES(),
		cfg.ESIssuesIndex,
	)
	users := app.NewUserService(
		container.GetUserRepo(),
		container.GetJWT(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRedis(),
		container.GetLogger(),
	)
	registration := app.NewRegistrationService(
		container.GetUserRepo(),
		container.GetAadhaarDir(),
		container.GetRedis(),
		container.GetRabbitPub(),
		container.GetLogger(),
		cfg.OTPEmailCode,
		cfg.OTPMobileCode,
		cfg.OTPMaxAttempts,
		cfg.WorkflowTTL,
		cfg.AppName,
		cfg.MailSendEnabled,
	)

	return moduleDeps{
		Users:               users,
		Issues:              issues,
		Registration:        registration,
		UserHandler:         handlers.NewUserHandler(users, issues, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure),
		IssueHandler:        handlers.NewIssueHandler(issues, container.GetLogger()),
		RegistrationHandler: handlers.NewRegistrationHandler(registration, container.GetLogger()),
	}
}

// InitModules wires services, handlers and route modules into the registry.
// Called once at startup after the container singletons are set.
func InitModules(r *Registry) {
	deps := buildDeps()
	r.Add(modules.NewUserModule(deps.UserHandler, container.GetJWT()))
	r.Add(modules.NewRegistrationModule(deps.RegistrationHandler))
	r.Add(modules.NewIssueModule(deps.IssueHandler, container.GetJWT()))
	r.Add(modules.NewDebugModule())
}
