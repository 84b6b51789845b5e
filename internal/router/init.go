package router

import (
	"github.com/oksasatya/tokenflow-auth/internal/application"
	"github.com/oksasatya/tokenflow-auth/internal/container"
	mongoinfra "github.com/oksasatya/tokenflow-auth/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/tokenflow-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/tokenflow-auth/internal/infrastructure/search"
	handlers "github.com/oksasatya/tokenflow-auth/internal/interface/http"
	"github.com/oksasatya/tokenflow-auth/internal/router/modules"
	"github.com/oksasatya/tokenflow-auth/pkg/helpers"
)

type ModuleDeps struct {
	Signups     *application.RegistrationService
	Users       *application.UserService
	AuthHandler *handlers.AuthHandler
	UserHandler *handlers.UserHandler
}

func buildDeps() ModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	repo := mongoinfra.NewUserRepository(container.GetMongo(), cfg.MongoUsersCollection)
	hasher := helpers.NewBcryptHasher(cfg.BcryptCost)

	signups := application.NewRegistrationService(
		repo,
		container.GetPendingStore(),
		hasher,
		container.GetNotifier(),
		logger,
		cfg.VerifyCodeTTL,
	)
	users := application.NewUserService(repo, hasher, container.GetJWT(), logger)

	if pool := container.GetPGPool(); pool != nil {
		audit := pginfra.NewAuditLog(pool)
		signups.Audit = audit
		users.Audit = audit
	}
	if es := container.GetES(); es != nil {
		signups.Index = search.NewUserIndex(es, cfg.ESUsersIndex)
	}

	return ModuleDeps{
		Signups:     signups,
		Users:       users,
		AuthHandler: handlers.NewAuthHandler(signups, users, logger),
		UserHandler: handlers.NewUserHandler(users, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	rdb := container.GetRedis()
	r.Add(modules.NewAuthModule(deps.AuthHandler, rdb))
	r.Add(modules.NewUserModule(deps.UserHandler, container.GetJWT(), rdb))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
