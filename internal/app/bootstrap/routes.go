// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	calendarfeature "github.com/bammbuu/bammbuu-server/internal/app/features/calendar"
	classesfeature "github.com/bammbuu/bammbuu-server/internal/app/features/classes"
	groupsfeature "github.com/bammbuu/bammbuu-server/internal/app/features/groups"
	healthfeature "github.com/bammbuu/bammbuu-server/internal/app/features/health"
	notificationsfeature "github.com/bammbuu/bammbuu-server/internal/app/features/notifications"
	profilefeature "github.com/bammbuu/bammbuu-server/internal/app/features/profile"
	resourcesfeature "github.com/bammbuu/bammbuu-server/internal/app/features/resources"
	roomsfeature "github.com/bammbuu/bammbuu-server/internal/app/features/rooms"
	userinfofeature "github.com/bammbuu/bammbuu-server/internal/app/features/userinfo"
	classstore "github.com/bammbuu/bammbuu-server/internal/app/store/classes"
	groupstore "github.com/bammbuu/bammbuu-server/internal/app/store/groups"
	notificationstore "github.com/bammbuu/bammbuu-server/internal/app/store/notifications"
	resourcestore "github.com/bammbuu/bammbuu-server/internal/app/store/resources"
	roomstore "github.com/bammbuu/bammbuu-server/internal/app/store/rooms"
	userstore "github.com/bammbuu/bammbuu-server/internal/app/store/users"
	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/bammbuu/bammbuu-server/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. The service is a JSON API: every surface
// lives under /api except the health endpoint, and authentication rides on
// the session cookie the auth collaborator writes.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase)
	classes := classstore.New(deps.MongoDatabase)
	groups := groupstore.New(deps.MongoDatabase)
	rooms := roomstore.New(deps.MongoDatabase)
	resources := resourcestore.New(deps.MongoDatabase)
	notifications := notificationstore.New(deps.MongoDatabase)

	// LoadSessionUser refreshes the signed-in user's details on each request,
	// so role changes and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(users))

	r := chi.NewRouter()
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	apiLimiter := ratelimit.New(300, time.Minute)

	r.Route("/api", func(api chi.Router) {
		api.Use(apiLimiter.Middleware)

		api.Mount("/userinfo", userinfofeature.Routes(userinfofeature.NewHandler()))

		profileHandler := profilefeature.NewHandler(users, logger)
		api.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

		calendarHandler := calendarfeature.NewHandler(classes, logger)
		api.With(sessionMgr.RequireSignedIn).Mount("/calendar", calendarfeature.Routes(calendarHandler))

		classesHandler := classesfeature.NewHandler(classes, groups, rooms, logger)
		api.Mount("/classes", classesfeature.Routes(classesHandler, sessionMgr))

		groupsHandler := groupsfeature.NewHandler(groups, classes, resources, logger)
		api.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

		roomsHandler := roomsfeature.NewHandler(rooms, classes, logger)
		api.Mount("/rooms", roomsfeature.Routes(roomsHandler, sessionMgr))

		resourcesHandler := resourcesfeature.NewHandler(resources, groups, logger)
		api.Mount("/resources", resourcesfeature.Routes(resourcesHandler, sessionMgr))

		notificationsHandler := notificationsfeature.NewHandler(notifications, logger)
		api.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))
	})

	return r, nil
}
