package handler

import (
	"net/http"

	"greensteps/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

type Validator struct {
	instance *validator.Validate
}

func (v *Validator) Validate(i any) error {
	if err := v.instance.Struct(i); err != nil {
		return errorx.Wrap(err, errorx.Validation)
	}
	return nil
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Validator = &Validator{validator.New()}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🌱")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)

		au := groupAuth{cfg.Container}
		routesAPIv1.POST("/auth/login", au.Login)

		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated requests.
		routesAPIv1.GET("", Hello)

		routesAPIv1User := routesAPIv1.Group("/user")
		{
			u := groupUser{cfg.Container}
			routesAPIv1User.GET("/me", u.Me)
			routesAPIv1User.PUT("/preferences", u.UpdatePreferences)
			routesAPIv1User.GET("/points/history", u.GetPointHistory)
			routesAPIv1User.GET("/badges", u.GetBadges)
		}

		a := groupAction{cfg.Container}
		routesAPIv1.GET("/actions", a.GetCatalog)
		routesAPIv1.GET("/actions/:id", a.Show)
		routesAPIv1.POST("/actions/log", a.Log)
		routesAPIv1.POST("/actions/propose", a.Propose)
		routesAPIv1.GET("/actions/history", a.History)

		ch := groupChallenge{cfg.Container}
		routesAPIv1.GET("/challenges", ch.List)
		routesAPIv1.POST("/challenges", ch.Create)
		routesAPIv1.GET("/challenges/:id", ch.Show)
		routesAPIv1.DELETE("/challenges/:id", ch.Delete)
		routesAPIv1.POST("/challenges/:id/join", ch.Join)
		routesAPIv1.DELETE("/challenges/:id/leave", ch.Leave)
		routesAPIv1.GET("/challenges/:id/participants", ch.Participants)

		t := groupTeam{cfg.Container}
		routesAPIv1.GET("/teams", t.List)
		routesAPIv1.POST("/teams", t.Create)
		routesAPIv1.GET("/teams/:id", t.Show)
		routesAPIv1.GET("/teams/:id/members", t.Members)
		routesAPIv1.POST("/teams/:id/join", t.Join)
		routesAPIv1.DELETE("/teams/:id/leave", t.Leave)

		n := groupNotification{cfg.Container}
		routesAPIv1.GET("/notifications", n.List)
		routesAPIv1.PUT("/notifications", n.Update)

		l := groupLeaderboard{cfg.Container}
		routesAPIv1.GET("/leaderboard/overall", l.GetOverallLeaderboard)
		routesAPIv1.GET("/leaderboard/weekly", l.GetWeeklyLeaderboard)

		routesAPIv1Admin := routesAPIv1.Group("/admin")
		{
			ad := groupAdmin{cfg.Container}
			routesAPIv1Admin.GET("/verifications/pending", ad.PendingQueue)
			routesAPIv1Admin.POST("/actions/approve", ad.Approve)
			routesAPIv1Admin.POST("/actions/reject", ad.Reject)
			routesAPIv1Admin.POST("/actions", ad.CreateAction)
			routesAPIv1Admin.PUT("/actions/:id", ad.UpdateAction)
			routesAPIv1Admin.DELETE("/actions/:id", ad.DeactivateAction)
			routesAPIv1Admin.GET("/actions/proposals", ad.GetProposals)
			routesAPIv1Admin.GET("/stats", ad.GetStats)
			routesAPIv1Admin.POST("/announcements", ad.Announce)
		}
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
