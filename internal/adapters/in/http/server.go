// Package http exposes the locker service over a JSON API on echo.
//
// Routes:
//
//	GET    /health
//	GET    /metrics
//	GET    /api/v1/lockers?size=
//	POST   /api/v1/lockers/:id/release
//	POST   /api/v1/lockers/:id/maintenance
//	DELETE /api/v1/lockers/:id/maintenance
//	POST   /api/v1/parcels
//	GET    /api/v1/parcels/:id
//	POST   /api/v1/parcels/:id/passes
//	POST   /api/v1/parcels/:id/pickup
package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"parcellocker/internal/core/application/usecases/commands"
	"parcellocker/internal/core/application/usecases/queries"
	"parcellocker/internal/core/domain/model/locker"
	"parcellocker/internal/core/domain/model/parcel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type (
	DepositParcelHandler interface {
		Handle(ctx context.Context, command commands.DepositParcelCommand) (commands.DepositParcelResult, error)
	}

	IssuePassHandler interface {
		Handle(ctx context.Context, command commands.IssuePassCommand) (*parcel.OneTimePass, error)
	}

	ValidatePickupHandler interface {
		Handle(ctx context.Context, command commands.ValidatePickupCommand) (locker.ID, error)
	}

	ReleaseLockerHandler interface {
		Handle(ctx context.Context, command commands.ReleaseLockerCommand) error
	}

	SetLockerMaintenanceHandler interface {
		Handle(ctx context.Context, command commands.SetLockerMaintenanceCommand) error
	}

	ClearLockerMaintenanceHandler interface {
		Handle(ctx context.Context, command commands.ClearLockerMaintenanceCommand) error
	}

	GetLockersHandler interface {
		Handle(ctx context.Context, query queries.GetLockersQuery) ([]queries.GetLockersQueryResponse, error)
	}

	GetParcelHandler interface {
		Handle(ctx context.Context, query queries.GetParcelQuery) (queries.GetParcelQueryResponse, error)
	}
)

// Handlers groups the use cases the API calls.
type Handlers struct {
	DepositParcel          DepositParcelHandler
	IssuePass              IssuePassHandler
	ValidatePickup         ValidatePickupHandler
	ReleaseLocker          ReleaseLockerHandler
	SetLockerMaintenance   SetLockerMaintenanceHandler
	ClearLockerMaintenance ClearLockerMaintenanceHandler
	GetLockers             GetLockersHandler
	GetParcel              GetParcelHandler
}

// Options tune the abuse protections on the pickup and pass endpoints.
type Options struct {
	// RateLimit and RateBurst apply per client IP. A client's bucket is
	// dropped after RateLimitIdle without requests; zero picks a TTL long
	// enough for the bucket to refill.
	RateLimit     rate.Limit
	RateBurst     int
	RateLimitIdle time.Duration

	// TrustedProxies are the ranges allowed to set X-Forwarded-For. When
	// empty the client IP is the connection's peer address.
	TrustedProxies []*net.IPNet

	// MaxPickupFailures wrong codes within PickupLockoutWindow lock the
	// parcel's pickup endpoint until the window expires.
	MaxPickupFailures   int
	PickupLockoutWindow time.Duration
}

var DefaultOptions = Options{
	RateLimit:           rate.Limit(5),
	RateBurst:           10,
	MaxPickupFailures:   5,
	PickupLockoutWindow: 15 * time.Minute,
}

// Server implements the HTTP endpoints on top of the command and query handlers.
type Server struct {
	handlers Handlers
	lockout  *PickupLockout
	limiter  *IPRateLimiter
	clientIP echo.IPExtractor
	logger   *zap.Logger
}

func NewServer(handlers Handlers, opts Options, logger *zap.Logger) *Server {
	return &Server{
		handlers: handlers,
		lockout:  NewPickupLockout(opts.MaxPickupFailures, opts.PickupLockoutWindow),
		limiter:  NewIPRateLimiter(opts.RateLimit, opts.RateBurst, opts.RateLimitIdle),
		clientIP: ClientIP(opts.TrustedProxies),
		logger:   logger,
	}
}

// NewEcho builds the echo instance with all routes and middleware.
func NewEcho(s *Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	e.IPExtractor = s.clientIP
	e.HTTPErrorHandler = NewErrorHandler(s.logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(s.logger))

	s.Register(e)
	return e
}

// Register adds the routes to e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	api.GET("/lockers", s.GetLockers)
	api.POST("/lockers/:id/release", s.ReleaseLocker)
	api.POST("/lockers/:id/maintenance", s.SetLockerMaintenance)
	api.DELETE("/lockers/:id/maintenance", s.ClearLockerMaintenance)

	limited := RateLimit(s.limiter)

	api.POST("/parcels", s.DepositParcel)
	api.GET("/parcels/:id", s.GetParcel)
	api.POST("/parcels/:id/passes", s.IssuePass, limited)
	api.POST("/parcels/:id/pickup", s.ValidatePickup, limited)
}
