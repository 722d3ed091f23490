package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/waremaphq/waremap-backend/api/controllers"
	"github.com/waremaphq/waremap-backend/api/middleware"
	"github.com/waremaphq/waremap-backend/internal/operations"
	"github.com/waremaphq/waremap-backend/internal/warehousemap"
	"github.com/waremaphq/waremap-backend/pkg/config"
	"github.com/waremaphq/waremap-backend/pkg/logger"
	pkgredis "github.com/waremaphq/waremap-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface: health probes, Prometheus metrics,
// and the versioned map/operation API.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	mapService warehousemap.Service,
	operationService operations.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/health/live", controllers.HealthLive(cfg))
	var cachePinger controllers.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, dbPinger, cachePinger))

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		var idempotencyStore pkgredis.IdempotencyStore
		if redisClient != nil {
			idempotencyStore = redisClient
		}
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/v1/maps", func(r chi.Router) {
			r.Get("/", controllers.ListMaps(mapService, logg))
			r.Post("/", controllers.CreateMap(mapService, logg))
			r.Route("/{mapID}", func(r chi.Router) {
				r.Get("/", controllers.GetMap(mapService, logg))
				r.Patch("/", controllers.UpdateMap(mapService, logg))
				r.Delete("/", controllers.DeleteMap(mapService, logg))
				r.Get("/snapshot", controllers.MapSnapshot(mapService, logg))
				r.Post("/cells/block", controllers.BlockCell(mapService, logg))
				r.Post("/cells/unblock", controllers.UnblockCell(mapService, logg))
				r.Post("/place", controllers.PlaceQuant(mapService, logg))
			})
		})

		r.Post("/v1/quants/{quantID}/clear", controllers.ClearQuant(mapService, logg))
		r.Post("/v1/operations", controllers.DispatchOperation(operationService, logg))
	})

	return r
}
