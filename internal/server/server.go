package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	billdomain "github.com/ridewell/motorbill/internal/bill/domain"
	catalogdomain "github.com/ridewell/motorbill/internal/catalog/domain"
	"github.com/ridewell/motorbill/internal/config"
	"github.com/ridewell/motorbill/internal/document/render"
	"github.com/ridewell/motorbill/internal/observability/metrics"
	"github.com/ridewell/motorbill/internal/reconcile"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterAPIRoutes()
	}),
	fx.Invoke(RunHTTP),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(metrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	billSvc      billdomain.Service
	catalogSvc   catalogdomain.Service
	renderer     *render.Renderer
	reconcileSvc *reconcile.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	BillSvc      billdomain.Service
	CatalogSvc   catalogdomain.Service
	Renderer     *render.Renderer
	ReconcileSvc *reconcile.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		billSvc:      p.BillSvc,
		catalogSvc:   p.CatalogSvc,
		renderer:     p.Renderer,
		reconcileSvc: p.ReconcileSvc,
	}
}

func (s *Server) RegisterAPIRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/bills", s.CreateBill)
	v1.GET("/bills", s.ListBills)
	v1.GET("/bills/:id", s.GetBill)
	v1.POST("/bills/:id/complete", s.CompleteBill)
	v1.POST("/bills/:id/convert", s.ConvertBill)
	v1.POST("/bills/:id/cancel", s.CancelBill)
	v1.DELETE("/bills/:id", s.DeleteBill)
	v1.GET("/bills/:id/document", s.RenderBillDocument)

	v1.POST("/vehicle-models", s.CreateVehicleModel)
	v1.GET("/vehicle-models", s.ListVehicleModels)
	v1.GET("/vehicle-models/:name", s.GetVehicleModel)
	v1.PATCH("/vehicle-models/:name", s.UpdateVehicleModel)
	v1.DELETE("/vehicle-models/:name", s.DeleteVehicleModel)

	v1.POST("/reconcile", s.RunReconcile)
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
