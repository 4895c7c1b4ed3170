package api

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/sirupsen/logrus"

	"queuewise/internal/api/middleware"
	"queuewise/internal/config"
	"queuewise/internal/trace"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	engine *gin.Engine
	logger *logrus.Logger
}

func New(cfg *config.Config, logger *logrus.Logger) *Server {
	if cfg.AppEnv == config.ProductionEnv {
		gin.SetMode(gin.ReleaseMode)
	}

	registerValidators()

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(
		gin.CustomRecovery(func(c *gin.Context, p interface{}) {
			logger.WithContext(c.Request.Context()).WithField("panic", p).Error("handler panicked")
			c.AbortWithStatus(http.StatusInternalServerError)
		}),
		middleware.RequestID(),
		middleware.APIVersion(cfg.APIVersion),
		middleware.AccessLog(logger),
		cors.New(corsConfig(cfg.HTTP.CORSOrigins)),
	)

	return &Server{
		engine: r,
		logger: logger,
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", trace.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", trace.HeaderRequestID, trace.HeaderAPIVersion},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}

// registerValidators adds the notblank tag and makes validation errors report json
// field names.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Serve(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info(fmt.Sprintf("rest server starting at: %s", address))
	srvError := make(chan error, 1)
	go func() {
		srvError <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("rest server is shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-srvError:
		return err
	}
}
