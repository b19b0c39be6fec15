package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/skybooking/api"
	"github.com/Domenick1991/skybooking/config"
	"github.com/Domenick1991/skybooking/internal/idp"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Bookings *api.BookingHandler
	Flights  *api.FlightHandler
	Auth     *api.AuthHandler
	IDP      *idp.Client
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, h Handlers) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(cfg, h),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(cfg *config.Config, h Handlers) *gin.Engine {
	router := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(cfg.HTTP.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	h.Bookings.Register(router.Group("/bookings"))
	h.Flights.Register(router.Group("/flights"))
	h.Flights.RegisterDemo(router)
	h.Auth.Register(router.Group("/auth"))
	router.GET("/me", api.AuthRequired(h.IDP), h.Auth.Me)

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs", func(c *gin.Context) {
			renderSwaggerUI(c.Writer, "/swagger/openapi.json")
		})
	}

	return router
}

func renderSwaggerUI(w http.ResponseWriter, jsonURL string) {
	html := fmt.Sprintf(`<!DOCTYPE html>
    <html>
    <head>
        <title>API Docs</title>
        <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@latest/swagger-ui.css">
    </head>
    <body>
        <div id="swagger-ui"></div>
        <script src="https://unpkg.com/swagger-ui-dist@latest/swagger-ui-bundle.js"></script>
        <script>
            window.onload = function() {
                window.ui = SwaggerUIBundle({
                    url: "%s",
                    dom_id: '#swagger-ui'
                });
            };
        </script>
    </body>
    </html>`, jsonURL)

	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(html))
}
