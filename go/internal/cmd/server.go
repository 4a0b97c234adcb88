package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mcdev12/sportsball/go/internal/api"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func setupServer(cfg *Config, services *Services) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandler(services.Roster, services.Tokens, services.Gateway))

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	// Setup HTTP/2 server
	return &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: h2c.NewHandler(c.Handler(router), &http2.Server{}),
	}
}
