// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/senvo/signaling/internal/handlers"
	"github.com/senvo/signaling/internal/middleware"
	"github.com/senvo/signaling/internal/signaling"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	srv := signaling.NewServer(logger)

	mux := http.NewServeMux()

	// health check
	mux.Handle("/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.HealthHandler,
	)))

	// signaling websocket
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, srv),
	)))

	addr := ":3000"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Signaling server running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
