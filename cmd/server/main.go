// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/engfrosh/euchre/internal/auth"
	"github.com/engfrosh/euchre/internal/cache"
	"github.com/engfrosh/euchre/internal/database"
	"github.com/engfrosh/euchre/internal/handlers"
	"github.com/engfrosh/euchre/internal/historian"
	"github.com/engfrosh/euchre/internal/middleware"
)

func main() {
	// A key pair on disk keeps sessions valid across restarts; without one a
	// fresh pair is generated per process.
	var authErr error
	if priv, pub := os.Getenv("SESSION_PRIVATE_KEY_FILE"), os.Getenv("SESSION_PUBLIC_KEY_FILE"); priv != "" && pub != "" {
		authErr = auth.InitFromPath(priv, pub)
	} else {
		authErr = auth.Init()
	}
	if authErr != nil {
		log.Fatalf("auth init: %v", authErr)
	}
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := cache.ConnectRedis(); err != nil {
		// The action log is an add-on; commands still work without it.
		logger.Warnf("redis unavailable, action log disabled: %v", err)
	} else if os.Getenv("HISTORIAN_ENABLED") == "1" {
		go historian.Run(context.Background(), logger)
	}

	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("/user/create", handlers.CreateUserHandler(logger))
	mux.HandleFunc("/user/login", handlers.LoginHandler(logger))

	// command gateway
	srv := handlers.NewCommandServer(logger, handlers.NewPGMatchStore(), handlers.ConfigFromEnv())

	mux.Handle("/euchre/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.CommandWSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
