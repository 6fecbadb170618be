// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/codenames/internal/auth"
	"github.com/jason-s-yu/codenames/internal/cache"
	"github.com/jason-s-yu/codenames/internal/database"
	"github.com/jason-s-yu/codenames/internal/handlers"
)

func main() {
	auth.Init()
	database.ConnectDB()
	if err := cache.ConnectRedis(); err != nil {
		logrus.Warnf("redis unavailable, turn history disabled: %v", err)
	}

	gs := handlers.NewGameServer()
	gs.Logger.SetLevel(logrus.DebugLevel)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	gs.Logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, handlers.NewRouter(gs)); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
