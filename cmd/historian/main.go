// cmd/historian/main.go is the asynchronous worker that drains the Redis
// turn queue into PostgreSQL and expires abandoned games.
package main

import (
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/codenames/internal/historian"
)

func main() {
	svc := historian.NewService()
	go svc.Run()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs

	svc.Stop()
	logrus.Info("historian shutdown complete")
}
