package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"DrunkDetect/internal/config"
	"DrunkDetect/pkg/log"
	"DrunkDetect/pkg/redis"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := bootstrap()

	app := cli.NewApp()
	app.Name = "drunkdetect"
	app.Usage = "Emotion and intoxication demo backend"
	app.Commands = []cli.Command{
		serveCommand,
		simulateCommand,
	}
	app.Action = serveAction

	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

// bootstrap loads the .env files before the logger singleton reads LOG_* settings.
func bootstrap(envFiles ...string) *logrus.Logger {
	envErr := godotenv.Load(envFiles...)

	logger := log.NewLogger()
	if envErr != nil {
		logger.Warnf("No .env file loaded: %v", envErr)
	}
	return logger
}

var serveCommand = cli.Command{
	Name:   "serve",
	Usage:  "Starts the HTTP and websocket API",
	Action: serveAction,
}

func serveAction(ctx *cli.Context) error {
	logger := log.NewLogger()

	options := []config.ServerOption{
		config.WithFiber(config.NewFiber(logger)),
		config.WithLogger(logger),
		config.WithValidator(config.NewValidator()),
		config.WithMiddleware(),
		config.WithModelFromEnv(),
		config.WithUtils(),
	}

	if redis.Enabled() {
		options = append(options, config.WithRedisServer(redis.New()))
	}

	server, err := config.NewServer(options...)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run()
	}()

	logger.Info("Server started successfully")

	select {
	case err := <-errChan:
		return fmt.Errorf("error starting server: %w", err)
	case <-sigChan:
	}

	logger.Info("Shutting down server...")
	return server.Shutdown(shutdownTimeout)
}
