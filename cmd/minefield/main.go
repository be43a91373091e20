package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	"github.com/nvlasov/minefield/internal/config"
	"github.com/nvlasov/minefield/internal/session"
)

var (
	log = logrus.New()

	configPath string
	cfg        *config.Config

	store session.Store
)

func init() {
	const (
		defaultConfigPath = "/run/config.json"
		usage             = "config file path"
	)
	flag.StringVar(&configPath, "config", defaultConfigPath, usage)
	flag.StringVar(&configPath, "c", defaultConfigPath, usage+" (shorthand)")
}

func setupLogging() {
	logLevel := logrus.InfoLevel
	if cfg.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)

	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if cfg.LogFile != "" {
		fileHook, err := rotatefilehook.NewRotateFileHook(
			rotatefilehook.RotateFileConfig{
				Filename:   cfg.LogFile,
				MaxSize:    50,
				MaxBackups: 3,
				MaxAge:     28,
				Level:      logLevel,
				Formatter:  &logrus.JSONFormatter{},
			},
		)
		if err != nil {
			log.Fatal("unable to create log file hook: ", err)
		}
		log.AddHook(fileHook)
	}
}

func setupStore(ctx context.Context) {
	var err error

	switch cfg.Database.Driver {
	case config.DriverSqlite:
		store, err = session.NewSqlite(cfg.Database.Sqlite.Path)
	case config.DriverPostgres:
		store, err = session.NewPostgres(ctx, cfg.Database.Postgres.DbUrl())
	}
	if err != nil {
		log.Fatal("unable to create session store: ", err)
	}
	if err := store.Ping(ctx); err != nil {
		log.Fatal("unable to ping database: ", err)
	}
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		log.Fatalf("unable to load config %s: %s", configPath, err.Error())
	}

	setupLogging()

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	setupJwtKeys()

	setupStore(mainCtx)
	defer store.Close()

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: buildHandler(),
		BaseContext: func(l net.Listener) context.Context {
			return mainCtx
		},
	}

	log.Infof("ready to serve @ %s", cfg.Addr)

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		return server.ListenAndServe()
	})
	g.Go(func() error {
		<-gCtx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Printf("exit reason: %s\n", err)
	}
}
