package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/bitmark-inc/hormone-health/api"
	"github.com/bitmark-inc/hormone-health/external/predictor"
	"github.com/bitmark-inc/hormone-health/metrics"
	"github.com/bitmark-inc/hormone-health/store"
	"github.com/bitmark-inc/hormone-health/utils"
)

var server *api.Server

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func loadConfig(file string) {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("predictor.url", "http://localhost:8000")
	viper.SetDefault("session.ttl", 2*time.Hour)
	viper.SetDefault("metrics.interval", 10*time.Second)

	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("hormone")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func main() {
	var configFile string

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if server != nil {
			log.Info("Shutdown form server")
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		sentry.Flush(5 * time.Second)
		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	log.WithField("prefix", "init").Info("Initialized sentry")

	if err := utils.InitI18NBundle(viper.GetString("i18n.dir")); err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Info("Initialized i18n bundle")

	scope, reporter, closer := metrics.NewRootScope("hormone", viper.GetDuration("metrics.interval"))
	defer closer.Close()

	httpClient := &http.Client{
		Timeout: 60 * time.Second,
	}
	predictorClient := predictor.New(viper.GetString("predictor.url"), httpClient)
	log.WithField("prefix", "init").Info("Prediction service: ", viper.GetString("predictor.url"))

	sessions := store.NewMemorySessionStore(viper.GetDuration("session.ttl"))

	// Init http server
	server = api.NewServer(predictorClient, sessions, scope, reporter)
	log.WithField("prefix", "init").Info("Initialized http server")

	go server.SweepSessions(ctx, time.Minute)

	log.Fatal(server.Run(":" + viper.GetString("server.port")))
}
