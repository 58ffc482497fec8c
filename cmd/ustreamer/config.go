package main

import (
	"flag"
	"fmt"

	log "github.com/sirupsen/logrus"
)

const (
	metricsListenerUsage     = "address for the Prometheus /metrics endpoint to listen on"
	queueCapacityUsage       = "capacity of each per-egress-transport broadcast queue"
	subscriptionsFileUsage   = "path to a static JSON subscription file (see subscription.StaticFileProvider)"
	routeUsage               = "in-authority=out-authority route to install at startup; repeatable"
	applicationLogLevelUsage = "log level: panic, fatal, error, warn, info, debug or trace"
	defaultMetricsListener   = ":9911"
	defaultQueueCapacity     = 64
	defaultApplicationLogLvl = "info"
)

// Config is the cmd/ustreamer flag set, following the same flat,
// flag.FlagSet-backed shape as cmd/skipper's Config.
type Config struct {
	MetricsListener     string
	QueueCapacity       int
	SubscriptionsFile   string
	Routes              *routeListFlag
	ApplicationLogLvl   string
	ApplicationLogLevel log.Level
}

// NewConfig registers the command's flags against flag.CommandLine and
// returns the Config they populate once Parse is called.
func NewConfig() *Config {
	cfg := &Config{Routes: &routeListFlag{}}

	flag.StringVar(&cfg.MetricsListener, "metrics-listener", defaultMetricsListener, metricsListenerUsage)
	flag.IntVar(&cfg.QueueCapacity, "queue-capacity", defaultQueueCapacity, queueCapacityUsage)
	flag.StringVar(&cfg.SubscriptionsFile, "subscriptions-file", "", subscriptionsFileUsage)
	flag.Var(cfg.Routes, "route", routeUsage)
	flag.StringVar(&cfg.ApplicationLogLvl, "application-log-level", defaultApplicationLogLvl, applicationLogLevelUsage)

	return cfg
}

// Parse parses the registered flags and validates derived fields.
func (c *Config) Parse() error {
	flag.Parse()

	if len(flag.Args()) != 0 {
		return fmt.Errorf("invalid arguments: %s", flag.Args())
	}

	if c.SubscriptionsFile == "" {
		return fmt.Errorf("-subscriptions-file is required")
	}

	level, err := log.ParseLevel(c.ApplicationLogLvl)
	if err != nil {
		return fmt.Errorf("invalid -application-log-level: %w", err)
	}
	c.ApplicationLogLevel = level

	return nil
}
