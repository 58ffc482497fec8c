/*
This command provides an example executable wiring of ustreamer: it reads a
static subscription file, installs a fixed set of routes between named
in-process transports, serves Prometheus metrics, and waits for a termination
signal before tearing everything down. Concrete transports (SOME/IP, MQTT,
Zenoh, ...) are out of scope for the ustreamer module; this binary uses
dataplane/localtransport, an in-process stand-in, so the wiring can be
exercised end to end without external dependencies.

For the list of command line options, run:

	ustreamer -help
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	ustreamer "github.com/eclipse-uprotocol/up-streamer-go"
	"github.com/eclipse-uprotocol/up-streamer-go/dataplane/localtransport"
	"github.com/eclipse-uprotocol/up-streamer-go/metrics"
	"github.com/eclipse-uprotocol/up-streamer-go/subscription"
)

func run(cfg *Config) error {
	log.SetLevel(cfg.ApplicationLogLevel)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	provider := subscription.NewStaticFileProvider(cfg.SubscriptionsFile)
	streamer, err := ustreamer.NewStreamer("cmd/ustreamer", cfg.QueueCapacity, provider, m)
	if err != nil {
		return err
	}

	transports := make(map[string]*localtransport.Transport)
	transportFor := func(authority string) *localtransport.Transport {
		if t, ok := transports[authority]; ok {
			return t
		}
		t := localtransport.New(authority)
		transports[authority] = t
		return t
	}

	ctx := context.Background()
	for _, route := range cfg.Routes.routes {
		in := ustreamer.NewEndpoint(route.inAuthority, route.inAuthority, transportFor(route.inAuthority))
		out := ustreamer.NewEndpoint(route.outAuthority, route.outAuthority, transportFor(route.outAuthority))
		if err := streamer.AddRoute(ctx, in, out); err != nil {
			return err
		}
		log.WithFields(log.Fields{"in": route.inAuthority, "out": route.outAuthority}).Info("ustreamer: route installed")
	}

	handler := http.NewServeMux()
	handler.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: cfg.MetricsListener, Handler: handler}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigs
		log.Info("ustreamer: shutting down")
		streamer.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			log.WithField("error", err).Error("ustreamer: metrics server shutdown failed")
		}
	}()

	log.WithField("address", cfg.MetricsListener).Info("ustreamer: serving metrics")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func main() {
	cfg := NewConfig()
	if err := cfg.Parse(); err != nil {
		log.Fatalf("Error processing config: %s", err)
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}
