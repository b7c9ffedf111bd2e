package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/caarlos0/env/v11"
	"github.com/cenkalti/backoff/v4"
	logp "github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adtpulse "github.com/bobomb/hass-adtpulse"
)

var log = logp.NewWithOptions(os.Stderr, logp.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "hass-adtpulse",
})

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const manufacturer = "ADT"

func main() {
	log.Info(
		"hass-adtpulse",
		"version", version,
		"commit", commit,
		"date", date,
		"info", "HomeKit bridge for ADT Pulse alarm systems",
	)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("could not load .env", "err", err)
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "ADTPULSE_"}); err != nil {
		log.Fatal(
			"could not parse env",
			"err",
			strings.TrimPrefix(strings.ReplaceAll(err.Error(), "; ", "\n"), "env: ")+"\n",
		)
	}

	host, err := cfg.serviceHost()
	if err != nil {
		log.Fatal("could not resolve service host", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cli := adtpulse.NewClient(host, cfg.Username, cfg.Password, cfg.Fingerprint)

	title, err := adtpulse.ValidateCredentials(ctx, cli)
	if err != nil {
		switch {
		case errors.Is(err, adtpulse.ErrInvalidAuth):
			log.Fatal("credentials rejected by ADT Pulse", "err", err)
		default:
			log.Fatal("could not reach ADT Pulse", "err", err)
		}
	}
	log.Info("validated credentials", "title", title, "host", host)

	entries := adtpulse.NewEntryStore(filepath.Join(cfg.StateDir, "entries.json"))
	if err := entries.Add(cfg.entry(host)); err != nil {
		if !errors.Is(err, adtpulse.ErrAlreadyConfigured) {
			log.Fatal("could not persist entry", "err", err)
		}
		log.Info("account already configured, updating entry", "username", cfg.Username)
		if err := entries.Update(cfg.entry(host)); err != nil {
			log.Fatal("could not update entry", "err", err)
		}
	}

	integration, err := adtpulse.Setup(ctx, cli, cfg.PollInterval)
	if err != nil {
		log.Fatal("could not setup integration", "err", err)
	}
	defer func() {
		if err := integration.Close(context.Background()); err != nil {
			log.Error("could not close integration", "err", err)
		}
	}()

	execute := func(fn func(ctx context.Context) error) error {
		bo := backoff.NewExponentialBackOff()
		bo.MaxInterval = time.Second * 5
		bo.MaxElapsedTime = time.Minute
		return backoff.RetryNotify(func() error {
			if err := fn(ctx); err != nil {
				if errors.Is(err, adtpulse.ErrInvalidAuth) {
					return backoff.Permanent(err)
				}
				return err
			}
			return nil
		}, backoff.WithContext(bo, ctx), func(err error, _ time.Duration) {
			log.Error("command to portal failed", "err", err)
		})
	}

	bridge := accessory.NewBridge(accessory.Info{
		Name:         "ADT Pulse Bridge",
		Manufacturer: manufacturer,
		Firmware:     version,
	})

	var alarms []*SecuritySystem
	for _, panel := range integration.Panels {
		alarms = append(alarms, NewSecuritySystem(accessory.Info{
			Name:         panel.Name(),
			SerialNumber: panel.UniqueID(),
			Manufacturer: manufacturer,
		}, panel, execute))
	}

	var zones []*ZoneAccessory
	for _, sensor := range integration.Zones {
		zones = append(zones, newZoneAccessory(sensor))
	}

	gateway := newGatewayAccessory(integration.Gateway)

	unsubscribe := integration.Coordinator.Subscribe(func() {
		pollCounter.Inc()
		if !integration.Coordinator.LastUpdateSuccess() {
			pollErrorCounter.Inc()
			log.Warn("poll failed, keeping last known state")
			return
		}
		for _, alarm := range alarms {
			alarm.Update()
		}
		for _, zone := range zones {
			zone.Update()
		}
		gateway.Update()
	})
	defer unsubscribe()

	fs := hap.NewFsStore(cfg.StateDir)
	server, err := hap.NewServer(fs, bridge.A, bridgedAccessories(alarms, zones, gateway)...)
	if err != nil {
		log.Fatal("fail to create server", "error", err)
	}
	server.Addr = cfg.Address
	server.ServeMux().Handle("/metrics", promhttp.Handler())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)
	go func() {
		<-c
		log.Info("stopping server")
		signal.Stop(c)
		cancel()
	}()

	log.Info("starting server", "addr", server.Addr)
	if err := server.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("failed to close server", "err", err)
	}
}

func bridgedAccessories(
	alarms []*SecuritySystem,
	zones []*ZoneAccessory,
	gateway *GatewayAccessory,
) []*accessory.A {
	var result []*accessory.A
	for _, a := range alarms {
		result = append(result, a.A)
	}
	for _, z := range zones {
		result = append(result, z.A)
	}
	result = append(result, gateway.A)
	return result
}
