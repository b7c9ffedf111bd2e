package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var alarmStateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace:   "hass_adtpulse",
	Subsystem:   "alarm",
	Name:        "state",
	Help:        "",
	ConstLabels: map[string]string{},
}, []string{"site"})

var zoneTrippedGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace:   "hass_adtpulse",
	Subsystem:   "zone",
	Name:        "tripped",
	Help:        "",
	ConstLabels: map[string]string{},
}, []string{"name"})

var gatewayOnlineGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace:   "hass_adtpulse",
	Subsystem:   "gateway",
	Name:        "online",
	Help:        "",
	ConstLabels: map[string]string{},
})

var pollCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace:   "hass_adtpulse",
	Subsystem:   "coordinator",
	Name:        "polls_total",
	Help:        "",
	ConstLabels: map[string]string{},
})

var pollErrorCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace:   "hass_adtpulse",
	Subsystem:   "coordinator",
	Name:        "poll_errors_total",
	Help:        "",
	ConstLabels: map[string]string{},
})

var commandErrorCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace:   "hass_adtpulse",
	Subsystem:   "alarm",
	Name:        "command_errors_total",
	Help:        "",
	ConstLabels: map[string]string{},
})
