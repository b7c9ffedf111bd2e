package main

import (
	"context"
	"net/http"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/service"

	adtpulse "github.com/bobomb/hass-adtpulse"
)

type SecuritySystem struct {
	*accessory.A
	SecuritySystem *service.SecuritySystem

	panel   *adtpulse.AlarmPanel
	execute Executor
}

func NewSecuritySystem(info accessory.Info, panel *adtpulse.AlarmPanel, execute Executor) *SecuritySystem {
	a := &SecuritySystem{
		panel:   panel,
		execute: execute,
	}
	a.A = accessory.New(info, accessory.TypeSecuritySystem)

	a.SecuritySystem = service.NewSecuritySystem()
	a.AddS(a.SecuritySystem.S)

	a.SecuritySystem.SecuritySystemTargetState.SetValueRequestFunc = a.updateHandler

	return a
}

// Update pushes the panel's current normalized state into HomeKit.
func (a *SecuritySystem) Update() {
	state := a.panel.State()
	alarmStateGauge.WithLabelValues(a.panel.UniqueID()).Set(float64(state))
	v := hapCurrentState(state)
	if v < 0 {
		return
	}
	if a.SecuritySystem.SecuritySystemCurrentState.Value() != v {
		err := a.SecuritySystem.SecuritySystemCurrentState.SetValue(v)
		log.Info("set current state", "state", state, "err", err)
	}
}

func (a *SecuritySystem) updateHandler(
	v interface{},
	_ *http.Request,
) (response interface{}, code int) {
	var err error
	switch v.(int) {
	case characteristic.SecuritySystemTargetStateStayArm,
		characteristic.SecuritySystemTargetStateNightArm:
		log.Info("arm home", "panel", a.panel.Name())
		err = a.execute(a.panel.ArmHome)
	case characteristic.SecuritySystemTargetStateAwayArm:
		log.Info("arm away", "panel", a.panel.Name())
		err = a.execute(a.panel.ArmAway)
	case characteristic.SecuritySystemTargetStateDisarm:
		log.Info("disarm", "panel", a.panel.Name())
		err = a.execute(a.panel.Disarm)
	default:
		return nil, hap.JsonStatusResourceDoesNotExist
	}
	if err != nil {
		commandErrorCounter.Inc()
		log.Error("alarm command failed", "panel", a.panel.Name(), "err", err)
		return nil, hap.JsonStatusResourceBusy
	}
	return nil, hap.JsonStatusSuccess
}

// Arming and disarming are transient on the portal side; HomeKit only knows
// the settled states.
func hapCurrentState(state adtpulse.AlarmState) int {
	switch state {
	case adtpulse.StateArmedHome:
		return characteristic.SecuritySystemCurrentStateStayArm
	case adtpulse.StateArmedAway:
		return characteristic.SecuritySystemCurrentStateAwayArm
	case adtpulse.StateDisarmed:
		return characteristic.SecuritySystemCurrentStateDisarmed
	default:
		return -1
	}
}

type Executor = func(func(ctx context.Context) error) error
