package main

import (
	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/service"

	adtpulse "github.com/bobomb/hass-adtpulse"
)

// ZoneAccessory exposes one zone sensor over HomeKit. The hap service kind
// follows the resolved sensor category; categories HomeKit has no service
// for fall back to a contact sensor.
type ZoneAccessory struct {
	*accessory.A
	sensor *adtpulse.ZoneSensor

	Contact *service.ContactSensor
	Motion  *service.MotionSensor
	Smoke   *service.SmokeSensor
	CO      *service.CarbonMonoxideSensor
	Leak    *service.LeakSensor
}

func newZoneAccessory(sensor *adtpulse.ZoneSensor) *ZoneAccessory {
	a := &ZoneAccessory{sensor: sensor}
	a.A = accessory.New(accessory.Info{
		Name:         sensor.Name(),
		SerialNumber: sensor.UniqueID(),
		Manufacturer: manufacturer,
	}, accessory.TypeSensor)

	switch sensor.Category() {
	case adtpulse.CategoryMotion:
		a.Motion = service.NewMotionSensor()
		a.AddS(a.Motion.S)
	case adtpulse.CategorySmoke, adtpulse.CategoryHeat:
		a.Smoke = service.NewSmokeSensor()
		a.AddS(a.Smoke.S)
	case adtpulse.CategoryCarbonMonoxide:
		a.CO = service.NewCarbonMonoxideSensor()
		a.AddS(a.CO.S)
	case adtpulse.CategoryMoisture:
		a.Leak = service.NewLeakSensor()
		a.AddS(a.Leak.S)
	default:
		a.Contact = service.NewContactSensor()
		a.AddS(a.Contact.S)
	}
	return a
}

// Update pushes the zone's tripped state into HomeKit.
func (a *ZoneAccessory) Update() {
	tripped := a.sensor.IsOn()
	zoneTrippedGauge.WithLabelValues(a.sensor.Name()).Set(boolAs[float64](tripped))

	current := boolAs[int](tripped)
	switch {
	case a.Motion != nil:
		if a.Motion.MotionDetected.Value() != tripped {
			a.Motion.MotionDetected.SetValue(tripped)
			log.Info("motion", "zone", a.sensor.Name(), "tripped", tripped)
		}
	case a.Smoke != nil:
		if a.Smoke.SmokeDetected.Value() != current {
			_ = a.Smoke.SmokeDetected.SetValue(current)
			log.Info("smoke", "zone", a.sensor.Name(), "tripped", tripped)
		}
	case a.CO != nil:
		if a.CO.CarbonMonoxideDetected.Value() != current {
			_ = a.CO.CarbonMonoxideDetected.SetValue(current)
			log.Info("co", "zone", a.sensor.Name(), "tripped", tripped)
		}
	case a.Leak != nil:
		if a.Leak.LeakDetected.Value() != current {
			_ = a.Leak.LeakDetected.SetValue(current)
			log.Info("leak", "zone", a.sensor.Name(), "tripped", tripped)
		}
	case a.Contact != nil:
		if a.Contact.ContactSensorState.Value() != current {
			_ = a.Contact.ContactSensorState.SetValue(current)
			log.Info("contact", "zone", a.sensor.Name(), "tripped", tripped, "icon", a.sensor.Icon())
		}
	}
}

// GatewayAccessory exposes the Pulse gateway's connectivity as a contact
// sensor: closed while the gateway is reachable.
type GatewayAccessory struct {
	*accessory.A
	Contact *service.ContactSensor

	sensor *adtpulse.GatewaySensor
}

func newGatewayAccessory(sensor *adtpulse.GatewaySensor) *GatewayAccessory {
	a := &GatewayAccessory{sensor: sensor}
	a.A = accessory.New(accessory.Info{
		Name:         sensor.Name(),
		SerialNumber: sensor.UniqueID(),
		Manufacturer: manufacturer,
	}, accessory.TypeSensor)

	a.Contact = service.NewContactSensor()
	a.AddS(a.Contact.S)
	return a
}

func (a *GatewayAccessory) Update() {
	online := a.sensor.IsOn()
	gatewayOnlineGauge.Set(boolAs[float64](online))

	current := boolAs[int](!online)
	if a.Contact.ContactSensorState.Value() != current {
		_ = a.Contact.ContactSensorState.SetValue(current)
		log.Info("gateway", "online", online)
	}
}

func boolAs[T int | float64](b bool) T {
	if b {
		return 1
	}
	return 0
}
