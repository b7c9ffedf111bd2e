package adtpulse

import (
	"context"
	"fmt"
)

// AlarmPanel mirrors one site's alarm state. It holds no state machine of
// its own: every read re-derives the normalized state from the coordinator's
// current snapshot.
type AlarmPanel struct {
	coordinator *Coordinator
	service     Service
	siteID      string
	name        string
}

func NewAlarmPanel(coordinator *Coordinator, service Service, site Site) *AlarmPanel {
	return &AlarmPanel{
		coordinator: coordinator,
		service:     service,
		siteID:      site.ID,
		name:        "ADT " + site.Name,
	}
}

func (a *AlarmPanel) Name() string     { return a.name }
func (a *AlarmPanel) UniqueID() string { return "adt_pulse_alarm_" + a.siteID }
func (a *AlarmPanel) Icon() string     { return "mdi:security" }

func (a *AlarmPanel) site() (Site, bool) {
	snap := a.coordinator.Data()
	if snap == nil {
		return Site{}, false
	}
	return snap.Site(a.siteID)
}

// State returns the current normalized alarm state for the panel's site.
func (a *AlarmPanel) State() AlarmState {
	site, ok := a.site()
	if !ok {
		return StateUnknown
	}
	return MapAlarmState(site.Status)
}

func (a *AlarmPanel) ExtraAttributes() map[string]any {
	site, _ := a.site()
	return map[string]any{
		"site_id":   a.siteID,
		"site_name": site.Name,
	}
}

// Disarm sends the disarm command and, on success, forces one refresh.
func (a *AlarmPanel) Disarm(ctx context.Context) error {
	return a.perform(ctx, "disarm", func(ctx context.Context) (bool, error) {
		return a.service.Disarm(ctx, a.siteID)
	})
}

// ArmHome arms the site in stay mode.
func (a *AlarmPanel) ArmHome(ctx context.Context) error {
	return a.perform(ctx, "arm home", func(ctx context.Context) (bool, error) {
		return a.service.ArmHome(ctx, a.siteID)
	})
}

// ArmAway arms the site in away mode.
func (a *AlarmPanel) ArmAway(ctx context.Context) error {
	return a.perform(ctx, "arm away", func(ctx context.Context) (bool, error) {
		return a.service.ArmAway(ctx, a.siteID, false)
	})
}

// ArmAwayWithBypass arms away, forcing open zones to be bypassed.
func (a *AlarmPanel) ArmAwayWithBypass(ctx context.Context) error {
	return a.perform(ctx, "force arm", func(ctx context.Context) (bool, error) {
		return a.service.ArmAway(ctx, a.siteID, true)
	})
}

// Commands are not mutually excluded here; the portal serializes conflicting
// commands. A refused or failed command leaves the displayed state alone
// until the next natural poll.
func (a *AlarmPanel) perform(ctx context.Context, action string, fn func(context.Context) (bool, error)) error {
	log.Debug("alarm command", "action", action, "site", a.siteID)
	ok, err := fn(ctx)
	if err != nil {
		return fmt.Errorf("could not %s %q: %w", action, a.name, err)
	}
	if !ok {
		log.Warn("alarm command refused", "action", action, "site", a.siteID)
		return nil
	}
	return a.coordinator.Refresh(ctx)
}
