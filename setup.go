package adtpulse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slices"
)

// ValidateCredentials logs in, reads the first site for the entry title, and
// always logs out again, success or failure. Credential rejection surfaces
// as ErrInvalidAuth, everything else as ErrCannotConnect, never conflated.
func ValidateCredentials(ctx context.Context, service Service) (title string, err error) {
	defer func() {
		if lerr := service.Logout(ctx); lerr != nil {
			log.Warn("could not logout after validation", "err", lerr)
		}
	}()

	if err := service.Login(ctx); err != nil {
		if errors.Is(err, ErrInvalidAuth) || errors.Is(err, ErrCannotConnect) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrCannotConnect, err)
	}
	snap, err := service.FetchSnapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCannotConnect, err)
	}
	if len(snap.Sites) == 0 {
		return "", fmt.Errorf("%w: portal returned no sites", ErrCannotConnect)
	}
	return "ADT: Site " + snap.Sites[0].ID, nil
}

// Integration bundles the running coordinator and the entities built from
// the first snapshot.
type Integration struct {
	Coordinator *Coordinator
	Panels      []*AlarmPanel
	Zones       []*ZoneSensor
	Gateway     *GatewaySensor

	service Service
}

// Setup logs in, runs the first poll cycle, builds the entities, and starts
// the recurring refresh. A failed first poll is fatal; a zone that cannot be
// classified is skipped without failing the rest of its site.
func Setup(ctx context.Context, service Service, interval time.Duration) (*Integration, error) {
	if err := service.Login(ctx); err != nil {
		return nil, err
	}

	coordinator := NewCoordinator(service, interval)
	if err := coordinator.Refresh(ctx); err != nil {
		if lerr := service.Logout(ctx); lerr != nil {
			log.Warn("could not logout", "err", lerr)
		}
		return nil, fmt.Errorf("initial refresh failed: %w", err)
	}

	snap := coordinator.Data()
	integration := &Integration{
		Coordinator: coordinator,
		service:     service,
	}
	for _, site := range snap.Sites {
		integration.Panels = append(integration.Panels, NewAlarmPanel(coordinator, service, site))

		ids := make([]string, 0, len(site.Zones))
		for id := range site.Zones {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			sensor, err := NewZoneSensor(coordinator, site, site.Zones[id])
			if err != nil {
				var cerr *ClassificationError
				if errors.As(err, &cerr) {
					log.Warn("ignoring unsupported sensor", "site", site.ID, "zone", cerr.Zone, "tags", cerr.Tags)
					continue
				}
				return nil, err
			}
			integration.Zones = append(integration.Zones, sensor)
		}
	}
	if len(snap.Sites) > 0 {
		integration.Gateway = NewGatewaySensor(coordinator, service, snap.Sites[0])
	}

	coordinator.Start(ctx)
	return integration, nil
}

// Close tears the integration down: the recurring poll stops, listener
// registrations are released, and the session is closed.
func (i *Integration) Close(ctx context.Context) error {
	i.Coordinator.Stop()
	if err := i.service.Logout(ctx); err != nil {
		return fmt.Errorf("could not close integration: %w", err)
	}
	return nil
}
