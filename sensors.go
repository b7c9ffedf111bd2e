package adtpulse

import "time"

// ZoneSensor exposes one monitored zone as a boolean sensor: tripped if the
// zone's activity status is anything but "OK". The category is fixed at
// construction (tags are effectively static), but the icon is re-derived
// from current activity on every read.
type ZoneSensor struct {
	coordinator *Coordinator
	siteID      string
	zoneID      string
	name        string
	category    SensorCategory
}

// NewZoneSensor classifies the zone and builds its sensor. A zone whose tags
// cannot be classified returns a *ClassificationError and gets no sensor.
func NewZoneSensor(coordinator *Coordinator, site Site, zone Zone) (*ZoneSensor, error) {
	category, err := Classify(zone.Tags, zone.Name)
	if err != nil {
		return nil, err
	}
	log.Debug("classified zone", "zone", zone.Name, "category", category, "tags", zone.Tags)
	return &ZoneSensor{
		coordinator: coordinator,
		siteID:      site.ID,
		zoneID:      zone.ID,
		name:        zone.Name,
		category:    category,
	}, nil
}

func (s *ZoneSensor) Name() string             { return s.name }
func (s *ZoneSensor) UniqueID() string         { return "adt_pulse_sensor_" + s.siteID + "_" + s.zoneID }
func (s *ZoneSensor) Category() SensorCategory { return s.category }

func (s *ZoneSensor) zone() (Zone, bool) {
	snap := s.coordinator.Data()
	if snap == nil {
		return Zone{}, false
	}
	site, ok := snap.Site(s.siteID)
	if !ok {
		return Zone{}, false
	}
	zone, ok := site.Zones[s.zoneID]
	return zone, ok
}

// IsOn reports whether the zone is tripped.
func (s *ZoneSensor) IsOn() bool {
	zone, ok := s.zone()
	return ok && zone.Tripped()
}

// Icon returns the category icon for the zone's current activity.
func (s *ZoneSensor) Icon() string {
	return s.category.Icon(s.IsOn())
}

// LastActivity returns the zone's last activity timestamp.
func (s *ZoneSensor) LastActivity() time.Time {
	zone, _ := s.zone()
	return zone.LastActivity
}

func (s *ZoneSensor) ExtraAttributes() map[string]any {
	zone, _ := s.zone()
	return map[string]any{
		"status":        zone.Status,
		"last_activity": zone.LastActivity,
	}
}

// GatewaySensor exposes the connectivity of the account's Pulse gateway.
// One gateway per account is an invariant of this design: the first site
// keys the unique ID, and exactly one sensor exists per connected service.
type GatewaySensor struct {
	coordinator *Coordinator
	username    string
	siteID      string
}

func NewGatewaySensor(coordinator *Coordinator, service Service, site Site) *GatewaySensor {
	return &GatewaySensor{
		coordinator: coordinator,
		username:    service.Username(),
		siteID:      site.ID,
	}
}

func (g *GatewaySensor) Name() string {
	return "ADT Pulse Gateway for " + g.username
}

func (g *GatewaySensor) UniqueID() string {
	return "adt_pulse_gateway_connection_" + g.siteID
}

// IsOn reports whether the gateway is online. Before the first successful
// poll the gateway counts as offline.
func (g *GatewaySensor) IsOn() bool {
	snap := g.coordinator.Data()
	return snap != nil && snap.GatewayOnline
}

func (g *GatewaySensor) Icon() string {
	if g.IsOn() {
		return "mdi:lan-connect"
	}
	return "mdi:lan-disconnect"
}
