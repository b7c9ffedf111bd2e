package adtpulse

import "time"

// Vendor alarm status codes reported by the Pulse portal for a site. This is
// a closed vocabulary; anything else maps to StateUnknown.
const (
	StatusArming    = "arming"
	StatusAway      = "away"
	StatusDisarming = "disarming"
	StatusStay      = "stay"
	StatusDisarmed  = "disarmed"
	StatusUnknown   = "unknown"
)

// ZoneStatusOK is the activity status of a quiet zone. Any other status
// means the zone tripped.
const ZoneStatusOK = "OK"

// Snapshot is the last known remote state. It is owned by the Coordinator
// and replaced wholesale on every successful poll, never mutated in place.
type Snapshot struct {
	Sites         []Site
	GatewayOnline bool
	Taken         time.Time
}

// Site looks up a site by ID.
func (s *Snapshot) Site(id string) (Site, bool) {
	for _, site := range s.Sites {
		if site.ID == id {
			return site, true
		}
	}
	return Site{}, false
}

type Site struct {
	ID     string
	Name   string
	Status string
	Zones  map[string]Zone
}

type Zone struct {
	ID           string
	Name         string
	Tags         []string
	Status       string
	LastActivity time.Time
}

// Tripped reports whether the zone saw activity: any status but "OK".
func (z Zone) Tripped() bool {
	return z.Status != ZoneStatusOK
}
