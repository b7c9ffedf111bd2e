package adtpulse

import "time"

// JSON payloads of the Pulse portal API.

type loginRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Fingerprint string `json:"fingerprint"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type summaryResponse struct {
	Sites         []siteJSON `json:"sites"`
	GatewayOnline bool       `json:"gatewayOnline"`
}

type siteJSON struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Status string     `json:"status"`
	Zones  []zoneJSON `json:"zones"`
}

// zone payloads look like:
//
//	{"id": "sensor-12", "name": "South Office Motion",
//	 "tags": ["sensor", "motion"], "status": "Motion",
//	 "activityTs": 1569078085275}
type zoneJSON struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
	ActivityTs int64    `json:"activityTs"`
}

type armRequest struct {
	Mode        string `json:"mode"`
	ForceBypass bool   `json:"forceBypass,omitempty"`
}

type commandResponse struct {
	Success bool `json:"success"`
}

func (s summaryResponse) snapshot() *Snapshot {
	snap := &Snapshot{
		GatewayOnline: s.GatewayOnline,
		Taken:         time.Now(),
	}
	for _, site := range s.Sites {
		zones := make(map[string]Zone, len(site.Zones))
		for _, z := range site.Zones {
			zones[z.ID] = Zone{
				ID:           z.ID,
				Name:         z.Name,
				Tags:         z.Tags,
				Status:       z.Status,
				LastActivity: time.UnixMilli(z.ActivityTs),
			}
		}
		snap.Sites = append(snap.Sites, Site{
			ID:     site.ID,
			Name:   site.Name,
			Status: site.Status,
			Zones:  zones,
		})
	}
	return snap
}
