package adtpulse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestZoneSensorTrippedAndIcon(t *testing.T) {
	svc := &fakeService{snapshot: testSnapshot()}
	c := NewCoordinator(svc, time.Minute)
	require.NoError(t, c.Refresh(context.Background()))

	site, _ := c.Data().Site("site-1")
	sensor, err := NewZoneSensor(c, site, site.Zones["sensor-2"])
	require.NoError(t, err)

	require.Equal(t, "Hallway", sensor.Name())
	require.Equal(t, "adt_pulse_sensor_site-1_sensor-2", sensor.UniqueID())
	require.Equal(t, CategoryMotion, sensor.Category())
	require.False(t, sensor.IsOn())
	require.Equal(t, "mdi:motion-sensor", sensor.Icon())

	next := testSnapshot()
	zone := next.Sites[0].Zones["sensor-2"]
	zone.Status = "Motion"
	zone.LastActivity = time.UnixMilli(1569078085275)
	next.Sites[0].Zones["sensor-2"] = zone
	svc.setSnapshot(next)
	require.NoError(t, c.Refresh(context.Background()))

	require.True(t, sensor.IsOn())
	require.Equal(t, "mdi:run-fast", sensor.Icon())
	require.Equal(t, time.UnixMilli(1569078085275), sensor.LastActivity())
	require.Equal(t, "Motion", sensor.ExtraAttributes()["status"])
}

func TestNewZoneSensorRejectsUnclassifiable(t *testing.T) {
	svc := &fakeService{snapshot: testSnapshot()}
	c := NewCoordinator(svc, time.Minute)
	require.NoError(t, c.Refresh(context.Background()))
	site, _ := c.Data().Site("site-1")

	_, err := NewZoneSensor(c, site, Zone{
		ID:   "sensor-9",
		Name: "Mystery",
		Tags: []string{"motion"},
	})
	var cerr *ClassificationError
	require.ErrorAs(t, err, &cerr)
}

func TestGatewaySensor(t *testing.T) {
	svc := &fakeService{snapshot: testSnapshot()}
	c := NewCoordinator(svc, time.Minute)

	site := Site{ID: "site-1"}
	gateway := NewGatewaySensor(c, svc, site)

	// offline until the first successful poll
	require.False(t, gateway.IsOn())
	require.Equal(t, "mdi:lan-disconnect", gateway.Icon())

	require.NoError(t, c.Refresh(context.Background()))
	require.True(t, gateway.IsOn())
	require.Equal(t, "mdi:lan-connect", gateway.Icon())
	require.Equal(t, "ADT Pulse Gateway for tester@example.com", gateway.Name())
	require.Equal(t, "adt_pulse_gateway_connection_site-1", gateway.UniqueID())

	next := testSnapshot()
	next.GatewayOnline = false
	svc.setSnapshot(next)
	require.NoError(t, c.Refresh(context.Background()))
	require.False(t, gateway.IsOn())
}
