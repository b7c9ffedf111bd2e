package adtpulse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestPanel(t *testing.T, svc *fakeService) (*AlarmPanel, *Coordinator) {
	t.Helper()
	c := NewCoordinator(svc, time.Minute)
	require.NoError(t, c.Refresh(context.Background()))
	site, ok := c.Data().Site("site-1")
	require.True(t, ok)
	return NewAlarmPanel(c, svc, site), c
}

func TestAlarmPanelState(t *testing.T) {
	svc := &fakeService{snapshot: testSnapshot()}
	panel, c := newTestPanel(t, svc)

	require.Equal(t, StateDisarmed, panel.State())
	require.Equal(t, "ADT Home", panel.Name())
	require.Equal(t, "adt_pulse_alarm_site-1", panel.UniqueID())
	require.Equal(t, "mdi:security", panel.Icon())

	next := testSnapshot()
	next.Sites[0].Status = StatusAway
	svc.setSnapshot(next)
	require.NoError(t, c.Refresh(context.Background()))
	require.Equal(t, StateArmedAway, panel.State())
}

func TestAlarmPanelCommandSuccessForcesOneRefresh(t *testing.T) {
	svc := &fakeService{snapshot: testSnapshot(), commandOK: true}
	panel, _ := newTestPanel(t, svc)

	fetchesBefore := svc.fetches.Load()
	require.NoError(t, panel.ArmAway(context.Background()))
	require.Equal(t, fetchesBefore+1, svc.fetches.Load())
	require.Equal(t, []string{"arm-away"}, svc.commands)
}

func TestAlarmPanelCommandFailure(t *testing.T) {
	svc := &fakeService{snapshot: testSnapshot(), commandErr: errors.New("boom")}
	panel, c := newTestPanel(t, svc)

	before := c.Data()
	fetchesBefore := svc.fetches.Load()
	err := panel.Disarm(context.Background())
	require.Error(t, err)
	require.Equal(t, fetchesBefore, svc.fetches.Load())
	require.Same(t, before, c.Data())
}

func TestAlarmPanelCommandRefused(t *testing.T) {
	svc := &fakeService{snapshot: testSnapshot(), commandOK: false}
	panel, _ := newTestPanel(t, svc)

	fetchesBefore := svc.fetches.Load()
	require.NoError(t, panel.ArmHome(context.Background()))
	require.Equal(t, fetchesBefore, svc.fetches.Load())
}

func TestAlarmPanelCommands(t *testing.T) {
	svc := &fakeService{snapshot: testSnapshot(), commandOK: true}
	panel, _ := newTestPanel(t, svc)

	ctx := context.Background()
	require.NoError(t, panel.Disarm(ctx))
	require.NoError(t, panel.ArmHome(ctx))
	require.NoError(t, panel.ArmAway(ctx))
	require.NoError(t, panel.ArmAwayWithBypass(ctx))
	require.Equal(t, []string{"disarm", "arm-home", "arm-away", "arm-away-bypass"}, svc.commands)
}

func TestAlarmPanelExtraAttributes(t *testing.T) {
	svc := &fakeService{snapshot: testSnapshot()}
	panel, _ := newTestPanel(t, svc)

	attrs := panel.ExtraAttributes()
	require.Equal(t, "site-1", attrs["site_id"])
	require.Equal(t, "Home", attrs["site_name"])
}
