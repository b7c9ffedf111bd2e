package adtpulse

// AlarmState is the normalized alarm vocabulary exposed to consumers,
// abstracting away the portal's status strings.
type AlarmState uint8

const (
	StateUnknown AlarmState = iota
	StateArming
	StateArmedAway
	StateArmedHome
	StateDisarming
	StateDisarmed
)

func (s AlarmState) String() string {
	switch s {
	case StateArming:
		return "arming"
	case StateArmedAway:
		return "armed_away"
	case StateArmedHome:
		return "armed_home"
	case StateDisarming:
		return "disarming"
	case StateDisarmed:
		return "disarmed"
	default:
		return "unknown"
	}
}

// MapAlarmState maps a vendor site status code to its normalized state.
// Total over any input: codes outside the closed set map to StateUnknown.
func MapAlarmState(code string) AlarmState {
	switch code {
	case StatusArming:
		return StateArming
	case StatusAway:
		return StateArmedAway
	case StatusDisarming:
		return StateDisarming
	case StatusStay:
		return StateArmedHome
	case StatusDisarmed:
		return StateDisarmed
	default:
		return StateUnknown
	}
}
