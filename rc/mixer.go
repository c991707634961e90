package rc

// Mix converts throttle and steering into left and right motor commands, each clamped to
// [-limit, limit]. A lost signal, or a zero throttle or steering width, is a hard stop with the
// headlight off. The offsets use independent neutrals and no scaling, so steering and throttle
// have the same gain:
//
//	left  =  (throttle - neutralThrottle) - (steering - neutralSteering)
//	right = -(throttle - neutralThrottle) - (steering - neutralSteering)
//
// The headlight is a threshold switch: aux above the throttle neutral turns it on.
func Mix(v ChannelValues, cal Calibration, limit int16) Command {
	if !v.Valid || v.Throttle == 0 || v.Steering == 0 {
		return Command{}
	}

	dt := int32(v.Throttle) - int32(cal.NeutralThrottle)
	ds := int32(v.Steering) - int32(cal.NeutralSteering)

	return Command{
		Left:     clamp(dt-ds, limit),
		Right:    clamp(-dt-ds, limit),
		HighBeam: v.Aux > cal.NeutralThrottle,
	}
}

func clamp(v int32, limit int16) int16 {
	switch {
	case v > int32(limit):
		return limit
	case v < -int32(limit):
		return -limit
	default:
		return int16(v)
	}
}

// Speed scales the magnitude of a motor command from [0, limit] to [0, full]. Drivers use it to turn a
// command into a duty cycle; the sign picks the direction
func Speed(v, limit int16, full uint32) uint32 {
	if limit <= 0 {
		return 0
	}

	magnitude := int32(v)
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if magnitude > int32(limit) {
		magnitude = int32(limit)
	}

	return uint32(uint64(magnitude) * uint64(full) / uint64(limit))
}
