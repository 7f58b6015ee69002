package services

type eventDeps struct {
	rt *RealtimeHub
}

var _events eventDeps

func InitEventDeps(rt *RealtimeHub) {
	_events = eventDeps{rt: rt}
}

// EmitEvent fans an event out to the user's open websocket clients.
// Safe to call anywhere; a no-op before InitEventDeps.
func EmitEvent(userID uint, kind string, payload any) {
	if _events.rt == nil {
		return
	}
	_events.rt.Broadcast(userID, map[string]any{
		"event": kind,
		"data":  payload,
	})
}
