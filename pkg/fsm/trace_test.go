package fsm

import "testing"

func TestTraceFormat(t *testing.T) {
	origin := traceOrigin("Dimmer", "Set(0)")

	if got, want := dispatchTrace("LightHsm", origin, "Dimmer"), "LightHsm: Dimmer(Set(0)): handled by Dimmer"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if got, want := dispatchTrace("LightHsm", origin, ""), "LightHsm: Dimmer(Set(0)): unhandled"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	got := transitionTrace("LightHsm", origin, []string{"Dimmer", "On"}, []string{"Off"}, "Off")
	want := "LightHsm: Dimmer(Set(0)): [Dimmer(EXIT), On(EXIT)], [Off(ENTER), Off(START)]"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	got = transitionTrace("LightHsm", "INIT", nil, nil, "Top")
	if want := "LightHsm: INIT: [], [Top(START)]"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
