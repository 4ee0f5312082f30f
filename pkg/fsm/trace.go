package fsm

import "strings"

// Trace strings are diagnostic only. A dispatch renders as
//
//	LightHsm: Dimmer(Set(0)): handled by Dimmer
//
// and a transition as
//
//	LightHsm: Dimmer(Set(0)): [Dimmer(EXIT), On(EXIT)], [Off(ENTER), Off(START)]

func traceOrigin(state, event string) string {
	return state + "(" + event + ")"
}

func dispatchTrace(engine, origin, handledBy string) string {
	if handledBy == "" {
		return engine + ": " + origin + ": unhandled"
	}
	return engine + ": " + origin + ": handled by " + handledBy
}

func transitionTrace(engine, origin string, exited, entered []string, started string) string {
	var b strings.Builder
	b.WriteString(engine)
	b.WriteString(": ")
	b.WriteString(origin)
	b.WriteString(": [")
	for i, name := range exited {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString("(EXIT)")
	}
	b.WriteString("], [")
	for _, name := range entered {
		b.WriteString(name)
		b.WriteString("(ENTER), ")
	}
	b.WriteString(started)
	b.WriteString("(START)]")
	return b.String()
}

// Personal.AI order the ending
