package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/turtacn/Hierarch/pkg/errors"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"config", errors.New(errors.ErrCodeConfigInvalid, "Load", "cannot read config", nil), exitConfig},
		{"wrapped event", fmt.Errorf("scenario: %w", errors.Newf(errors.ErrCodeUnknownEvent, "ParseEvent", "no event Explode")), exitConfig},
		{"engine", errors.Newf(errors.ErrCodeCascadeLimit, "Dispatch", "too deep"), exitFailure},
		{"plain", context.Canceled, exitFailure},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("%s: expected exit code %d, got %d", tc.name, tc.want, got)
		}
	}
}
