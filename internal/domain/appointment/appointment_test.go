package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusRequested, StatusAccepted, true},
		{StatusRequested, StatusRefused, true},
		{StatusAccepted, StatusRefused, false},
		{StatusAccepted, StatusRequested, false},
		{StatusRefused, StatusAccepted, false},
		{StatusRefused, StatusRequested, false},
	}

	for _, tc := range cases {
		a := &Appointment{Status: tc.from}
		assert.Equal(t, tc.allowed, a.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestAcceptAndRefuse(t *testing.T) {
	a := &Appointment{Status: StatusRequested}
	assert.NoError(t, a.Accept())
	assert.Equal(t, StatusAccepted, a.Status)

	assert.ErrorIs(t, a.Refuse(), ErrInvalidStatusTransition)
	assert.Equal(t, StatusAccepted, a.Status)

	b := &Appointment{Status: StatusRequested}
	assert.NoError(t, b.Refuse())
	assert.ErrorIs(t, b.Accept(), ErrInvalidStatusTransition)
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusRequested.IsTerminal())
	assert.True(t, StatusAccepted.IsTerminal())
	assert.True(t, StatusRefused.IsTerminal())
}
