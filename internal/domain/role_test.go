package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  Role
	}{
		{"LISTENER", RoleListener},
		{"listener", RoleListener},
		{"  Specialist ", RoleSpecialist},
		{"SPECIALIST", RoleSpecialist},
	}
	for _, tc := range cases {
		role, err := ParseRole(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, role)
	}

	for _, bad := range []string{"", "admin", "LISTENERS"} {
		_, err := ParseRole(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseApplicationStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseApplicationStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, ApplicationApproved, status)

	_, err = ParseApplicationStatus("cancelled")
	assert.Error(t, err)
}

func TestComputePercent(t *testing.T) {
	t.Parallel()

	t.Run("two halves", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 50.0, ComputePercent(2, 4, 1, 2), 1e-9)
	})

	t.Run("complete course", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 100.0, ComputePercent(4, 4, 2, 2), 1e-9)
	})

	t.Run("zero denominators contribute zero", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 0.0, ComputePercent(0, 0, 0, 0), 1e-9)
		assert.InDelta(t, 50.0, ComputePercent(3, 3, 0, 0), 1e-9)
		assert.InDelta(t, 25.0, ComputePercent(0, 0, 1, 2), 1e-9)
	})
}
