package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Owner ")
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, r)

	r, err = ParseRole("teacher")
	require.NoError(t, err)
	assert.True(t, r.IsLegacy())

	_, err = ParseRole("landlord")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestDashboardPath(t *testing.T) {
	cases := map[Role]string{
		RoleAdmin:   "/admin/dashboard",
		RoleOwner:   "/owner/dashboard",
		RoleClient:  "/client/dashboard",
		RoleAgent:   "/agent/dashboard",
		RoleTeacher: LoginPath,
		Role(""):    LoginPath,
	}
	for role, want := range cases {
		assert.Equal(t, want, DashboardPath(role), "role %q", role)
	}
}

func TestParseRoleSet(t *testing.T) {
	set, err := ParseRoleSet("admin, owner,,client")
	require.NoError(t, err)
	assert.True(t, set.Has(RoleAdmin))
	assert.True(t, set.Has(RoleClient))
	assert.False(t, set.Has(RoleAgent))

	_, err = ParseRoleSet("admin,root")
	assert.Error(t, err)
}

func TestDecimalUnmarshal(t *testing.T) {
	var p Property
	require.NoError(t, json.Unmarshal([]byte(`{"price":"250000.50","surface":84,"rooms":3}`), &p))
	assert.Equal(t, 250000.5, p.Price.Float64())
	assert.Equal(t, 84.0, p.Surface.Float64())
	assert.Equal(t, "250000.5", p.Price.String())

	var empty Property
	require.NoError(t, json.Unmarshal([]byte(`{"price":null,"surface":""}`), &empty))
	assert.Zero(t, empty.Price)
	assert.Zero(t, empty.Surface)

	assert.Error(t, json.Unmarshal([]byte(`{"price":"cheap"}`), &empty))
}

func TestParseVisitStatus(t *testing.T) {
	s, err := ParseVisitStatus("Confirmed")
	require.NoError(t, err)
	assert.Equal(t, VisitConfirmed, s)

	_, err = ParseVisitStatus("done")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
