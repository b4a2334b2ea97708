package treasury

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	"github.com/abya-university/ABYA-Ecosystem-sub001/events"
)

func TestTrusteeRegistry(t *testing.T) {
	f := newFixture(t, 0)
	_, ch := f.bus.SubscribeTypes(events.EventTrusteeAdded, events.EventTrusteeRevoked)

	count, err := f.svc.GetTrusteesCount()
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	newTrustee := addr(40)
	require.NoError(t, f.svc.AddTrustee(f.admin, newTrustee))

	err = f.svc.AddTrustee(f.admin, newTrustee)
	require.ErrorIs(t, err, ErrTrusteeExists)
	assert.Equal(t, "Trustee already exists", err.Error())

	ok, err := f.svc.IsTrustee(newTrustee)
	require.NoError(t, err)
	assert.True(t, ok)

	count, err = f.svc.GetTrusteesCount()
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	require.NoError(t, f.svc.RevokeTrustee(f.admin, newTrustee))
	err = f.svc.RevokeTrustee(f.admin, newTrustee)
	require.ErrorIs(t, err, ErrTrusteeNotFound)
	assert.Equal(t, "Trustee not found", err.Error())

	list, err := f.svc.ListTrustees()
	require.NoError(t, err)
	assert.ElementsMatch(t, f.trustees, list)

	assert.Equal(t, []events.EventType{events.EventTrusteeAdded, events.EventTrusteeRevoked}, drain(ch))
}

func TestTrusteeRegistryRequiresAdmin(t *testing.T) {
	f := newFixture(t, 0)

	tests := []struct {
		name string
		run  func() error
	}{
		{"add by trustee", func() error { return f.svc.AddTrustee(f.trustees[0], addr(41)) }},
		{"add by treasurer", func() error { return f.svc.AddTrustee(f.treasurer, addr(41)) }},
		{"revoke by outsider", func() error { return f.svc.RevokeTrustee(f.outsider, f.trustees[0]) }},
		{"grant treasurer by trustee", func() error { return f.svc.GrantTreasurer(f.trustees[0], addr(41)) }},
		{"add by empty caller", func() error { return f.svc.AddTrustee("", addr(41)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.run(), ErrUnauthorized)
		})
	}

	count, err := f.svc.GetTrusteesCount()
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestTreasurerRoleManagement(t *testing.T) {
	f := newFixture(t, 0)
	account := addr(60)

	require.NoError(t, f.svc.GrantTreasurer(f.admin, account))
	require.ErrorIs(t, f.svc.GrantTreasurer(f.admin, account), ErrTreasurerExists)

	treasurers, err := f.svc.ListTreasurers()
	require.NoError(t, err)
	assert.ElementsMatch(t, []common.Address{f.treasurer, account}, treasurers)

	require.NoError(t, f.svc.RevokeTreasurer(f.admin, account))
	require.ErrorIs(t, f.svc.RevokeTreasurer(f.admin, account), ErrTreasurerNotFound)
	require.ErrorIs(t, f.svc.AddTrustee(f.admin, ""), ErrInvalidAddress)
}

func TestRolesOf(t *testing.T) {
	f := newFixture(t, 0)

	roles, err := f.svc.RolesOf(f.admin)
	require.NoError(t, err)
	assert.Equal(t, []Role{RoleAdmin}, roles)

	require.NoError(t, f.svc.GrantTreasurer(f.admin, f.trustees[0]))
	roles, err = f.svc.RolesOf(f.trustees[0])
	require.NoError(t, err)
	assert.Equal(t, []Role{RoleTrustee, RoleTreasurer}, roles)

	roles, err = f.svc.RolesOf(f.outsider)
	require.NoError(t, err)
	assert.Empty(t, roles)
}
