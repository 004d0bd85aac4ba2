package service

import (
	"context"
	"testing"

	"hubplus/internal/repo/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestrictedAddressCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewRestrictedAddressService(repotest.NewRestricted(), nil)

	var verr *ValidationError
	_, err := svc.Create(ctx, 1, " -- ", "12345", "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "address_line1", verr.Field)
	_, err = svc.Create(ctx, 1, "1 Main St", "", "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "postal_code", verr.Field)

	a, err := svc.Create(ctx, 1, "12 North Main Street", "12345-6789", " complaint ")
	require.NoError(t, err)
	assert.Equal(t, "12 N MAIN ST|12345", a.MatchKey)
	assert.Equal(t, "complaint", a.Reason)

	_, err = svc.Create(ctx, 1, "12 n. main st.", "12345", "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRestrictedAddressCheck(t *testing.T) {
	ctx := context.Background()
	svc := NewRestrictedAddressService(repotest.NewRestricted(), nil)

	hit, err := svc.Check(ctx, "5 Elm Ave", "99999")
	require.NoError(t, err)
	assert.Nil(t, hit)

	a, err := svc.Create(ctx, 1, "5 Elm Avenue", "99999", "")
	require.NoError(t, err)

	hit, err = svc.Check(ctx, "5 ELM AVE", "99999-0001")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, a.ID, hit.ID)

	_, err = svc.Check(ctx, "", "99999")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, svc.Delete(ctx, 1, a.ID))
	hit, err = svc.Check(ctx, "5 Elm Ave", "99999")
	require.NoError(t, err)
	assert.Nil(t, hit)
	assert.ErrorIs(t, svc.Delete(ctx, 1, a.ID), ErrNotFound)
}

func TestRestrictedAddressListPaging(t *testing.T) {
	ctx := context.Background()
	svc := NewRestrictedAddressService(repotest.NewRestricted(), nil)
	for _, line := range []string{"1 A St", "2 B St", "3 C St"} {
		_, err := svc.Create(ctx, 1, line, "10001", "")
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, 0, -5)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := svc.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "3 C St", page[0].AddressLine1)
}
