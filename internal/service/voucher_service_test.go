package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	dom "hubplus/internal/domain"
	"hubplus/internal/repo/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVoucherFixture(t *testing.T) (*VoucherService, *repotest.Vouchers, dom.Campaign) {
	t.Helper()
	campaigns := repotest.NewCampaigns()
	c, err := campaigns.Create(context.Background(), dom.Campaign{Name: "promo", Channel: dom.ChannelEmail})
	require.NoError(t, err)

	vouchers := repotest.NewVouchers()
	svc := NewVoucherService(vouchers, campaigns, nil)
	n := 0
	svc.newCode = func() string {
		n++
		return fmt.Sprintf("CODE%08d", n)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, vouchers, c
}

func TestNewVoucherCode(t *testing.T) {
	code := NewVoucherCode()
	assert.Len(t, code, 12)
	assert.Regexp(t, `^[0-9A-F]{12}$`, code)
	assert.NotEqual(t, code, NewVoucherCode())
}

func TestVoucherGenerateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, c := newVoucherFixture(t)
	past := svc.now().Add(-time.Second)

	cases := []struct {
		name    string
		count   int
		value   int64
		expires *time.Time
		field   string
	}{
		{"zero count", 0, 100, nil, "count"},
		{"too many", MaxVoucherBatch + 1, 100, nil, "count"},
		{"free voucher", 1, 0, nil, "value_cents"},
		{"already expired", 1, 100, &past, "expires_at"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Generate(ctx, 1, c.ID, tc.count, tc.value, tc.expires)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	_, err := svc.Generate(ctx, 1, 404, 1, 100, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVoucherGenerateRetriesCollision(t *testing.T) {
	ctx := context.Background()
	svc, vouchers, c := newVoucherFixture(t)

	vouchers.FailNext(1)
	out, err := svc.Generate(ctx, 1, c.ID, 3, 500, nil)
	require.NoError(t, err)
	assert.Len(t, out, 3)

	vouchers.FailNext(2)
	_, err = svc.Generate(ctx, 1, c.ID, 3, 500, nil)
	assert.ErrorIs(t, err, ErrConflict)

	list, err := svc.ListByCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestVoucherRedeem(t *testing.T) {
	ctx := context.Background()
	svc, _, c := newVoucherFixture(t)
	out, err := svc.Generate(ctx, 1, c.ID, 1, 500, nil)
	require.NoError(t, err)
	code := out[0].Code

	v, err := svc.Redeem(ctx, 7, "  "+strings.ToLower(code)+" ")
	require.NoError(t, err)
	assert.Equal(t, dom.VoucherRedeemed, v.Status)
	require.NotNil(t, v.RedeemedBy)
	assert.EqualValues(t, 7, *v.RedeemedBy)

	_, err = svc.Redeem(ctx, 8, code)
	assert.ErrorIs(t, err, ErrVoucherUnavailable)

	_, err = svc.Redeem(ctx, 8, "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVoucherRedeemExpired(t *testing.T) {
	ctx := context.Background()
	svc, _, c := newVoucherFixture(t)
	expires := svc.now().Add(time.Hour)
	out, err := svc.Generate(ctx, 1, c.ID, 1, 500, &expires)
	require.NoError(t, err)

	later := expires.Add(time.Minute)
	svc.now = func() time.Time { return later }
	_, err = svc.Redeem(ctx, 7, out[0].Code)
	assert.ErrorIs(t, err, ErrVoucherExpired)
}

func TestVoucherVoid(t *testing.T) {
	ctx := context.Background()
	svc, _, c := newVoucherFixture(t)
	out, err := svc.Generate(ctx, 1, c.ID, 1, 500, nil)
	require.NoError(t, err)

	v, err := svc.Void(ctx, 1, out[0].Code)
	require.NoError(t, err)
	assert.Equal(t, dom.VoucherVoid, v.Status)

	_, err = svc.Void(ctx, 1, out[0].Code)
	assert.ErrorIs(t, err, ErrVoucherUnavailable)
	_, err = svc.Redeem(ctx, 7, out[0].Code)
	assert.ErrorIs(t, err, ErrVoucherUnavailable)
	_, err = svc.Void(ctx, 1, "MISSING")
	assert.ErrorIs(t, err, ErrNotFound)
}
