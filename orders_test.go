package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPriceBreakdown(t *testing.T) {
	assert.NoError(t, checkPriceBreakdown(200, 36, 99, 335))
	assert.NoError(t, checkPriceBreakdown(0.1, 0.2, 0, 0.3), "tolerates float rounding")
	assert.Error(t, checkPriceBreakdown(200, 36, 99, 300))
}

func TestApplyPayment(t *testing.T) {
	now := time.Now()
	o := Order{Status: statusPending}
	result := PaymentResult{ID: "PAY-1", Status: "COMPLETED", EmailAddress: "b@shopnellore.in"}

	applyPayment(&o, result, now)
	assert.True(t, o.IsPaid)
	require.NotNil(t, o.PaidAt)
	assert.Equal(t, now, *o.PaidAt)
	require.NotNil(t, o.PaymentResult)
	assert.Equal(t, result, *o.PaymentResult)
	assert.Equal(t, statusPending, o.Status, "payment flags the order, it does not move the status")

	// A paid, undelivered order lands in the paid bucket.
	_, paid, _ := orderStatusCounts([]Order{o})
	assert.Equal(t, 1, paid)
}

func TestApplyStatusChangeDelivered(t *testing.T) {
	now := time.Now()
	o := Order{Status: statusPending, CancelReason: "stale"}

	require.NoError(t, applyStatusChange(&o, statusDelivered, "", now))
	assert.Equal(t, statusDelivered, o.Status)
	assert.True(t, o.IsDelivered)
	require.NotNil(t, o.DeliveredAt)
	assert.Equal(t, now, *o.DeliveredAt)
	assert.Empty(t, o.CancelReason, "delivery clears any cancel reason")
}

func TestApplyStatusChangeCancelled(t *testing.T) {
	o := Order{Status: statusPending}

	require.NoError(t, applyStatusChange(&o, statusCancelled, "customer request", time.Now()))
	assert.Equal(t, statusCancelled, o.Status)
	assert.Equal(t, "customer request", o.CancelReason)
	assert.False(t, o.IsDelivered)
	assert.Nil(t, o.DeliveredAt)
}

func TestApplyStatusChangeCancelRequiresReason(t *testing.T) {
	o := Order{Status: statusPending}
	err := applyStatusChange(&o, statusCancelled, "", time.Now())
	require.Error(t, err)
	assert.Equal(t, statusPending, o.Status)
}

func TestApplyStatusChangeRejectsUnknownStatus(t *testing.T) {
	o := Order{Status: statusPending}
	err := applyStatusChange(&o, "shipped", "", time.Now())
	assert.ErrorIs(t, err, errInvalidStatus)
	assert.Equal(t, statusPending, o.Status)
}

func TestApplyStatusChangeIsTerminal(t *testing.T) {
	for _, terminal := range []string{statusDelivered, statusCancelled} {
		o := Order{Status: terminal}
		assert.Error(t, applyStatusChange(&o, statusDelivered, "", time.Now()), terminal)
		assert.Error(t, applyStatusChange(&o, statusCancelled, "r", time.Now()), terminal)
		assert.Equal(t, terminal, o.Status)
	}
}
