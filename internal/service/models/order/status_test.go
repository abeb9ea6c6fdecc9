package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusPreparing, StatusCancelled},
		StatusPreparing: {StatusReady},
		StatusReady:     {StatusCompleted},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	all := []Status{
		StatusPending, StatusConfirmed, StatusPreparing,
		StatusReady, StatusCompleted, StatusCancelled,
	}

	for from, targets := range allowed {
		allowedSet := make(map[Status]bool, len(targets))
		for _, target := range targets {
			allowedSet[target] = true
		}

		for _, to := range all {
			assert.Equal(t, allowedSet[to], from.CanTransitionTo(to),
				"%s -> %s", from, to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())

	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusPreparing.IsTerminal())
	assert.False(t, StatusReady.IsTerminal())
}

func TestNotifiesCustomer(t *testing.T) {
	assert.True(t, StatusPreparing.NotifiesCustomer())
	assert.True(t, StatusReady.NotifiesCustomer())
	assert.True(t, StatusCompleted.NotifiesCustomer())

	assert.False(t, StatusPending.NotifiesCustomer())
	assert.False(t, StatusConfirmed.NotifiesCustomer())
	assert.False(t, StatusCancelled.NotifiesCustomer())
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("preparing")
	assert.NoError(t, err)
	assert.Equal(t, StatusPreparing, status)

	_, err = ParseStatus("shipped")
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestPaymentStatusIsTerminal(t *testing.T) {
	assert.True(t, PaymentStatusCompleted.IsTerminal())

	assert.False(t, PaymentStatusPending.IsTerminal())
	assert.False(t, PaymentStatusFailed.IsTerminal())
	assert.False(t, PaymentStatusCancelled.IsTerminal())
}
