package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition_AllowedMoves(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
	}{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusInProgress},
		{StatusConfirmed, StatusInProgress},
		{StatusInProgress, StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.NoError(t, ValidateTransition(tt.from, tt.to))
		})
	}
}

func TestValidateTransition_IllegalMoves(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
	}{
		{StatusCompleted, StatusInProgress}, // движение назад
		{StatusCompleted, StatusPending},
		{StatusInProgress, StatusConfirmed},
		{StatusInProgress, StatusPending},
		{StatusConfirmed, StatusPending},
		{StatusPending, StatusCompleted}, // завершение в обход in_progress
		{StatusConfirmed, StatusCompleted},
		{StatusPending, StatusPending}, // переход в себя не определен таблицей
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.ErrorIs(t, ValidateTransition(tt.from, tt.to), ErrInvalidTransition)
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestIsValidInitialStatus(t *testing.T) {
	assert.True(t, StatusPending.IsValidInitialStatus())
	assert.True(t, StatusConfirmed.IsValidInitialStatus())
	assert.True(t, StatusInProgress.IsValidInitialStatus())
	assert.False(t, StatusCompleted.IsValidInitialStatus())
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, status)

	_, err = ParseStatus("cancelled")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestParseSettlementMethod(t *testing.T) {
	method, err := ParseSettlementMethod("instant_payment")
	require.NoError(t, err)
	assert.Equal(t, SettlementInstantPayment, method)

	_, err = ParseSettlementMethod("cheque")
	assert.ErrorIs(t, err, ErrUnknownSettlementMethod)
}

func TestDayScheduleValidate(t *testing.T) {
	valid := DaySchedule{Open: true, Start: "09:00", End: "18:00", HasBreak: true, BreakStart: "12:00", BreakEnd: "13:00"}
	assert.NoError(t, valid.Validate())

	closed := DaySchedule{Open: false}
	assert.NoError(t, closed.Validate())

	inverted := DaySchedule{Open: true, Start: "18:00", End: "09:00"}
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidSchedule)

	breakOutside := DaySchedule{Open: true, Start: "09:00", End: "18:00", HasBreak: true, BreakStart: "08:00", BreakEnd: "09:30"}
	assert.ErrorIs(t, breakOutside.Validate(), ErrInvalidSchedule)

	breakInverted := DaySchedule{Open: true, Start: "09:00", End: "18:00", HasBreak: true, BreakStart: "13:00", BreakEnd: "12:00"}
	assert.ErrorIs(t, breakInverted.Validate(), ErrInvalidSchedule)
}

func TestAppointmentProductsTotal(t *testing.T) {
	a := Appointment{
		Products: []ProductSale{
			{Quantity: 2, UnitPrice: 15.0},
			{Quantity: 1, UnitPrice: 49.9},
		},
	}
	assert.InDelta(t, 79.9, a.ProductsTotal(), 1e-9)
}
