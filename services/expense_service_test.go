package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExpense(t *testing.T) {
	svc := NewExpenseService(&fakeExpenseRepo{})

	expense, err := svc.CreateExpense(context.Background(), CreateExpenseInput{
		Description: "ground maintenance",
		Amount:      dec("1200"),
	})
	require.NoError(t, err)

	assert.NotZero(t, expense.ID)
	assert.False(t, expense.Date.IsZero())
}

func TestCreateExpense_Validation(t *testing.T) {
	svc := NewExpenseService(&fakeExpenseRepo{})

	_, err := svc.CreateExpense(context.Background(), CreateExpenseInput{Amount: dec("10")})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.CreateExpense(context.Background(), CreateExpenseInput{
		Description: "kit",
		Amount:      dec("-5"),
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDeleteExpense_NotFound(t *testing.T) {
	svc := NewExpenseService(&fakeExpenseRepo{})

	err := svc.DeleteExpense(context.Background(), 55)
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}
