package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/covedrive/cricket-club/models"
	"github.com/covedrive/cricket-club/repositories"
	"github.com/shopspring/decimal"
)

type CreateExpenseInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
}

// ExpenseService manages club-wide general expenses. These are not tied to
// matches; team financials prorate them by relative team size.
type ExpenseService interface {
	CreateExpense(ctx context.Context, input CreateExpenseInput) (*models.Expense, error)
	ListExpenses(ctx context.Context) ([]models.Expense, error)
	DeleteExpense(ctx context.Context, id int) error
}

type expenseService struct {
	expenseRepo repositories.ExpenseRepository
}

func NewExpenseService(expenseRepo repositories.ExpenseRepository) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo}
}

func (s *expenseService) CreateExpense(ctx context.Context, input CreateExpenseInput) (*models.Expense, error) {
	if input.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidationFailed)
	}
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	expense := &models.Expense{
		Description: input.Description,
		Amount:      input.Amount,
		Date:        date,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	return s.expenseRepo.List(ctx)
}

func (s *expenseService) DeleteExpense(ctx context.Context, id int) error {
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrExpenseNotFound) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}
