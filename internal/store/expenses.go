package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"expense_portal/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const listOrder = "expenses.date_spent DESC, expenses.id DESC"

// ListExpenses returns the filtered expenses, newest date spent first, capped at ListLimit.
func (s *Store) ListExpenses(ctx context.Context, f Filter) ([]domain.Expense, error) {
	var expenses []domain.Expense
	err := s.session(ctx).
		Scopes(f.Scope).
		Preload("Category").
		Order(listOrder).
		Limit(ListLimit).
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// SumAmounts totals the amounts of expenses.
func SumAmounts(expenses []domain.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// MonthlySummary sums every filtered expense by calendar month of date spent,
// ascending by month. It is not capped.
func (s *Store) MonthlySummary(ctx context.Context, f Filter) ([]domain.MonthTotal, error) {
	rows, err := s.session(ctx).
		Model(&domain.Expense{}).
		Scopes(f.Scope).
		Select("expenses.date_spent, expenses.amount").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("monthly summary: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	var months []string
	for rows.Next() {
		var (
			day    time.Time
			amount decimal.NullDecimal
		)
		if err := rows.Scan(&day, &amount); err != nil {
			return nil, fmt.Errorf("monthly summary scan: %w", err)
		}
		key := day.Format("2006-01")
		sum, seen := totals[key]
		if !seen {
			months = append(months, key)
			sum = decimal.Zero
		}
		if amount.Valid {
			sum = sum.Add(amount.Decimal)
		}
		totals[key] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("monthly summary rows: %w", err)
	}

	// "YYYY-MM" sorts chronologically as a string.
	slices.Sort(months)
	out := make([]domain.MonthTotal, 0, len(months))
	for _, m := range months {
		out = append(out, domain.MonthTotal{Month: m, Total: totals[m]})
	}
	return out, nil
}

// ExportHeader is the first row of every export.
var ExportHeader = []string{"ID", "Title", "Amount", "Date", "Category", "Description", "Receipt URL"}

// ExportCSV streams every filtered expense to w as CSV, in listing order and
// without the listing cap. It returns the number of data rows written.
func (s *Store) ExportCSV(ctx context.Context, f Filter, w io.Writer) (int, error) {
	rows, err := s.session(ctx).
		Model(&domain.Expense{}).
		Scopes(f.Scope).
		Select("expenses.id, expenses.title, expenses.amount, expenses.date_spent, categories.name, expenses.description, expenses.receipt_url").
		Joins("LEFT JOIN categories ON categories.id = expenses.category_id").
		Order(listOrder).
		Rows()
	if err != nil {
		return 0, fmt.Errorf("export expenses: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return 0, err
	}

	n := 0
	for rows.Next() {
		var (
			id          uint
			title       string
			amount      decimal.Decimal
			day         time.Time
			category    sql.NullString
			description sql.NullString
			receipt     sql.NullString
		)
		if err := rows.Scan(&id, &title, &amount, &day, &category, &description, &receipt); err != nil {
			return n, fmt.Errorf("export scan: %w", err)
		}
		record := []string{
			strconv.FormatUint(uint64(id), 10),
			title,
			amount.StringFixed(2),
			day.Format(domain.DateLayout),
			category.String,
			description.String,
			receipt.String,
		}
		if err := cw.Write(record); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("export rows: %w", err)
	}
	cw.Flush()
	return n, cw.Error()
}

// RecentExpenses returns the most recently recorded expenses.
func (s *Store) RecentExpenses(ctx context.Context, limit int) ([]domain.Expense, error) {
	var expenses []domain.Expense
	err := s.session(ctx).
		Preload("Category").
		Order("expenses.created_at DESC, expenses.id DESC").
		Limit(limit).
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("recent expenses: %w", err)
	}
	return expenses, nil
}

// ExpenseInput is an expense as submitted by the admin form.
type ExpenseInput struct {
	Title       string
	Amount      string
	DateSpent   string
	Description string
	ReceiptURL  string
	CategoryID  string
}

// Parse validates the input and converts it into an Expense.
func (in ExpenseInput) Parse(policy domain.AmountPolicy) (domain.Expense, error) {
	title := strings.TrimSpace(in.Title)
	amountStr := strings.TrimSpace(in.Amount)
	dateStr := strings.TrimSpace(in.DateSpent)
	categoryStr := strings.TrimSpace(in.CategoryID)

	switch {
	case title == "":
		return domain.Expense{}, domain.Invalid("title", "Please fill all required fields.")
	case amountStr == "":
		return domain.Expense{}, domain.Invalid("amount", "Please fill all required fields.")
	case dateStr == "":
		return domain.Expense{}, domain.Invalid("date_spent", "Please fill all required fields.")
	case categoryStr == "":
		return domain.Expense{}, domain.Invalid("category_id", "Please fill all required fields.")
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil || strings.ContainsAny(amountStr, "eE") {
		return domain.Expense{}, domain.Invalid("amount", "Amount must be a number.")
	}
	amount = amount.Round(2)
	if amount.Abs().GreaterThanOrEqual(domain.AmountLimit) {
		return domain.Expense{}, domain.Invalid("amount", "Amount is too large.")
	}
	if err := policy.Check(amount); err != nil {
		return domain.Expense{}, err
	}
	day, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return domain.Expense{}, domain.Invalid("date_spent", "Date must be in YYYY-MM-DD format.")
	}
	cid, err := strconv.ParseUint(categoryStr, 10, 32)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("%w: %q", domain.ErrInvalidCategoryID, in.CategoryID)
	}

	return domain.Expense{
		Title:       title,
		Amount:      amount,
		DateSpent:   day,
		Description: optional(in.Description),
		ReceiptURL:  optional(in.ReceiptURL),
		CategoryID:  uint(cid),
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// CreateExpense validates in, checks the category exists and inserts one row.
func (s *Store) CreateExpense(ctx context.Context, in ExpenseInput) (*domain.Expense, error) {
	expense, err := in.Parse(s.policy)
	if err != nil {
		return nil, err
	}
	err = s.session(ctx).Transaction(func(tx *gorm.DB) error {
		var category domain.Category
		if err := tx.Select("id", "name").First(&category, expense.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUnknownCategory
			}
			return err
		}
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}
		expense.Category = &category
		return nil
	})
	if err != nil {
		if domain.IsValidation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return &expense, nil
}
