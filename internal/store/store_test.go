package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"testing"
	"time"

	"expense_portal/internal/db"
	"expense_portal/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testSeed = db.SeedOptions{
	AdminUser:   "admin",
	AdminPass:   "admin123",
	AppName:     "Test Portal",
	VillageName: "Testgaon",
}

// StoreTestSuite runs every test against a freshly bootstrapped in-memory database.
type StoreTestSuite struct {
	suite.Suite
	gdb   *gorm.DB
	store *Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	gdb, err := db.Open("sqlite://:memory:", logger.Silent)
	require.NoError(s.T(), err, "failed to open test database")
	require.NoError(s.T(), db.Bootstrap(gdb, testSeed), "failed to bootstrap test database")
	s.gdb = gdb
	s.store = New(gdb, domain.AmountNonNegative)
	s.ctx = context.Background()
}

func (s *StoreTestSuite) TearDownTest() {
	if sqlDB, err := s.gdb.DB(); err == nil {
		sqlDB.Close()
	}
}

func (s *StoreTestSuite) category(name string) domain.Category {
	var c domain.Category
	require.NoError(s.T(), s.gdb.Where("name = ?", name).First(&c).Error)
	return c
}

func (s *StoreTestSuite) addExpense(categoryID uint, day, amount string) domain.Expense {
	e := domain.Expense{
		Title:      "Expense " + day,
		Amount:     decimal.RequireFromString(amount),
		DateSpent:  mustDate(s.T(), day),
		CategoryID: categoryID,
	}
	require.NoError(s.T(), s.gdb.Create(&e).Error)
	return e
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateLayout, s)
	require.NoError(t, err)
	return d
}

func (s *StoreTestSuite) mustFilter(cat, start, end string) Filter {
	f, err := ParseFilter(cat, start, end)
	require.NoError(s.T(), err)
	return f
}

func (s *StoreTestSuite) TestFilterScenario() {
	roads, water := s.category("Roads"), s.category("Water")
	first := s.addExpense(water.ID, "2024-01-15", "100")
	s.addExpense(water.ID, "2024-02-01", "50")
	s.addExpense(roads.ID, "2024-01-20", "30")

	f := s.mustFilter(fmt.Sprint(water.ID), "2024-01-01", "2024-01-31")

	expenses, err := s.store.ListExpenses(s.ctx, f)
	require.NoError(s.T(), err)
	if assert.Len(s.T(), expenses, 1) {
		assert.Equal(s.T(), first.ID, expenses[0].ID)
		assert.Equal(s.T(), "Water", expenses[0].CategoryName())
	}

	summary, err := s.store.MonthlySummary(s.ctx, f)
	require.NoError(s.T(), err)
	if assert.Len(s.T(), summary, 1) {
		assert.Equal(s.T(), "2024-01", summary[0].Month)
		assert.True(s.T(), decimal.NewFromInt(100).Equal(summary[0].Total), "got %s", summary[0].Total)
	}
}

func (s *StoreTestSuite) TestListExpensesInclusiveBoundsAndOrder() {
	roads := s.category("Roads")
	for _, day := range []string{"2023-12-31", "2024-01-01", "2024-01-10", "2024-01-31", "2024-02-01"} {
		s.addExpense(roads.ID, day, "10")
	}

	start, end := mustDate(s.T(), "2024-01-01"), mustDate(s.T(), "2024-01-31")
	expenses, err := s.store.ListExpenses(s.ctx, s.mustFilter("", "2024-01-01", "2024-01-31"))
	require.NoError(s.T(), err)
	require.Len(s.T(), expenses, 3)

	for i, e := range expenses {
		assert.False(s.T(), e.DateSpent.Before(start), "expense %d before start", e.ID)
		assert.False(s.T(), e.DateSpent.After(end), "expense %d after end", e.ID)
		if i > 0 {
			assert.False(s.T(), e.DateSpent.After(expenses[i-1].DateSpent), "not sorted descending")
		}
	}
	assert.Equal(s.T(), "2024-01-31", expenses[0].DateSpent.Format(domain.DateLayout))
	assert.Equal(s.T(), "2024-01-01", expenses[2].DateSpent.Format(domain.DateLayout))
}

func (s *StoreTestSuite) TestMalformedDateIsIgnored() {
	roads := s.category("Roads")
	s.addExpense(roads.ID, "2020-05-05", "1")
	s.addExpense(roads.ID, "2024-05-05", "1")

	expenses, err := s.store.ListExpenses(s.ctx, s.mustFilter("", "not-a-date", ""))
	require.NoError(s.T(), err)
	assert.Len(s.T(), expenses, 2)
}

func (s *StoreTestSuite) TestListCapAndUncappedAggregates() {
	roads := s.category("Roads")
	base := mustDate(s.T(), "2024-01-01")
	batch := make([]domain.Expense, 0, 230)
	want := decimal.Zero
	for i := 0; i < 230; i++ {
		amount := decimal.NewFromFloat(1.25).Add(decimal.NewFromInt(int64(i)))
		want = want.Add(amount)
		batch = append(batch, domain.Expense{
			Title:      fmt.Sprintf("Item %d", i),
			Amount:     amount,
			DateSpent:  base.AddDate(0, 0, i),
			CategoryID: roads.ID,
		})
	}
	require.NoError(s.T(), s.gdb.CreateInBatches(batch, 50).Error)

	expenses, err := s.store.ListExpenses(s.ctx, Filter{})
	require.NoError(s.T(), err)
	assert.Len(s.T(), expenses, ListLimit)

	summary, err := s.store.MonthlySummary(s.ctx, Filter{})
	require.NoError(s.T(), err)
	got := decimal.Zero
	for i, m := range summary {
		got = got.Add(m.Total)
		if i > 0 {
			assert.Less(s.T(), summary[i-1].Month, m.Month)
		}
	}
	assert.True(s.T(), want.Equal(got), "summary total %s, want %s", got, want)

	var buf bytes.Buffer
	n, err := s.store.ExportCSV(s.ctx, Filter{}, &buf)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 230, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(s.T(), err)
	assert.Len(s.T(), records, 231)
	assert.Regexp(s.T(), `^\d+\.\d{2}$`, records[1][2])
}

func (s *StoreTestSuite) TestMonthlySummaryGroupsByCalendarMonth() {
	roads, water := s.category("Roads"), s.category("Water")
	s.addExpense(roads.ID, "2024-01-01", "10")
	s.addExpense(water.ID, "2024-01-31", "5.50")
	s.addExpense(roads.ID, "2023-12-31", "7")
	s.addExpense(roads.ID, "2024-03-15", "1")

	summary, err := s.store.MonthlySummary(s.ctx, Filter{})
	require.NoError(s.T(), err)
	require.Len(s.T(), summary, 3)
	assert.Equal(s.T(), "2023-12", summary[0].Month)
	assert.Equal(s.T(), "2024-01", summary[1].Month)
	assert.Equal(s.T(), "15.5", summary[1].Total.String())
	assert.Equal(s.T(), "2024-03", summary[2].Month)
}

func (s *StoreTestSuite) TestExportCSVColumnsAndQuoting() {
	roads := s.category("Roads")
	desc := "Patch, \"urgent\"\nnear school"
	e := domain.Expense{
		Title:       "Pothole repair",
		Amount:      decimal.RequireFromString("1200.5"),
		DateSpent:   mustDate(s.T(), "2024-04-02"),
		Description: &desc,
		CategoryID:  roads.ID,
	}
	require.NoError(s.T(), s.gdb.Create(&e).Error)

	var buf bytes.Buffer
	n, err := s.store.ExportCSV(s.ctx, Filter{}, &buf)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(s.T(), err)
	require.Len(s.T(), records, 2)
	assert.Equal(s.T(), ExportHeader, records[0])
	assert.Equal(s.T(), []string{
		fmt.Sprint(e.ID), "Pothole repair", "1200.50", "2024-04-02", "Roads", desc, "",
	}, records[1])
}

func (s *StoreTestSuite) TestExportCSVRespectsFilter() {
	roads, water := s.category("Roads"), s.category("Water")
	s.addExpense(roads.ID, "2024-01-01", "1")
	s.addExpense(water.ID, "2024-01-02", "2")

	var buf bytes.Buffer
	n, err := s.store.ExportCSV(s.ctx, s.mustFilter(fmt.Sprint(water.ID), "", ""), &buf)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, n)
	assert.Contains(s.T(), buf.String(), "Water")
	assert.NotContains(s.T(), buf.String(), "Roads")
}

func (s *StoreTestSuite) TestCreateCategoryCaseInsensitive() {
	_, err := s.store.CreateCategory(s.ctx, "roads")
	assert.ErrorIs(s.T(), err, domain.ErrCategoryExists)

	_, err = s.store.CreateCategory(s.ctx, "  ")
	assert.True(s.T(), domain.IsValidation(err))

	created, err := s.store.CreateCategory(s.ctx, "  Street Lights ")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Street Lights", created.Name)

	categories, err := s.store.ListCategories(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), categories, len(domain.DefaultCategories)+1)
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Contains(s.T(), names, "Street Lights")
	assert.IsNonDecreasing(s.T(), names)

	_, err = s.store.CreateCategory(s.ctx, "STREET LIGHTS")
	assert.ErrorIs(s.T(), err, domain.ErrCategoryExists)
}

func (s *StoreTestSuite) TestCreateExpense() {
	water := s.category("Water")
	e, err := s.store.CreateExpense(s.ctx, ExpenseInput{
		Title:      " Pump ",
		Amount:     "2500.755",
		DateSpent:  "2024-06-01",
		CategoryID: fmt.Sprint(water.ID),
		ReceiptURL: "https://example.org/r/1",
	})
	require.NoError(s.T(), err)
	assert.NotZero(s.T(), e.ID)
	assert.Equal(s.T(), "Pump", e.Title)
	assert.Equal(s.T(), "2500.76", e.Amount.StringFixed(2))
	assert.Nil(s.T(), e.Description)
	assert.Equal(s.T(), "https://example.org/r/1", e.ReceiptText())

	recent, err := s.store.RecentExpenses(s.ctx, RecentExpenseLimit)
	require.NoError(s.T(), err)
	require.Len(s.T(), recent, 1)
	assert.Equal(s.T(), "Water", recent[0].CategoryName())
}

func (s *StoreTestSuite) TestCreateExpenseRejectsBadInput() {
	water := fmt.Sprint(s.category("Water").ID)
	valid := ExpenseInput{Title: "t", Amount: "1", DateSpent: "2024-01-01", CategoryID: water}

	cases := map[string]struct {
		mutate func(*ExpenseInput)
		target error
	}{
		"missing title":    {func(in *ExpenseInput) { in.Title = "" }, nil},
		"missing amount":   {func(in *ExpenseInput) { in.Amount = "" }, nil},
		"bad amount":       {func(in *ExpenseInput) { in.Amount = "ten" }, nil},
		"negative amount":  {func(in *ExpenseInput) { in.Amount = "-1" }, nil},
		"exponent amount":  {func(in *ExpenseInput) { in.Amount = "1e400" }, nil},
		"huge amount":      {func(in *ExpenseInput) { in.Amount = "123456789012345678.99" }, nil},
		"just over limit":  {func(in *ExpenseInput) { in.Amount = "9999999999.995" }, nil},
		"bad date":         {func(in *ExpenseInput) { in.DateSpent = "01/02/2024" }, nil},
		"bad category id":  {func(in *ExpenseInput) { in.CategoryID = "abc" }, domain.ErrInvalidCategoryID},
		"unknown category": {func(in *ExpenseInput) { in.CategoryID = "9999" }, domain.ErrUnknownCategory},
	}
	for name, tc := range cases {
		s.Run(name, func() {
			in := valid
			tc.mutate(&in)
			_, err := s.store.CreateExpense(s.ctx, in)
			require.Error(s.T(), err)
			assert.True(s.T(), domain.IsValidation(err), "expected validation error, got %v", err)
			assert.NotEmpty(s.T(), domain.UserMessage(err))
			if tc.target != nil {
				assert.ErrorIs(s.T(), err, tc.target)
			}
		})
	}

	var count int64
	require.NoError(s.T(), s.gdb.Model(&domain.Expense{}).Count(&count).Error)
	assert.Zero(s.T(), count, "rejected input must not insert")
}

func (s *StoreTestSuite) TestCreateExpenseLargestAmountRoundTrips() {
	water := fmt.Sprint(s.category("Water").ID)
	_, err := s.store.CreateExpense(s.ctx, ExpenseInput{
		Title: "Bridge", Amount: "9999999999.99", DateSpent: "2024-01-01", CategoryID: water,
	})
	require.NoError(s.T(), err)

	expenses, err := s.store.ListExpenses(s.ctx, Filter{})
	require.NoError(s.T(), err)
	require.Len(s.T(), expenses, 1)
	assert.Equal(s.T(), "9999999999.99", expenses[0].Amount.StringFixed(2))
}

func (s *StoreTestSuite) TestAmountPolicyAny() {
	permissive := New(s.gdb, domain.AmountAny)
	_, err := permissive.CreateExpense(s.ctx, ExpenseInput{
		Title: "Refund", Amount: "-20", DateSpent: "2024-01-01", CategoryID: fmt.Sprint(s.category("Other").ID),
	})
	assert.NoError(s.T(), err)
}

func (s *StoreTestSuite) TestDeleteCategoryCascades() {
	roads, water := s.category("Roads"), s.category("Water")
	s.addExpense(roads.ID, "2024-01-01", "1")
	s.addExpense(roads.ID, "2024-01-02", "1")
	s.addExpense(water.ID, "2024-01-03", "1")

	require.NoError(s.T(), s.store.DeleteCategory(s.ctx, roads.ID))

	var count int64
	require.NoError(s.T(), s.gdb.Model(&domain.Expense{}).Count(&count).Error)
	assert.Equal(s.T(), int64(1), count)

	assert.ErrorIs(s.T(), s.store.DeleteCategory(s.ctx, roads.ID), domain.ErrUnknownCategory)
}

func (s *StoreTestSuite) TestAnnouncements() {
	for i := 0; i < 7; i++ {
		_, err := s.store.CreateAnnouncement(s.ctx, fmt.Sprintf("Notice %d", i), "body")
		require.NoError(s.T(), err)
	}
	_, err := s.store.CreateAnnouncement(s.ctx, "Title only", " ")
	assert.True(s.T(), domain.IsValidation(err))

	recent, err := s.store.RecentAnnouncements(s.ctx, RecentAnnouncementLimit)
	require.NoError(s.T(), err)
	require.Len(s.T(), recent, RecentAnnouncementLimit)
	assert.Equal(s.T(), "Notice 6", recent[0].Title)
}

func (s *StoreTestSuite) TestAuthenticate() {
	admin, err := s.store.Authenticate(s.ctx, "admin", "admin123")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "admin", admin.Username)

	_, err = s.store.Authenticate(s.ctx, "admin", "wrong")
	assert.ErrorIs(s.T(), err, domain.ErrInvalidCredentials)
	_, err = s.store.Authenticate(s.ctx, "nobody", "admin123")
	assert.ErrorIs(s.T(), err, domain.ErrInvalidCredentials)

	exists, err := s.store.AdminExists(s.ctx, "admin")
	require.NoError(s.T(), err)
	assert.True(s.T(), exists)
	exists, err = s.store.AdminExists(s.ctx, "nobody")
	require.NoError(s.T(), err)
	assert.False(s.T(), exists)
}

func (s *StoreTestSuite) TestPing() {
	assert.NoError(s.T(), s.store.Ping(s.ctx))
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("", "", "")
	require.NoError(t, err)
	assert.Nil(t, f.CategoryID)
	assert.Nil(t, f.Start)
	assert.Nil(t, f.End)
	assert.Equal(t, "cat=:start=:end=", f.Key())

	f, err = ParseFilter("2", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.NotNil(t, f.CategoryID)
	assert.Equal(t, uint(2), *f.CategoryID)
	assert.Equal(t, "2024-01-01", f.StartString())
	assert.Equal(t, "2024-01-31", f.EndString())
	assert.Equal(t, "cat=2:start=2024-01-01:end=2024-01-31", f.Key())

	f, err = ParseFilter("", "not-a-date", "2024-1-5")
	require.NoError(t, err)
	assert.Nil(t, f.Start)
	assert.Nil(t, f.End)

	_, err = ParseFilter("two", "", "")
	assert.True(t, errors.Is(err, domain.ErrInvalidCategoryID))
	_, err = ParseFilter("-1", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCategoryID)
}

func TestSumAmounts(t *testing.T) {
	total := SumAmounts([]domain.Expense{
		{Amount: decimal.RequireFromString("0.10")},
		{Amount: decimal.RequireFromString("0.20")},
	})
	assert.Equal(t, "0.30", total.StringFixed(2))
	assert.True(t, SumAmounts(nil).IsZero())
}
