package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/raaghavgupta2020/budget-app/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// sortColumns whitelists the fields a client may sort by. Amounts live in a
// TEXT column so the decimal round-trips losslessly; the CAST keeps their
// sort order numeric rather than lexicographic.
var sortColumns = map[string]string{
	"date":   "date",
	"amount": "CAST(amount AS NUMERIC)",
}

// EntryStore manages the per-user ledger of income/expense entries. Every
// operation filters by username first; an entry id is never resolved on
// its own.
type EntryStore struct {
	db *gorm.DB
}

func NewEntryStore(db *gorm.DB) *EntryStore {
	return &EntryStore{db: db}
}

// Create inserts a new entry for username, assigning id and audit
// timestamps. A draft without a date gets the submission time.
func (s *EntryStore) Create(ctx context.Context, username string, draft models.EntryDraft) (*models.Entry, error) {
	date := time.Now().UTC()
	if draft.Date != nil {
		date = *draft.Date
	}

	entry := models.Entry{
		ID:          uuid.NewString(),
		Username:    username,
		Name:        draft.Name,
		Description: draft.Description,
		Type:        draft.Type,
		Date:        date,
		Amount:      draft.Amount,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	return &entry, nil
}

// Get returns one entry scoped to username. An id that belongs to another
// user yields ErrNotFound, never the foreign record.
func (s *EntryStore) Get(ctx context.Context, username, id string) (*models.Entry, error) {
	var entry models.Entry
	err := s.db.WithContext(ctx).
		Where("username = ? AND id = ?", username, id).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return &entry, nil
}

// List returns all of username's entries. Default order is date descending;
// sortBy is restricted to date|amount and any sortOrder other than "desc"
// means ascending.
func (s *EntryStore) List(ctx context.Context, username, sortBy, sortOrder string) ([]models.Entry, error) {
	order, err := buildOrder(sortBy, sortOrder)
	if err != nil {
		return nil, err
	}

	var entries []models.Entry
	if err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order(order).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// ListFiltered returns username's entries narrowed by type and/or a
// case-insensitive substring match against name or description. Both
// filters combine with AND; sorting behaves as in List.
func (s *EntryStore) ListFiltered(ctx context.Context, username string, filter models.EntryFilter) ([]models.Entry, error) {
	order, err := buildOrder(filter.SortBy, filter.SortOrder)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Where("username = ?", username)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var entries []models.Entry
	if err := q.Order(order).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list filtered entries: %w", err)
	}
	return entries, nil
}

// Update replaces all mutable fields of an entry and refreshes updated_at.
// Returns ErrNotFound when no entry matches under that username.
func (s *EntryStore) Update(ctx context.Context, username, id string, draft models.EntryDraft) (*models.Entry, error) {
	entry, err := s.Get(ctx, username, id)
	if err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if draft.Date != nil {
		date = *draft.Date
	}

	entry.Name = draft.Name
	entry.Description = draft.Description
	entry.Type = draft.Type
	entry.Date = date
	entry.Amount = draft.Amount

	if err := s.db.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return entry, nil
}

// Delete removes an entry. Returns ErrNotFound when nothing matched, so a
// delete of an absent id is never a silent success.
func (s *EntryStore) Delete(ctx context.Context, username, id string) error {
	res := s.db.WithContext(ctx).
		Where("username = ? AND id = ?", username, id).
		Delete(&models.Entry{})
	if res.Error != nil {
		return fmt.Errorf("delete entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Summarize totals username's ledger by type. Amounts accumulate as
// decimals, so currency values do not drift the way binary floats do.
func (s *EntryStore) Summarize(ctx context.Context, username string) (*models.Summary, error) {
	var entries []models.Entry
	if err := s.db.WithContext(ctx).
		Select("type", "amount").
		Where("username = ?", username).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("summarize entries: %w", err)
	}

	income := decimal.Zero
	expense := decimal.Zero
	for i := range entries {
		switch entries[i].Type {
		case models.TypeIncome:
			income = income.Add(entries[i].Amount)
		case models.TypeExpense:
			expense = expense.Add(entries[i].Amount)
		}
	}

	return &models.Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}, nil
}

// escapeLike quotes the LIKE metacharacters so search text matches
// literally, e.g. "100%" does not act as a wildcard.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

// buildOrder maps client sort parameters onto a SQL ORDER BY clause.
// Empty sortBy keeps the original default, date descending.
func buildOrder(sortBy, sortOrder string) (string, error) {
	if sortBy == "" {
		return "date DESC", nil
	}
	col, ok := sortColumns[sortBy]
	if !ok {
		return "", ErrInvalidSortField
	}
	dir := "ASC"
	if sortOrder == "desc" {
		dir = "DESC"
	}
	return col + " " + dir, nil
}
