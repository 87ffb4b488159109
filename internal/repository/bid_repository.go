package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/iliyamo/hotel-bidding/internal/allocation"
	"github.com/iliyamo/hotel-bidding/internal/model"
)

// BidRepo provides data access to the bid_outcomes table.  Rows are only
// ever appended; the engine never reads them back.
type BidRepo struct {
	db *sql.DB
}

// NewBidRepo returns a BidRepo bound to the provided database.
func NewBidRepo(db *sql.DB) *BidRepo { return &BidRepo{db: db} }

const bidColumns = `id, bid_id, price, status, tier, remaining_after, message, created_at`

// Create inserts a bid outcome and sets its ID.
func (r *BidRepo) Create(ctx context.Context, b *model.BidOutcome) error {
	var tier sql.NullString
	if b.Tier != "" {
		tier = sql.NullString{String: b.Tier, Valid: true}
	}
	var remaining sql.NullInt64
	if b.Remaining != nil {
		remaining = sql.NullInt64{Int64: int64(*b.Remaining), Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bid_outcomes (bid_id, price, status, tier, remaining_after, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.BidID, formatPrice(b.Price), b.Status, tier, remaining, b.Message, b.CreatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByBidID returns the outcome stored for bidID or ErrNotFound.
func (r *BidRepo) GetByBidID(ctx context.Context, bidID string) (*model.BidOutcome, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bidColumns+` FROM bid_outcomes WHERE bid_id = ?`, bidID)
	b, err := scanBid(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListRecent returns up to limit outcomes, newest first.
func (r *BidRepo) ListRecent(ctx context.Context, limit int) ([]model.BidOutcome, error) {
	if limit <= 0 {
		return []model.BidOutcome{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bidColumns+` FROM bid_outcomes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BidOutcome{}
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// CountByStatus returns how many outcomes were logged per status.
func (r *BidRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM bid_outcomes GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBid(s scanner) (*model.BidOutcome, error) {
	var (
		b         model.BidOutcome
		price     string
		status    string
		tier      sql.NullString
		remaining sql.NullInt64
		createdAt time.Time
	)
	if err := s.Scan(&b.ID, &b.BidID, &price, &status, &tier, &remaining, &b.Message, &createdAt); err != nil {
		return nil, err
	}
	p, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return nil, fmt.Errorf("bid %s: price %q: %w", b.BidID, price, err)
	}
	b.Price = p
	st, ok := allocation.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("bid %s: unknown status %q", b.BidID, status)
	}
	b.Status = st.String()
	if tier.Valid {
		t, ok := allocation.ParseTier(tier.String)
		if !ok {
			return nil, fmt.Errorf("bid %s: unknown tier %q", b.BidID, tier.String)
		}
		b.Tier = t.String()
	}
	if remaining.Valid {
		n := int(remaining.Int64)
		b.Remaining = &n
	}
	b.CreatedAt = createdAt.UTC()
	return &b, nil
}

// formatPrice keeps the exact routed price: the shortest decimal that
// parses back to the same float64.
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'g', -1, 64)
}
