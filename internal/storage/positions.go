package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/findosh/finlearn/internal/models"
)

// PositionStore is the position persistence used by the portfolio service
type PositionStore interface {
	Create(p *models.Position) error
	GetByID(id uuid.UUID) (*models.Position, error)
	GetByInstrumentID(instrumentID string) (*models.Position, error)
	List() ([]*models.Position, error)
	UpdateShares(id uuid.UUID, shares float64) error
	Delete(id uuid.UUID) error
	DeleteAll() error
	WithTx(fn func(tx PositionStore) error) error
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

var _ PositionStore = (*PositionRepository)(nil)

// PositionRepository provides portfolio position data access
type PositionRepository struct {
	conn *DB
	db   querier
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *DB) *PositionRepository {
	return &PositionRepository{conn: db, db: db}
}

// WithTx runs fn against a repository bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise. Called on
// a repository that is already inside a transaction, fn joins it.
func (r *PositionRepository) WithTx(fn func(tx PositionStore) error) error {
	if r.conn == nil {
		return fn(r)
	}

	tx, err := r.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(&PositionRepository{db: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Create inserts a new position. A second position for the same instrument
// fails with models.ErrDuplicatePosition.
func (r *PositionRepository) Create(p *models.Position) error {
	query := `
		INSERT INTO positions (id, instrument_id, shares, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		p.ID.String(),
		p.InstrumentID,
		decimal.NewFromFloat(p.Shares).String(),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", p.InstrumentID, models.ErrDuplicatePosition)
	}
	return err
}

// GetByID retrieves a position by ID, nil if absent
func (r *PositionRepository) GetByID(id uuid.UUID) (*models.Position, error) {
	query := `
		SELECT id, instrument_id, shares, created_at, updated_at
		FROM positions WHERE id = ?
	`
	return r.scanPosition(r.db.QueryRow(query, id.String()))
}

// GetByInstrumentID retrieves the position holding an instrument, nil if absent
func (r *PositionRepository) GetByInstrumentID(instrumentID string) (*models.Position, error) {
	query := `
		SELECT id, instrument_id, shares, created_at, updated_at
		FROM positions WHERE instrument_id = ?
	`
	return r.scanPosition(r.db.QueryRow(query, instrumentID))
}

// List returns all positions in insertion order
func (r *PositionRepository) List() ([]*models.Position, error) {
	query := `
		SELECT id, instrument_id, shares, created_at, updated_at
		FROM positions ORDER BY created_at, rowid
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*models.Position
	for rows.Next() {
		p, err := scanPositionFields(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}

	return positions, rows.Err()
}

// UpdateShares changes the share count of a position
func (r *PositionRepository) UpdateShares(id uuid.UUID, shares float64) error {
	query := `UPDATE positions SET shares = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.Exec(query, decimal.NewFromFloat(shares).String(), time.Now().UTC(), id.String())
	if err != nil {
		return err
	}
	return requireAffected(res, id)
}

// Delete removes a position
func (r *PositionRepository) Delete(id uuid.UUID) error {
	res, err := r.db.Exec("DELETE FROM positions WHERE id = ?", id.String())
	if err != nil {
		return err
	}
	return requireAffected(res, id)
}

// DeleteAll removes every position
func (r *PositionRepository) DeleteAll() error {
	_, err := r.db.Exec("DELETE FROM positions")
	return err
}

func (r *PositionRepository) scanPosition(row *sql.Row) (*models.Position, error) {
	p, err := scanPositionFields(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPositionFields(s scanner) (*models.Position, error) {
	var p models.Position
	var id, shares string

	if err := s.Scan(&id, &p.InstrumentID, &shares, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan position: %w", err)
	}

	var err error
	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid position id %q: %w", id, err)
	}
	d, err := decimal.NewFromString(shares)
	if err != nil {
		return nil, fmt.Errorf("invalid shares %q: %w", shares, err)
	}
	p.Shares = d.InexactFloat64()

	return &p, nil
}

func requireAffected(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, models.ErrPositionNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
