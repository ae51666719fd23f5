// Package storage provides postgres-backed persistence for wallets, data
// plans, beneficiaries and processed gateway events. The service runs against
// a Supabase postgres database; connections go through a pgx pool.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/Balamathias/isubscribe-ai-microservice/internal/common/errors"
)

// MaxBeneficiaries caps saved recipients per user.
const MaxBeneficiaries = 10

// Store wraps the pgx pool with the queries the service needs.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to postgres and prepares the schema.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *Store) migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS wallets (
			id BIGSERIAL PRIMARY KEY,
			"user" TEXT NOT NULL UNIQUE,
			balance NUMERIC NOT NULL DEFAULT 0,
			cashback NUMERIC NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS data_plans (
			id BIGSERIAL PRIMARY KEY,
			category TEXT NOT NULL,
			service_id TEXT NOT NULL,
			network TEXT NOT NULL,
			plan_type TEXT NOT NULL DEFAULT '',
			bundle TEXT NOT NULL,
			price NUMERIC NOT NULL,
			duration TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS beneficiaries (
			id BIGSERIAL PRIMARY KEY,
			"user" TEXT NOT NULL,
			phone TEXT NOT NULL,
			network TEXT NOT NULL DEFAULT '',
			frequency INT NOT NULL DEFAULT 1,
			last_used TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE ("user", phone)
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			pin TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS gateway_events (
			order_no TEXT PRIMARY KEY,
			"user" TEXT NOT NULL,
			amount NUMERIC NOT NULL,
			status TEXT NOT NULL,
			raw_payload TEXT NOT NULL DEFAULT '',
			processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS virtual_accounts (
			reference TEXT PRIMARY KEY,
			"user" TEXT NOT NULL,
			account_no TEXT NOT NULL,
			account_name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, query := range queries {
		if _, err := s.pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Health pings the database.
func (s *Store) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// GetWallet fetches a user's wallet.
func (s *Store) GetWallet(ctx context.Context, userID string) (*Wallet, error) {
	var w Wallet
	err := s.pool.QueryRow(ctx,
		`SELECT id, "user", balance, cashback, updated_at FROM wallets WHERE "user" = $1`,
		userID,
	).Scan(&w.ID, &w.UserID, &w.Balance, &w.Cashback, &w.Updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFoundError("wallet")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wallet: %w", err)
	}
	return &w, nil
}

// SettleDeposit records a gateway event and credits the wallet in one
// transaction. The event's order number is the idempotency key: a replayed
// callback returns (false, nil) and leaves the balance untouched.
func (s *Store) SettleDeposit(ctx context.Context, event GatewayEvent) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO gateway_events (order_no, "user", amount, status, raw_payload)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (order_no) DO NOTHING`,
		event.OrderNo, event.UserID, event.Amount, event.Status, event.RawPayload,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record gateway event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil // already processed
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO wallets ("user", balance) VALUES ($1, $2)
		 ON CONFLICT ("user") DO UPDATE
		 SET balance = wallets.balance + EXCLUDED.balance, updated_at = NOW()`,
		event.UserID, event.Amount,
	)
	if err != nil {
		return false, fmt.Errorf("failed to credit wallet: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return true, nil
}

// GetPlans returns every plan in a category ("best" or "super").
func (s *Store) GetPlans(ctx context.Context, category string) ([]DataPlan, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, category, service_id, network, plan_type, bundle, price, duration
		 FROM data_plans WHERE category = $1 ORDER BY price`,
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	return scanPlans(rows)
}

// GetPlansByService returns a category's plans filtered by service ID.
func (s *Store) GetPlansByService(ctx context.Context, category, serviceID string) ([]DataPlan, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, category, service_id, network, plan_type, bundle, price, duration
		 FROM data_plans WHERE category = $1 AND service_id = $2 ORDER BY price`,
		category, serviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	return scanPlans(rows)
}

func scanPlans(rows pgx.Rows) ([]DataPlan, error) {
	var plans []DataPlan
	for rows.Next() {
		var p DataPlan
		if err := rows.Scan(&p.ID, &p.Category, &p.ServiceID, &p.Network, &p.PlanType, &p.Bundle, &p.Price, &p.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// ListBeneficiaries returns a user's saved recipients, most recently used
// first.
func (s *Store) ListBeneficiaries(ctx context.Context, userID string) ([]Beneficiary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, "user", phone, network, frequency, last_used
		 FROM beneficiaries WHERE "user" = $1 ORDER BY last_used DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query beneficiaries: %w", err)
	}
	defer rows.Close()

	var list []Beneficiary
	for rows.Next() {
		var b Beneficiary
		if err := rows.Scan(&b.ID, &b.UserID, &b.Phone, &b.Network, &b.Frequency, &b.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan beneficiary: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// SaveBeneficiary upserts a recipient. Repeat saves bump the frequency; once
// the user holds MaxBeneficiaries entries the least recently used one is
// evicted first.
func (s *Store) SaveBeneficiary(ctx context.Context, userID, phone, network string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM beneficiaries WHERE "user" = $1 AND phone <> $2`,
		userID, phone,
	).Scan(&count); err != nil {
		return fmt.Errorf("failed to count beneficiaries: %w", err)
	}

	if count >= MaxBeneficiaries {
		_, err = tx.Exec(ctx,
			`DELETE FROM beneficiaries WHERE id IN (
				SELECT id FROM beneficiaries WHERE "user" = $1 ORDER BY last_used ASC LIMIT 1
			)`,
			userID,
		)
		if err != nil {
			return fmt.Errorf("failed to evict oldest beneficiary: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO beneficiaries ("user", phone, network, frequency, last_used)
		 VALUES ($1, $2, $3, 1, NOW())
		 ON CONFLICT ("user", phone) DO UPDATE
		 SET frequency = beneficiaries.frequency + 1, last_used = NOW()`,
		userID, phone, network,
	)
	if err != nil {
		return fmt.Errorf("failed to save beneficiary: %w", err)
	}

	return tx.Commit(ctx)
}

// GetPinHash returns a user's bcrypt PIN hash, empty when unset.
func (s *Store) GetPinHash(ctx context.Context, userID string) (string, error) {
	var hash *string
	err := s.pool.QueryRow(ctx, `SELECT pin FROM profiles WHERE id = $1`, userID).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.NotFoundError("profile")
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch pin: %w", err)
	}
	if hash == nil {
		return "", nil
	}
	return *hash, nil
}

// SetPinHash stores a user's bcrypt PIN hash.
func (s *Store) SetPinHash(ctx context.Context, userID, hash string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (id, pin) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET pin = EXCLUDED.pin`,
		userID, hash,
	)
	if err != nil {
		return fmt.Errorf("failed to update pin: %w", err)
	}
	return nil
}

// GetUserByAccountReference resolves the owner of a virtual account from the
// reference the gateway echoes back in callbacks.
func (s *Store) GetUserByAccountReference(ctx context.Context, reference string) (string, error) {
	var userID string
	err := s.pool.QueryRow(ctx,
		`SELECT "user" FROM virtual_accounts WHERE reference = $1`, reference,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.NotFoundError("virtual account")
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve account reference: %w", err)
	}
	return userID, nil
}

// SaveVirtualAccount records a gateway-issued virtual account.
func (s *Store) SaveVirtualAccount(ctx context.Context, account VirtualAccount) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO virtual_accounts (reference, "user", account_no, account_name)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (reference) DO NOTHING`,
		account.Reference, account.UserID, account.AccountNo, account.AccountName,
	)
	if err != nil {
		return fmt.Errorf("failed to save virtual account: %w", err)
	}
	return nil
}
