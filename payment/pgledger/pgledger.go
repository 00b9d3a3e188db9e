// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pgledger - a payment channel backed by a PostgreSQL
// double-entry ledger
package pgledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/payment"
)

// postgres error codes
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id         BYTEA PRIMARY KEY,
    balance    BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS transfers (
    id              BIGSERIAL PRIMARY KEY,
    from_account_id BYTEA REFERENCES accounts (id),
    to_account_id   BYTEA NOT NULL REFERENCES accounts (id),
    amount          BIGINT NOT NULL CHECK (amount > 0),
    memo            TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS ledger_entries (
    id          BIGSERIAL PRIMARY KEY,
    transfer_id BIGINT NOT NULL REFERENCES transfers (id),
    account_id  BYTEA NOT NULL REFERENCES accounts (id),
    delta       BIGINT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ledger_entries_account ON ledger_entries (account_id);
`

// Ledger - connection pool to the payment database
type Ledger struct {
	log         *logger.L
	db          *pgxpool.Pool
	allowCredit bool
}

// New - connect to the database given by a connection string
func New(ctx context.Context, connString string, allowCredit bool) (*Ledger, error) {
	log := logger.New("pgledger")

	config, err := pgxpool.ParseConfig(connString)
	if nil != err {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if nil != err {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); nil != err {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Infof("connected: %s@%s:%d/%s", config.ConnConfig.User, config.ConnConfig.Host, config.ConnConfig.Port, config.ConnConfig.Database)

	return &Ledger{
		log:         log,
		db:          pool,
		allowCredit: allowCredit,
	}, nil
}

// Close - release all connections
func (ledger *Ledger) Close() {
	ledger.db.Close()
	ledger.log.Info("closed")
}

// Migrate - create the tables if they do not exist
func (ledger *Ledger) Migrate(ctx context.Context) error {
	_, err := ledger.db.Exec(ctx, schema)
	if nil != err {
		ledger.log.Errorf("migrate error: %s", err)
		return fmt.Errorf("migrate failed: %w", err)
	}
	return nil
}

// Settle - perform all transfers in one repeatable read transaction
//
// account rows are locked in ascending key order so concurrent
// settlements cannot deadlock
func (ledger *Ledger) Settle(ctx context.Context, transfers []payment.Transfer) ([]payment.Receipt, error) {
	transfers = payment.Pending(transfers)
	if 0 == len(transfers) {
		return nil, nil
	}
	for _, t := range transfers {
		if t.Amount > math.MaxInt64 {
			return nil, fault.ErrOverflow
		}
	}

	tx, err := ledger.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if nil != err {
		return nil, mapError("tx begin", err)
	}
	defer tx.Rollback(ctx)

	balances := make(map[account.Account]int64)
	for _, a := range lockOrder(transfers) {
		_, err := tx.Exec(ctx, "INSERT INTO accounts (id) VALUES ($1) ON CONFLICT (id) DO NOTHING", a.Bytes())
		if nil != err {
			return nil, mapError("account insert", err)
		}
		var balance int64
		err = tx.QueryRow(ctx, "SELECT balance FROM accounts WHERE id = $1 FOR UPDATE", a.Bytes()).Scan(&balance)
		if nil != err {
			return nil, mapError("lock acquisition", err)
		}
		balances[a] = balance
	}

	receipts := make([]payment.Receipt, 0, len(transfers))
	for _, t := range transfers {
		amount := int64(t.Amount)
		if balances[t.From] < amount {
			return nil, fault.ErrInsufficientFunds
		}
		if balances[t.To] > math.MaxInt64-amount {
			return nil, fault.ErrOverflow
		}
		balances[t.From] -= amount
		balances[t.To] += amount

		var transferID int64
		err = tx.QueryRow(ctx,
			"INSERT INTO transfers (from_account_id, to_account_id, amount, memo) VALUES ($1, $2, $3, $4) RETURNING id",
			t.From.Bytes(), t.To.Bytes(), amount, t.Memo,
		).Scan(&transferID)
		if nil != err {
			return nil, mapError("transfer insert", err)
		}

		_, err = tx.Exec(ctx,
			"INSERT INTO ledger_entries (transfer_id, account_id, delta) VALUES ($1, $2, $3), ($1, $4, $5)",
			transferID, t.From.Bytes(), -amount, t.To.Bytes(), amount,
		)
		if nil != err {
			return nil, mapError("ledger entry", err)
		}

		receipts = append(receipts, payment.Receipt{
			ID:       fmt.Sprintf("pg-%d", transferID),
			Transfer: t,
		})
	}

	for a, balance := range balances {
		_, err = tx.Exec(ctx, "UPDATE accounts SET balance = $1 WHERE id = $2", balance, a.Bytes())
		if nil != err {
			return nil, mapError("balance update", err)
		}
	}

	if err = tx.Commit(ctx); nil != err {
		return nil, mapError("tx commit", err)
	}

	ledger.log.Debugf("settled: %d transfers", len(receipts))
	return receipts, nil
}

// Balance - funds of an account, zero if never seen
func (ledger *Ledger) Balance(ctx context.Context, a account.Account) (uint64, error) {
	var balance int64
	err := ledger.db.QueryRow(ctx, "SELECT balance FROM accounts WHERE id = $1", a.Bytes()).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if nil != err {
		return 0, mapError("balance query", err)
	}
	return uint64(balance), nil
}

// Credit - deposit external funds into an account
func (ledger *Ledger) Credit(ctx context.Context, a account.Account, amount uint64) (payment.Receipt, error) {
	if !ledger.allowCredit {
		return payment.Receipt{}, fault.ErrCreditDisabled
	}
	if 0 == amount {
		return payment.Receipt{}, fault.ErrZeroAmount
	}
	if amount > math.MaxInt64 {
		return payment.Receipt{}, fault.ErrOverflow
	}

	tx, err := ledger.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if nil != err {
		return payment.Receipt{}, mapError("tx begin", err)
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx,
		"INSERT INTO accounts (id) VALUES ($1) ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id RETURNING balance",
		a.Bytes(),
	).Scan(&balance)
	if nil != err {
		return payment.Receipt{}, mapError("account upsert", err)
	}
	if balance > math.MaxInt64-int64(amount) {
		return payment.Receipt{}, fault.ErrOverflow
	}

	var transferID int64
	err = tx.QueryRow(ctx,
		"INSERT INTO transfers (from_account_id, to_account_id, amount, memo) VALUES (NULL, $1, $2, 'credit') RETURNING id",
		a.Bytes(), int64(amount),
	).Scan(&transferID)
	if nil != err {
		return payment.Receipt{}, mapError("transfer insert", err)
	}

	_, err = tx.Exec(ctx, "INSERT INTO ledger_entries (transfer_id, account_id, delta) VALUES ($1, $2, $3)", transferID, a.Bytes(), int64(amount))
	if nil != err {
		return payment.Receipt{}, mapError("ledger entry", err)
	}

	_, err = tx.Exec(ctx, "UPDATE accounts SET balance = balance + $1 WHERE id = $2", int64(amount), a.Bytes())
	if nil != err {
		return payment.Receipt{}, mapError("balance update", err)
	}

	if err = tx.Commit(ctx); nil != err {
		return payment.Receipt{}, mapError("tx commit", err)
	}

	ledger.log.Infof("credit: %s  amount: %d", a, amount)
	return payment.Receipt{
		ID: fmt.Sprintf("pg-%d", transferID),
		Transfer: payment.Transfer{
			To:     a,
			Amount: amount,
			Memo:   "credit",
		},
	}, nil
}

// accounts of a settlement in the order their rows are locked
func lockOrder(transfers []payment.Transfer) []account.Account {
	accounts := payment.Parties(transfers)
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Compare(accounts[j]) < 0
	})
	return accounts
}

// translate database failures into payment errors
func mapError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeCheckViolation:
			return fault.ErrInsufficientFunds
		case codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation:
			return fmt.Errorf("%s: %w: %s", operation, fault.ErrPaymentFailed, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w: %s", operation, fault.ErrPaymentFailed, err)
}
