package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
)

var (
	// ErrConnectionFailed is returned once every connection attempt has been
	// exhausted. The last attempt's error is attached.
	ErrConnectionFailed = errors.New("database: connection failed")

	// ErrNotConnected is returned when an operation is issued against a
	// closed or never-opened session.
	ErrNotConnected = errors.New("database: not connected")
)

// Settings carries everything needed to establish a session.
type Settings struct {
	DSN            string
	Retries        int
	ConnectTimeout time.Duration
	Isolation      Level
}

// Conn owns exactly one live connection to the store and the transaction
// scopes derived from it. The handle is passed explicitly to every consumer
// so that independent sessions can coexist in one process.
//
// At most one statement or transaction is in flight at a time; concurrent
// callers queue on the session.
type Conn struct {
	log  *slog.Logger
	ctrl *Controller

	mu sync.Mutex
	pg *pgx.Conn
}

// Connect establishes the session, attempting up to Retries times with each
// attempt bounded by ConnectTimeout. Retries are immediate, without backoff;
// every failure but the last is swallowed. On success the configured default
// isolation level is applied before the connection is handed out.
func Connect(ctx context.Context, log *slog.Logger, s Settings) (*Conn, error) {
	retries := s.Retries
	if retries < 1 {
		retries = 1
	}

	var pg *pgx.Conn
	var err error
	for attempt := 1; attempt <= retries; attempt++ {
		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if s.ConnectTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, s.ConnectTimeout)
		}
		pg, err = pgx.Connect(attemptCtx, s.DSN)
		cancel()
		if err == nil {
			log.Info("database connected", "attempt", attempt)
			break
		}
		log.Debug("connection attempt failed", "attempt", attempt, "err", err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w after %d attempts: %w", ErrConnectionFailed, retries, err)
	}

	pgxdecimal.Register(pg.TypeMap())

	c := &Conn{log: log, pg: pg}
	c.ctrl = newController(c)

	if s.Isolation != "" {
		if err := c.ctrl.SetLevel(ctx, s.Isolation); err != nil {
			_ = pg.Close(ctx)
			return nil, err
		}
	}
	return c, nil
}

// Close releases the connection. It is idempotent and safe to call on a
// session that never connected.
func (c *Conn) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pg == nil {
		return nil
	}
	err := c.pg.Close(ctx)
	c.pg = nil
	c.log.Info("database disconnected")
	return err
}

// Isolation returns the session's isolation controller.
func (c *Conn) Isolation() *Controller { return c.ctrl }

// WithConn runs fn with exclusive use of the connection, outside any
// transaction scope. Each statement fn issues commits on its own.
func (c *Conn) WithConn(ctx context.Context, fn func(conn *pgx.Conn) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pg == nil {
		return ErrNotConnected
	}
	return fn(c.pg)
}

// WithTx runs fn inside an explicit transaction scope. The transaction
// commits only when fn returns nil; any error rolls it back first and is then
// propagated, so partial writes are never left visible. The session lock is
// held for the whole scope, which keeps a single transaction open at a time.
func (c *Conn) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pg == nil {
		return ErrNotConnected
	}

	tx, err := c.pg.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (c *Conn) execDirective(ctx context.Context, stmt string) error {
	return c.WithConn(ctx, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, stmt)
		return err
	})
}
