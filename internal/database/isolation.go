package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrInvalidIsolationLevel is returned for a level outside the supported
// domain. The previously active level is left untouched.
var ErrInvalidIsolationLevel = errors.New("database: invalid isolation level")

// Level is a transaction isolation level, weakest to strongest.
type Level string

const (
	ReadUncommitted Level = "READ UNCOMMITTED"
	ReadCommitted   Level = "READ COMMITTED"
	RepeatableRead  Level = "REPEATABLE READ"
	Serializable    Level = "SERIALIZABLE"
)

// ParseLevel validates a level name, tolerating case and surrounding space.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case ReadUncommitted, ReadCommitted, RepeatableRead, Serializable:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidIsolationLevel, s)
	}
}

type sessionExec interface {
	execDirective(ctx context.Context, stmt string) error
}

// Controller applies and reports the session's isolation level. The session
// directive takes effect before the first statement of every subsequent
// transaction on the connection.
//
// Note that Postgres accepts READ UNCOMMITTED and runs it as READ COMMITTED;
// the controller records whatever was requested.
type Controller struct {
	session sessionExec

	mu      sync.Mutex
	current Level
}

func newController(session sessionExec) *Controller {
	return &Controller{session: session, current: ReadCommitted}
}

// SetLevel validates the level, issues the session directive, and records the
// new level. A rejected level changes nothing.
func (c *Controller) SetLevel(ctx context.Context, level Level) error {
	parsed, err := ParseLevel(string(level))
	if err != nil {
		return err
	}
	stmt := "SET SESSION CHARACTERISTICS AS TRANSACTION ISOLATION LEVEL " + string(parsed)
	if err := c.session.execDirective(ctx, stmt); err != nil {
		return err
	}
	c.mu.Lock()
	c.current = parsed
	c.mu.Unlock()
	return nil
}

// CurrentLevel returns the last successfully applied level; READ COMMITTED if
// none was ever set.
func (c *Controller) CurrentLevel() Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}
