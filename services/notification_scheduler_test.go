package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type stepKind int

const (
	kindQuery stepKind = iota
	kindExec
)

type queryStep struct {
	kind    stepKind
	pattern *regexp.Regexp
	args    []driver.Value
	columns []string
	rows    [][]driver.Value
	err     error
}

type scriptedDB struct {
	mu        sync.Mutex
	steps     []*queryStep
	commits   int
	rollbacks int
}

func (db *scriptedDB) next(kind stepKind, query string, args []driver.NamedValue) (*queryStep, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) == 0 {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	step := db.steps[0]
	if step.kind != kind {
		return nil, fmt.Errorf("unexpected kind for query %s: got %v want %v", query, kind, step.kind)
	}
	if !step.pattern.MatchString(query) {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	if step.args != nil {
		if len(step.args) != len(args) {
			return nil, fmt.Errorf("unexpected arg count for %s: got %d want %d", query, len(args), len(step.args))
		}
		for i := range args {
			if args[i].Value != step.args[i] {
				return nil, fmt.Errorf("unexpected arg %d for %s: got %v want %v", i, query, args[i].Value, step.args[i])
			}
		}
	}
	db.steps = db.steps[1:]
	return step, nil
}

func (db *scriptedDB) verifyComplete() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) != 0 {
		return fmt.Errorf("unmet expectations: %d", len(db.steps))
	}
	return nil
}

func (db *scriptedDB) txCounts() (commits, rollbacks int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.commits, db.rollbacks
}

type scriptedDriver struct {
	db *scriptedDB
}

func (d *scriptedDriver) Open(string) (driver.Conn, error) {
	return &scriptedConn{db: d.db}, nil
}

type scriptedConn struct {
	db *scriptedDB
}

func (c *scriptedConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *scriptedConn) Close() error { return nil }

func (c *scriptedConn) Begin() (driver.Tx, error) {
	return &scriptedTx{db: c.db}, nil
}

type scriptedTx struct {
	db *scriptedDB
}

func (t *scriptedTx) Commit() error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.commits++
	return nil
}

func (t *scriptedTx) Rollback() error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.rollbacks++
	return nil
}

func (c *scriptedConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	step, err := c.db.next(kindQuery, query, args)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if step.err != nil {
		return nil, step.err
	}
	return &scriptedRows{columns: step.columns, rows: step.rows}, nil
}

func (c *scriptedConn) Query(query string, args []driver.Value) (driver.Rows, error) {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return c.QueryContext(context.Background(), query, named)
}

func (c *scriptedConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	step, err := c.db.next(kindExec, query, args)
	if err != nil {
		return nil, err
	}
	if step.err != nil {
		return nil, step.err
	}
	return scriptedResult{}, nil
}

func (c *scriptedConn) Exec(query string, args []driver.Value) (driver.Result, error) {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return c.ExecContext(context.Background(), query, named)
}

type scriptedResult struct{}

func (scriptedResult) LastInsertId() (int64, error) { return 1, nil }

func (scriptedResult) RowsAffected() (int64, error) { return 1, nil }

type scriptedRows struct {
	columns []string
	rows    [][]driver.Value
	idx     int
}

func (r *scriptedRows) Columns() []string { return r.columns }

func (r *scriptedRows) Close() error { return nil }

func (r *scriptedRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.idx]
	for i := range dest {
		dest[i] = nil
	}
	for i := range row {
		dest[i] = row[i]
	}
	r.idx++
	return nil
}

func newScriptedGormDB(t *testing.T, steps []*queryStep) (*gorm.DB, *scriptedDB, func()) {
	t.Helper()
	state := &scriptedDB{steps: steps}
	driverName := fmt.Sprintf("scripted_%d", time.Now().UnixNano())
	sql.Register(driverName, &scriptedDriver{db: state})

	sqlDB, err := sql.Open(driverName, "")
	if err != nil {
		t.Fatalf("failed to open sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create gorm db: %v", err)
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}
	return gormDB, state, cleanup
}

var enabledRulesPattern = regexp.MustCompile("SELECT \\* FROM .notification_rules. WHERE is_enabled = \\? ORDER BY rule_id ASC")

func TestRunCycleCommitsEmptyPass(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: enabledRulesPattern,
			args:    []driver.Value{true},
			columns: []string{"rule_id"},
			rows:    [][]driver.Value{},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	scheduler := NewNotificationScheduler(gormDB, time.Hour)
	if err := scheduler.RunCycle(context.Background(), time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	commits, rollbacks := state.txCounts()
	if commits != 1 || rollbacks != 0 {
		t.Fatalf("expected 1 commit and 0 rollbacks, got %d/%d", commits, rollbacks)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestRunCycleRollsBackOnStoreFailure(t *testing.T) {
	storeErr := errors.New("store unavailable")
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: enabledRulesPattern,
			args:    []driver.Value{true},
			err:     storeErr,
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	scheduler := NewNotificationScheduler(gormDB, time.Hour)
	if err := scheduler.RunCycle(context.Background(), time.Now()); !errors.Is(err, storeErr) {
		t.Fatalf("expected store failure to abort the cycle, got %v", err)
	}

	commits, rollbacks := state.txCounts()
	if commits != 0 || rollbacks != 1 {
		t.Fatalf("expected 0 commits and 1 rollback, got %d/%d", commits, rollbacks)
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	steps := []*queryStep{
		// Only the immediate first cycle; the interval is far too long
		// for a second tick.
		{
			kind:    kindQuery,
			pattern: enabledRulesPattern,
			args:    []driver.Value{true},
			columns: []string{"rule_id"},
			rows:    [][]driver.Value{},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	scheduler := NewNotificationScheduler(gormDB, time.Hour)

	done := make(chan struct{})
	go func() {
		scheduler.Start(context.Background())
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	scheduler.Stop()
	scheduler.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
	commits, _ := state.txCounts()
	if commits != 1 {
		t.Fatalf("expected exactly one cycle before stop, got %d", commits)
	}
}

func TestSchedulerHonorsContextCancellation(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: enabledRulesPattern,
			args:    []driver.Value{true},
			columns: []string{"rule_id"},
			rows:    [][]driver.Value{},
		},
	}

	gormDB, _, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	scheduler := NewNotificationScheduler(gormDB, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Start(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not honor context cancellation")
	}
}
