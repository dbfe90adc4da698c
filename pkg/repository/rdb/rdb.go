package rdb

import (
	"context"
	"database/sql"
	"embed"
	"strconv"
	"strings"
	"time"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Dialect selects the SQL engine behind a DB
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func (d Dialect) IsValid() bool {
	return d == DialectSQLite || d == DialectPostgres
}

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// DB is a relational implementation of interfaces.Repository
type DB struct {
	db      *sql.DB
	dialect Dialect

	entity      *entityRepository
	secretariat *secretariatRepository
	department  *departmentRepository
	division    *divisionRepository
	service     *serviceRepository
	caseRepo    *caseRepository
}

var _ interfaces.Repository = &DB{}

// Open connects to the database. For SQLite the DSN is a file path (or ":memory:")
// and foreign key enforcement is switched on for every connection.
func Open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, goerr.New("database DSN is required", goerr.V("dialect", dialect))
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	switch dialect {
	case DialectSQLite:
		sqlDB, err = sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open sqlite", goerr.V("dsn", dsn))
		}
		// SQLite serialises writers; a single connection also keeps ":memory:" databases alive
		sqlDB.SetMaxOpenConns(1)
	case DialectPostgres:
		sqlDB, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open postgres")
		}
	default:
		return nil, goerr.New("unsupported database dialect", goerr.V("dialect", dialect))
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, goerr.Wrap(err, "failed to connect database", goerr.V("dialect", dialect))
	}

	return newDB(sqlDB, dialect), nil
}

func newDB(sqlDB *sql.DB, dialect Dialect) *DB {
	d := &DB{db: sqlDB, dialect: dialect}
	d.entity = &entityRepository{db: d}
	d.secretariat = &secretariatRepository{db: d}
	d.department = &departmentRepository{db: d}
	d.division = &divisionRepository{db: d}
	d.service = &serviceRepository{db: d}
	d.caseRepo = &caseRepository{db: d}
	return d
}

func sqliteDSN(dsn string) string {
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

func (d *DB) gooseDialect() string {
	if d.dialect == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

func (d *DB) migrationsDir() string {
	return "migrations/" + string(d.dialect)
}

func (d *DB) setupGoose() error {
	if err := goose.SetDialect(d.gooseDialect()); err != nil {
		return goerr.Wrap(err, "failed to set goose dialect", goerr.V("dialect", d.dialect))
	}
	goose.SetBaseFS(migrationsFS)
	return nil
}

// Migrate applies all pending schema migrations
func (d *DB) Migrate(ctx context.Context) error {
	if err := d.setupGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, d.db, d.migrationsDir()); err != nil {
		return goerr.Wrap(err, "failed to apply migrations", goerr.V("dialect", d.dialect))
	}
	return nil
}

// PendingMigration describes a migration that Migrate would apply
type PendingMigration struct {
	Version int64
	Source  string
}

// PendingMigrations lists the migrations not yet applied, in order
func (d *DB) PendingMigrations(ctx context.Context) ([]PendingMigration, error) {
	if err := d.setupGoose(); err != nil {
		return nil, err
	}
	current, err := goose.GetDBVersionContext(ctx, d.db)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read schema version")
	}
	migrations, err := goose.CollectMigrations(d.migrationsDir(), current, goose.MaxVersion)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to collect migrations", goerr.V("current", current))
	}

	pending := make([]PendingMigration, 0, len(migrations))
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		pending = append(pending, PendingMigration{Version: m.Version, Source: m.Source})
	}
	return pending, nil
}

func (d *DB) Entity() interfaces.EntityRepository {
	return d.entity
}

func (d *DB) Secretariat() interfaces.SecretariatRepository {
	return d.secretariat
}

func (d *DB) Department() interfaces.DepartmentRepository {
	return d.department
}

func (d *DB) Division() interfaces.DivisionRepository {
	return d.division
}

func (d *DB) Service() interfaces.ServiceRepository {
	return d.service
}

func (d *DB) Case() interfaces.CaseRepository {
	return d.caseRepo
}

func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// rebind rewrites '?' placeholders to the dialect's form
func (d *DB) rebind(query string) string {
	if d.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.db.ExecContext(ctx, d.rebind(query), args...)
}

func (d *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, d.rebind(query), args...)
}

func (d *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, d.rebind(query), args...)
}

// insert runs an INSERT ... RETURNING id statement
func (d *DB) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := d.queryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// timestamp returns the current time at the precision every backend can store
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// listRows runs query and decodes each row with scan
func listRows[T any](ctx context.Context, d *DB, scan func(rowScanner) (*T, error), query string, args ...any) ([]*T, error) {
	rows, err := d.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []*T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// getRow runs a single-row query; a missing row yields nil, nil
func getRow[T any](ctx context.Context, d *DB, scan func(rowScanner) (*T, error), query string, args ...any) (*T, error) {
	v, err := scan(d.queryRow(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// requireAffected turns an UPDATE or DELETE that matched nothing into ErrNotFound
func requireAffected(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to read affected rows", goerr.V(model.IDKey, id))
	}
	if n == 0 {
		return goerr.Wrap(model.ErrNotFound, kind+" not found", goerr.V(model.IDKey, id))
	}
	return nil
}
