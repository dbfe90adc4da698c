package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/repository/firestore"
	"github.com/gea-gov/gea/pkg/repository/memory"
	"github.com/gea-gov/gea/pkg/repository/rdb"
	"github.com/m-mizutani/gt"
)

type repoFactory func(t *testing.T) interfaces.Repository

func newMemoryRepo(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newSQLiteRepo(t *testing.T) interfaces.Repository {
	ctx := context.Background()
	db, err := rdb.Open(ctx, rdb.DialectSQLite, filepath.Join(t.TempDir(), "gea.db"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = db.Close() })
	gt.NoError(t, db.Migrate(ctx)).Required()
	return db
}

// newPostgresRepo isolates each test in its own schema
func newPostgresRepo(t *testing.T) interfaces.Repository {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	schema := fmt.Sprintf("gea_test_%d", time.Now().UnixNano())
	admin, err := sql.Open("pgx", dsn)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = admin.Close() })
	_, err = admin.ExecContext(ctx, "CREATE SCHEMA "+schema)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _, _ = admin.ExecContext(context.Background(), "DROP SCHEMA "+schema+" CASCADE") })

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := rdb.Open(ctx, rdb.DialectPostgres, dsn+sep+"search_path="+schema)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = db.Close() })
	gt.NoError(t, db.Migrate(ctx)).Required()
	return db
}

// newFirestoreRepo isolates each test with a collection prefix
func newFirestoreRepo(t *testing.T) interfaces.Repository {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(context.Background(), projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

var backends = []struct {
	name    string
	factory repoFactory
}{
	{"Memory", newMemoryRepo},
	{"SQLite", newSQLiteRepo},
	{"Postgres", newPostgresRepo},
	{"Firestore", newFirestoreRepo},
}

// seedDivision creates a secretariat, department and division chain
func seedDivision(t *testing.T, repo interfaces.Repository) (*model.Secretariat, *model.Department, *model.Division) {
	t.Helper()
	ctx := context.Background()

	sec, err := repo.Secretariat().Create(ctx, &model.Secretariat{Name: "Secretaria de Saúde", Acronym: "SDS"})
	gt.NoError(t, err).Required()
	dept, err := repo.Department().Create(ctx, &model.Department{SecretariatID: sec.ID, Name: "General Department"})
	gt.NoError(t, err).Required()
	div, err := repo.Division().Create(ctx, &model.Division{DepartmentID: dept.ID, Name: "General Attendance"})
	gt.NoError(t, err).Required()
	return sec, dept, div
}

func seedService(t *testing.T, repo interfaces.Repository, name string, days int) *model.Service {
	t.Helper()
	_, _, div := seedDivision(t, repo)
	svc, err := repo.Service().Create(context.Background(), &model.Service{
		DivisionID:        div.ID,
		Name:              name,
		MaxResolutionDays: days,
	})
	gt.NoError(t, err).Required()
	return svc
}
