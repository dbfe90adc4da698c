package config

import (
	"context"
	"log/slog"

	"github.com/gea-gov/gea/pkg/domain/interfaces"
	"github.com/gea-gov/gea/pkg/repository/firestore"
	"github.com/gea-gov/gea/pkg/repository/memory"
	"github.com/gea-gov/gea/pkg/repository/rdb"
	"github.com/gea-gov/gea/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	BackendMemory    = "memory"
	BackendSQLite    = "sqlite"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend     string
	dsn         string `masq:"secret"`
	autoMigrate bool
	projectID   string
	databaseID  string
	prefix      string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (memory, sqlite, postgres or firestore)",
			Category:    "Repository",
			Value:       BackendMemory,
			Sources:     cli.EnvVars("GEA_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "db-dsn",
			Usage:       "Database DSN: a file path for sqlite, a connection URL for postgres",
			Category:    "Repository",
			Sources:     cli.EnvVars("GEA_DB_DSN"),
			Destination: &r.dsn,
		},
		&cli.BoolFlag{
			Name:        "db-auto-migrate",
			Usage:       "Apply pending schema migrations on startup (sqlite and postgres)",
			Category:    "Repository",
			Sources:     cli.EnvVars("GEA_DB_AUTO_MIGRATE"),
			Destination: &r.autoMigrate,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("GEA_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("GEA_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix prepended to every Firestore collection name",
			Category:    "Repository",
			Sources:     cli.EnvVars("GEA_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.prefix,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.Int("dsn.len", len(r.dsn)),
		slog.Bool("auto_migrate", r.autoMigrate),
		slog.String("project_id", r.projectID),
		slog.String("database_id", r.databaseID),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// CollectionPrefix returns the Firestore collection prefix
func (r *Repository) CollectionPrefix() string {
	return r.prefix
}

// IsSQL reports whether the backend is served by the relational repository
func (r *Repository) IsSQL() bool {
	return r.backend == BackendSQLite || r.backend == BackendPostgres
}

// OpenDB connects to the relational backend without applying migrations
func (r *Repository) OpenDB(ctx context.Context) (*rdb.DB, error) {
	if !r.IsSQL() {
		return nil, goerr.Wrap(ErrInvalidBackend, "backend is not relational", goerr.V(BackendKey, r.backend))
	}
	if r.dsn == "" {
		return nil, goerr.Wrap(ErrMissingSetting, "db-dsn is required for relational backends",
			goerr.V(SettingKey, "db-dsn"), goerr.V(BackendKey, r.backend))
	}
	db, err := rdb.Open(ctx, rdb.Dialect(r.backend), r.dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V(BackendKey, r.backend))
	}
	return db, nil
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case BackendSQLite, BackendPostgres:
		db, err := r.OpenDB(ctx)
		if err != nil {
			return nil, err
		}
		if r.autoMigrate {
			if err := db.Migrate(ctx); err != nil {
				_ = db.Close()
				return nil, goerr.Wrap(err, "failed to migrate database")
			}
		}
		logging.Default().Info("Using relational repository",
			"backend", r.backend,
			"auto_migrate", r.autoMigrate,
		)
		return db, nil

	case BackendFirestore:
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrMissingSetting, "firestore-project-id is required when using firestore backend",
				goerr.V(SettingKey, "firestore-project-id"))
		}
		var opts []firestore.Option
		if r.prefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.prefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case BackendMemory:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown repository backend", goerr.V(BackendKey, r.backend))
	}
}
