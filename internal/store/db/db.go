package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/store"
	"github.com/ihsan-khan/library-management-system/internal/version"
)

// defaultPragmas are appended to DSNs that carry no query string.
const defaultPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

type DB struct {
	*sql.DB
	// path is the database file, empty for in-memory databases.
	path string
}

// NewDB opens the sqlite database at dsn. Foreign keys are always enforced.
func NewDB(dsn string) (*DB, error) {
	if dsn == "" {
		return nil, errors.New("Database URL is required")
	}

	d, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	return &DB{DB: d, path: filePath(dsn)}, nil
}

func withPragmas(dsn string) string {
	if strings.Contains(dsn, "?") {
		if !strings.Contains(dsn, "foreign_keys") {
			return dsn + "&_pragma=foreign_keys(1)"
		}
		return dsn
	}
	return dsn + "?" + defaultPragmas
}

func filePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	if path == ":memory:" || path == "" {
		return ""
	}
	return path
}

func (d *DB) Close() error {
	return d.DB.Close()
}

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "LATEST_SCHEMA.sql"

// Migrate brings the schema up to the current version.
// A database without migration_history gets the latest schema,
// otherwise every minor version newer than the recorded one is applied in order.
func (d *DB) Migrate(ctx context.Context) error {
	currentVersion := version.GetCurrentVersion()
	log.Info("Migrating database", zap.String("version", currentVersion))

	exist, err := d.CheckTableExists(ctx, "migration_history")
	if err != nil {
		return errors.Wrap(err, "failed to check database table")
	}
	if !exist {
		if err := d.applyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		if _, err := d.UpsertMigrationHistory(ctx, &store.UpsertMigrationHistory{
			Version: currentVersion,
		}); err != nil {
			return errors.Wrap(err, "failed to upsert migration history")
		}
		return nil
	}

	latestMigrationHistoryVersion, err := d.LatestMigrationVersion(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to find migration history list")
	}

	if latestMigrationHistoryVersion == "" {
		minorVersion := version.GetMinorVersion(currentVersion)
		if err := d.applyMigrationForMinorVersion(ctx, minorVersion); err != nil {
			return errors.Wrapf(err, "failed to apply version %s migration", minorVersion)
		}
		if _, err := d.UpsertMigrationHistory(ctx, &store.UpsertMigrationHistory{
			Version: currentVersion,
		}); err != nil {
			return errors.Wrap(err, "failed to upsert migration history")
		}
		return nil
	}

	if !version.IsVersionGreaterThan(version.GetSchemaVersion(currentVersion), latestMigrationHistoryVersion) {
		log.Debug("Database schema is up to date", zap.String("version", latestMigrationHistoryVersion))
		return nil
	}

	backupPath, err := d.backup()
	if err != nil {
		return errors.Wrap(err, "failed to backup database")
	}

	log.Info("Start migration",
		zap.String("from", latestMigrationHistoryVersion),
		zap.String("to", currentVersion))
	for _, minorVersion := range getMinorVersionList() {
		// Patch releases never change the schema.
		normalizedVersion := minorVersion + ".0"
		if version.IsVersionGreaterThan(normalizedVersion, latestMigrationHistoryVersion) && version.IsVersionGreaterOrEqualThan(currentVersion, normalizedVersion) {
			log.Info("Applying migration", zap.String("version", normalizedVersion))
			if err := d.applyMigrationForMinorVersion(ctx, minorVersion); err != nil {
				return errors.Wrap(err, "failed to apply minor version migration")
			}
		}
	}
	log.Info("End migration")

	if backupPath != "" {
		if err := os.Remove(backupPath); err != nil {
			log.Warn("Failed to remove database backup", zap.String("path", backupPath), zap.Error(err))
		}
	}
	return nil
}

// backup copies the database file next to itself and returns the copy's path.
// In-memory databases are not backed up.
func (d *DB) backup() (string, error) {
	if d.path == "" {
		return "", nil
	}
	rawBytes, err := os.ReadFile(d.path)
	if err != nil {
		return "", errors.Wrap(err, "failed to read raw database file")
	}
	backupPath := filepath.Join(filepath.Dir(d.path),
		fmt.Sprintf("library_%s_%d_backup.db", version.GetCurrentVersion(), time.Now().Unix()))
	if err := os.WriteFile(backupPath, rawBytes, 0644); err != nil {
		return "", errors.Wrap(err, "failed to write backup database file")
	}
	log.Info("Backup database file", zap.String("path", backupPath))
	return backupPath, nil
}

func (d *DB) applyLatestSchema(ctx context.Context) error {
	latestSchemaPath := fmt.Sprintf("migration/%s", latestSchemaFileName)
	buf, err := migrationFS.ReadFile(latestSchemaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file: %q", latestSchemaPath)
	}

	if err := d.execute(ctx, string(buf)); err != nil {
		return errors.Wrapf(err, "failed to apply latest schema: %q", latestSchemaPath)
	}
	return nil
}

func (d *DB) applyMigrationForMinorVersion(ctx context.Context, minorVersion string) error {
	filenames, err := fs.Glob(migrationFS, fmt.Sprintf("migration/%s/*.sql", minorVersion))
	if err != nil {
		return errors.Wrapf(err, "failed to find migration files for version %s", minorVersion)
	}

	// 00001_example.sql, 00002_example.sql, ...
	slices.Sort(filenames)

	for _, filename := range filenames {
		buf, err := migrationFS.ReadFile(filename)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file: %q", filename)
		}
		if err := d.execute(ctx, string(buf)); err != nil {
			return errors.Wrapf(err, "failed to apply migration: %q", filename)
		}
	}

	schemaVersion := minorVersion + ".0"
	if _, err := d.UpsertMigrationHistory(ctx, &store.UpsertMigrationHistory{
		Version: schemaVersion,
	}); err != nil {
		return errors.Wrapf(err, "failed to upsert migration history for version %s", schemaVersion)
	}

	return nil
}

// execute runs the statements within a transaction.
func (d *DB) execute(ctx context.Context, stmt string) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}

	return tx.Commit()
}

// minorDirRegexp is a regular expression for minor version directory.
var minorDirRegexp = regexp.MustCompile(`^migration/[0-9]+\.[0-9]+$`)

func getMinorVersionList() []string {
	minorVersionList := []string{}

	if err := fs.WalkDir(migrationFS, "migration", func(path string, file fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if file.IsDir() && minorDirRegexp.MatchString(path) {
			minorVersionList = append(minorVersionList, file.Name())
		}

		return nil
	}); err != nil {
		panic(err)
	}

	sort.Sort(version.SortVersion(minorVersionList))

	return minorVersionList
}
