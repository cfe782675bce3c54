package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/store"
	"github.com/ihsan-khan/library-management-system/internal/version"
)

func (d *DB) UpsertMigrationHistory(ctx context.Context, upsert *store.UpsertMigrationHistory) (*store.MigrationHistory, error) {
	stmt := `
		INSERT INTO migration_history (
			version
		)
		VALUES (?)
		ON CONFLICT(version) DO UPDATE
		SET
			version = EXCLUDED.version
		RETURNING version, created_ts
	`

	log.Debug("SQL query and args:")
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %s\n", stmt, upsert.Version))

	var history store.MigrationHistory
	if err := d.DB.QueryRowContext(ctx, stmt, upsert.Version).Scan(
		&history.Version,
		&history.CreatedTs,
	); err != nil {
		return nil, errors.Wrapf(err, "failed to record schema version %s", upsert.Version)
	}

	return &history, nil
}

func (d *DB) FindMigrationHistoryList(ctx context.Context, find *store.FindMigrationHistory) ([]*store.MigrationHistory, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.Version; v != nil {
		where, args = append(where, "version = ?"), append(args, *v)
	}

	query := `SELECT version, created_ts FROM migration_history WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_ts DESC`
	rows, err := d.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*store.MigrationHistory, 0)
	for rows.Next() {
		var history store.MigrationHistory
		if err := rows.Scan(
			&history.Version,
			&history.CreatedTs,
		); err != nil {
			return nil, err
		}

		list = append(list, &history)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// LatestMigrationVersion returns the highest recorded schema version,
// or an empty string when nothing was recorded yet.
func (d *DB) LatestMigrationVersion(ctx context.Context) (string, error) {
	list, err := d.FindMigrationHistoryList(ctx, &store.FindMigrationHistory{})
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", nil
	}

	versions := make([]string, 0, len(list))
	for _, history := range list {
		versions = append(versions, history.Version)
	}
	sort.Sort(version.SortVersion(versions))
	return versions[len(versions)-1], nil
}

func (d *DB) CheckTableExists(ctx context.Context, tableName string) (bool, error) {
	query := "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?"
	var name string
	if err := d.DB.QueryRowContext(ctx, query, tableName).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
