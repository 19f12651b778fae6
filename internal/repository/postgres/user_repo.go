package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/gamenight/users-service/internal/errs"
	"github.com/gamenight/users-service/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
//
// Paginated reads are two-phase: a candidate-id query picks exactly the ids
// that belong on the page, then a join query fetches the denormalized rows
// for those ids only. Joining before paging would make LIMIT count join rows
// instead of users and truncate favorites at page edges.
type UserRepo struct {
	db  *DB
	log *zap.Logger
}

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// Lookup returns users restricted to the given id set, paginated when
// pageSize > 0. Zero matching candidate ids yields errs.ErrNotFound.
func (r *UserRepo) Lookup(ctx context.Context, ids []string, pageSize, pageNumber int) ([]model.User, error) {
	candidates, err := r.candidateIDs(ctx, ids, pageSize, pageNumber)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errs.ErrNotFound
	}

	const q = `
SELECT u.id, u.name, u.location, u.photo_url, u.created_at, u.updated_at, f.activity_id
FROM users u
LEFT JOIN favorite_activities f ON f.user_id = u.id
WHERE u.id = ANY($1)
ORDER BY u.id ASC`
	rows, err := r.db.Pool.Query(ctx, q, candidates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var raw []model.UserRow
	for rows.Next() {
		var row model.UserRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Location, &row.PhotoURL,
			&row.CreatedAt, &row.UpdatedAt, &row.ActivityID); err != nil {
			r.log.Warn("skipping malformed user row", zap.Error(err))
			continue
		}
		raw = append(raw, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The candidate query already bounded the page, so flatten unbounded.
	return flattenRows(raw, 0, r.log), nil
}

// candidateIDs selects the exact id set for the requested page from the
// unjoined base table. pageNumber is 1-based; <= 1 means offset 0.
func (r *UserRepo) candidateIDs(ctx context.Context, ids []string, pageSize, pageNumber int) ([]string, error) {
	q := `SELECT id FROM users`
	var args []any
	if len(ids) > 0 {
		q += ` WHERE id = ANY($1)`
		args = append(args, ids)
	}
	q += ` ORDER BY id ASC`
	if pageSize > 0 {
		offset := 0
		if pageNumber > 1 {
			offset = pageSize * (pageNumber - 1)
		}
		q += fmt.Sprintf(` LIMIT %d OFFSET %d`, pageSize, offset)
	}

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// UpsertStub inserts an id-only row to reserve an identity at first login.
// An existing row, complete or not, is left untouched.
func (r *UserRepo) UpsertStub(ctx context.Context, id string) (bool, error) {
	const q = `INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Update replaces the profile fields of an existing user. Reports false when
// no row matched the id.
func (r *UserRepo) Update(ctx context.Context, u model.User) (bool, error) {
	const q = `
UPDATE users
SET name=$2, location=$3, photo_url=$4, updated_at=now()
WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, u.ID, u.Name, u.Location, u.PhotoURL)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ReplaceFavorites atomically replaces the favorites set with the given ids:
// delete everything, insert one row per distinct id, all in one transaction.
// Any failed step rolls the whole replace back, leaving the previous set
// intact.
func (r *UserRepo) ReplaceFavorites(ctx context.Context, userID string, favoriteIDs []int64) (ok bool, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil || !ok {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			ok, err = false, e
		}
	}()

	const del = `DELETE FROM favorite_activities WHERE user_id=$1`
	if _, err = tx.Exec(ctx, del, userID); err != nil {
		return false, err
	}

	const ins = `INSERT INTO favorite_activities (user_id, activity_id) VALUES ($1, $2)`
	for _, activityID := range dedupActivityIDs(favoriteIDs) {
		var tag pgconn.CommandTag
		if tag, err = tx.Exec(ctx, ins, userID, activityID); err != nil {
			return false, err
		}
		if tag.RowsAffected() == 0 {
			return false, nil
		}
	}
	return true, nil
}

// dedupActivityIDs drops duplicate ids while preserving input order; the
// stored set is unique regardless of caller input.
func dedupActivityIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
