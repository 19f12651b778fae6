package postgres

import (
	"go.uber.org/zap"

	"github.com/gamenight/users-service/internal/model"
)

// flattenRows reconstructs distinct users from ordered join rows. The first
// row seen for an id sets the scalar fields; each non-nil activity id joins
// that user's favorites set exactly once. Rows for one user are contiguous
// because the queries order by id ascending.
//
// pageSize <= 0 consumes the whole stream. pageSize > 0 stops before the
// first row of the (pageSize+1)-th distinct id, so a user's rows are never
// split across a page boundary.
//
// A row without an id is logged and skipped; it never aborts the batch.
func flattenRows(rows []model.UserRow, pageSize int, log *zap.Logger) []model.User {
	users := make([]model.User, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		if row.ID == "" {
			log.Warn("skipping malformed join row: missing id")
			continue
		}

		i, seen := index[row.ID]
		if !seen {
			if pageSize > 0 && len(users) == pageSize {
				break
			}
			users = append(users, model.User{
				ID:                 row.ID,
				Name:               row.Name,
				Location:           row.Location,
				PhotoURL:           row.PhotoURL,
				FavoriteActivities: []int64{},
				CreatedAt:          row.CreatedAt,
				UpdatedAt:          row.UpdatedAt,
			})
			i = len(users) - 1
			index[row.ID] = i
		}

		if row.ActivityID != nil {
			u := &users[i]
			if !containsActivity(u.FavoriteActivities, *row.ActivityID) {
				u.FavoriteActivities = append(u.FavoriteActivities, *row.ActivityID)
			}
		}
	}
	return users
}

func containsActivity(set []int64, id int64) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}
