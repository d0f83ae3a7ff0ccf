package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cesargomez89/soundhall/internal/domain"
)

// notFound maps sql.ErrNoRows onto domain.ErrNotFound and wraps anything else.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// requireAffected reports domain.ErrNotFound when a write touched no rows.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into a LIKE pattern matching it as a
// literal substring. Use with ESCAPE '\'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// maxInParams bounds how many ids go into one IN (...) list, far below
// sqlite's host parameter limit.
const maxInParams = 500

// chunkIDs drops duplicate ids and splits the rest into batches of at most
// size, keeping first-seen order.
func chunkIDs(ids []int64, size int) [][]int64 {
	seen := make(map[int64]struct{}, len(ids))
	var chunks [][]int64
	var cur []int64
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		cur = append(cur, id)
		if len(cur) == size {
			chunks = append(chunks, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
