package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/models"
)

// searchQuery runs one case-insensitive substring match per content table
// and stitches the hits together. All branches share the single pattern
// parameter, newest content first. Messages carry no title, so the sender
// label stands in and only the text is matched.
const searchQuery = `SELECT 'discussions' AS collection, id, topic AS title, content, created_at FROM discussions
    WHERE topic ILIKE $1 OR content ILIKE $1
UNION ALL
SELECT 'messages', id, sender_show, text, timestamp FROM messages
    WHERE text ILIKE $1
UNION ALL
SELECT 'posts', id, title, content, created_at FROM posts
    WHERE title ILIKE $1 OR content ILIKE $1
UNION ALL
SELECT 'products', id, title, description, created_at FROM products
    WHERE title ILIKE $1 OR description ILIKE $1
ORDER BY created_at DESC
LIMIT $2;`

// searchRepository is the PostgreSQL-backed implementation of
// [SearchRepository].
type searchRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSearchRepository constructs a [SearchRepository] backed by the provided
// database connection and logger.
func NewSearchRepository(db *DB, logger *logger.Logger) SearchRepository {
	logger.Debug().Msg("creating search repository")
	return &searchRepository{
		db:     db,
		logger: logger,
	}
}

// Search matches the query string against titles and bodies across
// discussions, messages, posts and products. The query is treated as a
// literal substring; ILIKE metacharacters in user input are escaped.
func (r *searchRepository) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	log := logger.FromContext(ctx)

	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	pattern := "%" + escapeLikePattern(query) + "%"

	rows, err := r.db.QueryContext(ctx, searchQuery, pattern, limit)
	if err != nil {
		log.Err(err).Str("func", "*searchRepository.Search").Msg("error: executing select")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var result models.SearchResult
		var createdAt any
		if err := rows.Scan(&result.Collection, &result.ID, &result.Title, &result.Content, &createdAt); err != nil {
			log.Err(err).Str("func", "*searchRepository.Search").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return results, nil
}

// escapeLikePattern neutralises the LIKE/ILIKE metacharacters so the user's
// query matches literally.
func escapeLikePattern(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
