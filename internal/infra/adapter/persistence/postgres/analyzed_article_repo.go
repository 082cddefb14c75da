// Package postgres implements the persistence interfaces against PostgreSQL
// using database/sql with the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"newslens/internal/domain/entity"
	"newslens/internal/repository"
)

type AnalyzedArticleRepo struct {
	db *sql.DB
}

func NewAnalyzedArticleRepo(db *sql.DB) repository.AnalyzedArticleRepository {
	return &AnalyzedArticleRepo{db: db}
}

// Topics are stored as JSONB rather than a native array so the repository
// stays portable across drivers that lack array scan support.
func marshalTopics(topics []string) ([]byte, error) {
	if topics == nil {
		topics = []string{}
	}
	return json.Marshal(topics)
}

func scanAnalyzed(scan func(dest ...any) error) (*entity.AnalyzedArticle, error) {
	var article entity.AnalyzedArticle
	var topicsJSON []byte
	if err := scan(&article.ID, &article.ArticleID, &article.Title, &article.URL,
		&article.Provider, &article.Summary, &article.Sentiment, &topicsJSON,
		&article.PublishedAt, &article.CreatedAt); err != nil {
		return nil, err
	}
	if len(topicsJSON) > 0 {
		if err := json.Unmarshal(topicsJSON, &article.Topics); err != nil {
			return nil, fmt.Errorf("unmarshal topics: %w", err)
		}
	}
	return &article, nil
}

const analyzedColumns = `id, article_id, title, url, provider, summary, sentiment, topics, published_at, created_at`

func (repo *AnalyzedArticleRepo) Create(ctx context.Context, article *entity.AnalyzedArticle) error {
	const query = `
INSERT INTO analyzed_articles (article_id, title, url, provider, summary, sentiment, topics, published_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (article_id) DO UPDATE SET
	summary = EXCLUDED.summary,
	sentiment = EXCLUDED.sentiment,
	topics = EXCLUDED.topics
RETURNING id, created_at`

	topicsJSON, err := marshalTopics(article.Topics)
	if err != nil {
		return fmt.Errorf("Create: marshal topics: %w", err)
	}

	err = repo.db.QueryRowContext(ctx, query,
		article.ArticleID, article.Title, article.URL, article.Provider,
		article.Summary, article.Sentiment, topicsJSON, article.PublishedAt).
		Scan(&article.ID, &article.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *AnalyzedArticleRepo) Get(ctx context.Context, id int64) (*entity.AnalyzedArticle, error) {
	query := fmt.Sprintf(`SELECT %s FROM analyzed_articles WHERE id = $1 LIMIT 1`, analyzedColumns)
	article, err := scanAnalyzed(repo.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

func (repo *AnalyzedArticleRepo) GetByArticleID(ctx context.Context, articleID string) (*entity.AnalyzedArticle, error) {
	query := fmt.Sprintf(`SELECT %s FROM analyzed_articles WHERE article_id = $1 LIMIT 1`, analyzedColumns)
	article, err := scanAnalyzed(repo.db.QueryRowContext(ctx, query, articleID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByArticleID: %w", err)
	}
	return article, nil
}

func (repo *AnalyzedArticleRepo) ListPaginated(ctx context.Context, offset, limit int) ([]*entity.AnalyzedArticle, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM analyzed_articles
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`, analyzedColumns)

	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.AnalyzedArticle, 0, limit)
	for rows.Next() {
		article, err := scanAnalyzed(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("ListPaginated: Scan: %w", err)
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (repo *AnalyzedArticleRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM analyzed_articles`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *AnalyzedArticleRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM analyzed_articles WHERE id = $1`
	result, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: RowsAffected: %w", err)
	}
	if affected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (repo *AnalyzedArticleRepo) ExistsByArticleID(ctx context.Context, articleID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM analyzed_articles WHERE article_id = $1)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, articleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByArticleID: %w", err)
	}
	return exists, nil
}

func (repo *AnalyzedArticleRepo) Stats(ctx context.Context) (*repository.AnalysisStats, error) {
	stats := &repository.AnalysisStats{
		BySentiment: make(map[string]int64),
		ByProvider:  make(map[string]int64),
	}

	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyzed_articles`).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("Stats: total: %w", err)
	}

	if err := repo.fillGroupCounts(ctx,
		`SELECT sentiment, COUNT(*) FROM analyzed_articles GROUP BY sentiment`,
		stats.BySentiment); err != nil {
		return nil, fmt.Errorf("Stats: sentiment: %w", err)
	}

	if err := repo.fillGroupCounts(ctx,
		`SELECT provider, COUNT(*) FROM analyzed_articles GROUP BY provider`,
		stats.ByProvider); err != nil {
		return nil, fmt.Errorf("Stats: provider: %w", err)
	}

	return stats, nil
}

func (repo *AnalyzedArticleRepo) fillGroupCounts(ctx context.Context, query string, dest map[string]int64) error {
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		dest[key] = count
	}
	return rows.Err()
}
