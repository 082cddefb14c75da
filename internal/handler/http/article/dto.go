// Package article provides HTTP handlers for the analyzed-article store:
// listing, retrieving, deleting stored analyses, aggregate stats, and
// on-demand analysis of a fetched article.
package article

import (
	"time"

	"newslens/internal/domain/entity"
)

// DTO represents the JSON structure for an analyzed article.
type DTO struct {
	ID          int64      `json:"id"`
	ArticleID   string     `json:"articleId"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Provider    string     `json:"provider"`
	Summary     string     `json:"summary"`
	Sentiment   string     `json:"sentiment"`
	Topics      []string   `json:"topics"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toDTO(a *entity.AnalyzedArticle) DTO {
	topics := a.Topics
	if topics == nil {
		topics = []string{}
	}
	return DTO{
		ID:          a.ID,
		ArticleID:   a.ArticleID,
		Title:       a.Title,
		URL:         a.URL,
		Provider:    a.Provider,
		Summary:     a.Summary,
		Sentiment:   a.Sentiment,
		Topics:      topics,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
	}
}

// AnalyzeRequest is the body for the on-demand analysis endpoint. It carries
// an article as returned by the search endpoint.
type AnalyzeRequest struct {
	Article entity.Article `json:"article"`
}
