package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/webgrep/sitesearch/internal/model"
)

// PagesByLemma returns the pages posting the given lemma.
func (sdb *DB) PagesByLemma(ctx context.Context, lemmaID int64) ([]model.Page, error) {
	query := `
	SELECT DISTINCT p.id, p.site_id, p.path, p.code, p.content
	FROM posting i
	JOIN page p ON p.id = i.page_id
	WHERE i.lemma_id = ?
	`

	rows, err := sdb.db.QueryContext(ctx, query, lemmaID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages by lemma: %w", err)
	}
	defer rows.Close()

	return scanPages(rows)
}

// PageIDsByLemmaIn returns the subset of pageIDs that post the given
// lemma. This is the restricted intersection step of the search engine:
// the running candidate set shrinks lemma by lemma.
func (sdb *DB) PageIDsByLemmaIn(ctx context.Context, lemmaID int64, pageIDs []int64) ([]int64, error) {
	if len(pageIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(pageIDs)-1) + "?"
	query := fmt.Sprintf(`
	SELECT DISTINCT page_id
	FROM posting
	WHERE lemma_id = ? AND page_id IN (%s)
	`, placeholders)

	args := make([]any, 0, len(pageIDs)+1)
	args = append(args, lemmaID)
	for _, id := range pageIDs {
		args = append(args, id)
	}

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to intersect postings: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan page id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SumRank returns the sum of posting rank values of a page over the
// given lemmas: the page's absolute relevance for a query.
func (sdb *DB) SumRank(ctx context.Context, pageID int64, lemmaIDs []int64) (float64, error) {
	if len(lemmaIDs) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(lemmaIDs)-1) + "?"
	query := fmt.Sprintf(`
	SELECT COALESCE(SUM(rank_value), 0)
	FROM posting
	WHERE page_id = ? AND lemma_id IN (%s)
	`, placeholders)

	args := make([]any, 0, len(lemmaIDs)+1)
	args = append(args, pageID)
	for _, id := range lemmaIDs {
		args = append(args, id)
	}

	var sum float64
	if err := sdb.db.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum rank: %w", err)
	}
	return sum, nil
}

// scanPages reads page rows from a query result.
func scanPages(rows *sql.Rows) ([]model.Page, error) {
	var pages []model.Page
	for rows.Next() {
		var page model.Page
		if err := rows.Scan(&page.ID, &page.SiteID, &page.Path, &page.Code, &page.Content); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}
