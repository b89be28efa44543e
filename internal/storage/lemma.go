package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/webgrep/sitesearch/internal/model"
)

// LemmaBySiteAndText retrieves one lemma row of a site.
// Returns (nil, nil) when the site has no such lemma.
func (sdb *DB) LemmaBySiteAndText(ctx context.Context, siteID int64, text string) (*model.Lemma, error) {
	query := `
	SELECT id, site_id, lemma, frequency
	FROM lemma
	WHERE site_id = ? AND lemma = ?
	`

	var lemma model.Lemma
	err := sdb.db.QueryRowContext(ctx, query, siteID, text).Scan(
		&lemma.ID, &lemma.SiteID, &lemma.Lemma, &lemma.Frequency,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lemma: %w", err)
	}
	return &lemma, nil
}

// CountLemmas returns the number of lemma rows of a site.
func (sdb *DB) CountLemmas(ctx context.Context, siteID int64) (int, error) {
	var count int
	err := sdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lemma WHERE site_id = ?`, siteID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count lemmas: %w", err)
	}
	return count, nil
}
