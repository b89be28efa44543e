package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/webgrep/sitesearch/internal/model"
)

// InsertPage stores a fetched page, setting its ID.
// Returns ErrDuplicatePage when a page already exists for the same
// (site, path); concurrent crawl tasks racing on the same URL treat
// that as a successful no-op.
func (sdb *DB) InsertPage(ctx context.Context, page *model.Page) error {
	result, err := sdb.db.ExecContext(ctx,
		`INSERT INTO page (site_id, path, code, content) VALUES (?, ?, ?, ?)`,
		page.SiteID, page.Path, page.Code, page.Content,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePage
		}
		return fmt.Errorf("failed to insert page: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get page id: %w", err)
	}
	page.ID = id
	return nil
}

// PageByPath retrieves a page of a site by its site-relative path.
// Returns (nil, nil) when no such page exists.
func (sdb *DB) PageByPath(ctx context.Context, siteID int64, path string) (*model.Page, error) {
	query := `
	SELECT id, site_id, path, code, content
	FROM page
	WHERE site_id = ? AND path = ?
	ORDER BY id ASC
	LIMIT 1
	`

	var page model.Page
	err := sdb.db.QueryRowContext(ctx, query, siteID, path).Scan(
		&page.ID, &page.SiteID, &page.Path, &page.Code, &page.Content,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return &page, nil
}

// DeletePage removes a single page row. The caller is responsible for
// removing its index rows first (see DeletePageIndex).
func (sdb *DB) DeletePage(ctx context.Context, pageID int64) error {
	if _, err := sdb.db.ExecContext(ctx, `DELETE FROM page WHERE id = ?`, pageID); err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	return nil
}

// CountPages returns the number of stored pages of a site.
func (sdb *DB) CountPages(ctx context.Context, siteID int64) (int, error) {
	var count int
	err := sdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM page WHERE site_id = ?`, siteID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}
