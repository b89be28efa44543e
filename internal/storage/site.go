package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/webgrep/sitesearch/internal/model"
)

// SiteByURL retrieves a site by its root URL.
// Returns (nil, nil) when no site exists for the URL.
func (sdb *DB) SiteByURL(ctx context.Context, url string) (*model.Site, error) {
	query := `
	SELECT id, url, name, status, status_time, last_error
	FROM site
	WHERE url = ?
	`

	var site model.Site
	var statusTime string
	err := sdb.db.QueryRowContext(ctx, query, url).Scan(
		&site.ID,
		&site.URL,
		&site.Name,
		&site.Status,
		&statusTime,
		&site.LastError,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	site.StatusTime = parseTimestamp(statusTime)
	return &site, nil
}

// AllSites returns every known site ordered by id.
func (sdb *DB) AllSites(ctx context.Context) ([]model.Site, error) {
	query := `
	SELECT id, url, name, status, status_time, last_error
	FROM site
	ORDER BY id
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []model.Site
	for rows.Next() {
		var site model.Site
		var statusTime string
		if err := rows.Scan(&site.ID, &site.URL, &site.Name, &site.Status, &statusTime, &site.LastError); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		site.StatusTime = parseTimestamp(statusTime)
		sites = append(sites, site)
	}

	return sites, rows.Err()
}

// SaveSite inserts the site when its ID is zero, updating the ID in
// place, and updates the existing row otherwise.
func (sdb *DB) SaveSite(ctx context.Context, site *model.Site) error {
	if site.ID == 0 {
		result, err := sdb.db.ExecContext(ctx,
			`INSERT INTO site (url, name, status, status_time, last_error) VALUES (?, ?, ?, ?, ?)`,
			site.URL, site.Name, site.Status, formatTimestamp(site.StatusTime), site.LastError,
		)
		if err != nil {
			return fmt.Errorf("failed to insert site: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get site id: %w", err)
		}
		site.ID = id
		return nil
	}

	_, err := sdb.db.ExecContext(ctx,
		`UPDATE site SET url = ?, name = ?, status = ?, status_time = ?, last_error = ? WHERE id = ?`,
		site.URL, site.Name, site.Status, formatTimestamp(site.StatusTime), site.LastError, site.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update site: %w", err)
	}
	return nil
}

// DeleteSiteData removes all data for the site at the given URL:
// postings, then lemmas, then pages, then the site row itself. Called
// before each fresh crawl run so a restart is idempotent. Deleting an
// unknown URL is a no-op.
func (sdb *DB) DeleteSiteData(ctx context.Context, url string) error {
	site, err := sdb.SiteByURL(ctx, url)
	if err != nil {
		return err
	}
	if site == nil {
		return nil
	}

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin purge: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	// Children first so foreign keys hold at every point.
	statements := []string{
		`DELETE FROM posting WHERE page_id IN (SELECT id FROM page WHERE site_id = ?)`,
		`DELETE FROM lemma WHERE site_id = ?`,
		`DELETE FROM page WHERE site_id = ?`,
		`DELETE FROM site WHERE id = ?`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, site.ID); err != nil {
			return fmt.Errorf("failed to purge site data: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit purge: %w", err)
	}
	return nil
}
