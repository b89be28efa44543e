package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/webgrep/sitesearch/internal/model"
)

// WriteIndex atomically writes all index rows of one page: the document
// frequency of every lemma in the map is incremented by exactly 1, and
// one posting per lemma is created with the in-page occurrence count as
// its rank value.
//
// The whole write is one transaction so a failed attempt leaves no
// partial increments behind and the indexing engine can safely retry
// after contention. This preserves the invariant that a lemma's
// frequency equals the number of postings referencing it.
func (sdb *DB) WriteIndex(ctx context.Context, page *model.Page, lemmas map[string]int) error {
	if len(lemmas) == 0 {
		return nil
	}

	// Deterministic write order keeps concurrent page writes from
	// touching the same rows in opposite orders.
	texts := make([]string, 0, len(lemmas))
	for text := range lemmas {
		texts = append(texts, text)
	}
	sort.Strings(texts)

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin index write: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	upsert := `
	INSERT INTO lemma (site_id, lemma, frequency)
	VALUES (?, ?, 1)
	ON CONFLICT(site_id, lemma) DO UPDATE SET frequency = frequency + 1
	`
	for _, text := range texts {
		if _, err := tx.ExecContext(ctx, upsert, page.SiteID, text); err != nil {
			return fmt.Errorf("failed to upsert lemma: %w", err)
		}
	}

	// All lemma rows exist now; fetch their ids in one round trip.
	placeholders := strings.Repeat("?,", len(texts)-1) + "?"
	query := fmt.Sprintf(`SELECT id, lemma FROM lemma WHERE site_id = ? AND lemma IN (%s)`, placeholders)
	args := make([]any, 0, len(texts)+1)
	args = append(args, page.SiteID)
	for _, t := range texts {
		args = append(args, t)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to fetch lemma ids: %w", err)
	}

	type idText struct {
		id   int64
		text string
	}
	var found []idText
	for rows.Next() {
		var it idText
		if err := rows.Scan(&it.id, &it.text); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan lemma id: %w", err)
		}
		found = append(found, it)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to read lemma ids: %w", err)
	}
	rows.Close()

	for _, it := range found {
		count, ok := lemmas[it.text]
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO posting (page_id, lemma_id, rank_value) VALUES (?, ?, ?)`,
			page.ID, it.id, float64(count),
		); err != nil {
			return fmt.Errorf("failed to insert posting: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index write: %w", err)
	}
	return nil
}

// DeletePageIndex undoes WriteIndex for one page: every lemma the page
// posted loses 1 document frequency, the page's postings are removed,
// and lemma rows that drop to zero are deleted. Used by the single-page
// reindex path before the page row is replaced, so frequencies stay in
// step with the postings that reference them.
func (sdb *DB) DeletePageIndex(ctx context.Context, pageID int64) error {
	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin index delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	statements := []string{
		`UPDATE lemma SET frequency = frequency - 1
		 WHERE id IN (SELECT lemma_id FROM posting WHERE page_id = ?)`,
		`DELETE FROM posting WHERE page_id = ?`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, pageID); err != nil {
			return fmt.Errorf("failed to delete page index: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM lemma WHERE frequency <= 0`); err != nil {
		return fmt.Errorf("failed to prune empty lemmas: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index delete: %w", err)
	}
	return nil
}
