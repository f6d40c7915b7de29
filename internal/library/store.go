package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		file_size INTEGER NOT NULL DEFAULT 0,
		added_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		name_key TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS item_tags (
		item_id INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (item_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS authors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		last_name TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		UNIQUE (last_name, first_name)
	)`,
	`CREATE TABLE IF NOT EXISTS item_authors (
		item_id INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		author_id INTEGER NOT NULL REFERENCES authors(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		PRIMARY KEY (item_id, author_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_item_tags_tag ON item_tags(tag_id)`,
	`CREATE INDEX IF NOT EXISTS idx_item_authors_author ON item_authors(author_id)`,
}

// Store is a SQLite-backed item store. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the library database at path and applies the schema.
// Use ":memory:" for an ephemeral store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("library: open %s: %w", path, err)
	}
	// SQLite serialises writers; a single connection also keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("library: enable foreign keys: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("library: apply schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (f Filter) where() (string, []any) {
	var clauses []string
	var args []any
	if f.Tag != "" {
		clauses = append(clauses, `EXISTS (SELECT 1 FROM item_tags it JOIN tags t ON t.id = it.tag_id WHERE it.item_id = i.id AND t.name_key = ?)`)
		args = append(args, tagKey(f.Tag))
	}
	if f.AuthorID > 0 {
		clauses = append(clauses, `EXISTS (SELECT 1 FROM item_authors ia WHERE ia.item_id = i.id AND ia.author_id = ?)`)
		args = append(args, f.AuthorID)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// CountItems returns the number of items matching f.
func (s *Store) CountItems(ctx context.Context, f Filter) (int, error) {
	where, args := f.where()
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items i`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("library: count items: %w", err)
	}
	return count, nil
}

// ListItems returns up to limit items matching f in the given order, skipping offset.
func (s *Store) ListItems(ctx context.Context, f Filter, sort Sort, offset, limit int) ([]Item, error) {
	if limit <= 0 {
		return []Item{}, nil
	}
	if offset < 0 {
		offset = 0
	}
	where, args := f.where()
	query := `SELECT i.id, i.title, i.notes, i.file_size, i.added_at FROM items i` + where +
		` ORDER BY ` + sort.orderBy() + ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	items, err := s.queryItems(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("library: list items: %w", err)
	}
	if err := s.attach(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// MaxItemID returns the highest item id, or 0 for an empty library.
func (s *Store) MaxItemID(ctx context.Context) (int, error) {
	var maxID sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(id) FROM items`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("library: max item id: %w", err)
	}
	return int(maxID.Int64), nil
}

// ItemsInRange returns items with ids in [start, end], newest first.
func (s *Store) ItemsInRange(ctx context.Context, start, end int) ([]Item, error) {
	items, err := s.queryItems(ctx,
		`SELECT i.id, i.title, i.notes, i.file_size, i.added_at FROM items i WHERE i.id BETWEEN ? AND ? ORDER BY i.id DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("library: items in range: %w", err)
	}
	if err := s.attach(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Item returns a single item or ErrNotFound.
func (s *Store) Item(ctx context.Context, id int) (Item, error) {
	items, err := s.queryItems(ctx,
		`SELECT i.id, i.title, i.notes, i.file_size, i.added_at FROM items i WHERE i.id = ?`, id)
	if err != nil {
		return Item{}, fmt.Errorf("library: item %d: %w", id, err)
	}
	if len(items) == 0 {
		return Item{}, ErrNotFound
	}
	if err := s.attach(ctx, items); err != nil {
		return Item{}, err
	}
	return items[0], nil
}

// Tags returns every tag with its item count.
func (s *Store) Tags(ctx context.Context) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, COUNT(it.item_id)
		FROM tags t LEFT JOIN item_tags it ON it.tag_id = t.id
		GROUP BY t.id, t.name
		ORDER BY t.name_key`)
	if err != nil {
		return nil, fmt.Errorf("library: tags: %w", err)
	}
	defer rows.Close()

	tags := make([]Tag, 0)
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Count); err != nil {
			return nil, fmt.Errorf("library: scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// Authors returns every author with the number of credited items.
func (s *Store) Authors(ctx context.Context) ([]AuthorCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.last_name, a.first_name, COUNT(ia.item_id)
		FROM authors a LEFT JOIN item_authors ia ON ia.author_id = a.id
		GROUP BY a.id, a.last_name, a.first_name
		ORDER BY a.last_name COLLATE NOCASE, a.first_name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("library: authors: %w", err)
	}
	defer rows.Close()

	authors := make([]AuthorCount, 0)
	for rows.Next() {
		var a AuthorCount
		if err := rows.Scan(&a.ID, &a.LastName, &a.FirstName, &a.Count); err != nil {
			return nil, fmt.Errorf("library: scan author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// Author returns a single author or ErrNotFound.
func (s *Store) Author(ctx context.Context, id int) (Author, error) {
	var a Author
	err := s.db.QueryRowContext(ctx,
		`SELECT id, last_name, first_name FROM authors WHERE id = ?`, id).Scan(&a.ID, &a.LastName, &a.FirstName)
	if errors.Is(err, sql.ErrNoRows) {
		return Author{}, ErrNotFound
	}
	if err != nil {
		return Author{}, fmt.Errorf("library: author %d: %w", id, err)
	}
	return a, nil
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var (
			item  Item
			added int64
		)
		if err := rows.Scan(&item.ID, &item.Title, &item.Notes, &item.FileSize, &added); err != nil {
			return nil, err
		}
		item.AddedAt = time.Unix(added, 0).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

// attach loads tags and authors for items. Queries run one after another because
// the pool holds a single connection.
func (s *Store) attach(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	index := make(map[int]int, len(items))
	args := make([]any, 0, len(items))
	for i, item := range items {
		index[item.ID] = i
		args = append(args, item.ID)
	}
	in := "(" + strings.TrimSuffix(strings.Repeat("?,", len(items)), ",") + ")"

	if err := s.attachTags(ctx, items, index, in, args); err != nil {
		return fmt.Errorf("library: load tags: %w", err)
	}
	if err := s.attachAuthors(ctx, items, index, in, args); err != nil {
		return fmt.Errorf("library: load authors: %w", err)
	}
	return nil
}

func (s *Store) attachTags(ctx context.Context, items []Item, index map[int]int, in string, args []any) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT it.item_id, t.name FROM item_tags it JOIN tags t ON t.id = it.tag_id
		WHERE it.item_id IN `+in+` ORDER BY t.name_key`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			itemID int
			name   string
		)
		if err := rows.Scan(&itemID, &name); err != nil {
			return err
		}
		i := index[itemID]
		items[i].Tags = append(items[i].Tags, name)
	}
	return rows.Err()
}

func (s *Store) attachAuthors(ctx context.Context, items []Item, index map[int]int, in string, args []any) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ia.item_id, a.id, a.last_name, a.first_name
		FROM item_authors ia JOIN authors a ON a.id = ia.author_id
		WHERE ia.item_id IN `+in+` ORDER BY ia.item_id, ia.position`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			itemID int
			author Author
		)
		if err := rows.Scan(&itemID, &author.ID, &author.LastName, &author.FirstName); err != nil {
			return err
		}
		i := index[itemID]
		items[i].Authors = append(items[i].Authors, author)
	}
	return rows.Err()
}

// Import inserts records in a single transaction and returns the number of items written.
// Records with an explicit id keep it; the rest receive the next free id.
func (s *Store) Import(ctx context.Context, records []Record) (n int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("library: begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, rec := range records {
		if err := rec.validate(); err != nil {
			return 0, err
		}
		id, err := insertItem(ctx, tx, rec)
		if err != nil {
			return 0, fmt.Errorf("library: import %q: %w", rec.Title, err)
		}
		for _, name := range rec.Tags {
			if err := linkTag(ctx, tx, id, name); err != nil {
				return 0, fmt.Errorf("library: tag %q: %w", name, err)
			}
		}
		for pos, raw := range rec.Authors {
			if err := linkAuthor(ctx, tx, id, pos, ParseAuthor(raw)); err != nil {
				return 0, fmt.Errorf("library: author %q: %w", raw, err)
			}
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("library: commit import: %w", err)
	}
	return n, nil
}

func insertItem(ctx context.Context, tx *sql.Tx, rec Record) (int64, error) {
	added := rec.Added
	if added.IsZero() {
		added = time.Now()
	}
	var (
		res sql.Result
		err error
	)
	if rec.ID > 0 {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO items (id, title, notes, file_size, added_at) VALUES (?, ?, ?, ?, ?)`,
			rec.ID, strings.TrimSpace(rec.Title), rec.Notes, rec.FileSize, added.Unix())
	} else {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO items (title, notes, file_size, added_at) VALUES (?, ?, ?, ?)`,
			strings.TrimSpace(rec.Title), rec.Notes, rec.FileSize, added.Unix())
	}
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// tagKey is the Unicode case-folded form tags are matched on; SQLite NOCASE
// only folds ASCII.
func tagKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func linkTag(ctx context.Context, tx *sql.Tx, itemID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	key := tagKey(name)
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO tags (name, name_key) VALUES (?, ?)`, name, key); err != nil {
		return err
	}
	var tagID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name_key = ?`, key).Scan(&tagID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO item_tags (item_id, tag_id) VALUES (?, ?)`, itemID, tagID)
	return err
}

func linkAuthor(ctx context.Context, tx *sql.Tx, itemID int64, pos int, a Author) error {
	if a.LastName == "" {
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO authors (last_name, first_name) VALUES (?, ?)`, a.LastName, a.FirstName); err != nil {
		return err
	}
	var authorID int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM authors WHERE last_name = ? AND first_name = ?`, a.LastName, a.FirstName).Scan(&authorID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("author row missing after insert")
	}
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO item_authors (item_id, author_id, position) VALUES (?, ?, ?)`, itemID, authorID, pos)
	return err
}
