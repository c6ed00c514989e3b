package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lehigh-university-libraries/movieetl/internal/movies"
)

// Table is the SQLite table holding the cleaned dataset.
const Table = "movies"

// sqliteColumns mirrors Record, in insert order. seq preserves dataset order.
var sqliteColumns = []string{
	"id", "title", "tagline", "release_date", "genres", "belongs_to_collection",
	"original_language", "budget_musd", "revenue_musd", "production_companies",
	"production_countries", "vote_count", "vote_average", "popularity", "runtime",
	"overview", "spoken_languages", "poster_path", "director", "cast",
	"cast_size", "crew_size",
}

const createTable = `CREATE TABLE IF NOT EXISTS movies (
	seq INTEGER PRIMARY KEY,
	id INTEGER NOT NULL,
	title TEXT NOT NULL,
	tagline TEXT,
	release_date TEXT,
	genres TEXT NOT NULL DEFAULT '',
	belongs_to_collection TEXT,
	original_language TEXT,
	budget_musd REAL,
	revenue_musd REAL,
	production_companies TEXT NOT NULL DEFAULT '',
	production_countries TEXT NOT NULL DEFAULT '',
	vote_count INTEGER,
	vote_average REAL,
	popularity REAL,
	runtime REAL,
	overview TEXT,
	spoken_languages TEXT NOT NULL DEFAULT '',
	poster_path TEXT,
	director TEXT,
	"cast" TEXT,
	cast_size INTEGER,
	crew_size INTEGER
)`

// Repository stores datasets in a SQLite database.
type Repository struct {
	db *sql.DB
}

// NewRepository opens dsn and creates the movies table if needed.
//
// DSN is passed directly to database/sql; for example:
//
//	"file:movies.db?cache=shared"
//	"movies.db"
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create table: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save replaces the stored dataset with ds inside a single transaction.
func (r *Repository) Save(ctx context.Context, ds *movies.Dataset) (int64, error) {
	quoted := make([]string, len(sqliteColumns))
	placeholders := make([]string, len(sqliteColumns))
	for i, c := range sqliteColumns {
		quoted[i] = `"` + c + `"`
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (seq, %s) VALUES (?, %s)",
		Table,
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+Table); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: truncate: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for i, rec := range Records(ds) {
		args := append([]any{i}, rec.values()...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert id %d: %w", rec.ID, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	slog.Info("Saved dataset", "table", Table, "format", "sqlite", "rows", inserted)
	return inserted, nil
}

// Load reads the stored dataset in its saved order.
func (r *Repository) Load(ctx context.Context) (*movies.Dataset, error) {
	quoted := make([]string, len(sqliteColumns))
	for i, c := range sqliteColumns {
		quoted[i] = `"` + c + `"`
	}
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s ORDER BY seq", strings.Join(quoted, ", "), Table))
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: rows: %w", err)
	}
	return FromRecords(records)
}

// values returns the record fields in sqliteColumns order, with unknown
// optionals as NULL.
func (rec Record) values() []any {
	return []any{
		rec.ID, rec.Title, optional(rec.Tagline), optional(rec.ReleaseDate), rec.Genres, optional(rec.Collection),
		optional(rec.OriginalLanguage), optional(rec.BudgetMUSD), optional(rec.RevenueMUSD), rec.ProductionCompanies,
		rec.ProductionCountries, optional(rec.VoteCount), optional(rec.VoteAverage), optional(rec.Popularity), optional(rec.Runtime),
		optional(rec.Overview), rec.SpokenLanguages, optional(rec.PosterPath), optional(rec.Director), optional(rec.Cast),
		optional(rec.CastSize), optional(rec.CrewSize),
	}
}

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		rec                                               Record
		tagline, date, collection, lang, overview, poster sql.NullString
		director, cast                                    sql.NullString
		budget, revenue, voteAvg, popularity, runtime     sql.NullFloat64
		votes, castSize, crewSize                         sql.NullInt64
	)
	err := rows.Scan(
		&rec.ID, &rec.Title, &tagline, &date, &rec.Genres, &collection,
		&lang, &budget, &revenue, &rec.ProductionCompanies,
		&rec.ProductionCountries, &votes, &voteAvg, &popularity, &runtime,
		&overview, &rec.SpokenLanguages, &poster, &director, &cast,
		&castSize, &crewSize,
	)
	if err != nil {
		return Record{}, err
	}

	rec.Tagline = nullString(tagline)
	rec.ReleaseDate = nullString(date)
	rec.Collection = nullString(collection)
	rec.OriginalLanguage = nullString(lang)
	rec.Overview = nullString(overview)
	rec.PosterPath = nullString(poster)
	rec.Director = nullString(director)
	rec.Cast = nullString(cast)
	rec.BudgetMUSD = nullFloat(budget)
	rec.RevenueMUSD = nullFloat(revenue)
	rec.VoteCount = nullInt(votes)
	rec.VoteAverage = nullFloat(voteAvg)
	rec.Popularity = nullFloat(popularity)
	rec.Runtime = nullFloat(runtime)
	rec.CastSize = nullInt(castSize)
	rec.CrewSize = nullInt(crewSize)
	return rec, nil
}

func nullString(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}
