package store

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// TranslationRecord is one permanently stored translation, uniquely
// keyed by (SourceText, TargetLang).
type TranslationRecord struct {
	ID             int64
	SourceText     string
	TargetLang     string
	TranslatedText string
	Model          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LangCount is a per-language row count for statistics.
type LangCount struct {
	TargetLang string
	Count      int64
}

// TranslationRepo provides the durable-store operations the pipeline
// needs: exact and set lookups, insert-or-ignore writes, and the bulk
// read used for preloading.
type TranslationRepo struct{ *Repo }

// NewTranslationRepo creates the repository over an initialized handle.
func NewTranslationRepo(db *sql.DB) *TranslationRepo {
	return &TranslationRepo{NewRepo(db)}
}

var recordColumns = []string{
	"id", "source_text", "target_lang", "translated_text", "model", "created_at", "updated_at",
}

// FindExact returns the record for (text, lang), or nil when absent.
func (r *TranslationRepo) FindExact(ctx context.Context, text, lang string) (*TranslationRecord, error) {
	q := r.SQ.Select(recordColumns...).
		From("translations").
		Where(sq.Eq{"source_text": text, "target_lang": lang}).
		Limit(1)
	sqlStr, args, _ := q.ToSql()
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, sqlStr, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindBySet fetches all records for the given texts and language in a
// single query, returned as a source-text keyed map.
func (r *TranslationRepo) FindBySet(ctx context.Context, texts []string, lang string) (map[string]string, error) {
	out := make(map[string]string, len(texts))
	if len(texts) == 0 {
		return out, nil
	}
	q := r.SQ.Select("source_text", "translated_text").
		From("translations").
		Where(sq.Eq{"source_text": texts, "target_lang": lang})
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var src, translated string
		if err := rows.Scan(&src, &translated); err != nil {
			return nil, err
		}
		out[src] = translated
	}
	return out, rows.Err()
}

// Insert stores one record, silently ignoring a duplicate key. Duplicate
// keys are expected: concurrent resolutions of the same text race to
// persist first.
func (r *TranslationRepo) Insert(ctx context.Context, rec *TranslationRecord) error {
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Insert("translations").
		Columns("source_text", "target_lang", "translated_text", "model", "created_at", "updated_at").
		Values(rec.SourceText, rec.TargetLang, rec.TranslatedText, rec.Model, now, now).
		Suffix("ON CONFLICT(source_text, target_lang) DO NOTHING")
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

// BulkInsert stores many records in one statement, skipping duplicates.
func (r *TranslationRepo) BulkInsert(ctx context.Context, recs []*TranslationRecord) error {
	if len(recs) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Insert("translations").
		Columns("source_text", "target_lang", "translated_text", "model", "created_at", "updated_at")
	for _, rec := range recs {
		q = q.Values(rec.SourceText, rec.TargetLang, rec.TranslatedText, rec.Model, now, now)
	}
	q = q.Suffix("ON CONFLICT(source_text, target_lang) DO NOTHING")
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

// All streams every stored record, used once per process to preload the
// in-memory cache.
func (r *TranslationRepo) All(ctx context.Context) ([]*TranslationRecord, error) {
	q := r.SQ.Select(recordColumns...).From("translations").OrderBy("id")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*TranslationRecord
	for rows.Next() {
		rec, err := scanRecordRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the total number of stored translations.
func (r *TranslationRepo) Count(ctx context.Context) (int64, error) {
	sqlStr, args, _ := r.SQ.Select("COUNT(*)").From("translations").ToSql()
	var n int64
	err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&n)
	return n, err
}

// CountByLang returns per-language row counts.
func (r *TranslationRepo) CountByLang(ctx context.Context) ([]LangCount, error) {
	q := r.SQ.Select("target_lang", "COUNT(*)").
		From("translations").
		GroupBy("target_lang").
		OrderBy("target_lang")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LangCount
	for rows.Next() {
		var lc LangCount
		if err := rows.Scan(&lc.TargetLang, &lc.Count); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

// DeleteAll removes every stored translation and reports how many rows
// were dropped. Only the maintenance path uses this.
func (r *TranslationRepo) DeleteAll(ctx context.Context) (int64, error) {
	sqlStr, args, _ := r.SQ.Delete("translations").ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row *sql.Row) (*TranslationRecord, error) {
	return scanRecordRows(row)
}

func scanRecordRows(row rowScanner) (*TranslationRecord, error) {
	var rec TranslationRecord
	var created, updated string
	if err := row.Scan(&rec.ID, &rec.SourceText, &rec.TargetLang, &rec.TranslatedText,
		&rec.Model, &created, &updated); err != nil {
		return nil, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, created)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &rec, nil
}
