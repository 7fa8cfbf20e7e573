package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore implements Storage on a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLiteStore opens (creating if needed) the database at path and
// applies the schema.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("empty sqlite path")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("nil sqlite store")
	}
	// Single-connection pool, so the session pragma holds for the
	// store's lifetime.
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeTags(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}

// ----------------------------------------------------------------------------
// Profiles

const profileColumns = "id, name, title, bio, avatar_path, tags, created_at, updated_at"

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	var p Profile
	var tags string
	err := row.Scan(&p.ID, &p.Name, &p.Title, &p.Bio, &p.AvatarPath, &tags, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Tags = decodeTags(tags)
	return &p, nil
}

func (s *SQLiteStore) queryProfiles(ctx context.Context, query string, args ...any) ([]*Profile, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	out := make([]*Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetProfiles(ctx context.Context) ([]*Profile, error) {
	return s.queryProfiles(ctx, "SELECT "+profileColumns+" FROM profiles ORDER BY name")
}

func (s *SQLiteStore) GetProfileByID(ctx context.Context, id int64) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id = ?", id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) CreateProfile(ctx context.Context, p *Profile) (*Profile, error) {
	if p == nil {
		return nil, errors.New("profile is nil")
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, errors.New("profile name is required")
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO profiles (name, title, bio, avatar_path, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.Name, p.Title, p.Bio, p.AvatarPath, encodeTags(p.Tags), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	p.ID, _ = res.LastInsertId()
	return p, nil
}

func (s *SQLiteStore) UpdateProfile(ctx context.Context, p *Profile) (*Profile, error) {
	if p == nil || p.ID <= 0 {
		return nil, errors.New("profile id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, errors.New("profile name is required")
	}

	p.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"UPDATE profiles SET name = ?, title = ?, bio = ?, avatar_path = ?, tags = ?, updated_at = ? WHERE id = ?",
		p.Name, p.Title, p.Bio, p.AvatarPath, encodeTags(p.Tags), p.UpdatedAt, p.ID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetProfileByID(ctx, p.ID)
}

func (s *SQLiteStore) DeleteProfile(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("profile id is required")
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) SearchProfiles(ctx context.Context, query string) ([]*Profile, error) {
	like := "%" + strings.TrimSpace(query) + "%"
	return s.queryProfiles(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE name LIKE ? OR title LIKE ? OR bio LIKE ? ORDER BY name",
		like, like, like)
}

func (s *SQLiteStore) GetRecentProfiles(ctx context.Context, limit int) ([]*Profile, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryProfiles(ctx,
		"SELECT "+profileColumns+" FROM profiles ORDER BY updated_at DESC LIMIT ?", limit)
}

// ----------------------------------------------------------------------------
// Quotes

const quoteColumns = "id, profile_id, content, source, tags, created_at, updated_at"

func scanQuote(row interface{ Scan(...any) error }) (*Quote, error) {
	var q Quote
	var tags string
	err := row.Scan(&q.ID, &q.ProfileID, &q.Content, &q.Source, &tags, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	q.Tags = decodeTags(tags)
	return &q, nil
}

func (s *SQLiteStore) queryQuotes(ctx context.Context, query string, args ...any) ([]*Quote, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	out := make([]*Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetQuotes(ctx context.Context) ([]*Quote, error) {
	return s.queryQuotes(ctx, "SELECT "+quoteColumns+" FROM quotes ORDER BY created_at DESC")
}

func (s *SQLiteStore) GetQuoteByID(ctx context.Context, id int64) (*Quote, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+quoteColumns+" FROM quotes WHERE id = ?", id)
	q, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

func (s *SQLiteStore) GetQuotesByProfile(ctx context.Context, profileID int64) ([]*Quote, error) {
	return s.queryQuotes(ctx,
		"SELECT "+quoteColumns+" FROM quotes WHERE profile_id = ? ORDER BY created_at DESC", profileID)
}

func (s *SQLiteStore) CreateQuote(ctx context.Context, q *Quote) (*Quote, error) {
	if q == nil {
		return nil, errors.New("quote is nil")
	}
	if q.ProfileID <= 0 {
		return nil, errors.New("quote profile_id is required")
	}
	if strings.TrimSpace(q.Content) == "" {
		return nil, errors.New("quote content is required")
	}

	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO quotes (profile_id, content, source, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		q.ProfileID, q.Content, q.Source, encodeTags(q.Tags), q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert quote: %w", err)
	}
	q.ID, _ = res.LastInsertId()
	return q, nil
}

func (s *SQLiteStore) UpdateQuote(ctx context.Context, q *Quote) (*Quote, error) {
	if q == nil || q.ID <= 0 {
		return nil, errors.New("quote id is required")
	}
	if strings.TrimSpace(q.Content) == "" {
		return nil, errors.New("quote content is required")
	}

	q.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"UPDATE quotes SET content = ?, source = ?, tags = ?, updated_at = ? WHERE id = ?",
		q.Content, q.Source, encodeTags(q.Tags), q.UpdatedAt, q.ID)
	if err != nil {
		return nil, fmt.Errorf("update quote: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetQuoteByID(ctx, q.ID)
}

func (s *SQLiteStore) DeleteQuote(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("quote id is required")
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM quotes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) SearchQuotes(ctx context.Context, query string) ([]*Quote, error) {
	like := "%" + strings.TrimSpace(query) + "%"
	return s.queryQuotes(ctx,
		"SELECT "+quoteColumns+" FROM quotes WHERE content LIKE ? OR source LIKE ? ORDER BY created_at DESC",
		like, like)
}

func (s *SQLiteStore) GetRandomQuote(ctx context.Context) (*Quote, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+quoteColumns+" FROM quotes ORDER BY RANDOM() LIMIT 1")
	q, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get random quote: %w", err)
	}
	return q, nil
}

// ----------------------------------------------------------------------------
// Experiences

const experienceColumns = "id, profile_id, title, description, location, tags, start_date, end_date, created_at, updated_at"

func scanExperience(row interface{ Scan(...any) error }) (*Experience, error) {
	var e Experience
	var tags string
	var end sql.NullTime
	err := row.Scan(&e.ID, &e.ProfileID, &e.Title, &e.Description, &e.Location, &tags,
		&e.StartDate, &end, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Tags = decodeTags(tags)
	if end.Valid {
		t := end.Time
		e.EndDate = &t
	}
	return &e, nil
}

func (s *SQLiteStore) queryExperiences(ctx context.Context, query string, args ...any) ([]*Experience, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query experiences: %w", err)
	}
	defer rows.Close()

	out := make([]*Experience, 0)
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetExperiences(ctx context.Context) ([]*Experience, error) {
	return s.queryExperiences(ctx, "SELECT "+experienceColumns+" FROM experiences ORDER BY start_date DESC")
}

func (s *SQLiteStore) GetExperienceByID(ctx context.Context, id int64) (*Experience, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+experienceColumns+" FROM experiences WHERE id = ?", id)
	e, err := scanExperience(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get experience: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) CreateExperience(ctx context.Context, e *Experience) (*Experience, error) {
	if e == nil {
		return nil, errors.New("experience is nil")
	}
	if e.ProfileID <= 0 {
		return nil, errors.New("experience profile_id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return nil, errors.New("experience title is required")
	}
	if e.StartDate.IsZero() {
		return nil, errors.New("experience start date is required")
	}

	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	var end any
	if e.EndDate != nil {
		end = *e.EndDate
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO experiences (profile_id, title, description, location, tags, start_date, end_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.ProfileID, e.Title, e.Description, e.Location, encodeTags(e.Tags), e.StartDate, end, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert experience: %w", err)
	}
	e.ID, _ = res.LastInsertId()
	return e, nil
}

func (s *SQLiteStore) UpdateExperience(ctx context.Context, e *Experience) (*Experience, error) {
	if e == nil || e.ID <= 0 {
		return nil, errors.New("experience id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return nil, errors.New("experience title is required")
	}

	e.UpdatedAt = time.Now().UTC()
	var end any
	if e.EndDate != nil {
		end = *e.EndDate
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE experiences SET title = ?, description = ?, location = ?, tags = ?, start_date = ?, end_date = ?, updated_at = ? WHERE id = ?",
		e.Title, e.Description, e.Location, encodeTags(e.Tags), e.StartDate, end, e.UpdatedAt, e.ID)
	if err != nil {
		return nil, fmt.Errorf("update experience: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetExperienceByID(ctx, e.ID)
}

func (s *SQLiteStore) DeleteExperience(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("experience id is required")
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM experiences WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetExperienceTimeline returns a profile's experiences ordered oldest
// first, the order a timeline view renders them in.
func (s *SQLiteStore) GetExperienceTimeline(ctx context.Context, profileID int64) ([]*Experience, error) {
	return s.queryExperiences(ctx,
		"SELECT "+experienceColumns+" FROM experiences WHERE profile_id = ? ORDER BY start_date ASC", profileID)
}

// likeEscaper neutralizes LIKE wildcards so tag text is matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *SQLiteStore) FindExperiencesByTag(ctx context.Context, tag string) ([]*Experience, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return []*Experience{}, nil
	}
	// Tags are stored as a JSON array; match the encoded element so quotes
	// and escapes line up with what encodeTags wrote.
	token, err := json.Marshal(tag)
	if err != nil {
		return nil, fmt.Errorf("encode tag: %w", err)
	}
	like := "%" + likeEscaper.Replace(string(token)) + "%"
	return s.queryExperiences(ctx,
		"SELECT "+experienceColumns+" FROM experiences WHERE tags LIKE ? ESCAPE '\\' ORDER BY start_date DESC", like)
}

// ----------------------------------------------------------------------------
// Hexagon models

const hexagonColumns = "id, profile_id, security, achievement, freedom, belonging, novelty, control, notes, created_at, updated_at"

func scanHexagon(row interface{ Scan(...any) error }) (*HexagonModel, error) {
	var h HexagonModel
	err := row.Scan(&h.ID, &h.ProfileID, &h.Security, &h.Achievement, &h.Freedom,
		&h.Belonging, &h.Novelty, &h.Control, &h.Notes, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *SQLiteStore) queryHexagons(ctx context.Context, query string, args ...any) ([]*HexagonModel, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hexagons: %w", err)
	}
	defer rows.Close()

	out := make([]*HexagonModel, 0)
	for rows.Next() {
		h, err := scanHexagon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hexagon: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetHexagons(ctx context.Context) ([]*HexagonModel, error) {
	return s.queryHexagons(ctx, "SELECT "+hexagonColumns+" FROM hexagon_models ORDER BY updated_at DESC")
}

func (s *SQLiteStore) GetHexagonByID(ctx context.Context, id int64) (*HexagonModel, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+hexagonColumns+" FROM hexagon_models WHERE id = ?", id)
	h, err := scanHexagon(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get hexagon: %w", err)
	}
	return h, nil
}

func (s *SQLiteStore) GetHexagonsByProfile(ctx context.Context, profileID int64) ([]*HexagonModel, error) {
	return s.queryHexagons(ctx,
		"SELECT "+hexagonColumns+" FROM hexagon_models WHERE profile_id = ? ORDER BY updated_at DESC", profileID)
}

func (s *SQLiteStore) CreateHexagon(ctx context.Context, h *HexagonModel) (*HexagonModel, error) {
	if h == nil {
		return nil, errors.New("hexagon is nil")
	}
	if h.ProfileID <= 0 {
		return nil, errors.New("hexagon profile_id is required")
	}

	now := time.Now().UTC()
	h.CreatedAt = now
	h.UpdatedAt = now
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO hexagon_models (profile_id, security, achievement, freedom, belonging, novelty, control, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		h.ProfileID, h.Security, h.Achievement, h.Freedom, h.Belonging, h.Novelty, h.Control, h.Notes, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert hexagon: %w", err)
	}
	h.ID, _ = res.LastInsertId()
	return h, nil
}

func (s *SQLiteStore) UpdateHexagon(ctx context.Context, h *HexagonModel) (*HexagonModel, error) {
	if h == nil || h.ID <= 0 {
		return nil, errors.New("hexagon id is required")
	}

	h.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"UPDATE hexagon_models SET security = ?, achievement = ?, freedom = ?, belonging = ?, novelty = ?, control = ?, notes = ?, updated_at = ? WHERE id = ?",
		h.Security, h.Achievement, h.Freedom, h.Belonging, h.Novelty, h.Control, h.Notes, h.UpdatedAt, h.ID)
	if err != nil {
		return nil, fmt.Errorf("update hexagon: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetHexagonByID(ctx, h.ID)
}

func (s *SQLiteStore) DeleteHexagon(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("hexagon id is required")
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM hexagon_models WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete hexagon: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ----------------------------------------------------------------------------
// Analyses

const analysisColumns = "id, profile_id, hexagon_id, provider, model, content, created_at"

func scanAnalysis(row interface{ Scan(...any) error }) (*Analysis, error) {
	var a Analysis
	err := row.Scan(&a.ID, &a.ProfileID, &a.HexagonID, &a.Provider, &a.Model, &a.Content, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *SQLiteStore) CreateAnalysis(ctx context.Context, a *Analysis) (*Analysis, error) {
	if a == nil {
		return nil, errors.New("analysis is nil")
	}
	if a.ProfileID <= 0 {
		return nil, errors.New("analysis profile_id is required")
	}
	if strings.TrimSpace(a.Content) == "" {
		return nil, errors.New("analysis content is required")
	}
	if a.ID == "" {
		return nil, errors.New("analysis id is required")
	}

	a.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO analyses (id, profile_id, hexagon_id, provider, model, content, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.ProfileID, a.HexagonID, a.Provider, a.Model, a.Content, a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}
	return a, nil
}

func (s *SQLiteStore) GetAnalysisByID(ctx context.Context, id string) (*Analysis, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+analysisColumns+" FROM analyses WHERE id = ?", id)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return a, nil
}

func (s *SQLiteStore) GetAnalysesByProfile(ctx context.Context, profileID int64) ([]*Analysis, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+analysisColumns+" FROM analyses WHERE profile_id = ? ORDER BY created_at DESC", profileID)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	out := make([]*Analysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteAnalysis(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("analysis id is required")
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ----------------------------------------------------------------------------
// Raw queries and backup

// ExecuteQuery runs a read-only SELECT and returns the rows as maps keyed by
// column name. Anything other than a single SELECT is rejected.
func (s *SQLiteStore) ExecuteQuery(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(query)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return nil, errors.New("only SELECT statements are allowed")
	}
	if strings.Contains(trimmed, ";") {
		return nil, errors.New("multiple statements are not allowed")
	}

	rows, err := s.db.QueryContext(ctx, trimmed, args...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		record := make(map[string]any, len(cols))
		for i, col := range cols {
			record[col] = values[i]
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// Backup writes a consistent snapshot of the database into dir using
// VACUUM INTO and returns the backup file path.
func (s *SQLiteStore) Backup(ctx context.Context, dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("empty backup dir")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("personahub-%s.sqlite", time.Now().Format("20060102-150405"))
	dest := filepath.Join(dir, name)
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return "", fmt.Errorf("vacuum into backup: %w", err)
	}
	return dest, nil
}
