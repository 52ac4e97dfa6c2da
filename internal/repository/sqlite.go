package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/boutmatch/internal/models"
)

// Settings keys holding metadata of the persisted match run.
const (
	settingRunID    = "match_run_id"
	settingWarnings = "match_warnings"
	settingNoop     = "match_nothing_to_do"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection; it also keeps :memory: dbs shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS teams (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			base_team_id INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (base_team_id) REFERENCES teams(id)
		)`,
		`CREATE TABLE IF NOT EXISTS entrants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			team_id INTEGER NOT NULL,
			name TEXT,
			phenotype TEXT NOT NULL,
			age_months INTEGER NOT NULL,
			weight INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS exceptions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			team_a_id INTEGER NOT NULL,
			team_b_id INTEGER NOT NULL,
			FOREIGN KEY (team_a_id) REFERENCES teams(id) ON DELETE CASCADE,
			FOREIGN KEY (team_b_id) REFERENCES teams(id) ON DELETE CASCADE,
			UNIQUE(team_a_id, team_b_id)
		)`,
		`CREATE TABLE IF NOT EXISTS bouts (
			seq INTEGER PRIMARY KEY,
			entrant_a_id INTEGER NOT NULL,
			entrant_b_id INTEGER NOT NULL,
			entrant_a TEXT NOT NULL,
			entrant_b TEXT NOT NULL,
			outcome TEXT NOT NULL DEFAULT 'pending',
			duration_seconds INTEGER,
			manual BOOLEAN DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS leftovers (
			position INTEGER PRIMARY KEY,
			entrant_id INTEGER NOT NULL,
			entrant TEXT NOT NULL,
			reason TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entrants_team ON entrants(team_id)`,
		`CREATE INDEX IF NOT EXISTS idx_teams_base ON teams(base_team_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

// ==================== Team Methods ====================

// ListTeams returns all teams ordered by id
func (r *Repository) ListTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, base_team_id FROM teams ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		var base sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Name, &base); err != nil {
			return nil, err
		}
		t.BaseTeamID = nullIntPtr(base)
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// GetTeam returns a team by id
func (r *Repository) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	var t models.Team
	var base sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT id, name, base_team_id FROM teams WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &base)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.BaseTeamID = nullIntPtr(base)
	return &t, nil
}

// TeamNameExists reports whether a team other than excludeID already uses name
func (r *Repository) TeamNameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM teams WHERE name = ? AND id != ?)`, name, excludeID).Scan(&exists)
	return exists, err
}

// CreateTeam inserts a team and returns its id
func (r *Repository) CreateTeam(ctx context.Context, name string, baseTeamID *int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO teams (name, base_team_id) VALUES (?, ?)`, name, baseTeamID)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateTeam updates a team's name and base team
func (r *Repository) UpdateTeam(ctx context.Context, id int, name string, baseTeamID *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET name = ?, base_team_id = ? WHERE id = ?`, name, baseTeamID, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteTeam removes a team; its exceptions are removed with it
func (r *Repository) DeleteTeam(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// CountFronts returns the number of teams fronting for baseID
func (r *Repository) CountFronts(ctx context.Context, baseID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams WHERE base_team_id = ?`, baseID).Scan(&count)
	return count, err
}

// CountEntrantsForTeam returns the number of entrants registered to teamID
func (r *Repository) CountEntrantsForTeam(ctx context.Context, teamID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entrants WHERE team_id = ?`, teamID).Scan(&count)
	return count, err
}

// ==================== Entrant Methods ====================

// ListEntrants returns all entrants in registration order
func (r *Repository) ListEntrants(ctx context.Context) ([]models.Entrant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, team_id, name, phenotype, age_months, weight
		FROM entrants ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entrants []models.Entrant
	for rows.Next() {
		var e models.Entrant
		var name sql.NullString
		if err := rows.Scan(&e.ID, &e.TeamID, &name, &e.Phenotype, &e.AgeMonths, &e.Weight); err != nil {
			return nil, err
		}
		e.Name = name.String
		entrants = append(entrants, e)
	}
	return entrants, rows.Err()
}

// GetEntrant returns an entrant by id
func (r *Repository) GetEntrant(ctx context.Context, id int) (*models.Entrant, error) {
	var e models.Entrant
	var name sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, team_id, name, phenotype, age_months, weight
		FROM entrants WHERE id = ?
	`, id).Scan(&e.ID, &e.TeamID, &name, &e.Phenotype, &e.AgeMonths, &e.Weight)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Name = name.String
	return &e, nil
}

// CreateEntrant inserts an entrant and returns its id. The ID field is ignored.
func (r *Repository) CreateEntrant(ctx context.Context, e models.Entrant) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO entrants (team_id, name, phenotype, age_months, weight)
		VALUES (?, ?, ?, ?, ?)
	`, e.TeamID, e.Name, e.Phenotype, e.AgeMonths, e.Weight)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateEntrant overwrites the entrant identified by e.ID
func (r *Repository) UpdateEntrant(ctx context.Context, e models.Entrant) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE entrants SET team_id = ?, name = ?, phenotype = ?, age_months = ?, weight = ?
		WHERE id = ?
	`, e.TeamID, e.Name, e.Phenotype, e.AgeMonths, e.Weight, e.ID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteEntrant removes an entrant
func (r *Repository) DeleteEntrant(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM entrants WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ==================== Exception Methods ====================

// ListExceptions returns all exceptions ordered by id
func (r *Repository) ListExceptions(ctx context.Context) ([]models.Exception, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, team_a_id, team_b_id FROM exceptions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exceptions []models.Exception
	for rows.Next() {
		var ex models.Exception
		if err := rows.Scan(&ex.ID, &ex.TeamAID, &ex.TeamBID); err != nil {
			return nil, err
		}
		exceptions = append(exceptions, ex)
	}
	return exceptions, rows.Err()
}

// CreateException stores an exception between two teams. The pair is stored
// with the lower id first so (a,b) and (b,a) collide on the unique index.
func (r *Repository) CreateException(ctx context.Context, teamA, teamB int) (int64, error) {
	if teamA > teamB {
		teamA, teamB = teamB, teamA
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO exceptions (team_a_id, team_b_id) VALUES (?, ?)`, teamA, teamB)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ExceptionExists reports whether an exception between the two teams exists
func (r *Repository) ExceptionExists(ctx context.Context, teamA, teamB int) (bool, error) {
	if teamA > teamB {
		teamA, teamB = teamB, teamA
	}
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM exceptions WHERE team_a_id = ? AND team_b_id = ?)`, teamA, teamB).Scan(&exists)
	return exists, err
}

// DeleteException removes an exception
func (r *Repository) DeleteException(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM exceptions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ==================== Match Methods ====================

// SaveMatchResult replaces the persisted bouts, leftovers and run metadata
// with result in a single transaction.
func (r *Repository) SaveMatchResult(ctx context.Context, result models.MatchResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bouts`); err != nil {
		return err
	}
	for _, b := range result.Bouts {
		if err := insertBout(ctx, tx, b); err != nil {
			return err
		}
	}
	if err := replaceLeftovers(ctx, tx, result.Leftovers); err != nil {
		return err
	}

	warnings, err := json.Marshal(result.Warnings)
	if err != nil {
		return err
	}
	if err := setSettingTx(ctx, tx, settingRunID, result.RunID); err != nil {
		return err
	}
	if err := setSettingTx(ctx, tx, settingWarnings, string(warnings)); err != nil {
		return err
	}
	if err := setSettingTx(ctx, tx, settingNoop, strconv.FormatBool(result.NothingToDo)); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadMatchResult returns the persisted match run, or ErrNotFound if matching
// has never run.
func (r *Repository) LoadMatchResult(ctx context.Context) (*models.MatchResult, error) {
	runID, err := r.GetSetting(ctx, settingRunID)
	if err != nil {
		return nil, err
	}

	result := &models.MatchResult{RunID: runID}
	if raw, err := r.GetSetting(ctx, settingWarnings); err == nil && raw != "" {
		if err := json.Unmarshal([]byte(raw), &result.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings: %w", err)
		}
	}
	if raw, err := r.GetSetting(ctx, settingNoop); err == nil {
		result.NothingToDo = raw == "true"
	}

	if result.Bouts, err = r.ListBouts(ctx); err != nil {
		return nil, err
	}
	if result.Leftovers, err = r.ListLeftovers(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// ListBouts returns the persisted bouts ordered by sequence number
func (r *Repository) ListBouts(ctx context.Context) ([]models.Bout, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT seq, entrant_a, entrant_b, outcome, duration_seconds, manual
		FROM bouts ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bouts []models.Bout
	for rows.Next() {
		var b models.Bout
		var rawA, rawB string
		var duration sql.NullInt64
		if err := rows.Scan(&b.Seq, &rawA, &rawB, &b.Outcome, &duration, &b.Manual); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rawA), &b.EntrantA); err != nil {
			return nil, fmt.Errorf("decode bout %d entrant a: %w", b.Seq, err)
		}
		if err := json.Unmarshal([]byte(rawB), &b.EntrantB); err != nil {
			return nil, fmt.Errorf("decode bout %d entrant b: %w", b.Seq, err)
		}
		b.DurationSeconds = nullIntPtr(duration)
		bouts = append(bouts, b)
	}
	return bouts, rows.Err()
}

// ListLeftovers returns the persisted leftovers in report order
func (r *Repository) ListLeftovers(ctx context.Context) ([]models.Leftover, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT entrant, reason FROM leftovers ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leftovers []models.Leftover
	for rows.Next() {
		var l models.Leftover
		var raw string
		if err := rows.Scan(&raw, &l.Reason); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &l.Entrant); err != nil {
			return nil, fmt.Errorf("decode leftover: %w", err)
		}
		leftovers = append(leftovers, l)
	}
	return leftovers, rows.Err()
}

// ApplyManualPair inserts bout and replaces the leftover pool with remaining
// in a single transaction.
func (r *Repository) ApplyManualPair(ctx context.Context, bout models.Bout, remaining []models.Leftover) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertBout(ctx, tx, bout); err != nil {
		return err
	}
	if err := replaceLeftovers(ctx, tx, remaining); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateBoutOutcome records the outcome and duration of a bout
func (r *Repository) UpdateBoutOutcome(ctx context.Context, seq int, outcome models.Outcome, durationSeconds *int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bouts SET outcome = ?, duration_seconds = ?, updated_at = CURRENT_TIMESTAMP
		WHERE seq = ?
	`, outcome, durationSeconds, seq)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func insertBout(ctx context.Context, tx *sql.Tx, b models.Bout) error {
	rawA, err := json.Marshal(b.EntrantA)
	if err != nil {
		return err
	}
	rawB, err := json.Marshal(b.EntrantB)
	if err != nil {
		return err
	}
	outcome := b.Outcome
	if outcome == "" {
		outcome = models.OutcomePending
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO bouts (seq, entrant_a_id, entrant_b_id, entrant_a, entrant_b, outcome, duration_seconds, manual)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.Seq, b.EntrantA.ID, b.EntrantB.ID, string(rawA), string(rawB), outcome, b.DurationSeconds, b.Manual)
	return err
}

func replaceLeftovers(ctx context.Context, tx *sql.Tx, leftovers []models.Leftover) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM leftovers`); err != nil {
		return err
	}
	for i, l := range leftovers {
		raw, err := json.Marshal(l.Entrant)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO leftovers (position, entrant_id, entrant, reason) VALUES (?, ?, ?, ?)`,
			i, l.Entrant.ID, string(raw), l.Reason); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Settings Methods ====================

// GetSetting returns a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

func setSettingTx(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// GetStats returns row counts for the admin dashboard
func (r *Repository) GetStats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int)
	queries := map[string]string{
		"teams":      `SELECT COUNT(*) FROM teams`,
		"entrants":   `SELECT COUNT(*) FROM entrants`,
		"exceptions": `SELECT COUNT(*) FROM exceptions`,
		"bouts":      `SELECT COUNT(*) FROM bouts`,
		"decided":    `SELECT COUNT(*) FROM bouts WHERE outcome != 'pending'`,
		"leftovers":  `SELECT COUNT(*) FROM leftovers`,
	}
	for name, q := range queries {
		var n int
		if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
			return nil, err
		}
		stats[name] = n
	}
	return stats, nil
}

// validTables defines which tables can be safely cleared
var validTables = map[string]bool{
	"bouts": true, "leftovers": true, "exceptions": true, "entrants": true, "teams": true, "settings": true,
}

// ClearTable clears all data from a table.
// Only whitelisted tables may be cleared.
func (r *Repository) ClearTable(ctx context.Context, table string) error {
	if !validTables[table] {
		return ErrInvalidTable
	}

	_, err := r.db.ExecContext(ctx, "DELETE FROM "+table)
	return err
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
