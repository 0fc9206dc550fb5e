package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guildfordrfc/teamsheet-data/internal/club"
	"github.com/guildfordrfc/teamsheet-data/internal/merge"
)

// PostgresStore implements Store over a pgx connection pool. Read paths use
// the prepared statements registered in internal/db; every mutation runs
// inside a transaction and rolls back on the first error.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgresStore.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Snapshot(ctx context.Context) (*club.Snapshot, error) {
	snap := &club.Snapshot{}

	rows, err := s.pool.Query(ctx, "all_matches")
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m club.Match
		if err := rows.Scan(&m.ID, &m.League, &m.Season, &m.Date, &m.Opposition,
			&m.Location, &m.Result, &m.ClubPoints, &m.OppositionPoints); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		snap.Matches = append(snap.Matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := s.pool.Query(ctx, "all_players")
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var p club.Player
		if err := prows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		snap.Players = append(snap.Players, p)
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	arows, err := s.pool.Query(ctx, "all_appearances")
	if err != nil {
		return nil, fmt.Errorf("query appearances: %w", err)
	}
	defer arows.Close()
	for arows.Next() {
		var a club.Appearance
		if err := arows.Scan(&a.ID, &a.PlayerID, &a.MatchID, &a.Position); err != nil {
			return nil, fmt.Errorf("scan appearance: %w", err)
		}
		snap.Appearances = append(snap.Appearances, a)
	}
	return snap, arows.Err()
}

func (s *PostgresStore) ListPlayers(ctx context.Context) ([]club.Player, error) {
	rows, err := s.pool.Query(ctx, "all_players")
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var players []club.Player
	for rows.Next() {
		var p club.Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *PostgresStore) GetPlayer(ctx context.Context, id int64) (*club.Player, error) {
	var p club.Player
	err := s.pool.QueryRow(ctx, "player_by_id", id).Scan(&p.ID, &p.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &club.NotFoundError{Kind: "player", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", id, err)
	}
	return &p, nil
}

func (s *PostgresStore) GetMatch(ctx context.Context, id int64) (*club.Match, error) {
	var m club.Match
	err := s.pool.QueryRow(ctx, "match_by_id", id).Scan(&m.ID, &m.League, &m.Season,
		&m.Date, &m.Opposition, &m.Location, &m.Result, &m.ClubPoints, &m.OppositionPoints)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &club.NotFoundError{Kind: "match", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get match %d: %w", id, err)
	}
	return &m, nil
}

func (s *PostgresStore) CreateMatch(ctx context.Context, m *club.Match, entries []SheetEntry) ([]club.Player, error) {
	var created []club.Player
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO matches (league, season, date, opposition, location, result, club_points, opposition_points)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			m.League, m.Season, m.Date, m.Opposition, m.Location, m.Result,
			m.ClubPoints, m.OppositionPoints).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
		created, err = writeAppearancesTx(ctx, tx, m.ID, entries)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *PostgresStore) ReplaceMatch(ctx context.Context, m *club.Match, entries []SheetEntry) ([]club.Player, error) {
	var created []club.Player
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE matches
			SET league = $2, season = $3, date = $4, opposition = $5,
				location = $6, result = $7, club_points = $8, opposition_points = $9
			WHERE id = $1`,
			m.ID, m.League, m.Season, m.Date, m.Opposition, m.Location,
			m.Result, m.ClubPoints, m.OppositionPoints)
		if err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return &club.NotFoundError{Kind: "match", ID: m.ID}
		}
		if _, err := tx.Exec(ctx, `DELETE FROM appearances WHERE match_id = $1`, m.ID); err != nil {
			return fmt.Errorf("clear appearances: %w", err)
		}
		created, err = writeAppearancesTx(ctx, tx, m.ID, entries)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// writeAppearancesTx finds-or-creates each player by canonical key and
// inserts the appearance rows, all on the caller's transaction.
func writeAppearancesTx(ctx context.Context, tx pgx.Tx, matchID int64, entries []SheetEntry) ([]club.Player, error) {
	var created []club.Player
	for _, e := range entries {
		var playerID int64
		err := tx.QueryRow(ctx,
			`SELECT id FROM players WHERE canonical_key = $1`, e.Key).Scan(&playerID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if err := tx.QueryRow(ctx,
				`INSERT INTO players (name, canonical_key) VALUES ($1, $2) RETURNING id`,
				e.Name, e.Key).Scan(&playerID); err != nil {
				return nil, fmt.Errorf("create player %q: %w", e.Name, err)
			}
			created = append(created, club.Player{ID: playerID, Name: e.Name})
		case err != nil:
			return nil, fmt.Errorf("lookup player %q: %w", e.Name, err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO appearances (player_id, match_id, position) VALUES ($1, $2, $3)`,
			playerID, matchID, e.Position); err != nil {
			return nil, fmt.Errorf("insert appearance for %q: %w", e.Name, err)
		}
	}
	return created, nil
}

func (s *PostgresStore) DeleteMatch(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		// appearances cascade via FK
		tag, err := tx.Exec(ctx, `DELETE FROM matches WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete match %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return &club.NotFoundError{Kind: "match", ID: id}
		}
		return nil
	})
}

func (s *PostgresStore) AppearancesByPlayers(ctx context.Context, playerIDs []int64) ([]club.Appearance, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, player_id, match_id, position FROM appearances WHERE player_id = ANY($1) ORDER BY id`,
		playerIDs)
	if err != nil {
		return nil, fmt.Errorf("query appearances: %w", err)
	}
	defer rows.Close()

	var out []club.Appearance
	for rows.Next() {
		var a club.Appearance
		if err := rows.Scan(&a.ID, &a.PlayerID, &a.MatchID, &a.Position); err != nil {
			return nil, fmt.Errorf("scan appearance: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ApplyMergePlan(ctx context.Context, plan *merge.Plan) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if len(plan.ReassignIDs) > 0 {
			tag, err := tx.Exec(ctx,
				`UPDATE appearances SET player_id = $1 WHERE id = ANY($2)`,
				plan.CanonicalID, plan.ReassignIDs)
			if err != nil {
				return fmt.Errorf("reassign appearances: %w", err)
			}
			if int(tag.RowsAffected()) != len(plan.ReassignIDs) {
				return fmt.Errorf("reassigned %d of %d appearances; plan is stale", tag.RowsAffected(), len(plan.ReassignIDs))
			}
		}
		if len(plan.DropIDs) > 0 {
			if _, err := tx.Exec(ctx,
				`DELETE FROM appearances WHERE id = ANY($1)`, plan.DropIDs); err != nil {
				return fmt.Errorf("drop conflicting appearances: %w", err)
			}
		}
		tag, err := tx.Exec(ctx, `DELETE FROM players WHERE id = ANY($1)`, plan.LoserIDs)
		if err != nil {
			return fmt.Errorf("delete merged players: %w", err)
		}
		if int(tag.RowsAffected()) != len(plan.LoserIDs) {
			// A concurrent merge already removed a loser; abort cleanly.
			return &club.NotFoundError{Kind: "player", ID: plan.LoserIDs[0]}
		}
		return nil
	})
}
