package storage

// sqlite.go — journal de ciclos y submissions.
//
// Estrategia:
//   - `cycles`: resumen ligero por ciclo (pares escaneados, oportunidades,
//     confirmados, duración). Siempre 1 fila por ciclo.
//   - `submissions`: UNA fila por oportunidad enviada (UPSERT por id de
//     oportunidad) con el desenlace del bundle y la razón de rechazo.
//   - Prune automático al arrancar: cycles > 30d, submissions > 90d
//     (las submissions son el registro financiero, se conservan más).

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

const schema = `
-- Resumen ligero por ciclo de scan
CREATE TABLE IF NOT EXISTS cycles (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at        TEXT    NOT NULL,
    duration_ms       INTEGER NOT NULL DEFAULT 0,
    pairs_scanned     INTEGER NOT NULL DEFAULT 0,
    snapshot_failures INTEGER NOT NULL DEFAULT 0,
    opportunities     INTEGER NOT NULL DEFAULT 0,
    confirmed         INTEGER NOT NULL DEFAULT 0
);

-- Una fila por submission, keyed por el id de la oportunidad
CREATE TABLE IF NOT EXISTS submissions (
    opportunity_id TEXT PRIMARY KEY,
    bundle_id      TEXT,
    pair           TEXT    NOT NULL,
    route          TEXT    NOT NULL,
    probe          INTEGER NOT NULL DEFAULT 0,
    net_profit     INTEGER NOT NULL DEFAULT 0,
    status         TEXT    NOT NULL,
    reason         TEXT,
    submitted_at   TEXT    NOT NULL,
    elapsed_ms     INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_cycles_at  ON cycles(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_sub_at     ON submissions(submitted_at DESC);
CREATE INDEX IF NOT EXISTS idx_sub_status ON submissions(status);
`

const (
	retentionCycles      = 30 * 24 * time.Hour // ciclos: 30 días
	retentionSubmissions = 90 * 24 * time.Hour // submissions: 90 días
)

// SQLiteJournal implementa ports.Journal usando SQLite (pure Go, sin CGo).
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteJournal: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteJournal: apply schema: %w", err)
	}

	j := &SQLiteJournal{db: db}
	j.pruneOld(context.Background())
	return j, nil
}

// SaveCycle persiste el resumen de un ciclo.
func (j *SQLiteJournal) SaveCycle(ctx context.Context, s domain.CycleSummary) error {
	if _, err := j.db.ExecContext(ctx,
		`INSERT INTO cycles (started_at, duration_ms, pairs_scanned, snapshot_failures, opportunities, confirmed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.StartedAt.UTC().Format(time.RFC3339Nano),
		s.Duration.Milliseconds(),
		s.PairsScanned,
		s.SnapshotFailures,
		len(s.Opportunities),
		s.ConfirmedCount(),
	); err != nil {
		return fmt.Errorf("storage.SaveCycle: insert: %w", err)
	}
	return nil
}

// SaveSubmission hace upsert del desenlace de una submission.
func (j *SQLiteJournal) SaveSubmission(ctx context.Context, r domain.SubmissionResult) error {
	opp := r.Opportunity
	if _, err := j.db.ExecContext(ctx, `
		INSERT INTO submissions
			(opportunity_id, bundle_id, pair, route, probe, net_profit, status, reason, submitted_at, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(opportunity_id) DO UPDATE SET
			bundle_id    = excluded.bundle_id,
			status       = excluded.status,
			reason       = excluded.reason,
			submitted_at = excluded.submitted_at,
			elapsed_ms   = excluded.elapsed_ms
	`,
		opp.ID,
		r.BundleID,
		opp.Pair.Symbol,
		opp.Route(),
		int64(opp.Probe),
		opp.NetProfit,
		string(r.Status),
		r.Reason,
		r.SubmittedAt.UTC().Format(time.RFC3339Nano),
		r.Elapsed.Milliseconds(),
	); err != nil {
		return fmt.Errorf("storage.SaveSubmission: upsert %s: %w", opp.ID, err)
	}
	return nil
}

// RecentSubmissions devuelve las submissions del rango dado, más recientes
// primero. Solo se reconstruyen los campos persistidos; las patas del
// roundtrip no se guardan.
func (j *SQLiteJournal) RecentSubmissions(ctx context.Context, from, to time.Time) ([]domain.SubmissionResult, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT opportunity_id, bundle_id, pair, route, probe, net_profit, status, reason, submitted_at, elapsed_ms
		FROM submissions
		WHERE submitted_at BETWEEN ? AND ?
		ORDER BY submitted_at DESC
	`, from.UTC().Format(time.RFC3339Nano), to.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("storage.RecentSubmissions: query: %w", err)
	}
	defer rows.Close()

	var results []domain.SubmissionResult
	for rows.Next() {
		var r domain.SubmissionResult
		var route, status, submittedAt string
		var probe, netProfit, elapsedMS int64

		if err := rows.Scan(
			&r.Opportunity.ID,
			&r.BundleID,
			&r.Opportunity.Pair.Symbol,
			&route, // legible en la DB; las patas no se reconstruyen
			&probe,
			&netProfit,
			&status,
			&r.Reason,
			&submittedAt,
			&elapsedMS,
		); err != nil {
			return nil, fmt.Errorf("storage.RecentSubmissions: scan row: %w", err)
		}

		r.Opportunity.Probe = uint64(probe)
		r.Opportunity.NetProfit = netProfit
		r.Status = domain.SubmissionStatus(status)
		r.SubmittedAt, _ = time.Parse(time.RFC3339Nano, submittedAt)
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		results = append(results, r)
	}

	return results, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
func (j *SQLiteJournal) pruneOld(ctx context.Context) {
	cutoffCycles := time.Now().UTC().Add(-retentionCycles).Format(time.RFC3339Nano)
	cutoffSubs := time.Now().UTC().Add(-retentionSubmissions).Format(time.RFC3339Nano)
	j.db.ExecContext(ctx, `DELETE FROM cycles WHERE started_at < ?`, cutoffCycles)
	j.db.ExecContext(ctx, `DELETE FROM submissions WHERE submitted_at < ?`, cutoffSubs)
}
