package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"TradeScout/internal/domain/models"
	domrepo "TradeScout/internal/domain/repository"
	pkgch "TradeScout/pkg/clickhouse"
	applogger "TradeScout/pkg/logger"
)

const signalHistoryTable = "tradescout.signal_history"

var signalSchema = []string{
	`CREATE DATABASE IF NOT EXISTS tradescout`,
	`CREATE TABLE IF NOT EXISTS tradescout.signal_history (
        run_ts            DateTime64(3, 'UTC'),
        ticker            LowCardinality(String),
        momentum          Float64,
        volume_surge      Float64,
        relative_strength Float64,
        news_sentiment    Float64,
        catalyst          Float64,
        composite         Float64,
        risk              Float64,
        price             Float64,
        atr               Float64,
        rsi               Float64,
        pct_change_today  Float64
    ) ENGINE = MergeTree()
    PARTITION BY toYYYYMM(run_ts)
    ORDER BY (ticker, run_ts)`,
}

// CHSignalStore implements SignalStore backed by ClickHouse.
type CHSignalStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

func NewCHSignalStore(ch *pkgch.Client, l *applogger.Logger) *CHSignalStore {
	return &CHSignalStore{ch: ch, db: ch.DB(), l: l}
}

// Init ensures the database and history table exist (idempotent).
func (s *CHSignalStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, signalSchema)
}

// StoreRun inserts every ranked signal of a run in one batch.
func (s *CHSignalStore) StoreRun(ctx context.Context, res *models.ScanResult) error {
	if res == nil || len(res.Signals) == 0 {
		return nil
	}
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (run_ts, ticker, momentum, volume_surge, relative_strength,
            news_sentiment, catalyst, composite, risk, price, atr, rsi, pct_change_today)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, signalHistoryTable))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	for _, sig := range res.Signals {
		if _, err := stmt.ExecContext(ctx,
			res.Timestamp, sig.Ticker,
			sig.MomentumScore, sig.VolumeSurgeScore, sig.RelativeStrengthScore,
			sig.NewsSentimentScore, sig.CatalystScore,
			sig.CompositeScore, sig.RiskScore,
			sig.Price, sig.ATR, sig.RSI, sig.PctChangeToday,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert signal %s: %w", sig.Ticker, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}

	s.l.Debug("signal history stored",
		applogger.Int("rows", len(res.Signals)),
		applogger.Duration("duration_ms", time.Since(start)))
	return nil
}

// QueryHistory returns a ticker's persisted signals in the [from, to] window,
// newest first, capped at limit.
func (s *CHSignalStore) QueryHistory(ctx context.Context, ticker string, from, to time.Time, limit int) ([]models.Signal, error) {
	start := time.Now()
	if limit <= 0 {
		limit = 100
	}
	q := fmt.Sprintf(`
        SELECT ticker, momentum, volume_surge, relative_strength, news_sentiment,
               catalyst, composite, risk, price, atr, rsi, pct_change_today
        FROM %s
        WHERE ticker = ? AND run_ts >= ? AND run_ts <= ?
        ORDER BY run_ts DESC
        LIMIT ?`, signalHistoryTable)

	rows, err := s.db.QueryContext(ctx, q, ticker, from, to, limit)
	if err != nil {
		s.l.Error("signal history query error",
			applogger.String("ticker", ticker),
			applogger.Error(err))
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := make([]models.Signal, 0, limit)
	for rows.Next() {
		var sig models.Signal
		if err := rows.Scan(
			&sig.Ticker,
			&sig.MomentumScore, &sig.VolumeSurgeScore, &sig.RelativeStrengthScore,
			&sig.NewsSentimentScore, &sig.CatalystScore,
			&sig.CompositeScore, &sig.RiskScore,
			&sig.Price, &sig.ATR, &sig.RSI, &sig.PctChangeToday,
		); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		out = append(out, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	s.l.Debug("signal history query ok",
		applogger.String("ticker", ticker),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)))
	return out, nil
}

// Health pings the underlying connection.
func (s *CHSignalStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

// Close closes the connection pool.
func (s *CHSignalStore) Close() error {
	return s.ch.Close()
}

var _ domrepo.SignalStore = (*CHSignalStore)(nil)
