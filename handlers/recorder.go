package handlers

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stellar/go/keypair"

	"github.com/daccred/txbuild.attest.so/models"
	"github.com/daccred/txbuild.attest.so/operations"
	"github.com/daccred/txbuild.attest.so/transaction"
	"github.com/daccred/txbuild.attest.so/types"
)

// ErrNoDatabase is returned by Record when the recorder runs without a store.
var ErrNoDatabase = errors.New("recorder has no database")

// Recorder composes, signs and decodes envelopes and keeps the ones it
// composes in postgres.
type Recorder struct {
	config  *Config
	db      *sql.DB
	network transaction.Network
	signer  *keypair.Full
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stats   *models.Stats
	logger  *logrus.Entry
}

// Config holds the recorder configuration
type Config struct {
	NetworkPassphrase string
	BaseFee           uint32
	SigningSeed       string        // empty leaves composed envelopes unsigned
	StatsInterval     time.Duration // 0 means 30 seconds
	LogLevel          string
}

func NewRecorder(cfg *Config, db *sql.DB, logger *logrus.Entry) (*Recorder, error) {
	if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to parse log level: %w", err)
		}
		logger.Logger.SetLevel(level)
	}

	recorder := &Recorder{
		config:  cfg,
		db:      db,
		network: transaction.NewNetwork(cfg.NetworkPassphrase),
		logger:  logger,
		stats:   &models.Stats{StartTime: time.Now()},
	}

	if cfg.SigningSeed != "" {
		kp, err := keypair.ParseFull(cfg.SigningSeed)
		if err != nil {
			return nil, fmt.Errorf("failed to parse signing seed: %w", err)
		}
		recorder.signer = kp
		logger.Infof("Signing composed transactions as %s", kp.Address())
	}

	return recorder, nil
}

func (r *Recorder) Network() transaction.Network { return r.network }

// Stats returns a snapshot of the counters.
func (r *Recorder) Stats() models.Stats { r.mu.RLock(); defer r.mu.RUnlock(); return *r.stats }

// Start seeds the counters from the store and keeps LastUpdateTime fresh
// until ctx is done. Wait blocks until that goroutine has returned.
func (r *Recorder) Start(ctx context.Context) error {
	if r.db != nil {
		txCount, opCount, err := r.loadCounts(ctx)
		if err != nil {
			return fmt.Errorf("failed to load recorded counts: %w", err)
		}
		r.mu.Lock()
		r.stats.TransactionCount = txCount
		r.stats.OperationCount = opCount
		r.mu.Unlock()
		r.logger.Infof("Resuming with %d recorded transactions", txCount)
	}

	interval := r.config.StatsInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.updateStats(ctx, interval)
	}()
	return nil
}

func (r *Recorder) Wait() { r.wg.Wait() }

// Decode parses a base64 envelope and describes it.
func (r *Recorder) Decode(envelope string) (models.Transaction, error) {
	env, err := transaction.ParseEnvelopeBase64(envelope)
	if err != nil {
		return models.Transaction{}, err
	}
	described, err := r.Describe(env)
	if err != nil {
		return models.Transaction{}, err
	}
	r.incrementDecodedCount()
	return described, nil
}

// Submit composes the request, records the result and returns its
// description.
func (r *Recorder) Submit(ctx context.Context, req models.ComposeRequest) (models.Transaction, error) {
	env, err := r.Compose(req)
	if err != nil {
		return models.Transaction{}, err
	}
	described, err := r.Describe(env)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := r.Record(ctx, described); err != nil {
		return models.Transaction{}, err
	}
	return described, nil
}

// Describe flattens an envelope into its row form.
func (r *Recorder) Describe(env *transaction.Envelope) (models.Transaction, error) {
	tx := env.Transaction()
	hash, err := tx.HashHex(r.network)
	if err != nil {
		return models.Transaction{}, err
	}
	envelopeXDR, err := env.MarshalBase64()
	if err != nil {
		return models.Transaction{}, err
	}

	memo := tx.Memo()
	described := models.Transaction{
		Hash:           hash,
		SourceAccount:  tx.SourceAccount().Address(),
		Sequence:       tx.Sequence(),
		Fee:            tx.Fee(),
		OperationCount: int32(len(tx.Operations())),
		Network:        r.network.Passphrase(),
		EnvelopeXDR:    envelopeXDR,
		SignatureCount: len(env.Signatures()),
		CreatedAt:      time.Now().UTC(),
	}
	if memo.Type() != types.MemoNone {
		described.MemoType = memo.Type().String()
		described.MemoValue = memo.Value()
	}
	if tb, ok := tx.TimeBounds(); ok {
		described.MinTime = tb.MinTime
		described.MaxTime = tb.MaxTime
	}

	for index, op := range tx.Operations() {
		described.Operations = append(described.Operations, describeOperation(hash, uint32(index), op))
	}
	return described, nil
}

func describeOperation(txHash string, index uint32, op operations.Operation) models.Operation {
	var sourceAccount string
	if account, ok := op.SourceAccount(); ok {
		sourceAccount = account.Address()
	}
	details := map[string]interface{}{}
	switch op := op.(type) {
	case *operations.ChangeTrust:
		details["asset"] = op.Asset().String()
		details["limit"] = op.EffectiveLimit().String()
		_, limited := op.Limit()
		details["limited"] = limited
	case *operations.CreateAccount:
		details["destination"] = op.Destination().Address()
		details["starting_balance"] = op.StartingBalance().String()
	case *operations.Payment:
		details["destination"] = op.Destination().Address()
		details["asset"] = op.Asset().String()
		details["amount"] = op.Amount().String()
	case *operations.AccountMerge:
		details["into"] = op.Destination().Address()
	case *operations.ManageData:
		details["name"] = op.Name()
		if value, ok := op.Value(); ok {
			details["value"] = base64.StdEncoding.EncodeToString(value)
		}
	case *operations.BumpSequence:
		details["bump_to"] = op.BumpTo()
	}
	detailsJSON, _ := json.Marshal(details)
	return models.Operation{
		ID:              fmt.Sprintf("%s-%d", txHash, index),
		TransactionHash: txHash,
		Index:           index,
		Type:            operations.Name(op.Type()),
		SourceAccount:   sourceAccount,
		Details:         detailsJSON,
	}
}

// Record stores a described transaction and its operations in one database
// transaction. Recording the same hash twice is a no-op.
func (r *Recorder) Record(ctx context.Context, tx models.Transaction) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := r.storeTransaction(ctx, dbTx, tx); err != nil {
		return err
	}
	for _, op := range tx.Operations {
		if err := r.storeOperation(ctx, dbTx, op); err != nil {
			return err
		}
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.incrementTransactionCount(int64(len(tx.Operations)), int64(tx.SignatureCount))
	r.logger.WithField("hash", tx.Hash).Infof("Recorded transaction with %d operations", tx.OperationCount)
	return nil
}

func (r *Recorder) storeTransaction(ctx context.Context, dbTx *sql.Tx, tx models.Transaction) error {
	var memoType, memoValue sql.NullString
	if tx.MemoType != "" {
		memoType = sql.NullString{String: tx.MemoType, Valid: true}
		memoValue = sql.NullString{String: tx.MemoValue, Valid: true}
	}
	if _, err := dbTx.ExecContext(ctx, `
		INSERT INTO transactions (hash, source_account, sequence, fee,
			operation_count, memo_type, memo_value, min_time, max_time,
			network, envelope_xdr, signature_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (hash) DO NOTHING`,
		tx.Hash, tx.SourceAccount, tx.Sequence, int64(tx.Fee),
		tx.OperationCount, memoType, memoValue, int64(tx.MinTime), int64(tx.MaxTime),
		tx.Network, tx.EnvelopeXDR, tx.SignatureCount, tx.CreatedAt); err != nil {
		return fmt.Errorf("failed to store transaction: %w", err)
	}
	return nil
}

func (r *Recorder) storeOperation(ctx context.Context, dbTx *sql.Tx, op models.Operation) error {
	var sourceAccount sql.NullString
	if op.SourceAccount != "" {
		sourceAccount = sql.NullString{String: op.SourceAccount, Valid: true}
	}
	if _, err := dbTx.ExecContext(ctx, `
		INSERT INTO operations (id, transaction_hash, index, type, source_account, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		op.ID, op.TransactionHash, int64(op.Index), op.Type, sourceAccount, []byte(op.Details)); err != nil {
		return fmt.Errorf("failed to store operation %d: %w", op.Index, err)
	}
	return nil
}

func (r *Recorder) loadCounts(ctx context.Context) (int64, int64, error) {
	var txCount, opCount int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&txCount); err != nil {
		return 0, 0, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operations`).Scan(&opCount); err != nil {
		return 0, 0, err
	}
	return txCount, opCount, nil
}

// Helpers
func (r *Recorder) incrementDecodedCount() { r.mu.Lock(); defer r.mu.Unlock(); r.stats.DecodedCount++ }
func (r *Recorder) incrementTransactionCount(ops, signatures int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.TransactionCount++
	r.stats.OperationCount += ops
	r.stats.SignatureCount += signatures
	if elapsed := time.Since(r.stats.StartTime).Seconds(); elapsed > 0 {
		r.stats.RecordRate = float64(r.stats.TransactionCount) / elapsed
	}
}

func (r *Recorder) updateStats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Context cancelled, stopping stats updates")
			return
		case <-ticker.C:
			r.mu.Lock()
			r.stats.LastUpdateTime = time.Now()
			r.mu.Unlock()
		}
	}
}
