package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"

	"github.com/daccred/txbuild.attest.so/fault"
	"github.com/daccred/txbuild.attest.so/handlers"
	"github.com/daccred/txbuild.attest.so/models"
)

const maxPageSize = 200

type TransactionController struct {
	db       *sql.DB
	recorder *handlers.Recorder
}

func NewTransactionController(db *sql.DB, recorder *handlers.Recorder) *TransactionController {
	return &TransactionController{db: db, recorder: recorder}
}

func (tc *TransactionController) RegisterRoutes(r *gin.Engine) {
	store := persistence.NewInMemoryStore(time.Minute)

	r.GET("/health", tc.HealthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/transactions", tc.CreateTransaction)
		v1.POST("/envelopes/decode", tc.DecodeEnvelope)
		v1.GET("/transactions", tc.GetTransactions)
		v1.GET("/transactions/:hash", tc.GetTransaction)
		v1.GET("/operations", tc.GetOperations)
		v1.GET("/stats", cache.CachePage(store, time.Minute, tc.GetStats))
	}
}

func (tc *TransactionController) HealthCheck(c *gin.Context) {
	if tc.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "Database not configured"})
		return
	}
	if err := tc.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "Database connection failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (tc *TransactionController) CreateTransaction(c *gin.Context) {
	var req models.ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	tx, err := tc.recorder.Submit(c.Request.Context(), req)
	if err != nil {
		if fault.IsCaller(err) || errors.Is(err, handlers.ErrNoSigner) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to record transaction"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": tx})
}

func (tc *TransactionController) DecodeEnvelope(c *gin.Context) {
	var req models.DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	tx, err := tc.recorder.Decode(req.Envelope)
	if err != nil {
		if fault.IsCodec(err) || fault.IsCaller(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to decode envelope"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tx})
}

// page reads limit and offset, answering 400 itself when they are bad.
func page(c *gin.Context) (int, int, bool) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > maxPageSize {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "limit must be between 1 and 200"})
		return 0, 0, false
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "offset must not be negative"})
		return 0, 0, false
	}
	return limit, offset, true
}

const transactionColumns = `hash, source_account, sequence, fee, operation_count,
		       memo_type, memo_value, min_time, max_time, network,
		       envelope_xdr, signature_count, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var tx models.Transaction
	var memoType, memoValue sql.NullString
	if err := row.Scan(&tx.Hash, &tx.SourceAccount, &tx.Sequence, &tx.Fee,
		&tx.OperationCount, &memoType, &memoValue, &tx.MinTime, &tx.MaxTime,
		&tx.Network, &tx.EnvelopeXDR, &tx.SignatureCount, &tx.CreatedAt); err != nil {
		return models.Transaction{}, err
	}
	if memoType.Valid {
		tx.MemoType = memoType.String
	}
	if memoValue.Valid {
		tx.MemoValue = memoValue.String
	}
	return tx, nil
}

func (tc *TransactionController) GetTransactions(c *gin.Context) {
	limit, offset, ok := page(c)
	if !ok {
		return
	}

	rows, err := tc.db.QueryContext(c.Request.Context(), `
		SELECT `+transactionColumns+`
		FROM transactions
		ORDER BY created_at DESC, hash
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch transactions"})
		return
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		if tx, err := scanTransaction(rows); err == nil {
			transactions = append(transactions, tx)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": transactions})
}

func (tc *TransactionController) GetTransaction(c *gin.Context) {
	hash := c.Param("hash")
	tx, err := scanTransaction(tc.db.QueryRowContext(c.Request.Context(), `
		SELECT `+transactionColumns+`
		FROM transactions WHERE hash = $1`, hash))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Transaction not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch transaction"})
		return
	}

	ops, err := tc.queryOperations(c, hash, maxPageSize, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch operations"})
		return
	}
	tx.Operations = ops
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tx})
}

func (tc *TransactionController) GetOperations(c *gin.Context) {
	limit, offset, ok := page(c)
	if !ok {
		return
	}
	operations, err := tc.queryOperations(c, c.Query("transaction_hash"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch operations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": operations})
}

func (tc *TransactionController) queryOperations(c *gin.Context, txHash string, limit, offset int) ([]models.Operation, error) {
	query := `
		SELECT id, transaction_hash, index, type, source_account, details
		FROM operations`
	args := []interface{}{}
	if txHash != "" {
		query += " WHERE transaction_hash = $1"
		args = append(args, txHash)
		query += " ORDER BY index LIMIT $2 OFFSET $3"
	} else {
		query += " ORDER BY transaction_hash, index LIMIT $1 OFFSET $2"
	}
	args = append(args, limit, offset)

	rows, err := tc.db.QueryContext(c.Request.Context(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	operations := []models.Operation{}
	for rows.Next() {
		var op models.Operation
		var sourceAccount sql.NullString
		var details []byte
		if err := rows.Scan(&op.ID, &op.TransactionHash, &op.Index,
			&op.Type, &sourceAccount, &details); err == nil {
			if sourceAccount.Valid {
				op.SourceAccount = sourceAccount.String
			}
			op.Details = details
			operations = append(operations, op)
		}
	}
	return operations, rows.Err()
}

func (tc *TransactionController) GetStats(c *gin.Context) {
	stats := tc.recorder.Stats()
	ctx := c.Request.Context()
	tc.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&stats.TransactionCount)
	tc.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM operations").Scan(&stats.OperationCount)
	stats.LastUpdateTime = time.Now()
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
