package worker

// alerta_worker.go
// Processes low-stock alerts published after a stock transaction commits.

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AlertaEstoquePayload is the job payload sent to QueueAlertas.
type AlertaEstoquePayload struct {
	DBName        string `json:"db_name"`
	ProdutoID     int64  `json:"produto_id"`
	Nome          string `json:"nome"`
	EstoqueAtual  int    `json:"estoque_atual"`
	EstoqueMinimo int    `json:"estoque_minimo"`
}

// AlertaKey is the Redis hash holding the latest alert per product of a tenant.
func AlertaKey(dbName string) string { return "alertas:" + dbName }

// AlertaWorker logs each alert and, when Redis is available, keeps the latest
// alert per product so operators can inspect it.
type AlertaWorker struct {
	rdb *redis.Client
}

func NewAlertaWorker(rdb *redis.Client) *AlertaWorker {
	return &AlertaWorker{rdb: rdb}
}

// Handlers returns the job handlers served by this worker.
func (w *AlertaWorker) Handlers() map[string]Handler {
	return map[string]Handler{JobAlertaEstoque: w.Process}
}

func (w *AlertaWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var p AlertaEstoquePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("alerta_worker: invalid payload: %w", err)
	}
	if p.DBName == "" || p.ProdutoID <= 0 {
		return fmt.Errorf("alerta_worker: incomplete payload")
	}

	log.Warn().
		Str("db_name", p.DBName).
		Int64("produto_id", p.ProdutoID).
		Str("nome", p.Nome).
		Int("estoque_atual", p.EstoqueAtual).
		Int("estoque_minimo", p.EstoqueMinimo).
		Msg("estoque abaixo do mínimo")

	if w.rdb == nil {
		return nil
	}
	return w.rdb.HSet(ctx, AlertaKey(p.DBName), strconv.FormatInt(p.ProdutoID, 10), string(raw)).Err()
}
