package dto

import "time"

// IDNome is the id/name pair used by selection lists.
type IDNome struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// MovimentacaoRequest is used both to append a movement and, on PUT, as the
// full replacement of an existing row.
type MovimentacaoRequest struct {
	ProdutoID        int64   `json:"produto_id"        validate:"required,gt=0"`
	TipoMovimentacao string  `json:"tipo_movimentacao" validate:"required"`
	Quantidade       int     `json:"quantidade"`
	EstoqueAnterior  int     `json:"estoque_anterior"`
	EstoqueAtual     int     `json:"estoque_atual"`
	Motivo           *string `json:"motivo"`
	ReferenciaID     *int64  `json:"referencia_id"`
	ReferenciaTipo   *string `json:"referencia_tipo"`
	FuncionarioID    *int64  `json:"funcionario_id"`
	Observacoes      *string `json:"observacoes"`
}

type AjusteEstoqueRequest struct {
	NovoEstoque   *int    `json:"novo_estoque"   validate:"required,min=0"`
	Motivo        string  `json:"motivo"         validate:"required,max=255"`
	FuncionarioID *int64  `json:"funcionario_id" validate:"omitempty,gt=0"`
	Observacoes   *string `json:"observacoes"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type MovimentacaoFilter struct {
	ProdutoID      int64      `form:"produto_id"`
	Tipo           string     `form:"tipo"`
	ReferenciaTipo string     `form:"referencia_tipo"`
	Desde          *time.Time `form:"desde" time_format:"2006-01-02" time_utc:"1"`
	Ate            *time.Time `form:"ate"   time_format:"2006-01-02" time_utc:"1"` // inclusive
	Page           int        `form:"page,default=1"`
	Limit          int        `form:"limit,default=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimentacaoResponse struct {
	ID                  int64     `json:"id"`
	ProdutoID           int64     `json:"produto_id"`
	ProdutoNome         string    `json:"produto_nome"`
	TipoMovimentacao    string    `json:"tipo_movimentacao"`
	Quantidade          int       `json:"quantidade"`
	EstoqueAnterior     int       `json:"estoque_anterior"`
	EstoqueAtual        int       `json:"estoque_atual"`
	Motivo              *string   `json:"motivo"`
	ReferenciaID        *int64    `json:"referencia_id"`
	ReferenciaTipo      *string   `json:"referencia_tipo"`
	ReferenciaDescricao string    `json:"referencia_descricao"`
	FuncionarioID       *int64    `json:"funcionario_id"`
	FuncionarioNome     string    `json:"funcionario_nome"`
	DataMovimentacao    time.Time `json:"data_movimentacao"`
	Observacoes         *string   `json:"observacoes"`
}

type MovimentacaoListResponse struct {
	Data  []MovimentacaoResponse `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

type AtualizacaoResponse struct {
	Atualizado bool `json:"atualizado"`
}

// ConciliacaoResponse compares the stored stock with the signed sum of the ledger.
type ConciliacaoResponse struct {
	ProdutoID         int64 `json:"produto_id"`
	EstoqueAtual      int   `json:"estoque_atual"`
	SomaMovimentacoes int   `json:"soma_movimentacoes"`
	Movimentacoes     int64 `json:"movimentacoes"`
	Consistente       bool  `json:"consistente"`
}

type AlertaEstoqueResponse struct {
	ProdutoID     int64  `json:"produto_id"`
	Nome          string `json:"nome"`
	EstoqueAtual  int    `json:"estoque_atual"`
	EstoqueMinimo int    `json:"estoque_minimo"`
}
