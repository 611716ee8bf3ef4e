package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarProdutoRequest struct {
	Nome             string           `json:"nome"              validate:"required,min=1,max=120"`
	Descricao        *string          `json:"descricao"`
	Preco            decimal.Decimal  `json:"preco"             validate:"min=0"`
	PrecoPromocional *decimal.Decimal `json:"preco_promocional" validate:"omitempty,min=0"`
	CustoUnitario    decimal.Decimal  `json:"custo_unitario"    validate:"min=0"`
	EstoqueAtual     int              `json:"estoque_atual"     validate:"min=0"`
	EstoqueMinimo    int              `json:"estoque_minimo"    validate:"min=0"`
	EstoqueMaximo    *int             `json:"estoque_maximo"    validate:"omitempty,min=0"`
	FornecedorID     int64            `json:"fornecedor_id"     validate:"required,gt=0"`
	Categoria        *string          `json:"categoria"`
}

// AtualizarProdutoRequest edits descriptive and price fields. Stock is only
// changed through the movement ledger.
type AtualizarProdutoRequest struct {
	Nome             string           `json:"nome"              validate:"required,min=1,max=120"`
	Descricao        *string          `json:"descricao"`
	Preco            decimal.Decimal  `json:"preco"             validate:"min=0"`
	PrecoPromocional *decimal.Decimal `json:"preco_promocional" validate:"omitempty,min=0"`
	CustoUnitario    decimal.Decimal  `json:"custo_unitario"    validate:"min=0"`
	EstoqueMinimo    int              `json:"estoque_minimo"    validate:"min=0"`
	EstoqueMaximo    *int             `json:"estoque_maximo"    validate:"omitempty,min=0"`
	FornecedorID     int64            `json:"fornecedor_id"     validate:"required,gt=0"`
	Categoria        *string          `json:"categoria"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProdutoResponse struct {
	ID               int64            `json:"id"`
	Nome             string           `json:"nome"`
	Descricao        *string          `json:"descricao"`
	Preco            decimal.Decimal  `json:"preco"`
	PrecoPromocional *decimal.Decimal `json:"preco_promocional"`
	CustoUnitario    decimal.Decimal  `json:"custo_unitario"`
	EstoqueAtual     int              `json:"estoque_atual"`
	EstoqueMinimo    int              `json:"estoque_minimo"`
	EstoqueMaximo    *int             `json:"estoque_maximo"`
	FornecedorID     int64            `json:"fornecedor_id"`
	Categoria        *string          `json:"categoria"`
	DataCadastro     time.Time        `json:"data_cadastro"`
	DataAtualizacao  time.Time        `json:"data_atualizacao"`
}
