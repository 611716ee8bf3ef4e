package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	ProdutoID     int64           `json:"produto_id"     validate:"required,gt=0"`
	Quantidade    int             `json:"quantidade"     validate:"required,gt=0"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario" validate:"min=0"`
	Desconto      decimal.Decimal `json:"desconto"       validate:"min=0"`
}

type CriarVendaRequest struct {
	ClienteID     int64              `json:"cliente_id"     validate:"required,gt=0"`
	FuncionarioID int64              `json:"funcionario_id" validate:"required,gt=0"`
	Desconto      decimal.Decimal    `json:"desconto"       validate:"min=0"`
	Status        string             `json:"status"         validate:"omitempty,oneof=Pendente Concluída Cancelada"`
	Itens         []ItemVendaRequest `json:"itens"          validate:"required,min=1,dive"`
}

type AlterarStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pendente Concluída Cancelada"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type VendaFilter struct {
	Status    string `form:"status"`
	ClienteID int64  `form:"cliente_id"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	ID            int64           `json:"id"`
	ProdutoID     int64           `json:"produto_id"`
	ProdutoNome   string          `json:"produto_nome,omitempty"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Desconto      decimal.Decimal `json:"desconto"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// ItemSemBaixa reports a product whose stock was left untouched because it
// could not cover the requested quantity.
type ItemSemBaixa struct {
	ProdutoID         int64 `json:"produto_id"`
	Quantidade        int   `json:"quantidade"`
	EstoqueDisponivel int   `json:"estoque_disponivel"`
}

type VendaResponse struct {
	ID            int64               `json:"id"`
	ClienteID     int64               `json:"cliente_id"`
	FuncionarioID int64               `json:"funcionario_id"`
	Desconto      decimal.Decimal     `json:"desconto"`
	Status        string              `json:"status"`
	Total         decimal.Decimal     `json:"total"`
	DataVenda     time.Time           `json:"data_venda"`
	Itens         []ItemVendaResponse `json:"itens"`
	ItensSemBaixa []ItemSemBaixa      `json:"itens_sem_baixa"`
}

type VendaListResponse struct {
	Data  []VendaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
