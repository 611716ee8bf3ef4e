package model

import "time"

// Tipos de movimentação aceitos pela restrição CHECK de movimentacao_estoque.
const (
	MovEntrada   = "ENTRADA"
	MovSaida     = "SAIDA"
	MovAjuste    = "AJUSTE"
	MovPerda     = "PERDA"
	MovDevolucao = "DEVOLUCAO"
)

// Tipos de referência gravados em referencia_tipo.
const (
	RefVenda       = "VENDA"
	RefCompra      = "COMPRA"
	RefProdutoNovo = "PRODUTO_NOVO"
)

// MovimentacaoEstoque is one immutable ledger entry with the stock snapshot
// before and after the change. Quantidade is always a magnitude; the direction
// comes from TipoMovimentacao.
type MovimentacaoEstoque struct {
	ID               int64  `gorm:"primaryKey"`
	ProdutoID        int64  `gorm:"not null;index"`
	TipoMovimentacao string `gorm:"not null"`
	Quantidade       int    `gorm:"not null"`
	EstoqueAnterior  int    `gorm:"not null"`
	EstoqueAtual     int    `gorm:"not null"`
	Motivo           *string
	ReferenciaID     *int64
	ReferenciaTipo   *string
	FuncionarioID    *int64
	DataMovimentacao time.Time `gorm:"index"`
	Observacoes      *string

	Produto     *Produto     `gorm:"foreignKey:ProdutoID"`
	Funcionario *Funcionario `gorm:"foreignKey:FuncionarioID"`
}

func (MovimentacaoEstoque) TableName() string { return "movimentacao_estoque" }

// TipoValido reports whether tipo is accepted by the ledger.
func TipoValido(tipo string) bool {
	switch tipo {
	case MovEntrada, MovSaida, MovAjuste, MovPerda, MovDevolucao:
		return true
	}
	return false
}
