package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produto is a catalog item. EstoqueAtual is owned by the movement ledger:
// it changes only together with a MovimentacaoEstoque row in the same transaction.
type Produto struct {
	ID               int64            `gorm:"primaryKey"`
	Nome             string           `gorm:"not null"`
	Descricao        *string          `gorm:"type:text"`
	Preco            decimal.Decimal  `gorm:"type:real;not null"`
	PrecoPromocional *decimal.Decimal `gorm:"type:real"`
	CustoUnitario    decimal.Decimal  `gorm:"type:real;not null"`
	EstoqueAtual     int              `gorm:"not null;default:0"`
	EstoqueMinimo    int              `gorm:"not null;default:0"`
	EstoqueMaximo    *int             `gorm:"default:null"` // nil = no upper bound
	FornecedorID     int64            `gorm:"not null;index"`
	Categoria        *string          `gorm:"type:text"`
	DataCadastro     time.Time        `gorm:"not null"`
	DataAtualizacao  time.Time        `gorm:"not null"`

	Fornecedor *Fornecedor `gorm:"foreignKey:FornecedorID"`
}

func (Produto) TableName() string { return "produtos" }
