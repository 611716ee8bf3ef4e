package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status de venda aceitos pela restrição CHECK de vendas.
const (
	StatusPendente  = "Pendente"
	StatusConcluida = "Concluída"
	StatusCancelada = "Cancelada"
)

// Venda is a sale header. Status drives the stock side effects applied by the
// sale lifecycle service; the total is computed by the caller.
type Venda struct {
	ID            int64           `gorm:"primaryKey"`
	ClienteID     int64           `gorm:"not null;index"`
	FuncionarioID int64           `gorm:"not null;index"`
	Desconto      decimal.Decimal `gorm:"type:real;default:0"`
	Status        string          `gorm:"not null;default:'Pendente'"`
	Total         decimal.Decimal `gorm:"type:real;not null"`
	DataVenda     time.Time

	Itens       []ItemVenda  `gorm:"foreignKey:VendaID"`
	Cliente     *Cliente     `gorm:"foreignKey:ClienteID"`
	Funcionario *Funcionario `gorm:"foreignKey:FuncionarioID"`
}

func (Venda) TableName() string { return "vendas" }

// ItemVenda is one line of a sale.
type ItemVenda struct {
	ID            int64           `gorm:"primaryKey"`
	VendaID       int64           `gorm:"not null;index"`
	ProdutoID     int64           `gorm:"not null"`
	Quantidade    int             `gorm:"not null"`
	Desconto      decimal.Decimal `gorm:"type:real;default:0"`
	PrecoUnitario decimal.Decimal `gorm:"type:real;not null"`
	Subtotal      decimal.Decimal `gorm:"type:real;not null"`

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (ItemVenda) TableName() string { return "itens_venda" }

// StatusValido reports whether s is one of the three sale states.
func StatusValido(s string) bool {
	return s == StatusPendente || s == StatusConcluida || s == StatusCancelada
}
