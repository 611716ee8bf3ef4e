package model

import "time"

// Funcionario is an employee. Deleting one nulls the employee reference of
// ledger entries and cascades to sales.
type Funcionario struct {
	ID           int64  `gorm:"primaryKey"`
	Nome         string `gorm:"not null"`
	Cargo        string `gorm:"not null"`
	Telefone     *string
	Email        *string
	DataAdmissao time.Time `gorm:"not null"`
	Observacoes  *string
}

func (Funcionario) TableName() string { return "funcionarios" }

// Fornecedor represents a supplier. Products reference it with ON DELETE CASCADE.
type Fornecedor struct {
	ID           int64  `gorm:"primaryKey"`
	NomeFantasia string `gorm:"not null;uniqueIndex"`
	RazaoSocial  string `gorm:"not null"`
	CNPJ         string `gorm:"column:cnpj;not null;uniqueIndex"`
	Telefone     string `gorm:"not null"`
	Email        *string
	Observacoes  *string
}

func (Fornecedor) TableName() string { return "fornecedores" }

type Cliente struct {
	ID           int64  `gorm:"primaryKey"`
	Nome         string `gorm:"not null"`
	CPFCNPJ      string `gorm:"column:cpf_cnpj;not null;uniqueIndex"`
	Telefone     *string
	Email        *string
	CEP          *string `gorm:"column:cep"`
	Cidade       *string
	Estado       *string
	Bairro       *string
	Endereco     *string
	Numero       *string
	Complemento  *string
	DataCadastro time.Time
}

func (Cliente) TableName() string { return "clientes" }
