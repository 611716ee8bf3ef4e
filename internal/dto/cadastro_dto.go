package dto

import "time"

type CriarFuncionarioRequest struct {
	Nome         string     `json:"nome"          validate:"required,min=2,max=120"`
	Cargo        string     `json:"cargo"         validate:"required,max=60"`
	Telefone     *string    `json:"telefone"`
	Email        *string    `json:"email"         validate:"omitempty,email"`
	DataAdmissao *time.Time `json:"data_admissao"`
	Observacoes  *string    `json:"observacoes"`
}

type FuncionarioResponse struct {
	ID           int64     `json:"id"`
	Nome         string    `json:"nome"`
	Cargo        string    `json:"cargo"`
	Telefone     *string   `json:"telefone"`
	Email        *string   `json:"email"`
	DataAdmissao time.Time `json:"data_admissao"`
	Observacoes  *string   `json:"observacoes"`
}

type CriarFornecedorRequest struct {
	NomeFantasia string  `json:"nome_fantasia" validate:"required,max=120"`
	RazaoSocial  string  `json:"razao_social"  validate:"required,max=160"`
	CNPJ         string  `json:"cnpj"          validate:"required,min=14,max=18"`
	Telefone     string  `json:"telefone"      validate:"required,max=20"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	Observacoes  *string `json:"observacoes"`
}

type FornecedorResponse struct {
	ID           int64   `json:"id"`
	NomeFantasia string  `json:"nome_fantasia"`
	RazaoSocial  string  `json:"razao_social"`
	CNPJ         string  `json:"cnpj"`
	Telefone     string  `json:"telefone"`
	Email        *string `json:"email"`
	Observacoes  *string `json:"observacoes"`
}

type CriarClienteRequest struct {
	Nome        string  `json:"nome"        validate:"required,min=2,max=120"`
	CPFCNPJ     string  `json:"cpf_cnpj"    validate:"required,min=11,max=18"`
	Telefone    *string `json:"telefone"`
	Email       *string `json:"email"       validate:"omitempty,email"`
	CEP         *string `json:"cep"`
	Cidade      *string `json:"cidade"`
	Estado      *string `json:"estado"      validate:"omitempty,len=2"`
	Bairro      *string `json:"bairro"`
	Endereco    *string `json:"endereco"`
	Numero      *string `json:"numero"`
	Complemento *string `json:"complemento"`
}

type ClienteResponse struct {
	ID           int64     `json:"id"`
	Nome         string    `json:"nome"`
	CPFCNPJ      string    `json:"cpf_cnpj"`
	Telefone     *string   `json:"telefone"`
	Email        *string   `json:"email"`
	CEP          *string   `json:"cep"`
	Cidade       *string   `json:"cidade"`
	Estado       *string   `json:"estado"`
	Bairro       *string   `json:"bairro"`
	Endereco     *string   `json:"endereco"`
	Numero       *string   `json:"numero"`
	Complemento  *string   `json:"complemento"`
	DataCadastro time.Time `json:"data_cadastro"`
}
