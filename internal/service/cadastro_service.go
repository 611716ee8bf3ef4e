package service

import (
	"context"
	"time"

	"sevensystem/internal/dto"
	"sevensystem/internal/model"
	"sevensystem/internal/repository"
)

// CadastroService manages employees, suppliers and clients.
type CadastroService interface {
	CriarFuncionario(ctx context.Context, req dto.CriarFuncionarioRequest) (*dto.FuncionarioResponse, error)
	ListarFuncionarios(ctx context.Context) ([]dto.FuncionarioResponse, error)
	CriarFornecedor(ctx context.Context, req dto.CriarFornecedorRequest) (*dto.FornecedorResponse, error)
	ListarFornecedores(ctx context.Context) ([]dto.FornecedorResponse, error)
	CriarCliente(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error)
	ListarClientes(ctx context.Context) ([]dto.ClienteResponse, error)
}

type cadastroService struct {
	repo repository.CadastroRepository
	now  func() time.Time
}

func NewCadastroService(repo repository.CadastroRepository) CadastroService {
	return &cadastroService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *cadastroService) CriarFuncionario(ctx context.Context, req dto.CriarFuncionarioRequest) (*dto.FuncionarioResponse, error) {
	admissao := s.now().Truncate(24 * time.Hour)
	if req.DataAdmissao != nil {
		admissao = req.DataAdmissao.UTC()
	}
	f := &model.Funcionario{
		Nome:         req.Nome,
		Cargo:        req.Cargo,
		Telefone:     req.Telefone,
		Email:        req.Email,
		DataAdmissao: admissao,
		Observacoes:  req.Observacoes,
	}
	if err := s.repo.CreateFuncionario(ctx, f); err != nil {
		return nil, boundary(ctx, "criar funcionário", err)
	}
	resp := funcionarioToResponse(f)
	return &resp, nil
}

func (s *cadastroService) ListarFuncionarios(ctx context.Context) ([]dto.FuncionarioResponse, error) {
	list, err := s.repo.ListFuncionarios(ctx)
	if err != nil {
		return nil, boundary(ctx, "listar funcionários", err)
	}
	out := make([]dto.FuncionarioResponse, len(list))
	for i := range list {
		out[i] = funcionarioToResponse(&list[i])
	}
	return out, nil
}

func funcionarioToResponse(f *model.Funcionario) dto.FuncionarioResponse {
	return dto.FuncionarioResponse{
		ID: f.ID, Nome: f.Nome, Cargo: f.Cargo, Telefone: f.Telefone,
		Email: f.Email, DataAdmissao: f.DataAdmissao, Observacoes: f.Observacoes,
	}
}

func (s *cadastroService) CriarFornecedor(ctx context.Context, req dto.CriarFornecedorRequest) (*dto.FornecedorResponse, error) {
	f := &model.Fornecedor{
		NomeFantasia: req.NomeFantasia,
		RazaoSocial:  req.RazaoSocial,
		CNPJ:         req.CNPJ,
		Telefone:     req.Telefone,
		Email:        req.Email,
		Observacoes:  req.Observacoes,
	}
	if err := s.repo.CreateFornecedor(ctx, f); err != nil {
		return nil, boundary(ctx, "criar fornecedor", err)
	}
	resp := fornecedorToResponse(f)
	return &resp, nil
}

func (s *cadastroService) ListarFornecedores(ctx context.Context) ([]dto.FornecedorResponse, error) {
	list, err := s.repo.ListFornecedores(ctx)
	if err != nil {
		return nil, boundary(ctx, "listar fornecedores", err)
	}
	out := make([]dto.FornecedorResponse, len(list))
	for i := range list {
		out[i] = fornecedorToResponse(&list[i])
	}
	return out, nil
}

func fornecedorToResponse(f *model.Fornecedor) dto.FornecedorResponse {
	return dto.FornecedorResponse{
		ID: f.ID, NomeFantasia: f.NomeFantasia, RazaoSocial: f.RazaoSocial, CNPJ: f.CNPJ,
		Telefone: f.Telefone, Email: f.Email, Observacoes: f.Observacoes,
	}
}

func (s *cadastroService) CriarCliente(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		Nome:         req.Nome,
		CPFCNPJ:      req.CPFCNPJ,
		Telefone:     req.Telefone,
		Email:        req.Email,
		CEP:          req.CEP,
		Cidade:       req.Cidade,
		Estado:       req.Estado,
		Bairro:       req.Bairro,
		Endereco:     req.Endereco,
		Numero:       req.Numero,
		Complemento:  req.Complemento,
		DataCadastro: s.now(),
	}
	if err := s.repo.CreateCliente(ctx, c); err != nil {
		return nil, boundary(ctx, "criar cliente", err)
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *cadastroService) ListarClientes(ctx context.Context) ([]dto.ClienteResponse, error) {
	list, err := s.repo.ListClientes(ctx)
	if err != nil {
		return nil, boundary(ctx, "listar clientes", err)
	}
	out := make([]dto.ClienteResponse, len(list))
	for i := range list {
		out[i] = clienteToResponse(&list[i])
	}
	return out, nil
}

func clienteToResponse(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID: c.ID, Nome: c.Nome, CPFCNPJ: c.CPFCNPJ, Telefone: c.Telefone, Email: c.Email,
		CEP: c.CEP, Cidade: c.Cidade, Estado: c.Estado, Bairro: c.Bairro, Endereco: c.Endereco,
		Numero: c.Numero, Complemento: c.Complemento, DataCadastro: c.DataCadastro,
	}
}
