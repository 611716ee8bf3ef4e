package service

import (
	"context"
	"fmt"

	"sevensystem/internal/apierror"
	"sevensystem/internal/dto"
	"sevensystem/internal/model"
	"sevensystem/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProdutoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	Atualizar(ctx context.Context, id int64, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context) ([]dto.ProdutoResponse, error)
	ObterPorID(ctx context.Context, id int64) (*dto.ProdutoResponse, error)
}

type produtoService struct {
	tx       txRunner
	ledger   *ledger
	produtos repository.ProdutoRepository
}

func NewProdutoService(tx txRunner, l *ledger, produtos repository.ProdutoRepository) ProdutoService {
	return &produtoService{tx: tx, ledger: l, produtos: produtos}
}

// ── Criar ─────────────────────────────────────────────────────────────────────
// The product row and its opening ENTRADA entry commit together, so every unit
// of stock has a ledger origin.

func (s *produtoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	if err := validarProduto(req.Preco, req.PrecoPromocional, req.EstoqueMinimo, req.EstoqueMaximo); err != nil {
		return nil, err
	}

	agora := s.ledger.now()
	p := &model.Produto{
		Nome:             req.Nome,
		Descricao:        req.Descricao,
		Preco:            req.Preco,
		PrecoPromocional: req.PrecoPromocional,
		CustoUnitario:    req.CustoUnitario,
		EstoqueAtual:     req.EstoqueAtual,
		EstoqueMinimo:    req.EstoqueMinimo,
		EstoqueMaximo:    req.EstoqueMaximo,
		FornecedorID:     req.FornecedorID,
		Categoria:        req.Categoria,
		DataCadastro:     agora,
		DataAtualizacao:  agora,
	}

	err := s.tx.runTx(ctx, func(tx *gorm.DB) error {
		if err := s.produtos.CreateTx(tx, p); err != nil {
			return err
		}
		return s.aoCriarProdutoTx(ctx, tx, p)
	})
	if err != nil {
		return nil, boundary(ctx, "criar produto", err)
	}
	return produtoToResponse(p), nil
}

// aoCriarProdutoTx seeds the ledger of a freshly inserted product with its
// initial stock.
func (s *produtoService) aoCriarProdutoTx(ctx context.Context, tx *gorm.DB, novo *model.Produto) error {
	lc := lancamento{
		motivo:      "Estoque inicial do produto",
		refID:       int64Ptr(novo.ID),
		refTipo:     model.RefProdutoNovo,
		observacoes: strPtr(fmt.Sprintf("Produto cadastrado: %s - Estoque inicial: %d", novo.Nome, novo.EstoqueAtual)),
	}
	mov := lc.entrada(novo.ID, model.MovEntrada, novo.EstoqueAtual, 0, novo.EstoqueAtual, novo.DataCadastro)
	return s.ledger.appendTx(ctx, tx, mov)
}

// ── Atualizar ─────────────────────────────────────────────────────────────────

func (s *produtoService) Atualizar(ctx context.Context, id int64, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	if err := validarProduto(req.Preco, req.PrecoPromocional, req.EstoqueMinimo, req.EstoqueMaximo); err != nil {
		return nil, err
	}

	var p *model.Produto
	err := s.tx.runTx(ctx, func(tx *gorm.DB) error {
		atual, err := s.produtos.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		atual.Nome = req.Nome
		atual.Descricao = req.Descricao
		atual.Preco = req.Preco
		atual.PrecoPromocional = req.PrecoPromocional
		atual.CustoUnitario = req.CustoUnitario
		atual.EstoqueMinimo = req.EstoqueMinimo
		atual.EstoqueMaximo = req.EstoqueMaximo
		atual.FornecedorID = req.FornecedorID
		atual.Categoria = req.Categoria
		atual.DataAtualizacao = s.ledger.now()
		p = atual
		return s.produtos.UpdateDadosTx(tx, atual)
	})
	if err != nil {
		return nil, boundary(ctx, "atualizar produto", err)
	}
	return produtoToResponse(p), nil
}

// validarProduto mirrors the CHECK rules of produtos with readable messages.
func validarProduto(preco decimal.Decimal, promocional *decimal.Decimal, minimo int, maximo *int) error {
	if preco.IsNegative() {
		return fmt.Errorf("%w: preço negativo", apierror.ErrConstraintViolation)
	}
	if promocional != nil && (promocional.IsNegative() || promocional.GreaterThan(preco)) {
		return fmt.Errorf("%w: preço promocional deve estar entre zero e o preço", apierror.ErrConstraintViolation)
	}
	if maximo != nil && *maximo < minimo {
		return fmt.Errorf("%w: estoque máximo menor que o mínimo", apierror.ErrConstraintViolation)
	}
	return nil
}

// ── Leitura ───────────────────────────────────────────────────────────────────

func (s *produtoService) Listar(ctx context.Context) ([]dto.ProdutoResponse, error) {
	produtos, err := s.produtos.List(ctx)
	if err != nil {
		return nil, boundary(ctx, "listar produtos", err)
	}
	out := make([]dto.ProdutoResponse, len(produtos))
	for i := range produtos {
		out[i] = *produtoToResponse(&produtos[i])
	}
	return out, nil
}

func (s *produtoService) ObterPorID(ctx context.Context, id int64) (*dto.ProdutoResponse, error) {
	p, err := s.produtos.FindByID(ctx, id)
	if err != nil {
		return nil, boundary(ctx, "obter produto", err)
	}
	return produtoToResponse(p), nil
}

func produtoToResponse(p *model.Produto) *dto.ProdutoResponse {
	return &dto.ProdutoResponse{
		ID:               p.ID,
		Nome:             p.Nome,
		Descricao:        p.Descricao,
		Preco:            p.Preco,
		PrecoPromocional: p.PrecoPromocional,
		CustoUnitario:    p.CustoUnitario,
		EstoqueAtual:     p.EstoqueAtual,
		EstoqueMinimo:    p.EstoqueMinimo,
		EstoqueMaximo:    p.EstoqueMaximo,
		FornecedorID:     p.FornecedorID,
		Categoria:        p.Categoria,
		DataCadastro:     p.DataCadastro,
		DataAtualizacao:  p.DataAtualizacao,
	}
}
