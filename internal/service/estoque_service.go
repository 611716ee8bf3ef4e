package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sevensystem/internal/apierror"
	"sevensystem/internal/dto"
	"sevensystem/internal/model"
	"sevensystem/internal/repository"

	"gorm.io/gorm"
)

// EstoqueService is the movement ledger and its read-side projections.
type EstoqueService interface {
	// RegistrarMovimentacao appends a manual entry and moves the product stock to
	// its estoque_atual snapshot.
	RegistrarMovimentacao(ctx context.Context, req dto.MovimentacaoRequest) (*dto.MovimentacaoResponse, error)
	AjustarEstoque(ctx context.Context, produtoID int64, req dto.AjusteEstoqueRequest) (*dto.MovimentacaoResponse, error)
	ListarMovimentacoes(ctx context.Context, filter dto.MovimentacaoFilter) (*dto.MovimentacaoListResponse, error)
	// AtualizarMovimentacao overwrites a stored entry without touching product stock.
	AtualizarMovimentacao(ctx context.Context, id int64, req dto.MovimentacaoRequest) (bool, error)
	Conciliar(ctx context.Context, produtoID int64) (*dto.ConciliacaoResponse, error)
	Alertas(ctx context.Context) ([]dto.AlertaEstoqueResponse, error)
	ListarProdutos(ctx context.Context) ([]dto.IDNome, error)
	ListarFuncionarios(ctx context.Context) ([]dto.IDNome, error)
}

type estoqueService struct {
	tx        txRunner
	ledger    *ledger
	alertas   *alertaNotifier
	produtos  repository.ProdutoRepository
	movs      repository.MovimentacaoRepository
	cadastros repository.CadastroRepository
}

func NewEstoqueService(
	tx txRunner,
	l *ledger,
	alertas *alertaNotifier,
	produtos repository.ProdutoRepository,
	movs repository.MovimentacaoRepository,
	cadastros repository.CadastroRepository,
) EstoqueService {
	return &estoqueService{
		tx:        tx,
		ledger:    l,
		alertas:   alertas,
		produtos:  produtos,
		movs:      movs,
		cadastros: cadastros,
	}
}

func movimentacaoFromRequest(req dto.MovimentacaoRequest) *model.MovimentacaoEstoque {
	return &model.MovimentacaoEstoque{
		ProdutoID:        req.ProdutoID,
		TipoMovimentacao: req.TipoMovimentacao,
		Quantidade:       req.Quantidade,
		EstoqueAnterior:  req.EstoqueAnterior,
		EstoqueAtual:     req.EstoqueAtual,
		Motivo:           req.Motivo,
		ReferenciaID:     req.ReferenciaID,
		ReferenciaTipo:   req.ReferenciaTipo,
		FuncionarioID:    req.FuncionarioID,
		Observacoes:      req.Observacoes,
	}
}

// ── RegistrarMovimentacao (Append) ────────────────────────────────────────────
// One transaction: product lookup, snapshot check, entry insert, stock update.

func (s *estoqueService) RegistrarMovimentacao(ctx context.Context, req dto.MovimentacaoRequest) (*dto.MovimentacaoResponse, error) {
	mov := movimentacaoFromRequest(req)
	if err := validarAritmetica(mov); err != nil {
		return nil, err
	}
	if mov.EstoqueAtual < 0 {
		return nil, fmt.Errorf("%w: estoque não pode ficar negativo", apierror.ErrConstraintViolation)
	}

	var produto *model.Produto
	err := s.tx.runTx(ctx, func(tx *gorm.DB) error {
		p, err := s.produtos.FindByIDTx(tx, mov.ProdutoID)
		if err != nil {
			return err
		}
		if p.EstoqueAtual != mov.EstoqueAnterior {
			return fmt.Errorf("%w: estoque_anterior %d difere do estoque atual %d do produto %d",
				apierror.ErrInvariantViolation, mov.EstoqueAnterior, p.EstoqueAtual, p.ID)
		}
		if err := s.ledger.appendTx(ctx, tx, mov); err != nil {
			return err
		}
		produto = p
		return s.produtos.SetEstoqueTx(tx, p.ID, mov.EstoqueAtual, mov.DataMovimentacao)
	})
	if err != nil {
		return nil, boundary(ctx, "registrar movimentação", err)
	}

	s.alertas.afterCommit(ctx, mov.ProdutoID)
	return s.toResponse(ctx, mov, produto.Nome), nil
}

// ── AjustarEstoque ────────────────────────────────────────────────────────────

func (s *estoqueService) AjustarEstoque(ctx context.Context, produtoID int64, req dto.AjusteEstoqueRequest) (*dto.MovimentacaoResponse, error) {
	if req.NovoEstoque == nil || *req.NovoEstoque < 0 {
		return nil, fmt.Errorf("%w: estoque não pode ficar negativo", apierror.ErrConstraintViolation)
	}
	novo := *req.NovoEstoque

	var (
		mov     *model.MovimentacaoEstoque
		produto *model.Produto
	)
	err := s.tx.runTx(ctx, func(tx *gorm.DB) error {
		p, err := s.produtos.FindByIDTx(tx, produtoID)
		if err != nil {
			return err
		}
		if p.EstoqueAtual == novo {
			return fmt.Errorf("%w: produto %d já possui estoque %d", apierror.ErrInvariantViolation, p.ID, novo)
		}
		q := novo - p.EstoqueAtual
		if q < 0 {
			q = -q
		}
		lc := lancamento{motivo: req.Motivo, funcionarioID: req.FuncionarioID, observacoes: req.Observacoes}
		mov = lc.entrada(p.ID, model.MovAjuste, q, p.EstoqueAtual, novo, s.ledger.now())
		if err := s.ledger.appendTx(ctx, tx, mov); err != nil {
			return err
		}
		produto = p
		return s.produtos.SetEstoqueTx(tx, p.ID, novo, mov.DataMovimentacao)
	})
	if err != nil {
		return nil, boundary(ctx, "ajustar estoque", err)
	}

	s.alertas.afterCommit(ctx, produtoID)
	return s.toResponse(ctx, mov, produto.Nome), nil
}

// ── ListarMovimentacoes ───────────────────────────────────────────────────────

func (s *estoqueService) ListarMovimentacoes(ctx context.Context, filter dto.MovimentacaoFilter) (*dto.MovimentacaoListResponse, error) {
	f := repository.MovimentacaoFilter{
		ProdutoID:      filter.ProdutoID,
		Tipo:           filter.Tipo,
		ReferenciaTipo: filter.ReferenciaTipo,
		Desde:          filter.Desde,
		Page:           filter.Page,
		Limit:          filter.Limit,
	}
	if filter.Ate != nil {
		// inclusive day in the request, exclusive bound in storage
		ate := filter.Ate.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
		f.Ate = &ate
	}

	rows, total, err := s.movs.List(ctx, f)
	if err != nil {
		return nil, boundary(ctx, "listar movimentações", err)
	}

	data := make([]dto.MovimentacaoResponse, len(rows))
	for i, r := range rows {
		data[i] = rowToResponse(r)
	}
	return &dto.MovimentacaoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func rowToResponse(r repository.MovimentacaoRow) dto.MovimentacaoResponse {
	resp := dto.MovimentacaoResponse{
		ID:                  r.ID,
		ProdutoID:           r.ProdutoID,
		TipoMovimentacao:    r.TipoMovimentacao,
		Quantidade:          r.Quantidade,
		EstoqueAnterior:     r.EstoqueAnterior,
		EstoqueAtual:        r.EstoqueAtual,
		Motivo:              r.Motivo,
		ReferenciaID:        r.ReferenciaID,
		ReferenciaTipo:      r.ReferenciaTipo,
		ReferenciaDescricao: descricaoReferencia(r.ReferenciaTipo, r.ReferenciaID),
		FuncionarioID:       r.FuncionarioID,
		FuncionarioNome:     nomeFuncionario(r.FuncionarioNome),
		DataMovimentacao:    r.DataMovimentacao,
		Observacoes:         r.Observacoes,
	}
	if r.ProdutoNome != nil {
		resp.ProdutoNome = *r.ProdutoNome
	}
	return resp
}

// nomeFuncionario labels entries written without an employee.
func nomeFuncionario(nome *string) string {
	if nome == nil {
		return "Sistema"
	}
	return *nome
}

func (s *estoqueService) toResponse(ctx context.Context, mov *model.MovimentacaoEstoque, produtoNome string) *dto.MovimentacaoResponse {
	var funcionario *string
	if mov.FuncionarioID != nil {
		if f, err := s.cadastros.FindFuncionario(ctx, *mov.FuncionarioID); err == nil {
			funcionario = &f.Nome
		}
	}
	return &dto.MovimentacaoResponse{
		ID:                  mov.ID,
		ProdutoID:           mov.ProdutoID,
		ProdutoNome:         produtoNome,
		TipoMovimentacao:    mov.TipoMovimentacao,
		Quantidade:          mov.Quantidade,
		EstoqueAnterior:     mov.EstoqueAnterior,
		EstoqueAtual:        mov.EstoqueAtual,
		Motivo:              mov.Motivo,
		ReferenciaID:        mov.ReferenciaID,
		ReferenciaTipo:      mov.ReferenciaTipo,
		ReferenciaDescricao: descricaoReferencia(mov.ReferenciaTipo, mov.ReferenciaID),
		FuncionarioID:       mov.FuncionarioID,
		FuncionarioNome:     nomeFuncionario(funcionario),
		DataMovimentacao:    mov.DataMovimentacao,
		Observacoes:         mov.Observacoes,
	}
}

// ── AtualizarMovimentacao (administrative update) ─────────────────────────────
// Correction tool: the stored row is replaced as given. Product stock and the
// other entries are left alone, so no stock rule runs here.

func (s *estoqueService) AtualizarMovimentacao(ctx context.Context, id int64, req dto.MovimentacaoRequest) (bool, error) {
	mov := movimentacaoFromRequest(req)
	if !model.TipoValido(mov.TipoMovimentacao) {
		return false, fmt.Errorf("%w: tipo de movimentação %q inválido", apierror.ErrConstraintViolation, mov.TipoMovimentacao)
	}
	ok, err := s.movs.Overwrite(ctx, id, mov)
	if err != nil {
		return false, boundary(ctx, "atualizar movimentação", err)
	}
	return ok, nil
}

// ── Conciliar ─────────────────────────────────────────────────────────────────

func (s *estoqueService) Conciliar(ctx context.Context, produtoID int64) (*dto.ConciliacaoResponse, error) {
	p, err := s.produtos.FindByID(ctx, produtoID)
	if err != nil {
		return nil, boundary(ctx, "conciliar estoque", err)
	}
	c, err := s.movs.Conciliar(ctx, produtoID)
	if err != nil {
		return nil, boundary(ctx, "conciliar estoque", err)
	}
	return &dto.ConciliacaoResponse{
		ProdutoID:         p.ID,
		EstoqueAtual:      p.EstoqueAtual,
		SomaMovimentacoes: c.Soma,
		Movimentacoes:     c.Total,
		Consistente:       c.Soma == p.EstoqueAtual,
	}, nil
}

// ── Query façade ──────────────────────────────────────────────────────────────

func (s *estoqueService) Alertas(ctx context.Context) ([]dto.AlertaEstoqueResponse, error) {
	produtos, err := s.produtos.ListAbaixoMinimo(ctx, nil)
	if err != nil {
		return nil, boundary(ctx, "listar alertas", err)
	}
	out := make([]dto.AlertaEstoqueResponse, len(produtos))
	for i, p := range produtos {
		out[i] = dto.AlertaEstoqueResponse{
			ProdutoID:     p.ID,
			Nome:          p.Nome,
			EstoqueAtual:  p.EstoqueAtual,
			EstoqueMinimo: p.EstoqueMinimo,
		}
	}
	return out, nil
}

func (s *estoqueService) ListarProdutos(ctx context.Context) ([]dto.IDNome, error) {
	out, err := s.produtos.ListIDNome(ctx)
	return out, boundary(ctx, "listar produtos", err)
}

func (s *estoqueService) ListarFuncionarios(ctx context.Context) ([]dto.IDNome, error) {
	out, err := s.cadastros.ListFuncionariosIDNome(ctx)
	return out, boundary(ctx, "listar funcionários", err)
}

// boundary logs errors outside the domain taxonomy once and hides them behind
// a generic operation error. Taxonomy errors pass through unchanged.
func boundary(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	logger(ctx).Error().Err(err).Str("op", op).Msg("erro de armazenamento")
	return fmt.Errorf("%s: falha de armazenamento", op)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		apierror.ErrConstraintViolation,
		apierror.ErrNotFound,
		apierror.ErrInvariantViolation,
		apierror.ErrInsufficientStock,
		apierror.ErrInvalidCredentials,
		apierror.ErrWeakPassword,
		apierror.ErrPasswordMismatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
