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

// VendaService drives the sale lifecycle. Every status change and item insert
// runs its stock rule inside the same transaction as the row it affects.
type VendaService interface {
	Criar(ctx context.Context, req dto.CriarVendaRequest) (*dto.VendaResponse, error)
	AlterarStatus(ctx context.Context, id int64, novoStatus string) (*dto.VendaResponse, error)
	AdicionarItem(ctx context.Context, vendaID int64, req dto.ItemVendaRequest) (*dto.VendaResponse, error)
	ObterPorID(ctx context.Context, id int64) (*dto.VendaResponse, error)
	Listar(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error)
}

type vendaService struct {
	tx      txRunner
	ledger  *ledger
	alertas *alertaNotifier
	repo    repository.VendaRepository
}

func NewVendaService(tx txRunner, l *ledger, alertas *alertaNotifier, repo repository.VendaRepository) VendaService {
	return &vendaService{tx: tx, ledger: l, alertas: alertas, repo: repo}
}

// efeitos collects what the stock rules did during one transaction.
type efeitos struct {
	semBaixa  []dto.ItemSemBaixa
	produtos  []int64
	aplicadas int
}

func (e *efeitos) saida(item model.ItemVenda, aplicado bool, disponivel int) {
	e.produtos = append(e.produtos, item.ProdutoID)
	if aplicado {
		e.aplicadas++
		return
	}
	e.semBaixa = append(e.semBaixa, dto.ItemSemBaixa{
		ProdutoID:         item.ProdutoID,
		Quantidade:        item.Quantidade,
		EstoqueDisponivel: disponivel,
	})
}

// ── Criar ─────────────────────────────────────────────────────────────────────
// Header and items are inserted first; then the insert rule of every item and
// the insert rule of the sale run against the complete item list.

func (s *vendaService) Criar(ctx context.Context, req dto.CriarVendaRequest) (*dto.VendaResponse, error) {
	status := req.Status
	if status == "" {
		status = model.StatusPendente
	}
	if !model.StatusValido(status) {
		return nil, fmt.Errorf("%w: status %q inválido", apierror.ErrConstraintViolation, status)
	}
	if len(req.Itens) == 0 {
		return nil, fmt.Errorf("%w: venda sem itens", apierror.ErrConstraintViolation)
	}

	itens := make([]model.ItemVenda, len(req.Itens))
	soma := decimal.Zero
	for i, it := range req.Itens {
		item, err := novoItem(it)
		if err != nil {
			return nil, err
		}
		itens[i] = item
		soma = soma.Add(item.Subtotal)
	}
	total := soma.Sub(req.Desconto)
	if req.Desconto.IsNegative() || total.IsNegative() {
		return nil, fmt.Errorf("%w: desconto maior que o valor da venda", apierror.ErrConstraintViolation)
	}

	venda := &model.Venda{
		ClienteID:     req.ClienteID,
		FuncionarioID: req.FuncionarioID,
		Desconto:      req.Desconto,
		Status:        status,
		Total:         total,
		DataVenda:     s.ledger.now(),
	}

	var ef efeitos
	err := s.tx.runTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, venda); err != nil {
			return err
		}
		for i := range itens {
			itens[i].VendaID = venda.ID
			if err := s.repo.CreateItemTx(tx, &itens[i]); err != nil {
				return err
			}
			if err := s.aoInserirItemTx(ctx, tx, *venda, itens[i], &ef); err != nil {
				return err
			}
		}
		return s.aoInserirVendaTx(ctx, tx, *venda, itens, &ef)
	})
	if err != nil {
		return nil, boundary(ctx, "criar venda", err)
	}

	logger(ctx).Info().Int64("venda_id", venda.ID).Str("status", status).
		Int("baixas", ef.aplicadas).Int("sem_baixa", len(ef.semBaixa)).Msg("venda registrada")
	return s.concluir(ctx, venda.ID, &ef)
}

func novoItem(it dto.ItemVendaRequest) (model.ItemVenda, error) {
	if it.Quantidade <= 0 {
		return model.ItemVenda{}, fmt.Errorf("%w: quantidade deve ser positiva", apierror.ErrConstraintViolation)
	}
	subtotal := it.PrecoUnitario.Mul(decimal.NewFromInt(int64(it.Quantidade))).Sub(it.Desconto)
	if it.PrecoUnitario.IsNegative() || it.Desconto.IsNegative() || subtotal.IsNegative() {
		return model.ItemVenda{}, fmt.Errorf("%w: item do produto %d com valores inválidos", apierror.ErrConstraintViolation, it.ProdutoID)
	}
	return model.ItemVenda{
		ProdutoID:     it.ProdutoID,
		Quantidade:    it.Quantidade,
		Desconto:      it.Desconto,
		PrecoUnitario: it.PrecoUnitario,
		Subtotal:      subtotal,
	}, nil
}

// ── AlterarStatus ─────────────────────────────────────────────────────────────

func (s *vendaService) AlterarStatus(ctx context.Context, id int64, novoStatus string) (*dto.VendaResponse, error) {
	if !model.StatusValido(novoStatus) {
		return nil, fmt.Errorf("%w: status %q inválido", apierror.ErrConstraintViolation, novoStatus)
	}

	var ef efeitos
	err := s.tx.runTx(ctx, func(tx *gorm.DB) error {
		antes, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		if antes.Status == novoStatus {
			return nil
		}
		if err := s.repo.UpdateStatusTx(tx, id, novoStatus); err != nil {
			return err
		}
		depois := *antes
		depois.Status = novoStatus
		return s.aoAlterarStatusTx(ctx, tx, *antes, depois, &ef)
	})
	if err != nil {
		return nil, boundary(ctx, "alterar status da venda", err)
	}
	return s.concluir(ctx, id, &ef)
}

// ── AdicionarItem ─────────────────────────────────────────────────────────────

func (s *vendaService) AdicionarItem(ctx context.Context, vendaID int64, req dto.ItemVendaRequest) (*dto.VendaResponse, error) {
	item, err := novoItem(req)
	if err != nil {
		return nil, err
	}

	var ef efeitos
	err = s.tx.runTx(ctx, func(tx *gorm.DB) error {
		venda, err := s.repo.FindByIDTx(tx, vendaID)
		if err != nil {
			return err
		}
		item.VendaID = venda.ID
		if err := s.repo.CreateItemTx(tx, &item); err != nil {
			return err
		}
		if err := s.repo.UpdateTotalTx(tx, venda.ID, venda.Total.Add(item.Subtotal)); err != nil {
			return err
		}
		return s.aoInserirItemTx(ctx, tx, *venda, item, &ef)
	})
	if err != nil {
		return nil, boundary(ctx, "adicionar item", err)
	}
	return s.concluir(ctx, vendaID, &ef)
}

// ── Stock rules ───────────────────────────────────────────────────────────────
// Each rule receives the row images it depends on and checks its own guard.

// aoInserirItemTx: an item inserted into a Concluída sale is taken from stock
// at once.
func (s *vendaService) aoInserirItemTx(ctx context.Context, tx *gorm.DB, venda model.Venda, item model.ItemVenda, ef *efeitos) error {
	if venda.Status != model.StatusConcluida {
		return nil
	}
	lc := lancamento{
		motivo:        "Venda de produto",
		refID:         int64Ptr(venda.ID),
		refTipo:       model.RefVenda,
		funcionarioID: int64Ptr(venda.FuncionarioID),
	}
	aplicado, disponivel, err := s.ledger.saidaTx(ctx, tx, item.ProdutoID, item.Quantidade, lc)
	if err != nil {
		return err
	}
	ef.saida(item, aplicado, disponivel)
	return nil
}

// aoInserirVendaTx: a sale created as Pendente reserves the stock of its items.
func (s *vendaService) aoInserirVendaTx(ctx context.Context, tx *gorm.DB, nova model.Venda, itens []model.ItemVenda, ef *efeitos) error {
	if nova.Status != model.StatusPendente {
		return nil
	}
	lc := lancamento{
		motivo:        "Venda pendente",
		refID:         int64Ptr(nova.ID),
		refTipo:       model.RefVenda,
		funcionarioID: int64Ptr(nova.FuncionarioID),
	}
	for _, item := range itens {
		aplicado, disponivel, err := s.ledger.saidaTx(ctx, tx, item.ProdutoID, item.Quantidade, lc)
		if err != nil {
			return err
		}
		ef.saida(item, aplicado, disponivel)
	}
	return nil
}

// aoAlterarStatusTx applies the transition table. Pairs without a rule
// (Pendente→Cancelada, Concluída→Pendente, Cancelada→Concluída) only change
// the status. Replaying a transition applies its effect again.
func (s *vendaService) aoAlterarStatusTx(ctx context.Context, tx *gorm.DB, antes, depois model.Venda, ef *efeitos) error {
	if antes.Status == depois.Status {
		return nil
	}

	var (
		motivo    string
		devolucao bool
	)
	switch {
	case antes.Status == model.StatusPendente && depois.Status == model.StatusConcluida:
		motivo = "Venda concluída"
	case antes.Status == model.StatusConcluida && depois.Status == model.StatusCancelada:
		motivo, devolucao = "Venda cancelada", true
	case antes.Status == model.StatusCancelada && depois.Status == model.StatusPendente:
		motivo = "Reativação de venda"
	default:
		return nil
	}

	lc := lancamento{
		motivo:        motivo,
		refID:         int64Ptr(depois.ID),
		refTipo:       model.RefVenda,
		funcionarioID: int64Ptr(depois.FuncionarioID),
		observacoes:   strPtr(fmt.Sprintf("Status alterado de %s para %s", antes.Status, depois.Status)),
	}
	for _, item := range antes.Itens {
		if devolucao {
			if err := s.ledger.devolucaoTx(ctx, tx, item.ProdutoID, item.Quantidade, lc); err != nil {
				return err
			}
			ef.produtos = append(ef.produtos, item.ProdutoID)
			continue
		}
		aplicado, disponivel, err := s.ledger.saidaTx(ctx, tx, item.ProdutoID, item.Quantidade, lc)
		if err != nil {
			return err
		}
		ef.saida(item, aplicado, disponivel)
	}
	return nil
}

// concluir runs the post-commit steps and builds the response.
func (s *vendaService) concluir(ctx context.Context, id int64, ef *efeitos) (*dto.VendaResponse, error) {
	s.alertas.afterCommit(ctx, ef.produtos...)

	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, boundary(ctx, "obter venda", err)
	}
	resp := vendaToResponse(v)
	if len(ef.semBaixa) > 0 {
		resp.ItensSemBaixa = ef.semBaixa
	}
	return resp, nil
}

// ── Leitura ───────────────────────────────────────────────────────────────────

func (s *vendaService) ObterPorID(ctx context.Context, id int64) (*dto.VendaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, boundary(ctx, "obter venda", err)
	}
	return vendaToResponse(v), nil
}

func (s *vendaService) Listar(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error) {
	vendas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, boundary(ctx, "listar vendas", err)
	}
	data := make([]dto.VendaResponse, len(vendas))
	for i := range vendas {
		data[i] = *vendaToResponse(&vendas[i])
	}
	return &dto.VendaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func vendaToResponse(v *model.Venda) *dto.VendaResponse {
	resp := &dto.VendaResponse{
		ID:            v.ID,
		ClienteID:     v.ClienteID,
		FuncionarioID: v.FuncionarioID,
		Desconto:      v.Desconto,
		Status:        v.Status,
		Total:         v.Total,
		DataVenda:     v.DataVenda,
		Itens:         make([]dto.ItemVendaResponse, len(v.Itens)),
		ItensSemBaixa: []dto.ItemSemBaixa{},
	}
	for i, it := range v.Itens {
		resp.Itens[i] = dto.ItemVendaResponse{
			ID:            it.ID,
			ProdutoID:     it.ProdutoID,
			Quantidade:    it.Quantidade,
			PrecoUnitario: it.PrecoUnitario,
			Desconto:      it.Desconto,
			Subtotal:      it.Subtotal,
		}
		if it.Produto != nil {
			resp.Itens[i].ProdutoNome = it.Produto.Nome
		}
	}
	return resp
}
