package service

import (
	"context"
	"fmt"
	"time"

	"sevensystem/internal/apierror"
	"sevensystem/internal/model"
	"sevensystem/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// logger returns the request-scoped logger stored in ctx, or the global one.
func logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}

// lancamento carries the descriptive fields of a ledger entry written by a
// stock rule.
type lancamento struct {
	motivo        string
	refID         *int64
	refTipo       string
	funcionarioID *int64
	observacoes   *string
}

// ledger writes a stock change and its ledger entry as one unit inside the
// caller's transaction. It never opens a transaction of its own.
type ledger struct {
	produtos repository.ProdutoRepository
	movs     repository.MovimentacaoRepository
	now      func() time.Time
}

func newLedger(produtos repository.ProdutoRepository, movs repository.MovimentacaoRepository) *ledger {
	return &ledger{produtos: produtos, movs: movs, now: func() time.Time { return time.Now().UTC() }}
}

// saidaTx decrements q units when the product can cover them and appends the
// SAIDA entry. When it cannot, neither the stock nor the ledger is touched and
// aplicado is false; disponivel is the stock seen inside the transaction.
func (l *ledger) saidaTx(ctx context.Context, tx *gorm.DB, produtoID int64, q int, lc lancamento) (aplicado bool, disponivel int, err error) {
	p, err := l.produtos.FindByIDTx(tx, produtoID)
	if err != nil {
		return false, 0, err
	}
	if p.EstoqueAtual < q {
		logger(ctx).Warn().
			Int64("produto_id", produtoID).
			Int("estoque_atual", p.EstoqueAtual).
			Int("quantidade", q).
			Str("motivo", lc.motivo).
			Msg("estoque insuficiente, baixa ignorada")
		return false, p.EstoqueAtual, nil
	}

	at := l.now()
	ok, err := l.produtos.DecrementEstoqueTx(tx, produtoID, q, at)
	if err != nil {
		return false, p.EstoqueAtual, err
	}
	if !ok {
		return false, p.EstoqueAtual, nil
	}

	mov := lc.entrada(produtoID, model.MovSaida, q, p.EstoqueAtual, p.EstoqueAtual-q, at)
	if err := l.appendTx(ctx, tx, mov); err != nil {
		return false, p.EstoqueAtual, err
	}
	return true, p.EstoqueAtual - q, nil
}

// devolucaoTx returns q units to stock and appends the DEVOLUCAO entry.
func (l *ledger) devolucaoTx(ctx context.Context, tx *gorm.DB, produtoID int64, q int, lc lancamento) error {
	p, err := l.produtos.FindByIDTx(tx, produtoID)
	if err != nil {
		return err
	}
	at := l.now()
	if err := l.produtos.IncrementEstoqueTx(tx, produtoID, q, at); err != nil {
		return err
	}
	mov := lc.entrada(produtoID, model.MovDevolucao, q, p.EstoqueAtual, p.EstoqueAtual+q, at)
	return l.appendTx(ctx, tx, mov)
}

// appendTx stores one entry. The caller is responsible for the matching
// stock update in the same transaction.
func (l *ledger) appendTx(ctx context.Context, tx *gorm.DB, mov *model.MovimentacaoEstoque) error {
	if mov.DataMovimentacao.IsZero() {
		mov.DataMovimentacao = l.now()
	}
	if err := l.movs.CreateTx(tx, mov); err != nil {
		return err
	}
	logger(ctx).Debug().
		Int64("produto_id", mov.ProdutoID).
		Str("tipo", mov.TipoMovimentacao).
		Int("quantidade", mov.Quantidade).
		Int("estoque_anterior", mov.EstoqueAnterior).
		Int("estoque_atual", mov.EstoqueAtual).
		Msg("movimentação registrada")
	return nil
}

func (lc lancamento) entrada(produtoID int64, tipo string, q, anterior, atual int, at time.Time) *model.MovimentacaoEstoque {
	mov := &model.MovimentacaoEstoque{
		ProdutoID:        produtoID,
		TipoMovimentacao: tipo,
		Quantidade:       q,
		EstoqueAnterior:  anterior,
		EstoqueAtual:     atual,
		ReferenciaID:     lc.refID,
		FuncionarioID:    lc.funcionarioID,
		DataMovimentacao: at,
		Observacoes:      lc.observacoes,
	}
	if lc.motivo != "" {
		mov.Motivo = strPtr(lc.motivo)
	}
	if lc.refTipo != "" {
		mov.ReferenciaTipo = strPtr(lc.refTipo)
	}
	return mov
}

// deltaAssinado is the stock effect of an entry. AJUSTE takes its sign from
// the snapshots and must move by exactly quantidade.
func deltaAssinado(mov *model.MovimentacaoEstoque) (int, error) {
	switch mov.TipoMovimentacao {
	case model.MovEntrada, model.MovDevolucao:
		return mov.Quantidade, nil
	case model.MovSaida, model.MovPerda:
		return -mov.Quantidade, nil
	case model.MovAjuste:
		if mov.EstoqueAtual >= mov.EstoqueAnterior {
			return mov.Quantidade, nil
		}
		return -mov.Quantidade, nil
	}
	return 0, fmt.Errorf("%w: tipo de movimentação %q inválido", apierror.ErrConstraintViolation, mov.TipoMovimentacao)
}

// validarAritmetica rejects entries whose snapshots do not reconcile with
// their type and quantity.
func validarAritmetica(mov *model.MovimentacaoEstoque) error {
	if mov.Quantidade < 0 {
		return fmt.Errorf("%w: quantidade negativa", apierror.ErrInvariantViolation)
	}
	delta, err := deltaAssinado(mov)
	if err != nil {
		return err
	}
	if mov.EstoqueAtual != mov.EstoqueAnterior+delta {
		return fmt.Errorf("%w: %d %+d != %d", apierror.ErrInvariantViolation,
			mov.EstoqueAnterior, delta, mov.EstoqueAtual)
	}
	return nil
}

// descricaoReferencia renders the polymorphic reference of an entry.
func descricaoReferencia(tipo *string, id *int64) string {
	if tipo == nil || *tipo == "" {
		return ""
	}
	if id == nil {
		return *tipo
	}
	switch *tipo {
	case model.RefVenda:
		return fmt.Sprintf("Venda #%d", *id)
	case model.RefCompra:
		return fmt.Sprintf("Compra #%d", *id)
	default:
		return fmt.Sprintf("%s #%d", *tipo, *id)
	}
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
