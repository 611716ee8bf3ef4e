package service

import (
	"context"
	"testing"

	"sevensystem/internal/apierror"
	"sevensystem/internal/dto"
	"sevensystem/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriarVenda_PendenteReservaEstoque(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.produto(t, "Caneta", 10)

	v, err := f.tenant.Vendas.Criar(ctx, f.venda("", item(pid, 3)))
	require.NoError(t, err)

	assert.Equal(t, model.StatusPendente, v.Status)
	assert.True(t, v.Total.Equal(decimal.NewFromInt(30)))
	assert.Empty(t, v.ItensSemBaixa)
	require.Len(t, v.Itens, 1)
	assert.Equal(t, "Caneta", v.Itens[0].ProdutoNome)

	assert.Equal(t, 7, f.estoque(t, pid))
	movs := f.movimentacoes(t, pid)
	require.Len(t, movs, 2)
	saida := movs[1]
	assert.Equal(t, model.MovSaida, saida.TipoMovimentacao)
	assert.Equal(t, 3, saida.Quantidade)
	assert.Equal(t, 10, saida.EstoqueAnterior)
	assert.Equal(t, 7, saida.EstoqueAtual)
	assert.Equal(t, "Venda pendente", *saida.Motivo)
	assert.Equal(t, model.RefVenda, *saida.ReferenciaTipo)
	assert.Equal(t, v.ID, *saida.ReferenciaID)
	assert.Equal(t, f.funcionarioID, *saida.FuncionarioID)
	f.requireConciliado(t, pid)
}

func TestCriarVenda_ConcluidaBaixaPorItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.produto(t, "Caderno", 5)
	b := f.produto(t, "Lápis", 8)

	_, err := f.tenant.Vendas.Criar(ctx, f.venda(model.StatusConcluida, item(a, 2), item(b, 8)))
	require.NoError(t, err)

	assert.Equal(t, 3, f.estoque(t, a))
	assert.Equal(t, 0, f.estoque(t, b))
	movs := f.movimentacoes(t, b)
	require.Len(t, movs, 2)
	assert.Equal(t, "Venda de produto", *movs[1].Motivo)
	f.requireConciliado(t, a)
	f.requireConciliado(t, b)
}

func TestCriarVenda_CanceladaNaoMexeNoEstoque(t *testing.T) {
	f := newFixture(t)
	pid := f.produto(t, "Borracha", 4)

	_, err := f.tenant.Vendas.Criar(context.Background(), f.venda(model.StatusCancelada, item(pid, 2)))
	require.NoError(t, err)

	assert.Equal(t, 4, f.estoque(t, pid))
	assert.Len(t, f.movimentacoes(t, pid), 1)
}

func TestCriarVenda_EstoqueInsuficienteIgnoraBaixa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pouco := f.produto(t, "Grampeador", 2)
	muito := f.produto(t, "Clips", 50)

	v, err := f.tenant.Vendas.Criar(ctx, f.venda("", item(pouco, 5), item(muito, 5)))
	require.NoError(t, err)

	// the item row exists even though its stock was not reserved
	require.Len(t, v.Itens, 2)
	require.Len(t, v.ItensSemBaixa, 1)
	assert.Equal(t, dto.ItemSemBaixa{ProdutoID: pouco, Quantidade: 5, EstoqueDisponivel: 2}, v.ItensSemBaixa[0])

	assert.Equal(t, 2, f.estoque(t, pouco))
	assert.Len(t, f.movimentacoes(t, pouco), 1)
	assert.Equal(t, 45, f.estoque(t, muito))
	f.requireConciliado(t, pouco)
	f.requireConciliado(t, muito)
}

func TestCriarVenda_Validacao(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.produto(t, "Régua", 3)

	_, err := f.tenant.Vendas.Criar(ctx, f.venda("Aberta", item(pid, 1)))
	assert.ErrorIs(t, err, apierror.ErrConstraintViolation)

	_, err = f.tenant.Vendas.Criar(ctx, f.venda(""))
	assert.ErrorIs(t, err, apierror.ErrConstraintViolation)

	req := f.venda("", item(pid, 1))
	req.Desconto = decimal.NewFromInt(11)
	_, err = f.tenant.Vendas.Criar(ctx, req)
	assert.ErrorIs(t, err, apierror.ErrConstraintViolation)

	// unknown product rolls the whole sale back
	_, err = f.tenant.Vendas.Criar(ctx, f.venda("", item(pid, 1), item(999, 1)))
	assert.ErrorIs(t, err, apierror.ErrConstraintViolation)
	assert.Equal(t, 3, f.estoque(t, pid))
	var vendas int64
	require.NoError(t, f.db.Model(&model.Venda{}).Count(&vendas).Error)
	assert.Zero(t, vendas)
}

func TestAlterarStatus_CicloCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.produto(t, "Caneta", 10)

	v, err := f.tenant.Vendas.Criar(ctx, f.venda("", item(pid, 3)))
	require.NoError(t, err)
	require.Equal(t, 7, f.estoque(t, pid))

	// Pendente -> Concluída consumes the stock a second time
	v, err = f.tenant.Vendas.AlterarStatus(ctx, v.ID, model.StatusConcluida)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConcluida, v.Status)
	assert.Equal(t, 4, f.estoque(t, pid))
	movs := f.movimentacoes(t, pid)
	require.Len(t, movs, 3)
	assert.Equal(t, model.MovSaida, movs[2].TipoMovimentacao)
	assert.Equal(t, "Venda concluída", *movs[2].Motivo)
	assert.Equal(t, "Status alterado de Pendente para Concluída", *movs[2].Observacoes)

	// Concluída -> Cancelada returns the item quantity
	_, err = f.tenant.Vendas.AlterarStatus(ctx, v.ID, model.StatusCancelada)
	require.NoError(t, err)
	assert.Equal(t, 7, f.estoque(t, pid))
	movs = f.movimentacoes(t, pid)
	require.Len(t, movs, 4)
	assert.Equal(t, model.MovDevolucao, movs[3].TipoMovimentacao)
	assert.Equal(t, 4, movs[3].EstoqueAnterior)
	assert.Equal(t, 7, movs[3].EstoqueAtual)
	assert.Equal(t, "Venda cancelada", *movs[3].Motivo)

	// Cancelada -> Pendente reserves again
	_, err = f.tenant.Vendas.AlterarStatus(ctx, v.ID, model.StatusPendente)
	require.NoError(t, err)
	assert.Equal(t, 4, f.estoque(t, pid))
	movs = f.movimentacoes(t, pid)
	require.Len(t, movs, 5)
	assert.Equal(t, "Reativação de venda", *movs[4].Motivo)

	f.requireConciliado(t, pid)
}

func TestAlterarStatus_TransicoesSemEfeito(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.produto(t, "Pasta", 10)

	v, err := f.tenant.Vendas.Criar(ctx, f.venda("", item(pid, 2)))
	require.NoError(t, err)

	for _, status := range []string{
		model.StatusPendente,  // same status
		model.StatusCancelada, // Pendente -> Cancelada
		model.StatusConcluida, // Cancelada -> Concluída
		model.StatusPendente,  // Concluída -> Pendente
	} {
		_, err := f.tenant.Vendas.AlterarStatus(ctx, v.ID, status)
		require.NoError(t, err, status)
		assert.Equal(t, 8, f.estoque(t, pid), status)
	}
	assert.Len(t, f.movimentacoes(t, pid), 2)
}

func TestAlterarStatus_ReplayNaoDeduplica(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.produto(t, "Envelope", 20)

	v, err := f.tenant.Vendas.Criar(ctx, f.venda("", item(pid, 3)))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = f.tenant.Vendas.AlterarStatus(ctx, v.ID, model.StatusConcluida)
		require.NoError(t, err)
		_, err = f.tenant.Vendas.AlterarStatus(ctx, v.ID, model.StatusPendente)
		require.NoError(t, err)
	}

	// reservation plus two completions
	assert.Equal(t, 11, f.estoque(t, pid))
	concluidas := 0
	for _, m := range f.movimentacoes(t, pid) {
		if m.Motivo != nil && *m.Motivo == "Venda concluída" {
			assert.Equal(t, model.MovSaida, m.TipoMovimentacao)
			concluidas++
		}
	}
	assert.Equal(t, 2, concluidas)
	f.requireConciliado(t, pid)
}

func TestAlterarStatus_Erros(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tenant.Vendas.AlterarStatus(ctx, 42, model.StatusConcluida)
	assert.ErrorIs(t, err, apierror.ErrNotFound)

	_, err = f.tenant.Vendas.AlterarStatus(ctx, 42, "Faturada")
	assert.ErrorIs(t, err, apierror.ErrConstraintViolation)
}

func TestAdicionarItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.produto(t, "Tesoura", 10)
	b := f.produto(t, "Cola", 6)

	pendente, err := f.tenant.Vendas.Criar(ctx, f.venda("", item(a, 1)))
	require.NoError(t, err)
	v, err := f.tenant.Vendas.AdicionarItem(ctx, pendente.ID, item(b, 2))
	require.NoError(t, err)

	// items added to a pending sale are not reserved
	assert.Equal(t, 6, f.estoque(t, b))
	assert.Len(t, v.Itens, 2)
	assert.True(t, v.Total.Equal(decimal.NewFromInt(30)))

	concluida, err := f.tenant.Vendas.Criar(ctx, f.venda(model.StatusConcluida, item(a, 1)))
	require.NoError(t, err)
	v, err = f.tenant.Vendas.AdicionarItem(ctx, concluida.ID, item(b, 4))
	require.NoError(t, err)
	assert.Equal(t, 2, f.estoque(t, b))
	assert.Empty(t, v.ItensSemBaixa)

	v, err = f.tenant.Vendas.AdicionarItem(ctx, concluida.ID, item(b, 5))
	require.NoError(t, err)
	require.Len(t, v.ItensSemBaixa, 1)
	assert.Equal(t, 2, v.ItensSemBaixa[0].EstoqueDisponivel)
	assert.Equal(t, 2, f.estoque(t, b))

	_, err = f.tenant.Vendas.AdicionarItem(ctx, 999, item(b, 1))
	assert.ErrorIs(t, err, apierror.ErrNotFound)

	f.requireConciliado(t, a)
	f.requireConciliado(t, b)
}

func TestListarVendas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.produto(t, "Mochila", 10)

	_, err := f.tenant.Vendas.Criar(ctx, f.venda("", item(pid, 1)))
	require.NoError(t, err)
	_, err = f.tenant.Vendas.Criar(ctx, f.venda(model.StatusConcluida, item(pid, 1)))
	require.NoError(t, err)

	all, err := f.tenant.Vendas.Listar(ctx, dto.VendaFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	concluidas, err := f.tenant.Vendas.Listar(ctx, dto.VendaFilter{Status: model.StatusConcluida, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, concluidas.Total)
	assert.Equal(t, model.StatusConcluida, concluidas.Data[0].Status)
}
