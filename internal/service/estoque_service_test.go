package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"sevensystem/internal/apierror"
	"sevensystem/internal/dto"
	"sevensystem/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movReq(produtoID int64, tipo string, q, anterior, atual int) dto.MovimentacaoRequest {
	return dto.MovimentacaoRequest{
		ProdutoID:        produtoID,
		TipoMovimentacao: tipo,
		Quantidade:       q,
		EstoqueAnterior:  anterior,
		EstoqueAtual:     atual,
	}
}

func TestRegistrarMovimentacao(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.produto(t, "Caneta", 5)

	resp, err := f.tenant.Estoque.RegistrarMovimentacao(ctx, movReq(pid, model.MovEntrada, 3, 5, 8))
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Caneta", resp.ProdutoNome)
	assert.Equal(t, "Sistema", resp.FuncionarioNome)
	assert.Equal(t, 8, f.estoque(t, pid))

	req := movReq(pid, model.MovPerda, 2, 8, 6)
	req.FuncionarioID = &f.funcionarioID
	req.Motivo = strPtr("Avaria")
	resp, err = f.tenant.Estoque.RegistrarMovimentacao(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", resp.FuncionarioNome)
	assert.Equal(t, 6, f.estoque(t, pid))

	// AJUSTE carries its direction in the snapshots
	_, err = f.tenant.Estoque.RegistrarMovimentacao(ctx, movReq(pid, model.MovAjuste, 4, 6, 2))
	require.NoError(t, err)
	_, err = f.tenant.Estoque.RegistrarMovimentacao(ctx, movReq(pid, model.MovDevolucao, 1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, f.estoque(t, pid))

	f.requireConciliado(t, pid)
}

func TestRegistrarMovimentacao_Rejeicoes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.produto(t, "Caneta", 5)

	tests := []struct {
		name string
		req  dto.MovimentacaoRequest
		want error
	}{
		{"aritmética inconsistente", movReq(pid, model.MovEntrada, 3, 5, 9), apierror.ErrInvariantViolation},
		{"saída somando", movReq(pid, model.MovSaida, 2, 5, 7), apierror.ErrInvariantViolation},
		{"quantidade negativa", movReq(pid, model.MovEntrada, -1, 5, 4), apierror.ErrInvariantViolation},
		{"ajuste com quantidade errada", movReq(pid, model.MovAjuste, 1, 5, 8), apierror.ErrInvariantViolation},
		{"tipo inválido", movReq(pid, "TRANSFERENCIA", 1, 5, 4), apierror.ErrConstraintViolation},
		{"estoque negativo", movReq(pid, model.MovPerda, 6, 5, -1), apierror.ErrConstraintViolation},
		{"snapshot desatualizado", movReq(pid, model.MovEntrada, 1, 4, 5), apierror.ErrInvariantViolation},
		{"produto inexistente", movReq(999, model.MovEntrada, 1, 0, 1), apierror.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tenant.Estoque.RegistrarMovimentacao(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Equal(t, 5, f.estoque(t, pid))
	assert.Len(t, f.movimentacoes(t, pid), 1)
}

func TestAjustarEstoque(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.produto(t, "Caderno", 5)

	novo := 9
	resp, err := f.tenant.Estoque.AjustarEstoque(ctx, pid, dto.AjusteEstoqueRequest{NovoEstoque: &novo, Motivo: "Inventário"})
	require.NoError(t, err)
	assert.Equal(t, model.MovAjuste, resp.TipoMovimentacao)
	assert.Equal(t, 4, resp.Quantidade)
	assert.Equal(t, 5, resp.EstoqueAnterior)
	assert.Equal(t, 9, resp.EstoqueAtual)
	assert.Equal(t, 9, f.estoque(t, pid))

	novo = 1
	resp, err = f.tenant.Estoque.AjustarEstoque(ctx, pid, dto.AjusteEstoqueRequest{NovoEstoque: &novo, Motivo: "Quebra", FuncionarioID: &f.funcionarioID})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Quantidade)
	assert.Equal(t, "Ana Souza", resp.FuncionarioNome)
	assert.Equal(t, 1, f.estoque(t, pid))

	_, err = f.tenant.Estoque.AjustarEstoque(ctx, pid, dto.AjusteEstoqueRequest{NovoEstoque: &novo, Motivo: "Nada muda"})
	assert.ErrorIs(t, err, apierror.ErrInvariantViolation)

	_, err = f.tenant.Estoque.AjustarEstoque(ctx, pid, dto.AjusteEstoqueRequest{Motivo: "Sem valor"})
	assert.ErrorIs(t, err, apierror.ErrConstraintViolation)

	_, err = f.tenant.Estoque.AjustarEstoque(ctx, 999, dto.AjusteEstoqueRequest{NovoEstoque: &novo, Motivo: "x"})
	assert.ErrorIs(t, err, apierror.ErrNotFound)

	f.requireConciliado(t, pid)
}

func TestAtualizarMovimentacao_NaoAlteraEstoque(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.produto(t, "Pasta", 10)
	id := f.movimentacoes(t, pid)[0].ID

	req := movReq(pid, model.MovEntrada, 12, 0, 12)
	req.Observacoes = strPtr("Corrigido na conferência")
	ok, err := f.tenant.Estoque.AtualizarMovimentacao(ctx, id, req)
	require.NoError(t, err)
	assert.True(t, ok)

	movs := f.movimentacoes(t, pid)
	require.Len(t, movs, 1)
	assert.Equal(t, 12, movs[0].Quantidade)
	assert.Equal(t, "Corrigido na conferência", *movs[0].Observacoes)
	assert.Equal(t, 10, f.estoque(t, pid))

	// the correction is visible to reconciliation, not applied to stock
	c, err := f.tenant.Estoque.Conciliar(ctx, pid)
	require.NoError(t, err)
	assert.False(t, c.Consistente)
	assert.Equal(t, 12, c.SomaMovimentacoes)

	ok, err = f.tenant.Estoque.AtualizarMovimentacao(ctx, 999, req)
	assert.False(t, ok)
	assert.ErrorIs(t, err, apierror.ErrNotFound)

	_, err = f.tenant.Estoque.AtualizarMovimentacao(ctx, id, movReq(pid, "TROCA", 1, 0, 1))
	assert.ErrorIs(t, err, apierror.ErrConstraintViolation)
}

func TestListarMovimentacoes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.produto(t, "Caneta", 10)
	outro := f.produto(t, "Lápis", 3)

	v, err := f.tenant.Vendas.Criar(ctx, f.venda("", item(pid, 2)))
	require.NoError(t, err)
	_, err = f.tenant.Estoque.RegistrarMovimentacao(ctx, movReq(pid, model.MovEntrada, 1, 8, 9))
	require.NoError(t, err)

	list, err := f.tenant.Estoque.ListarMovimentacoes(ctx, dto.MovimentacaoFilter{ProdutoID: pid, Page: 1, Limit: 100})
	require.NoError(t, err)
	require.EqualValues(t, 3, list.Total)
	require.Len(t, list.Data, 3)

	// newest first
	assert.Equal(t, model.MovEntrada, list.Data[0].TipoMovimentacao)
	assert.Equal(t, "", list.Data[0].ReferenciaDescricao)
	assert.Equal(t, "Sistema", list.Data[0].FuncionarioNome)

	venda := list.Data[1]
	assert.Equal(t, model.MovSaida, venda.TipoMovimentacao)
	assert.Equal(t, "Venda #"+itoa(v.ID), venda.ReferenciaDescricao)
	assert.Equal(t, "Ana Souza", venda.FuncionarioNome)
	assert.Equal(t, "Caneta", venda.ProdutoNome)

	assert.Equal(t, "PRODUTO_NOVO #"+itoa(pid), list.Data[2].ReferenciaDescricao)

	saidas, err := f.tenant.Estoque.ListarMovimentacoes(ctx, dto.MovimentacaoFilter{Tipo: model.MovSaida, Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 1, saidas.Total)

	todas, err := f.tenant.Estoque.ListarMovimentacoes(ctx, dto.MovimentacaoFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, todas.Total)
	assert.Len(t, todas.Data, 2)

	hoje := time.Now().UTC()
	amanha := hoje.Add(24 * time.Hour)
	ate, err := f.tenant.Estoque.ListarMovimentacoes(ctx, dto.MovimentacaoFilter{ProdutoID: outro, Ate: &hoje, Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 1, ate.Total)

	desde, err := f.tenant.Estoque.ListarMovimentacoes(ctx, dto.MovimentacaoFilter{Desde: &amanha, Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.Zero(t, desde.Total)
	assert.Empty(t, desde.Data)
}

func TestAlertasEProjecoes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.tenant.Produtos.Criar(ctx, dto.CriarProdutoRequest{
		Nome: "Toner", EstoqueAtual: 2, EstoqueMinimo: 5, FornecedorID: f.fornecedorID,
	})
	require.NoError(t, err)
	f.produto(t, "Agenda", 10)

	alertas, err := f.tenant.Estoque.Alertas(ctx)
	require.NoError(t, err)
	require.Len(t, alertas, 1)
	assert.Equal(t, dto.AlertaEstoqueResponse{ProdutoID: p.ID, Nome: "Toner", EstoqueAtual: 2, EstoqueMinimo: 5}, alertas[0])

	produtos, err := f.tenant.Estoque.ListarProdutos(ctx)
	require.NoError(t, err)
	require.Len(t, produtos, 2)
	assert.Equal(t, "Agenda", produtos[0].Nome)
	assert.Equal(t, "Toner", produtos[1].Nome)

	funcionarios, err := f.tenant.Estoque.ListarFuncionarios(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dto.IDNome{{ID: f.funcionarioID, Nome: "Ana Souza"}}, funcionarios)
}

func TestConciliar_ProdutoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.tenant.Estoque.Conciliar(context.Background(), 404)
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestDescricaoReferencia(t *testing.T) {
	id := int64(7)
	tests := []struct {
		tipo *string
		id   *int64
		want string
	}{
		{strPtr(model.RefVenda), &id, "Venda #7"},
		{strPtr(model.RefCompra), &id, "Compra #7"},
		{strPtr(model.RefProdutoNovo), &id, "PRODUTO_NOVO #7"},
		{strPtr(model.RefVenda), nil, "VENDA"},
		{nil, &id, ""},
		{nil, nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, descricaoReferencia(tt.tipo, tt.id))
	}
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
