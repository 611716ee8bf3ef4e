package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"sevensystem/internal/dto"
	"sevensystem/internal/infra"
	"sevensystem/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture is an in-memory tenant store with one supplier, one employee and
// one client already registered.
type fixture struct {
	db            *gorm.DB
	tenant        *Tenant
	fornecedorID  int64
	funcionarioID int64
	clienteID     int64
}

func memoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := infra.OpenSQLite(name, infra.SQLiteOptions{Memory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return fixtureOn(t, memoryDB(t))
}

// fixtureOn seeds the master data on an already opened tenant store.
func fixtureOn(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	require.NoError(t, infra.InstallTenantSchema(db))

	f := &fixture{db: db, tenant: NewTenant("user_teste.db", db, nil, 5*time.Second)}
	ctx := context.Background()

	forn, err := f.tenant.Cadastros.CriarFornecedor(ctx, dto.CriarFornecedorRequest{
		NomeFantasia: "Distribuidora Sul",
		RazaoSocial:  "Distribuidora Sul LTDA",
		CNPJ:         "12.345.678/0001-90",
		Telefone:     "11999990000",
	})
	require.NoError(t, err)
	f.fornecedorID = forn.ID

	fun, err := f.tenant.Cadastros.CriarFuncionario(ctx, dto.CriarFuncionarioRequest{Nome: "Ana Souza", Cargo: "Vendedora"})
	require.NoError(t, err)
	f.funcionarioID = fun.ID

	cli, err := f.tenant.Cadastros.CriarCliente(ctx, dto.CriarClienteRequest{Nome: "Carlos Lima", CPFCNPJ: "123.456.789-00"})
	require.NoError(t, err)
	f.clienteID = cli.ID

	return f
}

func (f *fixture) produto(t *testing.T, nome string, estoque int) int64 {
	t.Helper()
	p, err := f.tenant.Produtos.Criar(context.Background(), dto.CriarProdutoRequest{
		Nome:          nome,
		Preco:         decimal.NewFromInt(10),
		CustoUnitario: decimal.NewFromInt(6),
		EstoqueAtual:  estoque,
		FornecedorID:  f.fornecedorID,
	})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) estoque(t *testing.T, produtoID int64) int {
	t.Helper()
	var p model.Produto
	require.NoError(t, f.db.First(&p, produtoID).Error)
	return p.EstoqueAtual
}

func (f *fixture) movimentacoes(t *testing.T, produtoID int64) []model.MovimentacaoEstoque {
	t.Helper()
	var list []model.MovimentacaoEstoque
	require.NoError(t, f.db.Where("produto_id = ?", produtoID).Order("id").Find(&list).Error)
	return list
}

// requireConciliado checks that the stored stock equals the signed sum of the
// product's ledger.
func (f *fixture) requireConciliado(t *testing.T, produtoID int64) {
	t.Helper()
	c, err := f.tenant.Estoque.Conciliar(context.Background(), produtoID)
	require.NoError(t, err)
	require.True(t, c.Consistente, "estoque %d, soma do livro %d", c.EstoqueAtual, c.SomaMovimentacoes)
}

func (f *fixture) venda(status string, itens ...dto.ItemVendaRequest) dto.CriarVendaRequest {
	return dto.CriarVendaRequest{
		ClienteID:     f.clienteID,
		FuncionarioID: f.funcionarioID,
		Status:        status,
		Itens:         itens,
	}
}

func item(produtoID int64, q int) dto.ItemVendaRequest {
	return dto.ItemVendaRequest{ProdutoID: produtoID, Quantidade: q, PrecoUnitario: decimal.NewFromInt(10)}
}
