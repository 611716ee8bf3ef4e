package service

import (
	"context"
	"time"

	"sevensystem/internal/repository"
	"sevensystem/internal/worker"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("sevensystem/service")

// Tenant bundles the services bound to one tenant store. It is built per
// request from the store resolved for the authenticated user.
type Tenant struct {
	DBName    string
	Estoque   EstoqueService
	Vendas    VendaService
	Produtos  ProdutoService
	Cadastros CadastroService
}

// NewTenant wires the repositories and services of one tenant store.
// dispatcher may be nil, in which case low-stock alerts are not published.
func NewTenant(dbName string, db *gorm.DB, dispatcher *worker.Dispatcher, txTimeout time.Duration) *Tenant {
	// ── Repositories ─────────────────────────────────────────────────────────
	produtoRepo := repository.NewProdutoRepository(db)
	movRepo := repository.NewMovimentacaoRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	cadastroRepo := repository.NewCadastroRepository(db)

	// ── Shared ledger helpers ────────────────────────────────────────────────
	l := newLedger(produtoRepo, movRepo)
	n := &alertaNotifier{dbName: dbName, produtos: produtoRepo, dispatcher: dispatcher}
	tx := txRunner{db: db, dbName: dbName, timeout: txTimeout}

	return &Tenant{
		DBName:    dbName,
		Estoque:   NewEstoqueService(tx, l, n, produtoRepo, movRepo, cadastroRepo),
		Vendas:    NewVendaService(tx, l, n, vendaRepo),
		Produtos:  NewProdutoService(tx, l, produtoRepo),
		Cadastros: NewCadastroService(cadastroRepo),
	}
}

// txRunner opens ledger-affecting transactions bounded by a timeout. A
// failure or timeout rolls the whole unit back.
type txRunner struct {
	db      *gorm.DB
	dbName  string
	timeout time.Duration
}

func (r txRunner) runTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	ctx, span := tracer.Start(ctx, "estoque.tx")
	defer span.End()
	span.SetAttributes(attribute.String("tenant.db_name", r.dbName))

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	err := r.db.WithContext(ctx).Transaction(fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rollback")
	}
	return err
}

// alertaNotifier publishes low-stock alerts after a transaction committed.
type alertaNotifier struct {
	dbName     string
	produtos   repository.ProdutoRepository
	dispatcher *worker.Dispatcher
}

// afterCommit enqueues one alert per touched product now below its minimum.
// Alerts are best effort: failures are logged and never reach the caller.
func (n *alertaNotifier) afterCommit(ctx context.Context, produtoIDs ...int64) {
	if n == nil || n.dispatcher == nil || len(produtoIDs) == 0 {
		return
	}
	baixos, err := n.produtos.ListAbaixoMinimo(ctx, produtoIDs)
	if err != nil {
		logger(ctx).Warn().Err(err).Msg("alertas: falha ao consultar estoque mínimo")
		return
	}
	for _, p := range baixos {
		err := n.dispatcher.EnqueueAlertaEstoque(ctx, worker.AlertaEstoquePayload{
			DBName:        n.dbName,
			ProdutoID:     p.ID,
			Nome:          p.Nome,
			EstoqueAtual:  p.EstoqueAtual,
			EstoqueMinimo: p.EstoqueMinimo,
		})
		if err != nil {
			logger(ctx).Warn().Err(err).Int64("produto_id", p.ID).Msg("alertas: falha ao publicar alerta")
		}
	}
}
