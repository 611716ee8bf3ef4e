package repository

import (
	"context"
	"fmt"
	"time"

	"sevensystem/internal/apierror"
	"sevensystem/internal/model"

	"gorm.io/gorm"
)

// MovimentacaoFilter defines filters for listing ledger entries.
type MovimentacaoFilter struct {
	ProdutoID      int64
	Tipo           string
	ReferenciaTipo string
	Desde          *time.Time // inclusive
	Ate            *time.Time // exclusive
	Page           int
	Limit          int
}

// MovimentacaoRow is a ledger entry joined with the product and employee names.
type MovimentacaoRow struct {
	ID               int64
	ProdutoID        int64
	ProdutoNome      *string
	TipoMovimentacao string
	Quantidade       int
	EstoqueAnterior  int
	EstoqueAtual     int
	Motivo           *string
	ReferenciaID     *int64
	ReferenciaTipo   *string
	FuncionarioID    *int64
	FuncionarioNome  *string
	DataMovimentacao time.Time
	Observacoes      *string
}

// Conciliacao is the ledger aggregate of one product.
type Conciliacao struct {
	Soma  int
	Total int64
}

type MovimentacaoRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimentacaoEstoque) error
	FindByID(ctx context.Context, id int64) (*model.MovimentacaoEstoque, error)
	List(ctx context.Context, filter MovimentacaoFilter) ([]MovimentacaoRow, int64, error)
	// Overwrite replaces every column of row id and reports whether a row matched.
	Overwrite(ctx context.Context, id int64, m *model.MovimentacaoEstoque) (bool, error)
	Conciliar(ctx context.Context, produtoID int64) (Conciliacao, error)
}

type movimentacaoRepo struct{ db *gorm.DB }

func NewMovimentacaoRepository(db *gorm.DB) MovimentacaoRepository {
	return &movimentacaoRepo{db: db}
}

func (r *movimentacaoRepo) CreateTx(tx *gorm.DB, m *model.MovimentacaoEstoque) error {
	return translate(tx.Omit("Produto", "Funcionario").Create(m).Error)
}

func (r *movimentacaoRepo) FindByID(ctx context.Context, id int64) (*model.MovimentacaoEstoque, error) {
	var m model.MovimentacaoEstoque
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, fmt.Errorf("movimentação %d: %w", id, translate(err))
	}
	return &m, nil
}

func (r *movimentacaoRepo) filtered(ctx context.Context, filter MovimentacaoFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Table("movimentacao_estoque AS m")
	if filter.ProdutoID > 0 {
		q = q.Where("m.produto_id = ?", filter.ProdutoID)
	}
	if filter.Tipo != "" {
		q = q.Where("m.tipo_movimentacao = ?", filter.Tipo)
	}
	if filter.ReferenciaTipo != "" {
		q = q.Where("m.referencia_tipo = ?", filter.ReferenciaTipo)
	}
	if filter.Desde != nil {
		q = q.Where("m.data_movimentacao >= ?", filter.Desde.UTC())
	}
	if filter.Ate != nil {
		q = q.Where("m.data_movimentacao < ?", filter.Ate.UTC())
	}
	return q
}

func (r *movimentacaoRepo) List(ctx context.Context, filter MovimentacaoFilter) ([]MovimentacaoRow, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	offset, limit := paginate(filter.Page, filter.Limit)

	rows := []MovimentacaoRow{}
	err := r.filtered(ctx, filter).
		Select(`m.id, m.produto_id, p.nome AS produto_nome, m.tipo_movimentacao, m.quantidade,
			m.estoque_anterior, m.estoque_atual, m.motivo, m.referencia_id, m.referencia_tipo,
			m.funcionario_id, f.nome AS funcionario_nome, m.data_movimentacao, m.observacoes`).
		Joins("LEFT JOIN produtos p ON p.id = m.produto_id").
		Joins("LEFT JOIN funcionarios f ON f.id = m.funcionario_id").
		Order("m.data_movimentacao DESC, m.id DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	return rows, total, translate(err)
}

func (r *movimentacaoRepo) Overwrite(ctx context.Context, id int64, m *model.MovimentacaoEstoque) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.MovimentacaoEstoque{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"produto_id":        m.ProdutoID,
			"tipo_movimentacao": m.TipoMovimentacao,
			"quantidade":        m.Quantidade,
			"estoque_anterior":  m.EstoqueAnterior,
			"estoque_atual":     m.EstoqueAtual,
			"motivo":            m.Motivo,
			"referencia_id":     m.ReferenciaID,
			"referencia_tipo":   m.ReferenciaTipo,
			"funcionario_id":    m.FuncionarioID,
			"observacoes":       m.Observacoes,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, fmt.Errorf("movimentação %d: %w", id, apierror.ErrNotFound)
	}
	return true, nil
}

// signedDelta yields the stock effect of one entry. AJUSTE carries its sign in
// the snapshots, the other types in the type itself.
const signedDelta = `COALESCE(SUM(CASE tipo_movimentacao
	WHEN 'ENTRADA' THEN quantidade
	WHEN 'DEVOLUCAO' THEN quantidade
	WHEN 'SAIDA' THEN -quantidade
	WHEN 'PERDA' THEN -quantidade
	ELSE estoque_atual - estoque_anterior
END), 0)`

func (r *movimentacaoRepo) Conciliar(ctx context.Context, produtoID int64) (Conciliacao, error) {
	var c Conciliacao
	err := r.db.WithContext(ctx).Model(&model.MovimentacaoEstoque{}).
		Select(signedDelta+" AS soma, COUNT(*) AS total").
		Where("produto_id = ?", produtoID).
		Scan(&c).Error
	return c, translate(err)
}
