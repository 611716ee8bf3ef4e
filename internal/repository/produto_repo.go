package repository

import (
	"context"
	"fmt"
	"time"

	"sevensystem/internal/apierror"
	"sevensystem/internal/dto"
	"sevensystem/internal/model"

	"gorm.io/gorm"
)

// ProdutoRepository defines the data access contract for products.
// Stock columns are written only through the Tx methods, inside the same
// transaction that appends the matching ledger entry.
type ProdutoRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Produto, error)
	List(ctx context.Context) ([]model.Produto, error)
	ListIDNome(ctx context.Context) ([]dto.IDNome, error)
	// ListAbaixoMinimo returns products whose stock is below estoque_minimo.
	// An empty ids slice means all products.
	ListAbaixoMinimo(ctx context.Context, ids []int64) ([]model.Produto, error)

	// Used inside transactions: callers must pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Produto) error
	FindByIDTx(tx *gorm.DB, id int64) (*model.Produto, error)
	UpdateDadosTx(tx *gorm.DB, p *model.Produto) error
	SetEstoqueTx(tx *gorm.DB, id int64, estoque int, at time.Time) error
	// DecrementEstoqueTx subtracts q only when estoque_atual >= q and reports
	// whether the row was changed.
	DecrementEstoqueTx(tx *gorm.DB, id int64, q int, at time.Time) (bool, error)
	IncrementEstoqueTx(tx *gorm.DB, id int64, q int, at time.Time) error
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) FindByID(ctx context.Context, id int64) (*model.Produto, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *produtoRepo) FindByIDTx(tx *gorm.DB, id int64) (*model.Produto, error) {
	var p model.Produto
	if err := tx.First(&p, id).Error; err != nil {
		return nil, fmt.Errorf("produto %d: %w", id, translate(err))
	}
	return &p, nil
}

func (r *produtoRepo) List(ctx context.Context) ([]model.Produto, error) {
	var produtos []model.Produto
	err := r.db.WithContext(ctx).Order("nome ASC, id ASC").Find(&produtos).Error
	return produtos, translate(err)
}

func (r *produtoRepo) ListIDNome(ctx context.Context) ([]dto.IDNome, error) {
	out := []dto.IDNome{}
	err := r.db.WithContext(ctx).Model(&model.Produto{}).
		Select("id, nome").Order("nome ASC, id ASC").Scan(&out).Error
	return out, translate(err)
}

func (r *produtoRepo) ListAbaixoMinimo(ctx context.Context, ids []int64) ([]model.Produto, error) {
	q := r.db.WithContext(ctx).Where("estoque_atual < estoque_minimo")
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	var produtos []model.Produto
	err := q.Order("nome ASC, id ASC").Find(&produtos).Error
	return produtos, translate(err)
}

func (r *produtoRepo) CreateTx(tx *gorm.DB, p *model.Produto) error {
	return translate(tx.Omit("Fornecedor").Create(p).Error)
}

func (r *produtoRepo) UpdateDadosTx(tx *gorm.DB, p *model.Produto) error {
	res := tx.Model(&model.Produto{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"nome":              p.Nome,
		"descricao":         p.Descricao,
		"preco":             p.Preco,
		"preco_promocional": p.PrecoPromocional,
		"custo_unitario":    p.CustoUnitario,
		"estoque_minimo":    p.EstoqueMinimo,
		"estoque_maximo":    p.EstoqueMaximo,
		"fornecedor_id":     p.FornecedorID,
		"categoria":         p.Categoria,
		"data_atualizacao":  p.DataAtualizacao,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("produto %d: %w", p.ID, apierror.ErrNotFound)
	}
	return nil
}

func (r *produtoRepo) SetEstoqueTx(tx *gorm.DB, id int64, estoque int, at time.Time) error {
	res := tx.Model(&model.Produto{}).Where("id = ?", id).Updates(map[string]interface{}{
		"estoque_atual":    estoque,
		"data_atualizacao": at,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("produto %d: %w", id, apierror.ErrNotFound)
	}
	return nil
}

func (r *produtoRepo) DecrementEstoqueTx(tx *gorm.DB, id int64, q int, at time.Time) (bool, error) {
	res := tx.Model(&model.Produto{}).
		Where("id = ? AND estoque_atual >= ?", id, q).
		Updates(map[string]interface{}{
			"estoque_atual":    gorm.Expr("estoque_atual - ?", q),
			"data_atualizacao": at,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *produtoRepo) IncrementEstoqueTx(tx *gorm.DB, id int64, q int, at time.Time) error {
	res := tx.Model(&model.Produto{}).Where("id = ?", id).Updates(map[string]interface{}{
		"estoque_atual":    gorm.Expr("estoque_atual + ?", q),
		"data_atualizacao": at,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("produto %d: %w", id, apierror.ErrNotFound)
	}
	return nil
}
