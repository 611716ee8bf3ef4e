package repository

import (
	"context"
	"fmt"

	"sevensystem/internal/apierror"
	"sevensystem/internal/dto"
	"sevensystem/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VendaRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Venda, error)
	List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error)

	// Used inside transactions: callers must pass the tx instance
	CreateTx(tx *gorm.DB, v *model.Venda) error
	CreateItemTx(tx *gorm.DB, item *model.ItemVenda) error
	FindByIDTx(tx *gorm.DB, id int64) (*model.Venda, error)
	UpdateStatusTx(tx *gorm.DB, id int64, status string) error
	UpdateTotalTx(tx *gorm.DB, id int64, total decimal.Decimal) error
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

// CreateTx inserts the header only; items go through CreateItemTx so each
// insert can run its stock rule.
func (r *vendaRepo) CreateTx(tx *gorm.DB, v *model.Venda) error {
	return translate(tx.Omit(clause.Associations).Create(v).Error)
}

func (r *vendaRepo) CreateItemTx(tx *gorm.DB, item *model.ItemVenda) error {
	return translate(tx.Omit(clause.Associations).Create(item).Error)
}

func (r *vendaRepo) FindByID(ctx context.Context, id int64) (*model.Venda, error) {
	var v model.Venda
	err := r.db.WithContext(ctx).
		Preload("Itens", func(db *gorm.DB) *gorm.DB { return db.Order("itens_venda.id ASC") }).
		Preload("Itens.Produto").
		First(&v, id).Error
	if err != nil {
		return nil, fmt.Errorf("venda %d: %w", id, translate(err))
	}
	return &v, nil
}

func (r *vendaRepo) FindByIDTx(tx *gorm.DB, id int64) (*model.Venda, error) {
	var v model.Venda
	err := tx.Preload("Itens", func(db *gorm.DB) *gorm.DB { return db.Order("itens_venda.id ASC") }).
		First(&v, id).Error
	if err != nil {
		return nil, fmt.Errorf("venda %d: %w", id, translate(err))
	}
	return &v, nil
}

func (r *vendaRepo) UpdateStatusTx(tx *gorm.DB, id int64, status string) error {
	res := tx.Model(&model.Venda{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("venda %d: %w", id, apierror.ErrNotFound)
	}
	return nil
}

func (r *vendaRepo) UpdateTotalTx(tx *gorm.DB, id int64, total decimal.Decimal) error {
	return translate(tx.Model(&model.Venda{}).Where("id = ?", id).Update("total", total).Error)
}

func (r *vendaRepo) List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Venda{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClienteID > 0 {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	offset, limit := paginate(filter.Page, filter.Limit)
	var vendas []model.Venda
	err := q.Preload("Itens").
		Order("data_venda DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&vendas).Error
	return vendas, total, translate(err)
}
