package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/counterpos/internal/domain/entity"
	domainRepo "github.com/sangkips/counterpos/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	var products []entity.Product
	if len(ids) == 0 {
		return map[uuid.UUID]*entity.Product{}, nil
	}

	err := r.db.WithContext(ctx).
		Preload("Modifiers").
		Where("id IN ?", lo.Uniq(ids)).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func (r *productRepository) List(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Preload("Modifiers").
		Order("category ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}
