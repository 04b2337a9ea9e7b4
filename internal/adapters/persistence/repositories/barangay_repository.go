package repositories

import (
	"context"

	"pdao-carelink/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// barangayRepository implements BarangayRepository interface
type barangayRepository struct {
	db *gorm.DB
}

// NewBarangayRepository creates a new barangay repository
func NewBarangayRepository(db *gorm.DB) BarangayRepository {
	return &barangayRepository{db: db}
}

// Create creates a barangay master record
func (r *barangayRepository) Create(ctx context.Context, barangay *models.Barangay) error {
	return r.db.WithContext(ctx).Create(barangay).Error
}

// List lists active barangays alphabetically
func (r *barangayRepository) List(ctx context.Context) ([]models.Barangay, error) {
	var barangays []models.Barangay
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&barangays).Error
	if err != nil {
		return nil, err
	}
	return barangays, nil
}

// ExistsByName checks if a barangay is already registered
func (r *barangayRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Barangay{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}
