package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
)

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.UserSummary) error {
	model := UserDomainToModel(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	user.ID = model.ID
	return nil
}

func (r *gormUserRepository) GetByID(ctx context.Context, id int64) (*domain.UserSummary, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return UserModelToDomain(&model), nil
}

func (r *gormUserRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.UserSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []UserModel
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	users := make([]*domain.UserSummary, len(models))
	for i := range models {
		users[i] = UserModelToDomain(&models[i])
	}
	return users, nil
}
