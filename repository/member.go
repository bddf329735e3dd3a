package repository

import (
	"context"
	"errors"

	"hearthbutler/apperr"
	"hearthbutler/entity"
	"hearthbutler/mapper"
	"hearthbutler/model"

	"gorm.io/gorm"
)

// MemberRepository persists household members.
type MemberRepository struct {
	DB *gorm.DB
}

// NewMemberRepository creates and returns a new MemberRepository.
func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{DB: db}
}

// CreateMember inserts a new member, hashing the password on the way in.
func (r *MemberRepository) CreateMember(ctx context.Context, member *entity.Member) error {
	m := mapper.MemberEntityToModel(member)
	if m == nil {
		return apperr.Validation("password", "could not be hashed")
	}
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		return wrapStoreErr("create member", err)
	}
	member.ID = m.ID
	return nil
}

// FindByID fetches one member.
func (r *MemberRepository) FindByID(ctx context.Context, id uint) (*entity.Member, error) {
	var m model.Member
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("member", id)
		}
		return nil, wrapStoreErr("find member", err)
	}
	return mapper.MemberModelToEntity(&m), nil
}

// FindByEmail fetches one member by email.
func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*entity.Member, error) {
	var m model.Member
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("member", email)
		}
		return nil, wrapStoreErr("find member by email", err)
	}
	return mapper.MemberModelToEntity(&m), nil
}

// ListMemberIDs returns the ids of every member; the sweep scheduler walks
// this to refresh each owner's statuses.
func (r *MemberRepository) ListMemberIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.DB.WithContext(ctx).Model(&model.Member{}).Pluck("id", &ids).Error; err != nil {
		return nil, wrapStoreErr("list member ids", err)
	}
	return ids, nil
}
