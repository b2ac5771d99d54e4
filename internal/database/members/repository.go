// Package members provides database operations for the membership store.
package members

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/librarium-app/librarium/internal/entities"
)

var ErrMemberNotFound = errors.New("member not found")

// Repository handles all member database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new members repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new member. The caller is responsible for hashing the
// credential and checking email uniqueness across both identity spaces.
func (r *Repository) Create(member *entities.Member) error {
	if member.MembershipDate.IsZero() {
		member.MembershipDate = time.Now()
	}
	return r.db.Create(member).Error
}

// GetByID retrieves a single member.
func (r *Repository) GetByID(id uint) (*entities.Member, error) {
	var member entities.Member
	err := r.db.First(&member, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// List returns all members.
func (r *Repository) List() ([]entities.Member, error) {
	var all []entities.Member
	err := r.db.Find(&all).Error
	return all, err
}

// UpdateProfile updates the editable profile fields of a member.
func (r *Repository) UpdateProfile(id uint, fname, lname, city, street, postalCode, phone string) error {
	result := r.db.Model(&entities.Member{}).Where("id = ?", id).Updates(map[string]any{
		"fname":       fname,
		"lname":       lname,
		"city":        city,
		"street":      street,
		"postal_code": postalCode,
		"phone":       phone,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// SetProfilePicture stores the profile image blob for a member.
func (r *Repository) SetProfilePicture(id uint, picture []byte) error {
	result := r.db.Model(&entities.Member{}).Where("id = ?", id).Update("profile_picture", picture)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// GetProfilePicture returns the raw profile image bytes. A member without
// a picture yields an empty slice, not an error.
func (r *Repository) GetProfilePicture(id uint) ([]byte, error) {
	var member entities.Member
	err := r.db.Select("id", "profile_picture").First(&member, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member.ProfilePicture, nil
}
