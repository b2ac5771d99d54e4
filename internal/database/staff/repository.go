// Package staff provides database operations for staff-tier accounts and
// their role-prefixed identifiers.
//
// Identifiers have the form <PREFIX><5-digit sequence> (STF00001,
// ADM00003, ...). The fixed suffix width makes lexicographic ordering
// match numeric ordering, so the highest existing id per prefix can be
// found with a plain ORDER BY id DESC.
package staff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/librarium-app/librarium/internal/entities"
)

var (
	ErrStaffNotFound  = errors.New("staff user not found")
	ErrInvalidRole    = errors.New("invalid staff role")
	ErrOwnerProtected = errors.New("owner accounts cannot be deleted")
)

// Repository handles all staff database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new staff repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create mints a fresh id for the given role and inserts the record. The
// mint and the insert run in one transaction so concurrent creates cannot
// claim the same sequence number. Owner accounts are seeded out-of-band
// and are not mintable here.
func (r *Repository) Create(staff *entities.StaffUser) error {
	if staff.Role != entities.RoleAdmin && staff.Role != entities.RoleStaff {
		return ErrInvalidRole
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx, staff.Role)
		if err != nil {
			return err
		}
		staff.ID = id
		return tx.Create(staff).Error
	})
}

// GetByID retrieves a single staff user.
func (r *Repository) GetByID(id string) (*entities.StaffUser, error) {
	var staff entities.StaffUser
	err := r.db.Where("id = ?", id).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// List returns all staff-tier accounts.
func (r *Repository) List() ([]entities.StaffUser, error) {
	var all []entities.StaffUser
	err := r.db.Order("id ASC").Find(&all).Error
	return all, err
}

// Update edits a staff record. A role change re-mints the id under the
// new prefix's sequence and updates the row in place; the returned id is
// the one the record carries afterwards.
func (r *Repository) Update(id string, role entities.Role, fname, lname, email, contactInfo string) (string, error) {
	if role != entities.RoleAdmin && role != entities.RoleStaff && role != entities.RoleOwner {
		return "", ErrInvalidRole
	}

	newID := id
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current entities.StaffUser
		if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStaffNotFound
			}
			return err
		}

		updates := map[string]any{
			"fname":        fname,
			"lname":        lname,
			"email":        email,
			"contact_info": contactInfo,
		}

		if current.Role != role {
			// Promotion to owner is not a minting path; owners only
			// come from the out-of-band seed.
			if role == entities.RoleOwner {
				return ErrInvalidRole
			}
			minted, err := nextID(tx, role)
			if err != nil {
				return err
			}
			newID = minted
			updates["id"] = minted
			updates["role"] = role
		}

		return tx.Model(&entities.StaffUser{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

// UpdateProfile edits the self-service profile fields only. Role and id
// are untouched, so no re-mint can happen through this path.
func (r *Repository) UpdateProfile(id, fname, lname, contactInfo string) error {
	result := r.db.Model(&entities.StaffUser{}).Where("id = ?", id).Updates(map[string]any{
		"fname":        fname,
		"lname":        lname,
		"contact_info": contactInfo,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaffNotFound
	}
	return nil
}

// Delete removes a staff account. Owner-prefixed ids are protected.
func (r *Repository) Delete(id string) error {
	if strings.HasPrefix(id, entities.PrefixOwner) {
		return ErrOwnerProtected
	}
	result := r.db.Where("id = ?", id).Delete(&entities.StaffUser{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaffNotFound
	}
	return nil
}

// SetProfilePicture stores the profile image blob for a staff user.
func (r *Repository) SetProfilePicture(id string, picture []byte) error {
	result := r.db.Model(&entities.StaffUser{}).Where("id = ?", id).Update("profile_picture", picture)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaffNotFound
	}
	return nil
}

// GetProfilePicture returns the raw profile image bytes for a staff user.
func (r *Repository) GetProfilePicture(id string) ([]byte, error) {
	var staff entities.StaffUser
	err := r.db.Select("id", "profile_picture").Where("id = ?", id).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return staff.ProfilePicture, nil
}

// nextID finds the highest existing id under the role's prefix and
// returns the next one, zero-padded to the fixed width. The LIKE pattern
// is always bound as a parameter; the prefix never reaches the SQL text.
func nextID(tx *gorm.DB, role entities.Role) (string, error) {
	prefix, ok := entities.PrefixForRole(role)
	if !ok {
		return "", ErrInvalidRole
	}

	var last entities.StaffUser
	err := tx.Select("id").Where("id LIKE ?", prefix+"%").Order("id DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Sprintf("%s%0*d", prefix, entities.StaffIDSuffixWidth, 1), nil
	}
	if err != nil {
		return "", err
	}

	seq, err := strconv.Atoi(last.ID[len(prefix):])
	if err != nil {
		return "", fmt.Errorf("malformed staff id %q: %w", last.ID, err)
	}
	return fmt.Sprintf("%s%0*d", prefix, entities.StaffIDSuffixWidth, seq+1), nil
}
