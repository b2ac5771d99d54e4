package auth

import (
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/librarium-app/librarium/internal/config"
	"github.com/librarium-app/librarium/internal/entities"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password. Callers must not distinguish the two cases; the login response
// is identical either way.
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailExists        = errors.New("email already exists in our records")
)

// AuthenticatedUser is the coarse identity a successful login yields. ID
// is the canonical string form: the numeric member id, or the
// role-prefixed staff id.
type AuthenticatedUser struct {
	ID       string        `json:"id"`
	Email    string        `json:"email"`
	Fname    string        `json:"fname"`
	Lname    string        `json:"lname"`
	UserType entities.Role `json:"user_type"`
}

// Service handles credential verification across the member and staff
// identity spaces.
type Service struct {
	db     *gorm.DB
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// Authenticate validates an email/password pair against members first,
// then staff. Email is unique across both spaces, so at most one row can
// match. bcrypt's comparison is constant-time over the hash.
func (s *Service) Authenticate(email, password string) (*AuthenticatedUser, error) {
	var member entities.Member
	err := s.db.Where("email = ?", email).First(&member).Error
	if err == nil {
		if err := CheckPassword(password, member.PasswordHash); err != nil {
			return nil, ErrInvalidCredentials
		}
		return &AuthenticatedUser{
			ID:       strconv.FormatUint(uint64(member.ID), 10),
			Email:    member.Email,
			Fname:    member.Fname,
			Lname:    member.Lname,
			UserType: entities.RoleMember,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up member: %w", err)
	}

	var staff entities.StaffUser
	err = s.db.Where("email = ?", email).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up staff: %w", err)
	}

	if err := CheckPassword(password, staff.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &AuthenticatedUser{
		ID:       staff.ID,
		Email:    staff.Email,
		Fname:    staff.Fname,
		Lname:    staff.Lname,
		UserType: staff.Role,
	}, nil
}

// EmailTaken reports whether an email exists in either identity space.
func (s *Service) EmailTaken(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&entities.Member{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := s.db.Model(&entities.StaffUser{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.config.BcryptCost)
}

// RoleForID resolves the role tag for an identifier: staff rows carry
// their own role, anything else is a plain member.
func (s *Service) RoleForID(id string) (entities.Role, error) {
	var staff entities.StaffUser
	err := s.db.Select("id", "role").Where("id = ?", id).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.RoleMember, nil
		}
		return "", err
	}
	return staff.Role, nil
}
