package http

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/librarium-app/librarium/internal/auth"
	"github.com/librarium-app/librarium/internal/database/members"
	"github.com/librarium-app/librarium/internal/database/staff"
	"github.com/librarium-app/librarium/internal/database/transactions"
	"github.com/librarium-app/librarium/internal/entities"
)

var phonePattern = regexp.MustCompile(`^[0-9]{7,15}$`)

// MemberStore defines the membership operations the members controller needs.
type MemberStore interface {
	Create(member *entities.Member) error
	GetByID(id uint) (*entities.Member, error)
	List() ([]entities.Member, error)
	UpdateProfile(id uint, fname, lname, city, street, postalCode, phone string) error
	SetProfilePicture(id uint, picture []byte) error
	GetProfilePicture(id uint) ([]byte, error)
}

// StaffProfileStore covers the staff-side profile operations reachable
// through the shared user endpoints (ids prefixed ADM/STF/OWN route to
// the staff table).
type StaffProfileStore interface {
	UpdateProfile(id string, fname, lname, contactInfo string) error
	SetProfilePicture(id string, picture []byte) error
	GetProfilePicture(id string) ([]byte, error)
}

// MemberDeleter runs the archival deletion protocol for a member.
type MemberDeleter interface {
	DeleteMemberWithArchive(memberID uint) error
}

// Accounts resolves signup uniqueness and role lookups across both
// identity spaces.
type Accounts interface {
	EmailTaken(email string) (bool, error)
	HashPassword(password string) (string, error)
	RoleForID(id string) (entities.Role, error)
}

type MembersController struct {
	store          MemberStore
	staffProfiles  StaffProfileStore
	deleter        MemberDeleter
	accounts       Accounts
	maxUploadBytes int64
}

func NewMembersController(store MemberStore, staffProfiles StaffProfileStore, deleter MemberDeleter, accounts Accounts, maxUploadBytes int64) *MembersController {
	return &MembersController{
		store:          store,
		staffProfiles:  staffProfiles,
		deleter:        deleter,
		accounts:       accounts,
		maxUploadBytes: maxUploadBytes,
	}
}

type signupRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Fname      string `json:"fname"`
	Lname      string `json:"lname"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
}

// Signup registers a new member. Email must be unused across members and
// staff alike; the credential is stored only as a bcrypt hash.
// POST /api/users
func (ctrl *MembersController) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Required fields are missing")
		return
	}
	if req.Street == "" || req.City == "" || req.PostalCode == "" || req.Fname == "" ||
		req.Lname == "" || req.Email == "" || req.Password == "" || req.Phone == "" {
		respondBadRequest(c, "Required fields are missing")
		return
	}
	if !phonePattern.MatchString(req.Phone) {
		respondBadRequest(c, "Invalid phone number format")
		return
	}

	taken, err := ctrl.accounts.EmailTaken(req.Email)
	if err != nil {
		respondInternalError(c, err, "check email uniqueness")
		return
	}
	if taken {
		respondConflict(c, "Email already exists in our records")
		return
	}

	hash, err := ctrl.accounts.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) || errors.Is(err, auth.ErrPasswordTooLong) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "hash password")
		return
	}

	member := entities.Member{
		Fname:        req.Fname,
		Lname:        req.Lname,
		Email:        req.Email,
		PasswordHash: hash,
		Street:       req.Street,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Phone:        req.Phone,
	}
	if err := ctrl.store.Create(&member); err != nil {
		respondInternalError(c, err, "create member")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// GetUserDetails returns a member's profile fields.
// GET /api/getUserDetails/:id
func (ctrl *MembersController) GetUserDetails(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := ctrl.store.GetByID(id)
	if err != nil {
		if errors.Is(err, members.ErrMemberNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "get member")
		return
	}

	c.JSON(http.StatusOK, member)
}

// ListMembers returns all members.
// GET /api/members
func (ctrl *MembersController) ListMembers(c *gin.Context) {
	all, err := ctrl.store.List()
	if err != nil {
		respondInternalError(c, err, "list members")
		return
	}
	c.JSON(http.StatusOK, all)
}

type updateDetailsRequest struct {
	Fname       string `json:"fname"`
	Lname       string `json:"lname"`
	City        string `json:"city"`
	Street      string `json:"street"`
	PostalCode  string `json:"postalCode"`
	Phone       string `json:"phone"`
	ContactInfo string `json:"contact_info"`
}

// UpdateUserDetails edits profile fields. Staff-prefixed ids route to the
// staff table (fname/lname/contact_info), anything else to members. The
// prefix only selects the identity space; it grants nothing.
// PUT /api/updateUserDetails/:id
func (ctrl *MembersController) UpdateUserDetails(c *gin.Context) {
	id := c.Param("id")

	var req updateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if entities.IsStaffID(id) {
		err := ctrl.staffProfiles.UpdateProfile(id, req.Fname, req.Lname, req.ContactInfo)
		if err != nil {
			if errors.Is(err, staff.ErrStaffNotFound) {
				respondNotFound(c, "User not found")
				return
			}
			respondInternalError(c, err, "update staff details")
			return
		}
	} else {
		memberID, err := strconv.ParseUint(id, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid id")
			return
		}
		err = ctrl.store.UpdateProfile(uint(memberID), req.Fname, req.Lname, req.City, req.Street, req.PostalCode, req.Phone)
		if err != nil {
			if errors.Is(err, members.ErrMemberNotFound) {
				respondNotFound(c, "User not found")
				return
			}
			respondInternalError(c, err, "update member details")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "User details updated successfully",
		"updatedDetails": req,
	})
}

// DeleteUser removes a member after archiving their transaction history.
// A member with unreturned books reports the distinct active_transaction
// status and nothing is deleted.
// DELETE /api/users/:id
func (ctrl *MembersController) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ctrl.deleter.DeleteMemberWithArchive(id)
	if err != nil {
		switch {
		case errors.Is(err, transactions.ErrActiveTransaction):
			c.JSON(http.StatusOK, StatusResponse{
				Status:  "active_transaction",
				Message: "User has unreturned books",
			})
		case errors.Is(err, transactions.ErrMemberNotFound):
			c.JSON(http.StatusNotFound, StatusResponse{
				Status:  "not_found",
				Message: "User not found",
			})
		default:
			respondInternalError(c, err, "delete member")
		}
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Status:  "success",
		Message: "User and related transactions deleted successfully, and transactions moved to deleted_record",
	})
}

// UploadProfilePicture stores a profile image for a member or staff user,
// selected by the id's identity space.
// POST /api/uploadProfilePicture/:userId
func (ctrl *MembersController) UploadProfilePicture(c *gin.Context) {
	id := c.Param("userId")

	file, err := c.FormFile("profile_picture")
	if err != nil {
		respondBadRequest(c, "profile_picture file is required")
		return
	}
	picture, err := readUpload(file, ctrl.maxUploadBytes)
	if err != nil {
		respondInternalError(c, err, "read profile picture upload")
		return
	}

	if entities.IsStaffID(id) {
		err = ctrl.staffProfiles.SetProfilePicture(id, picture)
	} else {
		memberID, parseErr := strconv.ParseUint(id, 10, 32)
		if parseErr != nil {
			respondBadRequest(c, "invalid userId")
			return
		}
		err = ctrl.store.SetProfilePicture(uint(memberID), picture)
	}
	if err != nil {
		if errors.Is(err, members.ErrMemberNotFound) || errors.Is(err, staff.ErrStaffNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "save profile picture")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile picture uploaded successfully"})
}

// GetProfilePicture returns the profile image as a data URI envelope.
// GET /api/getProfilePicture/:userId
func (ctrl *MembersController) GetProfilePicture(c *gin.Context) {
	id := c.Param("userId")

	var (
		picture []byte
		err     error
	)
	if entities.IsStaffID(id) {
		picture, err = ctrl.staffProfiles.GetProfilePicture(id)
	} else {
		memberID, parseErr := strconv.ParseUint(id, 10, 32)
		if parseErr != nil {
			respondBadRequest(c, "invalid userId")
			return
		}
		picture, err = ctrl.store.GetProfilePicture(uint(memberID))
	}
	if err != nil {
		if errors.Is(err, members.ErrMemberNotFound) || errors.Is(err, staff.ErrStaffNotFound) {
			respondNotFound(c, "No profile picture found")
			return
		}
		respondInternalError(c, err, "fetch profile picture")
		return
	}
	if len(picture) == 0 {
		respondNotFound(c, "No profile picture found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": dataURI(picture)})
}

// GetUserStatus reports whether an id belongs to a staff-tier account and
// which role it carries; unknown ids are plain members.
// GET /api/getUserStatus/:id
func (ctrl *MembersController) GetUserStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "User ID is required")
		return
	}

	role, err := ctrl.accounts.RoleForID(id)
	if err != nil {
		respondInternalError(c, err, "resolve user role")
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": role})
}
