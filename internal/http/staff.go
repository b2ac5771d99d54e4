package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/librarium-app/librarium/internal/auth"
	"github.com/librarium-app/librarium/internal/database/staff"
	"github.com/librarium-app/librarium/internal/entities"
)

// StaffStore defines the staff-management operations the controller needs.
type StaffStore interface {
	Create(staff *entities.StaffUser) error
	GetByID(id string) (*entities.StaffUser, error)
	List() ([]entities.StaffUser, error)
	Update(id string, role entities.Role, fname, lname, email, contactInfo string) (string, error)
	Delete(id string) error
}

type StaffController struct {
	store    StaffStore
	accounts Accounts
}

func NewStaffController(store StaffStore, accounts Accounts) *StaffController {
	return &StaffController{store: store, accounts: accounts}
}

type createStaffRequest struct {
	Fname       string `json:"fname"`
	Lname       string `json:"lname"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	ContactInfo string `json:"contact_info"`
}

// CreateStaff registers a staff or admin account; the id is minted from
// the role's prefixed sequence. Owner accounts cannot be created here.
// POST /api/staffUser
func (ctrl *StaffController) CreateStaff(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Required fields are missing")
		return
	}
	if req.Fname == "" || req.Lname == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		respondBadRequest(c, "Required fields are missing")
		return
	}

	role := entities.Role(req.Role)
	if role != entities.RoleAdmin && role != entities.RoleStaff {
		respondBadRequest(c, "Role must be staff or admin")
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

	user := entities.StaffUser{
		Fname:        req.Fname,
		Lname:        req.Lname,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		ContactInfo:  req.ContactInfo,
	}
	if err := ctrl.store.Create(&user); err != nil {
		if errors.Is(err, staff.ErrInvalidRole) {
			respondBadRequest(c, "Role must be staff or admin")
			return
		}
		respondInternalError(c, err, "create staff user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Staff user created successfully",
		"staffId": user.ID,
	})
}

// ListStaff returns all staff-tier accounts.
// GET /api/staff
func (ctrl *StaffController) ListStaff(c *gin.Context) {
	all, err := ctrl.store.List()
	if err != nil {
		respondInternalError(c, err, "list staff")
		return
	}
	c.JSON(http.StatusOK, all)
}

type updateStaffRequest struct {
	Fname       string `json:"fname"`
	Lname       string `json:"lname"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	ContactInfo string `json:"contact_info"`
}

// UpdateStaff edits a staff record. Changing the role re-mints the id
// under the new prefix; the response carries whichever id the record
// ends up with so clients can follow the rename.
// PUT /api/users/:id
func (ctrl *StaffController) UpdateStaff(c *gin.Context) {
	id := c.Param("id")

	var req updateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	newID, err := ctrl.store.Update(id, entities.Role(req.Role), req.Fname, req.Lname, req.Email, req.ContactInfo)
	if err != nil {
		switch {
		case errors.Is(err, staff.ErrStaffNotFound):
			respondNotFound(c, "User not found")
		case errors.Is(err, staff.ErrInvalidRole):
			respondBadRequest(c, "Role must be staff or admin")
		default:
			respondInternalError(c, err, "update staff user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"newId":   newID,
	})
}

// DeleteStaff removes a staff account. Owner ids are refused outright.
// DELETE /api/deleteStaff/:id
func (ctrl *StaffController) DeleteStaff(c *gin.Context) {
	id := c.Param("id")

	if err := ctrl.store.Delete(id); err != nil {
		switch {
		case errors.Is(err, staff.ErrOwnerProtected):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Owner accounts cannot be deleted"})
		case errors.Is(err, staff.ErrStaffNotFound):
			respondNotFound(c, "Staff member not found")
		default:
			respondInternalError(c, err, "delete staff user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff deleted successfully"})
}

// GetAdminDetails returns a single staff-tier record.
// GET /api/getAdminDetails/:id
func (ctrl *StaffController) GetAdminDetails(c *gin.Context) {
	id := c.Param("id")

	user, err := ctrl.store.GetByID(id)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			respondNotFound(c, "Admin not found")
			return
		}
		respondInternalError(c, err, "get staff user")
		return
	}

	c.JSON(http.StatusOK, user)
}
