package entities

import (
	"time"
)

type Role string

const (
	RoleMember Role = "member"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

type TransactionStatus string

const (
	StatusBorrowed TransactionStatus = "Borrowed"
	StatusReturned TransactionStatus = "Returned"
)

// Staff identifier prefixes. Width-5 zero padding keeps lexicographic
// ordering identical to numeric ordering within a prefix.
const (
	PrefixAdmin = "ADM"
	PrefixStaff = "STF"
	PrefixOwner = "OWN"

	StaffIDSuffixWidth = 5
)

type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"index;size:512" json:"title"`
	Author          string    `gorm:"index;size:256" json:"author"`
	Genre           string    `gorm:"size:100" json:"genre"`
	Description     string    `gorm:"type:text" json:"description"`
	PublishedYear   int       `json:"published_year"`
	CopiesAvailable int       `gorm:"not null;default:0;check:copies_available >= 0" json:"copies_available"`
	Publisher       string    `gorm:"size:256" json:"publisher"`
	Image           []byte    `gorm:"type:blob" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Member struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Fname          string    `gorm:"size:100" json:"fname"`
	Lname          string    `gorm:"size:100" json:"lname"`
	Email          string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash   string    `gorm:"size:100" json:"-"`
	Street         string    `gorm:"size:256" json:"street"`
	City           string    `gorm:"size:100" json:"city"`
	PostalCode     string    `gorm:"size:20" json:"postalCode"`
	Phone          string    `gorm:"size:20" json:"phone"`
	ProfilePicture []byte    `gorm:"type:blob" json:"-"`
	MembershipDate time.Time `json:"membership_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StaffUser covers the staff, admin and owner tiers. The ID encodes the
// role prefix (ADM/STF/OWN) followed by a zero-padded sequence number and
// is re-minted when the role changes.
type StaffUser struct {
	ID             string    `gorm:"primaryKey;size:10" json:"id"`
	Role           Role      `gorm:"size:10" json:"role"`
	Fname          string    `gorm:"size:100" json:"fname"`
	Lname          string    `gorm:"size:100" json:"lname"`
	Email          string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash   string    `gorm:"size:100" json:"-"`
	ContactInfo    string    `gorm:"size:256" json:"contact_info"`
	ProfilePicture []byte    `gorm:"type:blob" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Transaction is the borrow/return ledger. A row with a nil ReturnDate is
// an open loan; open rows are the source of truth for how many copies of
// a book are out.
type Transaction struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	MemberID   uint              `gorm:"index" json:"member_id"`
	BookID     uint              `gorm:"index" json:"book_id"`
	BorrowDate time.Time         `json:"borrow_date"`
	ReturnDate *time.Time        `json:"return_date"`
	Status     TransactionStatus `gorm:"size:10" json:"status"`
	MaxBorrow  time.Time         `json:"max_borrow"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ArchivedTransaction is a transaction retained after its parent book or
// member was deleted. It keeps the original transaction ID and timestamps
// and is never modified once written.
type ArchivedTransaction struct {
	ID         uint              `gorm:"primaryKey;autoIncrement:false" json:"id"`
	MemberID   uint              `gorm:"index" json:"member_id"`
	BookID     uint              `gorm:"index" json:"book_id"`
	BorrowDate time.Time         `json:"borrow_date"`
	ReturnDate *time.Time        `json:"return_date"`
	Status     TransactionStatus `gorm:"size:10" json:"status"`
	MaxBorrow  time.Time         `json:"max_borrow"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	ArchivedAt time.Time         `json:"archived_at"`
}

// Archive builds the archive copy of a transaction. Field-for-field so
// archived rows compare equal to the ledger rows they replace.
func (t Transaction) Archive(archivedAt time.Time) ArchivedTransaction {
	return ArchivedTransaction{
		ID:         t.ID,
		MemberID:   t.MemberID,
		BookID:     t.BookID,
		BorrowDate: t.BorrowDate,
		ReturnDate: t.ReturnDate,
		Status:     t.Status,
		MaxBorrow:  t.MaxBorrow,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
		ArchivedAt: archivedAt,
	}
}

// PrefixForRole maps a staff-tier role to its identifier prefix.
func PrefixForRole(role Role) (string, bool) {
	switch role {
	case RoleAdmin:
		return PrefixAdmin, true
	case RoleStaff:
		return PrefixStaff, true
	case RoleOwner:
		return PrefixOwner, true
	default:
		return "", false
	}
}

// IsStaffID reports whether an identifier belongs to the staff identity
// space. Used only to route lookups to the right table; authorization is
// always decided from the server-side session, never from an ID prefix.
func IsStaffID(id string) bool {
	for _, prefix := range []string{PrefixAdmin, PrefixStaff, PrefixOwner} {
		if len(id) >= len(prefix) && id[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func (Book) TableName() string {
	return "books"
}

func (Member) TableName() string {
	return "members"
}

func (StaffUser) TableName() string {
	return "staff"
}

func (Transaction) TableName() string {
	return "transactions"
}

func (ArchivedTransaction) TableName() string {
	return "deleted_records"
}
