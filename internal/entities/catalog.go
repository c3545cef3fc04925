package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InstanceStatus string

const (
	StatusAvailable   InstanceStatus = "Available"
	StatusMaintenance InstanceStatus = "Maintenance"
	StatusLoaned      InstanceStatus = "Loaned"
	StatusReserved    InstanceStatus = "Reserved"
)

// InstanceStatuses lists the statuses offered by the book instance form, in
// display order.
var InstanceStatuses = []InstanceStatus{
	StatusMaintenance,
	StatusAvailable,
	StatusLoaned,
	StatusReserved,
}

type Genre struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"index;size:100" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Book is owned by another part of the catalog; the genre and book instance
// handlers only read it.
type Book struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"index;size:512" json:"title"`
	Author    string    `gorm:"size:256" json:"author"`
	Summary   string    `gorm:"type:text" json:"summary,omitempty"`
	ISBN      string    `gorm:"size:20" json:"isbn,omitempty"`
	Genres    []Genre   `gorm:"many2many:book_genres;" json:"genres,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookInstance struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	BookID    string         `gorm:"index;size:36" json:"book_id"`
	Book      Book           `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Imprint   string         `gorm:"size:256" json:"imprint"`
	Status    InstanceStatus `gorm:"size:20;default:'Maintenance'" json:"status"`
	DueBack   *time.Time     `json:"due_back,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Genre) TableName() string {
	return "genres"
}

func (Book) TableName() string {
	return "books"
}

func (BookInstance) TableName() string {
	return "book_instances"
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (bi *BookInstance) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == "" {
		bi.ID = uuid.NewString()
	}
	if bi.Status == "" {
		bi.Status = StatusMaintenance
	}
	return nil
}

// URL returns the genre's detail page path.
func (g Genre) URL() string {
	return "/catalog/genre/" + g.ID
}

func (b Book) URL() string {
	return "/catalog/book/" + b.ID
}

func (bi BookInstance) URL() string {
	return "/catalog/bookinstance/" + bi.ID
}

// DueBackFormatted renders the due date for display, or "" when unset.
func (bi BookInstance) DueBackFormatted() string {
	if bi.DueBack == nil {
		return ""
	}
	return bi.DueBack.Format("Jan 2, 2006")
}

// DueBackISO renders the due date for a date input, or "" when unset.
func (bi BookInstance) DueBackISO() string {
	if bi.DueBack == nil {
		return ""
	}
	return bi.DueBack.Format("2006-01-02")
}

// ParseInstanceStatus maps form input to a status. Empty or unrecognised
// input means the default status.
func ParseInstanceStatus(s string) InstanceStatus {
	for _, status := range InstanceStatuses {
		if string(status) == s {
			return status
		}
	}
	return StatusMaintenance
}
