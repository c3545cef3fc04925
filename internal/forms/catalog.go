package forms

import (
	"time"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// GenreForm is the genre create/update form.
type GenreForm struct {
	Name string `form:"name" mod:"trim,escape" validate:"required" msg:"Genre name must not be empty"`
}

// Genre builds the entity the form describes. id is empty on create.
func (f GenreForm) Genre(id string) *entities.Genre {
	return &entities.Genre{ID: id, Name: f.Name}
}

// BookInstanceForm is the book instance create/update form.
type BookInstanceForm struct {
	Book    string `form:"book" mod:"trim,escape" validate:"required" msg:"Book must not be empty"`
	Imprint string `form:"imprint" mod:"trim,escape" validate:"required" msg:"Imprint must not be empty"`
	DueBack string `form:"due_back" mod:"trim" validate:"omitempty,isodate" msg:"Invalid date"`
	Status  string `form:"status" mod:"trim,escape" validate:"omitempty,oneof=Available Maintenance Loaned Reserved" msg:"Invalid status"`
}

// DueBackTime converts the optional due date. An empty field means no due
// date. Call it only after the form validated.
func (f BookInstanceForm) DueBackTime() *time.Time {
	if f.DueBack == "" {
		return nil
	}
	t, err := ParseISODate(f.DueBack)
	if err != nil {
		return nil
	}
	return &t
}

// BookInstance builds the entity the form describes. id is empty on create.
func (f BookInstanceForm) BookInstance(id string) *entities.BookInstance {
	return &entities.BookInstance{
		ID:      id,
		BookID:  f.Book,
		Imprint: f.Imprint,
		Status:  entities.ParseInstanceStatus(f.Status),
		DueBack: f.DueBackTime(),
	}
}
