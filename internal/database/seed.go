package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/locallibrary/internal/entities"
)

type seedBook struct {
	title   string
	author  string
	summary string
	isbn    string
	genres  []string
	copies  []seedCopy
}

type seedCopy struct {
	imprint string
	status  entities.InstanceStatus
	dueIn   time.Duration
}

var seedGenres = []string{"Fantasy", "Science Fiction", "French Poetry"}

var seedBooks = []seedBook{
	{
		title:   "The Name of the Wind (The Kingkiller Chronicle, #1)",
		author:  "Patrick Rothfuss",
		summary: "The tale of Kvothe, from his childhood in a troupe of traveling players to his years at the University.",
		isbn:    "9781473211896",
		genres:  []string{"Fantasy"},
		copies: []seedCopy{
			{imprint: "London Gollancz, 2014.", status: entities.StatusAvailable},
			{imprint: "Gollancz, 2011.", status: entities.StatusLoaned, dueIn: 14 * 24 * time.Hour},
		},
	},
	{
		title:   "The Wise Man's Fear (The Kingkiller Chronicle, #2)",
		author:  "Patrick Rothfuss",
		summary: "Kvothe continues the story of his life, searching for answers about the Amyr and the Chandrian.",
		isbn:    "9788401352836",
		genres:  []string{"Fantasy"},
		copies: []seedCopy{
			{imprint: "Gollancz, 2011.", status: entities.StatusMaintenance},
		},
	},
	{
		title:   "Apes and Angels",
		author:  "Ben Bova",
		summary: "Humankind's first expedition to the stars races to save an alien civilisation from a wave of deadly radiation.",
		isbn:    "9780765379528",
		genres:  []string{"Science Fiction"},
		copies: []seedCopy{
			{imprint: "New York Tom Doherty Associates, 2016.", status: entities.StatusReserved},
		},
	},
	{
		title:   "Death Wave",
		author:  "Ben Bova",
		summary: "Jordan Kell learns that an explosion at the galaxy's core has created a wave of radiation heading for Earth.",
		isbn:    "9780765379504",
		genres:  []string{"Science Fiction"},
	},
}

// Seed loads a small sample catalog. Rows that already exist (matched by
// genre name or book title) are left alone, so running it twice is safe.
func (d *Database) Seed(ctx context.Context) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genres := make(map[string]entities.Genre, len(seedGenres))
		for _, name := range seedGenres {
			var genre entities.Genre
			if err := tx.Where(entities.Genre{Name: name}).FirstOrCreate(&genre).Error; err != nil {
				return fmt.Errorf("seed genre %q: %w", name, err)
			}
			genres[name] = genre
		}

		for _, sb := range seedBooks {
			var existing int64
			if err := tx.Model(&entities.Book{}).Where("title = ?", sb.title).Count(&existing).Error; err != nil {
				return fmt.Errorf("check book %q: %w", sb.title, err)
			}
			if existing > 0 {
				continue
			}

			book := entities.Book{
				Title:   sb.title,
				Author:  sb.author,
				Summary: sb.summary,
				ISBN:    sb.isbn,
			}
			for _, name := range sb.genres {
				book.Genres = append(book.Genres, genres[name])
			}
			if err := tx.Omit("Genres.*").Create(&book).Error; err != nil {
				return fmt.Errorf("seed book %q: %w", sb.title, err)
			}

			for _, sc := range sb.copies {
				instance := entities.BookInstance{
					BookID:  book.ID,
					Imprint: sc.imprint,
					Status:  sc.status,
				}
				if sc.dueIn > 0 {
					due := time.Now().Add(sc.dueIn).Truncate(24 * time.Hour)
					instance.DueBack = &due
				}
				if err := tx.Omit("Book").Create(&instance).Error; err != nil {
					return fmt.Errorf("seed copy of %q: %w", sb.title, err)
				}
			}
		}
		return nil
	})
}
