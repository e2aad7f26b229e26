package models

import "time"

// Professor sponsors purchase requests.
type Professor struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name" json:"lastName"`
	Email     *string   `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// DisplayName renders "Title First Last" without stray spaces.
func (p Professor) DisplayName() string {
	name := p.FirstName + " " + p.LastName
	if p.Title != "" {
		name = p.Title + " " + name
	}
	return name
}
