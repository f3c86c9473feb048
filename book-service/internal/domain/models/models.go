package models

type Book struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Author *string `json:"author,omitempty"`
}

// NewBook carries the caller supplied fields of a book that does not exist yet.
type NewBook struct {
	Title  string  `json:"title" validate:"required,min=1"`
	Author *string `json:"author,omitempty"`
}

// BookPatch is a partial update. Nil fields are left untouched.
type BookPatch struct {
	Title  *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Author *string `json:"author,omitempty"`
}

// Apply returns a copy of b with the present fields of p merged in.
func (p BookPatch) Apply(b Book) Book {
	updated := b.Clone()
	if p.Title != nil {
		updated.Title = *p.Title
	}
	if p.Author != nil {
		author := *p.Author
		updated.Author = &author
	}
	return updated
}

func (b Book) Clone() Book {
	c := b
	if b.Author != nil {
		author := *b.Author
		c.Author = &author
	}
	return c
}

type UserRequest struct {
	Method string `json:"method"`
	Route  string `json:"route"`
}
