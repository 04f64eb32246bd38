package core

// UserRef is the public projection of a user joined into other resources (authors, thread owners).
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Actor is the authenticated user performing a request.
type Actor struct {
	ID      string
	Name    string
	Email   string
	IsAdmin bool
}
