package domain

type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}
