package models

// User is a row of the users table. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID       int64   `db:"id" json:"user_id"`
	Username string  `db:"username" json:"username"`
	Name     *string `db:"name" json:"name,omitempty"`
	Email    *string `db:"email" json:"email,omitempty"`
	Password string  `db:"password" json:"-"`
}
