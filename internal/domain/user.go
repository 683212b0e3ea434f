package domain

type User struct {
	ID     string `db:"id"`
	Email  string `db:"email"`
	Name   string `db:"name"`
	Hash   string `db:"password_hash"`
	Role   string `db:"role"` // BUYER | SELLER | ADMIN
	Hostel string `db:"hostel"`
	Room   string `db:"room"`
	Banned bool   `db:"banned"`
}

func (u *User) IsSeller() bool { return u.Role == "SELLER" }
func (u *User) IsAdmin() bool  { return u.Role == "ADMIN" }
