package services

import (
	"golang.org/x/crypto/bcrypt"

	"hostelmart/internal/domain"
	"hostelmart/internal/repos"
)

// burnHash is a hash of a throwaway password. Unknown emails burn a compare
// against it so a login attempt costs the same whether the account exists.
const burnHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// AuthService binds sessions to users. Login failures collapse into one
// sentinel, domain.ErrBadCredentials, so callers cannot tell a bad email
// from a bad password.
type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword([]byte(burnHash), []byte(password))
		return nil, domain.ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, domain.ErrBadCredentials
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

// CurrentUser resolves the sid cookie to its user, if any.
func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
