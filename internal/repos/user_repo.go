package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"bookery/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, email, first_name, last_name, password_hash, phone, address, role`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Exists(id int64) (bool, error) {
	var n int
	if err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) Create(u *domain.User) error {
	var n int
	if err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?)`, u.Email); err != nil {
		return err
	}
	if n > 0 {
		return domain.Conflictf("Email is already registered")
	}
	res, err := r.DB.Exec(`
		INSERT INTO users(email, first_name, last_name, password_hash, phone, address, role)
		VALUES(?,?,?,?,?,?,?)
	`, u.Email, u.FirstName, u.LastName, u.Hash, u.Phone, u.Address, u.Role)
	if err != nil {
		return errors.Wrap(err, "insert user")
	}
	u.ID, _ = res.LastInsertId()
	return nil
}

// ---------- API tokens ----------

func (r *UserRepo) InsertToken(token string, userID int64) error {
	_, err := r.DB.Exec(`INSERT INTO tokens(id, user_id, last_seen) VALUES(?,?,CURRENT_TIMESTAMP)`, token, userID)
	return errors.Wrap(err, "insert token")
}

// TokenUser resolves a bearer token to its user and bumps last_seen.
func (r *UserRepo) TokenUser(token string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id, u.email, u.first_name, u.last_name, u.password_hash, u.phone, u.address, u.role
      FROM tokens t
      JOIN users u ON u.id = t.user_id
      WHERE t.id = ?`, token)
	if err != nil {
		return nil, err
	}
	_, _ = r.DB.Exec(`UPDATE tokens SET last_seen=CURRENT_TIMESTAMP WHERE id = ?`, token)
	return &u, nil
}

func (r *UserRepo) RevokeToken(token string) error {
	_, err := r.DB.Exec(`DELETE FROM tokens WHERE id = ?`, token)
	return err
}
