package repository

import (
	"database/sql"
	"errors"

	"github.com/minglehq/mingle/internal/domain"
)

type LocalUserRepository struct {
	db *DB
}

func newLocalUserRepository(db *DB) LocalUserRepository {
	return LocalUserRepository{db}
}

func (r LocalUserRepository) SaveCurrentUser(u *domain.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, bio, avatar_url, active_status, created_at)
		VALUES (:id, :first_name, :last_name, :email, :bio, :avatar_url, :active_status, :created_at)
	`
	_, err := r.db.NamedExec(query, u)
	return err
}

func (r LocalUserRepository) GetCurrentUser() (*domain.User, error) {
	query := `
		SELECT id, first_name, last_name, email, bio, avatar_url, active_status, created_at
		FROM users
		LIMIT 1
	`
	var u domain.User
	if err := r.db.Get(&u, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r LocalUserRepository) DeletePreviousUser() error {
	_, err := r.db.Exec(`DELETE FROM users`)
	return err
}
