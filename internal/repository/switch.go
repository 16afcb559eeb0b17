package repository

import (
	"database/sql"
	"errors"

	"github.com/appfair/marketplace/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrSwitchNotFound = errors.New("feature switch not found")
)

type SwitchRepository interface {
	ByName(name string) (*model.Switch, error)
	Set(name string, active bool) error
}

type switchRepository struct {
	db *sqlx.DB
}

func NewSwitchRepository(db *sqlx.DB) SwitchRepository {
	return &switchRepository{db: db}
}

func (r *switchRepository) ByName(name string) (*model.Switch, error) {
	sw := &model.Switch{}
	query := `SELECT * FROM feature_switches WHERE name = $1`

	err := r.db.Get(sw, query, name)
	if err == sql.ErrNoRows {
		return nil, ErrSwitchNotFound
	}

	return sw, err
}

func (r *switchRepository) Set(name string, active bool) error {
	query := `INSERT INTO feature_switches (name, active)
	          VALUES ($1, $2)
	          ON CONFLICT (name) DO UPDATE SET active = $2`

	_, err := r.db.Exec(query, name, active)
	return err
}
