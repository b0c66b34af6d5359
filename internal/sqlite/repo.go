package sqlite

import (
	"github.com/jmoiron/sqlx"

	"tubefeed/internal/tubefeed"
)

// Ensure Repo implements the Repository interface
var _ tubefeed.Repository = (*Repo)(nil)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repo {
	return Repo{db: db}
}
