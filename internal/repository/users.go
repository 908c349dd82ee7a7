package repository

import (
	"database/sql"

	"github.com/watshodapay/watshodapay-go/internal/model"
)

var userSchema = schema[model.User, model.UserInput, model.UserPatch]{
	table:   "users",
	columns: []string{"id", "email", "password_hash", "name", "created_at", "updated_at"},
	filters: map[string]string{"id": "id", "email": "email"},
	orderBy: "id",
	scan: func(r rowScanner) (model.User, error) {
		var u model.User
		err := r.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt, &u.UpdatedAt)
		return u, err
	},
	insert: func(in model.UserInput) []assignment {
		return []assignment{
			{"email", in.Email},
			{"password_hash", in.PasswordHash},
			{"name", in.Name},
		}
	},
	update: func(p model.UserPatch) []assignment {
		var set []assignment
		if p.Email != nil {
			set = append(set, assignment{"email", *p.Email})
		}
		if p.Name != nil {
			set = append(set, assignment{"name", *p.Name})
		}
		if p.PasswordHash != nil {
			set = append(set, assignment{"password_hash", *p.PasswordHash})
		}
		return set
	},
	idOf: func(u *model.User) int64 { return u.ID },
}

// NewUserRepository returns the SQL gateway for users.
func NewUserRepository(db *sql.DB, d Dialect) *SQLGateway[model.User, model.UserInput, model.UserPatch] {
	return newSQLGateway(db, d, userSchema)
}
