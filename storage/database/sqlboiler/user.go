package boiledrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/user"
)

const (
	usersTable    = "users"
	usersEmailKey = "users_email_key"
)

var userColumns = []string{"id", "name", "email", "password_hash", "created_at", "updated_at", "last_login"}

type userRow struct {
	ID           string    `boil:"id"`
	Name         string    `boil:"name"`
	Email        string    `boil:"email"`
	PasswordHash []byte    `boil:"password_hash"`
	CreatedAt    time.Time `boil:"created_at"`
	UpdatedAt    time.Time `boil:"updated_at"`
	LastLogin    null.Time `boil:"last_login"`
}

func boilUser(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Email:        usr.Email,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

func (row userRow) values() []interface{} {
	return []interface{}{row.ID, row.Name, row.Email, row.PasswordHash, row.CreatedAt, row.UpdatedAt, row.LastLogin}
}

func (row userRow) unboil() user.User {
	return user.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
		LastLogin:    row.LastLogin.Time.UTC(),
	}
}

type userRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{exec: exec}
}

// trapErr maps psql errors to user errors
func (repo userRepository) trapErr(err error, msg string) error {
	if isUniqueViolation(err, usersEmailKey) {
		return user.ErrEmailExists
	}
	return trapNoRowsErr(err, user.ErrNotFound, msg)
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers []user.User, exec ...core.DBExecutor) error {
	mods := []qm.QueryMod{qm.From(usersTable), qm.Where("email = ?", email)}
	if len(excludedUsers) > 0 {
		ids := make([]interface{}, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		mods = append(mods, qm.WhereIn("id NOT IN ?", ids...))
	}

	found, err := exists(ctx, getExec(repo.exec, exec), mods...)
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if found {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	usr.ID = uuid.New().String()
	row := boilUser(usr)
	var created userRow
	err := queries.Raw(insertQuery(usersTable, userColumns), row.values()...).Bind(ctx, getExec(repo.exec, exec), &created)
	if err != nil {
		return user.User{}, repo.trapErr(err, "inserting user")
	}
	return created.unboil(), nil
}

func (repo userRepository) QueryUsers(ctx context.Context, exec ...core.DBExecutor) ([]user.User, error) {
	var rows []userRow
	q := newQuery(qm.Select(userColumns...), qm.From(usersTable), qm.OrderBy("created_at ASC"))
	if err := q.Bind(ctx, getExec(repo.exec, exec), &rows); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.unboil())
	}
	return users, nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter, exec ...core.DBExecutor) (user.User, error) {
	mods := []qm.QueryMod{qm.Select(userColumns...), qm.From(usersTable)}
	switch {
	case filter.ID != "":
		if !validID(filter.ID) {
			return user.User{}, user.ErrNotFound
		}
		mods = append(mods, qm.Where("id = ?", filter.ID))
	case filter.Email != "":
		mods = append(mods, qm.Where("email = ?", filter.Email))
	default:
		return user.User{}, user.ErrNotFound
	}

	var row userRow
	if err := newQuery(mods...).Bind(ctx, getExec(repo.exec, exec), &row); err != nil {
		return user.User{}, repo.trapErr(err, "finding user")
	}
	return row.unboil(), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	row := boilUser(usr)
	cols := []string{"name", "email", "password_hash", "updated_at", "last_login"}
	args := []interface{}{row.Name, row.Email, row.PasswordHash, row.UpdatedAt, row.LastLogin, row.ID}

	var updated userRow
	err := queries.Raw(updateQuery(usersTable, cols, userColumns, "id"), args...).Bind(ctx, getExec(repo.exec, exec), &updated)
	if err != nil {
		return user.User{}, repo.trapErr(err, "updating user")
	}
	return updated.unboil(), nil
}

// DeleteUser relies on ON DELETE CASCADE for everything the user owns.
func (repo userRepository) DeleteUser(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if !validID(id) {
		return nil
	}
	q := newQuery(qm.From(usersTable), qm.Where("id = ?", id))
	queries.SetDelete(q)
	if _, err := q.ExecContext(ctx, getExec(repo.exec, exec)); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return nil
}
