package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"blog-api/internal/core/database"
	"blog-api/internal/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := database.Open(postgres.New(postgres.Config{Conn: sqlDB}), "silent")
	require.NoError(t, err)
	return db, mock
}

var userCols = []string{"id", "name", "email", "slug", "password_hash", "bio", "image", "created_at", "updated_at"}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), domain.ErrConflict)
	assert.ErrorIs(t, translate(errors.New("Error 1062: Duplicate entry 'a' for key 'email'")), domain.ErrConflict)
	assert.ErrorIs(t, translate(errors.New("UNIQUE constraint failed: users.email")), domain.ErrConflict)

	other := errors.New("conn reset")
	assert.Equal(t, other, translate(other))
}

func TestUserCreate(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	u := &domain.User{Name: "Ana", Email: "ana@x.com", Slug: "ana-x-com", PasswordHash: "h"}
	require.NoError(t, NewUserRepo(db).Create(context.Background(), u))
	assert.Equal(t, 11, u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := NewUserRepo(db).Create(context.Background(), &domain.User{Email: "ana@x.com"})
	require.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindByID(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "Ana", "ana@x.com", "ana-x-com", "h", "", "", now, now))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(userCols))

	r := NewUserRepo(db)
	u, err := r.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "h", u.PasswordHash)

	_, err = r.FindByID(context.Background(), 4)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindByEmailPreloadsRoles(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("ana@x.com", 1).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "Ana", "ana@x.com", "ana-x-com", "h", "", "", now, now))
	mock.ExpectQuery(`SELECT \* FROM "user_roles"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "role_id"}).AddRow(3, 1))
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).AddRow(1, "Admin", "admin"))

	u, err := NewUserRepo(db).FindByEmail(context.Background(), "  ANA@x.com ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin"}, u.RoleNames())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserList(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM "users" ORDER BY id desc`).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(2, "Bob", "bob@x.com", "bob-x-com", "h", "", "", now, now).
			AddRow(1, "Ana", "ana@x.com", "ana-x-com", "h", "", "", now, now))
	mock.ExpectQuery(`SELECT \* FROM "user_roles"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "role_id"}))

	users, total, err := NewUserRepo(db).List(context.Background(), 0, 0, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, users, 2)
	assert.Equal(t, 2, users[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostsUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(sqlmock.NewRows(userCols))

	_, err := NewUserRepo(db).Posts(context.Background(), 9)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleFindBySlugs(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewRoleRepo(db)

	roles, err := r.FindBySlugs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, roles)

	mock.ExpectQuery(`SELECT \* FROM "roles" WHERE slug IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).AddRow(1, "Admin", "admin"))
	roles, err = r.FindBySlugs(context.Background(), []string{"Admin", "admin "})
	require.NoError(t, err)
	require.Len(t, roles, 1)

	mock.ExpectQuery(`SELECT \* FROM "roles" WHERE slug IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).AddRow(1, "Admin", "admin"))
	_, err = r.FindBySlugs(context.Background(), []string{"admin", "ghost"})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCRUDGetCreateDelete(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewCategoryRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO "categories"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Create(ctx, &domain.Category{Name: "Go", Slug: "go"}), domain.ErrConflict)

	mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).AddRow(5, "Go", "go"))
	mock.ExpectExec(`DELETE FROM "categories" WHERE "categories"."id" = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	c, err := r.Delete(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "go", c.Slug)

	mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}))
	_, err = r.Get(ctx, 6)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryFindByName(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "categories" WHERE LOWER\(name\) = \$1`).
		WithArgs("golang", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).AddRow(2, "Golang", "golang"))

	c, err := NewCategoryRepo(db).FindByName(context.Background(), " GoLang")
	require.NoError(t, err)
	assert.Equal(t, 2, c.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewPostRepo(db).FindByID(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
