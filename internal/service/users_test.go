package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-bookshelf/internal/models"
	"github.com/pribylovaa/go-bookshelf/internal/storage"
)

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestCreateUser_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByUsername(gomock.Any(), "reader").Return(nil, storage.ErrNotFound)
	st.EXPECT().UserByEmail(gomock.Any(), "reader@example.com").Return(nil, storage.ErrNotFound)
	st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Return(nil)

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "reader",
		Email:    "Reader@Example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	require.Equal(t, "reader", user.Username)
	// email нормализуется к нижнему регистру.
	require.Equal(t, "reader@example.com", user.Email)
	require.False(t, user.Verified)
	require.NotEqual(t, uuid.Nil, user.ID)
	// пароль хэшируется, в открытом виде не хранится.
	require.NotEqual(t, "s3cret", user.PasswordHash)
	require.True(t, checkPassword(user.PasswordHash, "s3cret"))
}

func TestCreateUser_InvalidInput(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	cases := []struct {
		name  string
		input CreateUserInput
	}{
		{"short_username", CreateUserInput{Username: "ab", Email: "a@b.com", Password: "pw"}},
		{"empty_username", CreateUserInput{Username: "   ", Email: "a@b.com", Password: "pw"}},
		{"bad_email", CreateUserInput{Username: "reader", Email: "not-an-email", Password: "pw"}},
		{"empty_email", CreateUserInput{Username: "reader", Email: "", Password: "pw"}},
		{"empty_password", CreateUserInput{Username: "reader", Email: "a@b.com", Password: ""}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tc.input)
			require.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestCreateUser_UsernameTaken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	existing := testUser(t, "pw")
	st.EXPECT().UserByUsername(gomock.Any(), "booklover").Return(existing, nil)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "booklover",
		Email:    "new@example.com",
		Password: "pw",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCreateUser_EmailTaken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	existing := testUser(t, "pw")
	st.EXPECT().UserByUsername(gomock.Any(), "newname").Return(nil, storage.ErrNotFound)
	st.EXPECT().UserByEmail(gomock.Any(), "booklover@example.com").Return(existing, nil)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "newname",
		Email:    "booklover@example.com",
		Password: "pw",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

// Гонка: уникальность нарушена уже на вставке.
func TestCreateUser_InsertRace(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByUsername(gomock.Any(), "reader").Return(nil, storage.ErrNotFound)
	st.EXPECT().UserByEmail(gomock.Any(), "reader@example.com").Return(nil, storage.ErrNotFound)
	st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "pw",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserByID_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t, "pw")
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)

	got, err := svc.UserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user, got)
}

func TestUserByID_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := uuid.New()
	st.EXPECT().UserByID(gomock.Any(), id).Return(nil, storage.ErrNotFound)

	_, err := svc.UserByID(context.Background(), id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserByID_NilID(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, err := svc.UserByID(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestListUsers_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	users := []models.User{*testUser(t, "pw")}
	opts := storage.ListOptions{Limit: 10, Offset: 0}
	st.EXPECT().ListUsers(gomock.Any(), opts).Return(users, nil)

	got, err := svc.ListUsers(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestUpdateUser_PartialFields(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t, "pw")
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)
	st.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{
		Verified: boolptr(false),
	})
	require.NoError(t, err)
	require.False(t, got.Verified)
	// незатронутые поля не меняются.
	require.Equal(t, "booklover", got.Username)
	require.Equal(t, "booklover@example.com", got.Email)
}

func TestUpdateUser_UsernameConflict(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t, "pw")
	other := testUser(t, "pw")
	other.ID = uuid.New()
	other.Username = "taken"

	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)
	st.EXPECT().UserByUsername(gomock.Any(), "taken").Return(other, nil)

	_, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{
		Username: strptr("taken"),
	})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t, "pw")
	other := testUser(t, "pw")
	other.ID = uuid.New()
	other.Email = "taken@example.com"

	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)
	st.EXPECT().UserByEmail(gomock.Any(), "taken@example.com").Return(other, nil)

	_, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{
		Email: strptr("taken@example.com"),
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateUser_SameValueNoConflict(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t, "pw")
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)
	// username не изменился — проверка уникальности не выполняется.
	st.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{
		Username: strptr("booklover"),
	})
	require.NoError(t, err)
}

func TestUpdateUser_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := uuid.New()
	st.EXPECT().UserByID(gomock.Any(), id).Return(nil, storage.ErrNotFound)

	_, err := svc.UpdateUser(context.Background(), id, UpdateUserInput{Verified: boolptr(true)})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := uuid.New()
	st.EXPECT().DeleteUser(gomock.Any(), id).Return(nil)

	require.NoError(t, svc.DeleteUser(context.Background(), id))
}

func TestDeleteUser_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := uuid.New()
	st.EXPECT().DeleteUser(gomock.Any(), id).Return(storage.ErrNotFound)

	require.ErrorIs(t, svc.DeleteUser(context.Background(), id), ErrNotFound)
}

func TestDeleteUser_StorageError(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := uuid.New()
	dbErr := errors.New("connection reset")
	st.EXPECT().DeleteUser(gomock.Any(), id).Return(dbErr)

	require.ErrorIs(t, svc.DeleteUser(context.Background(), id), dbErr)
}
