package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/madcrow/auth-service/internal/config"
	"github.com/madcrow/auth-service/internal/storage"
)

func TestValidatePassword_Policy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		pw      string
		wantErr error
	}{
		{"empty", "", ErrEmptyPassword},
		{"too_short", "abc1", ErrWeakPassword},
		{"no_digit", "passwordonly", ErrWeakPassword},
		{"no_letter", "12345678", ErrWeakPassword},
		{"too_long", repeatRune('a', 128) + "1", ErrWeakPassword},
		{"min_ok", "abcdefg1", nil},
		{"unicode_ok", "пароль12", nil},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := validatePassword(tc.pw)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func repeatRune(r rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}

func TestDigest_Deterministic(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	h1 := svc.digest("password1", "salt-a")
	h2 := svc.digest("password1", "salt-a")
	require.Equal(t, h1, h2)

	// Другая соль — другой хэш.
	require.NotEqual(t, h1, svc.digest("password1", "salt-b"))
	// Другой пароль — другой хэш.
	require.NotEqual(t, h1, svc.digest("password2", "salt-a"))
}

func TestDigest_SchemeSHA256(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	svc.password.Scheme = config.SchemeSHA256

	// SHA-256("password1"+"salt") в hex, фиксированная длина 64.
	h := svc.digest("password1", "salt")
	require.Len(t, h, 64)
	require.Equal(t, h, svc.digest("password1", "salt"))
}

func TestVerifyCredential(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	account := testAccount(t, svc, "password1")

	ok, err := svc.verifyCredential(account, "password1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.verifyCredential(account, "password2")
	require.NoError(t, err)
	require.False(t, ok)

	account.PasswordHash = ""
	account.PasswordSalt = ""
	_, err = svc.verifyCredential(account, "password1")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrCredentialNotSet)
}

func TestSetCredential_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := uuid.New()

	st.EXPECT().UpdateCredential(gomock.Any(), id, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, hash, salt string) error {
			require.NotEmpty(t, hash)
			require.NotEmpty(t, salt)
			// Хэш пересчитывается по сохранённой соли.
			require.Equal(t, svc.digest("newpassword2", salt), hash)
			return nil
		})

	require.NoError(t, svc.SetCredential(context.Background(), id, "newpassword2"))
}

func TestSetCredential_UnknownAccount(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := uuid.New()
	st.EXPECT().UpdateCredential(gomock.Any(), id, gomock.Any(), gomock.Any()).Return(storage.ErrNotFound)

	err := svc.SetCredential(context.Background(), id, "newpassword2")
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetCredential_WeakPassword(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	err := svc.SetCredential(context.Background(), uuid.New(), "short1")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestGenerateSalt_UniqueAndSized(t *testing.T) {
	t.Parallel()

	s1, err := generateSalt(32)
	require.NoError(t, err)
	s2, err := generateSalt(32)
	require.NoError(t, err)

	require.NotEqual(t, s1, s2)
	require.NotEmpty(t, s1)
}
