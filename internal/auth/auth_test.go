package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/slash/internal/store"
	"github.com/donaldgifford/slash/internal/store/mocks"
	domain "github.com/donaldgifford/slash/pkg/types"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pw      string
		wantErr error
	}{
		{name: "accepts eight characters", pw: "hunter22"},
		{name: "accepts multibyte runes", pw: "pässwörd"},
		{name: "rejects short password", pw: "short", wantErr: ErrWeakPassword},
		{name: "rejects empty password", pw: "", wantErr: ErrWeakPassword},
		{name: "rejects password longer than 72 bytes", pw: strings.Repeat("a", 73), wantErr: ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash, err := HashPassword(tt.pw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.pw, hash)
			assert.True(t, VerifyPassword(hash, tt.pw))
			assert.False(t, VerifyPassword(hash, tt.pw+"x"))
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("correct horse")
	require.NoError(t, err)
	b, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_GarbageHash(t *testing.T) {
	t.Parallel()

	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "whatever"))
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	alice := &domain.User{ID: "u1", Username: "alice", PasswordHash: hash}

	tests := []struct {
		name     string
		password string
		setup    func(m *mocks.MockStore)
		wantErr  error
		wantUser bool
	}{
		{
			name:     "valid credentials",
			password: "s3cret-pass",
			setup: func(m *mocks.MockStore) {
				m.EXPECT().GetUserByUsername(mock.Anything, "alice").Return(alice, nil).Once()
			},
			wantUser: true,
		},
		{
			name:     "wrong password",
			password: "nope-nope",
			setup: func(m *mocks.MockStore) {
				m.EXPECT().GetUserByUsername(mock.Anything, "alice").Return(alice, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			password: "s3cret-pass",
			setup: func(m *mocks.MockStore) {
				m.EXPECT().GetUserByUsername(mock.Anything, "alice").
					Return(nil, fmt.Errorf("getting user alice: %w", store.ErrNotFound)).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := mocks.NewMockStore(t)
			tt.setup(m)

			u, err := Authenticate(context.Background(), m, "alice", tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", u.ID)
		})
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	t.Parallel()

	m := mocks.NewMockStore(t)
	m.EXPECT().GetUserByUsername(mock.Anything, "alice").Return(nil, errors.New("db down")).Once()

	_, err := Authenticate(context.Background(), m, "alice", "whatever")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "looking up user")
}
