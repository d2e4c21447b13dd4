package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainUser "github.com/moodwatch/moodwatch-backend/internal/domain/user"
	errs "github.com/moodwatch/moodwatch-backend/internal/pkg/errors"
)

func newUserService(env *testEnv) *userService {
	return NewUserService(env.db, env.log, env.users).(*userService)
}

func TestCreateUserAssignsHealthID(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)

	u, err := svc.Create(env.ctx, CreateUserInput{Name: "  Ada Lovelace ", Email: "Ada@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, domainUser.RolePatient, u.Role)
	require.NotNil(t, u.Email)
	assert.Equal(t, "ada@example.com", *u.Email)
	assert.Nil(t, u.Phone)
	assert.Regexp(t, regexp.MustCompile(`^MEDADALOV\d{5}$`), u.HealthID)
}

func TestCreateUserRetriesTakenHealthID(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)
	seq := []int{12345, 12345, 67890}
	svc.digits = func() int {
		v := seq[0]
		seq = seq[1:]
		return v
	}

	first, err := svc.Create(env.ctx, CreateUserInput{Name: "Bo", Phone: "+15550001"})
	require.NoError(t, err)
	assert.Equal(t, "MEDBO12345", first.HealthID)

	second, err := svc.Create(env.ctx, CreateUserInput{Name: "Bo", Phone: "+15550002", Role: "Hospital"})
	require.NoError(t, err)
	assert.Equal(t, "MEDBO67890", second.HealthID)
	assert.Equal(t, domainUser.RoleHospital, second.Role)
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)

	cases := []struct {
		name string
		in   CreateUserInput
		msg  string
	}{
		{"short name", CreateUserInput{Name: "A", Email: "a@x.io"}, "Name must be at least 2 characters"},
		{"no contact", CreateUserInput{Name: "Alan"}, "Either email or phone is required"},
		{"bad role", CreateUserInput{Name: "Alan", Email: "a@x.io", Role: "admin"}, "Invalid role"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(env.ctx, tc.in)
			require.ErrorIs(t, err, errs.ErrInvalidArgument)
			assert.EqualError(t, err, tc.msg)
		})
	}
}

func TestCreateUserDuplicateContact(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)

	_, err := svc.Create(env.ctx, CreateUserInput{Name: "Grace", Email: "grace@navy.mil"})
	require.NoError(t, err)
	_, err = svc.Create(env.ctx, CreateUserInput{Name: "Grace H", Email: "GRACE@navy.mil"})
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.EqualError(t, err, "User already exists with this email or phone")
}

func TestResolveUser(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)
	u, err := svc.Create(env.ctx, CreateUserInput{Name: "Linus", Phone: "+15559999"})
	require.NoError(t, err)

	byID, err := svc.Resolve(env.ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, u.ID, byID.ID)

	byHealthID, err := svc.Resolve(env.ctx, " "+u.HealthID+" ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byHealthID.ID)

	_, err = svc.Resolve(env.ctx, "MEDNOBODY00000")
	require.ErrorIs(t, err, errs.ErrNotFound)
	assert.EqualError(t, err, msgUserNotFound)

	_, err = svc.Resolve(env.ctx, "7f9c7d1e-0000-4000-8000-000000000000")
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.Resolve(env.ctx, "")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}
