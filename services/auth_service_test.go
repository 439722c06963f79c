package services

import (
	"context"
	"testing"

	"github.com/covedrive/cricket-club/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newFakePlayerRepo())

	player, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ravi",
		LastName:  "Sharma",
		Email:     "ravi@club.example",
		Password:  "correct-horse",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RolePlayer, player.Role)
	assert.Empty(t, player.PasswordHash, "hash never leaves the service")

	loggedIn, err := svc.Login(context.Background(), LoginInput{
		Email:    "ravi@club.example",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, player.ID, loggedIn.ID)
	assert.Empty(t, loggedIn.PasswordHash)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewAuthService(newFakePlayerRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		LastName: "NoFirstName",
		Email:    "x@club.example",
		Password: "longenough",
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.Register(context.Background(), RegisterInput{
		FirstName: "Short",
		Email:     "short@club.example",
		Password:  "tiny",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewAuthService(newFakePlayerRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ravi",
		Email:     "ravi@club.example",
		Password:  "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "ravi@club.example",
		Password: "battery-staple",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakePlayerRepo())

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "ghost@club.example",
		Password: "whatever123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
