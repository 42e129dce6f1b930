package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

const currentUserKey = "currentUser"

// missingAccountHash is compared against when a login names no usable
// account, so unknown emails cost as much as wrong passwords.
var missingAccountHash, _ = bcrypt.GenerateFromPassword([]byte("fieldbook:no-account"), bcrypt.DefaultCost)

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// VerifyLogin reports whether plain unlocks account. A nil or inactive
// account never verifies but still pays for one bcrypt comparison.
func VerifyLogin(account *model.User, plain string) bool {
	if account == nil || account.Status != model.StatusActive || account.HashedPassword == "" {
		CheckPassword(string(missingAccountHash), plain)
		return false
	}
	return CheckPassword(account.HashedPassword, plain)
}

// GetCurrentUser returns the account JWTMiddleware loaded for this request.
func GetCurrentUser(c *gin.Context) (*model.User, bool) {
	u, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := u.(*model.User)
	return user, ok
}
