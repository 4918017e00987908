package middlewares

import (
	"encoding/base64"
	"os"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/centimehq/centime/models"
)

var (
	AuthzInvalidSession = "authz.invalid_session"
	JwtDecodeAndVerify  = "jwt.decode_and_verify"
	ServerInternalError = "server.internal_error"
)

// Auth struct represents parsed jwt information.
type Auth struct {
	UID   string `json:"uid"`
	Email string `json:"email"`

	jwt.StandardClaims
}

func Authenticate(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var auth Auth

		user := &models.User{}

		token := c.Get("Authorization")

		if len(token) == 0 {
			return c.Status(401).JSON(fiber.Map{
				"errors": []string{AuthzInvalidSession},
			})
		}

		token = strings.Replace(token, "Bearer ", "", -1)

		publicKeyPem, err := base64.StdEncoding.DecodeString(os.Getenv("JWT_PUBLIC_KEY"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{
				"errors": []string{ServerInternalError},
			})
		}

		publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPem)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{
				"errors": []string{ServerInternalError},
			})
		}

		_, err = jwt.ParseWithClaims(token, &auth, func(t *jwt.Token) (interface{}, error) {
			return publicKey, nil
		})
		if err != nil {
			return c.Status(422).JSON(fiber.Map{
				"errors": []string{JwtDecodeAndVerify},
			})
		}

		db.Where("uid = ?", auth.UID).Assign(
			&models.User{
				Email: auth.Email,
			},
		).FirstOrCreate(user)

		c.Locals("CurrentUser", user)

		return c.Next()
	}
}
