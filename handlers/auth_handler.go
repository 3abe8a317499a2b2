package handlers

import (
	"github.com/bluestock/ipotrack/middleware"
	"github.com/bluestock/ipotrack/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Users     *services.UserService
	JWTSecret string
}

func NewAuthHandler(users *services.UserService, jwtSecret string) *AuthHandler {
	return &AuthHandler{Users: users, JWTSecret: jwtSecret}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	user, err := h.Users.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	user, err := h.Users.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := middleware.GenerateJWT(h.JWTSecret, user)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.Map{
		"token": token,
		"user":  user,
	})
}
