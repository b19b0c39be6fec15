package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Domenick1991/skybooking/internal/idp"
	"github.com/gin-gonic/gin"
)

const authCookieMaxAge = 60 * 60 * 24 * 7

// AuthHandler delegates every credential decision to the hosted identity
// provider; nothing here stores or checks passwords.
type AuthHandler struct {
	client *idp.Client
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func NewAuthHandler(client *idp.Client) *AuthHandler {
	return &AuthHandler{client: client}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/signup", h.signup)
	router.POST("/login", h.login)
	router.POST("/refresh", h.refresh)
}

func (h *AuthHandler) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	session, err := h.client.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(providerStatus(err, http.StatusBadRequest), gin.H{"message": providerMessage(err)})
		return
	}

	setAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "User created successfully. Please check your email for verification.",
		"user":    session.User,
	})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	session, err := h.client.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(providerStatus(err, http.StatusUnauthorized), gin.H{"message": providerMessage(err)})
		return
	}

	setAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"user":         session.User,
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

func (h *AuthHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	session, err := h.client.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(providerStatus(err, http.StatusUnauthorized), gin.H{"message": providerMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

// Me reports the identity carried by the verified access token.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := c.MustGet("claims").(*idp.Claims)
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": claims.Subject, "email": claims.Email},
	})
}

// AuthRequired verifies the bearer token against the identity provider's
// signing secret and stores its claims on the context.
func AuthRequired(client *idp.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing access token"})
			return
		}

		claims, err := client.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid access token"})
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

func setAuthCookie(c *gin.Context) {
	c.SetCookie("auth", "authenticated", authCookieMaxAge, "/", "", false, false)
}

func providerStatus(err error, fallback int) int {
	var apiErr *idp.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return fallback
}

func providerMessage(err error) string {
	var apiErr *idp.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Internal server error"
}
