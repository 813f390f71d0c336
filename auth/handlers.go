// Package auth serves registration, login, logout and Google sign-in, and
// provides the bearer-token middleware used by the workout routes.
package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"activeflow/models"
	"activeflow/store"
)

type Handler struct {
	Identity store.Identity
	Tokens   *Tokens
	// Sessions may be nil, in which case tokens are never revocable.
	Sessions store.SessionStore
	Log      logrus.FieldLogger

	// Google is nil when Google sign-in is not configured.
	Google      *oauth2.Config
	UserInfoURL string
	FrontendURL string
}

type registerRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Username string `json:"username" form:"username"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterRoutes mounts the auth group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register())
	rg.POST("/login", h.Login())
	rg.POST("/logout", AuthMiddleware(h.Tokens, h.Sessions, h.Log), h.Logout())
	rg.GET("/me", AuthMiddleware(h.Tokens, h.Sessions, h.Log), h.Me())
	if h.Google != nil {
		rg.GET("/google/login", h.GoogleLogin())
		rg.GET("/google/callback", h.GoogleCallback())
	}
}

// issue signs a token for user and records the session.
func (h *Handler) issue(ctx context.Context, user *models.User) (string, error) {
	token, exp, err := h.Tokens.Generate(user.ID)
	if err != nil {
		return "", err
	}
	if h.Sessions != nil {
		if err := h.Sessions.Save(ctx, models.Session{UserID: user.ID, Token: token, ExpiresAt: exp}); err != nil {
			return "", err
		}
	}
	return token, nil
}

func (h *Handler) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := h.Identity.Register(c.Request.Context(), req.Email, req.Password, req.Username)
		if err != nil {
			h.Log.WithError(err).WithField("email", req.Email).Warn("register failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		token, err := h.issue(c.Request.Context(), user)
		if err != nil {
			h.Log.WithError(err).WithField("user_id", user.ID).Error("token issue failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		h.Log.WithField("user_id", user.ID).Info("user registered")
		c.JSON(http.StatusOK, gin.H{
			"message": "User registered successfully",
			"user":    user,
			"token":   token,
		})
	}
}

func (h *Handler) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := h.Identity.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			h.Log.WithError(err).WithField("email", req.Email).Warn("login failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		token, err := h.issue(c.Request.Context(), user)
		if err != nil {
			h.Log.WithError(err).WithField("user_id", user.ID).Error("token issue failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"user":    user,
			"token":   token,
		})
	}
}

func (h *Handler) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Sessions != nil {
			if err := h.Sessions.Revoke(c.Request.Context(), c.GetString(tokenKey)); err != nil {
				h.Log.WithError(err).Error("session revoke failed")
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

func (h *Handler) Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	}
}
