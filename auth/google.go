package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	stateCookie       = "oauthstate"
)

// NewGoogleConfig builds the OAuth2 client config for Google sign-in.
func NewGoogleConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"openid",
		},
		Endpoint: google.Endpoint,
	}
}

type googleUser struct {
	Sub       string `json:"sub"`
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	GivenName string `json:"given_name"`
}

func (h *Handler) GoogleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := newState()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(stateCookie, state, 600, "/", "", c.Request.TLS != nil, true)

		target := h.Google.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "select_account"))
		c.Redirect(http.StatusTemporaryRedirect, target)
	}
}

func (h *Handler) GoogleCallback() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(stateCookie)
		if err != nil || cookie == "" || c.Query("state") != cookie {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid state parameter"})
			return
		}
		c.SetCookie(stateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

		code := c.Query("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing code parameter"})
			return
		}

		ctx := c.Request.Context()
		token, err := h.Google.Exchange(ctx, code)
		if err != nil {
			h.Log.WithError(err).Warn("google token exchange failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to exchange token"})
			return
		}

		profile, err := h.fetchGoogleUser(c, token)
		if err != nil {
			h.Log.WithError(err).Warn("google userinfo failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		name := profile.Name
		if name == "" {
			name = profile.GivenName
		}
		user, err := h.Identity.LoginExternal(ctx, profile.Sub, profile.Email, name)
		if err != nil {
			h.Log.WithError(err).WithField("email", profile.Email).Warn("google sign-in rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		issued, err := h.issue(ctx, user)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.Redirect(http.StatusFound, strings.TrimRight(h.FrontendURL, "/")+"/?token="+url.QueryEscape(issued))
	}
}

func (h *Handler) fetchGoogleUser(c *gin.Context, token *oauth2.Token) (*googleUser, error) {
	endpoint := h.UserInfoURL
	if endpoint == "" {
		endpoint = GoogleUserInfoURL
	}

	resp, err := h.Google.Client(c.Request.Context(), token).Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("get user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info returned %s", resp.Status)
	}

	var profile googleUser
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if profile.Sub == "" {
		profile.Sub = profile.ID
	}
	if profile.Sub == "" || profile.Email == "" {
		return nil, errors.New("user info missing id or email")
	}
	return &profile, nil
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
