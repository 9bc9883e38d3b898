package handler

import (
	"context"
	"log"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/a-marchenko/hookah-notes-api/internal/config"
	appmail "github.com/a-marchenko/hookah-notes-api/internal/mail"
	"github.com/a-marchenko/hookah-notes-api/internal/middleware"
	"github.com/a-marchenko/hookah-notes-api/internal/model"
	"github.com/a-marchenko/hookah-notes-api/internal/queue"
	"github.com/a-marchenko/hookah-notes-api/internal/repository"
	"github.com/a-marchenko/hookah-notes-api/internal/utils"
)

// Cookie names used for the token pair.
const (
	accessCookieName  = "access-token"
	refreshCookieName = "refresh-token"
)

var usernamePattern = regexp.MustCompile(`^\w+$`)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg           config.Config
	Users         UserStore
	Confirmations ConfirmationStore
	Mailer        appmail.Mailer
	Publish       PublishFunc
}

func NewAuthHandler(cfg config.Config, users UserStore, confirmations ConfirmationStore, mailer appmail.Mailer, publish PublishFunc) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Confirmations: confirmations, Mailer: mailer, Publish: publish}
}

// ----- DTOs -----

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Language string `json:"language"`
}

type loginReq struct {
	Login    string `json:"login"` // username or email
	Password string `json:"password"`
}

type refreshResp struct {
	OK           bool   `json:"ok"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Language     string `json:"language"`
}

// Signup validates the input, creates the user with a default role and an
// unconfirmed flag, stores a one-time confirmation token and emails the
// confirmation link. Mail delivery failure is a hard error: an account
// nobody can confirm is useless.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	language := normalizeLanguage(req.Language)

	if utf8.RuneCountInString(req.Username) < 3 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username should be 3 characters or more"})
	}
	if !usernamePattern.MatchString(req.Username) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only letters, numbers and underscores allowed in username"})
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email format"})
	}
	if utf8.RuneCountInString(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password should be 6 characters or more"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, req.Email, hash, language)
	if err != nil {
		switch err {
		case repository.ErrUsernameExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "username is busy"})
		case repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "email is busy"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}

	token, err := h.Confirmations.Create(ctx, repository.KindConfirm, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	url := appmail.ConfirmationURL(h.Cfg.ClientURI, token, language, false)
	subject, html := appmail.ConfirmationEmail(language, req.Username, url, false)
	if err := h.Mailer.Send(req.Email, subject, html); err != nil {
		log.Printf("auth: confirmation mail to %s failed: %v", req.Email, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not send confirmation email"})
	}

	if h.Publish != nil {
		_ = h.Publish(ctx, queue.ActivityEvent{
			Type:     queue.EventUserRegistered,
			UserID:   uid,
			Username: req.Username,
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": uid, "username": req.Username})
}

// Login accepts a username or email plus a password. Unknown logins, wrong
// passwords and unconfirmed accounts are all user-input errors; the first
// two share one message so the response does not reveal which part failed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login/password required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.lookupByLogin(ctx, req.Login)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "incorrect login or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	if !u.Confirmed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "you must confirm your email to login"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incorrect login or password"})
	}

	access, err := utils.NewAccessToken(h.Cfg.AccessSecret, u, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshSecret, u, h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	h.setTokenCookies(c, access, refresh)

	return c.JSON(http.StatusOK, echo.Map{
		"accessToken": access.Token,
		"user":        toUserPart(u),
	})
}

// Logout clears the token cookies. The refresh token itself stays valid
// until it expires or the user invalidates all sessions; this mirrors the
// cookie-clearing logout of the web client.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearTokenCookies(c)
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// RefreshTokens exchanges a valid, non-revoked refresh token for a fresh
// pair. This is the only place revocation is enforced; every failure mode
// collapses into a 403 with ok=false rather than an error, so the client
// treats any negative answer as "log in again".
func (h *AuthHandler) RefreshTokens(c echo.Context) error {
	fail := func() error {
		return c.JSON(http.StatusForbidden, refreshResp{OK: false, Language: "en"})
	}

	raw := h.tokenFromRequest(c, refreshCookieName, "refresh_tokens")
	if raw == "" {
		return fail()
	}
	claims, err := utils.ParseRefreshToken(h.Cfg.RefreshSecret, raw)
	if err != nil {
		log.Printf("auth: refresh token rejected: %v", err)
		return fail()
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		log.Printf("auth: refresh for missing user %d", claims.UserID)
		return fail()
	}
	if u.TokenVersion != claims.TokenVersion {
		log.Printf("auth: stale refresh token for user %d (have %d, token %d)",
			u.ID, u.TokenVersion, claims.TokenVersion)
		return fail()
	}

	access, err := utils.NewAccessToken(h.Cfg.AccessSecret, u, h.Cfg.AccessTTLMin)
	if err != nil {
		return fail()
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshSecret, u, h.Cfg.RefreshTTLDays)
	if err != nil {
		return fail()
	}
	h.setTokenCookies(c, access, refresh)

	return c.JSON(http.StatusCreated, refreshResp{
		OK:           true,
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		Language:     u.Language,
	})
}

// InvalidateTokens bumps the user's revocation counter, rejecting every
// refresh token issued so far. Already-issued access tokens stay valid
// until their own expiry (at most the access TTL).
func (h *AuthHandler) InvalidateTokens(c echo.Context) error {
	raw := h.tokenFromRequest(c, refreshCookieName, "invalidate_tokens")
	if raw == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"ok": false, "message": "invalid token"})
	}
	claims, err := utils.ParseRefreshToken(h.Cfg.RefreshSecret, raw)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"ok": false, "message": "invalid token"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"ok": false, "message": "user not found"})
	}
	if err := h.Users.BumpTokenVersion(ctx, u.ID); err != nil {
		log.Printf("auth: invalidate for user %d failed: %v", u.ID, err)
		message := "Something went wrong :("
		if u.Language == "ru" {
			message = "Что-то пошло не так :("
		}
		return c.JSON(http.StatusForbidden, echo.Map{"ok": false, "message": message})
	}
	h.clearTokenCookies(c)

	message := "Successfully logged out"
	if u.Language == "ru" {
		message = "Выход выполнен успешно"
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "message": message})
}

// Me returns the current user looked up by the id the JWT guard put into
// context.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// lookupByLogin resolves a username-or-email login field; "@" means email.
func (h *AuthHandler) lookupByLogin(ctx context.Context, login string) (model.User, error) {
	if strings.Contains(login, "@") {
		return h.Users.GetByEmail(ctx, login)
	}
	return h.Users.GetByUsername(ctx, login)
}

// tokenFromRequest reads a token from the named cookie or from a custom
// header carrying "Bearer <token>".
func (h *AuthHandler) tokenFromRequest(c echo.Context, cookieName, headerName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(headerName)
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 {
		return parts[1]
	}
	return ""
}

func (h *AuthHandler) setTokenCookies(c echo.Context, access utils.AccessToken, refresh utils.RefreshToken) {
	c.SetCookie(&http.Cookie{
		Name: accessCookieName, Value: access.Token, Path: "/",
		Expires: access.Exp, HttpOnly: true, Secure: true, SameSite: http.SameSiteStrictMode,
	})
	c.SetCookie(&http.Cookie{
		Name: refreshCookieName, Value: refresh.Token, Path: "/",
		Expires: refresh.Exp, HttpOnly: true, Secure: true, SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearTokenCookies(c echo.Context) {
	expired := time.Unix(0, 0)
	c.SetCookie(&http.Cookie{
		Name: accessCookieName, Value: "", Path: "/",
		Expires: expired, HttpOnly: true, Secure: true, SameSite: http.SameSiteStrictMode,
	})
	c.SetCookie(&http.Cookie{
		Name: refreshCookieName, Value: "", Path: "/",
		Expires: expired, HttpOnly: true, Secure: true, SameSite: http.SameSiteStrictMode,
	})
}
