package handler

import (
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	appmail "github.com/a-marchenko/hookah-notes-api/internal/mail"
	"github.com/a-marchenko/hookah-notes-api/internal/repository"
	"github.com/a-marchenko/hookah-notes-api/internal/utils"
)

// ConfirmEmail redeems an email confirmation token and flips the user to
// confirmed. The token comes from the confirm_action header ("Bearer x")
// or a ?token= query parameter. Tokens are single-use: a second redemption
// attempt fails with 403 instead of re-applying.
func (h *AuthHandler) ConfirmEmail(c echo.Context) error {
	lang := normalizeLanguage(c.QueryParam("lang"))
	token := confirmationToken(c)
	if token == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"ok": false, "message": localized(lang,
			"No confirmation ID provided", "ID подтверждения не предоставлен")})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	userID, err := h.Confirmations.Redeem(ctx, repository.KindConfirm, token)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusForbidden, echo.Map{"ok": false, "message": localized(lang,
				"Confirmation ID is invalid", "ID подтверждения не действителен")})
		}
		return c.JSON(http.StatusForbidden, echo.Map{"ok": false, "message": localized(lang,
			"Something went wrong", "Что-то пошло не так")})
	}
	if err := h.Users.SetConfirmed(ctx, userID); err != nil {
		log.Printf("confirm: set confirmed for user %d failed: %v", userID, err)
		return c.JSON(http.StatusForbidden, echo.Map{"ok": false, "message": localized(lang,
			"Something went wrong", "Что-то пошло не так")})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "message": localized(lang,
		"Successfully confirmed", "Подтверждение выполнено")})
}

// RequestPasswordReset emails a reset link to the account matching the
// :login parameter (username or email). Unknown logins are a 404; mail
// transport failures surface as an error rather than a silent success.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	login := strings.TrimSpace(c.Param("login"))
	if login == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"ok": false, "message": "user not found"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.lookupByLogin(ctx, login)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"ok": false, "message": "user not found"})
		}
		return c.JSON(http.StatusForbidden, echo.Map{"ok": false, "message": "something went wrong"})
	}

	token, err := h.Confirmations.Create(ctx, repository.KindReset, u.ID)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"ok": false, "message": "something went wrong"})
	}
	url := appmail.ConfirmationURL(h.Cfg.ClientURI, token, u.Language, true)
	subject, html := appmail.ConfirmationEmail(u.Language, u.Username, url, true)
	if err := h.Mailer.Send(u.Email, subject, html); err != nil {
		log.Printf("confirm: reset mail to %s failed: %v", u.Email, err)
		return c.JSON(http.StatusForbidden, echo.Map{"ok": false, "message": "something went wrong"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"ok": true, "message": localized(u.Language,
		"Successfully requested", "Успешно запрошено")})
}

// ConfirmPasswordReset redeems a reset token and sets the new password.
// Every refresh token issued before the reset is revoked by bumping the
// token version, so a stolen session does not survive the reset.
func (h *AuthHandler) ConfirmPasswordReset(c echo.Context) error {
	lang := normalizeLanguage(c.QueryParam("lang"))
	token := confirmationToken(c)
	if token == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"ok": false, "message": localized(lang,
			"No confirmation ID provided", "ID подтверждения не предоставлен")})
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil || utf8.RuneCountInString(body.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "message": "password should be 6 characters or more"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	userID, err := h.Confirmations.Redeem(ctx, repository.KindReset, token)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"ok": false, "message": localized(lang,
			"Confirmation ID is invalid", "ID подтверждения не действителен")})
	}

	hash, err := utils.HashPassword(body.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"ok": false, "message": "something went wrong"})
	}
	if err := h.Users.SetPassword(ctx, userID, hash); err != nil {
		log.Printf("confirm: set password for user %d failed: %v", userID, err)
		return c.JSON(http.StatusForbidden, echo.Map{"ok": false, "message": "something went wrong"})
	}
	if err := h.Users.BumpTokenVersion(ctx, userID); err != nil {
		log.Printf("confirm: bump token version for user %d failed: %v", userID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true, "userId": userID, "message": localized(lang,
		"Successfully confirmed", "Подтверждение выполнено")})
}

// confirmationToken extracts a one-time token from the confirm_action
// header ("Bearer <token>") or the token query parameter.
func confirmationToken(c echo.Context) string {
	header := c.Request().Header.Get("confirm_action")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 {
		return parts[1]
	}
	return strings.TrimSpace(c.QueryParam("token"))
}

func localized(lang, en, ru string) string {
	if lang == "ru" {
		return ru
	}
	return en
}
