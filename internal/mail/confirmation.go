package mail

import "fmt"

// ConfirmationURL builds the client link embedding a one-time token. The
// client page calls back into the API to redeem it.
func ConfirmationURL(clientURI, token, language string, reset bool) string {
	if reset {
		return fmt.Sprintf("%s/password-reset-performed?cid=%s&lang=%s", clientURI, token, language)
	}
	return fmt.Sprintf("%s/confirmation-performed?cid=%s&lang=%s", clientURI, token, language)
}

// ConfirmationEmail returns the localized subject and HTML body for an
// email confirmation or password reset message.
func ConfirmationEmail(language, username, url string, reset bool) (subject, html string) {
	ru := language == "ru"
	switch {
	case reset && ru:
		subject = "Hookah Notes - Подтверждение смены пароля"
		html = body("Привет от Hookah Notes!",
			fmt.Sprintf("Вы инициировали смену пароля для аккаунта с именем пользователя: <b>%s</b>.<br>Пожалуйста, подтвердите это действие, перейдя по ссылке ниже:", username),
			url, "Сменить пароль", "Эта ссылка станет недействительной через 24 часа.")
	case reset:
		subject = "Hookah Notes - Password reset confirmation"
		html = body("Hello from Hookah Notes!",
			fmt.Sprintf("You have initiated password reset for the account with username: <b>%s</b>.<br>Please, confirm this action by clicking the link below:", username),
			url, "Reset password", "This link will expire in 24 hours.")
	case ru:
		subject = "Hookah Notes - Подтверждение электронной почты"
		html = body("Привет от Hookah Notes!",
			fmt.Sprintf("Вы создали аккаунт Hookah Notes с именем пользователя: <b>%s</b>.<br>Пожалуйста, подтвердите электронную почту, перейдя по ссылке ниже:", username),
			url, "Подтвердить почту", "Эта ссылка станет недействительной через 24 часа.")
	default:
		subject = "Hookah Notes - Email confirmation"
		html = body("Hello from Hookah Notes!",
			fmt.Sprintf("You have created a Hookah Notes account with username: <b>%s</b>.<br>Please, confirm your email by clicking the link below:", username),
			url, "Confirm email", "This link will expire in 24 hours.")
	}
	return subject, html
}

func body(heading, text, url, button, footer string) string {
	return fmt.Sprintf(`<div style="margin:10px auto;max-width:550px;font-size:14px;text-align:center;font-family:Helvetica,sans-serif;">
  <div style="font-size:22px;font-weight:bold;margin:30px 0;color:#000000;">%s</div>
  <p style="margin:40px 0">%s</p>
  <a href="%s" style="font-size:16px;background:#7e60fa;padding:12px 70px;color:#ffffff;border-radius:6px;text-decoration:none;">%s</a>
  <div style="color:#70787d;font-size:12px;margin-top:20px;">%s</div>
</div>`, heading, text, url, button, footer)
}
