package i18n

// User-facing messages. The English text is the catalog key.
const (
	MsgInvalidEmail     = "That does not seem to be an email address."
	MsgSomethingWrong   = "Something went wrong, please try again later or contact us."
	MsgCheckInbox       = "Check your email to activate your account!"
	MsgFormNotFilled    = "The form was not properly filled in."
	MsgPasswordMismatch = "Passwords do not match; please retype them."
	MsgAccountCreated   = "Your account has been created. You can now log in."
	MsgInvalidToken     = "Invalid signup token"
	MsgInvalidReset     = "Invalid or expired reset token."
	MsgPasswordSet      = "Your password has been set. You can now log in."
	MsgResetRequested   = "If an account exists for this address, an email has been sent."
)

var translations = map[string]map[string]string{
	"fr_FR": {
		MsgInvalidEmail:     "Cela ne semble pas être une adresse e-mail.",
		MsgSomethingWrong:   "Une erreur s'est produite, veuillez réessayer plus tard ou nous contacter.",
		MsgCheckInbox:       "Consultez vos e-mails pour activer votre compte !",
		MsgFormNotFilled:    "Le formulaire n'a pas été correctement rempli.",
		MsgPasswordMismatch: "Les mots de passe ne correspondent pas ; veuillez les saisir à nouveau.",
		MsgAccountCreated:   "Votre compte a été créé. Vous pouvez maintenant vous connecter.",
		MsgInvalidToken:     "Jeton d'inscription invalide",
		MsgInvalidReset:     "Jeton de réinitialisation invalide ou expiré.",
		MsgPasswordSet:      "Votre mot de passe a été défini. Vous pouvez maintenant vous connecter.",
		MsgResetRequested:   "Si un compte existe pour cette adresse, un e-mail a été envoyé.",

		"Sign up":          "S'inscrire",
		"Your Email":       "Votre adresse e-mail",
		"Your Name":        "Votre nom",
		"Password":         "Mot de passe",
		"Confirm Password": "Confirmer le mot de passe",
		"Reset Password":   "Réinitialiser le mot de passe",
		"Confirm":          "Confirmer",
		"Back to signup":   "Retour à l'inscription",
	},
	"es_ES": {
		MsgInvalidEmail:     "Eso no parece ser una dirección de correo electrónico.",
		MsgSomethingWrong:   "Algo salió mal, inténtelo de nuevo más tarde o contáctenos.",
		MsgCheckInbox:       "¡Revise su correo electrónico para activar su cuenta!",
		MsgFormNotFilled:    "El formulario no se ha rellenado correctamente.",
		MsgPasswordMismatch: "Las contraseñas no coinciden; vuelva a escribirlas.",
		MsgAccountCreated:   "Su cuenta ha sido creada. Ya puede iniciar sesión.",
		MsgInvalidToken:     "Token de registro no válido",
		MsgInvalidReset:     "Token de restablecimiento no válido o caducado.",
		MsgPasswordSet:      "Su contraseña ha sido establecida. Ya puede iniciar sesión.",
		MsgResetRequested:   "Si existe una cuenta para esta dirección, se ha enviado un correo electrónico.",

		"Sign up":          "Registrarse",
		"Your Email":       "Su correo electrónico",
		"Your Name":        "Su nombre",
		"Password":         "Contraseña",
		"Confirm Password": "Confirmar contraseña",
		"Reset Password":   "Restablecer contraseña",
		"Confirm":          "Confirmar",
		"Back to signup":   "Volver al registro",
	},
}
