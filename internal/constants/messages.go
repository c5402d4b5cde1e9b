package constants

// User-facing form messages. Field labels are interpolated with %s.
const (
	MsgRequiredField   = "%s : le champ n'est pas renseigné"
	MsgInvalidDate     = "%s : la date n'est pas valide"
	MsgInvalidURL      = "%s : l'URL ne commence pas avec http ou https"
	MsgGithubUsername  = "%s : la valeur doit être le nom du membre seul et ne doit pas être l'URL du membre ni commencer avec \"@\""
	MsgInvalidEmail    = "%s : l'adresse email n'est pas valide"
	MsgInvalidDomaine  = "%s : le domaine n'est pas valide"
	MsgStartTooEarly   = "date de début : la date doit être au moins %s"
	MsgEndBeforeStart  = "date de fin : la date doit être supérieure à la date de début"
	MsgProfileExists   = "Une fiche pour %s existe déjà"
	MsgPublishFailed   = "Erreur Github lors de la création de la fiche de %s"
	MsgDirectoryFailed = "Impossible de récupérer la liste des startups sur %s"
)

// Form field labels.
const (
	LabelFirstName = "prénom"
	LabelLastName  = "nom de famille"
	LabelRole      = "role"
	LabelStart     = "début de la mission"
	LabelEnd       = "fin de la mission"
	LabelStatus    = "statut"
	LabelReferent  = "référent"
	LabelEmail     = "email pro/perso"
	LabelDomaine   = "domaine"
	LabelWebsite   = "Site personnel"
	LabelGithub    = "Utilisateur Github"
	LabelStartDate = "date de début"
	LabelEndDate   = "date de fin"
)

// Login messages. The issue message is identical whether or not the email
// belongs to a member.
const (
	MsgLoginLinkSent     = "Un lien de connexion a été envoyé à %s s'il correspond à un membre. Il est valable %s."
	MsgLoginInvalidEmail = "L'adresse email n'est pas valide"
	MsgLoginLinkExpired  = "Ce lien de connexion n'est plus valide, merci d'en demander un nouveau."
	MsgLoginRequired     = "Vous devez être connecté pour accéder à cette page."
	MsgUnexpectedError   = "Une erreur inattendue est survenue, merci de réessayer."
)
