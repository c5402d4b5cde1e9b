package services

import (
	"bytes"
	"html/template"
)

var loginMailTemplate = template.Must(template.New("login").Parse(`<p>Bonjour,</p>
<p>Vous avez demandé à vous connecter au secrétariat. Ce lien est valable {{.Validity}} et ne fonctionne qu'une fois :</p>
<p><a href="{{.URL}}">Me connecter</a></p>
<p>Si vous n'êtes pas à l'origine de cette demande, ignorez cet email.</p>`))

var referentMailTemplate = template.Must(template.New("referent").Parse(`<p>Bonjour {{.Referent}},</p>
<p>{{.Name}} vient de créer sa fiche et vous a indiqué comme référent.</p>
<p>La pull request est à relire ici : <a href="{{.PRURL}}">{{.PRURL}}</a></p>
<p>Sa fiche sera visible sur <a href="{{.UserURL}}">{{.UserURL}}</a> une fois fusionnée.</p>`))

func renderMail(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
