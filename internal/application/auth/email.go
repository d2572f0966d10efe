package auth

import (
	"bytes"
	"html/template"
)

var resetEmailTmpl = template.Must(template.New("reset").Parse(`<div class="email" style="border: 1px solid black; padding: 20px; font-family: sans-serif; line-height: 2; font-size: 20px">
  <h2>¡Hola {{.Name}}!</h2>
  <p>Recibimos una solicitud para restablecer tu contraseña.</p>
  <p><a href="{{.Link}}">Haz clic aquí para restablecerla</a></p>
  <p>El enlace vence en {{.Minutes}} minutos. Si no fuiste tú, ignora este correo.</p>
  <p>{{.Store}}</p>
</div>`))

type resetEmailData struct {
	Name    string
	Link    string
	Minutes int
	Store   string
}

func renderResetEmail(d resetEmailData) (string, error) {
	var buf bytes.Buffer
	if err := resetEmailTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
