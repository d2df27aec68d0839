package mail

import (
	"html/template"

	"github.com/shopspring/decimal"
)

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return "€ " + d.StringFixed(2) },
	"lineTotal": func(price decimal.Decimal, qty int) decimal.Decimal {
		return price.Mul(decimal.NewFromInt(int64(qty)))
	},
}

var orderConfirmationTemplate = template.Must(template.New("order_confirmation").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Grazie per il tuo ordine, {{.Shipping.FirstName}}!</h2>
  <p>Abbiamo ricevuto l'ordine <strong>#{{.ID}}</strong>. Stato: {{.Status}}.</p>
  <table cellpadding="6" cellspacing="0" border="1" style="border-collapse: collapse;">
    <thead>
      <tr><th>Prodotto</th><th>Taglia</th><th>Lingua</th><th>Quantità</th><th>Prezzo</th><th>Subtotale</th></tr>
    </thead>
    <tbody>
    {{- range .Items}}
      <tr>
        <td>{{.ProductName}}</td>
        <td>{{.Size}}</td>
        <td>{{.Language}}</td>
        <td>{{.Quantity}}</td>
        <td>{{money .UnitPrice}}</td>
        <td>{{money (lineTotal .UnitPrice .Quantity)}}</td>
      </tr>
    {{- end}}
    </tbody>
  </table>
  <p><strong>Totale: {{money .TotalAmount}}</strong></p>
  <h3>Spedizione</h3>
  <p>
    {{.Shipping.FirstName}} {{.Shipping.LastName}}<br>
    {{.Shipping.Address}}<br>
    {{.Shipping.ZipCode}} {{.Shipping.City}} {{if .Shipping.Province}}({{.Shipping.Province}}){{end}}<br>
    {{.Shipping.Country}}
  </p>
</body>
</html>`))

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Reimposta la password</h2>
  <p>Abbiamo ricevuto una richiesta di reimpostazione della password per il tuo account.</p>
  <p><a href="{{.Link}}">Reimposta la password</a></p>
  <p>Il link scade tra {{.ValidFor}}. Se non hai richiesto tu la modifica, ignora questa email.</p>
</body>
</html>`))
