package notification

import (
	"bytes"
	"html/template"
)

const (
	newsletterSubject = "Welcome to Clothing E-commerce Platform!"
	orderSubject      = "Order Confirmation - Clothing E-commerce"
)

var newsletterTemplate = template.Must(template.New("newsletter").Parse(`<h2>Thank You for Subscribing!</h2>
<p>You're now part of the {{.Store}} newsletter. Stay tuned for exclusive updates and offers.</p>
<p>Best regards,<br>{{.Store}} Team</p>
`))

var orderTemplate = template.Must(template.New("order").Parse(`<h2>Order Confirmation</h2>
<p>Thank you for your order{{if .Name}}, {{.Name}}{{end}}!</p>
{{if .OrderID}}<p>Order ID: {{.OrderID}}</p>
{{end}}<h3>Order Details:</h3>
<ul>
{{range .Items}}<li>{{.Name}} - Size: {{.Size}} - Quantity: {{.Quantity}} - Price: {{.Price}}</li>
{{end}}</ul>
<h3>Shipping Address:</h3>
<p>{{range $i, $line := .AddressLines}}{{if $i}}<br>
{{end}}{{$line}}{{end}}</p>
<h3>Total Amount: {{.Amount}}</h3>
<p>We will notify you once your order has been shipped.</p>
<p>Best regards,<br>{{.Store}} Team</p>
`))

type newsletterData struct {
	Store string
}

type orderLineData struct {
	Name     string
	Size     string
	Quantity int
	Price    string
}

type orderData struct {
	Store        string
	Name         string
	OrderID      string
	Items        []orderLineData
	AddressLines []string
	Amount       string
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
