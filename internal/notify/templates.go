package notify

import (
	"bytes"
	"text/template"

	"github.com/BruksfildServices01/service-booking/internal/models"
	"github.com/BruksfildServices01/service-booking/internal/timezone"
)

type view struct {
	Owner   models.Owner
	Booking models.Booking
	When    string
}

var (
	customerConfirmation = template.Must(template.New("customer").Parse(
		`Hi {{.Booking.CustomerName}},

Thanks for booking with {{.Owner.Name}}. Your reference number is {{.Booking.Reference}}.

When: {{.When}}
Where: {{.Booking.CustomerAddress}} {{.Booking.ZipCode}}
{{range .Booking.Services}}- {{.ServiceName}}: {{.TotalPrice.StringFixed 2}}
{{end}}{{range .Booking.Options}}  + {{.OptionName}} ({{.OptionValue}}): {{.PriceImpact.StringFixed 2}}
{{end}}Subtotal: {{.Booking.Subtotal.StringFixed 2}}
{{if .Booking.DiscountCode}}Discount ({{.Booking.DiscountCode}}): -{{.Booking.DiscountAmount.StringFixed 2}}
{{end}}Total: {{.Booking.TotalPrice.StringFixed 2}}

Status: {{.Booking.Status}}
`))

	ownerConfirmation = template.Must(template.New("owner").Parse(
		`New booking {{.Booking.Reference}}

Customer: {{.Booking.CustomerName}} <{{.Booking.CustomerEmail}}> {{.Booking.CustomerPhone}}
Address: {{.Booking.CustomerAddress}} {{.Booking.ZipCode}}
When: {{.When}}
Total: {{.Booking.TotalPrice.StringFixed 2}}
{{if .Booking.Notes}}Notes: {{.Booking.Notes}}
{{end}}`))

	customerReceived = template.Must(template.New("received").Parse(
		`Thanks {{.Booking.CustomerName}}, {{.Owner.Name}} received your booking {{.Booking.Reference}} for {{.When}}.`))

	reminder = template.Must(template.New("reminder").Parse(
		`Reminder: {{.Owner.Name}} is scheduled for {{.When}} (ref {{.Booking.Reference}}).`))

	statusChanged = template.Must(template.New("status").Parse(
		`Your booking {{.Booking.Reference}} with {{.Owner.Name}} is now {{.Booking.Status}}. Scheduled for {{.When}}.`))
)

func render(t *template.Template, owner models.Owner, b models.Booking) (string, error) {
	when := b.ServiceDatetime.In(timezone.Location(owner.Timezone)).Format("Mon Jan 2, 2006 3:04 PM")

	var buf bytes.Buffer
	if err := t.Execute(&buf, view{Owner: owner, Booking: b, When: when}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
