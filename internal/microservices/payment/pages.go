package payment

import (
	"html/template"
	"io"
)

type page struct {
	Title   string
	Heading string
	Message string
	Mark    string
	Color   string
	Tint    string
	OrderID string
}

var pageTmpl = template.Must(template.New("payment").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; text-align: center; padding: 50px; background: {{.Tint}}; }
        .mark { color: {{.Color}}; font-size: 48px; }
        .message { margin: 20px 0; }
        button { background: {{.Color}}; color: white; padding: 15px 30px; border: none; border-radius: 5px; cursor: pointer; }
    </style>
</head>
<body>
    <div class="mark">{{.Mark}}</div>
    <h1>{{.Heading}}</h1>
    <div class="message">{{.Message}}</div>
    {{if .OrderID}}<div class="message">Order {{.OrderID}}</div>{{end}}
    <button onclick="window.close()">Close</button>
</body>
</html>
`))

func RenderSuccess(w io.Writer, orderID string) error {
	return pageTmpl.Execute(w, page{
		Title:   "Payment Successful - Restaurant App",
		Heading: "Payment Successful!",
		Message: "Thank you for your order. Your food is being prepared.",
		Mark:    "✓",
		Color:   "#10b981",
		Tint:    "#f0f8f0",
		OrderID: orderID,
	})
}

func RenderCancel(w io.Writer) error {
	return pageTmpl.Execute(w, page{
		Title:   "Payment Cancelled",
		Heading: "Payment Cancelled",
		Message: "Your payment was cancelled. You can try again.",
		Mark:    "✗",
		Color:   "#dc2626",
		Tint:    "#fef2f2",
	})
}
