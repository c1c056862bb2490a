package printing

import (
	"html/template"
	"time"
)

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("02 Jan 2006") },
}

// invoiceTmpl renders a self-contained A4 invoice. Everything is inline so
// the page needs no network access inside headless Chrome.
var invoiceTmpl = template.Must(template.New("invoice").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.OrderNumber}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 13px; color: #222; margin: 40px; }
  h1 { font-size: 22px; margin-bottom: 0; }
  .muted { color: #777; }
  .header { display: flex; justify-content: space-between; margin-bottom: 24px; }
  .addresses { display: flex; gap: 48px; margin-bottom: 24px; }
  .addresses h3 { font-size: 13px; text-transform: uppercase; color: #777; margin-bottom: 4px; }
  table { width: 100%; border-collapse: collapse; }
  th { text-align: left; border-bottom: 2px solid #222; padding: 6px 8px; font-size: 12px; text-transform: uppercase; }
  td { border-bottom: 1px solid #ddd; padding: 6px 8px; }
  td.num, th.num { text-align: right; }
  .totals { margin-top: 16px; width: 280px; margin-left: auto; }
  .totals td { border: none; padding: 3px 8px; }
  .totals .grand td { border-top: 2px solid #222; font-weight: bold; font-size: 15px; }
  .footer { margin-top: 40px; font-size: 11px; color: #777; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <h1>{{.StoreName}}</h1>
      <div class="muted">Tax Invoice</div>
    </div>
    <div style="text-align: right">
      <div><strong>{{.OrderNumber}}</strong></div>
      <div class="muted">{{date .OrderDate}}</div>
      <div class="muted">{{.PaymentMode}} &middot; {{.PaymentStatus}}</div>
    </div>
  </div>

  <div class="addresses">
    <div>
      <h3>Billed To</h3>
      <div>{{.CustomerName}}</div>
      <div class="muted">{{.CustomerEmail}}</div>
      <div>{{.BillingAddress}}</div>
    </div>
    <div>
      <h3>Shipped To</h3>
      <div>{{.CustomerName}}</div>
      <div>{{.ShippingAddress}}</div>
    </div>
  </div>

  <table>
    <thead>
      <tr>
        <th>Item</th>
        <th class="num">Qty</th>
        <th class="num">Unit Price</th>
        <th class="num">GST %</th>
        <th class="num">GST</th>
        <th class="num">Amount</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td>{{.ProductName}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{.UnitPrice}}</td>
        <td class="num">{{.GSTRate}}</td>
        <td class="num">{{.GSTAmount}}</td>
        <td class="num">{{.TotalWithGST}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table class="totals">
    <tr><td>Shipping</td><td class="num">{{.ShippingCost}}</td></tr>
    <tr class="grand"><td>Total</td><td class="num">{{.TotalAmount}}</td></tr>
  </table>

  <div class="footer">This is a computer generated invoice for order {{.OrderNumber}}.</div>
</body>
</html>
`))

// labelTmpl renders a 4x6 inch shipping label
var labelTmpl = template.Must(template.New("label").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Shipping Label {{.OrderNumber}}</title>
<style>
  @page { size: 4in 6in; margin: 0; }
  body { font-family: Helvetica, Arial, sans-serif; margin: 0; padding: 16px; font-size: 13px; }
  .box { border: 2px solid #000; padding: 12px; height: calc(100% - 28px); }
  .store { font-size: 15px; font-weight: bold; border-bottom: 1px solid #000; padding-bottom: 6px; }
  .order { font-size: 18px; font-weight: bold; margin: 10px 0; }
  .to { margin: 12px 0; }
  .to .name { font-size: 16px; font-weight: bold; }
  .meta { margin-top: 14px; font-size: 12px; }
  .meta div { margin-bottom: 4px; }
  .partner { margin-top: 14px; font-size: 15px; font-weight: bold; text-transform: uppercase; }
</style>
</head>
<body>
  <div class="box">
    <div class="store">{{.StoreName}}</div>
    <div class="order">{{.OrderNumber}}</div>
    <div class="to">
      <div class="name">{{.CustomerName}}</div>
      <div>{{.ShippingAddress}}</div>
      {{if .CustomerPhone}}<div>Ph: {{.CustomerPhone}}</div>{{end}}
    </div>
    <div class="meta">
      <div>Items: {{.ItemCount}}</div>
      {{if .TrackingNumber}}<div>Tracking: {{.TrackingNumber}}</div>{{end}}
    </div>
    {{if .DeliveryPartner}}<div class="partner">{{.DeliveryPartner}}</div>{{end}}
  </div>
</body>
</html>
`))
