package notify

import (
	"bytes"
	"html/template"

	"github.com/yourorg/mls-monitor/internal/listing"
)

var listingsTmpl = template.Must(template.New("listings").Funcs(template.FuncMap{
	"dollars": formatThousands,
	"snippet": func(s string) string {
		if len(s) > 200 {
			return s[:200] + "..."
		}
		return s
	},
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: sans-serif; color: #333; max-width: 800px; margin: 0 auto;">
  <h1>New Property Listings</h1>
  <p>Found <strong>{{len .}}</strong> new listing{{if ne (len .) 1}}s{{end}} matching your criteria:</p>
  {{range .}}
  <div style="border: 1px solid #e0e0e0; border-radius: 8px; margin: 20px 0; padding: 20px;">
    {{if .PhotoURL}}<img src="{{.PhotoURL}}" alt="{{.Address}}" style="width: 100%; max-height: 300px; object-fit: cover;">{{end}}
    <h2>${{dollars .Price}} <small style="color: #2e7d32;">{{.SourceAPI}}</small></h2>
    <p>{{.Address}}{{if .City}}, {{.City}}{{end}} {{.Zipcode}}</p>
    <p>
      Beds: {{if .Bedrooms}}{{.Bedrooms}}{{else}}N/A{{end}} |
      Baths: {{if .Bathrooms}}{{.Bathrooms}}{{else}}N/A{{end}} |
      Size: {{if .Sqft}}{{dollars .Sqft}} sq ft{{else}}N/A{{end}} |
      Built: {{if .YearBuilt}}{{.YearBuilt}}{{else}}N/A{{end}}
    </p>
    <p style="background: #e3f2fd; padding: 8px; border-radius: 4px;">
      Lot Size: {{if .LotSizeSqft}}{{dollars .LotSizeSqft}} sq ft{{else}}N/A{{end}}
    </p>
    {{if .Description}}<p style="color: #666;">{{snippet .Description}}</p>{{end}}
    {{if .ListingURL}}<a href="{{.ListingURL}}">View Full Details</a>{{end}}
  </div>
  {{end}}
  <p style="color: #666; font-size: 14px;">Automated notification from the listing monitor.</p>
</body>
</html>
`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #fee; border-left: 4px solid #c33; padding: 20px;">
    <h2 style="color: #c33;">Listing Monitor Error</h2>
    <p>{{.}}</p>
    <p style="color: #666; font-size: 14px;">Automated error notification. Check the application logs for details.</p>
  </div>
</body>
</html>
`))

func renderNewListings(listings []listing.Listing) (string, error) {
	var buf bytes.Buffer
	if err := listingsTmpl.Execute(&buf, listings); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderError(message string) (string, error) {
	var buf bytes.Buffer
	if err := errorTmpl.Execute(&buf, message); err != nil {
		return "", err
	}
	return buf.String(), nil
}
