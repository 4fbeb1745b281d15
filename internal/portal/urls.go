package portal

import (
	"fmt"
	"net/url"
)

// DefaultBaseURL is the portal's default base (spec.md §6).
const DefaultBaseURL = "https://proxse26.univalle.edu.co/asignacion"

// ListingURL returns the period-listing endpoint for base.
func ListingURL(base string) string {
	return base + "/vin_docente.php3"
}

// PrintViewURL returns the print-view endpoint for one (cedula, period)
// pair, URL-encoding both query parameters.
func PrintViewURL(base, cedula string, periodID int) string {
	v := url.Values{}
	v.Set("cedula", cedula)
	v.Set("periodo", fmt.Sprintf("%d", periodID))
	return fmt.Sprintf("%s/vin_inicio_impresion.php3?%s", base, v.Encode())
}
