package models

// Major is one entry of the static programme table.
type Major struct {
	Code  string `json:"value"`
	Label string `json:"label"`
}

// Majors is an ordered programme table. Order is preserved when listing.
type Majors []Major

// DefaultMajors returns the programmes offered by the institution.
func DefaultMajors() Majors {
	return Majors{
		{Code: "BUS", Label: "Business"},
		{Code: "ACC", Label: "Accounting"},
		{Code: "FIN", Label: "Finance and Banking"},
		{Code: "BEM", Label: "Business Economics"},
		{Code: "BMK", Label: "Branding"},
		{Code: "EVT", Label: "Event"},
		{Code: "HBM", Label: "Hospitality Business"},
		{Code: "BLW", Label: "Business Law"},
		{Code: "CSE", Label: "Computer Systems Engineering"},
		{Code: "SDE", Label: "Software Engineering"},
		{Code: "REE", Label: "Renewable Energy Engineering"},
		{Code: "FBT", Label: "Food Business Technology"},
		{Code: "PDE", Label: "Product Design Engineering"},
		{Code: "BMA", Label: "Business Mathematics"},
	}
}

func (m Majors) Contains(code string) bool {
	for _, major := range m {
		if major.Code == code {
			return true
		}
	}
	return false
}

// Label returns the display label for code, or code itself when the table
// does not know it.
func (m Majors) Label(code string) string {
	for _, major := range m {
		if major.Code == code {
			return major.Label
		}
	}
	return code
}
