package service

import (
	"regexp"
	"strings"
)

// cantonNames maps the official two-letter codes to the English names used
// in results and in the price table.
var cantonNames = map[string]string{
	"AG": "Aargau",
	"AI": "Appenzell Innerrhoden",
	"AR": "Appenzell Ausserrhoden",
	"BE": "Bern",
	"BL": "Basel-Landschaft",
	"BS": "Basel-Stadt",
	"FR": "Fribourg",
	"GE": "Geneva",
	"GL": "Glarus",
	"GR": "Graubünden",
	"JU": "Jura",
	"LU": "Lucerne",
	"NE": "Neuchâtel",
	"NW": "Nidwalden",
	"OW": "Obwalden",
	"SG": "St. Gallen",
	"SH": "Schaffhausen",
	"SO": "Solothurn",
	"SZ": "Schwyz",
	"TG": "Thurgau",
	"TI": "Ticino",
	"UR": "Uri",
	"VD": "Vaud",
	"VS": "Valais",
	"ZG": "Zug",
	"ZH": "Zürich",
}

// electricityPrices is the average electricity price per canton in CHF/kWh.
var electricityPrices = map[string]float64{
	"Nidwalden":              0.1956,
	"Zürich":                 0.2239,
	"Geneva":                 0.2422,
	"Schaffhausen":           0.2440,
	"Fribourg":               0.2535,
	"Jura":                   0.2550,
	"Bern":                   0.2550,
	"Aargau":                 0.2587,
	"Appenzell Innerrhoden":  0.2629,
	"Appenzell Ausserrhoden": 0.2672,
	"Thurgau":                0.2752,
	"Graubünden":             0.2756,
	"St. Gallen":             0.2772,
	"Glarus":                 0.2799,
	"Ticino":                 0.2852,
	"Lucerne":                0.2885,
	"Solothurn":              0.2964,
	"Obwalden":               0.2977,
	"Valais":                 0.2996,
	"Zug":                    0.3003,
	"Uri":                    0.3066,
	"Schwyz":                 0.3102,
	"Basel-Landschaft":       0.3131,
	"Basel-Stadt":            0.3173,
	"Vaud":                   0.3226,
	"Neuchâtel":              0.3307,
}

// cantonAliases are spellings found in free-text addresses, checked in order.
var cantonAliases = []struct {
	pattern *regexp.Regexp
	canton  string
}{
	{regexp.MustCompile(`(?i)\bbasel-landschaft\b`), "Basel-Landschaft"},
	{regexp.MustCompile(`(?i)\bbasel-stadt\b`), "Basel-Stadt"},
	{regexp.MustCompile(`(?i)\bappenzell innerrhoden\b`), "Appenzell Innerrhoden"},
	{regexp.MustCompile(`(?i)\bappenzell ausserrhoden\b`), "Appenzell Ausserrhoden"},
	{regexp.MustCompile(`(?i)\b(z[uü]rich)\b`), "Zürich"},
	{regexp.MustCompile(`(?i)(\bgen[eè]ve\b|\bgeneva\b|\bgenf\b)`), "Geneva"},
	{regexp.MustCompile(`(?i)\bvaud\b`), "Vaud"},
	{regexp.MustCompile(`(?i)\bneuch[aâ]tel\b`), "Neuchâtel"},
	{regexp.MustCompile(`(?i)\bfribourg\b|\bfreiburg\b`), "Fribourg"},
	{regexp.MustCompile(`(?i)\bbern\b|\bberne\b`), "Bern"},
	{regexp.MustCompile(`(?i)\bst\.? ?gallen\b`), "St. Gallen"},
	{regexp.MustCompile(`(?i)\bticino\b|\btessin\b`), "Ticino"},
	{regexp.MustCompile(`(?i)\bvalais\b|\bwallis\b`), "Valais"},
	{regexp.MustCompile(`(?i)\bgraub[uü]nden\b|\bgrisons\b`), "Graubünden"},
	{regexp.MustCompile(`(?i)\blucerne\b|\bluzern\b`), "Lucerne"},
}

var cantonCodePattern = regexp.MustCompile(`\b([A-Z]{2})\b`)

// CantonName returns the canton name for a two-letter code.
func CantonName(code string) string {
	return cantonNames[strings.ToUpper(strings.TrimSpace(code))]
}

// ElectricityPrice returns the average price for a canton name.
func ElectricityPrice(canton string) (float64, bool) {
	price, ok := electricityPrices[canton]
	return price, ok
}

// ExtractCanton guesses the canton from free-text address. Names are matched
// case-insensitively; two-letter codes only in upper case.
func ExtractCanton(address string) string {
	for _, alias := range cantonAliases {
		if alias.pattern.MatchString(address) {
			return alias.canton
		}
	}
	for _, m := range cantonCodePattern.FindAllStringSubmatch(address, -1) {
		if name, ok := cantonNames[m[1]]; ok {
			return name
		}
	}
	return ""
}

// suitabilityLabels maps the Sonnendach class (1-5) to its label.
var suitabilityLabels = map[int]string{
	1: "Low",
	2: "Medium",
	3: "Good",
	4: "Very good",
	5: "Excellent",
}
