package convert

// NormalizeCell replaces the literal placeholder tokens "nan" and "NAN"
// with the empty string. Matching is exact and case-sensitive on the whole
// cell, so values like "banana" or "NaN" pass through untouched. The
// function is idempotent: a normalized value normalizes to itself.
func NormalizeCell(cell string) string {
	if cell == "nan" || cell == "NAN" {
		return ""
	}
	return cell
}
