package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// GunViolenceHeader is the column layout of the incident source file.
var GunViolenceHeader = []string{
	"incident_id", "date", "state", "city_or_county", "address", "n_killed",
	"n_injured", "incident_url", "source_url", "incident_url_fields_missing",
	"congressional_district", "gun_stolen", "gun_type", "incident_characteristics",
	"latitude", "location_description", "longitude", "n_guns_involved", "notes",
	"participant_age", "participant_age_group", "participant_gender",
	"participant_name", "participant_relationship", "participant_status",
	"participant_type", "sources", "state_house_district", "state_senate_district",
}

// GunViolenceRow returns one complete incident row.
func GunViolenceRow(id int, state string, killed, injured int) []string {
	n := strconv.Itoa(id)
	return []string{
		n, "2014-01-0" + strconv.Itoa(id%9+1), state, "Springfield", n + " Main St",
		strconv.Itoa(killed), strconv.Itoa(injured),
		"http://www.gunviolencearchive.org/incident/" + n, "http://example.org/" + n, "False",
		"7", "0::Unknown", "0::Handgun", "Shot - Wounded/Injured",
		"39.95", "Park", "-82.99", "1", "none",
		"0::25", "0::Adult 18+", "0::Male",
		"0::John Doe", "0::Family", "0::Injured",
		"0::Victim", "http://example.org/src", "21", "15",
	}
}

// StateGDPHeader is the column layout of the state GDP source file.
func StateGDPHeader() []string {
	head := []string{
		"GeoFIPS", "GeoName", "Region", "TableName", "LineCode",
		"IndustryClassification", "Description", "Unit",
	}
	for y := 1997; y <= 2020; y++ {
		head = append(head, strconv.Itoa(y))
	}
	return head
}

// StateGDPRow returns one complete state GDP row with yearly values base, base+1, ...
func StateGDPRow(fips, state string, region, line int, base float64) []string {
	row := []string{
		fips, state, strconv.Itoa(region), "SAGDP2N", strconv.Itoa(line),
		"...", "All industry total", "Millions of current dollars",
	}
	for y := 1997; y <= 2020; y++ {
		row = append(row, strconv.FormatFloat(base+float64(y-1997), 'f', 1, 64))
	}
	return row
}

// GDPPerCapitaHeader is the column layout of the per-capita source file.
var GDPPerCapitaHeader = []string{"Fips", "Area", "2013", "2014", "2015", "2016", "2017"}

// GDPPerCapitaRow returns one complete per-capita row.
func GDPPerCapitaRow(fips int, area string, base int) []string {
	row := []string{strconv.Itoa(fips), area}
	for i := range 5 {
		row = append(row, strconv.Itoa(base+i*100))
	}
	return row
}

// CSV joins a header and rows into comma-separated text. Values must not
// contain commas or quotes.
func CSV(header []string, rows ...[]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteFile writes content to dir/name, creating dir as needed, and returns
// the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
