package transform

import (
	"strconv"

	"github.com/leapstack-labs/leapetl/pkg/frame"
)

// Dataset names.
const (
	GunViolence  = "gun_violence"
	StateGDP     = "state_gdp"
	GDPPerCapita = "gdp_per_capita"
)

// Builtin returns the dataset specs in the order a run processes them.
func Builtin() []Spec {
	return []Spec{gunViolenceSpec(), stateGDPSpec(), gdpPerCapitaSpec()}
}

// Lookup returns the builtin spec with the given name.
func Lookup(name string) (Spec, bool) {
	for _, s := range Builtin() {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Names returns the builtin dataset names in run order.
func Names() []string {
	specs := Builtin()
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Name
	}
	return out
}

func gunViolenceSpec() Spec {
	return Spec{
		Name:        GunViolence,
		Table:       "Gun_violence_data",
		Description: "US gun violence incidents",
		Drop: []string{
			"incident_id", "incident_url", "source_url", "incident_url_fields_missing",
			"latitude", "longitude", "gun_type", "gun_stolen", "sources",
			"state_senate_district", "state_house_district", "participant_type",
			"participant_status", "participant_relationship", "participant_name",
		},
		Impute: true,
		Dedupe: true,
		Rename: []frame.RenamePair{
			{Old: "date", New: "Date"},
			{Old: "state", New: "State"},
			{Old: "city_or_county", New: "City/County"},
			{Old: "address", New: "Address"},
			{Old: "n_killed", New: "No_of_Killed"},
			{Old: "n_injured", New: "No_of_Injured"},
			{Old: "congressional_district", New: "Congressional_District"},
			{Old: "incident_characteristics", New: "Incident_Characteristics"},
			{Old: "n_guns_involved", New: "No_Guns_Involved"},
			{Old: "notes", New: "Notes"},
			{Old: "participant_age", New: "Participant_Age"},
			{Old: "participant_age_group", New: "Participant_Age_Group"},
			{Old: "participant_gender", New: "Participant_Gender"},
		},
		Columns: []string{
			"Date", "State", "City/County", "Address", "No_of_Killed",
			"No_of_Injured", "Congressional_District", "Incident_Characteristics",
			"No_Guns_Involved", "Notes", "Participant_Age", "Participant_Age_Group",
			"Participant_Gender",
		},
	}
}

func stateGDPSpec() Spec {
	return Spec{
		Name:        StateGDP,
		Table:       "US_State_GDP_data",
		Description: "US GDP by state and industry, 1997-2019",
		Drop:        []string{"GeoFIPS", "TableName", "LineCode", "IndustryClassification"},
		Impute:      true,
		Dedupe:      true,
		Rename: []frame.RenamePair{
			{Old: "GeoName", New: "State"},
			{Old: "Region", New: "Region_no"},
			{Old: "Description", New: "Industry_names"},
		},
		// GeoName is renamed to State above, so the contract's GeoName column
		// is carried with every value missing.
		Columns:      append(years(1997, 2019), "Unit", "GeoName"),
		Placeholders: []string{"GeoName"},
	}
}

func gdpPerCapitaSpec() Spec {
	return Spec{
		Name:        GDPPerCapita,
		Table:       "GDP_Per_Capita_data",
		Description: "US GDP per capita by state, 2013-2017",
		Drop:        []string{"Fips"},
		Rename:      []frame.RenamePair{{Old: "Area", New: "State"}},
		Columns:     append([]string{"State"}, years(2013, 2017)...),
	}
}

// years returns the column names from..to inclusive.
func years(from, to int) []string {
	out := make([]string, 0, to-from+1)
	for y := from; y <= to; y++ {
		out = append(out, strconv.Itoa(y))
	}
	return out
}
