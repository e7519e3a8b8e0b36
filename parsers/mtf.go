package parsers

import (
	"strings"

	"github.com/maldun/UltraMekCore/models"
)

// UnitTypeField is injected into every .mtf record; the format only
// describes 'Meks.
const (
	UnitTypeField = "unit_type"
	UnitTypeMek   = "Mek"
)

type mtfField struct {
	Field  string // output key
	Source string // key as written in the file, compared case-insensitively
}

// mtfFields is the recognized-key set of the block format
var mtfFields = []mtfField{
	{"armor", "armor"},
	{"capabilities", "capabilities"},
	{"center_torso", "center torso"},
	{"chassis", "chassis"},
	{"config", "config"},
	{"ct_armor", "ct armor"},
	{"deployment", "deployment"},
	{"engine", "engine"},
	{"era", "era"},
	{"hd_armor", "hd armor"},
	{"head", "head"},
	{"heat_sinks", "heat sinks"},
	{"history", "history"},
	{"jump_mp", "jump mp"},
	{"la_armor", "la armor"},
	{"left_arm", "left arm"},
	{"left_leg", "left leg"},
	{"left_torso", "left torso"},
	{"ll_armor", "ll armor"},
	{"lt_armor", "lt armor"},
	{"manufacturer", "manufacturer"},
	{"mass", "mass"},
	{"model", "model"},
	{"mul_id", "mul id"},
	{"myomer", "myomer"},
	{"overview", "overview"},
	{"primaryfactory", "primaryfactory"},
	{"quirk", "quirk"},
	{"ra_armor", "ra armor"},
	{"right_arm", "right arm"},
	{"right_leg", "right leg"},
	{"right_torso", "right torso"},
	{"rl_armor", "rl armor"},
	{"role", "role"},
	{"rt_armor", "rt armor"},
	{"rtc_armor", "rtc armor"},
	{"rtl_armor", "rtl armor"},
	{"rtr_armor", "rtr armor"},
	{"rules_level", "rules level"},
	{"source", "source"},
	{"structure", "structure"},
	{"systemmanufacturer", "systemmanufacturer"},
	{"techbase", "techbase"},
	{"walk_mp", "walk mp"},
	{"weapons", "weapons"},
}

var mtfSources = func() map[string]string {
	m := make(map[string]string, len(mtfFields))
	for _, f := range mtfFields {
		m[f.Source] = f.Field
	}
	return m
}()

// MTFFields returns the output keys of the block format in table order
func MTFFields() []string {
	fields := make([]string, len(mtfFields))
	for i, f := range mtfFields {
		fields[i] = f.Field
	}
	return fields
}

// ParseMTF decodes a block/record (.mtf) document. Every recognized field
// is present in the result; fields never seen are empty strings.
func ParseMTF(text string) (*models.Record, error) {
	collected := make(map[string][]string, len(mtfFields))
	var (
		recording bool
		active    string
	)

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if key, rest, found := strings.Cut(line, ":"); found {
			field, known := mtfSources[strings.ToLower(strings.TrimSpace(key))]
			if !known {
				// annotations and unknown keys are tolerated
				continue
			}
			active = field
			recording = true
			collected[field] = nil
			if value := joinFragments(rest); value != "" {
				collected[field] = append(collected[field], value)
			}
			continue
		}

		switch {
		case trimmed == "":
			recording = false
		case recording:
			collected[active] = append(collected[active], trimmed)
		}
	}

	rec := models.NewRecord(models.FormatMTF)
	for _, f := range mtfFields {
		rec.Set(f.Field, flatten(collected[f.Field]))
	}
	rec.Set(UnitTypeField, UnitTypeMek)
	return rec, nil
}

// ParseMTFFile reads and decodes a .mtf file
func ParseMTFFile(path string) (*models.Record, error) {
	text, err := readFile(models.FormatMTF, path)
	if err != nil {
		return nil, err
	}
	return ParseMTF(text)
}

// joinFragments trims the colon-separated fragments after a key, drops
// the empty ones and joins the rest back with colons.
func joinFragments(rest string) string {
	var kept []string
	for _, frag := range strings.Split(rest, ":") {
		if frag = strings.TrimSpace(frag); frag != "" {
			kept = append(kept, frag)
		}
	}
	return strings.Join(kept, ":")
}

func flatten(values []string) any {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return coerceDigits(values[0])
	}
	list := make([]any, 0, len(values))
	for _, v := range values {
		if v != "" {
			list = append(list, v)
		}
	}
	return list
}
