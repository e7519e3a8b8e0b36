package parsers

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rommelBLK = `#Rommel Tank
<BlockVersion>
1
</BlockVersion>

<Version>
MAM0
</Version>

<UnitType>
Tank
</UnitType>

<Name>
Rommel Tank
</Name>

<Model>

</Model>

<mul id:>
2737
</mul id:>

<primaryFactory>
Hesperus II,Salem,Alpheratz
</primaryFactory>

<Tonnage>
65.0
</Tonnage>

<cruiseMP>
4
</cruiseMP>

<armor>
38
38
# rear plates
38
24
38
</armor>

<Body Equipment>
AC/20  # main gun
IS Ammo AC/20
IS Ammo AC/20
</Body Equipment>

<source>
TRO: 3026 - R&D
</source>
`

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trailing colon", "<mul id:>", "<mul_id>"},
		{"closing tag", "</mul id:>", "</mul_id>"},
		{"camel case", "<primaryFactory>", "<primary_factory>"},
		{"capital run", "<ICEEngine>", "<ice_engine>"},
		{"mixed words", "<Heat Sinks>", "<heat_sinks>"},
		{"punctuation", "<Armor+Rear*>", "<armorrear>"},
		{"inner whitespace", "<body   equipment>", "<body_equipment>"},
		{"declaration untouched", `<?xml version="1.0"?>`, `<?xml version="1.0"?>`},
		{"comparison untouched", "a < b", "a < b"},
		{"empty brackets untouched", "<>", "<>"},
		{"text around tags", "<cruiseMP>\n4\n</cruiseMP>", "<cruise_mp>\n4\n</cruise_mp>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.in))
		})
	}
}

func TestNormalizeTagsPairsMatch(t *testing.T) {
	interiors := []string{
		"mul id:", "primaryFactory", "Body Equipment", "cruiseMP", "ICEEngine",
		"engine_type", "Armor+Rear*", "systemManufacturer", " padded ", "v1.0",
	}

	for _, in := range interiors {
		open := NormalizeTags("<" + in + ">")
		closing := NormalizeTags("</" + in + ">")
		assert.Equal(t, strings.TrimPrefix(open, "<"), strings.TrimPrefix(closing, "</"), "tag %q", in)
		assert.Equal(t, "<"+TagName(in)+">", open)
	}
}

func TestSplitCamelCase(t *testing.T) {
	assert.Equal(t, []string{"Camel", "Case"}, SplitCamelCase("CamelCase"))
	assert.Equal(t, []string{"camel", "Case"}, SplitCamelCase("camelCase"))
	assert.Equal(t, []string{"ICE", "Engine"}, SplitCamelCase("ICEEngine"))
	assert.Equal(t, []string{"cruise", "MP"}, SplitCamelCase("cruiseMP"))
	assert.Equal(t, []string{"lower"}, SplitCamelCase("lower"))
	assert.Nil(t, SplitCamelCase(""))
}

func TestBLKToXML(t *testing.T) {
	out := BLKToXML(rommelBLK)

	assert.True(t, strings.HasPrefix(out, "<ultramekdata>"))
	assert.True(t, strings.HasSuffix(out, "</ultramekdata>"))
	assert.NotContains(t, out, "#")
	assert.Contains(t, out, "R&amp;D")

	var root struct {
		XMLName xml.Name
	}
	require.NoError(t, xml.Unmarshal([]byte(out), &root))
	assert.Equal(t, "ultramekdata", root.XMLName.Local)
}

func TestParseBLK(t *testing.T) {
	rec, err := ParseBLK(rommelBLK)
	require.NoError(t, err)

	assert.False(t, rec.Has("block_version"))
	assert.False(t, rec.Has("version"))

	assert.Equal(t, "Tank", rec.String("unit_type"))
	assert.Equal(t, "Rommel Tank", rec.String("name"))
	assert.Equal(t, "", rec.String("model"))
	assert.Equal(t, 2737, value(rec, "mul_id"))
	assert.Equal(t, "Hesperus II,Salem,Alpheratz", rec.String("primary_factory"))
	assert.Equal(t, 65, value(rec, "tonnage"))
	assert.Equal(t, 4, value(rec, "cruise_mp"))
	assert.Equal(t, []any{38, 38, 38, 24, 38}, value(rec, "armor"))
	assert.Equal(t, "TRO: 3026 - R&D", rec.String("source"))

	equipment, ok := value(rec, "body_equipment").([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"AC/20", "IS Ammo AC/20", "IS Ammo AC/20"}, equipment)

	assert.Equal(t, []string{
		"unit_type", "name", "model", "mul_id", "primary_factory",
		"tonnage", "cruise_mp", "armor", "body_equipment", "source",
	}, rec.Keys())
}

func TestParseBLKLeafCoercion(t *testing.T) {
	text := "<fuel>\n1.5\n</fuel>\n<serial>\n1.2.3\n</serial>\n<bv>\n-12\n</bv>\n<mixed>\n2\n0.5\nGauss Rifle\n</mixed>\n"
	rec, err := ParseBLK(text)
	require.NoError(t, err)

	assert.Equal(t, 1.5, value(rec, "fuel"))
	assert.Equal(t, "1.2.3", value(rec, "serial"))
	assert.Equal(t, "-12", value(rec, "bv"))
	assert.Equal(t, []any{2, 0.5, "Gauss Rifle"}, value(rec, "mixed"))
}

func TestParseBLKMalformed(t *testing.T) {
	tests := map[string]string{
		"mismatched close": "<armor>\n1\n</armour>\n",
		"unclosed tag":     "<armor>\n1\n",
		"stray close":      "</armor>\n",
	}

	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			rec, err := ParseBLK(text)
			assert.Nil(t, rec)
			assert.ErrorIs(t, err, ErrMalformedSyntax)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "blk", string(perr.Format))
		})
	}
}

func TestParseBLKIdempotent(t *testing.T) {
	first, err := ParseBLK(rommelBLK)
	require.NoError(t, err)
	second, err := ParseBLK(rommelBLK)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
