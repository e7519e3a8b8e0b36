package parsers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maldun/UltraMekCore/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const atlasMTF = `Version:1.0
chassis:Atlas
model:AS7-D
mul id:140

Config:Biped
techbase:Inner Sphere
era:2755
Rules Level:2

Mass:100
Engine:300 Fusion Engine
Structure:Standard
Myomer:Standard

Heat Sinks:20 Single
Walk MP:3
Jump MP:0

Armor:Standard(Inner Sphere)
LA Armor:34
RA Armor:34

Weapons:3
AC/20, Right Torso
LRM 20, Left Torso
Medium Laser, Left Arm

Left Arm:
Shoulder
Upper Arm Actuator
-Empty-

overview: The Atlas is the most famous assault 'Mech.
`

func TestParseMTF(t *testing.T) {
	t.Run("scenario from two recognized keys", func(t *testing.T) {
		rec, err := ParseMTF("mass:\n100\n\nmodel:\nAS7-D\n")
		require.NoError(t, err)

		assert.Equal(t, 100, value(rec, "mass"))
		assert.Equal(t, "AS7-D", rec.String("model"))
		assert.Equal(t, "", rec.String("chassis"))
		assert.Equal(t, UnitTypeMek, rec.String(UnitTypeField))
	})

	t.Run("full unit", func(t *testing.T) {
		rec, err := ParseMTF(atlasMTF)
		require.NoError(t, err)

		mass, ok := rec.Int("mass")
		require.True(t, ok)
		assert.Equal(t, 100, mass)
		assert.Equal(t, "Atlas", rec.String("chassis"))
		assert.Equal(t, "AS7-D", rec.String("model"))
		assert.Equal(t, "Biped", rec.String("config"))
		assert.Equal(t, "20 Single", rec.String("heat_sinks"))
		assert.Equal(t, 0, value(rec, "jump_mp"))

		weapons, _ := rec.Get("weapons")
		assert.Equal(t, []any{"3", "AC/20, Right Torso", "LRM 20, Left Torso", "Medium Laser, Left Arm"}, weapons)

		leftArm, _ := rec.Get("left_arm")
		assert.Equal(t, []any{"Shoulder", "Upper Arm Actuator", "-Empty-"}, leftArm)

		assert.Equal(t, "The Atlas is the most famous assault 'Mech.", rec.String("overview"))
	})

	t.Run("blank line ends continuation", func(t *testing.T) {
		rec, err := ParseMTF("weapons:2\nAC/20, Right Torso\n\nstray line\nanother one\n")
		require.NoError(t, err)

		weapons, _ := rec.Get("weapons")
		assert.Equal(t, []any{"2", "AC/20, Right Torso"}, weapons)
	})

	t.Run("unrecognized keys are ignored", func(t *testing.T) {
		rec, err := ParseMTF("Version:1.0\nGenerator:MegaMekLab\nchassis:Atlas\n")
		require.NoError(t, err)

		assert.False(t, rec.Has("version"))
		assert.False(t, rec.Has("generator"))
		assert.Equal(t, "Atlas", rec.String("chassis"))
	})

	t.Run("unknown key inside a block does not stop it", func(t *testing.T) {
		rec, err := ParseMTF("weapons:2\nAC/20, Right Torso\nnote: ignored\nLRM 20, Left Torso\n")
		require.NoError(t, err)

		weapons, _ := rec.Get("weapons")
		assert.Equal(t, []any{"2", "AC/20, Right Torso", "LRM 20, Left Torso"}, weapons)
	})

	t.Run("keys are case-insensitive", func(t *testing.T) {
		rec, err := ParseMTF("MASS:85\nWalk mp:5\n")
		require.NoError(t, err)

		assert.Equal(t, 85, value(rec, "mass"))
		assert.Equal(t, 5, value(rec, "walk_mp"))
	})

	t.Run("fragments after the colon are trimmed and rejoined", func(t *testing.T) {
		rec, err := ParseMTF("engine: 300 : Fusion Engine :\n")
		require.NoError(t, err)
		assert.Equal(t, "300:Fusion Engine", rec.String("engine"))
	})

	t.Run("repeated key restarts collection", func(t *testing.T) {
		rec, err := ParseMTF("quirk:battle_fists_la\nquirk:command_mech\n")
		require.NoError(t, err)
		assert.Equal(t, "command_mech", rec.String("quirk"))
	})

	t.Run("zero padded digits coerce to int", func(t *testing.T) {
		rec, err := ParseMTF("mul id:007\n")
		require.NoError(t, err)
		assert.Equal(t, 7, value(rec, "mul_id"))
	})

	t.Run("windows line endings", func(t *testing.T) {
		rec, err := ParseMTF("mass:65\r\n\r\nmodel:RMT-1\r\n")
		require.NoError(t, err)
		assert.Equal(t, 65, value(rec, "mass"))
		assert.Equal(t, "RMT-1", rec.String("model"))
	})
}

func TestParseMTFKeysAndValues(t *testing.T) {
	rec, err := ParseMTF(atlasMTF)
	require.NoError(t, err)

	allowed := map[string]bool{UnitTypeField: true}
	for _, f := range MTFFields() {
		allowed[f] = true
	}

	for _, key := range rec.Keys() {
		assert.True(t, allowed[key], "unexpected key %q", key)

		v, _ := rec.Get(key)
		switch val := v.(type) {
		case string:
			assert.Equal(t, strings.TrimSpace(val), val, "field %q keeps blanks", key)
		case []any:
			assert.Greater(t, len(val), 1, "field %q is a single element list", key)
		}
	}
	assert.Equal(t, len(MTFFields())+1, rec.Len())
}

func TestParseMTFIdempotent(t *testing.T) {
	first, err := ParseMTF(atlasMTF)
	require.NoError(t, err)
	second, err := ParseMTF(atlasMTF)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseMTFFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Atlas AS7-D.mtf")
	require.NoError(t, os.WriteFile(path, []byte(atlasMTF), 0644))

	rec, err := ParseMTFFile(path)
	require.NoError(t, err)
	assert.Equal(t, 100, value(rec, "mass"))

	_, err = ParseMTFFile(filepath.Join(dir, "missing.mtf"))
	assert.ErrorIs(t, err, ErrMissingFile)
}

func value(rec *models.Record, key string) any {
	v, _ := rec.Get(key)
	return v
}
