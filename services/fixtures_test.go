package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/maldun/UltraMekCore/models"
	"github.com/maldun/UltraMekCore/persistence"
)

const atlasMTF = "chassis:Atlas\nmodel:AS7-D\nconfig:Biped\nmass:100\n"

const rommelBLK = "<UnitType>\nTank\n</UnitType>\n<Name>\nRommel Tank\n</Name>\n<Model>\n\n</Model>\n<Tonnage>\n65.0\n</Tonnage>\n"

const lanceMUL = `<unit version="0.49.19">
  <entity chassis="Atlas" model="AS7-D" type="Biped">
    <pilot name="Natasha Kerensky"/>
    <game id="1"/>
  </entity>
  <entity chassis="Rommel Tank" model="" type="Tracked">
    <game id="2"/>
  </entity>
</unit>`

const tinyBoard = "size 2 2\nhex 0101 -1 \"\" \"snow\"\nhex 0201 0 \"road:1:0\" \"plains\"\nend\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func writeArchive(t *testing.T, dir, category string, files map[string]string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, category+".zip"))
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func newStore(t *testing.T) *persistence.JSONStore {
	t.Helper()
	store, err := persistence.NewJSONStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	return store
}

func entity(chassis, model, typ string) *models.Entity {
	attrs := models.NewRecord(models.FormatMUL)
	attrs.Set("chassis", chassis)
	attrs.Set("model", model)
	attrs.Set("type", typ)
	return &models.Entity{ID: "1", Attributes: attrs}
}
