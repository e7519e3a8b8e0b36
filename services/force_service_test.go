package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maldun/UltraMekCore/parsers"
)

func TestProcessForces(t *testing.T) {
	custom := t.TempDir()
	writeFile(t, custom, "Atlas AS7-D.mtf", atlasMTF)
	writeFile(t, custom, "Rommel Tank.blk", rommelBLK)

	units := NewUnitService(custom, "", nil, nil, nil)
	forces, err := NewForceService(units, nil, nil).ProcessForces(lanceMUL)
	require.NoError(t, err)

	entities := forces.Record("entities")
	require.NotNil(t, entities)
	assert.Equal(t, []string{"1", "2"}, entities.Keys())

	atlas := entities.Record("1")
	assert.Equal(t, "Natasha Kerensky", atlas.Record("pilot").String("name"))
	data := atlas.Record(EntityDataKey)
	require.NotNil(t, data)
	assert.Equal(t, "Atlas", data.String("chassis"))

	tank := entities.Record("2").Record(EntityDataKey)
	require.NotNil(t, tank)
	assert.Equal(t, "Rommel Tank", tank.String("name"))
}

func TestProcessForcesErrors(t *testing.T) {
	units := NewUnitService(t.TempDir(), t.TempDir(), nil, nil, nil)
	fs := NewForceService(units, nil, nil)

	_, err := fs.ProcessForces(lanceMUL)
	assert.ErrorIs(t, err, ErrUnitNotFound)
	assert.Contains(t, err.Error(), "entity 1")

	_, err = fs.ProcessForces(`<unit><entity chassis="Atlas"/></unit>`)
	assert.ErrorIs(t, err, parsers.ErrMissingRequiredField)
}
