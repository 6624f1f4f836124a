package DiskManagement

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raiddisk/Structs"
	"raiddisk/Utilities"
)

// extDisk crea un disco de 10K con una extendida de 4K al inicio
func extDisk(t *testing.T) (string, Structs.Partition) {
	t.Helper()
	path := newDisk(t, 10, "ff")
	require.True(t, Fdisk(4, "k", path, "Ext1", "e", "ff", io.Discard))
	mbr := loadMBR(t, path)
	ext, ok := FindExtended(&mbr)
	require.True(t, ok)
	return path, ext
}

func writeRawEBR(t *testing.T, path string, pos int32, ebr Structs.EBR) {
	t.Helper()
	file, err := Utilities.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, Utilities.WriteObject(file, ebr, int64(pos)))
}

func TestReadEBRsEmptyExtended(t *testing.T) {
	path, ext := extDisk(t)
	file, err := Utilities.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()

	// Solo existe el EBR centinela inactivo
	assert.Empty(t, ReadEBRs(file, ext))
}

func TestReadEBRsFollowsChain(t *testing.T) {
	path, _ := extDisk(t)
	require.True(t, Fdisk(1, "k", path, "L1", "l", "ff", io.Discard))
	require.True(t, Fdisk(1, "k", path, "L2", "l", "ff", io.Discard))
	require.True(t, Fdisk(1, "k", path, "L3", "l", "ff", io.Discard))

	list := readEBRList(t, path)
	require.Len(t, list, 3)
	assert.Equal(t, "L1", Structs.GetName(list[0].EBR.Name))
	assert.Equal(t, "L2", Structs.GetName(list[1].EBR.Name))
	assert.Equal(t, "L3", Structs.GetName(list[2].EBR.Name))

	// Posiciones físicas estrictamente crecientes
	assert.Less(t, list[0].Pos, list[1].Pos)
	assert.Less(t, list[1].Pos, list[2].Pos)

	// Los enlaces siguen el orden físico y el último cierra con -1
	assert.Equal(t, list[1].Pos, list[0].EBR.Next)
	assert.Equal(t, list[2].Pos, list[1].EBR.Next)
	assert.Equal(t, int32(-1), list[2].EBR.Next)

	// start de cada lógica = posición del EBR + tamaño del encabezado
	for _, e := range list {
		assert.Equal(t, e.Pos+Structs.EBRSize, e.EBR.Start)
	}
}

func TestReadEBRsToleratesBackwardNext(t *testing.T) {
	path, _ := extDisk(t)
	require.True(t, Fdisk(1, "k", path, "L1", "l", "ff", io.Discard))
	require.True(t, Fdisk(1, "k", path, "L2", "l", "ff", io.Discard))

	// Corromper el enlace de L2 para que apunte hacia atrás (ciclo)
	list := readEBRList(t, path)
	require.Len(t, list, 2)
	corrupt := list[1].EBR
	corrupt.Next = list[0].Pos
	writeRawEBR(t, path, list[1].Pos, corrupt)

	// El recorrido debe terminar y avanzar por tamaño físico
	again := readEBRList(t, path)
	require.GreaterOrEqual(t, len(again), 2)
	assert.Equal(t, "L1", Structs.GetName(again[0].EBR.Name))
	assert.Equal(t, "L2", Structs.GetName(again[1].EBR.Name))
}

func TestReadEBRsToleratesOutOfRangeNext(t *testing.T) {
	path, _ := extDisk(t)
	require.True(t, Fdisk(1, "k", path, "L1", "l", "ff", io.Discard))

	list := readEBRList(t, path)
	require.Len(t, list, 1)
	corrupt := list[0].EBR
	corrupt.Next = 1 << 30 // fuera de la extendida
	writeRawEBR(t, path, list[0].Pos, corrupt)

	// Avanza físicamente más allá de la lógica y termina sin ciclos
	again := readEBRList(t, path)
	require.Len(t, again, 1)
	assert.Equal(t, "L1", Structs.GetName(again[0].EBR.Name))
}

func TestHolesInExtendedEmpty(t *testing.T) {
	_, ext := extDisk(t)
	holes := HolesInExtended(ext, nil)
	require.Equal(t, []Hole{{Start: ext.Start, Size: ext.Size}}, holes)
}

func TestHolesInExtendedBetweenEntries(t *testing.T) {
	_, ext := extDisk(t)

	// Dos lógicas con un hueco intermedio y cola libre
	e1 := EBRAt{Pos: ext.Start, EBR: Structs.EBR{Status: Structs.StatusUsed, Start: ext.Start + Structs.EBRSize, Size: 100}}
	gapStart := ext.Start + Structs.EBRSize + 100
	e2pos := gapStart + 200
	e2 := EBRAt{Pos: e2pos, EBR: Structs.EBR{Status: Structs.StatusUsed, Start: e2pos + Structs.EBRSize, Size: 50}}

	holes := HolesInExtended(ext, []EBRAt{e2, e1}) // desordenadas a propósito
	require.Len(t, holes, 2)
	assert.Equal(t, Hole{Start: gapStart, Size: 200}, holes[0])
	tailStart := e2pos + Structs.EBRSize + 50
	assert.Equal(t, Hole{Start: tailStart, Size: ext.Start + ext.Size - tailStart}, holes[1])
}

func TestHolesInExtendedLeadingHole(t *testing.T) {
	_, ext := extDisk(t)
	pos := ext.Start + 500
	e := EBRAt{Pos: pos, EBR: Structs.EBR{Status: Structs.StatusUsed, Start: pos + Structs.EBRSize, Size: 100}}
	holes := HolesInExtended(ext, []EBRAt{e})
	require.NotEmpty(t, holes)
	assert.Equal(t, Hole{Start: ext.Start, Size: 500}, holes[0])
}
