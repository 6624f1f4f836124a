package DiskManagement

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"raiddisk/Structs"
	"raiddisk/Utilities"
)

// newDisk crea un disco de pruebas (y su espejo RAID) de sizeKB kilobytes
// con el fit dado y devuelve su ruta
func newDisk(t *testing.T, sizeKB int, fit string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Disco1.disk")
	var out bytes.Buffer
	require.True(t, Mkdisk(sizeKB, fit, "k", path, &out), out.String())
	return path
}

// loadMBR lee el MBR del disco en path
func loadMBR(t *testing.T, path string) Structs.MBR {
	t.Helper()
	file, err := Utilities.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()
	mbr, err := readMBR(file)
	require.NoError(t, err)
	return mbr
}

// findByName busca una partición activa del MBR por nombre
func findByName(t *testing.T, mbr *Structs.MBR, name string) *Structs.Partition {
	t.Helper()
	for i := 0; i < 4; i++ {
		p := &mbr.Partitions[i]
		if p.Status == Structs.StatusUsed && Structs.GetName(p.Name) == name {
			return p
		}
	}
	return nil
}

// readEBRList devuelve las lógicas activas del disco
func readEBRList(t *testing.T, path string) []EBRAt {
	t.Helper()
	file, err := Utilities.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()
	mbr, err := readMBR(file)
	require.NoError(t, err)
	ext, ok := FindExtended(&mbr)
	require.True(t, ok, "el disco no tiene partición extendida")
	return ReadEBRs(file, ext)
}

// rawRange lee el rango [start, start+size) directamente del archivo
func rawRange(t *testing.T, path string, start, size int64) []byte {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, int64(len(raw)), start+size)
	return raw[start : start+size]
}

// requireMirrorParity verifica que el MBR y los EBRs activos del espejo
// sean byte-idénticos a los del disco principal
func requireMirrorParity(t *testing.T, path string) {
	t.Helper()
	raidPath := Utilities.RaidPath(path)

	mbrA := rawRange(t, path, 0, int64(Structs.MBRSize))
	mbrB := rawRange(t, raidPath, 0, int64(Structs.MBRSize))
	require.Equal(t, mbrA, mbrB, "los MBR difieren entre disco y espejo")

	mbr := loadMBR(t, path)
	ext, ok := FindExtended(&mbr)
	if !ok {
		return
	}
	fileA, err := Utilities.OpenFile(path)
	require.NoError(t, err)
	defer fileA.Close()
	fileB, err := Utilities.OpenFile(raidPath)
	require.NoError(t, err)
	defer fileB.Close()

	listA := ReadEBRs(fileA, ext)
	listB := ReadEBRs(fileB, ext)
	require.Equal(t, listA, listB, "las cadenas de EBR difieren entre disco y espejo")

	for _, e := range listA {
		a := rawRange(t, path, int64(e.Pos), int64(Structs.EBRSize))
		b := rawRange(t, raidPath, int64(e.Pos), int64(Structs.EBRSize))
		require.Equal(t, a, b, "EBR distinto en la posición %d", e.Pos)
	}
}
