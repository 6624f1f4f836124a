package Reportes

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raiddisk/DiskManagement"
	"raiddisk/Structs"
)

func testDisk(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Disco1.disk")
	require.True(t, DiskManagement.Mkdisk(10, "ff", "k", path, io.Discard))
	return path
}

func kinds(blocks []DiskBlock) []string {
	var out []string
	for _, b := range blocks {
		out = append(out, b.Kind)
	}
	return out
}

func TestBuildDiskBlocksEmptyDisk(t *testing.T) {
	path := testDisk(t)
	blocks, err := BuildDiskBlocks(path)
	require.NoError(t, err)

	require.Equal(t, []string{KindMBR, KindFree}, kinds(blocks))
	assert.Equal(t, int32(0), blocks[0].Start)
	assert.Equal(t, Structs.MBRSize, blocks[0].Size)
	assert.Equal(t, Structs.MBRSize, blocks[1].Start)
	assert.Equal(t, 10*1024-Structs.MBRSize, blocks[1].Size)
}

func TestBuildDiskBlocksPrimariesAndGaps(t *testing.T) {
	path := testDisk(t)
	require.True(t, DiskManagement.Fdisk(2, "k", path, "P1", "p", "ff", io.Discard))
	require.True(t, DiskManagement.Fdisk(2, "k", path, "P2", "p", "ff", io.Discard))
	require.True(t, DiskManagement.FdiskDelete(path, "P1", "fast", io.Discard, DiskManagement.AutoConfirm))

	blocks, err := BuildDiskBlocks(path)
	require.NoError(t, err)

	// MBR, hueco de P1, P2, cola libre
	require.Equal(t, []string{KindMBR, KindFree, KindPrimary, KindFree}, kinds(blocks))
	assert.Equal(t, "P2", blocks[2].Name)
	assert.Equal(t, Structs.MBRSize+2048, blocks[2].Start)
}

func TestBuildDiskBlocksExtendedSubWalk(t *testing.T) {
	path := testDisk(t)
	require.True(t, DiskManagement.Fdisk(1, "k", path, "P1", "p", "ff", io.Discard))
	require.True(t, DiskManagement.Fdisk(6, "k", path, "Ext1", "e", "ff", io.Discard))
	require.True(t, DiskManagement.Fdisk(1, "k", path, "L1", "l", "ff", io.Discard))
	require.True(t, DiskManagement.Fdisk(1, "k", path, "L2", "l", "ff", io.Discard))
	require.True(t, DiskManagement.FdiskDelete(path, "L1", "fast", io.Discard, DiskManagement.AutoConfirm))

	blocks, err := BuildDiskBlocks(path)
	require.NoError(t, err)

	// La extendida se sustituye por su contenido: hueco de L1, EBR y datos
	// de L2, cola libre interna; después la cola libre del disco
	require.Equal(t, []string{
		KindMBR, KindPrimary, KindFree, KindEBR, KindLogical, KindFree, KindFree,
	}, kinds(blocks))

	extStart := Structs.MBRSize + 1024
	step := Structs.EBRSize + 1024
	assert.Equal(t, extStart, blocks[2].Start)
	assert.Equal(t, step, blocks[2].Size)
	assert.Equal(t, extStart+step, blocks[3].Start)
	assert.Equal(t, Structs.EBRSize, blocks[3].Size)
	assert.Equal(t, "L2", blocks[4].Name)
	assert.Equal(t, extStart+step+Structs.EBRSize, blocks[4].Start)
}

func TestBuildDiskBlocksCoversWholeDisk(t *testing.T) {
	path := testDisk(t)
	require.True(t, DiskManagement.Fdisk(2, "k", path, "P1", "p", "ff", io.Discard))
	require.True(t, DiskManagement.Fdisk(4, "k", path, "Ext1", "e", "ff", io.Discard))
	require.True(t, DiskManagement.Fdisk(1, "k", path, "L1", "l", "ff", io.Discard))

	blocks, err := BuildDiskBlocks(path)
	require.NoError(t, err)

	var total int64
	for _, b := range blocks {
		total += int64(b.Size)
	}
	assert.Equal(t, int64(10*1024), total)

	// Bloques contiguos en orden físico
	cursor := int32(0)
	for _, b := range blocks {
		assert.Equal(t, cursor, b.Start, "bloque %s fuera de lugar", b.Kind)
		cursor += b.Size
	}
}

func TestGenerateDiskReport(t *testing.T) {
	path := testDisk(t)
	require.True(t, DiskManagement.Fdisk(2, "k", path, "P1", "p", "ff", io.Discard))

	reg := DiskManagement.NewMountRegistry()
	require.True(t, reg.Mount(path, "P1", io.Discard))

	outPath := filepath.Join(t.TempDir(), "reporte.png")
	var out bytes.Buffer
	require.True(t, GenerateDiskReport("vda1", outPath, reg, &out))

	dotPath := strings.TrimSuffix(outPath, ".png") + ".dot"
	content, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "digraph DiskReport")
	assert.Contains(t, string(content), "P1")
}

func TestGenerateDiskReportUnknownId(t *testing.T) {
	reg := DiskManagement.NewMountRegistry()
	var out bytes.Buffer
	assert.False(t, GenerateDiskReport("vda1", "salida.png", reg, &out))
	assert.Contains(t, out.String(), "No hay una partición montada")
}
