package Reportes

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"raiddisk/DiskManagement"
	"raiddisk/Structs"
	"raiddisk/Utilities"
)

// Tipos de bloque que produce el recorrido del disco
const (
	KindMBR      = "MBR"
	KindFree     = "LIBRE"
	KindPrimary  = "PRIMARIA"
	KindExtended = "EXTENDIDA"
	KindEBR      = "EBR"
	KindLogical  = "LOGICA"
)

// DiskBlock es un bloque tipado del layout, en orden físico
type DiskBlock struct {
	Name  string
	Start int32
	Size  int32
	Kind  string
}

// BuildDiskBlocks recorre el layout del disco y devuelve la secuencia de
// bloques: MBR, particiones y huecos libres; la extendida se sustituye por
// su contenido (EBRs, lógicas y huecos internos)
func BuildDiskBlocks(path string) ([]DiskBlock, error) {
	file, err := Utilities.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir el disco: %w", err)
	}
	defer file.Close()

	var mbr Structs.MBR
	if err := Utilities.ReadObject(file, &mbr, 0); err != nil {
		return nil, fmt.Errorf("no se pudo leer el MBR: %w", err)
	}

	blocks := []DiskBlock{{Name: "MBR", Start: 0, Size: Structs.MBRSize, Kind: KindMBR}}

	var active []Structs.Partition
	for i := 0; i < 4; i++ {
		p := mbr.Partitions[i]
		if p.Status == Structs.StatusUsed && p.Size > 0 {
			active = append(active, p)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Start < active[j].Start })

	lastPos := Structs.MBRSize
	for _, p := range active {
		if p.Start > lastPos {
			blocks = append(blocks, DiskBlock{Start: lastPos, Size: p.Start - lastPos, Kind: KindFree})
		}
		kind := KindPrimary
		if p.Type == Structs.TypeExtended {
			kind = KindExtended
		}
		blocks = append(blocks, DiskBlock{Name: Structs.GetName(p.Name), Start: p.Start, Size: p.Size, Kind: kind})
		lastPos = p.Start + p.Size
	}
	if lastPos < mbr.Size {
		blocks = append(blocks, DiskBlock{Start: lastPos, Size: mbr.Size - lastPos, Kind: KindFree})
	}

	// Sustituir el bloque extendida por su recorrido interno
	ext, ok := DiskManagement.FindExtended(&mbr)
	if !ok {
		return blocks, nil
	}
	ebrs := DiskManagement.ReadEBRs(file, ext)
	sort.Slice(ebrs, func(i, j int) bool { return ebrs[i].Pos < ebrs[j].Pos })

	var result []DiskBlock
	for _, b := range blocks {
		if b.Kind != KindExtended {
			result = append(result, b)
			continue
		}
		cursor := b.Start
		for _, e := range ebrs {
			if e.Pos > cursor {
				result = append(result, DiskBlock{Start: cursor, Size: e.Pos - cursor, Kind: KindFree})
			}
			result = append(result, DiskBlock{Name: "EBR", Start: e.Pos, Size: Structs.EBRSize, Kind: KindEBR})
			result = append(result, DiskBlock{Name: Structs.GetName(e.EBR.Name), Start: e.EBR.Start, Size: e.EBR.Size, Kind: KindLogical})
			cursor = e.EBR.Start + e.EBR.Size
		}
		if end := b.Start + b.Size; cursor < end {
			result = append(result, DiskBlock{Start: cursor, Size: end - cursor, Kind: KindFree})
		}
	}
	return result, nil
}

// generateDotContent arma el contenido Graphviz DOT del layout
func generateDotContent(diskPath string, blocks []DiskBlock) string {
	var content strings.Builder
	content.WriteString("digraph DiskReport {\n")
	content.WriteString("    rankdir=LR;\n")
	content.WriteString("    node [shape=plaintext];\n")
	content.WriteString("    disk [label=<\n")
	content.WriteString("        <TABLE BORDER=\"1\" CELLBORDER=\"1\" CELLSPACING=\"0\">\n")
	content.WriteString("            <TR>\n")

	var total int64
	for _, b := range blocks {
		total += int64(b.Size)
	}
	for _, b := range blocks {
		label := b.Kind
		if b.Name != "" && b.Kind != KindMBR && b.Kind != KindEBR {
			label = b.Kind + "<BR/>" + b.Name
		}
		if b.Kind != KindMBR && b.Kind != KindEBR && total > 0 {
			pct := float64(b.Size) * 100 / float64(total)
			label += fmt.Sprintf("<BR/>%.1f%%", pct)
		}
		content.WriteString("                <TD>" + label + "</TD>\n")
	}
	content.WriteString("            </TR>\n")
	content.WriteString("        </TABLE>\n")
	content.WriteString("    >];\n")
	content.WriteString(fmt.Sprintf("    label=\"Reporte de disco: %s\";\n", diskPath))
	content.WriteString("}\n")
	return content.String()
}

// GenerateDiskReport genera el reporte del disco montado con el id dado:
// escribe el archivo DOT junto a outputPath (misma ruta con extensión .dot) y
// trata de renderizar la imagen en outputPath (con .png si no trae extensión)
// con Graphviz; si dot no está disponible solo queda el DOT
func GenerateDiskReport(id, outputPath string, registry *DiskManagement.MountRegistry, out io.Writer) bool {
	fmt.Fprintln(out, "======Inicio REP======")

	diskPath, ok := registry.DiskForID(id)
	if !ok {
		fmt.Fprintln(out, "Error: No hay una partición montada con el id", id)
		return false
	}

	blocks, err := BuildDiskBlocks(diskPath)
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return false
	}

	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(outputPath, ext)
	if ext == "" {
		ext = ".png"
	}
	dotPath := base + ".dot"
	imagePath := base + ext

	if dir := filepath.Dir(dotPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			fmt.Fprintln(out, "Error creando directorio de salida:", err)
			return false
		}
	}
	content := generateDotContent(diskPath, blocks)
	if err := os.WriteFile(dotPath, []byte(content), 0644); err != nil {
		fmt.Fprintln(out, "Error escribiendo archivo DOT:", err)
		return false
	}
	fmt.Fprintln(out, "Archivo DOT generado:", dotPath)

	format := strings.TrimPrefix(ext, ".")
	cmd := exec.Command("dot", "-T"+format, dotPath, "-o", imagePath)
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(out, "Advertencia: no se pudo generar la imagen:", err)
		fmt.Fprintln(out, "Instale Graphviz para obtener la imagen del reporte")
	} else {
		fmt.Fprintln(out, "Imagen generada:", imagePath)
	}
	fmt.Fprintln(out, "Reporte generado exitosamente")
	fmt.Fprintln(out, "======Fin REP======")
	return true
}
