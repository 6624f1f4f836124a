package DiskManagement

import (
	"fmt"
	"os"
	"sort"

	"raiddisk/Structs"
	"raiddisk/Utilities"
)

// EBRAt es un EBR activo junto con su posición física en el archivo
type EBRAt struct {
	EBR Structs.EBR
	Pos int32
}

// ReadEBRs recorre la cadena de EBRs dentro de la extendida y devuelve las
// entradas activas en orden de recorrido. El campo next no es confiable:
// se usa solo cuando avanza estrictamente y queda dentro de la región;
// si no, se avanza por tamaño físico. El recorrido está acotado para no
// ciclar con cadenas corruptas.
func ReadEBRs(file *os.File, ext Structs.Partition) []EBRAt {
	var list []EBRAt
	extStart := ext.Start
	extEnd := ext.Start + ext.Size

	pos := extStart
	maxIter := int(ext.Size/Structs.EBRSize) + 10
	for iter := 0; iter < maxIter; iter++ {
		if pos < extStart || pos+Structs.EBRSize > extEnd {
			break
		}
		var ebr Structs.EBR
		if err := Utilities.ReadObject(file, &ebr, int64(pos)); err != nil {
			break
		}
		if ebr.Status == Structs.StatusUsed {
			list = append(list, EBRAt{EBR: ebr, Pos: pos})
		}

		nextPos := ebr.Next
		// Si next es inválido o no avanza, intentar avanzar físicamente
		if nextPos <= pos || nextPos < extStart || nextPos+Structs.EBRSize > extEnd {
			if ebr.Size > 0 {
				candidate := pos + Structs.EBRSize + ebr.Size
				if candidate > pos && candidate+Structs.EBRSize <= extEnd {
					pos = candidate
				} else {
					break
				}
			} else {
				break // sin tamaño ya no hay más EBRs
			}
		} else {
			pos = nextPos
		}
	}
	return list
}

// LogicalNameTaken indica si alguna lógica activa ya usa el nombre
func LogicalNameTaken(ebrs []EBRAt, name string) bool {
	for _, e := range ebrs {
		if Structs.GetName(e.EBR.Name) == name {
			return true
		}
	}
	return false
}

// HolesInExtended calcula los huecos dentro de la extendida a partir de las
// posiciones de los EBRs activos. Cada lógica ocupa EBRSize + size bytes
// desde la posición de su EBR.
func HolesInExtended(ext Structs.Partition, ebrs []EBRAt) []Hole {
	extStart := ext.Start
	extEnd := ext.Start + ext.Size
	if len(ebrs) == 0 {
		return []Hole{{Start: extStart, Size: ext.Size}}
	}

	sorted := make([]EBRAt, len(ebrs))
	copy(sorted, ebrs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Pos < sorted[j].Pos })

	var holes []Hole
	if first := sorted[0].Pos; first > extStart {
		holes = append(holes, Hole{Start: extStart, Size: first - extStart})
	}
	for i := 0; i+1 < len(sorted); i++ {
		end := sorted[i].Pos + Structs.EBRSize + sorted[i].EBR.Size
		if next := sorted[i+1].Pos; next > end {
			holes = append(holes, Hole{Start: end, Size: next - end})
		}
	}
	last := sorted[len(sorted)-1]
	if end := last.Pos + Structs.EBRSize + last.EBR.Size; end < extEnd {
		holes = append(holes, Hole{Start: end, Size: extEnd - end})
	}
	return holes
}

// WriteEBRWithLinks escribe un EBR nuevo en posEBR y repara los enlaces del
// anterior y el siguiente según la posición física
func WriteEBRWithLinks(file *os.File, ext Structs.Partition, ebrs []EBRAt,
	posEBR, sizeBytes int32, fit byte, name string) error {

	extStart := ext.Start
	extEnd := ext.Start + ext.Size
	if posEBR < extStart {
		return fmt.Errorf("posición de EBR fuera de la extendida")
	}
	if posEBR+Structs.EBRSize+sizeBytes > extEnd {
		return fmt.Errorf("la lógica no cabe dentro de la extendida")
	}

	var nuevo Structs.EBR
	nuevo.Status = Structs.StatusUsed
	nuevo.Fit = fit
	nuevo.Start = posEBR + Structs.EBRSize
	nuevo.Size = sizeBytes
	nuevo.Next = -1
	Structs.SetName(&nuevo.Name, name)

	// Vecinos por posición física
	prevPos := int32(-1)
	nextPos := int32(-1)
	for _, e := range ebrs {
		if e.Pos < posEBR && e.Pos > prevPos {
			prevPos = e.Pos
		}
		if e.Pos > posEBR && (nextPos == -1 || e.Pos < nextPos) {
			nextPos = e.Pos
		}
	}
	if nextPos != -1 {
		nuevo.Next = nextPos
	}

	if prevPos != -1 {
		var prev Structs.EBR
		if err := Utilities.ReadObject(file, &prev, int64(prevPos)); err != nil {
			return err
		}
		prev.Next = posEBR
		if err := Utilities.WriteObject(file, prev, int64(prevPos)); err != nil {
			return err
		}
	}
	return Utilities.WriteObject(file, nuevo, int64(posEBR))
}
