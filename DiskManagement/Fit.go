package DiskManagement

import (
	"sort"

	"raiddisk/Structs"
)

// Hueco libre dentro de una región lineal de bytes
type Hole struct {
	Start int32
	Size  int32
}

// UsedPartitions devuelve las particiones activas del MBR ordenadas por
// posición de inicio
func UsedPartitions(mbr *Structs.MBR) []Structs.Partition {
	var used []Structs.Partition
	for i := 0; i < 4; i++ {
		if mbr.Partitions[i].Status == Structs.StatusUsed {
			used = append(used, mbr.Partitions[i])
		}
	}
	sort.Slice(used, func(i, j int) bool { return used[i].Start < used[j].Start })
	return used
}

// CalculateHoles calcula los huecos libres entre regionStart y regionEnd
// dadas las particiones usadas (ya ordenadas por inicio)
func CalculateHoles(used []Structs.Partition, regionStart, regionEnd int32) []Hole {
	var holes []Hole
	cursor := regionStart
	for _, p := range used {
		if cursor < p.Start {
			holes = append(holes, Hole{Start: cursor, Size: p.Start - cursor})
		}
		if end := p.Start + p.Size; end > cursor {
			cursor = end
		}
	}
	if cursor < regionEnd {
		holes = append(holes, Hole{Start: cursor, Size: regionEnd - cursor})
	}
	return holes
}

// ChooseHole aplica el ajuste pedido sobre la lista de huecos.
// First: el primero en orden físico donde cabe. Best: el más pequeño donde
// cabe. Worst: el más grande de todos, y solo entonces se verifica que cabe.
// Devuelve {-1,-1} si ninguno sirve.
func ChooseHole(holes []Hole, sizeBytes int32, fit byte) Hole {
	chosen := Hole{Start: -1, Size: -1}
	if len(holes) == 0 {
		return chosen
	}
	switch fit {
	case Structs.FitFirst:
		for _, h := range holes {
			if h.Size >= sizeBytes {
				return h
			}
		}
	case Structs.FitBest:
		for _, h := range holes {
			if h.Size >= sizeBytes && (chosen.Size == -1 || h.Size < chosen.Size) {
				chosen = h
			}
		}
	default: // Worst
		chosen = holes[0]
		for _, h := range holes[1:] {
			if h.Size > chosen.Size {
				chosen = h
			}
		}
		if chosen.Size < sizeBytes {
			return Hole{Start: -1, Size: -1}
		}
	}
	return chosen
}
