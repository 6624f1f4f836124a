package DiskManagement

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"raiddisk/Structs"
	"raiddisk/Utilities"
)

// MountRegistry mantiene en memoria las particiones montadas durante la
// vida del proceso. Lo crea y lo posee el front-end; no hay estado global.
type MountRegistry struct {
	disks []Structs.MountedDisk
}

func NewMountRegistry() *MountRegistry {
	return &MountRegistry{}
}

// nextLetter devuelve la menor letra a..z que ningún disco montado usa
func (r *MountRegistry) nextLetter() (byte, bool) {
	for letter := byte('a'); letter <= 'z'; letter++ {
		taken := false
		for _, d := range r.disks {
			if d.Letter == letter {
				taken = true
				break
			}
		}
		if !taken {
			return letter, true
		}
	}
	return 0, false
}

// nextIndex devuelve el menor entero positivo libre dentro del disco
func nextIndex(disk *Structs.MountedDisk) int {
	prefix := fmt.Sprintf("vd%c", disk.Letter)
	used := make(map[int]bool)
	for _, p := range disk.Parts {
		if n, err := strconv.Atoi(strings.TrimPrefix(p.Id, prefix)); err == nil {
			used[n] = true
		}
	}
	index := 1
	for used[index] {
		index++
	}
	return index
}

// Mount registra la partición con nombre name del disco en path y le asigna
// un id vd<letra><número>. La partición debe existir y estar activa.
func (r *MountRegistry) Mount(path, name string, out io.Writer) bool {
	fmt.Fprintln(out, "======Inicio MOUNT======")

	if !Utilities.ValidDiskPath(path) {
		fmt.Fprintln(out, "Error: Extensión de disco inválida, use .disk")
		return false
	}

	file, err := Utilities.OpenFile(path)
	if err != nil {
		fmt.Fprintln(out, "Error: No se pudo abrir el disco:", err)
		return false
	}
	defer file.Close()

	mbr, err := readMBR(file)
	if err != nil {
		fmt.Fprintln(out, "Error: No se pudo leer el MBR:", err)
		return false
	}

	// La partición puede ser primaria, extendida o lógica
	found := false
	for i := 0; i < 4 && !found; i++ {
		p := mbr.Partitions[i]
		if p.Status == Structs.StatusUsed && Structs.GetName(p.Name) == name {
			found = true
		}
	}
	if !found {
		if ext, ok := FindExtended(&mbr); ok {
			found = LogicalNameTaken(ReadEBRs(file, ext), name)
		}
	}
	if !found {
		fmt.Fprintln(out, "Error: No se encontró la partición", name)
		return false
	}

	var disk *Structs.MountedDisk
	for i := range r.disks {
		if r.disks[i].Path == path {
			disk = &r.disks[i]
			break
		}
	}
	if disk == nil {
		letter, ok := r.nextLetter()
		if !ok {
			fmt.Fprintln(out, "Error: No hay letras de disco disponibles")
			return false
		}
		r.disks = append(r.disks, Structs.MountedDisk{Path: path, Letter: letter})
		disk = &r.disks[len(r.disks)-1]
	}

	for _, p := range disk.Parts {
		if p.Name == name {
			fmt.Fprintln(out, "Error: La partición ya está montada")
			return false
		}
	}

	id := fmt.Sprintf("vd%c%d", disk.Letter, nextIndex(disk))
	disk.Parts = append(disk.Parts, Structs.MountedPartition{Name: name, Id: id})
	r.printDisk(out, disk)
	fmt.Fprintln(out, "======Fin MOUNT======")
	return true
}

// Unmount elimina la entrada con el id dado; si el disco queda sin
// particiones montadas su letra vuelve a estar disponible
func (r *MountRegistry) Unmount(id string, out io.Writer) bool {
	fmt.Fprintln(out, "======Inicio UNMOUNT======")

	if !strings.HasPrefix(id, "vd") || len(id) < 4 {
		fmt.Fprintln(out, "Error: Formato de id inválido")
		return false
	}
	letter := id[2]

	for i := range r.disks {
		disk := &r.disks[i]
		if disk.Letter != letter {
			continue
		}
		for j, p := range disk.Parts {
			if p.Id != id {
				continue
			}
			disk.Parts = append(disk.Parts[:j], disk.Parts[j+1:]...)
			if len(disk.Parts) == 0 {
				r.disks = append(r.disks[:i], r.disks[i+1:]...)
				fmt.Fprintln(out, "Partición desmontada con éxito")
				fmt.Fprintln(out, "No quedan particiones montadas en el disco")
				return true
			}
			fmt.Fprintln(out, "Partición desmontada con éxito")
			r.printDisk(out, disk)
			return true
		}
		fmt.Fprintln(out, "Error: No existe una partición con ese id")
		return false
	}
	fmt.Fprintln(out, "Error: No existe un disco con esa letra")
	return false
}

// DiskForID devuelve la ruta del disco al que pertenece el id montado
func (r *MountRegistry) DiskForID(id string) (string, bool) {
	if len(id) < 4 || !strings.HasPrefix(id, "vd") {
		return "", false
	}
	for _, d := range r.disks {
		if d.Letter != id[2] {
			continue
		}
		for _, p := range d.Parts {
			if p.Id == id {
				return d.Path, true
			}
		}
	}
	return "", false
}

// Mounted imprime la tabla de particiones montadas de todos los discos
func (r *MountRegistry) Mounted(out io.Writer) {
	if len(r.disks) == 0 {
		fmt.Fprintln(out, "No hay particiones montadas")
		return
	}
	for i := range r.disks {
		fmt.Fprintln(out, "Disco:", r.disks[i].Path)
		r.printDisk(out, &r.disks[i])
	}
}

func (r *MountRegistry) printDisk(out io.Writer, disk *Structs.MountedDisk) {
	line := strings.Repeat("-", 34)
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, "|      Particiones Montadas      |")
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, "| Nombre              | ID       |")
	fmt.Fprintln(out, line)
	for _, p := range disk.Parts {
		fmt.Fprintf(out, "| %-20s| %-9s|\n", p.Name, p.Id)
	}
	fmt.Fprintln(out, line)
}
