package DiskManagement

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"raiddisk/Structs"
	"raiddisk/Utilities"
)

// nameTaken verifica el nombre contra las particiones del MBR y contra las
// lógicas activas: los nombres son únicos en todo el disco
func nameTaken(file *os.File, mbr *Structs.MBR, name string) bool {
	for i := 0; i < 4; i++ {
		p := mbr.Partitions[i]
		if p.Status == Structs.StatusUsed && Structs.GetName(p.Name) == name {
			return true
		}
	}
	if ext, ok := FindExtended(mbr); ok {
		if LogicalNameTaken(ReadEBRs(file, ext), name) {
			return true
		}
	}
	return false
}

// writeZeros rellena con ceros el rango [start, start+size) del archivo
func writeZeros(file *os.File, start, size int64) error {
	if size <= 0 {
		return nil
	}
	if _, err := file.Seek(start, 0); err != nil {
		return err
	}
	buffer := make([]byte, 1024)
	var written int64
	for written < size {
		chunk := int64(len(buffer))
		if size-written < chunk {
			chunk = size - written
		}
		if _, err := file.Write(buffer[:chunk]); err != nil {
			return err
		}
		written += chunk
	}
	return file.Sync()
}

// createPartition crea una primaria o extendida sobre un solo archivo
func createPartition(path, name string, typ byte, sizeBytes int32, fit byte, out io.Writer) error {
	file, err := Utilities.OpenFile(path)
	if err != nil {
		return fmt.Errorf("no se pudo abrir el disco: %w", err)
	}
	defer file.Close()

	mbr, err := readMBR(file)
	if err != nil {
		return fmt.Errorf("no se pudo leer el MBR: %w", err)
	}

	slot := -1
	for i := 0; i < 4; i++ {
		if mbr.Partitions[i].Status == Structs.StatusFree {
			slot = i
			break
		}
	}
	if slot == -1 {
		return ErrNoFreeSlot
	}
	if typ == Structs.TypeExtended {
		if _, ok := FindExtended(&mbr); ok {
			return ErrExtendedExists
		}
	}
	if nameTaken(file, &mbr, name) {
		return ErrNameInUse
	}

	used := UsedPartitions(&mbr)
	holes := CalculateHoles(used, Structs.MBRSize, mbr.Size)
	maxHole := int32(0)
	for _, h := range holes {
		if h.Size > maxHole {
			maxHole = h.Size
		}
	}
	fmt.Fprintln(out, "Espacio disponible:", maxHole, "bytes")
	fmt.Fprintln(out, "Espacio necesario :", sizeBytes, "bytes")

	hole := ChooseHole(holes, sizeBytes, fit)
	if hole.Start == -1 {
		return ErrNoFit
	}

	p := &mbr.Partitions[slot]
	p.Status = Structs.StatusUsed
	p.Type = typ
	p.Fit = fit
	p.Start = hole.Start
	p.Size = sizeBytes
	Structs.SetName(&p.Name, name)

	// La extendida arranca con un EBR centinela inactivo
	if typ == Structs.TypeExtended {
		var ebr Structs.EBR
		ebr.Status = Structs.StatusFree
		ebr.Fit = fit
		ebr.Start = hole.Start
		ebr.Size = 0
		ebr.Next = -1
		if err := Utilities.WriteObject(file, ebr, int64(hole.Start)); err != nil {
			return err
		}
	}
	return writeMBR(file, &mbr)
}

// createLogical crea una lógica sobre un solo archivo. Con forcePos >= 0 el
// EBR se escribe en esa posición (pasada sobre el espejo); con forcePos < 0
// la posición la decide el fit de la extendida. Devuelve la posición usada.
func createLogical(path, name string, sizeBytes int32, out io.Writer, forcePos int32) (int32, error) {
	file, err := Utilities.OpenFile(path)
	if err != nil {
		return -1, fmt.Errorf("no se pudo abrir el disco: %w", err)
	}
	defer file.Close()

	mbr, err := readMBR(file)
	if err != nil {
		return -1, fmt.Errorf("no se pudo leer el MBR: %w", err)
	}
	ext, ok := FindExtended(&mbr)
	if !ok {
		return -1, fmt.Errorf("no existe una partición extendida: %w", ErrNotFound)
	}
	ebrs := ReadEBRs(file, ext)
	if nameTaken(file, &mbr, name) {
		return -1, ErrNameInUse
	}

	posEBR := forcePos
	if posEBR < 0 {
		holes := HolesInExtended(ext, ebrs)
		maxHole := int32(0)
		for _, h := range holes {
			if h.Size > maxHole {
				maxHole = h.Size
			}
		}
		fmt.Fprintln(out, "Espacio disponible:", maxHole, "bytes")
		fmt.Fprintln(out, "Espacio necesario :", sizeBytes+Structs.EBRSize, "bytes")

		hole := ChooseHole(holes, sizeBytes+Structs.EBRSize, ext.Fit)
		if hole.Start == -1 {
			return -1, ErrNoFit
		}
		posEBR = hole.Start
	}

	if err := WriteEBRWithLinks(file, ext, ebrs, posEBR, sizeBytes, ext.Fit, name); err != nil {
		return -1, err
	}
	return posEBR, nil
}

// resizeLogical modifica el tamaño de una lógica en el archivo dado
func resizeLogical(file *os.File, ext Structs.Partition, name string, addBytes int32) error {
	ebrs := ReadEBRs(file, ext)
	target := -1
	for i, e := range ebrs {
		if Structs.GetName(e.EBR.Name) == name {
			target = i
			break
		}
	}
	if target == -1 {
		return ErrNotFound
	}
	ebr := ebrs[target].EBR
	pos := ebrs[target].Pos

	newSize := ebr.Size + addBytes
	if newSize <= 0 {
		return ErrWouldUnderflow
	}
	if addBytes > 0 {
		// El tope de expansión es el siguiente EBR activo por posición
		// física, o el final de la extendida
		bound := ext.Start + ext.Size
		for _, e := range ebrs {
			if e.Pos > pos && e.Pos < bound {
				bound = e.Pos
			}
		}
		end := ebr.Start + ebr.Size
		if end+addBytes > bound {
			return ErrWouldExpandIntoUsed
		}
	}
	ebr.Size = newSize
	return Utilities.WriteObject(file, ebr, int64(pos))
}

// addPartition aplica el cambio de tamaño sobre un solo archivo
func addPartition(path, name string, addBytes int32) error {
	file, err := Utilities.OpenFile(path)
	if err != nil {
		return fmt.Errorf("no se pudo abrir el disco: %w", err)
	}
	defer file.Close()

	mbr, err := readMBR(file)
	if err != nil {
		return fmt.Errorf("no se pudo leer el MBR: %w", err)
	}

	// Buscar primero en el MBR
	for i := 0; i < 4; i++ {
		p := &mbr.Partitions[i]
		if p.Status != Structs.StatusUsed || Structs.GetName(p.Name) != name {
			continue
		}
		newSize := p.Size + addBytes
		if newSize <= 0 {
			return ErrWouldUnderflow
		}
		if addBytes > 0 {
			used := UsedPartitions(&mbr)
			holes := CalculateHoles(used, Structs.MBRSize, mbr.Size)
			end := p.Start + p.Size
			var available int32
			for _, h := range holes {
				if h.Start == end {
					available = h.Size
					break
				}
			}
			if available < addBytes {
				return ErrWouldExpandIntoUsed
			}
		}
		p.Size = newSize
		return writeMBR(file, &mbr)
	}

	// Si no está en el MBR puede ser una lógica
	ext, ok := FindExtended(&mbr)
	if !ok {
		return ErrNotFound
	}
	return resizeLogical(file, ext, name, addBytes)
}

// findPartitionType localiza la partición por nombre y devuelve 'P', 'E' o 'L'
func findPartitionType(path, name string) (byte, error) {
	file, err := Utilities.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("no se pudo abrir el disco: %w", err)
	}
	defer file.Close()

	mbr, err := readMBR(file)
	if err != nil {
		return 0, fmt.Errorf("no se pudo leer el MBR: %w", err)
	}
	for i := 0; i < 4; i++ {
		p := mbr.Partitions[i]
		if p.Status == Structs.StatusUsed && Structs.GetName(p.Name) == name {
			return p.Type, nil
		}
	}
	if ext, ok := FindExtended(&mbr); ok {
		for _, e := range ReadEBRs(file, ext) {
			if Structs.GetName(e.EBR.Name) == name {
				return 'L', nil
			}
		}
	}
	return 0, ErrNotFound
}

// deletePartition elimina la partición sobre un solo archivo. En modo full
// además se rellena con ceros el rango de datos.
func deletePartition(path, name, mode string) error {
	file, err := Utilities.OpenFile(path)
	if err != nil {
		return fmt.Errorf("no se pudo abrir el disco: %w", err)
	}
	defer file.Close()

	mbr, err := readMBR(file)
	if err != nil {
		return fmt.Errorf("no se pudo leer el MBR: %w", err)
	}

	for i := 0; i < 4; i++ {
		p := &mbr.Partitions[i]
		if p.Status != Structs.StatusUsed || Structs.GetName(p.Name) != name {
			continue
		}
		if p.Type == Structs.TypeExtended {
			// Marcar libres todos los EBRs de la extendida
			for _, e := range ReadEBRs(file, *p) {
				ebr := e.EBR
				ebr.Status = Structs.StatusFree
				if err := Utilities.WriteObject(file, ebr, int64(e.Pos)); err != nil {
					return err
				}
			}
		}
		p.Status = Structs.StatusFree
		if mode == "full" {
			if err := writeZeros(file, int64(p.Start), int64(p.Size)); err != nil {
				return err
			}
		}
		return writeMBR(file, &mbr)
	}

	// Lógica
	ext, ok := FindExtended(&mbr)
	if !ok {
		return ErrNotFound
	}
	for _, e := range ReadEBRs(file, ext) {
		if Structs.GetName(e.EBR.Name) != name {
			continue
		}
		ebr := e.EBR
		ebr.Status = Structs.StatusFree
		if err := Utilities.WriteObject(file, ebr, int64(e.Pos)); err != nil {
			return err
		}
		if mode == "full" {
			if err := writeZeros(file, int64(ebr.Start), int64(ebr.Size)); err != nil {
				return err
			}
		}
		return nil
	}
	return ErrNotFound
}

// mirrorWarn reporta una falla sobre el espejo sin afectar el resultado
// sobre el disco principal
func mirrorWarn(out io.Writer, err error) {
	if err != nil {
		fmt.Fprintln(out, "Advertencia: no se pudo actualizar el espejo RAID:", err)
	}
}

// Fdisk crea una partición primaria (p), extendida (e) o lógica (l) y
// repite la operación sobre el espejo RAID con la salida silenciada
func Fdisk(size int, unit, path, name, typ, fit string, out io.Writer) bool {
	fmt.Fprintln(out, "======Inicio FDISK======")

	if !Utilities.ValidDiskPath(path) {
		fmt.Fprintln(out, "Error: Extensión de disco inválida, use .disk")
		return false
	}
	if name == "" {
		fmt.Fprintln(out, "Error: El parámetro -name es requerido")
		return false
	}
	if size <= 0 {
		fmt.Fprintln(out, "Error: Size debe ser mayor a 0")
		return false
	}
	fb, ok := fitByte(fit)
	if !ok {
		fmt.Fprintln(out, "Error: Fit debe ser bf, ff o wf")
		return false
	}
	sizeBytes, err := Utilities.ToBytes(int64(size), unit)
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return false
	}
	if sizeBytes > math.MaxInt32 {
		fmt.Fprintln(out, "Error: Tamaño demasiado grande")
		return false
	}
	raidPath := Utilities.RaidPath(path)

	switch strings.ToLower(typ) {
	case "p", "e":
		pt := Structs.TypePrimary
		label := "primaria"
		if strings.ToLower(typ) == "e" {
			pt = Structs.TypeExtended
			label = "extendida"
		}
		if err := createPartition(path, name, pt, int32(sizeBytes), fb, out); err != nil {
			fmt.Fprintln(out, "Error al crear partición "+label+":", err)
			return false
		}
		mirrorWarn(out, createPartition(raidPath, name, pt, int32(sizeBytes), fb, io.Discard))
		fmt.Fprintln(out, "Partición "+label+" creada con éxito")
	case "l":
		pos, err := createLogical(path, name, int32(sizeBytes), out, -1)
		if err != nil {
			fmt.Fprintln(out, "Error al crear partición lógica:", err)
			return false
		}
		// Mismo offset de EBR sobre el espejo
		_, err = createLogical(raidPath, name, int32(sizeBytes), io.Discard, pos)
		mirrorWarn(out, err)
		fmt.Fprintln(out, "Partición lógica creada con éxito")
	default:
		fmt.Fprintln(out, "Error: Tipo inválido, use p, e o l")
		return false
	}
	fmt.Fprintln(out, "======Fin FDISK======")
	return true
}

// FdiskAdd agranda o reduce la partición con el delta dado (bytes con signo
// según unit) y replica el cambio sobre el espejo RAID
func FdiskAdd(path, name string, add int, unit string, out io.Writer) bool {
	fmt.Fprintln(out, "======Inicio FDISK ADD======")

	if !Utilities.ValidDiskPath(path) {
		fmt.Fprintln(out, "Error: Extensión de disco inválida, use .disk")
		return false
	}
	if add == 0 {
		fmt.Fprintln(out, "Error: El parámetro -add no puede ser 0")
		return false
	}
	addBytes, err := Utilities.ToBytes(int64(add), unit)
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return false
	}
	if addBytes > math.MaxInt32 || addBytes < math.MinInt32 {
		fmt.Fprintln(out, "Error: Tamaño demasiado grande")
		return false
	}

	if err := addPartition(path, name, int32(addBytes)); err != nil {
		fmt.Fprintln(out, "Error al modificar espacio para "+name+":", err)
		return false
	}
	mirrorWarn(out, addPartition(Utilities.RaidPath(path), name, int32(addBytes)))

	fmt.Fprintln(out, "Espacio modificado para", name)
	fmt.Fprintln(out, "======Fin FDISK ADD======")
	return true
}

// FdiskDelete elimina la partición en modo fast (solo marca el estado) o
// full (además rellena los datos con ceros), previa confirmación, y replica
// la eliminación sobre el espejo RAID
func FdiskDelete(path, name, mode string, out io.Writer, confirm ConfirmFunc) bool {
	fmt.Fprintln(out, "======Inicio FDISK DELETE======")

	if !Utilities.ValidDiskPath(path) {
		fmt.Fprintln(out, "Error: Extensión de disco inválida, use .disk")
		return false
	}
	mode = strings.ToLower(mode)
	if mode != "fast" && mode != "full" {
		fmt.Fprintln(out, "Error: Valor inválido para -delete, use fast o full")
		return false
	}

	tipo, err := findPartitionType(path, name)
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return false
	}

	switch confirm(">> ¿Seguro que desea eliminar la partición? Y/N: ") {
	case "y", "Y":
		// continuar
	case "n", "N":
		fmt.Fprintln(out, "Operación cancelada")
		return false
	default:
		fmt.Fprintln(out, "Entrada inválida. Operación cancelada")
		return false
	}

	if err := deletePartition(path, name, mode); err != nil {
		fmt.Fprintln(out, "Error al eliminar la partición:", err)
		return false
	}
	mirrorWarn(out, deletePartition(Utilities.RaidPath(path), name, mode))

	switch tipo {
	case Structs.TypePrimary:
		fmt.Fprintln(out, "Partición primaria eliminada con éxito")
	case Structs.TypeExtended:
		fmt.Fprintln(out, "Partición extendida eliminada con éxito")
	default:
		fmt.Fprintln(out, "Partición lógica eliminada con éxito")
	}
	fmt.Fprintln(out, "======Fin FDISK DELETE======")
	return true
}
