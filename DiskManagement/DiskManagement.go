package DiskManagement

import (
	"fmt"
	"io"
	"os"
	"strings"

	"raiddisk/Structs"
	"raiddisk/Utilities"
)

// readMBR lee el MBR en la posición 0 del archivo
func readMBR(file *os.File) (Structs.MBR, error) {
	var mbr Structs.MBR
	err := Utilities.ReadObject(file, &mbr, 0)
	return mbr, err
}

// writeMBR guarda el MBR en la posición 0 del archivo
func writeMBR(file *os.File, mbr *Structs.MBR) error {
	return Utilities.WriteObject(file, *mbr, 0)
}

// FindExtended devuelve la partición extendida del MBR si existe
func FindExtended(mbr *Structs.MBR) (Structs.Partition, bool) {
	for i := 0; i < 4; i++ {
		p := mbr.Partitions[i]
		if p.Status == Structs.StatusUsed && p.Type == Structs.TypeExtended {
			return p, true
		}
	}
	return Structs.Partition{}, false
}

// fitByte convierte bf/ff/wf a su byte de ajuste
func fitByte(fit string) (byte, bool) {
	switch strings.ToLower(fit) {
	case "bf":
		return Structs.FitBest, true
	case "ff":
		return Structs.FitFirst, true
	case "wf":
		return Structs.FitWorst, true
	}
	return 0, false
}

// fitName devuelve el nombre legible de un byte de ajuste
func fitName(fit byte) string {
	switch fit {
	case Structs.FitBest:
		return "Best Fit"
	case Structs.FitFirst:
		return "First Fit"
	}
	return "Worst Fit"
}

// createEmptyDisk crea el archivo lleno de ceros y le escribe el MBR inicial
func createEmptyDisk(path string, sizeBytes int64, fit byte) error {
	if err := Utilities.CreateFile(path); err != nil {
		return err
	}
	file, err := Utilities.OpenFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Escribir ceros por bloques de 1024 bytes
	zeroBuffer := make([]byte, 1024)
	var written int64
	for written < sizeBytes {
		chunk := int64(len(zeroBuffer))
		if sizeBytes-written < chunk {
			chunk = sizeBytes - written
		}
		if _, err := file.Write(zeroBuffer[:chunk]); err != nil {
			return err
		}
		written += chunk
	}

	var mbr Structs.MBR
	mbr.Size = int32(sizeBytes)
	mbr.Fit = fit
	return writeMBR(file, &mbr)
}

// Mkdisk crea el disco y su espejo RAID con el MBR inicial en ambos.
// size se interpreta según unit, que debe ser k o m (el valor por defecto m
// lo aplica el analizador de comandos).
func Mkdisk(size int, fit string, unit string, path string, out io.Writer) bool {
	fmt.Fprintln(out, "======Inicio MKDISK======")

	fb, ok := fitByte(fit)
	if !ok {
		fmt.Fprintln(out, "Error: Fit debe ser bf, ff o wf")
		return false
	}
	if size <= 0 {
		fmt.Fprintln(out, "Error: Size debe ser mayor a 0")
		return false
	}
	if strings.ToLower(unit) != "k" && strings.ToLower(unit) != "m" {
		fmt.Fprintln(out, "Error: Unidad debe ser k o m")
		return false
	}
	if !Utilities.ValidDiskPath(path) {
		fmt.Fprintln(out, "Error: Extensión de disco inválida, use .disk")
		return false
	}
	sizeBytes, err := Utilities.ToBytes(int64(size), unit)
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return false
	}

	if err := createEmptyDisk(path, sizeBytes, fb); err != nil {
		fmt.Fprintln(out, "Error creando el disco:", err)
		return false
	}
	raidPath := Utilities.RaidPath(path)
	if err := createEmptyDisk(raidPath, sizeBytes, fb); err != nil {
		fmt.Fprintln(out, "Error creando el disco RAID:", err)
		return false
	}

	// Releer el MBR para verificar
	file, err := Utilities.OpenFile(path)
	if err != nil {
		fmt.Fprintln(out, "Error abriendo el disco:", err)
		return false
	}
	defer file.Close()
	mbr, err := readMBR(file)
	if err != nil {
		fmt.Fprintln(out, "Error leyendo MBR:", err)
		return false
	}
	fmt.Fprintln(out, "===Data recuperada===")
	fmt.Fprintln(out, "Tamaño del disco:", mbr.Size, "bytes")
	fmt.Fprintln(out, "Fit:", fitName(mbr.Fit))
	fmt.Fprintln(out, "Espejo RAID:", raidPath)
	fmt.Fprintln(out, "Disco creado con éxito")
	fmt.Fprintln(out, "======Fin MKDISK======")
	return true
}

// Rmdisk elimina el archivo del disco principal previa confirmación.
// El espejo RAID se conserva.
func Rmdisk(path string, out io.Writer, confirm ConfirmFunc) bool {
	fmt.Fprintln(out, "======Inicio RMDISK======")

	if !Utilities.ValidDiskPath(path) {
		fmt.Fprintln(out, "Error: Extensión de disco inválida, use .disk")
		return false
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(out, "Error: El archivo no existe")
		return false
	}

	switch confirm(">> ¿Seguro que desea eliminar el disco? Y/N: ") {
	case "y", "Y":
		// continuar
	case "n", "N":
		fmt.Fprintln(out, "Operación cancelada")
		return false
	default:
		fmt.Fprintln(out, "Entrada inválida. Operación cancelada")
		return false
	}

	if err := os.Remove(path); err != nil {
		fmt.Fprintln(out, "No se pudo eliminar el archivo:", err)
		return false
	}
	fmt.Fprintln(out, "Disco eliminado con éxito")
	fmt.Fprintln(out, "======Fin RMDISK======")
	return true
}
