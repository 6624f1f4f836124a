package DiskManagement

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"raiddisk/Utilities"
)

// compressFile escribe una copia gzip del archivo src en dst
func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	gw.Name = src
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		return err
	}
	return out.Sync()
}

// Backup genera una copia comprimida del disco y, si existe, de su espejo
// RAID. No modifica los discos. Con dest vacío la copia queda junto al
// disco con extensión .gz.
func Backup(path, dest string, out io.Writer) bool {
	fmt.Fprintln(out, "======Inicio BACKUP======")

	if !Utilities.ValidDiskPath(path) {
		fmt.Fprintln(out, "Error: Extensión de disco inválida, use .disk")
		return false
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(out, "Error: El archivo no existe")
		return false
	}
	if dest == "" {
		dest = path + ".gz"
	}

	if err := compressFile(path, dest); err != nil {
		fmt.Fprintln(out, "Error al comprimir el disco:", err)
		return false
	}
	fmt.Fprintln(out, "Copia generada:", dest)

	raidPath := Utilities.RaidPath(path)
	if _, err := os.Stat(raidPath); err == nil {
		raidDest := raidPath + ".gz"
		if err := compressFile(raidPath, raidDest); err != nil {
			fmt.Fprintln(out, "Advertencia: no se pudo comprimir el espejo RAID:", err)
		} else {
			fmt.Fprintln(out, "Copia del espejo generada:", raidDest)
		}
	}
	fmt.Fprintln(out, "======Fin BACKUP======")
	return true
}
