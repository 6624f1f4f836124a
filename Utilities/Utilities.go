package Utilities

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// extensión obligatoria de los archivos de disco
const DiskExtension = ".disk"

//función para crear el archivo binario
func CreateFile(name string) error {
	dir := filepath.Dir(name)

	// Crear directorios si no existen
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return fmt.Errorf("error creando directorio %s: %w", dir, err)
			}
		}
	}

	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("error creando archivo %s: %w", name, err)
	}
	return file.Close()
}

//función para abrir el archivo binario en modo lectura/escritura
func OpenFile(name string) (*os.File, error) {
	file, err := os.OpenFile(name, os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	return file, nil
}

//función para escribir el objeto en el archivo binario en la posición dada
func WriteObject(file *os.File, data interface{}, position int64) error {
	if _, err := file.Seek(position, 0); err != nil {
		return err
	}
	if err := binary.Write(file, binary.LittleEndian, data); err != nil {
		return err
	}
	return file.Sync()
}

//Función para leer los objetos desde el archivo binario
func ReadObject(file *os.File, data interface{}, position int64) error {
	if _, err := file.Seek(position, 0); err != nil {
		return err
	}
	return binary.Read(file, binary.LittleEndian, data)
}

// ValidDiskPath verifica que la ruta termine en .disk
func ValidDiskPath(path string) bool {
	return strings.HasSuffix(path, DiskExtension)
}

// RaidPath deriva la ruta del disco espejo: la última aparición de
// ".disk" se sustituye por "_raid.disk"
func RaidPath(path string) string {
	pos := strings.LastIndex(path, DiskExtension)
	if pos == -1 {
		return path + "_raid" + DiskExtension
	}
	return path[:pos] + "_raid" + DiskExtension
}

// ToBytes convierte un tamaño en la unidad dada (b/k/m) a bytes
func ToBytes(size int64, unit string) (int64, error) {
	switch strings.ToLower(unit) {
	case "b":
		return size, nil
	case "k":
		return size * 1024, nil
	case "m":
		return size * 1024 * 1024, nil
	default:
		return 0, fmt.Errorf("unidad inválida: %s", unit)
	}
}
