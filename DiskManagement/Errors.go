package DiskManagement

import "errors"

// Errores que reporta el motor de particiones
var (
	ErrNotFound            = errors.New("no se encontró la partición")
	ErrNameInUse           = errors.New("ya existe una partición con ese nombre")
	ErrNoFreeSlot          = errors.New("no hay slots de partición disponibles")
	ErrExtendedExists      = errors.New("ya existe una partición extendida en el disco")
	ErrNoFit               = errors.New("no se encontró un hueco adecuado según el fit")
	ErrWouldUnderflow      = errors.New("el tamaño resultante debe ser un entero positivo")
	ErrWouldExpandIntoUsed = errors.New("no hay espacio suficiente para expandir")
)

// ConfirmFunc recibe el prompt de una operación destructiva y devuelve la
// respuesta del usuario. Solo "y" o "Y" confirma; "n" o "N" cancela;
// cualquier otra respuesta se trata como cancelación.
type ConfirmFunc func(prompt string) string

// AutoConfirm confirma sin preguntar; se usa en el modo servidor. La pasada
// sobre el disco espejo no pide confirmación.
func AutoConfirm(string) string { return "y" }
