package Analyzer

import (
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"

	"raiddisk/DiskManagement"
	"raiddisk/Reportes"
)

var re = regexp.MustCompile(`-(\w+)=("[^"]+"|\S+)`)

// ProcessScript procesa un bloque de comandos separados por saltos de
// línea; las líneas vacías y los comentarios con # se ignoran
func ProcessScript(input string, registry *DiskManagement.MountRegistry,
	out io.Writer, confirm DiskManagement.ConfirmFunc) {

	lines := strings.Split(strings.TrimSpace(input), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fmt.Fprintf(out, ">>> Procesando: %s\n", line)
		ProcessCommand(line, registry, out, confirm)
		fmt.Fprintln(out)
	}
}

// ProcessCommand analiza una línea de comando y la despacha
func ProcessCommand(input string, registry *DiskManagement.MountRegistry,
	out io.Writer, confirm DiskManagement.ConfirmFunc) {

	command, params := getCommandAndParams(input)

	switch command {
	case "mkdisk":
		fn_mkdisk(params, out)
	case "rmdisk":
		fn_rmdisk(params, out, confirm)
	case "fdisk":
		fn_fdisk(params, out, confirm)
	case "mount":
		fn_mount(params, registry, out)
	case "unmount":
		fn_unmount(params, registry, out)
	case "mounted":
		registry.Mounted(out)
	case "rep":
		fn_rep(params, registry, out)
	case "backup":
		fn_backup(params, out)
	case "exit":
		fmt.Fprintln(out, "Comando exit recibido")
	case "":
		// línea vacía
	default:
		fmt.Fprintln(out, "Error: Comando no reconocido:", command)
	}
}

func getCommandAndParams(input string) (string, string) {
	parts := strings.Fields(input)
	if len(parts) > 0 {
		command := strings.ToLower(parts[0])
		params := strings.Join(parts[1:], " ")
		return command, params
	}
	return "", input
}

// managementFlags alimenta el FlagSet con los tokens -clave=valor de la
// línea; los valores pueden ir entre comillas
func managementFlags(fs *flag.FlagSet, params string) {
	matches := re.FindAllStringSubmatch(params, -1)
	var args []string
	for _, m := range matches {
		key := strings.ToLower(m[1])
		value := strings.Trim(m[2], "\"")
		args = append(args, "-"+key+"="+value)
	}
	fs.Parse(args)
}

func fn_mkdisk(params string, out io.Writer) {
	fs := flag.NewFlagSet("mkdisk", flag.ContinueOnError)
	fs.SetOutput(out)

	size := fs.Int("size", 0, "Tamaño del disco")
	fit := fs.String("fit", "ff", "Fit (opcional, default: ff)")
	unit := fs.String("unit", "m", "Unidad k/m (opcional, default: m)")
	path := fs.String("path", "", "Ruta del disco")

	managementFlags(fs, params)

	if *size <= 0 {
		fmt.Fprintln(out, "Error: El parámetro -size es requerido y debe ser mayor a 0")
		fmt.Fprintln(out, "Uso: mkdisk -size=<tamaño> -path=<ruta> [-unit=<k|m>] [-fit=<bf|ff|wf>]")
		return
	}
	if *path == "" {
		fmt.Fprintln(out, "Error: El parámetro -path es requerido")
		return
	}
	DiskManagement.Mkdisk(*size, *fit, *unit, *path, out)
}

func fn_rmdisk(params string, out io.Writer, confirm DiskManagement.ConfirmFunc) {
	fs := flag.NewFlagSet("rmdisk", flag.ContinueOnError)
	fs.SetOutput(out)

	path := fs.String("path", "", "Ruta del disco a eliminar")

	managementFlags(fs, params)

	if *path == "" {
		fmt.Fprintln(out, "Error: El parámetro -path es requerido")
		fmt.Fprintln(out, "Uso: rmdisk -path=<ruta_del_disco>")
		return
	}
	DiskManagement.Rmdisk(*path, out, confirm)
}

func fn_fdisk(params string, out io.Writer, confirm DiskManagement.ConfirmFunc) {
	fs := flag.NewFlagSet("fdisk", flag.ContinueOnError)
	fs.SetOutput(out)

	size := fs.Int("size", 0, "Tamaño de la partición")
	path := fs.String("path", "", "Ruta del disco")
	name := fs.String("name", "", "Nombre de la partición")
	type_ := fs.String("type", "p", "Tipo de la partición p/e/l (opcional, default: p)")
	fit := fs.String("fit", "wf", "Fit (opcional, default: wf)")
	unit := fs.String("unit", "k", "Unidad b/k/m (opcional, default: k)")
	add := fs.Int("add", 0, "Agregar o quitar espacio (opcional)")
	delete_ := fs.String("delete", "", "Eliminar partición fast/full (opcional)")

	managementFlags(fs, params)

	if *path == "" {
		fmt.Fprintln(out, "Error: El parámetro -path es requerido")
		return
	}
	if *name == "" {
		fmt.Fprintln(out, "Error: El parámetro -name es requerido")
		return
	}

	// -size, -add y -delete son mutuamente excluyentes
	exclusive := 0
	if *size != 0 {
		exclusive++
	}
	if *add != 0 {
		exclusive++
	}
	if *delete_ != "" {
		exclusive++
	}
	if exclusive > 1 {
		fmt.Fprintln(out, "Error: -size, -add y -delete no se pueden combinar")
		return
	}

	if *delete_ != "" {
		DiskManagement.FdiskDelete(*path, *name, *delete_, out, confirm)
		return
	}
	if *add != 0 {
		DiskManagement.FdiskAdd(*path, *name, *add, *unit, out)
		return
	}
	if *size <= 0 {
		fmt.Fprintln(out, "Error: El parámetro -size es requerido y debe ser mayor a 0")
		fmt.Fprintln(out, "Uso: fdisk -size=<tamaño> -path=<ruta> -name=<nombre> [-type=<p|e|l>] [-unit=<b|k|m>] [-fit=<bf|ff|wf>]")
		return
	}
	DiskManagement.Fdisk(*size, *unit, *path, *name, *type_, *fit, out)
}

func fn_mount(params string, registry *DiskManagement.MountRegistry, out io.Writer) {
	fs := flag.NewFlagSet("mount", flag.ContinueOnError)
	fs.SetOutput(out)

	path := fs.String("path", "", "Ruta del disco")
	name := fs.String("name", "", "Nombre de la partición")

	managementFlags(fs, params)

	if *path == "" || *name == "" {
		fmt.Fprintln(out, "Error: Los parámetros -path y -name son requeridos")
		return
	}
	registry.Mount(*path, *name, out)
}

func fn_unmount(params string, registry *DiskManagement.MountRegistry, out io.Writer) {
	fs := flag.NewFlagSet("unmount", flag.ContinueOnError)
	fs.SetOutput(out)

	id := fs.String("id", "", "Id de la partición montada")

	managementFlags(fs, params)

	if *id == "" {
		fmt.Fprintln(out, "Error: El parámetro -id es requerido")
		return
	}
	registry.Unmount(*id, out)
}

func fn_rep(params string, registry *DiskManagement.MountRegistry, out io.Writer) {
	fs := flag.NewFlagSet("rep", flag.ContinueOnError)
	fs.SetOutput(out)

	id := fs.String("id", "", "Id de la partición montada")
	path := fs.String("path", "", "Ruta de salida del reporte")

	managementFlags(fs, params)

	if *id == "" {
		fmt.Fprintln(out, "Error: El parámetro -id es requerido")
		return
	}
	if *path == "" {
		fmt.Fprintln(out, "Error: El parámetro -path es requerido")
		return
	}
	Reportes.GenerateDiskReport(*id, *path, registry, out)
}

func fn_backup(params string, out io.Writer) {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	fs.SetOutput(out)

	path := fs.String("path", "", "Ruta del disco")
	dest := fs.String("dest", "", "Ruta de la copia (opcional)")

	managementFlags(fs, params)

	if *path == "" {
		fmt.Fprintln(out, "Error: El parámetro -path es requerido")
		return
	}
	DiskManagement.Backup(*path, *dest, out)
}
