//go:build !linux

package memphy

import "fmt"

// NuevaSobreArchivo sólo está soportado en Linux; en otras plataformas se
// debe usar un dispositivo en memoria.
func NuevaSobreArchivo(nombre string, ruta string, tamanio int, tamPagina int) (*Memphy, error) {
	return nil, fmt.Errorf("%s: dispositivo sobre archivo no soportado en esta plataforma (%s)", nombre, ruta)
}
