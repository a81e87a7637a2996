//go:build linux

package memphy

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

// NuevaSobreArchivo crea un dispositivo cuyo contenido vive en un archivo
// mapeado en memoria (MAP_SHARED). Se usa para el archivo de SWAP.
func NuevaSobreArchivo(nombre string, ruta string, tamanio int, tamPagina int) (*Memphy, error) {
	if err := validarGeometria(tamanio, tamPagina); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(ruta), 0755); err != nil {
		return nil, fmt.Errorf("error al crear directorio para %s: %w", nombre, err)
	}

	archivo, err := os.OpenFile(ruta, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("error al abrir archivo de %s: %w", nombre, err)
	}
	defer archivo.Close()

	if err := archivo.Truncate(int64(tamanio)); err != nil {
		return nil, fmt.Errorf("error al dimensionar archivo de %s: %w", nombre, err)
	}

	datos, err := unix.Mmap(int(archivo.Fd()), 0, tamanio, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("error al mapear archivo de %s: %w", nombre, err)
	}

	utils.InfoLog.Info("Archivo de dispositivo mapeado", "dispositivo", nombre, "archivo", ruta, "tamaño_bytes", tamanio)

	cerrar := func() error {
		if err := unix.Msync(datos, unix.MS_SYNC); err != nil {
			unix.Munmap(datos)
			return fmt.Errorf("error sincronizando %s: %w", nombre, err)
		}
		return unix.Munmap(datos)
	}
	return formatear(nombre, datos, tamPagina, cerrar), nil
}
