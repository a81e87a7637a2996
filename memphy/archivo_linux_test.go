//go:build linux

package memphy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNuevaSobreArchivo(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "swap", "swapfile.bin")

	mp, err := NuevaSobreArchivo("SWAP0", ruta, 4*64, 64)
	if err != nil {
		t.Fatalf("Failed mapping swap file: %s", err)
	}

	if mp.CantidadMarcos() != 4 {
		t.Errorf("Wanted 4 frames, got %d", mp.CantidadMarcos())
	}
	if err := mp.Escribir(70, 0x55); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := mp.Cerrar(); err != nil {
		t.Fatalf("Failed closing swap file: %s", err)
	}

	contenido, err := os.ReadFile(ruta)
	if err != nil {
		t.Fatalf("Failed reading swap file: %s", err)
	}
	if len(contenido) != 4*64 || contenido[70] != 0x55 {
		t.Errorf("Swap file does not reflect writes (len %d)", len(contenido))
	}
}
