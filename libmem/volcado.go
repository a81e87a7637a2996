package libmem

import (
	"fmt"
	"io"
	"strings"

	"github.com/sisoputnfrba/tp-memoria-virtual/kernel"
	"github.com/sisoputnfrba/tp-memoria-virtual/mm"
)

// TablaDePaginas devuelve el volcado de áreas, PTE y orden FIFO del proceso
func TablaDePaginas(proc *kernel.PCB) (string, error) {
	mmvmLock.Lock()
	defer mmvmLock.Unlock()

	var sb strings.Builder
	if err := proc.MM.VolcarTablaPaginas(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// VolcarMemoria escribe en w el contenido de las páginas residentes del
// proceso, en orden de carga. Devuelve cuántas páginas escribió.
func VolcarMemoria(proc *kernel.PCB, w io.Writer) (int, error) {
	mmvmLock.Lock()
	defer mmvmLock.Unlock()

	ram := proc.Kernel.MemoriaFisica()
	paginas := proc.MM.PaginasResidentes()
	for _, pgn := range paginas {
		pte, err := proc.MM.Entrada(pgn)
		if err != nil {
			return 0, err
		}
		if !mm.PTEPresente(pte) {
			return 0, fmt.Errorf("página %d en la cola FIFO sin estar presente", pgn)
		}
		contenido, err := ram.LeerMarco(mm.PTEMarco(pte))
		if err != nil {
			return 0, err
		}
		if _, err := w.Write(contenido); err != nil {
			return 0, err
		}
	}
	return len(paginas), nil
}

// Metricas devuelve una copia de las métricas del proceso
func Metricas(proc *kernel.PCB) mm.Metricas {
	mmvmLock.Lock()
	defer mmvmLock.Unlock()
	return proc.MM.Metricas
}

// VolcarDispositivos escribe las celdas no nulas de la RAM y de cada SWAP
func VolcarDispositivos(k *kernel.Kernel, w io.Writer) error {
	mmvmLock.Lock()
	defer mmvmLock.Unlock()

	if err := k.MemoriaFisica().Volcar(w); err != nil {
		return err
	}
	for _, swap := range k.DispositivosSwap() {
		if err := swap.Volcar(w); err != nil {
			return err
		}
	}
	return nil
}
