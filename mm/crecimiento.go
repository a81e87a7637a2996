package mm

import (
	"fmt"

	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

// IncrementarLimite es la parte privilegiada del crecimiento: extiende el
// área vmaid en incSz bytes (alineados a página) a partir de su sbrk y mapea
// las páginas nuevas en RAM. Es el único lugar que avanza el sbrk.
func (mm *EspacioDirecciones) IncrementarLimite(vmaid int, incSz int, disp Dispositivos) error {
	area, err := mm.Area(vmaid)
	if err != nil {
		return err
	}
	if incSz <= 0 {
		return fmt.Errorf("incremento %d: %w", incSz, ErrTamanioInvalido)
	}

	inc := mm.AlinearPagina(incSz)
	nueva := Region{Inicio: area.sbrk, Fin: area.sbrk + inc}
	if nueva.Fin > mm.LimiteVirtual() {
		return fmt.Errorf("área %d hasta %d excede el espacio virtual: %w", vmaid, nueva.Fin, ErrSinEspacio)
	}
	for _, otra := range mm.areas {
		if otra.ID == vmaid {
			continue
		}
		ocupado := Region{Inicio: otra.Inicio, Fin: max(otra.Fin, otra.Inicio+1)}
		if nueva.Solapa(ocupado) {
			return fmt.Errorf("área %d %v solapa con el área %d: %w", vmaid, nueva, otra.ID, ErrSinEspacio)
		}
	}

	desde, hasta := nueva.Inicio>>mm.desplBits, nueva.Fin>>mm.desplBits
	mapeadas := make([]int, 0, hasta-desde)
	for pgn := desde; pgn < hasta; pgn++ {
		if mm.tabla[pgn] != 0 {
			// ya tocada por un acceso fuera de región
			continue
		}

		marco, err := mm.obtenerMarco(disp)
		if err == nil {
			err = mm.cargarPagina(pgn, marco, disp)
			if err != nil {
				disp.RAM().LiberarMarco(marco)
			}
		}
		if err != nil {
			mm.deshacerMapeo(mapeadas, disp)
			utils.ErrorLog.Error("No se pudo crecer el área", "pid", mm.PID, "area", vmaid, "incremento", inc, "error", err)
			return fmt.Errorf("crecer área %d: %w: %w", vmaid, ErrSinEspacio, err)
		}
		mapeadas = append(mapeadas, pgn)
	}

	area.Fin = nueva.Fin
	area.sbrk = nueva.Fin

	utils.InfoLog.Info("Área extendida", "pid", mm.PID, "area", vmaid, "sbrk", area.sbrk, "paginas", len(mapeadas))
	return nil
}

func (mm *EspacioDirecciones) deshacerMapeo(paginas []int, disp Dispositivos) {
	for _, pgn := range paginas {
		mm.fifo.Quitar(pgn)
		mm.liberarEntrada(pgn, disp)
	}
}
