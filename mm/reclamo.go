package mm

import (
	"fmt"

	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

// Reclamo resume lo devuelto a los pools al liberar entradas
type Reclamo struct {
	Marcos     int
	MarcosSwap int
}

// liberarEntrada devuelve el marco o slot de swap de pgn y limpia la PTE.
// No toca la cola FIFO.
func (mm *EspacioDirecciones) liberarEntrada(pgn int, disp Dispositivos) Reclamo {
	var r Reclamo
	pte := mm.tabla[pgn]
	switch {
	case PTEPresente(pte):
		disp.RAM().LiberarMarco(PTEMarco(pte))
		r.Marcos++
	case PTESwapeada(pte):
		swap := disp.Swap(PTESwapTipo(pte))
		if swap == nil {
			panic(fmt.Sprintf("PID %d: página %d en swap %d inexistente", mm.PID, pgn, PTESwapTipo(pte)))
		}
		swap.LiberarMarco(PTESwapDespl(pte))
		r.MarcosSwap++
	}
	mm.tabla[pgn] = 0
	return r
}

// LiberarMemoria recorre toda la tabla de páginas una vez y devuelve cada
// marco de RAM y cada slot de SWAP a su pool. Se usa al terminar el proceso:
// el espacio queda destruido, sin símbolos ni áreas.
func (mm *EspacioDirecciones) LiberarMemoria(disp Dispositivos) Reclamo {
	var total Reclamo
	for pgn := range mm.tabla {
		r := mm.liberarEntrada(pgn, disp)
		total.Marcos += r.Marcos
		total.MarcosSwap += r.MarcosSwap
	}
	mm.fifo.Vaciar()
	clear(mm.simbolos)
	mm.areas = nil
	mm.terminado = true

	utils.InfoLog.Info("Memoria del proceso liberada",
		"pid", mm.PID,
		"marcos_liberados", total.Marcos,
		"slots_swap_liberados", total.MarcosSwap)
	return total
}

// PrepararDirectorio deja en cero las PTE de cantPaginas páginas a partir de
// la página de dir, liberando lo que tuvieran mapeado.
func (mm *EspacioDirecciones) PrepararDirectorio(dir int, cantPaginas int, disp Dispositivos) (Reclamo, error) {
	if dir < 0 || cantPaginas < 0 {
		return Reclamo{}, fmt.Errorf("dirección %d, %d páginas: %w", dir, cantPaginas, ErrDireccionInvalida)
	}
	desde, _ := mm.Pagina(dir)
	if desde+cantPaginas > len(mm.tabla) {
		return Reclamo{}, fmt.Errorf("páginas %d a %d: %w", desde, desde+cantPaginas, ErrDireccionInvalida)
	}

	var total Reclamo
	for pgn := desde; pgn < desde+cantPaginas; pgn++ {
		mm.fifo.Quitar(pgn)
		r := mm.liberarEntrada(pgn, disp)
		total.Marcos += r.Marcos
		total.MarcosSwap += r.MarcosSwap
	}

	utils.InfoLog.Info("Directorio de páginas preparado", "pid", mm.PID, "pagina_inicial", desde, "paginas", cantPaginas)
	return total, nil
}
