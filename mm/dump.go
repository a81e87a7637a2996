package mm

import (
	"fmt"
	"io"
)

// VolcarTablaPaginas imprime las áreas, las PTE hasta el sbrk de cada área y
// el orden FIFO.
func (mm *EspacioDirecciones) VolcarTablaPaginas(w io.Writer) error {
	for _, area := range mm.areas {
		if _, err := fmt.Fprintf(w, "print_pgtbl: area %d [%d - %d) sbrk %d\n", area.ID, area.Inicio, area.Fin, area.sbrk); err != nil {
			return err
		}
		desde, _ := mm.Pagina(area.Inicio)
		hasta, _ := mm.Pagina(mm.AlinearPagina(area.sbrk))
		for pgn := desde; pgn < hasta; pgn++ {
			pte := mm.tabla[pgn]
			var estado string
			switch {
			case PTEPresente(pte):
				estado = fmt.Sprintf("marco %d", PTEMarco(pte))
			case PTESwapeada(pte):
				estado = fmt.Sprintf("swap %d slot %d", PTESwapTipo(pte), PTESwapDespl(pte))
			default:
				estado = "vacía"
			}
			if _, err := fmt.Fprintf(w, "%08d: %08x %s\n", pgn, pte, estado); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "fifo: %v\n", mm.fifo.Paginas())
	return err
}
