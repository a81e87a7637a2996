package mm

import (
	"fmt"
	"slices"
)

// ColaFIFO guarda los números de página residentes en orden de carga
type ColaFIFO struct {
	paginas []int
}

// Encolar registra pgn como la página cargada más recientemente
func (f *ColaFIFO) Encolar(pgn int) {
	f.paginas = append(f.paginas, pgn)
}

// ExtraerVictima saca la página más vieja. La víctima no vuelve a la cola
// por sí sola: decide quien la pidió.
func (f *ColaFIFO) ExtraerVictima() (int, error) {
	if len(f.paginas) == 0 {
		return 0, ErrSinPaginasResidentes
	}
	pgn := f.paginas[0]
	f.paginas = slices.Delete(f.paginas, 0, 1)
	return pgn, nil
}

// Reinsertar vuelve a poner pgn como la más vieja
func (f *ColaFIFO) Reinsertar(pgn int) {
	f.paginas = slices.Insert(f.paginas, 0, pgn)
}

// Quitar elimina pgn de la cola, si está
func (f *ColaFIFO) Quitar(pgn int) bool {
	i := slices.Index(f.paginas, pgn)
	if i < 0 {
		return false
	}
	f.paginas = slices.Delete(f.paginas, i, i+1)
	return true
}

func (f *ColaFIFO) Len() int { return len(f.paginas) }

func (f *ColaFIFO) Paginas() []int { return slices.Clone(f.paginas) }

func (f *ColaFIFO) Vaciar() { f.paginas = nil }

// BuscarVictima elige la página a desalojar según FIFO
func (mm *EspacioDirecciones) BuscarVictima() (int, error) {
	pgn, err := mm.fifo.ExtraerVictima()
	if err != nil {
		return 0, fmt.Errorf("buscar víctima: %w", err)
	}
	return pgn, nil
}
