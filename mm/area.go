package mm

import (
	"fmt"
	"slices"
)

// Region es un rango virtual [Inicio, Fin). En la tabla de símbolos identifica
// una reserva viva; en la lista de libres, espacio reutilizable.
type Region struct {
	Inicio int
	Fin    int
}

// Vacia indica un slot de la tabla de símbolos sin asignar
func (r Region) Vacia() bool { return r.Inicio == 0 && r.Fin == 0 }

func (r Region) Tamanio() int { return r.Fin - r.Inicio }

func (r Region) Solapa(otra Region) bool {
	return r.Inicio < otra.Fin && otra.Inicio < r.Fin
}

func (r Region) String() string { return fmt.Sprintf("[%d, %d)", r.Inicio, r.Fin) }

// AreaVirtual es un segmento contiguo del espacio de direcciones con su
// propia lista de regiones libres y su límite de crecimiento (sbrk).
type AreaVirtual struct {
	ID     int
	Inicio int
	Fin    int

	sbrk   int
	libres []Region
}

// Sbrk es el límite actual de crecimiento. Sólo lo avanza IncrementarLimite.
func (a *AreaVirtual) Sbrk() int { return a.sbrk }

// RegionesLibres devuelve una copia de la lista de libres en orden
func (a *AreaVirtual) RegionesLibres() []Region {
	return slices.Clone(a.libres)
}

// AgregarRegionLibre inserta la región al frente de la lista de libres
func (a *AreaVirtual) AgregarRegionLibre(rg Region) error {
	if rg.Inicio >= rg.Fin {
		return fmt.Errorf("región libre %v en área %d: %w", rg, a.ID, ErrRegionInvalida)
	}
	a.libres = slices.Insert(a.libres, 0, rg)
	return nil
}

// tomarPrimerAjuste consume size bytes del primer nodo que alcance
func (a *AreaVirtual) tomarPrimerAjuste(size int) (Region, bool) {
	for i := range a.libres {
		nodo := &a.libres[i]
		if nodo.Inicio >= nodo.Fin {
			panic(fmt.Sprintf("lista de libres corrupta en área %d: nodo %v", a.ID, *nodo))
		}
		if nodo.Inicio+size > nodo.Fin {
			continue
		}

		rg := Region{Inicio: nodo.Inicio, Fin: nodo.Inicio + size}
		if rg.Fin < nodo.Fin {
			nodo.Inicio = rg.Fin
		} else {
			a.libres = slices.Delete(a.libres, i, i+1)
		}
		return rg, true
	}
	return Region{}, false
}

// AgregarArea crea un área nueva que empieza en inicio
func (mm *EspacioDirecciones) AgregarArea(id int, inicio int) (*AreaVirtual, error) {
	if _, err := mm.Area(id); err == nil {
		return nil, fmt.Errorf("el área %d ya existe: %w", id, ErrAreaInvalida)
	}
	if inicio < 0 || inicio >= mm.LimiteVirtual() || inicio%mm.cfg.TamPagina != 0 {
		return nil, fmt.Errorf("inicio %d del área %d: %w", inicio, id, ErrAreaInvalida)
	}
	for _, otra := range mm.areas {
		if inicio >= otra.Inicio && inicio < otra.Fin {
			return nil, fmt.Errorf("el área %d empieza dentro del área %d: %w", id, otra.ID, ErrAreaInvalida)
		}
	}

	area := &AreaVirtual{ID: id, Inicio: inicio, Fin: inicio, sbrk: inicio}
	mm.areas = append(mm.areas, area)
	return area, nil
}

// Area busca un área por id
func (mm *EspacioDirecciones) Area(id int) (*AreaVirtual, error) {
	for _, area := range mm.areas {
		if area.ID == id {
			return area, nil
		}
	}
	return nil, fmt.Errorf("área %d: %w", id, ErrAreaInvalida)
}

// Areas devuelve las áreas del espacio
func (mm *EspacioDirecciones) Areas() []*AreaVirtual {
	return slices.Clone(mm.areas)
}
