package mm

import "fmt"

// ObtenerRegionLibre busca por primer ajuste una región de size bytes en la
// lista de libres del área. Un nodo que queda vacío se desenlaza; si sobra
// espacio, se achica en el lugar.
func (mm *EspacioDirecciones) ObtenerRegionLibre(vmaid int, size int) (Region, error) {
	if size <= 0 {
		return Region{}, fmt.Errorf("tamaño %d: %w", size, ErrTamanioInvalido)
	}
	area, err := mm.Area(vmaid)
	if err != nil {
		return Region{}, err
	}

	rg, ok := area.tomarPrimerAjuste(size)
	if !ok {
		return Region{}, fmt.Errorf("área %d, tamaño %d: %w", vmaid, size, ErrSinRegionLibre)
	}
	return rg, nil
}

// Simbolo devuelve la región registrada con id rgid
func (mm *EspacioDirecciones) Simbolo(rgid int) (Region, error) {
	if rgid < 0 || rgid >= len(mm.simbolos) {
		return Region{}, fmt.Errorf("id %d fuera de la tabla de símbolos: %w", rgid, ErrRegionInvalida)
	}
	return mm.simbolos[rgid], nil
}

// SimboloLibre verifica que rgid sea un slot válido y sin asignar
func (mm *EspacioDirecciones) SimboloLibre(rgid int) error {
	rg, err := mm.Simbolo(rgid)
	if err != nil {
		return err
	}
	if !rg.Vacia() {
		return fmt.Errorf("región %d %v: %w", rgid, rg, ErrRegionEnUso)
	}
	return nil
}

// RegistrarSimbolo asocia la región rg del área vmaid al id rgid
func (mm *EspacioDirecciones) RegistrarSimbolo(rgid int, vmaid int, rg Region) error {
	if err := mm.SimboloLibre(rgid); err != nil {
		return err
	}
	if rg.Inicio >= rg.Fin {
		return fmt.Errorf("región %v: %w", rg, ErrRegionInvalida)
	}
	mm.simbolos[rgid] = rg
	mm.areaSimbolo[rgid] = vmaid
	mm.Metricas.Reservas++
	return nil
}

// LiberarSimbolo vacía el slot rgid y devuelve su rango a la lista de libres
// del área dueña. No se fusionan regiones adyacentes.
func (mm *EspacioDirecciones) LiberarSimbolo(rgid int) (Region, error) {
	rg, err := mm.Simbolo(rgid)
	if err != nil {
		return Region{}, err
	}
	if rg.Vacia() {
		return Region{}, fmt.Errorf("región %d sin asignar: %w", rgid, ErrRegionInvalida)
	}

	area, err := mm.Area(mm.areaSimbolo[rgid])
	if err != nil {
		return Region{}, err
	}
	if err := area.AgregarRegionLibre(rg); err != nil {
		return Region{}, err
	}

	mm.simbolos[rgid] = Region{}
	mm.areaSimbolo[rgid] = 0
	mm.Metricas.Liberaciones++
	return rg, nil
}
