package mm

import (
	"fmt"

	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

// CopiarMarco copia un marco completo entre dos dispositivos
func CopiarMarco(orig Memoria, marcoOrig int, dest Memoria, marcoDest int, tamPagina int) error {
	baseOrig := marcoOrig * tamPagina
	baseDest := marcoDest * tamPagina
	for i := 0; i < tamPagina; i++ {
		valor, err := orig.Leer(baseOrig + i)
		if err != nil {
			return fmt.Errorf("error copiando marco %d: %w", marcoOrig, err)
		}
		if err := dest.Escribir(baseDest+i, valor); err != nil {
			return fmt.Errorf("error copiando al marco %d: %w", marcoDest, err)
		}
	}
	return nil
}

// llenarConCeros inicializa un marco de RAM para una página nueva
func llenarConCeros(ram Memoria, marco int, tamPagina int) error {
	base := marco * tamPagina
	for i := 0; i < tamPagina; i++ {
		if err := ram.Escribir(base+i, 0); err != nil {
			return err
		}
	}
	return nil
}

// desalojar baja a SWAP la página más vieja y devuelve el marco que ocupaba
func (mm *EspacioDirecciones) desalojar(disp Dispositivos) (int, error) {
	vicpgn, err := mm.BuscarVictima()
	if err != nil {
		return 0, err
	}

	pte := mm.tabla[vicpgn]
	if !PTEPresente(pte) {
		panic(fmt.Sprintf("PID %d: la víctima %d está en la cola FIFO sin estar presente (pte %#x)", mm.PID, vicpgn, pte))
	}
	vicfpn := PTEMarco(pte)

	tipo, swap := disp.SwapActivo()
	swpfpn, err := swap.ObtenerMarcoLibre()
	if err != nil {
		mm.fifo.Reinsertar(vicpgn)
		return 0, fmt.Errorf("desalojar página %d: %w", vicpgn, ErrSwapAgotado)
	}

	if err := CopiarMarco(disp.RAM(), vicfpn, swap, swpfpn, mm.cfg.TamPagina); err != nil {
		swap.LiberarMarco(swpfpn)
		mm.fifo.Reinsertar(vicpgn)
		return 0, err
	}

	mm.tabla[vicpgn] = pteEnSwap(tipo, swpfpn)
	mm.Metricas.BajadasSwap++

	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Página %d movida a SWAP %d - Marco: %d - Slot: %d",
		mm.PID, vicpgn, tipo, vicfpn, swpfpn))
	return vicfpn, nil
}

// obtenerMarco consigue un marco de RAM, desalojando si no hay libres
func (mm *EspacioDirecciones) obtenerMarco(disp Dispositivos) (int, error) {
	marco, err := disp.RAM().ObtenerMarcoLibre()
	if err == nil {
		return marco, nil
	}
	utils.InfoLog.Debug("RAM sin marcos libres, se desaloja", "pid", mm.PID)
	return mm.desalojar(disp)
}

// cargarPagina deja pgn presente en marco. Si la página estaba en SWAP se
// recupera su contenido y se libera el slot; si es nueva se llena con ceros.
func (mm *EspacioDirecciones) cargarPagina(pgn int, marco int, disp Dispositivos) error {
	pte := mm.tabla[pgn]

	if PTESwapeada(pte) {
		tipo, slot := PTESwapTipo(pte), PTESwapDespl(pte)
		swap := disp.Swap(tipo)
		if err := CopiarMarco(swap, slot, disp.RAM(), marco, mm.cfg.TamPagina); err != nil {
			return err
		}
		swap.LiberarMarco(slot)
		mm.Metricas.SubidasMemoria++
		utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Página %d recuperada de SWAP %d al marco %d", mm.PID, pgn, tipo, marco))
	} else if err := llenarConCeros(disp.RAM(), marco, mm.cfg.TamPagina); err != nil {
		return err
	}

	mm.tabla[pgn] = ptePresenteEn(marco)
	mm.fifo.Encolar(pgn)
	return nil
}
