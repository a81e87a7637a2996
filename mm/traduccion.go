package mm

import (
	"fmt"

	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

// ObtenerPagina devuelve el marco de pgn, resolviendo el fallo de página si
// no está presente.
func (mm *EspacioDirecciones) ObtenerPagina(pgn int, disp Dispositivos) (int, error) {
	if pgn < 0 || pgn >= len(mm.tabla) {
		return 0, fmt.Errorf("página %d: %w", pgn, ErrDireccionInvalida)
	}
	mm.Metricas.AccesosTablaPaginas++

	pte := mm.tabla[pgn]
	if PTEPresente(pte) {
		return PTEMarco(pte), nil
	}

	mm.Metricas.FallosPagina++
	utils.InfoLog.Debug("Fallo de página", "pid", mm.PID, "pagina", pgn, "en_swap", PTESwapeada(pte))

	marco, err := mm.obtenerMarco(disp)
	if err != nil {
		return 0, fmt.Errorf("fallo de página %d: %w", pgn, err)
	}
	if err := mm.cargarPagina(pgn, marco, disp); err != nil {
		disp.RAM().LiberarMarco(marco)
		return 0, fmt.Errorf("fallo de página %d: %w", pgn, err)
	}
	return marco, nil
}

// Traducir convierte una dirección virtual en física
func (mm *EspacioDirecciones) Traducir(dir int, disp Dispositivos) (int, error) {
	if dir < 0 {
		return 0, fmt.Errorf("dirección %d: %w", dir, ErrDireccionInvalida)
	}
	pgn, despl := mm.Pagina(dir)

	marco, err := mm.ObtenerPagina(pgn, disp)
	if err != nil {
		return 0, err
	}

	dirFisica := marco<<mm.desplBits + despl
	utils.InfoLog.Debug("Dirección traducida",
		"pid", mm.PID,
		"dir_logica", dir,
		"pagina", pgn,
		"marco", marco,
		"dir_fisica", dirFisica)
	return dirFisica, nil
}

// LeerByte lee la dirección virtual dir
func (mm *EspacioDirecciones) LeerByte(dir int, disp Dispositivos) (byte, error) {
	dirFisica, err := mm.Traducir(dir, disp)
	if err != nil {
		return 0, err
	}
	valor, err := disp.RAM().Leer(dirFisica)
	if err != nil {
		return 0, err
	}
	mm.Metricas.Lecturas++
	return valor, nil
}

// EscribirByte escribe valor en la dirección virtual dir y marca la página
func (mm *EspacioDirecciones) EscribirByte(dir int, valor byte, disp Dispositivos) error {
	dirFisica, err := mm.Traducir(dir, disp)
	if err != nil {
		return err
	}
	if err := disp.RAM().Escribir(dirFisica, valor); err != nil {
		return err
	}
	pgn, _ := mm.Pagina(dir)
	mm.tabla[pgn] |= pteModif
	mm.Metricas.Escrituras++
	return nil
}
