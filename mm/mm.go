package mm

import (
	"fmt"
	"math/bits"
)

// Memoria es la vista que el subsistema de memoria virtual tiene de un
// dispositivo físico (RAM o SWAP).
type Memoria interface {
	Leer(dir int) (byte, error)
	Escribir(dir int, valor byte) error
	ObtenerMarcoLibre() (int, error)
	LiberarMarco(marco int)
}

// Dispositivos expone la RAM y los dispositivos de SWAP del kernel
type Dispositivos interface {
	RAM() Memoria
	SwapActivo() (tipo int, swap Memoria)
	Swap(tipo int) Memoria
}

// Config describe la geometría de un espacio de direcciones
type Config struct {
	TamPagina        int // potencia de dos
	BitsDireccion    int // ancho de una dirección virtual
	TamTablaSimbolos int
}

const (
	TamPaginaPorDefecto        = 256
	BitsDireccionPorDefecto    = 22
	TamTablaSimbolosPorDefecto = 30

	maxBitsPagina = 20
)

func ConfigPorDefecto() Config {
	return Config{
		TamPagina:        TamPaginaPorDefecto,
		BitsDireccion:    BitsDireccionPorDefecto,
		TamTablaSimbolos: TamTablaSimbolosPorDefecto,
	}
}

func (c Config) Validar() error {
	if c.TamPagina <= 0 || bits.OnesCount(uint(c.TamPagina)) != 1 {
		return fmt.Errorf("el tamaño de página %d no es potencia de dos", c.TamPagina)
	}
	despl := bits.TrailingZeros(uint(c.TamPagina))
	if c.BitsDireccion <= despl || c.BitsDireccion-despl > maxBitsPagina {
		return fmt.Errorf("ancho de dirección %d inválido para páginas de %d bytes", c.BitsDireccion, c.TamPagina)
	}
	if c.TamTablaSimbolos <= 0 {
		return fmt.Errorf("tamaño de tabla de símbolos inválido: %d", c.TamTablaSimbolos)
	}
	return nil
}

// EspacioDirecciones es el mm de un proceso: tabla de símbolos, áreas
// virtuales, tabla de páginas plana y el orden FIFO de páginas residentes.
// No es seguro para uso concurrente; libmem serializa todos los accesos.
type EspacioDirecciones struct {
	PID int

	cfg       Config
	desplBits int

	simbolos    []Region
	areaSimbolo []int

	areas []*AreaVirtual
	tabla []uint32
	fifo  ColaFIFO

	terminado bool

	Metricas Metricas
}

// NuevoEspacioDirecciones crea el espacio con el área 0 vacía en la dirección 0
func NuevoEspacioDirecciones(cfg Config) (*EspacioDirecciones, error) {
	if err := cfg.Validar(); err != nil {
		return nil, err
	}

	despl := bits.TrailingZeros(uint(cfg.TamPagina))
	mm := &EspacioDirecciones{
		cfg:         cfg,
		desplBits:   despl,
		simbolos:    make([]Region, cfg.TamTablaSimbolos),
		areaSimbolo: make([]int, cfg.TamTablaSimbolos),
		tabla:       make([]uint32, 1<<(cfg.BitsDireccion-despl)),
	}
	mm.areas = append(mm.areas, &AreaVirtual{ID: 0})
	return mm, nil
}

func (mm *EspacioDirecciones) Config() Config { return mm.cfg }

// Terminado indica si el espacio ya fue destruido por LiberarMemoria
func (mm *EspacioDirecciones) Terminado() bool { return mm.terminado }

// CantidadPaginas es el tamaño de la tabla de páginas
func (mm *EspacioDirecciones) CantidadPaginas() int { return len(mm.tabla) }

// LimiteVirtual es la primera dirección fuera del espacio
func (mm *EspacioDirecciones) LimiteVirtual() int { return len(mm.tabla) << mm.desplBits }

// AlinearPagina redondea n hacia arriba al múltiplo del tamaño de página
func (mm *EspacioDirecciones) AlinearPagina(n int) int {
	return (n + mm.cfg.TamPagina - 1) &^ (mm.cfg.TamPagina - 1)
}

// Pagina descompone una dirección virtual en número de página y desplazamiento
func (mm *EspacioDirecciones) Pagina(dir int) (pgn int, despl int) {
	return dir >> mm.desplBits, dir & (mm.cfg.TamPagina - 1)
}

// Entrada devuelve la PTE cruda de la página pgn
func (mm *EspacioDirecciones) Entrada(pgn int) (uint32, error) {
	if pgn < 0 || pgn >= len(mm.tabla) {
		return 0, fmt.Errorf("página %d: %w", pgn, ErrDireccionInvalida)
	}
	return mm.tabla[pgn], nil
}

// PaginasResidentes devuelve las páginas en orden de carga (la más vieja primero)
func (mm *EspacioDirecciones) PaginasResidentes() []int {
	return mm.fifo.Paginas()
}
