package mm

import "fmt"

// Metricas almacena estadísticas sobre el uso de memoria de un proceso
type Metricas struct {
	AccesosTablaPaginas int
	FallosPagina        int
	BajadasSwap         int
	SubidasMemoria      int
	Lecturas            int
	Escrituras          int
	Reservas            int
	Liberaciones        int
}

func (m Metricas) String() string {
	return fmt.Sprintf("ATP;%d;PF;%d;SWAP;%d;MemPrin;%d;LecMem;%d;EscMem;%d;Alloc;%d;Free;%d",
		m.AccesosTablaPaginas,
		m.FallosPagina,
		m.BajadasSwap,
		m.SubidasMemoria,
		m.Lecturas,
		m.Escrituras,
		m.Reservas,
		m.Liberaciones)
}
