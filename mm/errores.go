package mm

import "errors"

var (
	ErrRegionInvalida       = errors.New("región inválida")
	ErrRegionEnUso          = errors.New("la región ya está asignada")
	ErrTamanioInvalido      = errors.New("tamaño de reserva inválido")
	ErrSinRegionLibre       = errors.New("no hay región libre que alcance")
	ErrSinEspacio           = errors.New("no hay espacio para crecer")
	ErrSinPaginasResidentes = errors.New("no hay páginas residentes para desalojar")
	ErrSwapAgotado          = errors.New("no hay marcos libres en SWAP")
	ErrAreaInvalida         = errors.New("área virtual inválida")
	ErrDireccionInvalida    = errors.New("dirección virtual fuera del espacio")
)
