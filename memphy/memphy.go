package memphy

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

var (
	ErrSinMarcosLibres       = errors.New("no hay marcos libres disponibles")
	ErrDireccionFueraDeRango = errors.New("dirección física fuera de rango")
)

// Memphy representa un dispositivo de memoria física (RAM o SWAP).
// El contenido se accede byte a byte; el pool de marcos libres es
// compartido por todos los procesos y se protege con su propio mutex.
type Memphy struct {
	Nombre string

	datos     []byte
	tamPagina int

	mu     sync.Mutex
	libres []int  // marcos libres, se toma siempre el primero
	enUso  []bool // true = marco asignado

	cerrar func() error
}

// Nueva crea un dispositivo en memoria de tamanio bytes dividido en marcos de tamPagina.
func Nueva(nombre string, tamanio int, tamPagina int) (*Memphy, error) {
	if err := validarGeometria(tamanio, tamPagina); err != nil {
		return nil, err
	}
	return formatear(nombre, make([]byte, tamanio), tamPagina, nil), nil
}

func validarGeometria(tamanio int, tamPagina int) error {
	if tamPagina <= 0 || tamanio <= 0 {
		return fmt.Errorf("geometría inválida: tamaño %d, página %d", tamanio, tamPagina)
	}
	if tamanio%tamPagina != 0 {
		return fmt.Errorf("el tamaño %d no es múltiplo del tamaño de página %d", tamanio, tamPagina)
	}
	return nil
}

// formatear arma la lista de marcos libres en orden ascendente
func formatear(nombre string, datos []byte, tamPagina int, cerrar func() error) *Memphy {
	totalMarcos := len(datos) / tamPagina
	mp := &Memphy{
		Nombre:    nombre,
		datos:     datos,
		tamPagina: tamPagina,
		libres:    make([]int, 0, totalMarcos),
		enUso:     make([]bool, totalMarcos),
		cerrar:    cerrar,
	}
	for i := 0; i < totalMarcos; i++ {
		mp.libres = append(mp.libres, i)
	}

	utils.InfoLog.Info("Dispositivo de memoria formateado",
		"dispositivo", nombre,
		"tamaño_bytes", len(datos),
		"tamaño_página", tamPagina,
		"total_marcos", totalMarcos)
	return mp
}

// Leer devuelve el byte en la dirección física dir
func (mp *Memphy) Leer(dir int) (byte, error) {
	if dir < 0 || dir >= len(mp.datos) {
		return 0, fmt.Errorf("%s: lectura en %d: %w", mp.Nombre, dir, ErrDireccionFueraDeRango)
	}
	return mp.datos[dir], nil
}

// Escribir guarda valor en la dirección física dir
func (mp *Memphy) Escribir(dir int, valor byte) error {
	if dir < 0 || dir >= len(mp.datos) {
		return fmt.Errorf("%s: escritura en %d: %w", mp.Nombre, dir, ErrDireccionFueraDeRango)
	}
	mp.datos[dir] = valor
	return nil
}

// ObtenerMarcoLibre saca el primer marco de la lista de libres
func (mp *Memphy) ObtenerMarcoLibre() (int, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if len(mp.libres) == 0 {
		return 0, fmt.Errorf("%s: %w", mp.Nombre, ErrSinMarcosLibres)
	}

	marco := mp.libres[0]
	mp.libres = mp.libres[1:]
	mp.enUso[marco] = true

	utils.InfoLog.Debug("Marco asignado", "dispositivo", mp.Nombre, "marco", marco)
	return marco, nil
}

// LiberarMarco devuelve el marco al pool. Liberar un marco que no está en uso
// es una corrupción del pool y no se tolera.
func (mp *Memphy) LiberarMarco(marco int) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if marco < 0 || marco >= len(mp.enUso) {
		panic(fmt.Sprintf("%s: liberación de marco fuera de rango: %d", mp.Nombre, marco))
	}
	if !mp.enUso[marco] {
		panic(fmt.Sprintf("%s: doble liberación del marco %d", mp.Nombre, marco))
	}

	mp.enUso[marco] = false
	// Se inserta al frente de la lista de libres
	mp.libres = slices.Insert(mp.libres, 0, marco)

	utils.InfoLog.Debug("Marco liberado", "dispositivo", mp.Nombre, "marco", marco)
}

// MarcoLibre indica si el marco está en el pool de libres
func (mp *Memphy) MarcoLibre(marco int) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return marco >= 0 && marco < len(mp.enUso) && !mp.enUso[marco]
}

// MarcosLibres cuenta los marcos disponibles
func (mp *Memphy) MarcosLibres() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return len(mp.libres)
}

func (mp *Memphy) CantidadMarcos() int { return len(mp.enUso) }

func (mp *Memphy) TamPagina() int { return mp.tamPagina }

// LeerMarco copia el contenido completo de un marco
func (mp *Memphy) LeerMarco(marco int) ([]byte, error) {
	if marco < 0 || marco >= len(mp.enUso) {
		return nil, fmt.Errorf("%s: marco %d: %w", mp.Nombre, marco, ErrDireccionFueraDeRango)
	}
	inicio := marco * mp.tamPagina
	contenido := make([]byte, mp.tamPagina)
	copy(contenido, mp.datos[inicio:inicio+mp.tamPagina])
	return contenido, nil
}

// Volcar escribe las celdas no nulas del dispositivo
func (mp *Memphy) Volcar(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "===== %s: %d bytes =====\n", mp.Nombre, len(mp.datos)); err != nil {
		return err
	}
	for dir, valor := range mp.datos {
		if valor == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%08x: %02x\n", dir, valor); err != nil {
			return err
		}
	}
	return nil
}

// Cerrar libera el almacenamiento respaldado por archivo, si lo hay
func (mp *Memphy) Cerrar() error {
	if mp.cerrar == nil {
		return nil
	}
	err := mp.cerrar()
	mp.cerrar = nil
	return err
}
