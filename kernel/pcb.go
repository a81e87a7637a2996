package kernel

import (
	"fmt"
	"slices"
	"sync"

	"github.com/sisoputnfrba/tp-memoria-virtual/mm"
	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

const MaxProcesosPorDefecto = 10

type PCB struct {
	PID       int
	Prioridad int

	MM     *mm.EspacioDirecciones
	Kernel *Kernel
}

// ColaProcesos es la tabla de procesos en ejecución. La búsqueda por PID es
// lineal.
type ColaProcesos struct {
	mutex    sync.RWMutex
	procesos []*PCB
	max      int
}

func NuevaColaProcesos(max int) *ColaProcesos {
	if max <= 0 {
		max = MaxProcesosPorDefecto
	}
	return &ColaProcesos{max: max}
}

// Encolar agrega pcb si no hay otro proceso con el mismo PID y queda lugar
func (c *ColaProcesos) Encolar(pcb *PCB) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, otro := range c.procesos {
		if otro.PID == pcb.PID {
			return fmt.Errorf("PID %d: %w", pcb.PID, ErrProcesoDuplicado)
		}
	}

	if len(c.procesos) >= c.max {
		utils.ErrorLog.Error("Cola de procesos llena", "pid", pcb.PID, "max", c.max)
		return fmt.Errorf("PID %d: %w", pcb.PID, ErrColaLlena)
	}
	c.procesos = append(c.procesos, pcb)
	return nil
}

// Purgar saca de la cola el proceso pid, si está
func (c *ColaProcesos) Purgar(pid int) *PCB {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for i, pcb := range c.procesos {
		if pcb.PID == pid {
			c.procesos = slices.Delete(c.procesos, i, i+1)
			return pcb
		}
	}
	return nil
}

func (c *ColaProcesos) BuscarPorPID(pid int) *PCB {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for _, pcb := range c.procesos {
		if pcb.PID == pid {
			return pcb
		}
	}
	return nil
}

func (c *ColaProcesos) Vacia() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.procesos) == 0
}

func (c *ColaProcesos) Tamanio() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.procesos)
}

// PIDs devuelve los PID en orden de llegada
func (c *ColaProcesos) PIDs() []int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	pids := make([]int, 0, len(c.procesos))
	for _, pcb := range c.procesos {
		pids = append(pids, pcb.PID)
	}
	return pids
}
