// Package libmem es la biblioteca de memoria que usan los procesos: reserva y
// liberación de regiones con nombre, lectura y escritura de bytes dentro de
// ellas y la liberación de todo al terminar.
//
// Un único lock serializa todas las operaciones de todos los procesos.
package libmem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sisoputnfrba/tp-memoria-virtual/kernel"
	"github.com/sisoputnfrba/tp-memoria-virtual/mm"
	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

var mmvmLock sync.Mutex

// vivo falla si la memoria del proceso ya fue liberada. Se llama con el lock tomado.
func vivo(proc *kernel.PCB) error {
	if proc.MM.Terminado() {
		return fmt.Errorf("PID %d terminado: %w", proc.PID, kernel.ErrProcesoDesconocido)
	}
	return nil
}

// Alloc reserva size bytes en el área vmaid y los registra como la región
// rgid. Si ninguna región libre alcanza, pide al kernel que extienda el área;
// el sbrk lo avanza sólo el kernel.
func Alloc(proc *kernel.PCB, vmaid int, rgid int, size int) (int, error) {
	mmvmLock.Lock()
	defer mmvmLock.Unlock()

	if err := vivo(proc); err != nil {
		return 0, err
	}
	if err := proc.MM.SimboloLibre(rgid); err != nil {
		return 0, err
	}

	rg, err := proc.MM.ObtenerRegionLibre(vmaid, size)
	if err == nil {
		if err := proc.MM.RegistrarSimbolo(rgid, vmaid, rg); err != nil {
			return 0, err
		}
		return rg.Inicio, nil
	}
	if !errors.Is(err, mm.ErrSinRegionLibre) {
		return 0, err
	}

	area, err := proc.MM.Area(vmaid)
	if err != nil {
		return 0, err
	}
	sbrkAnterior := area.Sbrk()

	regs := &kernel.Registros{
		A1: kernel.SYSMEM_INC_OP,
		A2: vmaid,
		A3: proc.MM.AlinearPagina(size),
	}
	if err := proc.Kernel.Syscall(proc.PID, kernel.SysMemmap, regs); err != nil {
		if !errors.Is(err, mm.ErrSinEspacio) {
			err = fmt.Errorf("%w: %w", mm.ErrSinEspacio, err)
		}
		return 0, fmt.Errorf("alloc región %d de %d bytes: %w", rgid, size, err)
	}

	rg = mm.Region{Inicio: sbrkAnterior, Fin: sbrkAnterior + size}
	if err := proc.MM.RegistrarSimbolo(rgid, vmaid, rg); err != nil {
		return 0, err
	}
	return rg.Inicio, nil
}

// Free devuelve la región rgid a la lista de libres de su área
func Free(proc *kernel.PCB, rgid int) error {
	mmvmLock.Lock()
	defer mmvmLock.Unlock()

	if err := vivo(proc); err != nil {
		return err
	}
	_, err := proc.MM.LiberarSimbolo(rgid)
	return err
}

// Read lee el byte en offset dentro de la región rgid. El offset no se
// valida contra el tamaño de la región.
func Read(proc *kernel.PCB, rgid int, offset int) (byte, error) {
	mmvmLock.Lock()
	defer mmvmLock.Unlock()

	if err := vivo(proc); err != nil {
		return 0, err
	}
	rg, err := proc.MM.Simbolo(rgid)
	if err != nil {
		return 0, err
	}
	return proc.MM.LeerByte(rg.Inicio+offset, proc.Kernel)
}

// Write escribe valor en offset dentro de la región rgid. El offset no se
// valida contra el tamaño de la región.
func Write(proc *kernel.PCB, rgid int, offset int, valor byte) error {
	mmvmLock.Lock()
	defer mmvmLock.Unlock()

	if err := vivo(proc); err != nil {
		return err
	}
	rg, err := proc.MM.Simbolo(rgid)
	if err != nil {
		return err
	}
	return proc.MM.EscribirByte(rg.Inicio+offset, valor, proc.Kernel)
}

// Syscall despacha una syscall tomando el lock de memoria
func Syscall(k *kernel.Kernel, pid int, nr int, regs *kernel.Registros) error {
	mmvmLock.Lock()
	defer mmvmLock.Unlock()

	return k.Syscall(pid, nr, regs)
}

// LiberarMemoriaPCB devuelve todos los marcos y slots de SWAP del proceso
func LiberarMemoriaPCB(proc *kernel.PCB) mm.Reclamo {
	mmvmLock.Lock()
	defer mmvmLock.Unlock()

	return proc.MM.LiberarMemoria(proc.Kernel)
}

// Terminar saca al proceso de la tabla de ejecución y libera su memoria
func Terminar(k *kernel.Kernel, pid int) (mm.Reclamo, error) {
	proc := k.Procesos.Purgar(pid)
	if proc == nil {
		return mm.Reclamo{}, fmt.Errorf("terminar PID %d: %w", pid, kernel.ErrProcesoDesconocido)
	}

	r := LiberarMemoriaPCB(proc)
	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Proceso Destruido - Métricas - %s", pid, proc.MM.Metricas))
	return r, nil
}

// volcarTabla registra la tabla de páginas del proceso en nivel debug
func volcarTabla(proc *kernel.PCB) {
	if !utils.InfoLog.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	tabla, err := TablaDePaginas(proc)
	if err != nil {
		utils.ErrorLog.Error("No se pudo volcar la tabla de páginas", "pid", proc.PID, "error", err)
		return
	}
	utils.InfoLog.Debug("Tabla de páginas\n"+tabla, "pid", proc.PID)
}
