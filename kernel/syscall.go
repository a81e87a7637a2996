package kernel

import (
	"fmt"

	"github.com/sisoputnfrba/tp-memoria-virtual/mm"
	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

// Número de la syscall de memoria
const SysMemmap = 17

// Operaciones de SysMemmap (registro A1)
const (
	SYSMEM_MAP_OP   = 1
	SYSMEM_INC_OP   = 2
	SYSMEM_SWP_OP   = 3
	SYSMEM_IO_READ  = 4
	SYSMEM_IO_WRITE = 5
)

// Registros son los argumentos de una syscall. Las operaciones que devuelven
// un valor lo dejan en A3.
type Registros struct {
	A1 int `json:"a1"`
	A2 int `json:"a2"`
	A3 int `json:"a3"`
}

type manejadorSyscall func(pid int, regs *Registros) error

var nombresMemop = map[int]string{
	SYSMEM_MAP_OP:   "MAP",
	SYSMEM_INC_OP:   "INC",
	SYSMEM_SWP_OP:   "SWP",
	SYSMEM_IO_READ:  "IO_READ",
	SYSMEM_IO_WRITE: "IO_WRITE",
}

func (k *Kernel) registrarSyscalls() {
	k.syscalls = map[int]manejadorSyscall{
		SysMemmap: k.sysMemmap,
	}
}

// Syscall despacha la syscall nr del proceso pid. No toma el lock de memoria:
// quien llama debe tenerlo (ver libmem.Syscall).
func (k *Kernel) Syscall(pid int, nr int, regs *Registros) error {
	manejador, ok := k.syscalls[nr]
	if !ok {
		utils.ErrorLog.Error("Syscall desconocida", "pid", pid, "nr", nr)
		return fmt.Errorf("syscall %d: %w", nr, ErrSyscallDesconocida)
	}
	return manejador(pid, regs)
}

func (k *Kernel) sysMemmap(pid int, regs *Registros) error {
	pcb := k.Procesos.BuscarPorPID(pid)
	if pcb == nil {
		return fmt.Errorf("memmap PID %d: %w", pid, ErrProcesoDesconocido)
	}

	nombre, ok := nombresMemop[regs.A1]
	if !ok {
		utils.ErrorLog.Warn("Código de memop desconocido, se ignora", "pid", pid, "memop", regs.A1)
		return nil
	}
	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Solicitó syscall: MEMMAP %s", pid, nombre),
		"a2", regs.A2, "a3", regs.A3)

	switch regs.A1 {
	case SYSMEM_MAP_OP:
		_, err := pcb.MM.PrepararDirectorio(regs.A2, regs.A3, k)
		return err

	case SYSMEM_INC_OP:
		return pcb.MM.IncrementarLimite(regs.A2, regs.A3, k)

	case SYSMEM_SWP_OP:
		tipo, swap := k.SwapActivo()
		if err := mm.CopiarMarco(k.ram, regs.A2, swap, regs.A3, k.cfgMM.TamPagina); err != nil {
			return err
		}
		utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Marco %d copiado a SWAP %d - Slot: %d", pid, regs.A2, tipo, regs.A3))
		return nil

	case SYSMEM_IO_READ:
		valor, err := k.ram.Leer(regs.A2)
		if err != nil {
			return err
		}
		regs.A3 = int(valor)
		return nil

	case SYSMEM_IO_WRITE:
		return k.ram.Escribir(regs.A2, byte(regs.A3))
	}
	return nil
}
