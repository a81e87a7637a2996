package libmem

import (
	"fmt"

	"github.com/sisoputnfrba/tp-memoria-virtual/kernel"
	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

// Las funciones Lib* operan sobre el área 0 y dejan la traza de cada
// operación. Con LOG_LEVEL debug también vuelcan la tabla de páginas.

func Liballoc(proc *kernel.PCB, size int, rgid int) (int, error) {
	dir, err := Alloc(proc, 0, rgid, size)
	if err != nil {
		utils.ErrorLog.Error("liballoc falló", "pid", proc.PID, "region", rgid, "tamaño", size, "error", err)
		return 0, err
	}
	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - liballoc: %d bytes - Región: %d - Dirección: %d", proc.PID, size, rgid, dir))
	volcarTabla(proc)
	return dir, nil
}

func Libfree(proc *kernel.PCB, rgid int) error {
	if err := Free(proc, rgid); err != nil {
		utils.ErrorLog.Error("libfree falló", "pid", proc.PID, "region", rgid, "error", err)
		return err
	}
	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - libfree: Región: %d", proc.PID, rgid))
	volcarTabla(proc)
	return nil
}

func Libread(proc *kernel.PCB, rgid int, offset int) (byte, error) {
	valor, err := Read(proc, rgid, offset)
	if err != nil {
		utils.ErrorLog.Error("libread falló", "pid", proc.PID, "region", rgid, "offset", offset, "error", err)
		return 0, err
	}
	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - libread: Región: %d - Offset: %d - Valor: %d", proc.PID, rgid, offset, valor))
	volcarTabla(proc)
	return valor, nil
}

func Libwrite(proc *kernel.PCB, valor byte, rgid int, offset int) error {
	if err := Write(proc, rgid, offset, valor); err != nil {
		utils.ErrorLog.Error("libwrite falló", "pid", proc.PID, "region", rgid, "offset", offset, "error", err)
		return err
	}
	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - libwrite: Región: %d - Offset: %d - Valor: %d", proc.PID, rgid, offset, valor))
	volcarTabla(proc)
	return nil
}
