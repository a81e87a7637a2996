package main

import (
	"fmt"

	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

// ejecutarProceso crea el proceso en memoria, ejecuta sus instrucciones en
// orden y lo finaliza. Una instrucción fallida termina el proceso.
func ejecutarProceso(c clienteMemoria, pid int, script *Script) error {
	if _, err := c.EnviarSolicitud(utils.MensajeCrearProceso, "", map[string]interface{}{
		"pid":       pid,
		"prioridad": script.Prioridad,
	}); err != nil {
		return fmt.Errorf("crear proceso %d: %w", pid, err)
	}
	utils.InfoLog.Info(fmt.Sprintf("## (%d) - Se crea el proceso - Script: %s", pid, script.Nombre))

	var errEjecucion error
	for pc, inst := range script.Instrucciones {
		utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Ejecutando: %s", pid, inst), "pc", pc)

		fin, err := ejecutar(c, pid, inst)
		if err != nil {
			errEjecucion = fmt.Errorf("PID %d, PC %d (%s): %w", pid, pc, inst, err)
			utils.ErrorLog.Error("Instrucción fallida, se finaliza el proceso", "pid", pid, "pc", pc, "error", err)
			break
		}
		if fin {
			break
		}
	}

	respuesta, err := c.EnviarSolicitud(utils.MensajeFinalizarProceso, "", map[string]interface{}{"pid": pid})
	if err != nil {
		return fmt.Errorf("finalizar proceso %d: %w", pid, err)
	}
	utils.InfoLog.Info(fmt.Sprintf("## (%d) - Finaliza el proceso", pid),
		"marcos_liberados", respuesta["marcos_liberados"],
		"slots_swap_liberados", respuesta["slots_swap_liberados"])
	return errEjecucion
}

// ejecutar manda a memoria una instrucción. Devuelve true si el proceso termina.
func ejecutar(c clienteMemoria, pid int, inst Instruccion) (bool, error) {
	a := inst.Args

	switch inst.Operacion {
	case "NOOP":

	case "ALLOC":
		respuesta, err := c.EnviarSolicitud(utils.MensajeAlloc, "", map[string]interface{}{"pid": pid, "tamanio": a[0], "region": a[1]})
		if err != nil {
			return false, err
		}
		utils.InfoLog.Info("Región reservada", "pid", pid, "region", a[1], "direccion", respuesta["direccion"])

	case "FREE":
		if _, err := c.EnviarSolicitud(utils.MensajeFree, "", map[string]interface{}{"pid": pid, "region": a[0]}); err != nil {
			return false, err
		}

	case "READ":
		respuesta, err := c.EnviarSolicitud(utils.MensajeLeer, "", map[string]interface{}{"pid": pid, "region": a[0], "offset": a[1]})
		if err != nil {
			return false, err
		}
		utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Lectura - Región: %d - Offset: %d - Valor: %v", pid, a[0], a[1], respuesta["valor"]))

	case "WRITE":
		if _, err := c.EnviarSolicitud(utils.MensajeEscribir, "", map[string]interface{}{"pid": pid, "valor": a[0], "region": a[1], "offset": a[2]}); err != nil {
			return false, err
		}
		utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Escritura - Región: %d - Offset: %d - Valor: %d", pid, a[1], a[2], a[0]))

	case "SYSCALL":
		respuesta, err := c.EnviarSolicitud(utils.MensajeSyscall, "", map[string]interface{}{"pid": pid, "nr": a[0], "a1": a[1], "a2": a[2], "a3": a[3]})
		if err != nil {
			return false, err
		}
		utils.InfoLog.Info("Syscall completada", "pid", pid, "nr", a[0], "a3", respuesta["a3"])

	case "DUMP_MEMORY":
		if _, err := c.EnviarSolicitud(utils.MensajeMemoryDump, "", map[string]interface{}{"pid": pid}); err != nil {
			return false, err
		}

	case "EXIT":
		return true, nil

	default:
		return false, fmt.Errorf("instrucción desconocida: %s", inst.Operacion)
	}
	return false, nil
}
