package main

import (
	"fmt"

	"github.com/sisoputnfrba/tp-memoria-virtual/kernel"
	"github.com/sisoputnfrba/tp-memoria-virtual/libmem"
	"github.com/sisoputnfrba/tp-memoria-virtual/mm"
	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var impresora = message.NewPrinter(language.Spanish)

// bytesLegibles formatea una cantidad de bytes con separador de miles
func bytesLegibles(n int) string {
	return impresora.Sprintf("%d B", n)
}

func respuestaError(err error) map[string]interface{} {
	return map[string]interface{}{"error": err.Error()}
}

// buscarProceso extrae el pid del mensaje y lo busca en la tabla de procesos
func buscarProceso(msg *utils.Mensaje) (*kernel.PCB, error) {
	valores, err := utils.ExtraerEnteros(msg.Datos, "pid")
	if err != nil {
		return nil, err
	}
	pcb := nucleo.Procesos.BuscarPorPID(valores[0])
	if pcb == nil {
		return nil, fmt.Errorf("PID %d: %w", valores[0], kernel.ErrProcesoDesconocido)
	}
	return pcb, nil
}

// aplicarRetardos simula el acceso a memoria y, si la operación movió páginas
// entre RAM y swap, también el acceso a swap
func aplicarRetardos(operacion string, antes mm.Metricas, despues mm.Metricas) {
	utils.AplicarRetardo(operacion, config.RetardoMemoria)
	if despues.BajadasSwap != antes.BajadasSwap || despues.SubidasMemoria != antes.SubidasMemoria {
		utils.AplicarRetardo("swap", config.RetardoSwap)
	}
}

func handlerCrearProceso(msg *utils.Mensaje) (interface{}, error) {
	valores, err := utils.ExtraerEnteros(msg.Datos, "pid")
	if err != nil {
		utils.ErrorLog.Error("PID no proporcionado", "datos", msg.Datos)
		return respuestaError(err), nil
	}
	pid := valores[0]
	prioridad := utils.ExtraerEnteroOpcional(msg.Datos, "prioridad", 0)

	if _, err := nucleo.CrearProceso(pid, prioridad); err != nil {
		utils.ErrorLog.Error("Error creando proceso", "pid", pid, "error", err)
		return respuestaError(err), nil
	}

	return map[string]interface{}{"status": "OK"}, nil
}

func handlerFinalizarProceso(msg *utils.Mensaje) (interface{}, error) {
	pcb, err := buscarProceso(msg)
	if err != nil {
		utils.ErrorLog.Error("Solicitud de finalización inválida", "datos", msg.Datos, "error", err)
		return respuestaError(err), nil
	}

	utils.InfoLog.Info("Solicitud de finalización de proceso", "pid", pcb.PID)

	if config.DumpPath != "" {
		if _, err := crearMemoryDump(pcb); err != nil {
			utils.ErrorLog.Error("Error creando dump final", "pid", pcb.PID, "error", err)
		}
	}

	r, err := libmem.Terminar(nucleo, pcb.PID)
	if err != nil {
		utils.ErrorLog.Error("Error liberando memoria", "pid", pcb.PID, "error", err)
		return respuestaError(err), nil
	}

	return map[string]interface{}{
		"status":               "OK",
		"marcos_liberados":     r.Marcos,
		"slots_swap_liberados": r.MarcosSwap,
	}, nil
}

func handlerAlloc(msg *utils.Mensaje) (interface{}, error) {
	pcb, err := buscarProceso(msg)
	if err != nil {
		return respuestaError(err), nil
	}
	valores, err := utils.ExtraerEnteros(msg.Datos, "region", "tamanio")
	if err != nil {
		return respuestaError(err), nil
	}

	antes := libmem.Metricas(pcb)
	dir, err := libmem.Liballoc(pcb, valores[1], valores[0])
	if err != nil {
		return respuestaError(err), nil
	}
	aplicarRetardos("alloc", antes, libmem.Metricas(pcb))

	return map[string]interface{}{
		"status":    "OK",
		"direccion": dir,
	}, nil
}

func handlerFree(msg *utils.Mensaje) (interface{}, error) {
	pcb, err := buscarProceso(msg)
	if err != nil {
		return respuestaError(err), nil
	}
	valores, err := utils.ExtraerEnteros(msg.Datos, "region")
	if err != nil {
		return respuestaError(err), nil
	}

	if err := libmem.Libfree(pcb, valores[0]); err != nil {
		return respuestaError(err), nil
	}
	utils.AplicarRetardo("free", config.RetardoMemoria)

	return map[string]interface{}{"status": "OK"}, nil
}

func handlerLeer(msg *utils.Mensaje) (interface{}, error) {
	pcb, err := buscarProceso(msg)
	if err != nil {
		return respuestaError(err), nil
	}
	valores, err := utils.ExtraerEnteros(msg.Datos, "region", "offset")
	if err != nil {
		return respuestaError(err), nil
	}

	antes := libmem.Metricas(pcb)
	valor, err := libmem.Libread(pcb, valores[0], valores[1])
	if err != nil {
		return respuestaError(err), nil
	}
	aplicarRetardos("lectura", antes, libmem.Metricas(pcb))

	return map[string]interface{}{
		"status": "OK",
		"valor":  int(valor),
	}, nil
}

func handlerEscribir(msg *utils.Mensaje) (interface{}, error) {
	pcb, err := buscarProceso(msg)
	if err != nil {
		return respuestaError(err), nil
	}
	valores, err := utils.ExtraerEnteros(msg.Datos, "region", "offset", "valor")
	if err != nil {
		return respuestaError(err), nil
	}
	if valores[2] < 0 || valores[2] > 0xff {
		return respuestaError(fmt.Errorf("el valor %d no entra en un byte", valores[2])), nil
	}

	antes := libmem.Metricas(pcb)
	if err := libmem.Libwrite(pcb, byte(valores[2]), valores[0], valores[1]); err != nil {
		return respuestaError(err), nil
	}
	aplicarRetardos("escritura", antes, libmem.Metricas(pcb))

	return map[string]interface{}{"status": "OK"}, nil
}

func handlerSyscall(msg *utils.Mensaje) (interface{}, error) {
	valores, err := utils.ExtraerEnteros(msg.Datos, "pid", "nr", "a1", "a2", "a3")
	if err != nil {
		return respuestaError(err), nil
	}
	pid, nr := valores[0], valores[1]
	regs := &kernel.Registros{A1: valores[2], A2: valores[3], A3: valores[4]}

	if err := libmem.Syscall(nucleo, pid, nr, regs); err != nil {
		utils.ErrorLog.Error("Syscall fallida", "pid", pid, "nr", nr, "error", err)
		return respuestaError(err), nil
	}
	utils.AplicarRetardo("syscall", config.RetardoMemoria)

	return map[string]interface{}{
		"status": "OK",
		"a1":     regs.A1,
		"a2":     regs.A2,
		"a3":     regs.A3,
	}, nil
}

func handlerCambiarSwap(msg *utils.Mensaje) (interface{}, error) {
	valores, err := utils.ExtraerEnteros(msg.Datos, "tipo")
	if err != nil {
		return respuestaError(err), nil
	}
	if err := nucleo.CambiarSwapActivo(valores[0]); err != nil {
		return respuestaError(err), nil
	}
	return map[string]interface{}{"status": "OK"}, nil
}

func handlerTablaPaginas(msg *utils.Mensaje) (interface{}, error) {
	pcb, err := buscarProceso(msg)
	if err != nil {
		return respuestaError(err), nil
	}

	tabla, err := libmem.TablaDePaginas(pcb)
	if err != nil {
		return respuestaError(err), nil
	}
	return map[string]interface{}{
		"status": "OK",
		"tabla":  tabla,
	}, nil
}

func handlerEspacioLibre(msg *utils.Mensaje) (interface{}, error) {
	ram := nucleo.MemoriaFisica()
	espacioLibre := ram.MarcosLibres() * ram.TamPagina()

	swapLibre := make([]int, 0, len(nucleo.DispositivosSwap()))
	for _, swap := range nucleo.DispositivosSwap() {
		swapLibre = append(swapLibre, swap.MarcosLibres()*swap.TamPagina())
	}

	utils.InfoLog.Info("Espacio libre consultado",
		"espacio_libre", bytesLegibles(espacioLibre),
		"swap_libre_bytes", swapLibre)

	return map[string]interface{}{
		"status":        "OK",
		"espacio_libre": espacioLibre,
		"swap_libre":    swapLibre,
	}, nil
}
