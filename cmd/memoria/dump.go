package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sisoputnfrba/tp-memoria-virtual/kernel"
	"github.com/sisoputnfrba/tp-memoria-virtual/libmem"
	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

// crearMemoryDump escribe las páginas residentes del proceso en
// <DUMP_PATH>/<pid>-<timestamp>.dmp y devuelve la ruta del archivo
func crearMemoryDump(pcb *kernel.PCB) (string, error) {
	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Memory Dump solicitado", pcb.PID))

	if err := os.MkdirAll(config.DumpPath, 0755); err != nil {
		return "", fmt.Errorf("error al crear directorio para dumps: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405.000")
	nombreArchivo := fmt.Sprintf("%d-%s.dmp", pcb.PID, timestamp)
	rutaCompleta := filepath.Join(config.DumpPath, nombreArchivo)

	dumpFile, err := os.Create(rutaCompleta)
	if err != nil {
		return "", fmt.Errorf("error al crear archivo de dump: %w", err)
	}
	defer dumpFile.Close()

	paginas, err := libmem.VolcarMemoria(pcb, dumpFile)
	if err != nil {
		return "", fmt.Errorf("error al escribir en archivo de dump: %w", err)
	}

	utils.InfoLog.Info("Memory dump completado", "pid", pcb.PID, "archivo", nombreArchivo, "paginas", paginas,
		"tamaño", bytesLegibles(paginas*nucleo.MemoriaFisica().TamPagina()))
	return rutaCompleta, nil
}

// handlerMemoryDump crea un volcado de memoria para un proceso
func handlerMemoryDump(msg *utils.Mensaje) (interface{}, error) {
	pcb, err := buscarProceso(msg)
	if err != nil {
		utils.ErrorLog.Error("PID no proporcionado o inexistente", "datos", msg.Datos, "error", err)
		return respuestaError(err), nil
	}
	if config.DumpPath == "" {
		return respuestaError(fmt.Errorf("no hay DUMP_PATH configurado")), nil
	}

	ruta, err := crearMemoryDump(pcb)
	if err != nil {
		utils.ErrorLog.Error("Error al crear memory dump", "pid", pcb.PID, "error", err)
		return respuestaError(err), nil
	}

	utils.AplicarRetardo("memory", config.RetardoMemoria)

	return map[string]interface{}{
		"status":  "OK",
		"archivo": ruta,
	}, nil
}

// handlerVolcadoFisico vuelca el contenido de todos los dispositivos a
// <DUMP_PATH>/fisica-<timestamp>.dmp
func handlerVolcadoFisico(msg *utils.Mensaje) (interface{}, error) {
	if config.DumpPath == "" {
		return respuestaError(fmt.Errorf("no hay DUMP_PATH configurado")), nil
	}
	if err := os.MkdirAll(config.DumpPath, 0755); err != nil {
		return respuestaError(err), nil
	}

	ruta := filepath.Join(config.DumpPath, fmt.Sprintf("fisica-%s.dmp", time.Now().Format("20060102-150405.000")))
	archivo, err := os.Create(ruta)
	if err != nil {
		return respuestaError(err), nil
	}
	defer archivo.Close()

	if err := libmem.VolcarDispositivos(nucleo, archivo); err != nil {
		utils.ErrorLog.Error("Error volcando dispositivos", "error", err)
		return respuestaError(err), nil
	}
	utils.InfoLog.Info("Volcado de dispositivos completado", "archivo", ruta)

	return map[string]interface{}{
		"status":  "OK",
		"archivo": ruta,
	}, nil
}
