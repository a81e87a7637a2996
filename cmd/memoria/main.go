package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

var modulo *utils.Modulo

func main() {
	// Verificar argumentos
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Uso: %s <archivo_configuracion>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Ejemplo: %s configs/memoria-config.json\n", os.Args[0])
		os.Exit(1)
	}

	// Inicializar logger ANTES de usarlo
	utils.InicializarLogger("INFO", "Memoria")

	utils.InfoLog.Info("Iniciando módulo Memoria")

	inicializarModulo(os.Args[1])

	utils.InfoLog.Info("Memoria inicializada correctamente")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	finalizarModulo()
}

func inicializarModulo(rutaConfig string) {
	// Verificar que el archivo existe
	if _, err := os.Stat(rutaConfig); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: El archivo de configuración no existe: %s\n", rutaConfig)
		os.Exit(1)
	}

	modulo = utils.NuevoModulo("Memoria", rutaConfig)

	config = utils.CargarConfiguracion[MemoriaConfig](rutaConfig)

	// Actualizar logger con configuración del archivo
	utils.InicializarLogger(config.LogLevel, "Memoria")
	utils.InfoLog.Info("Configuración cargada", "nivel_log", config.LogLevel, "config_path", rutaConfig)

	if config.DumpPath != "" {
		if err := os.MkdirAll(config.DumpPath, 0755); err != nil {
			utils.InfoLog.Warn("No se pudo crear directorio para dumps", "error", err)
		} else {
			utils.InfoLog.Info("Directorio para dumps verificado", "ruta", config.DumpPath)
		}
	}

	var err error
	nucleo, err = construirKernel(config)
	if err != nil {
		utils.ErrorLog.Error("Error al inicializar la memoria", "error", err)
		os.Exit(1)
	}

	registrarHandlers()

	modulo.IniciarServidor(config.IPMemoria, config.PuertoMemoria)
	utils.InfoLog.Info("Servidor iniciado", "ip", config.IPMemoria, "puerto", config.PuertoMemoria)
}

// finalizarModulo corta el servidor y sincroniza el swap respaldado por archivo
func finalizarModulo() {
	utils.InfoLog.Info("Finalizando módulo Memoria")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := modulo.Server.Shutdown(ctx); err != nil {
		utils.ErrorLog.Error("Error deteniendo el servidor", "error", err)
	}
	if err := nucleo.Cerrar(); err != nil {
		utils.ErrorLog.Error("Error cerrando dispositivos", "error", err)
	}
}

func registrarHandlers() {
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeHandshake), "handshake", handlerHandshake)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeCrearProceso), "default", handlerCrearProceso)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeFinalizarProceso), "default", handlerFinalizarProceso)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeAlloc), "default", handlerAlloc)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeFree), "default", handlerFree)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeLeer), "default", handlerLeer)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeEscribir), "default", handlerEscribir)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeSyscall), "default", handlerSyscall)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeSyscall), "swap_activo", handlerCambiarSwap)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeMemoryDump), "default", handlerMemoryDump)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeMemoryDump), "fisica", handlerVolcadoFisico)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeTablaPaginas), "default", handlerTablaPaginas)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeEspacioLibre), "default", handlerEspacioLibre)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeMetricas), "default", handlerMetricas)

	utils.InfoLog.Info("Handlers registrados correctamente")
}

// Handler para handshake
func handlerHandshake(msg *utils.Mensaje) (interface{}, error) {
	utils.InfoLog.Info("Handshake recibido", "origen", msg.Origen)

	utils.AplicarRetardo("handshake", config.RetardoMemoria)

	cfgMM := nucleo.ConfigMM()
	return map[string]interface{}{
		"status":             "OK",
		"tam_pagina":         cfgMM.TamPagina,
		"bits_direccion":     cfgMM.BitsDireccion,
		"tam_tabla_simbolos": cfgMM.TamTablaSimbolos,
	}, nil
}
