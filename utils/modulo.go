package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// Modulo representa un módulo genérico del sistema
type Modulo struct {
	Nombre      string
	Server      *HTTPServer
	Clientes    map[string]*HTTPClient
	ConfigPath  string
	HandlerFunc map[string]map[string]HTTPHandlerFunc
}

// NuevoModulo crea una nueva instancia de un módulo
func NuevoModulo(nombre string, configPath string) *Modulo {
	return &Modulo{
		Nombre:      nombre,
		Clientes:    make(map[string]*HTTPClient),
		ConfigPath:  configPath,
		HandlerFunc: make(map[string]map[string]HTTPHandlerFunc),
	}
}

// RegistrarHandler registra un handler para un tipo de mensaje y operación específicos
func (m *Modulo) RegistrarHandler(tipo string, operacion string, handler HTTPHandlerFunc) {
	if _, existe := m.HandlerFunc[tipo]; !existe {
		m.HandlerFunc[tipo] = make(map[string]HTTPHandlerFunc)
	}
	m.HandlerFunc[tipo][operacion] = handler
}

// PrepararServidor crea el servidor HTTP del módulo y le registra los handlers
// sin empezar a escuchar
func (m *Modulo) PrepararServidor(ip string, puerto int) *HTTPServer {
	m.Server = NewHTTPServer(ip, puerto, m.Nombre)

	// Registrar handlers para el servidor HTTP
	for tipoStr, handlersPorOperacion := range m.HandlerFunc {
		tipo, err := strconv.Atoi(tipoStr)
		if err != nil {
			slog.Error("Error al convertir tipo de mensaje a entero", "tipo", tipoStr, "error", err)
			continue
		}

		m.Server.RegisterHTTPHandler(tipo, func(msg *Mensaje) (interface{}, error) {
			operacion := msg.Operacion
			if operacion == "" {
				operacion = "default"
			}

			handler, existe := handlersPorOperacion[operacion]
			if !existe {
				handler, existe = handlersPorOperacion["default"]
				if !existe {
					slog.Error("No hay handler para operación", "tipo", tipo, "operacion", operacion)
					return nil, fmt.Errorf("no hay handler para operación %s", operacion)
				}
			}

			return handler(msg)
		})
	}
	return m.Server
}

// IniciarServidor crea e inicializa el servidor HTTP del módulo
func (m *Modulo) IniciarServidor(ip string, puerto int) {
	m.PrepararServidor(ip, puerto)

	go func() {
		err := m.Server.Start()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Error al iniciar servidor HTTP", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Servidor HTTP iniciado", "módulo", m.Nombre, "dirección", fmt.Sprintf("%s:%d", ip, puerto))
}

// CargarConfiguracion lee la configuración JSON de ruta y termina el proceso
// si no puede
func CargarConfiguracion[T any](ruta string) *T {
	config, err := LeerConfiguracion[T](ruta)
	if err != nil {
		slog.Error("Error cargando configuración", "error", err, "ruta", ruta)
		os.Exit(1)
	}
	slog.Info("Configuración cargada correctamente", "ruta", ruta)
	return config
}

// LeerConfiguracion decodifica el archivo JSON de ruta en un T
func LeerConfiguracion[T any](ruta string) (*T, error) {
	absPath, err := filepath.Abs(ruta)
	if err != nil {
		return nil, fmt.Errorf("ruta de configuración %s: %w", ruta, err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("abriendo configuración: %w", err)
	}
	defer file.Close()

	// Decodificar JSON directamente al tipo genérico
	var config T
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("decodificando %s: %w", absPath, err)
	}
	return &config, nil
}

// ============================================================================
// Constantes para tipos de mensajes entre módulos
// ============================================================================
const (
	// === COMUNICACIÓN BÁSICA (1-9) ===
	MensajeHandshake = 1 // Conexión inicial

	// === OPERACIONES DE MEMORIA (10-19) ===
	MensajeAlloc        = 10 // Reservar región
	MensajeFree         = 11 // Liberar región
	MensajeLeer         = 12 // Leer byte de una región
	MensajeEscribir     = 13 // Escribir byte en una región
	MensajeSyscall      = 14 // Syscall del proceso
	MensajeMemoryDump   = 15 // Volcado memoria
	MensajeTablaPaginas = 16 // Volcado de tabla de páginas
	MensajeEspacioLibre = 17 // Consultar espacio
	MensajeMetricas     = 18 // Métricas del proceso

	// === GESTIÓN DE PROCESOS (20-29) ===
	MensajeCrearProceso     = 20 // Crear proceso
	MensajeFinalizarProceso = 21 // Terminar proceso
)
