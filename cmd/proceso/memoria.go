package main

import (
	"fmt"
	"time"

	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

// clienteMemoria es lo que el proceso necesita del cliente HTTP
type clienteMemoria interface {
	EnviarSolicitud(tipo int, operacion string, datos interface{}) (map[string]interface{}, error)
}

// conectarConReintentos hace el handshake con memoria y devuelve el tamaño de página
func conectarConReintentos(c clienteMemoria, intentos int, espera time.Duration) (int, error) {
	utils.InfoLog.Info("Iniciando conexión", "destino", "Memoria")

	var err error
	for i := 1; i <= intentos; i++ {
		var respuesta map[string]interface{}
		respuesta, err = c.EnviarSolicitud(utils.MensajeHandshake, "handshake", map[string]interface{}{"nombre": "Proceso"})
		if err == nil {
			valores, errDatos := utils.ExtraerEnteros(respuesta, "tam_pagina")
			if errDatos != nil {
				return 0, errDatos
			}
			utils.InfoLog.Info("Conexión establecida", "destino", "Memoria", "tam_pagina", valores[0])
			return valores[0], nil
		}

		utils.InfoLog.Warn("Reintentando conexión",
			"destino", "Memoria",
			"intento", i,
			"próximo_en", espera.String())
		time.Sleep(espera)
	}
	return 0, fmt.Errorf("no se pudo conectar con memoria: %w", err)
}
