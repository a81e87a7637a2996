package main

import (
	"github.com/sisoputnfrba/tp-memoria-virtual/libmem"
	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

// handlerMetricas devuelve los contadores de memoria del proceso
func handlerMetricas(msg *utils.Mensaje) (interface{}, error) {
	pcb, err := buscarProceso(msg)
	if err != nil {
		return respuestaError(err), nil
	}

	m := libmem.Metricas(pcb)
	utils.InfoLog.Debug("Métricas consultadas", "pid", pcb.PID, "metricas", m.String())

	return map[string]interface{}{
		"status":                "OK",
		"accesos_tabla_paginas": m.AccesosTablaPaginas,
		"fallos_pagina":         m.FallosPagina,
		"bajadas_swap":          m.BajadasSwap,
		"subidas_memoria":       m.SubidasMemoria,
		"lecturas":              m.Lecturas,
		"escrituras":            m.Escrituras,
		"reservas":              m.Reservas,
		"liberaciones":          m.Liberaciones,
	}, nil
}
