package main

type ProcesoConfig struct {
	IPMemoria     string `json:"IP_MEMORIA"`
	PuertoMemoria int    `json:"PUERTO_MEMORIA"`
	LogLevel      string `json:"LOG_LEVEL"`
	CPUs          int    `json:"CPUS"`         // Procesos que corren a la vez
	ScriptsPath   string `json:"SCRIPTS_PATH"` // Directorio de los scripts de instrucciones
}

var config *ProcesoConfig
