package main

// MemoriaConfig representa la configuración específica del módulo Memoria
type MemoriaConfig struct {
	IPMemoria        string `json:"IP_MEMORIA"`
	PuertoMemoria    int    `json:"PUERTO_MEMORIA"`
	LogLevel         string `json:"LOG_LEVEL"`
	TamMemoria       int    `json:"TAM_MEMORIA"`        // Tamaño de la RAM en bytes
	TamPagina        int    `json:"TAM_PAGINA"`         // Tamaño de página en bytes, potencia de dos
	BitsDireccion    int    `json:"BITS_DIRECCION"`     // Ancho de una dirección virtual
	TamTablaSimbolos int    `json:"TAM_TABLA_SIMBOLOS"` // Regiones por proceso
	TamSwap          []int  `json:"TAM_SWAP"`           // Tamaño de cada dispositivo de swap
	SwapfilePath     string `json:"SWAPFILE_PATH"`      // Archivo que respalda el swap 0
	RetardoMemoria   int    `json:"RETARDO_MEMORIA"`    // Retardo de acceso a memoria
	RetardoSwap      int    `json:"RETARDO_SWAP"`       // Retardo extra si hubo movimientos de swap
	DumpPath         string `json:"DUMP_PATH"`          // Ruta para los archivos de dump
	MaxProcesos      int    `json:"MAX_PROCESOS"`
}

var config *MemoriaConfig
