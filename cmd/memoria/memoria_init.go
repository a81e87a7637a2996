package main

import (
	"fmt"

	"github.com/sisoputnfrba/tp-memoria-virtual/kernel"
	"github.com/sisoputnfrba/tp-memoria-virtual/memphy"
	"github.com/sisoputnfrba/tp-memoria-virtual/mm"
	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

// nucleo es el kernel que atiende a todos los procesos del módulo
var nucleo *kernel.Kernel

// configMM completa con los valores por defecto lo que falte en la configuración
func configMM(cfg *MemoriaConfig) mm.Config {
	cfgMM := mm.ConfigPorDefecto()
	if cfg.TamPagina > 0 {
		cfgMM.TamPagina = cfg.TamPagina
	}
	if cfg.BitsDireccion > 0 {
		cfgMM.BitsDireccion = cfg.BitsDireccion
	}
	if cfg.TamTablaSimbolos > 0 {
		cfgMM.TamTablaSimbolos = cfg.TamTablaSimbolos
	}
	return cfgMM
}

// construirKernel crea la RAM, los dispositivos de swap y el kernel. Si hay
// SWAPFILE_PATH el swap 0 queda respaldado por ese archivo.
func construirKernel(cfg *MemoriaConfig) (*kernel.Kernel, error) {
	cfgMM := configMM(cfg)

	utils.InfoLog.Info("Inicializando memoria",
		"tamaño_total", cfg.TamMemoria,
		"tamaño_página", cfgMM.TamPagina,
		"bits_direccion", cfgMM.BitsDireccion,
		"dispositivos_swap", len(cfg.TamSwap))

	ram, err := memphy.Nueva("RAM", cfg.TamMemoria, cfgMM.TamPagina)
	if err != nil {
		return nil, fmt.Errorf("RAM: %w", err)
	}

	swaps := make([]*memphy.Memphy, 0, len(cfg.TamSwap))
	cerrar := func() {
		for _, swap := range swaps {
			swap.Cerrar()
		}
	}
	for i, tam := range cfg.TamSwap {
		nombre := fmt.Sprintf("SWAP%d", i)

		var swap *memphy.Memphy
		if i == 0 && cfg.SwapfilePath != "" {
			swap, err = memphy.NuevaSobreArchivo(nombre, cfg.SwapfilePath, tam, cfgMM.TamPagina)
		} else {
			swap, err = memphy.Nueva(nombre, tam, cfgMM.TamPagina)
		}
		if err != nil {
			cerrar()
			return nil, fmt.Errorf("%s: %w", nombre, err)
		}
		swaps = append(swaps, swap)
	}

	k, err := kernel.Nuevo(ram, swaps, cfgMM, cfg.MaxProcesos)
	if err != nil {
		cerrar()
		return nil, err
	}

	utils.InfoLog.Info("Memoria completamente inicializada")
	return k, nil
}
