package kernel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sisoputnfrba/tp-memoria-virtual/memphy"
	"github.com/sisoputnfrba/tp-memoria-virtual/mm"
	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

var (
	ErrProcesoDesconocido = errors.New("proceso desconocido")
	ErrProcesoDuplicado   = errors.New("ya existe un proceso con ese PID")
	ErrSyscallDesconocida = errors.New("syscall desconocida")
	ErrColaLlena          = errors.New("la cola de procesos está llena")
	ErrSwapInexistente    = errors.New("dispositivo de SWAP inexistente")
)

// Kernel agrupa los dispositivos físicos y la tabla de procesos en ejecución.
// Implementa mm.Dispositivos.
type Kernel struct {
	ram   *memphy.Memphy
	swaps []*memphy.Memphy

	swapMutex  sync.RWMutex
	swapActivo int

	Procesos *ColaProcesos

	cfgMM    mm.Config
	syscalls map[int]manejadorSyscall
}

// Nuevo arma el kernel validando que la geometría de los dispositivos entre
// en la codificación de las PTE.
func Nuevo(ram *memphy.Memphy, swaps []*memphy.Memphy, cfgMM mm.Config, maxProcesos int) (*Kernel, error) {
	if err := cfgMM.Validar(); err != nil {
		return nil, err
	}
	if ram == nil {
		return nil, fmt.Errorf("no hay RAM configurada")
	}
	if ram.TamPagina() != cfgMM.TamPagina {
		return nil, fmt.Errorf("la RAM usa páginas de %d bytes y el espacio de direcciones de %d", ram.TamPagina(), cfgMM.TamPagina)
	}
	if ram.CantidadMarcos() > mm.MaxMarcos {
		return nil, fmt.Errorf("la RAM tiene %d marcos, máximo %d", ram.CantidadMarcos(), mm.MaxMarcos)
	}
	if len(swaps) == 0 || len(swaps) > mm.MaxDispositivosSwap {
		return nil, fmt.Errorf("cantidad de dispositivos de SWAP inválida: %d", len(swaps))
	}
	for i, swap := range swaps {
		if swap == nil {
			return nil, fmt.Errorf("SWAP %d: %w", i, ErrSwapInexistente)
		}
		if swap.TamPagina() != cfgMM.TamPagina {
			return nil, fmt.Errorf("SWAP %d usa páginas de %d bytes", i, swap.TamPagina())
		}
		if swap.CantidadMarcos() > mm.MaxMarcosSwap {
			return nil, fmt.Errorf("SWAP %d tiene %d marcos, máximo %d", i, swap.CantidadMarcos(), mm.MaxMarcosSwap)
		}
	}

	k := &Kernel{
		ram:      ram,
		swaps:    swaps,
		Procesos: NuevaColaProcesos(maxProcesos),
		cfgMM:    cfgMM,
	}
	k.registrarSyscalls()

	utils.InfoLog.Info("Kernel inicializado",
		"marcos_ram", ram.CantidadMarcos(),
		"dispositivos_swap", len(swaps),
		"tam_pagina", cfgMM.TamPagina)
	return k, nil
}

func (k *Kernel) RAM() mm.Memoria { return k.ram }

func (k *Kernel) SwapActivo() (int, mm.Memoria) {
	k.swapMutex.RLock()
	defer k.swapMutex.RUnlock()
	return k.swapActivo, k.swaps[k.swapActivo]
}

func (k *Kernel) Swap(tipo int) mm.Memoria {
	if tipo < 0 || tipo >= len(k.swaps) {
		return nil
	}
	return k.swaps[tipo]
}

// CambiarSwapActivo elige el dispositivo que reciben los desalojos siguientes.
// Las páginas ya bajadas quedan en el dispositivo que indica su PTE.
func (k *Kernel) CambiarSwapActivo(tipo int) error {
	if tipo < 0 || tipo >= len(k.swaps) {
		return fmt.Errorf("SWAP %d: %w", tipo, ErrSwapInexistente)
	}
	k.swapMutex.Lock()
	k.swapActivo = tipo
	k.swapMutex.Unlock()

	utils.InfoLog.Info("SWAP activo cambiado", "tipo", tipo)
	return nil
}

// MemoriaFisica devuelve el dispositivo de RAM para volcados y métricas
func (k *Kernel) MemoriaFisica() *memphy.Memphy { return k.ram }

// DispositivosSwap devuelve los dispositivos de SWAP en orden de tipo
func (k *Kernel) DispositivosSwap() []*memphy.Memphy { return k.swaps }

func (k *Kernel) ConfigMM() mm.Config { return k.cfgMM }

// CrearProceso arma el PCB con un espacio de direcciones vacío y lo agrega a
// la tabla de procesos en ejecución.
func (k *Kernel) CrearProceso(pid int, prioridad int) (*PCB, error) {
	espacio, err := mm.NuevoEspacioDirecciones(k.cfgMM)
	if err != nil {
		return nil, err
	}
	espacio.PID = pid

	pcb := &PCB{
		PID:       pid,
		Prioridad: prioridad,
		MM:        espacio,
		Kernel:    k,
	}
	if err := k.Procesos.Encolar(pcb); err != nil {
		return nil, err
	}

	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Proceso Creado - Prioridad: %d", pid, prioridad))
	return pcb, nil
}

// Cerrar libera los dispositivos respaldados por archivo
func (k *Kernel) Cerrar() error {
	var errs []error
	if err := k.ram.Cerrar(); err != nil {
		errs = append(errs, err)
	}
	for _, swap := range k.swaps {
		if err := swap.Cerrar(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
