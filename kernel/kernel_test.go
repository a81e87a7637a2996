package kernel

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sisoputnfrba/tp-memoria-virtual/memphy"
	"github.com/sisoputnfrba/tp-memoria-virtual/mm"
)

var cfgPrueba = mm.Config{TamPagina: 16, BitsDireccion: 10, TamTablaSimbolos: 10}

func nuevoKernel(t *testing.T, marcosRAM int, marcosSwap ...int) *Kernel {
	t.Helper()
	ram, err := memphy.Nueva("RAM", marcosRAM*cfgPrueba.TamPagina, cfgPrueba.TamPagina)
	if err != nil {
		t.Fatalf("Failed creating RAM: %s", err)
	}
	var swaps []*memphy.Memphy
	for _, n := range marcosSwap {
		swap, err := memphy.Nueva("SWAP", n*cfgPrueba.TamPagina, cfgPrueba.TamPagina)
		if err != nil {
			t.Fatalf("Failed creating swap: %s", err)
		}
		swaps = append(swaps, swap)
	}
	k, err := Nuevo(ram, swaps, cfgPrueba, 4)
	if err != nil {
		t.Fatalf("Failed creating kernel: %s", err)
	}
	return k
}

func TestNuevo(t *testing.T) {
	ram, _ := memphy.Nueva("RAM", 256, 16)
	otraPagina, _ := memphy.Nueva("SWAP", 256, 32)

	if _, err := Nuevo(ram, nil, cfgPrueba, 4); err == nil {
		t.Errorf("Kernel without swap should fail")
	}
	if _, err := Nuevo(ram, []*memphy.Memphy{otraPagina}, cfgPrueba, 4); err == nil {
		t.Errorf("Swap with a different page size should fail")
	}
	if _, err := Nuevo(ram, []*memphy.Memphy{nil}, cfgPrueba, 4); !errors.Is(err, ErrSwapInexistente) {
		t.Errorf("Wanted ErrSwapInexistente, got %v", err)
	}
}

func TestProcesos(t *testing.T) {
	k := nuevoKernel(t, 4, 4)

	for pid := 1; pid <= 4; pid++ {
		pcb, err := k.CrearProceso(pid, pid%2)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if pcb.MM.PID != pid {
			t.Errorf("Address space should carry pid %d, got %d", pid, pcb.MM.PID)
		}
	}

	if _, err := k.CrearProceso(9, 0); !errors.Is(err, ErrColaLlena) {
		t.Errorf("Wanted ErrColaLlena, got %v", err)
	}
	if _, err := k.CrearProceso(2, 0); !errors.Is(err, ErrProcesoDuplicado) {
		t.Errorf("Wanted ErrProcesoDuplicado, got %v", err)
	}

	if pcb := k.Procesos.Purgar(2); pcb == nil || pcb.PID != 2 {
		t.Errorf("Purge should return pid 2, got %v", pcb)
	}
	if k.Procesos.Purgar(2) != nil {
		t.Errorf("Second purge should return nil")
	}
	if got := k.Procesos.PIDs(); !slices.Equal(got, []int{1, 3, 4}) {
		t.Errorf("Wanted [1 3 4], got %v", got)
	}
	if k.Procesos.BuscarPorPID(3) == nil || k.Procesos.BuscarPorPID(2) != nil {
		t.Errorf("Linear lookup is wrong")
	}
	if k.Procesos.Tamanio() != 3 || k.Procesos.Vacia() {
		t.Errorf("Wanted 3 processes")
	}
}

func TestCrearProcesoConcurrente(t *testing.T) {
	k := nuevoKernel(t, 4, 4, 1)

	const intentos = 8
	var wg sync.WaitGroup
	var creados atomic.Int32
	for i := 0; i < intentos; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := k.CrearProceso(5, 0); err == nil {
				creados.Add(1)
			} else if !errors.Is(err, ErrProcesoDuplicado) {
				t.Errorf("Wanted ErrProcesoDuplicado, got %v", err)
			}
		}()
	}
	wg.Wait()

	if creados.Load() != 1 {
		t.Errorf("Wanted exactly one process created, got %d", creados.Load())
	}
	if got := k.Procesos.PIDs(); !slices.Equal(got, []int{5}) {
		t.Errorf("Wanted [5], got %v", got)
	}
}

func TestSyscallMemmap(t *testing.T) {
	k := nuevoKernel(t, 4, 4, 2)
	pcb, _ := k.CrearProceso(1, 0)

	t.Run("Unknown syscall number", func(t *testing.T) {
		if err := k.Syscall(1, 3, &Registros{}); !errors.Is(err, ErrSyscallDesconocida) {
			t.Errorf("Wanted ErrSyscallDesconocida, got %v", err)
		}
	})

	t.Run("Unknown process", func(t *testing.T) {
		regs := &Registros{A1: SYSMEM_IO_READ}
		if err := k.Syscall(42, SysMemmap, regs); !errors.Is(err, ErrProcesoDesconocido) {
			t.Errorf("Wanted ErrProcesoDesconocido, got %v", err)
		}
	})

	t.Run("Unknown memop is a no-op", func(t *testing.T) {
		regs := &Registros{A1: 99, A2: 1, A3: 2}
		if err := k.Syscall(1, SysMemmap, regs); err != nil {
			t.Errorf("Wanted nil, got %v", err)
		}
	})

	t.Run("Growth", func(t *testing.T) {
		regs := &Registros{A1: SYSMEM_INC_OP, A2: 0, A3: 20}
		if err := k.Syscall(1, SysMemmap, regs); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		area, _ := pcb.MM.Area(0)
		if area.Sbrk() != 32 {
			t.Errorf("Wanted break 32, got %d", area.Sbrk())
		}
		if k.MemoriaFisica().MarcosLibres() != 2 {
			t.Errorf("Wanted 2 free frames, got %d", k.MemoriaFisica().MarcosLibres())
		}
	})

	t.Run("Raw IO", func(t *testing.T) {
		if err := k.Syscall(1, SysMemmap, &Registros{A1: SYSMEM_IO_WRITE, A2: 40, A3: 0x7f}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		regs := &Registros{A1: SYSMEM_IO_READ, A2: 40}
		if err := k.Syscall(1, SysMemmap, regs); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if regs.A3 != 0x7f {
			t.Errorf("Wanted 0x7f, got %#x", regs.A3)
		}
	})

	t.Run("Explicit swap copies to the active device", func(t *testing.T) {
		if err := k.CambiarSwapActivo(1); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if err := k.Syscall(1, SysMemmap, &Registros{A1: SYSMEM_SWP_OP, A2: 2, A3: 1}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		v, _ := k.DispositivosSwap()[1].Leer(1*16 + 8)
		if v != 0x7f {
			t.Errorf("Wanted 0x7f in swap 1 slot 1, got %#x", v)
		}
		if err := k.CambiarSwapActivo(5); !errors.Is(err, ErrSwapInexistente) {
			t.Errorf("Wanted ErrSwapInexistente, got %v", err)
		}
	})

	t.Run("Map resets the range", func(t *testing.T) {
		if err := k.Syscall(1, SysMemmap, &Registros{A1: SYSMEM_MAP_OP, A2: 0, A3: 2}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if k.MemoriaFisica().MarcosLibres() != 4 {
			t.Errorf("Wanted all frames free, got %d", k.MemoriaFisica().MarcosLibres())
		}
		if len(pcb.MM.PaginasResidentes()) != 0 {
			t.Errorf("Wanted empty FIFO")
		}
	})
}

func TestDispositivos(t *testing.T) {
	k := nuevoKernel(t, 2, 2, 2)
	var _ mm.Dispositivos = k

	if k.Swap(2) != nil || k.Swap(-1) != nil {
		t.Errorf("Out of range swap should be nil")
	}
	if tipo, _ := k.SwapActivo(); tipo != 0 {
		t.Errorf("Wanted swap 0 active, got %d", tipo)
	}
	if err := k.Cerrar(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
