package memphy

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNuevaGeometria(t *testing.T) {
	if _, err := Nueva("RAM", 1000, 256); err == nil {
		t.Errorf("Wanted error for size not multiple of page size")
	}
	if _, err := Nueva("RAM", 0, 256); err == nil {
		t.Errorf("Wanted error for zero size")
	}

	mp, err := Nueva("RAM", 1024, 256)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if mp.CantidadMarcos() != 4 || mp.MarcosLibres() != 4 {
		t.Errorf("Wanted 4 free frames, got %d/%d", mp.MarcosLibres(), mp.CantidadMarcos())
	}
}

func TestLeerEscribir(t *testing.T) {
	mp, _ := Nueva("RAM", 512, 256)

	if err := mp.Escribir(300, 0x2a); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	v, err := mp.Leer(300)
	if err != nil || v != 0x2a {
		t.Errorf("Wanted 0x2a, got %#x (%v)", v, err)
	}

	if _, err := mp.Leer(512); !errors.Is(err, ErrDireccionFueraDeRango) {
		t.Errorf("Wanted ErrDireccionFueraDeRango, got %v", err)
	}
	if err := mp.Escribir(-1, 1); !errors.Is(err, ErrDireccionFueraDeRango) {
		t.Errorf("Wanted ErrDireccionFueraDeRango, got %v", err)
	}
}

func TestPoolDeMarcos(t *testing.T) {
	mp, _ := Nueva("SWAP0", 3*16, 16)

	t.Run("Frames handed out in ascending order", func(t *testing.T) {
		for want := 0; want < 3; want++ {
			got, err := mp.ObtenerMarcoLibre()
			if err != nil || got != want {
				t.Fatalf("Wanted frame %d, got %d (%v)", want, got, err)
			}
		}
		if _, err := mp.ObtenerMarcoLibre(); !errors.Is(err, ErrSinMarcosLibres) {
			t.Errorf("Wanted ErrSinMarcosLibres, got %v", err)
		}
	})

	t.Run("Released frame is reused first", func(t *testing.T) {
		mp.LiberarMarco(1)
		if !mp.MarcoLibre(1) || mp.MarcosLibres() != 1 {
			t.Fatalf("Frame 1 should be free")
		}
		got, _ := mp.ObtenerMarcoLibre()
		if got != 1 {
			t.Errorf("Wanted frame 1, got %d", got)
		}
	})

	t.Run("Double release panics", func(t *testing.T) {
		mp.LiberarMarco(2)
		defer func() {
			if recover() == nil {
				t.Errorf("Wanted panic on double release")
			}
		}()
		mp.LiberarMarco(2)
	})

	t.Run("Releases are reused most recent first", func(t *testing.T) {
		mp.LiberarMarco(0)
		if got := mp.MarcosLibres(); got != 2 {
			t.Fatalf("Wanted 2 free frames, got %d", got)
		}
		for _, want := range []int{0, 2} {
			if got, _ := mp.ObtenerMarcoLibre(); got != want {
				t.Errorf("Wanted frame %d, got %d", want, got)
			}
		}
	})
}

func TestPoolConcurrente(t *testing.T) {
	mp, _ := Nueva("RAM", 64*8, 8)

	var wg sync.WaitGroup
	var mu sync.Mutex
	vistos := make(map[int]bool)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 8; j++ {
				marco, err := mp.ObtenerMarcoLibre()
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
					return
				}
				mu.Lock()
				if vistos[marco] {
					t.Errorf("Frame %d handed out twice", marco)
				}
				vistos[marco] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(vistos) != 64 || mp.MarcosLibres() != 0 {
		t.Errorf("Wanted 64 distinct frames, got %d (free %d)", len(vistos), mp.MarcosLibres())
	}
}

func TestLeerMarcoYVolcar(t *testing.T) {
	mp, _ := Nueva("RAM", 32, 16)
	mp.Escribir(17, 7)

	contenido, err := mp.LeerMarco(1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(contenido) != 16 || contenido[1] != 7 {
		t.Errorf("Unexpected frame content %v", contenido)
	}

	var buf bytes.Buffer
	if err := mp.Volcar(&buf); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "00000011: 07") {
		t.Errorf("Dump missing written cell:\n%s", buf.String())
	}
}
