package main

import (
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sisoputnfrba/tp-memoria-virtual/kernel"
	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

func iniciarMemoriaPrueba(t *testing.T) *utils.HTTPClient {
	t.Helper()

	config = &MemoriaConfig{
		TamMemoria:       64,
		TamPagina:        16,
		BitsDireccion:    10,
		TamTablaSimbolos: 8,
		TamSwap:          []int{128, 64},
		DumpPath:         t.TempDir(),
		MaxProcesos:      4,
	}

	var err error
	nucleo, err = construirKernel(config)
	if err != nil {
		t.Fatalf("Failed building kernel: %s", err)
	}
	t.Cleanup(func() { nucleo.Cerrar() })

	modulo = utils.NuevoModulo("Memoria", "")
	registrarHandlers()
	srv := httptest.NewServer(modulo.PrepararServidor("127.0.0.1", 0).Handler())
	t.Cleanup(srv.Close)

	cliente := utils.NewHTTPClient("127.0.0.1", 0, "Test")
	cliente.BaseURL = srv.URL
	return cliente
}

func enviar(t *testing.T, cliente *utils.HTTPClient, tipo int, operacion string, datos map[string]interface{}) map[string]interface{} {
	t.Helper()
	resp, err := cliente.EnviarHTTPMensaje(tipo, operacion, datos)
	if err != nil {
		t.Fatalf("Request %d failed: %s", tipo, err)
	}
	respMap, ok := resp.(map[string]interface{})
	if !ok {
		t.Fatalf("Unexpected response %v", resp)
	}
	return respMap
}

func esperarOK(t *testing.T, resp map[string]interface{}) {
	t.Helper()
	if resp["status"] != "OK" {
		t.Fatalf("Wanted OK, got %v", resp)
	}
}

func TestConfigMM(t *testing.T) {
	cfg := configMM(&MemoriaConfig{TamPagina: 64})
	if cfg.TamPagina != 64 || cfg.BitsDireccion != 22 || cfg.TamTablaSimbolos != 30 {
		t.Errorf("Missing keys should take defaults, got %+v", cfg)
	}
	if _, err := construirKernel(&MemoriaConfig{TamMemoria: 100, TamPagina: 16, TamSwap: []int{64}}); err == nil {
		t.Errorf("RAM size not multiple of the page should fail")
	}
}

func TestBytesLegibles(t *testing.T) {
	if got := bytesLegibles(1048576); got != "1.048.576 B" {
		t.Errorf("Wanted %q, got %q", "1.048.576 B", got)
	}
	if got := bytesLegibles(16); got != "16 B" {
		t.Errorf("Wanted %q, got %q", "16 B", got)
	}
}

func TestHandlersMemoria(t *testing.T) {
	cliente := iniciarMemoriaPrueba(t)

	resp := enviar(t, cliente, utils.MensajeHandshake, "handshake", nil)
	if resp["tam_pagina"] != float64(16) {
		t.Errorf("Wanted page size 16, got %v", resp["tam_pagina"])
	}

	esperarOK(t, enviar(t, cliente, utils.MensajeCrearProceso, "", map[string]interface{}{"pid": 1, "prioridad": 2}))

	t.Run("Alloc, write and read", func(t *testing.T) {
		resp := enviar(t, cliente, utils.MensajeAlloc, "", map[string]interface{}{"pid": 1, "region": 0, "tamanio": 40})
		esperarOK(t, resp)
		if resp["direccion"] != float64(0) {
			t.Errorf("Wanted address 0, got %v", resp["direccion"])
		}

		esperarOK(t, enviar(t, cliente, utils.MensajeEscribir, "", map[string]interface{}{"pid": 1, "region": 0, "offset": 33, "valor": 200}))

		resp = enviar(t, cliente, utils.MensajeLeer, "", map[string]interface{}{"pid": 1, "region": 0, "offset": 33})
		esperarOK(t, resp)
		if resp["valor"] != float64(200) {
			t.Errorf("Wanted 200, got %v", resp["valor"])
		}
	})

	t.Run("Page table and metrics", func(t *testing.T) {
		resp := enviar(t, cliente, utils.MensajeTablaPaginas, "", map[string]interface{}{"pid": 1})
		esperarOK(t, resp)
		if tabla, _ := resp["tabla"].(string); !strings.Contains(tabla, "sbrk 48") {
			t.Errorf("Unexpected page table %q", tabla)
		}

		resp = enviar(t, cliente, utils.MensajeMetricas, "", map[string]interface{}{"pid": 1})
		if resp["reservas"] != float64(1) || resp["escrituras"] != float64(1) {
			t.Errorf("Unexpected metrics %v", resp)
		}
	})

	t.Run("Syscall", func(t *testing.T) {
		datos := map[string]interface{}{"pid": 1, "nr": kernel.SysMemmap, "a1": kernel.SYSMEM_IO_READ, "a2": 2*16 + 1, "a3": 0}
		resp := enviar(t, cliente, utils.MensajeSyscall, "", datos)
		esperarOK(t, resp)
		if resp["a3"] != float64(200) {
			t.Errorf("Wanted 200 from raw read, got %v", resp["a3"])
		}

		esperarOK(t, enviar(t, cliente, utils.MensajeSyscall, "swap_activo", map[string]interface{}{"tipo": 1}))
		resp = enviar(t, cliente, utils.MensajeSyscall, "swap_activo", map[string]interface{}{"tipo": 7})
		if _, ok := resp["error"]; !ok {
			t.Errorf("Wanted error for missing swap device, got %v", resp)
		}
	})

	t.Run("Free space", func(t *testing.T) {
		resp := enviar(t, cliente, utils.MensajeEspacioLibre, "", nil)
		if resp["espacio_libre"] != float64(16) {
			t.Errorf("Wanted 16 free bytes, got %v", resp["espacio_libre"])
		}
	})

	t.Run("Dump", func(t *testing.T) {
		resp := enviar(t, cliente, utils.MensajeMemoryDump, "", map[string]interface{}{"pid": 1})
		esperarOK(t, resp)
		ruta, _ := resp["archivo"].(string)
		info, err := os.Stat(ruta)
		if err != nil {
			t.Fatalf("Dump file missing: %s", err)
		}
		if info.Size() != 3*16 {
			t.Errorf("Wanted 48 bytes dumped, got %d", info.Size())
		}

		resp = enviar(t, cliente, utils.MensajeMemoryDump, "fisica", nil)
		esperarOK(t, resp)
		ruta, _ = resp["archivo"].(string)
		contenido, err := os.ReadFile(ruta)
		if err != nil {
			t.Fatalf("Device dump missing: %s", err)
		}
		if !strings.Contains(string(contenido), "===== RAM") || !strings.Contains(string(contenido), ": c8") {
			t.Errorf("Device dump should list RAM and the written value:\n%s", contenido)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		resp := enviar(t, cliente, utils.MensajeLeer, "", map[string]interface{}{"pid": 9, "region": 0, "offset": 0})
		if _, ok := resp["error"]; !ok {
			t.Errorf("Wanted error for unknown pid, got %v", resp)
		}
		resp = enviar(t, cliente, utils.MensajeFree, "", map[string]interface{}{"pid": 1, "region": 5})
		if _, ok := resp["error"]; !ok {
			t.Errorf("Wanted error freeing an empty region, got %v", resp)
		}
		resp = enviar(t, cliente, utils.MensajeEscribir, "", map[string]interface{}{"pid": 1, "region": 0, "offset": 0, "valor": 300})
		if _, ok := resp["error"]; !ok {
			t.Errorf("Wanted error for a value over one byte, got %v", resp)
		}
	})

	t.Run("Finish", func(t *testing.T) {
		resp := enviar(t, cliente, utils.MensajeFinalizarProceso, "", map[string]interface{}{"pid": 1})
		esperarOK(t, resp)
		if resp["marcos_liberados"] != float64(3) {
			t.Errorf("Wanted 3 frames released, got %v", resp["marcos_liberados"])
		}
		if nucleo.MemoriaFisica().MarcosLibres() != 4 {
			t.Errorf("RAM should be empty again")
		}
	})
}
