package utils

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParsearNivel(t *testing.T) {
	casos := map[string]slog.Level{
		"DEBUG": slog.LevelDebug,
		"trace": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"Error": slog.LevelError,
		"otro":  slog.LevelInfo,
	}
	for nivel, esperado := range casos {
		if got := ParsearNivel(nivel); got != esperado {
			t.Errorf("Level %q: wanted %v, got %v", nivel, esperado, got)
		}
	}
}

func TestInicializarLoggerEn(t *testing.T) {
	infoAnterior, errorAnterior, defaultAnterior := InfoLog, ErrorLog, slog.Default()
	defer func() {
		InfoLog, ErrorLog = infoAnterior, errorAnterior
		slog.SetDefault(defaultAnterior)
	}()

	var buf bytes.Buffer
	InicializarLoggerEn(&buf, "warn", "Prueba")

	InfoLog.Info("no debería aparecer")
	ErrorLog.Error("falla", "pid", 3)

	salida := buf.String()
	if strings.Contains(salida, "no debería aparecer") {
		t.Errorf("Info line should be filtered at warn level:\n%s", salida)
	}
	if !strings.Contains(salida, "modulo=Prueba") || !strings.Contains(salida, "pid=3") {
		t.Errorf("Missing attributes:\n%s", salida)
	}
}

func TestExtraerEnteros(t *testing.T) {
	datos := map[string]interface{}{"pid": float64(4), "region": float64(2), "nombre": "x"}

	valores, err := ExtraerEnteros(datos, "region", "pid")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if valores[0] != 2 || valores[1] != 4 {
		t.Errorf("Wanted [2 4], got %v", valores)
	}

	if _, err := ExtraerEnteros(datos, "nombre"); err == nil {
		t.Errorf("A string value should fail")
	}
	if _, err := ExtraerEnteros(nil, "pid"); err == nil {
		t.Errorf("Nil data should fail")
	}
	if ExtraerEnteroOpcional(datos, "prioridad", 7) != 7 {
		t.Errorf("Missing key should return the default")
	}
}

type configPrueba struct {
	Puerto int    `json:"PUERTO"`
	Nivel  string `json:"LOG_LEVEL"`
}

func TestLeerConfiguracion(t *testing.T) {
	dir := t.TempDir()
	ruta := filepath.Join(dir, "config.json")
	if err := os.WriteFile(ruta, []byte(`{"PUERTO": 8002, "LOG_LEVEL": "DEBUG"}`), 0644); err != nil {
		t.Fatalf("Failed writing config: %s", err)
	}

	cfg, err := LeerConfiguracion[configPrueba](ruta)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Puerto != 8002 || cfg.Nivel != "DEBUG" {
		t.Errorf("Unexpected config %+v", cfg)
	}

	if _, err := LeerConfiguracion[configPrueba](filepath.Join(dir, "no-existe.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Wanted os.ErrNotExist, got %v", err)
	}

	os.WriteFile(ruta, []byte(`{"PUERTO": "x"}`), 0644)
	if _, err := LeerConfiguracion[configPrueba](ruta); err == nil {
		t.Errorf("Bad JSON type should fail")
	}
}

func TestMensajesHTTP(t *testing.T) {
	modulo := NuevoModulo("Prueba", "")
	modulo.RegistrarHandler("10", "default", func(msg *Mensaje) (interface{}, error) {
		valores, err := ExtraerEnteros(msg.Datos, "a", "b")
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"suma": valores[0] + valores[1], "origen": msg.Origen}, nil
	})
	modulo.RegistrarHandler("10", "resta", func(msg *Mensaje) (interface{}, error) {
		valores, _ := ExtraerEnteros(msg.Datos, "a", "b")
		return map[string]interface{}{"resta": valores[0] - valores[1]}, nil
	})

	srv := httptest.NewServer(modulo.PrepararServidor("127.0.0.1", 0).Handler())
	defer srv.Close()

	cliente := NewHTTPClient("127.0.0.1", 0, "Cliente")
	cliente.BaseURL = srv.URL

	if err := cliente.VerificarConexion(); err != nil {
		t.Fatalf("Health check failed: %v", err)
	}

	resp, err := cliente.EnviarHTTPMensaje(10, "", map[string]interface{}{"a": 2, "b": 3})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	respMap := resp.(map[string]interface{})
	if respMap["suma"] != float64(5) || respMap["origen"] != "Cliente" {
		t.Errorf("Unexpected response %v", respMap)
	}

	resp, _ = cliente.EnviarHTTPMensaje(10, "resta", map[string]interface{}{"a": 2, "b": 3})
	if resp.(map[string]interface{})["resta"] != float64(-1) {
		t.Errorf("Operation routing failed: %v", resp)
	}

	t.Run("Error field becomes ErrorRemoto", func(t *testing.T) {
		modulo.RegistrarHandler("10", "falla", func(msg *Mensaje) (interface{}, error) {
			return map[string]interface{}{"error": "sin espacio"}, nil
		})
		_, err := cliente.EnviarSolicitud(10, "falla", nil)
		var remoto *ErrorRemoto
		if !errors.As(err, &remoto) || remoto.Mensaje != "sin espacio" {
			t.Errorf("Wanted ErrorRemoto, got %v", err)
		}

		resp, err := cliente.EnviarSolicitud(10, "resta", map[string]interface{}{"a": 5, "b": 1})
		if err != nil || resp["resta"] != float64(4) {
			t.Errorf("Wanted resta 4, got %v (%v)", resp, err)
		}
	})

	t.Run("Handler error is a 500", func(t *testing.T) {
		if _, err := cliente.EnviarHTTPMensaje(10, "", map[string]interface{}{"a": 1}); err == nil {
			t.Errorf("Wanted an error")
		}
	})

	t.Run("Unknown type is rejected", func(t *testing.T) {
		if _, err := cliente.EnviarHTTPMensaje(99, "", nil); err == nil {
			t.Errorf("Wanted an error")
		}
	})
}

func TestSemaforo(t *testing.T) {
	s := NewSemaforo(2)
	if !s.TryWait() || !s.TryWait() {
		t.Fatalf("Two permits should be available")
	}
	if s.TryWait() {
		t.Errorf("Third permit should block")
	}
	s.Signal()
	if !s.TryWait() {
		t.Errorf("Permit should be available after Signal")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.WaitContext(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wanted context.Canceled, got %v", err)
	}
}
