package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

var memoriaClient *utils.HTTPClient

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Uso: %s <archivo_configuracion> <script> [script...]\n", os.Args[0])
		os.Exit(1)
	}

	utils.InicializarLogger("INFO", "Proceso")

	config = utils.CargarConfiguracion[ProcesoConfig](os.Args[1])
	utils.InicializarLogger(config.LogLevel, "Proceso")
	utils.InfoLog.Info("Configuración cargada", "nivel_log", config.LogLevel, "config_path", os.Args[1])

	scripts := make([]*Script, 0, len(os.Args)-2)
	for _, nombre := range os.Args[2:] {
		ruta := nombre
		if config.ScriptsPath != "" && !filepath.IsAbs(nombre) {
			ruta = filepath.Join(config.ScriptsPath, nombre)
		}
		script, err := cargarScript(ruta)
		if err != nil {
			utils.ErrorLog.Error("Error cargando script", "archivo", ruta, "error", err)
			os.Exit(1)
		}
		scripts = append(scripts, script)
	}

	memoriaClient = utils.NewHTTPClient(config.IPMemoria, config.PuertoMemoria, "Proceso->Memoria")
	if _, err := conectarConReintentos(memoriaClient, 5, 2*time.Second); err != nil {
		utils.ErrorLog.Error("Memoria no disponible", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if fallidos := ejecutarScripts(ctx, memoriaClient, scripts, config.CPUs); fallidos > 0 {
		stop()
		utils.ErrorLog.Error("Hubo procesos con errores", "fallidos", fallidos)
		os.Exit(1)
	}
	utils.InfoLog.Info("Todos los procesos finalizaron")
}

// ejecutarScripts corre cada script como un proceso (PID = posición + 1),
// con a lo sumo cpus procesos a la vez. Si ctx termina, los procesos que
// no arrancaron se cuentan como fallidos. Devuelve cuántos fallaron.
func ejecutarScripts(ctx context.Context, c clienteMemoria, scripts []*Script, cpus int) int {
	if cpus <= 0 {
		cpus = 1
	}
	sem := utils.NewSemaforo(cpus)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		fallidos int
	)
	for i, script := range scripts {
		wg.Add(1)
		go func(pid int, script *Script) {
			defer wg.Done()

			err := sem.WaitContext(ctx)
			if err == nil {
				defer sem.Signal()
				err = ejecutarProceso(c, pid, script)
			}
			if err != nil {
				utils.ErrorLog.Error("Proceso con errores", "pid", pid, "error", err)
				mu.Lock()
				fallidos++
				mu.Unlock()
			}
		}(i+1, script)
	}
	wg.Wait()
	return fallidos
}
