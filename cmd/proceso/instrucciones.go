package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sisoputnfrba/tp-memoria-virtual/utils"
)

// Instruccion es una línea decodificada de un script
type Instruccion struct {
	Operacion string
	Args      []int
}

func (i Instruccion) String() string {
	partes := []string{i.Operacion}
	for _, arg := range i.Args {
		partes = append(partes, strconv.Itoa(arg))
	}
	return strings.Join(partes, " ")
}

// Script es el programa de un proceso
type Script struct {
	Nombre        string
	Prioridad     int
	Instrucciones []Instruccion
}

// cantidad de argumentos de cada operación
var aridad = map[string]int{
	"NOOP":        0,
	"ALLOC":       2, // tamaño región
	"FREE":        1, // región
	"READ":        2, // región offset
	"WRITE":       3, // valor región offset
	"SYSCALL":     4, // nr a1 a2 a3
	"DUMP_MEMORY": 0,
	"EXIT":        0,
}

// decodificar interpreta una línea de script
func decodificar(linea string) (Instruccion, error) {
	partes := strings.Fields(linea)
	if len(partes) == 0 {
		return Instruccion{}, fmt.Errorf("instrucción vacía")
	}

	operacion := strings.ToUpper(partes[0])
	esperados, ok := aridad[operacion]
	if !ok {
		return Instruccion{}, fmt.Errorf("instrucción desconocida: %s", partes[0])
	}
	if len(partes)-1 != esperados {
		return Instruccion{}, fmt.Errorf("%s: se esperaban %d parámetros, hay %d", operacion, esperados, len(partes)-1)
	}

	args := make([]int, 0, esperados)
	for _, parametro := range partes[1:] {
		valor, err := strconv.Atoi(parametro)
		if err != nil {
			return Instruccion{}, fmt.Errorf("%s: parámetro %q inválido: %w", operacion, parametro, err)
		}
		args = append(args, valor)
	}
	return Instruccion{Operacion: operacion, Args: args}, nil
}

// leerScript decodifica un script completo. Las líneas vacías y las que
// empiezan con # se ignoran; "PRIORIDAD n" fija la prioridad del proceso.
func leerScript(nombre string, r io.Reader) (*Script, error) {
	script := &Script{Nombre: nombre}

	scanner := bufio.NewScanner(r)
	for nroLinea := 1; scanner.Scan(); nroLinea++ {
		linea := strings.TrimSpace(scanner.Text())
		if linea == "" || strings.HasPrefix(linea, "#") {
			continue
		}

		if campos := strings.Fields(linea); strings.EqualFold(campos[0], "PRIORIDAD") && len(campos) == 2 {
			prioridad, err := strconv.Atoi(campos[1])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: prioridad inválida: %w", nombre, nroLinea, err)
			}
			script.Prioridad = prioridad
			continue
		}

		inst, err := decodificar(linea)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", nombre, nroLinea, err)
		}
		script.Instrucciones = append(script.Instrucciones, inst)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("leyendo %s: %w", nombre, err)
	}
	return script, nil
}

// cargarScript abre ruta y la decodifica
func cargarScript(ruta string) (*Script, error) {
	archivo, err := os.Open(ruta)
	if err != nil {
		return nil, err
	}
	defer archivo.Close()

	script, err := leerScript(ruta, archivo)
	if err != nil {
		return nil, err
	}
	utils.InfoLog.Info("Script cargado", "archivo", ruta, "instrucciones", len(script.Instrucciones), "prioridad", script.Prioridad)
	return script, nil
}
