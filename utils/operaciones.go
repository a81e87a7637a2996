package utils

import (
	"fmt"
	"log/slog"
	"time"
)

// AplicarRetardo aplica un retardo simulado y lo registra
func AplicarRetardo(operacion string, duracionMs int) {
	if duracionMs <= 0 {
		return
	}
	slog.Debug("Aplicando retardo", "operación", operacion, "duración_ms", duracionMs)
	time.Sleep(time.Duration(duracionMs) * time.Millisecond)
}

// ExtraerEnteros toma de datos (un objeto JSON decodificado) los valores
// numéricos de las claves pedidas, en el mismo orden
func ExtraerEnteros(datos interface{}, claves ...string) ([]int, error) {
	datosMap, ok := datos.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("formato de datos incorrecto: %T", datos)
	}

	valores := make([]int, len(claves))
	for i, clave := range claves {
		valor, ok := datosMap[clave].(float64)
		if !ok {
			return nil, fmt.Errorf("%s no proporcionado o formato incorrecto", clave)
		}
		valores[i] = int(valor)
	}
	return valores, nil
}

// ExtraerEnteroOpcional devuelve el valor de clave o valorPorDefecto si no está
func ExtraerEnteroOpcional(datos interface{}, clave string, valorPorDefecto int) int {
	if datosMap, ok := datos.(map[string]interface{}); ok {
		if valor, ok := datosMap[clave].(float64); ok {
			return int(valor)
		}
	}
	return valorPorDefecto
}
