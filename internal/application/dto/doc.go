// Package dto define las entradas y salidas de los casos de uso (JSON y formularios).
//
// Importar dto activa decimal.MarshalJSONWithoutQuotes para todo el proceso: los
// precios se serializan como número JSON (12.5, no "12.5"), que es lo que espera el
// frontend. Afecta también al JSON de sesión que guardan los stores; la lectura
// acepta ambas formas.
package dto

import "github.com/shopspring/decimal"

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
