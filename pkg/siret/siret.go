package siret

import (
	"fmt"
)

// sirenLaPoste los establecimientos de La Poste no cumplen Luhn: la suma de dígitos es múltiplo de 5.
const sirenLaPoste = "356000000"

// Validate verifica un SIRET (14 dígitos, con o sin espacios) con el algoritmo de Luhn.
func Validate(s string) error {
	digits := extractDigits(s)
	if len(digits) != 14 {
		return fmt.Errorf("siret: se esperaban 14 dígitos, se encontraron %d", len(digits))
	}
	if string(digits[:9]) == sirenLaPoste {
		if sumDigits(digits)%5 != 0 {
			return fmt.Errorf("siret: clave de control La Poste inválida")
		}
		return nil
	}
	if !luhn(digits) {
		return fmt.Errorf("siret: clave de control inválida")
	}
	return nil
}

// ValidateSiren verifica un SIREN (9 dígitos) con el algoritmo de Luhn.
func ValidateSiren(s string) error {
	digits := extractDigits(s)
	if len(digits) != 9 {
		return fmt.Errorf("siren: se esperaban 9 dígitos, se encontraron %d", len(digits))
	}
	if !luhn(digits) {
		return fmt.Errorf("siren: clave de control inválida")
	}
	return nil
}

// IsWellFormed informa si s son exactamente 14 dígitos (sin comprobar la clave).
func IsWellFormed(s string) bool {
	if len(s) != 14 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SirenOf devuelve los 9 primeros dígitos del SIRET, o "" si es demasiado corto.
func SirenOf(s string) string {
	if len(s) < 9 {
		return ""
	}
	return s[:9]
}

// Normalize quita espacios y separadores.
func Normalize(s string) string {
	return string(extractDigits(s))
}

func luhn(digits []byte) bool {
	var sum int
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func sumDigits(digits []byte) int {
	var sum int
	for _, d := range digits {
		sum += int(d - '0')
	}
	return sum
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, byte(r))
		}
	}
	return out
}
