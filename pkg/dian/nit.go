package dian

import (
	"fmt"
	"unicode"
)

// pesos del dígito de verificación NIT (Orden Administrativa 4 de 1989, DIAN),
// aplicados a los 9 primeros dígitos de izquierda a derecha.
var nitWeights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// ValidateNITVerificationDigit valida el dígito de verificación (módulo 11) de un NIT.
// taxID puede ser "123456789-1", "123.456.789-1" o "1234567891".
func ValidateNITVerificationDigit(taxID string) error {
	digits := extractDigits(taxID)
	if len(digits) < 9 {
		return fmt.Errorf("dian: NIT debe tener al menos 9 dígitos, se encontraron %d", len(digits))
	}
	if len(digits) != 10 {
		return fmt.Errorf("dian: NIT de persona jurídica debe incluir dígito de verificación (10 dígitos), se recibieron %d", len(digits))
	}
	expected := verificationDigit(digits[:9])
	if digits[9] != expected {
		return fmt.Errorf("dian: dígito de verificación del NIT inválido: esperado %c, recibido %c", expected, digits[9])
	}
	return nil
}

// ComputeNITVerificationDigit calcula el dígito de verificación de los 9 primeros dígitos.
func ComputeNITVerificationDigit(taxID string) (byte, error) {
	digits := extractDigits(taxID)
	if len(digits) < 9 {
		return 0, fmt.Errorf("dian: se requieren al menos 9 dígitos para calcular el dígito de verificación, se encontraron %d", len(digits))
	}
	return verificationDigit(digits[:9]), nil
}

// NITBase devuelve los 9 dígitos del NIT sin DV (lo que entra al CUFE).
func NITBase(taxID string) string {
	digits := extractDigits(taxID)
	if len(digits) > 9 {
		digits = digits[:9]
	}
	return string(digits)
}

func verificationDigit(base []byte) byte {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * nitWeights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return byte('0' + remainder)
	}
	return byte('0' + (11 - remainder))
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return out
}
