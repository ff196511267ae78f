package opco

import "strings"

// apeToIDCC correspondencia aproximada código APE (sin punto) → convención colectiva.
// Las claves son prefijos de 2 a 4 caracteres; gana el más largo.
var apeToIDCC = map[string]string{
	// Comercio minorista
	"4711": "2120",
	"4719": "2120",
	"472":  "2120",
	"473":  "2120",
	"474":  "2120",
	"475":  "2120",
	"476":  "2120",
	"477":  "2120",

	// Hostelería y restauración
	"551": "1979",
	"552": "1979",
	"553": "1979",
	"561": "1979",
	"562": "1979",
	"563": "1979",

	// Construcción
	"41": "1596",
	"42": "1596",
	"43": "1596",

	// Industria
	"10": "1486", "11": "1486", "13": "1486", "14": "1486", "15": "1486",
	"16": "1486", "17": "1486", "18": "1486", "19": "1486", "20": "1486",
	"21": "1486", "22": "1486", "23": "1486", "24": "1486", "25": "1486",
	"26": "1486", "27": "1486", "28": "1486", "29": "1486", "30": "1486",
	"31": "1486", "32": "1486", "33": "1486",

	// Servicios
	"68": "2120", "69": "2120", "70": "2120", "71": "2120", "72": "2120",
	"73": "2120", "74": "2120", "77": "2120", "78": "2120", "79": "2120",
	"80": "2120", "81": "2120", "82": "2120", "85": "2120", "86": "2120",
	"87": "2120", "88": "2120", "90": "2120", "91": "2120", "92": "2120",
	"93": "2120", "94": "2120", "95": "2120", "96": "2120",
}

var idccToOPCO = map[string]string{
	"2120": "OPCO 2i",
	"1979": "OPCO 2i",
	"1596": "OPCO Constructys",
	"1486": "OPCO 2i",
	"1518": "OPCO 2i",
	"1501": "OPCO 2i", "1502": "OPCO 2i", "1503": "OPCO 2i", "1504": "OPCO 2i",
	"1505": "OPCO 2i", "1506": "OPCO 2i", "1507": "OPCO 2i", "1508": "OPCO 2i",
	"1509": "OPCO 2i", "1510": "OPCO 2i", "1511": "OPCO 2i", "1512": "OPCO 2i",
	"1513": "OPCO 2i", "1514": "OPCO 2i", "1515": "OPCO 2i", "1516": "OPCO 2i",
	"1517": "OPCO 2i",
}

// IDCCFromAPE busca la convención colectiva probando el código completo y luego los prefijos de 4, 3 y 2.
func IDCCFromAPE(ape string) string {
	code := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(ape), ".", ""))
	if code == "" {
		return ""
	}
	if idcc, ok := apeToIDCC[code]; ok {
		return idcc
	}
	for n := 4; n >= 2; n-- {
		if len(code) < n {
			continue
		}
		if idcc, ok := apeToIDCC[code[:n]]; ok {
			return idcc
		}
	}
	return ""
}

// OPCOFromIDCC nombre del OPCO de una convención colectiva, "" si no está mapeada.
func OPCOFromIDCC(idcc string) string {
	return idccToOPCO[strings.TrimSpace(idcc)]
}
