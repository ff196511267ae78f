package prospection

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/jhoicas/prospection-api/internal/domain/entity"
	"github.com/jhoicas/prospection-api/pkg/siret"
)

var postalCodeRe = regexp.MustCompile(`\b(\d{5})\b`)

// PappersURL enlace de búsqueda del dirigente en Pappers (requiere un SIREN de 9 caracteres).
func PappersURL(siren string) string {
	if len(siren) < 9 {
		return ""
	}
	return "https://www.pappers.fr/recherche?q=" + siren
}

// PagesJaunesURL enlace de búsqueda del teléfono en PagesJaunes.
// Sin código postal de 5 dígitos en la dirección no se genera enlace.
func PagesJaunesURL(nom, adresse string) string {
	nom = strings.TrimSpace(nom)
	if nom == "" {
		return ""
	}
	cp := PostalCode(adresse)
	if cp == "" {
		return ""
	}
	return "https://www.pagesjaunes.fr/recherche/" + cp + "/" + url.PathEscape(nom)
}

// OpcoURL enlace a "Quel est mon OPCO ?" de France Compétences con el SIRET prellenado.
func OpcoURL(s string) string {
	s = strings.TrimSpace(s)
	if !siret.IsWellFormed(s) {
		return ""
	}
	return "https://quel-est-mon-opco.francecompetences.fr/?siret=" + s
}

// PostalCode primer código postal de 5 dígitos encontrado en la dirección.
func PostalCode(adresse string) string {
	m := postalCodeRe.FindStringSubmatch(adresse)
	if m == nil {
		return ""
	}
	return m[1]
}

// FormatPhone formatea un número francés en pares ("01 23 45 67 89").
// Acepta el prefijo internacional 33; los formatos no reconocidos se devuelven tal cual.
func FormatPhone(phone string) string {
	if phone == "" {
		return ""
	}
	digits := siret.Normalize(phone)
	if len(digits) == 11 && strings.HasPrefix(digits, "33") {
		digits = "0" + digits[2:]
	}
	if len(digits) == 10 && digits[0] == '0' {
		return digits[:2] + " " + digits[2:4] + " " + digits[4:6] + " " + digits[6:8] + " " + digits[8:10]
	}
	return phone
}

// WithLinks devuelve una copia del establecimiento con los tres enlaces externos calculados.
func WithLinks(e entity.Entreprise) entity.Entreprise {
	e.PappersURL = PappersURL(e.Siren)
	e.PagesJaunesURL = PagesJaunesURL(e.Nom, e.Adresse)
	e.OpcoURL = OpcoURL(e.Siret)
	return e
}
