package sirene

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// trancheEffectifs etiquetas de los códigos de tramo de efectivos de Sirene.
var trancheEffectifs = map[string]string{
	"NN": "Unité non-employeuse ou effectif inconnu",
	"00": "0 salarié (ayant employé des salariés au cours de l'année)",
	"01": "1 ou 2 salariés",
	"02": "3 à 5 salariés",
	"03": "6 à 9 salariés",
	"11": "10 à 19 salariés",
	"12": "20 à 49 salariés",
	"21": "50 à 99 salariés",
	"22": "100 à 199 salariés",
	"31": "200 à 249 salariés",
	"32": "250 à 499 salariés",
	"41": "500 à 999 salariés",
	"42": "1 000 à 1 999 salariés",
	"51": "2 000 à 4 999 salariés",
	"52": "5 000 à 9 999 salariés",
	"53": "10 000 salariés et plus",
}

// EffectifInconnu etiqueta mostrada cuando no hay tramo o es "NN".
const EffectifInconnu = "0 à 1"

// EffectifLabel traduce un código de tramo; los códigos desconocidos se devuelven tal cual.
func EffectifLabel(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || code == "NN" {
		return EffectifInconnu
	}
	if label, ok := trancheEffectifs[code]; ok {
		return label
	}
	return code
}

var etatLabels = map[string]string{
	"A": entity.EtatActif,
	"F": "Fermé",
	"C": "Cessé",
}

func etatLabel(code string) string {
	if l, ok := etatLabels[code]; ok {
		return l
	}
	if code == "" {
		return "Inconnu"
	}
	return code
}

// EtatFinal combina el estado del establecimiento y el de la unidad legal:
// "Actif" solo si ambos están activos; un establecimiento no activo muestra su propio estado;
// un establecimiento activo de una unidad legal cerrada se considera "Fermé".
func EtatFinal(etablissement, uniteLegale string) string {
	switch {
	case etablissement == "A" && uniteLegale == "A":
		return entity.EtatActif
	case etablissement != "A":
		return etatLabel(etablissement)
	default:
		return "Fermé"
	}
}

// IsNAFCode un sector con al menos un dígito se interpreta como código NAF/APE.
func IsNAFCode(secteur string) bool {
	return strings.IndexFunc(secteur, unicode.IsDigit) >= 0
}

// NormalizeKeyword quita acentos y signos, pasa a mayúsculas y colapsa espacios.
func NormalizeKeyword(s string) string {
	s = norm.NFD.String(strings.ToUpper(strings.TrimSpace(s)))
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsMark(r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		default:
			if !space && b.Len() > 0 {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// DepartementPrefix prefijo de código postal de un departamento ("2A"/"2B" → "20").
func DepartementPrefix(dep string) string {
	dep = strings.ToUpper(strings.TrimSpace(dep))
	if dep == "2A" || dep == "2B" {
		return "20"
	}
	return dep
}

// BuildQuery construye el parámetro q de la API Sirene /siret.
// Sector numérico → activitePrincipaleUniteLegale; si no, cada palabra de la denominación con comodín.
func BuildQuery(secteur, departement string) string {
	var clauses []string
	if IsNAFCode(secteur) {
		clauses = append(clauses, "activitePrincipaleUniteLegale:"+strings.ToUpper(strings.TrimSpace(secteur)))
	} else {
		for _, w := range strings.Fields(NormalizeKeyword(secteur)) {
			clauses = append(clauses, "denominationUniteLegale:"+w+"*")
		}
	}
	clauses = append(clauses, "codePostalEtablissement:"+DepartementPrefix(departement)+"*")
	return strings.Join(clauses, " AND ")
}
