package sirene

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// Demo proveedor sin red que devuelve dos establecimientos ficticios (maquetación, demos sin clave).
type Demo struct{}

var _ prospection.EntrepriseSearcher = Demo{}

// Search implementa prospection.EntrepriseSearcher.
func (Demo) Search(_ context.Context, q prospection.SearchQuery) ([]entity.Entreprise, error) {
	title := cases.Title(language.French).String(q.Secteur)
	cp := demoPostalCode(q.Departement)
	return []entity.Entreprise{
		{
			Nom:       fmt.Sprintf("Entreprise %s A (%s)", title, q.Departement),
			Adresse:   fmt.Sprintf("10 Rue de la Demo, %s Ville-Demo", cp),
			Telephone: "01 23 45 67 89",
			Secteur:   q.Secteur,
			Siret:     "12345678900011",
			Siren:     "123456789",
			Dirigeant: "M. Jean Dupont",
			Effectif:  EffectifLabel("03"),
			Etat:      entity.EtatActif,
		},
		{
			Nom:       fmt.Sprintf("Entreprise %s B (%s)", title, q.Departement),
			Adresse:   fmt.Sprintf("25 Avenue Exemple, %s Ville-Exemple", cp),
			Telephone: "01 98 76 54 32",
			Secteur:   q.Secteur,
			Siret:     "98765432100022",
			Siren:     "987654321",
			Dirigeant: "Mme Marie Martin",
			Effectif:  EffectifLabel("11"),
			Etat:      entity.EtatActif,
		},
	}, nil
}

// demoPostalCode completa el prefijo del departamento hasta 5 dígitos ("75" → "75001").
func demoPostalCode(dep string) string {
	p := DepartementPrefix(dep)
	for len(p) < 4 {
		p += "0"
	}
	if len(p) == 4 {
		p += "1"
	}
	return p
}
