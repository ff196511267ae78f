package prospection

import (
	"errors"

	"github.com/jhoicas/prospection-api/internal/domain"
)

// Mensajes mostrados al usuario (la interfaz está en francés).
const (
	MsgMissingCriteria  = "Veuillez remplir les champs Secteur et Département."
	MsgNothingToExport  = "Aucune donnée à exporter."
	MsgNoActiveToExport = "Aucune entreprise active à exporter."
	MsgInvalidField     = "Champ inconnu : utilisez funbooster ou observation."
	MsgInvalidInput     = "Requête invalide."
	MsgOPCONotFound     = "Aucun OPCO trouvé pour cet établissement."
	MsgProviderFailure  = "Erreur lors de la recherche : service Sirene indisponible."
	MsgUnauthorized     = "Authentification requise."
)

// UserMessage traduce un error de dominio al mensaje que ve el usuario; "" si no es un error conocido.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrMissingCriteria):
		return MsgMissingCriteria
	case errors.Is(err, domain.ErrNothingToExport):
		return MsgNothingToExport
	case errors.Is(err, domain.ErrNoActiveToExport):
		return MsgNoActiveToExport
	case errors.Is(err, domain.ErrInvalidField):
		return MsgInvalidField
	case errors.Is(err, domain.ErrInvalidInput):
		return MsgInvalidInput
	case errors.Is(err, domain.ErrNotFound):
		return MsgOPCONotFound
	case errors.Is(err, domain.ErrProviderFailure), errors.Is(err, domain.ErrProviderNotConfig):
		return MsgProviderFailure
	case errors.Is(err, domain.ErrUnauthorized):
		return MsgUnauthorized
	}
	return ""
}
