package entity

// Fuentes posibles de una resolución OPCO.
const (
	OPCOSourceFranceCompetences = "france_competences"
	OPCOSourceMapping           = "mapping_ape"
)

// OPCO operador de competencias (y convención colectiva IDCC) de un establecimiento.
type OPCO struct {
	Siret  string
	Name   string
	IDCC   string
	Source string
}

// Found informa si se obtuvo al menos el OPCO o el IDCC.
func (o OPCO) Found() bool {
	return o.Name != "" || o.IDCC != ""
}
