// Package roles maps normalized source headers to the fixed semantic roles
// of the accident schema. Source extracts disagree wildly on header naming,
// so resolution is a heuristic: exact candidate match first, substring
// match second, unresolved roles simply absent.
package roles

// Role is one semantic column of the canonical accident schema. The string
// value doubles as the canonical column name in the enriched table.
type Role string

const (
	Date                 Role = "data"
	State                Role = "uf"
	Sector               Role = "setor"
	SectorCode           Role = "cnae_codigo"
	Injury               Role = "lesao"
	Agent                Role = "origem"
	AccidentType         Role = "tipo_acidente"
	Municipality         Role = "municipio"
	EmployerMunicipality Role = "munic_empr"
	EmployerState        Role = "uf_munic_empregador"
)

// All lists every role in resolution order.
var All = []Role{
	Date, State, Sector, SectorCode, Injury,
	Agent, AccidentType, Municipality, EmployerMunicipality, EmployerState,
}

// Required is the minimum set for the full dashboard experience. Missing
// required roles degrade the views, they never abort a load.
var Required = []Role{Date, State, Sector, Injury, Agent, AccidentType}

// patterns lists candidate normalized header names per role, in priority
// order. Collected from real CAT extracts; the same header may satisfy
// several roles and each role binds independently.
var patterns = map[Role][]string{
	Date:                 {"data_acidente", "data", "dt_acidente", "dataacidente", "data_acidente_1", "datadoacidente"},
	State:                {"uf_munic_acidente", "uf", "uf_municipio", "uf_acidente", "uf_munic_empregador", "ufmunicempregador"},
	Sector:               {"cnae2_0_empregador_1", "setor", "cnae_descricao", "atividade", "empregador", "cnae20empregador1"},
	SectorCode:           {"cnae2_0_empregador", "cnae", "cnae_codigo", "codigo_cnae", "cnae20empregador"},
	Injury:               {"natureza_da_lesao", "lesao", "natureza_lesao", "tipo_lesao", "naturezalesao"},
	Agent:                {"agente_causador_acidente", "origem", "agente_causador", "causa", "agentecausadoracidente"},
	AccidentType:         {"tipo_do_acidente", "tipo_acidente", "acidente_tipo", "tipodoacidente"},
	Municipality:         {"municipio", "munic", "municipio_acidente", "munic_empr", "municempr"},
	EmployerMunicipality: {"munic_empr", "municipio_empregador", "municempregador", "munic_empregador"},
	EmployerState:        {"uf_munic_empregador", "ufempregador", "uf_municipio_empregador", "ufmunicempregador"},
}

// Mapping binds resolved roles to actual column names. Unresolved roles are
// simply absent.
type Mapping map[Role]string

// Missing returns the subset of required roles the mapping did not bind.
func (m Mapping) Missing(required []Role) []Role {
	var missing []Role
	for _, r := range required {
		if _, ok := m[r]; !ok {
			missing = append(missing, r)
		}
	}
	return missing
}

// Resolver binds roles to the headers of a normalized table. The two
// implementations differ in failure behavior: Detect degrades, Fixed is
// fatal on a missing column.
type Resolver interface {
	Resolve(headers []string) (Mapping, error)
}
