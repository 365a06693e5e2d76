package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AchilleasB/academy-portal/portal-client/internal/core/domain"
)

// Logical action names. The wire names they map to live in Vocabulary.Actions.
const (
	ActionLogin           = "login"
	ActionLoginAdmin      = "loginAdmin"
	ActionRegister        = "register"
	ActionGetStudent      = "getStudent"
	ActionPendingStudents = "pendingStudents"
	ActionApproveStudent  = "approveStudent"
	ActionAllStudents     = "allStudents"
	ActionAllCenters      = "allCenters"
	ActionRegisterCenter  = "registerCenter"
	ActionChangeDegree    = "changeDegree"
)

// Logical request parameter names, mapped through Vocabulary.Params.
const (
	ParamEmail      = "email"
	ParamPassword   = "password"
	ParamAdminKey   = "key"
	ParamName       = "name"
	ParamBelt       = "belt"
	ParamCenter     = "center"
	ParamStudentID  = "studentID"
	ParamDegree     = "degree"
	ParamAdminToken = "adminToken"
	ParamCity       = "city"
	ParamState      = "state"
	ParamManager    = "manager"
)

// Vocabulary is the wire contract with the portal backend. Deployed backend
// revisions disagree on names, so every name is data.
type Vocabulary struct {
	ActionField  string `json:"actionField"`
	SuccessField string `json:"successField"`
	ErrorField   string `json:"errorField"`
	MessageField string `json:"messageField"`

	Actions map[string]string `json:"actions"`
	Params  map[string]string `json:"params"`

	Session  domain.SessionFields `json:"session"`
	Storage  StorageKeys          `json:"storage"`
	Messages Messages             `json:"messages"`
}

type StorageKeys struct {
	Session          string `json:"session"`
	LegacyRole       string `json:"legacyRole"`
	LegacyAdminToken string `json:"legacyAdminToken"`
}

// All returns the keys clearSession removes, primary key first.
func (k StorageKeys) All() []string {
	keys := make([]string, 0, 3)
	for _, key := range []string{k.Session, k.LegacyRole, k.LegacyAdminToken} {
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// Messages are the user-facing texts of failures produced locally.
type Messages struct {
	Timeout         string `json:"timeout"`
	Malformed       string `json:"malformed"`
	Connection      string `json:"connection"`
	BackendGeneric  string `json:"backendGeneric"`
	InvalidAction   string `json:"invalidAction"`
	AdminRequired   string `json:"adminRequired"`
	SessionRequired string `json:"sessionRequired"`
	SessionSave     string `json:"sessionSave"`
	InvalidDegree   string `json:"invalidDegree"`
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		ActionField:  "action",
		SuccessField: "sucesso",
		ErrorField:   "erro",
		MessageField: "mensagem",
		Actions: map[string]string{
			ActionLogin:           "login",
			ActionLoginAdmin:      "loginAdmin",
			ActionRegister:        "registro",
			ActionGetStudent:      "obterAluno",
			ActionPendingStudents: "obterPendentes",
			ActionApproveStudent:  "aprovarAluno",
			ActionAllStudents:     "obterTodosAlunos",
			ActionAllCenters:      "obterTodosCTs",
			ActionRegisterCenter:  "cadastrarCT",
			ActionChangeDegree:    "alterarGrau",
		},
		Params: map[string]string{
			ParamEmail:      "email",
			ParamPassword:   "senha",
			ParamAdminKey:   "chave",
			ParamName:       "nome",
			ParamBelt:       "faixa",
			ParamCenter:     "ct",
			ParamStudentID:  "alunoID",
			ParamDegree:     "novoGrau",
			ParamAdminToken: "adminToken",
			ParamCity:       "cidade",
			ParamState:      "estado",
			ParamManager:    "responsavel",
		},
		Session: domain.SessionFields{
			User:       "user",
			ID:         "id",
			Name:       "nome",
			Email:      "email",
			Belt:       "faixa",
			Degree:     "grau",
			Center:     "ct",
			Status:     "status",
			Role:       "role",
			AdminToken: "adminToken",
		},
		Storage: StorageKeys{
			Session:          "academy_user",
			LegacyRole:       "academy_role",
			LegacyAdminToken: "academy_admin_token",
		},
		Messages: Messages{
			Timeout:         "Tempo limite da requisição excedido",
			Malformed:       "Erro ao processar resposta",
			Connection:      "Erro de conexão: ",
			BackendGeneric:  "Erro desconhecido no servidor",
			InvalidAction:   "Ação inválida",
			AdminRequired:   "Sessão de administrador necessária",
			SessionRequired: "Sessão necessária",
			SessionSave:     "Não foi possível salvar a sessão",
			InvalidDegree:   "Grau deve estar entre 0 e 4",
		},
	}
}

// LoadVocabulary reads a JSON vocabulary file and overlays it on the
// defaults. An empty path returns the defaults unchanged.
func LoadVocabulary(path string) (Vocabulary, error) {
	vocab := DefaultVocabulary()
	if path == "" {
		return vocab, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return vocab, fmt.Errorf("read vocabulary %s: %w", path, err)
	}

	// Decode into a copy whose maps are empty so map entries merge instead
	// of being replaced wholesale.
	overlay := vocab
	overlay.Actions = map[string]string{}
	overlay.Params = map[string]string{}
	if err := json.Unmarshal(data, &overlay); err != nil {
		return vocab, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}

	for k, v := range overlay.Actions {
		vocab.Actions[k] = v
	}
	for k, v := range overlay.Params {
		vocab.Params[k] = v
	}
	overlay.Actions = vocab.Actions
	overlay.Params = vocab.Params
	return overlay, nil
}

// Action returns the wire name of a logical action. Unknown names are sent
// as given.
func (v Vocabulary) Action(name string) string {
	if wire, ok := v.Actions[name]; ok && wire != "" {
		return wire
	}
	return name
}

// Param returns the wire name of a logical parameter.
func (v Vocabulary) Param(name string) string {
	if wire, ok := v.Params[name]; ok && wire != "" {
		return wire
	}
	return name
}
