package agent

import "strings"

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentSchedule     Intent = "agendar"
	IntentList         Intent = "listar"
	IntentCancel       Intent = "cancelar"
	IntentModify       Intent = "modificar"
	IntentAvailability Intent = "disponibilidade"
)

// intentRules are checked in order; the first rule with a matching
// keyword wins. Scheduling is the default when nothing matches, so
// "quero cortar o cabelo" books even without the word "agendar".
var intentRules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentSchedule, []string{"agendar", "marcar", "quero"}},
	{IntentList, []string{"listar", "mostrar", "ver agendamentos"}},
	{IntentCancel, []string{"cancelar", "desmarcar"}},
	{IntentModify, []string{"modificar", "alterar", "mudar"}},
	{IntentAvailability, []string{"disponibilidade", "horarios livres", "disponivel"}},
}

var intentFolder = strings.NewReplacer(
	"á", "a", "â", "a", "ã", "a", "à", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u",
	"ç", "c",
)

// DetectIntent classifies a message by keyword. Accents are folded so
// "disponível" and "disponivel" classify the same.
func DetectIntent(message string) Intent {
	text := intentFolder.Replace(strings.ToLower(message))
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.intent
			}
		}
	}
	return IntentSchedule
}

// knownIntent reports whether s is one of the defined intents.
func knownIntent(s string) bool {
	switch Intent(s) {
	case IntentSchedule, IntentList, IntentCancel, IntentModify, IntentAvailability:
		return true
	}
	return false
}
