package domain

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageAudio MessageType = "audio"
	MessageImage MessageType = "image"
	MessageFile  MessageType = "file"
)

// Valid reports whether t is one of the known message types.
func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageAudio, MessageImage, MessageFile:
		return true
	}
	return false
}

// TitleChoice is an entry of the guided column picker.
type TitleChoice string

const (
	TitleUnread      TitleChoice = "nao_lida"
	TitleWaiting     TitleChoice = "aguardando"
	TitleUnscheduled TitleChoice = "sem_agendamento"
	TitleSlotIn      TitleChoice = "encaixe"
	TitleFinished    TitleChoice = "finalizada"
	// TitleCustom means the column title is taken from free text.
	TitleCustom TitleChoice = "custom"
)

// TitleChoices lists the picker entries in display order.
var TitleChoices = []TitleChoice{
	TitleUnread,
	TitleWaiting,
	TitleUnscheduled,
	TitleSlotIn,
	TitleFinished,
	TitleCustom,
}

var titleLabels = map[TitleChoice]string{
	TitleUnread:      "Não lida",
	TitleWaiting:     "Aguardando",
	TitleUnscheduled: "Sem agendamento",
	TitleSlotIn:      "Encaixe",
	TitleFinished:    "Finalizada",
	TitleCustom:      "Título Personalizado",
}

// Label returns the human-readable title for the choice.
func (c TitleChoice) Label() string {
	return titleLabels[c]
}

// Known reports whether c is one of the picker entries.
func (c TitleChoice) Known() bool {
	_, ok := titleLabels[c]
	return ok
}

type DeletePolicy string

const (
	// DeleteReassign moves the cards of a deleted column to a fallback column.
	DeleteReassign DeletePolicy = "reassign"
	// DeleteBlock refuses to delete a column that still holds cards.
	DeleteBlock DeletePolicy = "block"
)

// Valid reports whether p is a supported deletion policy.
func (p DeletePolicy) Valid() bool {
	return p == DeleteReassign || p == DeleteBlock
}

// DefaultIcon is used when a column is created without an icon.
const DefaultIcon = "📋"

// IconCategory groups palette glyphs for the column picker.
type IconCategory struct {
	Name  string
	Icons []string
}

// IconPalette is the curated set of column icons.
var IconPalette = []IconCategory{
	{Name: "Expressões", Icons: []string{"😊", "😂", "😍", "🤔", "😎", "😴", "😇", "🤗"}},
	{Name: "Objetos", Icons: []string{"📋", "📝", "📌", "📎", "✅", "⭐", "💬", "📞"}},
	{Name: "Símbolos", Icons: []string{"❤️", "💯", "⚡", "🔥", "✨", "💫", "🎯", "💪"}},
	{Name: "Bandeiras", Icons: []string{"🔵", "🔴", "⚫", "⚪", "🟢", "🟡", "🟣", "🟤"}},
}

// DefaultColumns is the board layout installed into an empty registry.
func DefaultColumns() []*Column {
	return []*Column{
		{ID: "nao_lidas", Title: "Não Lidas", Icon: "🔵", Order: 0},
		{ID: "aguardando", Title: "Aguardando", Icon: "🟠", Order: 1},
		{ID: "sem_agenda", Title: "Sem Agenda", Icon: "⚙️", Order: 2},
		{ID: "encaixe", Title: "Encaixe", Icon: "💬", Order: 3},
		{ID: "finalizado", Title: "Finalizado", Icon: "✅", Order: 4},
	}
}
