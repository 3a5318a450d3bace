// Пакет partials — фрагменты страниц для HTMX-ответов и полных страниц:
// сообщение о статусе, форма пожертвования, карточки и списки записей.
package partials

// MessageKind — вид сообщения о статусе.
type MessageKind string

const (
	MessageNone    MessageKind = ""
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// MessageData — содержимое области #message.
type MessageData struct {
	Kind MessageKind
	Text string
}
