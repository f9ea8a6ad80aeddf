package wizard

import "strings"

const (
	MaxAttachments    = 5
	MaxAttachmentSize = 5 << 20 // 5 MiB
)

// Attachment es una imagen en espera de envío.
type Attachment struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Acceptable indica si la imagen cumple tipo y tamaño.
func (a Attachment) Acceptable() bool {
	if !strings.HasPrefix(strings.ToLower(a.ContentType), "image/") {
		return false
	}
	return a.Size <= MaxAttachmentSize
}

// AttachmentSet es la lista ordenada de imágenes preparadas.
// Sin deduplicación; solo crece por Add y solo se achica por Remove.
type AttachmentSet struct {
	items []Attachment
}

// Add recorre los candidatos en orden y agrega los aceptables mientras haya
// cupo. Los rechazados se descartan sin error. Devuelve cuántos entraron.
func (s *AttachmentSet) Add(candidates ...Attachment) int {
	added := 0
	for _, c := range candidates {
		if len(s.items) >= MaxAttachments {
			break
		}
		if !c.Acceptable() {
			continue
		}
		s.items = append(s.items, c)
		added++
	}
	return added
}

// Remove quita la entrada en index; los índices siguientes bajan en uno.
func (s *AttachmentSet) Remove(index int) bool {
	if index < 0 || index >= len(s.items) {
		return false
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return true
}

func (s *AttachmentSet) Len() int { return len(s.items) }

// Items devuelve una copia en orden de preparación.
func (s *AttachmentSet) Items() []Attachment {
	return append([]Attachment(nil), s.items...)
}
