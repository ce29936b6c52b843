package whatsapp

import (
	"fmt"
	"strconv"
)

// NormalizeContent flattens an inbound message into the text stored in the
// messages table. Media and structured types become placeholders; the stored
// "type" field keeps the original shape. The mapping is lossy and one-way.
func NormalizeContent(msg *Message) string {
	switch msg.Type {
	case "text":
		if msg.Text != nil {
			return msg.Text.Body
		}
		return ""
	case "image":
		if msg.Image != nil && msg.Image.Caption != "" {
			return msg.Image.Caption
		}
		return "[Image]"
	case "document":
		filename := ""
		if msg.Document != nil {
			filename = msg.Document.Filename
		}
		return fmt.Sprintf("[Document: %s]", filename)
	case "audio":
		return "[Voice Message]"
	case "video":
		return "[Video]"
	case "location":
		if msg.Location != nil {
			return fmt.Sprintf("[Location: %s, %s]",
				strconv.FormatFloat(msg.Location.Latitude, 'f', -1, 64),
				strconv.FormatFloat(msg.Location.Longitude, 'f', -1, 64))
		}
		return "[Location: , ]"
	case "button":
		if msg.Button != nil {
			return msg.Button.Text
		}
		return ""
	case "interactive":
		if msg.Interactive != nil {
			if msg.Interactive.ButtonReply != nil {
				return msg.Interactive.ButtonReply.Title
			}
			if msg.Interactive.ListReply != nil {
				return msg.Interactive.ListReply.Title
			}
		}
		return ""
	default:
		return fmt.Sprintf("[Unsupported message type: %s]", msg.Type)
	}
}

// mediaID extracts the provider media id for downloadable message types.
func mediaID(msg *Message) string {
	switch msg.Type {
	case "image":
		if msg.Image != nil {
			return msg.Image.ID
		}
	case "document":
		if msg.Document != nil {
			return msg.Document.ID
		}
	case "audio":
		if msg.Audio != nil {
			return msg.Audio.ID
		}
	case "video":
		if msg.Video != nil {
			return msg.Video.ID
		}
	}
	return ""
}
