package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeContent(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{
			name: "text body",
			msg:  Message{Type: "text", Text: &TextMessage{Body: "hello there"}},
			want: "hello there",
		},
		{
			name: "image with caption",
			msg:  Message{Type: "image", Image: &MediaInfo{ID: "m1", Caption: "our storefront"}},
			want: "our storefront",
		},
		{
			name: "image without caption",
			msg:  Message{Type: "image", Image: &MediaInfo{ID: "m1"}},
			want: "[Image]",
		},
		{
			name: "document keeps filename",
			msg:  Message{Type: "document", Document: &MediaInfo{ID: "m2", Filename: "invoice.pdf"}},
			want: "[Document: invoice.pdf]",
		},
		{
			name: "audio",
			msg:  Message{Type: "audio", Audio: &MediaInfo{ID: "m3"}},
			want: "[Voice Message]",
		},
		{
			name: "video",
			msg:  Message{Type: "video", Video: &MediaInfo{ID: "m4"}},
			want: "[Video]",
		},
		{
			name: "location",
			msg:  Message{Type: "location", Location: &Location{Latitude: -23.55, Longitude: -46.633}},
			want: "[Location: -23.55, -46.633]",
		},
		{
			name: "quick reply button",
			msg:  Message{Type: "button", Button: &Button{Text: "Yes, confirm"}},
			want: "Yes, confirm",
		},
		{
			name: "interactive button reply",
			msg: Message{Type: "interactive", Interactive: &Interactive{
				Type:        "button_reply",
				ButtonReply: &ButtonReply{ID: "b1", Title: "Track order"},
			}},
			want: "Track order",
		},
		{
			name: "interactive list reply",
			msg: Message{Type: "interactive", Interactive: &Interactive{
				Type:      "list_reply",
				ListReply: &ListReply{ID: "l1", Title: "Store hours"},
			}},
			want: "Store hours",
		},
		{
			name: "unknown type",
			msg:  Message{Type: "sticker"},
			want: "[Unsupported message type: sticker]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeContent(&tt.msg))
		})
	}
}

func TestMediaID(t *testing.T) {
	assert.Equal(t, "m1", mediaID(&Message{Type: "image", Image: &MediaInfo{ID: "m1"}}))
	assert.Equal(t, "m2", mediaID(&Message{Type: "document", Document: &MediaInfo{ID: "m2"}}))
	assert.Equal(t, "", mediaID(&Message{Type: "text"}))
	assert.Equal(t, "", mediaID(&Message{Type: "image"}))
}
