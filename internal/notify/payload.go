package notify

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// DefaultIcon is shown by clients when a payload carries no icon.
const DefaultIcon = "/icon-192.png"

// Payload is the message delivered to a channel.
type Payload struct {
	Title string
	Body  string
	URL   string // optional deep link
	Icon  string
}

// Encode renders the payload as a JSON object with title, body, icon and,
// when set, url.
func (p Payload) Encode() ([]byte, error) {
	icon := p.Icon
	if icon == "" {
		icon = DefaultIcon
	}

	fields := map[string]any{
		"title": p.Title,
		"body":  p.Body,
		"icon":  icon,
	}
	if p.URL != "" {
		fields["url"] = p.URL
	}

	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	data, err := protojson.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return data, nil
}
